// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-secure-vault/internal/crypto"
	"github.com/MKhiriev/go-secure-vault/internal/tui"
)

// Prompter asks the user for passwords and confirmations.
type Prompter interface {
	Passwords(ctx context.Context, title string, fields ...tui.Field) ([][]byte, error)
	Confirm(ctx context.Context, message string) (bool, error)
}

func defaultKeyFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "vaultctl.key"
	}
	return filepath.Join(dir, "vaultctl", "key")
}

// writeKeyFile stores a fresh key-deriving key as base64.
func writeKeyFile(km crypto.KeyManager, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrKeyFileExists, path)
	}

	key, err := km.RandomBytes(crypto.KeySize)
	if err != nil {
		return fmt.Errorf("error generating key: %w", err)
	}
	defer memguard.WipeBytes(key)

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(key)))
	base64.StdEncoding.Encode(encoded, key)
	defer memguard.WipeBytes(encoded)

	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("error creating key directory: %w", err)
	}
	if err = os.WriteFile(path, append(encoded, '\n'), 0o600); err != nil {
		return fmt.Errorf("error writing key file: %w", err)
	}
	return nil
}

// readKeyFile returns the decoded key. The caller wipes it.
func readKeyFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrKeyFileMissing
	}
	if err != nil {
		return nil, fmt.Errorf("error reading key file: %w", err)
	}
	defer memguard.WipeBytes(raw)

	trimmed := bytes.TrimSpace(raw)
	key := make([]byte, base64.StdEncoding.DecodedLen(len(trimmed)))
	n, err := base64.StdEncoding.Decode(key, trimmed)
	if err != nil || n == 0 {
		memguard.WipeBytes(key)
		return nil, ErrKeyFileInvalid
	}
	return key[:n], nil
}

// stdinPasswords reads one password per line. Fields marked Repeat reuse
// the previous value.
type stdinPasswords struct {
	r *bufio.Reader
}

func newStdinPasswords(in io.Reader) *stdinPasswords {
	return &stdinPasswords{r: bufio.NewReader(in)}
}

func (s *stdinPasswords) Passwords(_ context.Context, _ string, fields ...tui.Field) ([][]byte, error) {
	out := make([][]byte, 0, len(fields))
	for i, f := range fields {
		if f.Repeat && i > 0 {
			out = append(out, bytes.Clone(out[i-1]))
			continue
		}

		line, err := s.r.ReadBytes('\n')
		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			wipeAll(out)
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("error reading password: %w", err)
			}
			return nil, ErrMissingPassword
		}
		out = append(out, line)
	}
	return out, nil
}

// Confirm never asks: piped input has nobody to answer.
func (s *stdinPasswords) Confirm(context.Context, string) (bool, error) {
	return false, nil
}

func wipeAll(secrets [][]byte) {
	for _, s := range secrets {
		memguard.WipeBytes(s)
	}
}
