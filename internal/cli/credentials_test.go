// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-secure-vault/internal/tui"
)

func TestReadKeyFile(t *testing.T) {
	dir := t.TempDir()

	_, err := readKeyFile(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrKeyFileMissing)

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte("not base64!"), 0o600))
	_, err = readKeyFile(bad)
	assert.ErrorIs(t, err, ErrKeyFileInvalid)

	good := filepath.Join(dir, "good")
	require.NoError(t, os.WriteFile(good, []byte("AQID\n"), 0o600))
	key, err := readKeyFile(good)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, key)
}

func TestStdinPasswords(t *testing.T) {
	s := newStdinPasswords(strings.NewReader("old\r\nnew\n"))

	got, err := s.Passwords(context.Background(), "change",
		tui.Field{Label: "old"},
		tui.Field{Label: "new"},
		tui.Field{Label: "repeat", Repeat: true},
	)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("old"), []byte("new"), []byte("new")}, got)

	_, err = s.Passwords(context.Background(), "unlock", tui.Field{Label: "password"})
	assert.ErrorIs(t, err, ErrMissingPassword)
}

func TestStdinPasswords_LastLineWithoutNewline(t *testing.T) {
	s := newStdinPasswords(strings.NewReader("only"))

	got, err := s.Passwords(context.Background(), "unlock", tui.Field{Label: "password"})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("only")}, got)
}
