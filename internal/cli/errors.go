// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import "errors"

var (
	ErrKeyFileExists    = errors.New("key file already exists")
	ErrKeyFileMissing   = errors.New("key file not found: run 'vaultctl keygen' first")
	ErrKeyFileInvalid   = errors.New("key file does not hold a base64 key")
	ErrNoBlobInput      = errors.New("one of --data or --file is required")
	ErrTooManyBlobInput = errors.New("--data and --file are mutually exclusive")
	ErrStdinInUse       = errors.New("--file - cannot be combined with --password-stdin")
	ErrMissingPassword  = errors.New("not enough passwords on standard input")
	ErrVaultNotFound    = errors.New("vault not found")
	ErrAborted          = errors.New("aborted")
)
