// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

// Primitive-level errors returned by the default [KeyManager].
var (
	ErrInvalidRounds           = errors.New("pbkdf rounds must be at least 1")
	ErrEmptySalt               = errors.New("salt is empty")
	ErrInvalidIV               = errors.New("initialization vector has wrong size")
	ErrInvalidCiphertextLength = errors.New("ciphertext is not a multiple of the block size")
	ErrInvalidPadding          = errors.New("invalid PKCS#7 padding")
)
