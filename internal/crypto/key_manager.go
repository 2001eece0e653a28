// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the size of derived keys and secrets (AES-256).
	KeySize = 32
	// SaltSize is the size of the authentication and encryption salts.
	SaltSize = 32
	// BlockSize is the AES block size.
	BlockSize = aes.BlockSize
	// IVSize is the size of the initialization vector appended to blobs.
	IVSize = aes.BlockSize
	// EncryptionMethod tags blobs produced by BlobCipher on the wire.
	EncryptionMethod = "AES/CBC/PKCS7Padding"
)

type keyManager struct {
	random io.Reader
}

// NewKeyManager returns the default [KeyManager] backed by crypto/rand,
// PBKDF2-SHA256 and AES-256-CBC.
func NewKeyManager() KeyManager {
	return &keyManager{random: rand.Reader}
}

// DeriveKey implements [KeyManager].
func (k *keyManager) DeriveKey(password, salt []byte, rounds uint32) ([]byte, error) {
	if rounds == 0 {
		return nil, ErrInvalidRounds
	}
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}

	return pbkdf2.Key(password, salt, int(rounds), KeySize, sha256.New), nil
}

// Encrypt implements [KeyManager]. The ciphertext is always a non-zero
// multiple of BlockSize since a full padding block is added to aligned input.
func (k *keyManager) Encrypt(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, ErrInvalidIV
	}

	padded := pkcs7Pad(data, block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return out, nil
}

// Decrypt implements [KeyManager].
func (k *keyManager) Decrypt(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, ErrInvalidIV
	}
	if len(data) == 0 || len(data)%block.BlockSize() != 0 {
		return nil, ErrInvalidCiphertextLength
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)

	plain, err := pkcs7Unpad(out, block.BlockSize())
	if err != nil {
		return nil, err
	}

	return plain, nil
}

// RandomBytes implements [KeyManager].
func (k *keyManager) RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(k.random, buf); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return buf, nil
}
