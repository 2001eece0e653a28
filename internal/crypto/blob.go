// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"

	"github.com/MKhiriev/go-secure-vault/models"
)

// BlobCipher seals vault content as ciphertext || iv.
type BlobCipher struct {
	km KeyManager
}

func NewBlobCipher(km KeyManager) *BlobCipher {
	return &BlobCipher{km: km}
}

// Seal encrypts plaintext under secret with a fresh IV and appends the IV.
func (c *BlobCipher) Seal(secret, plaintext []byte) ([]byte, error) {
	iv, err := c.km.RandomBytes(IVSize)
	if err != nil {
		return nil, models.WrapFatal("failed to generate initialization vector", err)
	}

	encrypted, err := c.km.Encrypt(secret, iv, plaintext)
	if err != nil {
		return nil, models.WrapFatal("failed to encrypt vault", err)
	}

	return append(encrypted, iv...), nil
}

// SealEncoded is Seal followed by standard base64 encoding.
func (c *BlobCipher) SealEncoded(secret, plaintext []byte) (string, error) {
	sealed, err := c.Seal(secret, plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open splits the trailing IV off blob and decrypts the rest. Blobs shorter
// than one cipher block plus the IV, or whose ciphertext is not a whole
// number of blocks, fail with models.ErrVaultInvalid without attempting
// decryption.
func (c *BlobCipher) Open(secret, blob []byte) ([]byte, error) {
	if len(blob) < BlockSize+IVSize || (len(blob)-IVSize)%BlockSize != 0 {
		return nil, models.ErrVaultInvalid
	}

	split := len(blob) - IVSize
	plain, err := c.km.Decrypt(secret, blob[split:], blob[:split])
	if err != nil {
		return nil, models.WrapFatal("failed to decrypt vault", err)
	}

	return plain, nil
}

// OpenEncoded base64-decodes blob and opens it. A decoding failure is
// reported as models.ErrVaultInvalid.
func (c *BlobCipher) OpenEncoded(secret []byte, blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, &models.VaultError{
			Kind:        models.KindFatalError,
			Description: models.ErrVaultInvalid.Description,
			Cause:       err,
		}
	}

	return c.Open(secret, raw)
}
