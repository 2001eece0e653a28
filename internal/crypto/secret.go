// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-secure-vault/models"
)

// Secret is a derived key held in a memguard locked buffer.
//
// A Secret is owned by exactly one client call. Destroy wipes the bytes and
// may be called any number of times; only the first call has an effect.
type Secret struct {
	buf  *memguard.LockedBuffer
	once sync.Once
}

// NewSecret moves b into locked memory. b is wiped.
func NewSecret(b []byte) *Secret {
	return &Secret{buf: memguard.NewBufferFromBytes(b)}
}

// Bytes returns the secret bytes. The slice aliases locked memory and must
// not be retained past Destroy.
func (s *Secret) Bytes() []byte {
	return s.buf.Bytes()
}

// Len returns the secret size, or 0 once destroyed.
func (s *Secret) Len() int {
	return s.buf.Size()
}

// Base64 returns the standard base64 encoding of the secret. This is the
// form presented to the identity provider as a password.
func (s *Secret) Base64() string {
	return base64.StdEncoding.EncodeToString(s.buf.Bytes())
}

// Destroy wipes and releases the secret.
func (s *Secret) Destroy() {
	s.once.Do(s.buf.Destroy)
}

// Destroyed reports whether Destroy has run.
func (s *Secret) Destroyed() bool {
	return !s.buf.IsAlive()
}

// Xor returns a ^ b. Both operands must have the same length.
func Xor(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, models.ErrXorLengthMismatch
	}

	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}

// DeriveSecret binds keyMaterial and password into one secret:
//
//	PBKDF2(keyMaterial, salt, 1) XOR PBKDF2(password, salt, rounds)
//
// Calling it with the authentication salt and the encryption salt yields two
// uncorrelated secrets from the same credentials.
func DeriveSecret(km KeyManager, keyMaterial, password, salt []byte, rounds uint32) (*Secret, error) {
	keyStretch, err := km.DeriveKey(keyMaterial, salt, 1)
	if err != nil {
		return nil, models.WrapFatal("failed to stretch key material", err)
	}
	defer memguard.WipeBytes(keyStretch)

	passwordStretch, err := km.DeriveKey(password, salt, rounds)
	if err != nil {
		return nil, models.WrapFatal("failed to stretch password", err)
	}
	defer memguard.WipeBytes(passwordStretch)

	secret, err := Xor(passwordStretch, keyStretch)
	if err != nil {
		return nil, err
	}

	return NewSecret(secret), nil
}
