// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds the client-side key material handling of the vault
// client: the symmetric primitives ([KeyManager]), secret derivation from a
// key-deriving key and a password ([DeriveSecret]) and the vault blob
// envelope ([BlobCipher]).
//
// Derived secrets live in memguard locked buffers and are wiped by
// [Secret.Destroy]. Intermediate key-stretching outputs are wiped as soon as
// they have been combined.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/key_manager_mock.go -package=mock

// KeyManager provides the symmetric cipher, key-stretching and randomness
// primitives the vault client is built on.
type KeyManager interface {
	// DeriveKey stretches password with salt using the given number of
	// PBKDF2-SHA256 rounds and returns a KeySize byte key.
	DeriveKey(password, salt []byte, rounds uint32) ([]byte, error)

	// Encrypt encrypts data with AES-256-CBC and PKCS#7 padding.
	Encrypt(key, iv, data []byte) ([]byte, error)

	// Decrypt reverses Encrypt, stripping and validating the padding.
	Decrypt(key, iv, data []byte) ([]byte, error)

	// RandomBytes returns n bytes from the OS CSPRNG.
	RandomBytes(n int) ([]byte, error)
}
