// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// InitializationData is the per-user registration record: the owner id plus
// the two salts and the PBKDF round count used to derive the authentication
// and encryption secrets. It is replaced wholesale, never mutated.
type InitializationData struct {
	Owner              string
	AuthenticationSalt []byte
	EncryptionSalt     []byte
	PbkdfRounds        uint32
}

// Owner is an external identity reference attached to a vault.
type Owner struct {
	ID     string `json:"id"`
	Issuer string `json:"issuer"`
}

// VaultMetadata describes a stored vault without its content.
//
// Version is the optimistic-concurrency field: an update must carry the
// version currently stored by the service or it is rejected.
type VaultMetadata struct {
	ID         string
	Owner      string
	Version    int
	BlobFormat string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Owners     []Owner
}

// Vault is VaultMetadata plus the decrypted blob. It only exists in memory.
type Vault struct {
	VaultMetadata
	Blob []byte
}

// AuthenticationTokens is the result of a successful sign-in.
type AuthenticationTokens struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	Lifetime     int
}

// VaultChanges is the difference between two metadata listings. Updated
// holds vaults whose version changed, with their new metadata.
type VaultChanges struct {
	Added   []VaultMetadata
	Updated []VaultMetadata
	Removed []VaultMetadata
}

// Empty reports whether nothing changed.
func (c VaultChanges) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}
