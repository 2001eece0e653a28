// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"time"

	"github.com/MKhiriev/go-secure-vault/models"
)

// OwnerRecord is the wire form of models.Owner.
type OwnerRecord struct {
	ID     string `json:"id"`
	Issuer string `json:"issuer"`
}

// VaultRecord is the wire form of a vault. Blob is only present on
// content-bearing queries and holds base64 ciphertext.
type VaultRecord struct {
	ID               string        `json:"id"`
	Version          int           `json:"version"`
	CreatedAtEpochMs float64       `json:"createdAtEpochMs"`
	UpdatedAtEpochMs float64       `json:"updatedAtEpochMs"`
	Owner            string        `json:"owner"`
	Blob             string        `json:"blob"`
	BlobFormat       string        `json:"blobFormat"`
	EncryptionMethod string        `json:"encryptionMethod"`
	Owners           []OwnerRecord `json:"owners"`
}

// Metadata converts the record to models.VaultMetadata.
func (r VaultRecord) Metadata() models.VaultMetadata {
	owners := make([]models.Owner, 0, len(r.Owners))
	for _, o := range r.Owners {
		owners = append(owners, models.Owner{ID: o.ID, Issuer: o.Issuer})
	}

	return models.VaultMetadata{
		ID:         r.ID,
		Owner:      r.Owner,
		Version:    r.Version,
		BlobFormat: r.BlobFormat,
		CreatedAt:  epochMsToTime(r.CreatedAtEpochMs),
		UpdatedAt:  epochMsToTime(r.UpdatedAtEpochMs),
		Owners:     owners,
	}
}

// VaultConnection is one page of a vault listing.
type VaultConnection struct {
	Items     []VaultRecord `json:"items"`
	NextToken *string       `json:"nextToken"`
}

// InitializationDataRecord is the wire form of models.InitializationData.
// Salts are base64.
type InitializationDataRecord struct {
	Owner              string `json:"owner"`
	EncryptionSalt     string `json:"encryptionSalt"`
	AuthenticationSalt string `json:"authenticationSalt"`
	PbkdfRounds        int    `json:"pbkdfRounds"`
}

type DeregisterRecord struct {
	Username string `json:"username"`
}

type CreateVaultInput struct {
	Token            string   `json:"token"`
	Blob             string   `json:"blob"`
	BlobFormat       string   `json:"blobFormat"`
	EncryptionMethod string   `json:"encryptionMethod"`
	OwnershipProofs  []string `json:"ownershipProofs"`
}

type UpdateVaultInput struct {
	Token            string `json:"token"`
	ID               string `json:"id"`
	ExpectedVersion  int    `json:"expectedVersion"`
	Blob             string `json:"blob"`
	BlobFormat       string `json:"blobFormat"`
	EncryptionMethod string `json:"encryptionMethod"`
}

type DeleteVaultInput struct {
	ID string `json:"id"`
}

func epochMsToTime(ms float64) time.Time {
	return time.UnixMilli(int64(ms))
}
