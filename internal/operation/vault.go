// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package operation

import (
	"context"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/crypto"
	"github.com/MKhiriev/go-secure-vault/internal/logger"
	"github.com/MKhiriev/go-secure-vault/models"
)

// CreateVault encrypts a blob and stores it as a new vault. It needs a
// vault user token under KeyToken in its input.
type CreateVault struct {
	*Operation

	VaultMetadata models.VaultMetadata
}

func NewCreateVault(
	client adapter.GraphQLClient,
	cipher *crypto.BlobCipher,
	encryptionSecret *crypto.Secret,
	blob []byte,
	blobFormat string,
	ownershipProofs []string,
	log *logger.Logger,
) *CreateVault {
	op := &CreateVault{}
	op.Operation = newOperation("CreateVault", log, func(ctx context.Context) error {
		token, err := op.token()
		if err != nil {
			return err
		}

		sealed, err := cipher.SealEncoded(encryptionSecret.Bytes(), blob)
		if err != nil {
			return err
		}

		proofs := ownershipProofs
		if proofs == nil {
			proofs = []string{}
		}
		res, err := checkResult(client.Perform(ctx, adapter.NewCreateVaultMutation(adapter.CreateVaultInput{
			Token:            token,
			Blob:             sealed,
			BlobFormat:       blobFormat,
			EncryptionMethod: crypto.EncryptionMethod,
			OwnershipProofs:  proofs,
		})))
		if err != nil {
			return err
		}

		var rec adapter.VaultRecord
		found, err := decodeField(res, adapter.FieldCreateVault, &rec)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrResultMissing
		}

		op.VaultMetadata = rec.Metadata()
		return nil
	})
	return op
}

// UpdateVault replaces the content of an existing vault. version must match
// the version stored by the service.
type UpdateVault struct {
	*Operation

	VaultMetadata models.VaultMetadata
}

func NewUpdateVault(
	client adapter.GraphQLClient,
	cipher *crypto.BlobCipher,
	encryptionSecret *crypto.Secret,
	id string,
	version int,
	blob []byte,
	blobFormat string,
	log *logger.Logger,
) *UpdateVault {
	op := &UpdateVault{}
	op.Operation = newOperation("UpdateVault", log, func(ctx context.Context) error {
		token, err := op.token()
		if err != nil {
			return err
		}

		sealed, err := cipher.SealEncoded(encryptionSecret.Bytes(), blob)
		if err != nil {
			return err
		}

		res, err := checkResult(client.Perform(ctx, adapter.NewUpdateVaultMutation(adapter.UpdateVaultInput{
			Token:            token,
			ID:               id,
			ExpectedVersion:  version,
			Blob:             sealed,
			BlobFormat:       blobFormat,
			EncryptionMethod: crypto.EncryptionMethod,
		})))
		if err != nil {
			return err
		}

		var rec adapter.VaultRecord
		found, err := decodeField(res, adapter.FieldUpdateVault, &rec)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrResultMissing
		}

		op.VaultMetadata = rec.Metadata()
		return nil
	})
	return op
}

// DeleteVault deletes a vault by id. It needs no vault user token; the
// service authorizes the call with the session ID token.
type DeleteVault struct {
	*Operation

	VaultMetadata models.VaultMetadata
}

func NewDeleteVault(client adapter.GraphQLClient, id string, log *logger.Logger) *DeleteVault {
	op := &DeleteVault{}
	op.Operation = newOperation("DeleteVault", log, func(ctx context.Context) error {
		res, err := checkResult(client.Perform(ctx, adapter.NewDeleteVaultMutation(adapter.DeleteVaultInput{ID: id})))
		if err != nil {
			return err
		}

		var rec adapter.VaultRecord
		found, err := decodeField(res, adapter.FieldDeleteVault, &rec)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrResultMissing
		}

		op.VaultMetadata = rec.Metadata()
		return nil
	})
	return op
}

// GetVault fetches and decrypts one vault. Vault stays nil when the service
// has no vault with the id.
type GetVault struct {
	*Operation

	Vault *models.Vault
}

func NewGetVault(
	client adapter.GraphQLClient,
	cipher *crypto.BlobCipher,
	encryptionSecret *crypto.Secret,
	id string,
	log *logger.Logger,
) *GetVault {
	op := &GetVault{}
	op.Operation = newOperation("GetVault", log, func(ctx context.Context) error {
		token, err := op.token()
		if err != nil {
			return err
		}

		res, err := checkResult(client.Fetch(ctx, adapter.NewGetVaultQuery(token, id), adapter.FetchIgnoringCacheData))
		if err != nil {
			return err
		}

		var rec adapter.VaultRecord
		found, err := decodeField(res, adapter.FieldGetVault, &rec)
		if err != nil || !found {
			return err
		}

		vault, err := openVault(cipher, encryptionSecret, rec)
		if err != nil {
			op.logger.Error().Err(err).Str("vault_id", rec.ID).Msg("failed to open vault")
			return err
		}

		op.Vault = &vault
		return nil
	})
	return op
}

// ListVaults fetches and decrypts every vault of the vault user. A single
// undecryptable vault fails the whole listing.
type ListVaults struct {
	*Operation

	Vaults    []models.Vault
	NextToken *string
}

func NewListVaults(
	client adapter.GraphQLClient,
	cipher *crypto.BlobCipher,
	encryptionSecret *crypto.Secret,
	log *logger.Logger,
) *ListVaults {
	op := &ListVaults{}
	op.Operation = newOperation("ListVaults", log, func(ctx context.Context) error {
		token, err := op.token()
		if err != nil {
			return err
		}

		res, err := checkResult(client.Fetch(ctx, adapter.NewListVaultsQuery(token, nil, nil), adapter.FetchIgnoringCacheData))
		if err != nil {
			return err
		}

		var page adapter.VaultConnection
		found, err := decodeField(res, adapter.FieldListVaults, &page)
		if err != nil {
			return err
		}
		if !found || page.Items == nil {
			return models.ErrResultMissing
		}

		vaults := make([]models.Vault, 0, len(page.Items))
		for _, rec := range page.Items {
			vault, err := openVault(cipher, encryptionSecret, rec)
			if err != nil {
				op.logger.Error().Err(err).Str("vault_id", rec.ID).Msg("failed to open vault")
				return err
			}
			vaults = append(vaults, vault)
		}

		op.Vaults = vaults
		op.NextToken = page.NextToken
		return nil
	})
	return op
}

// ListVaultsMetadataOnly lists vault metadata without content. It needs no
// vault user token or secrets.
type ListVaultsMetadataOnly struct {
	*Operation

	Vaults    []models.VaultMetadata
	NextToken *string
}

func NewListVaultsMetadataOnly(client adapter.GraphQLClient, policy adapter.CachePolicy, log *logger.Logger) *ListVaultsMetadataOnly {
	op := &ListVaultsMetadataOnly{}
	op.Operation = newOperation("ListVaultsMetadataOnly", log, func(ctx context.Context) error {
		res, err := checkResult(client.Fetch(ctx, adapter.NewListVaultsMetadataOnlyQuery(nil, nil), policy))
		if err != nil {
			return err
		}

		var page adapter.VaultConnection
		found, err := decodeField(res, adapter.FieldListVaultsMetadataOnly, &page)
		if err != nil {
			return err
		}
		if !found || page.Items == nil {
			return models.ErrResultMissing
		}

		vaults := make([]models.VaultMetadata, 0, len(page.Items))
		for _, rec := range page.Items {
			vaults = append(vaults, rec.Metadata())
		}

		op.Vaults = vaults
		op.NextToken = page.NextToken
		return nil
	})
	return op
}
