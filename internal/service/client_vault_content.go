// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/operation"
	"github.com/MKhiriev/go-secure-vault/models"
)

func (c *secureVaultClient) CreateVault(
	ctx context.Context,
	key, password, blob []byte,
	blobFormat string,
	ownershipProofs []string,
	completion Completion[models.VaultMetadata],
) error {
	c.logger.Info().Str("blob_format", blobFormat).Msg("creating vault")

	uid, err := c.subject()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.registered()
	if err != nil {
		return err
	}
	s, err := c.deriveSecrets(key, password, data)
	if err != nil {
		return err
	}

	op := operation.NewCreateVault(c.graphQL, c.cipher, s.enc, blob, blobFormat, ownershipProofs, c.logger)
	c.submitSignedIn(ctx, uid, s, op.Operation, func(err error) {
		if err != nil {
			completion(models.VaultMetadata{}, err)
			return
		}
		completion(op.VaultMetadata, nil)
	})
	return nil
}

func (c *secureVaultClient) UpdateVault(
	ctx context.Context,
	key, password []byte,
	id string,
	version int,
	blob []byte,
	blobFormat string,
	completion Completion[models.VaultMetadata],
) error {
	c.logger.Info().Str("vault_id", id).Int("version", version).Msg("updating vault")

	uid, err := c.subject()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.registered()
	if err != nil {
		return err
	}
	s, err := c.deriveSecrets(key, password, data)
	if err != nil {
		return err
	}

	op := operation.NewUpdateVault(c.graphQL, c.cipher, s.enc, id, version, blob, blobFormat, c.logger)
	c.submitSignedIn(ctx, uid, s, op.Operation, func(err error) {
		if err != nil {
			completion(models.VaultMetadata{}, err)
			return
		}
		completion(op.VaultMetadata, nil)
	})
	return nil
}

func (c *secureVaultClient) DeleteVault(ctx context.Context, id string, completion Completion[models.VaultMetadata]) error {
	c.logger.Info().Str("vault_id", id).Msg("deleting vault")

	if err := c.signedIn(); err != nil {
		return err
	}

	op := operation.NewDeleteVault(c.graphQL, id, c.logger)
	op.SetCompletion(func() {
		if err := op.Err(); err != nil {
			completion(models.VaultMetadata{}, err)
			return
		}
		completion(op.VaultMetadata, nil)
	})

	c.apiQueue.Add(ctx, op.Operation)
	return nil
}

func (c *secureVaultClient) GetVault(ctx context.Context, key, password []byte, id string, completion Completion[*models.Vault]) error {
	c.logger.Info().Str("vault_id", id).Msg("retrieving vault")

	uid, err := c.subject()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.registered()
	if err != nil {
		return err
	}
	s, err := c.deriveSecrets(key, password, data)
	if err != nil {
		return err
	}

	op := operation.NewGetVault(c.graphQL, c.cipher, s.enc, id, c.logger)
	c.submitSignedIn(ctx, uid, s, op.Operation, func(err error) {
		if err != nil {
			completion(nil, err)
			return
		}
		completion(op.Vault, nil)
	})
	return nil
}

func (c *secureVaultClient) ListVaults(ctx context.Context, key, password []byte, completion Completion[[]models.Vault]) error {
	c.logger.Info().Msg("listing vaults")

	uid, err := c.subject()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.registered()
	if err != nil {
		return err
	}
	s, err := c.deriveSecrets(key, password, data)
	if err != nil {
		return err
	}

	op := operation.NewListVaults(c.graphQL, c.cipher, s.enc, c.logger)
	c.submitSignedIn(ctx, uid, s, op.Operation, func(err error) {
		if err != nil {
			completion(nil, err)
			return
		}
		completion(op.Vaults, nil)
	})
	return nil
}

func (c *secureVaultClient) ListVaultsMetadataOnly(ctx context.Context, completion Completion[[]models.VaultMetadata]) error {
	return c.ListVaultsMetadataOnlyWithPolicy(ctx, adapter.FetchIgnoringCacheData, completion)
}

func (c *secureVaultClient) ListVaultsMetadataOnlyWithPolicy(ctx context.Context, policy adapter.CachePolicy, completion Completion[[]models.VaultMetadata]) error {
	c.logger.Info().Stringer("cache_policy", policy).Msg("listing vault metadata")

	if err := c.signedIn(); err != nil {
		return err
	}

	op := operation.NewListVaultsMetadataOnly(c.graphQL, policy, c.logger)
	op.SetCompletion(func() {
		if err := op.Err(); err != nil {
			completion(nil, err)
			return
		}
		completion(op.Vaults, nil)
	})

	c.apiQueue.Add(ctx, op.Operation)
	return nil
}
