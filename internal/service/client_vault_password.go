// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-secure-vault/internal/operation"
	"github.com/MKhiriev/go-secure-vault/models"
)

// ChangeVaultPassword runs
//
//	SignIn(old) → ListVaults(old) → ChangePassword(old → new)
//
// and then, for each vault, SignIn(new) → UpdateVault(new), each pair
// waiting for the previous UpdateVault. The old secrets are wiped when
// ChangePassword settles, the new ones after the last UpdateVault (or right
// away when there is nothing to migrate). Decrypted blobs are wiped with
// them.
func (c *secureVaultClient) ChangeVaultPassword(
	ctx context.Context,
	key, oldPassword, newPassword []byte,
	completion Completion[[]models.VaultMetadata],
) error {
	c.logger.Info().Msg("changing vault password")

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
	oldSecrets, err := c.deriveSecrets(key, oldPassword, data)
	if err != nil {
		return err
	}
	newSecrets, err := c.deriveSecrets(key, newPassword, data)
	if err != nil {
		oldSecrets.destroy()
		return err
	}

	signIn := operation.NewSignIn(c.identity, uid, oldSecrets.auth, c.logger)
	list := operation.NewListVaults(c.graphQL, c.cipher, oldSecrets.enc, c.logger)
	list.AddDependency(signIn.Operation)
	list.SetCopyDependenciesOutputAsInput(true)
	change := operation.NewChangePassword(c.identity, uid, oldSecrets.auth, newSecrets.auth, c.logger)
	change.AddDependency(list.Operation)

	chain := []*operation.Operation{signIn.Operation, list.Operation, change.Operation}

	change.SetCompletion(func() {
		oldSecrets.destroy()

		if err := firstError(chain...); err != nil {
			newSecrets.destroy()
			wipeVaults(list.Vaults)
			completion(nil, err)
			return
		}

		if len(list.Vaults) == 0 {
			newSecrets.destroy()
			completion([]models.VaultMetadata{}, nil)
			return
		}

		migration, updates := c.migrationChain(uid, newSecrets, list.Vaults)
		last := updates[len(updates)-1]
		last.SetCompletion(func() {
			newSecrets.destroy()
			wipeVaults(list.Vaults)

			if err := firstError(append(chain, migration...)...); err != nil {
				completion(nil, err)
				return
			}

			migrated := make([]models.VaultMetadata, 0, len(updates))
			for _, update := range updates {
				migrated = append(migrated, update.VaultMetadata)
			}
			completion(migrated, nil)
		})

		c.apiQueue.Add(ctx, migration...)
	})

	c.apiQueue.Add(ctx, chain...)
	return nil
}

// migrationChain builds SignIn → UpdateVault pairs re-encrypting vaults
// under s. Each SignIn depends on the previous UpdateVault.
func (c *secureVaultClient) migrationChain(uid string, s secrets, vaults []models.Vault) ([]*operation.Operation, []*operation.UpdateVault) {
	ops := make([]*operation.Operation, 0, 2*len(vaults))
	updates := make([]*operation.UpdateVault, 0, len(vaults))

	var previous *operation.Operation
	for _, vault := range vaults {
		signIn := operation.NewSignIn(c.identity, uid, s.auth, c.logger)
		if previous != nil {
			signIn.AddDependency(previous)
		}

		update := operation.NewUpdateVault(c.graphQL, c.cipher, s.enc, vault.ID, vault.Version, vault.Blob, vault.BlobFormat, c.logger)
		update.AddDependency(signIn.Operation)
		update.SetCopyDependenciesOutputAsInput(true)

		ops = append(ops, signIn.Operation, update.Operation)
		updates = append(updates, update)
		previous = update.Operation
	}

	return ops, updates
}

func wipeVaults(vaults []models.Vault) {
	for _, vault := range vaults {
		memguard.WipeBytes(vault.Blob)
	}
}
