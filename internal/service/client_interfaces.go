// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/models"
)

// Completion receives the outcome of an asynchronous client call: either a
// result or an error, never both. It is invoked exactly once, usually on a
// queue goroutine, and is never invoked when the call itself returned an
// error.
type Completion[T any] func(result T, err error)

// SecureVaultClient is the client-side access layer of the secure vault
// service.
//
// Calls that touch vault content take the key-deriving key and the vault
// password and derive two secrets from them: the authentication secret
// presented to the identity provider and the encryption secret that seals
// vault blobs. Both are wiped once the call has settled, whatever its
// outcome.
//
// Every method checks its preconditions synchronously and returns
// models.ErrNotSignedIn or models.ErrNotRegistered without doing any work.
// Otherwise it queues the work and returns nil; the outcome is delivered to
// completion.
type SecureVaultClient interface {
	// Register creates the vault user of the signed-in user with fresh salts
	// and caches the resulting initialization data. Only one registration may
	// be in flight; a second one fails with
	// models.ErrRegisterOperationAlreadyInProgress.
	Register(ctx context.Context, key, password []byte, completion Completion[string]) error

	// IsRegistered reports whether initialization data is cached or can be
	// fetched from the service.
	IsRegistered(ctx context.Context, completion Completion[bool]) error

	// GetInitializationData fetches and caches the registration record. The
	// result is nil when the user is not registered.
	GetInitializationData(ctx context.Context, completion Completion[*models.InitializationData]) error

	CreateVault(ctx context.Context, key, password, blob []byte, blobFormat string, ownershipProofs []string, completion Completion[models.VaultMetadata]) error

	// UpdateVault replaces the blob of vault id. version must be the version
	// currently stored or the call fails with models.ErrVersionMismatch.
	UpdateVault(ctx context.Context, key, password []byte, id string, version int, blob []byte, blobFormat string, completion Completion[models.VaultMetadata]) error

	DeleteVault(ctx context.Context, id string, completion Completion[models.VaultMetadata]) error

	// GetVault returns nil when no vault with id exists.
	GetVault(ctx context.Context, key, password []byte, id string, completion Completion[*models.Vault]) error

	ListVaults(ctx context.Context, key, password []byte, completion Completion[[]models.Vault]) error

	// ListVaultsMetadataOnly lists vault metadata from the service, bypassing
	// the response cache.
	ListVaultsMetadataOnly(ctx context.Context, completion Completion[[]models.VaultMetadata]) error

	// ListVaultsMetadataOnlyWithPolicy is ListVaultsMetadataOnly with an
	// explicit cache policy.
	ListVaultsMetadataOnlyWithPolicy(ctx context.Context, policy adapter.CachePolicy, completion Completion[[]models.VaultMetadata]) error

	// ChangeVaultPassword changes the vault password and re-encrypts every
	// vault under the new encryption secret. The result is the metadata of
	// the re-encrypted vaults.
	ChangeVaultPassword(ctx context.Context, key, oldPassword, newPassword []byte, completion Completion[[]models.VaultMetadata]) error

	// Deregister deletes the vault user and all its vaults, and drops the
	// cached initialization data.
	Deregister(ctx context.Context, completion Completion[string]) error

	// Reset drops cached initialization data and clears the transport cache.
	Reset(ctx context.Context) error

	Version() string

	// Close cancels queued work. Calls already executing run to completion.
	Close()
}

// MetadataWatcher periodically lists vault metadata and reports changes.
type MetadataWatcher interface {
	// Start stops any running watch and starts polling every interval,
	// defaulting to one minute. onChange receives the differences against the
	// previous poll; the first poll reports every vault as added.
	Start(ctx context.Context, interval time.Duration, onChange func(models.VaultChanges))

	// Stop ends the watch and blocks until the polling goroutine has exited.
	Stop()
}
