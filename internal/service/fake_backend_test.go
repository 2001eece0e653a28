// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/identity"
	"github.com/MKhiriev/go-secure-vault/models"
)

type fakeUser struct {
	password           string
	authenticationSalt string
	encryptionSalt     string
	pbkdfRounds        uint32
}

// fakeBackend is an in-memory vault service plus identity provider. It acts
// on behalf of a single platform user, caller.
type fakeBackend struct {
	caller string

	mu          sync.Mutex
	users       map[string]*fakeUser
	vaults      map[string]adapter.VaultRecord
	nextID      int
	signIns     int
	clearCaches int

	// onUpdate runs before each UpdateVault mutation is applied.
	onUpdate func()
}

func newFakeBackend(caller string) *fakeBackend {
	return &fakeBackend{
		caller: caller,
		users:  make(map[string]*fakeUser),
		vaults: make(map[string]adapter.VaultRecord),
	}
}

func (f *fakeBackend) Register(_ context.Context, uid, password, _, authenticationSalt, encryptionSalt string, pbkdfRounds uint32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[uid]; ok {
		return "", identity.ErrAlreadyRegistered
	}
	f.users[uid] = &fakeUser{
		password:           password,
		authenticationSalt: authenticationSalt,
		encryptionSalt:     encryptionSalt,
		pbkdfRounds:        pbkdfRounds,
	}
	return uid, nil
}

func (f *fakeBackend) SignIn(_ context.Context, uid, password string) (models.AuthenticationTokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.signIns++
	u, ok := f.users[uid]
	if !ok || u.password != password {
		return models.AuthenticationTokens{}, identity.ErrNotAuthorized
	}
	return models.AuthenticationTokens{IDToken: "token-" + uid, AccessToken: "access-" + uid}, nil
}

func (f *fakeBackend) ChangePassword(_ context.Context, uid, oldPassword, newPassword string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[uid]
	if !ok || u.password != oldPassword {
		return "", identity.ErrNotAuthorized
	}
	u.password = newPassword
	return uid, nil
}

func (f *fakeBackend) Deregister(_ context.Context, uid, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.users, uid)
	return uid, nil
}

func (f *fakeBackend) Perform(_ context.Context, m adapter.Mutation) (*adapter.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch m.OperationName {
	case "CreateVault":
		input := m.Variables["input"].(adapter.CreateVaultInput)
		if err := f.checkToken(input.Token); err != nil {
			return err, nil
		}
		f.nextID++
		rec := adapter.VaultRecord{
			ID:               fmt.Sprintf("vault-%d", f.nextID),
			Version:          1,
			CreatedAtEpochMs: 1700000000000,
			UpdatedAtEpochMs: 1700000000000,
			Owner:            f.caller,
			Blob:             input.Blob,
			BlobFormat:       input.BlobFormat,
			EncryptionMethod: input.EncryptionMethod,
		}
		f.vaults[rec.ID] = rec
		return data(adapter.FieldCreateVault, metadataMap(rec)), nil

	case "UpdateVault":
		if f.onUpdate != nil {
			f.onUpdate()
		}
		input := m.Variables["input"].(adapter.UpdateVaultInput)
		if err := f.checkToken(input.Token); err != nil {
			return err, nil
		}
		rec, ok := f.vaults[input.ID]
		if !ok || rec.Version != input.ExpectedVersion {
			return graphQLFailure("DynamoDB:ConditionalCheckFailedException"), nil
		}
		rec.Version++
		rec.UpdatedAtEpochMs += 1000
		rec.Blob = input.Blob
		rec.BlobFormat = input.BlobFormat
		f.vaults[rec.ID] = rec
		return data(adapter.FieldUpdateVault, metadataMap(rec)), nil

	case "DeleteVault":
		input := m.Variables["input"].(adapter.DeleteVaultInput)
		rec, ok := f.vaults[input.ID]
		if !ok {
			return data(adapter.FieldDeleteVault, nil), nil
		}
		delete(f.vaults, input.ID)
		return data(adapter.FieldDeleteVault, metadataMap(rec)), nil

	case "Deregister":
		if _, ok := f.users[f.caller]; !ok {
			return graphQLFailure("sudoplatform.vault.NotAuthorizedError"), nil
		}
		delete(f.users, f.caller)
		clear(f.vaults)
		return data(adapter.FieldDeregister, map[string]any{"username": f.caller}), nil
	}

	return nil, fmt.Errorf("unexpected mutation %s", m.OperationName)
}

func (f *fakeBackend) Fetch(_ context.Context, q adapter.Query, _ adapter.CachePolicy) (*adapter.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch q.OperationName {
	case "GetInitializationData":
		u, ok := f.users[f.caller]
		if !ok {
			return data(adapter.FieldGetInitializationData, nil), nil
		}
		return data(adapter.FieldGetInitializationData, map[string]any{
			"owner":              f.caller,
			"authenticationSalt": u.authenticationSalt,
			"encryptionSalt":     u.encryptionSalt,
			"pbkdfRounds":        float64(u.pbkdfRounds),
		}), nil

	case "GetVault":
		if err := f.checkToken(q.Variables["token"].(string)); err != nil {
			return err, nil
		}
		rec, ok := f.vaults[q.Variables["id"].(string)]
		if !ok {
			return data(adapter.FieldGetVault, nil), nil
		}
		return data(adapter.FieldGetVault, vaultMap(rec)), nil

	case "ListVaults":
		if err := f.checkToken(q.Variables["token"].(string)); err != nil {
			return err, nil
		}
		return data(adapter.FieldListVaults, f.connection(vaultMap)), nil

	case "ListVaultsMetadataOnly":
		return data(adapter.FieldListVaultsMetadataOnly, f.connection(metadataMap)), nil
	}

	return nil, fmt.Errorf("unexpected query %s", q.OperationName)
}

func (f *fakeBackend) ClearCaches(context.Context) error {
	f.mu.Lock()
	f.clearCaches++
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) checkToken(token string) *adapter.Result {
	if token != "token-"+f.caller {
		return graphQLFailure("sudoplatform.vault.TokenValidationError")
	}
	return nil
}

func (f *fakeBackend) connection(render func(adapter.VaultRecord) map[string]any) map[string]any {
	items := make([]any, 0, len(f.vaults))
	for i := 1; i <= f.nextID; i++ {
		if rec, ok := f.vaults[fmt.Sprintf("vault-%d", i)]; ok {
			items = append(items, render(rec))
		}
	}
	return map[string]any{"items": items, "nextToken": nil}
}

func (f *fakeBackend) vault(id string) (adapter.VaultRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.vaults[id]
	return rec, ok
}

func (f *fakeBackend) signInCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signIns
}

func data(field string, value any) *adapter.Result {
	return &adapter.Result{Data: map[string]any{field: value}}
}

func graphQLFailure(errorType string) *adapter.Result {
	return &adapter.Result{Errors: []adapter.GraphQLError{{Message: "rejected", ErrorType: errorType}}}
}

func metadataMap(rec adapter.VaultRecord) map[string]any {
	return map[string]any{
		"id":               rec.ID,
		"version":          float64(rec.Version),
		"createdAtEpochMs": rec.CreatedAtEpochMs,
		"updatedAtEpochMs": rec.UpdatedAtEpochMs,
		"owner":            rec.Owner,
		"blobFormat":       rec.BlobFormat,
		"encryptionMethod": rec.EncryptionMethod,
		"owners":           []any{},
	}
}

func vaultMap(rec adapter.VaultRecord) map[string]any {
	m := metadataMap(rec)
	m["blob"] = rec.Blob
	return m
}
