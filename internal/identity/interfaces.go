// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package identity talks to the identity provider user pool that backs vault
// accounts. Vault users are separate pool users whose username is the
// subject of the signed-in user's ID token and whose password is the derived
// authentication secret.
package identity

import (
	"context"

	"github.com/MKhiriev/go-secure-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/identity_provider_mock.go -package=mock

// Provider manages vault users in the identity provider.
type Provider interface {
	// Register creates the vault user uid. token is the ID token of the
	// signed-in user and proves ownership of uid. The salts are base64 and
	// become the user's initialization data. Returns the new username.
	Register(ctx context.Context, uid, password, token, authenticationSalt, encryptionSalt string, pbkdfRounds uint32) (string, error)

	// SignIn authenticates uid and returns the vault user tokens.
	SignIn(ctx context.Context, uid, password string) (models.AuthenticationTokens, error)

	// ChangePassword replaces the password of uid. Returns the username.
	ChangePassword(ctx context.Context, uid, oldPassword, newPassword string) (string, error)

	// Deregister deletes the vault user identified by accessToken.
	Deregister(ctx context.Context, uid, accessToken string) (string, error)
}
