// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package operation

import (
	"context"
	"encoding/base64"

	"github.com/MKhiriev/go-secure-vault/internal/crypto"
	"github.com/MKhiriev/go-secure-vault/internal/identity"
	"github.com/MKhiriev/go-secure-vault/internal/logger"
	"github.com/MKhiriev/go-secure-vault/models"
)

// SignIn authenticates a vault user and publishes the ID token under
// KeyToken in its output.
type SignIn struct {
	*Operation

	Tokens models.AuthenticationTokens
}

// NewSignIn returns a SignIn for uid. password is read when the operation
// executes and must stay alive until then.
func NewSignIn(provider identity.Provider, uid string, password *crypto.Secret, log *logger.Logger) *SignIn {
	op := &SignIn{}
	op.Operation = newOperation("SignIn", log, func(ctx context.Context) error {
		tokens, err := provider.SignIn(ctx, uid, password.Base64())
		if err != nil {
			return mapIdentityError(err)
		}
		if tokens.IDToken == "" {
			return &models.VaultError{Kind: models.KindAuthTokenMissing}
		}

		op.Tokens = tokens
		op.SetOutput(KeyToken, tokens.IDToken)
		return nil
	})
	return op
}

// Register creates the vault user. The salts become the user's
// initialization data on the service.
type Register struct {
	*Operation

	UID string
}

func NewRegister(
	provider identity.Provider,
	uid string,
	password *crypto.Secret,
	idToken string,
	authenticationSalt, encryptionSalt []byte,
	pbkdfRounds uint32,
	log *logger.Logger,
) *Register {
	op := &Register{}
	op.Operation = newOperation("Register", log, func(ctx context.Context) error {
		username, err := provider.Register(ctx,
			uid,
			password.Base64(),
			idToken,
			base64.StdEncoding.EncodeToString(authenticationSalt),
			base64.StdEncoding.EncodeToString(encryptionSalt),
			pbkdfRounds,
		)
		if err != nil {
			return mapIdentityError(err)
		}

		op.UID = username
		return nil
	})
	return op
}

// ChangePassword replaces the vault user's authentication secret.
type ChangePassword struct {
	*Operation

	UID string
}

func NewChangePassword(provider identity.Provider, uid string, oldPassword, newPassword *crypto.Secret, log *logger.Logger) *ChangePassword {
	op := &ChangePassword{}
	op.Operation = newOperation("ChangePassword", log, func(ctx context.Context) error {
		username, err := provider.ChangePassword(ctx, uid, oldPassword.Base64(), newPassword.Base64())
		if err != nil {
			return mapIdentityError(err)
		}

		op.UID = username
		return nil
	})
	return op
}
