// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package operation

import (
	"errors"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/identity"
	"github.com/MKhiriev/go-secure-vault/models"
)

// Backend errorType values carried on GraphQL errors.
const (
	errorTypeTokenValidation       = "sudoplatform.vault.TokenValidationError"
	errorTypeNotAuthorized         = "sudoplatform.vault.NotAuthorizedError"
	errorTypeInvalidOwnershipProof = "sudoplatform.vault.InvalidOwnershipProofError"
	errorTypeInsufficientEntitle   = "sudoplatform.InsufficientEntitlementsError"
	errorTypeConditionalCheck      = "DynamoDB:ConditionalCheckFailedException"
	errorTypeServiceError          = "sudoplatform.ServiceError"
	errorTypeInvalidArgument       = "sudoplatform.InvalidArgumentError"
)

var graphQLErrorKinds = map[string]models.ErrorKind{
	errorTypeTokenValidation:       models.KindNotAuthorized,
	errorTypeNotAuthorized:         models.KindNotAuthorized,
	errorTypeInvalidOwnershipProof: models.KindInvalidOwnershipProof,
	errorTypeInsufficientEntitle:   models.KindInsufficientEntitlements,
	errorTypeConditionalCheck:      models.KindVersionMismatch,
	errorTypeServiceError:          models.KindServiceError,
	errorTypeInvalidArgument:       models.KindInvalidInput,
}

// mapGraphQLErrors maps the first error of a GraphQL result. Unknown error
// types become a graphQL error carrying the backend message.
func mapGraphQLErrors(errs []adapter.GraphQLError) error {
	if len(errs) == 0 {
		return nil
	}

	first := errs[0]
	if kind, ok := graphQLErrorKinds[first.ErrorType]; ok {
		return &models.VaultError{Kind: kind, Cause: first}
	}

	return models.NewGraphQLError(first.Error())
}

// mapTransportError translates a GraphQLClient error into the client error
// taxonomy.
func mapTransportError(err error) error {
	if err == nil {
		return nil
	}

	var vaultErr *models.VaultError
	if errors.As(err, &vaultErr) {
		return err
	}

	switch {
	case errors.Is(err, adapter.ErrAuthTokenMissing):
		return &models.VaultError{Kind: models.KindNotSignedIn, Cause: err}
	case errors.Is(err, adapter.ErrUnauthorized):
		return &models.VaultError{Kind: models.KindNotAuthorized, Cause: err}
	}

	var httpErr *adapter.HTTPError
	if errors.As(err, &httpErr) {
		return models.NewRequestFailed(httpErr.StatusCode, err)
	}

	return models.NewRequestFailed(0, err)
}

// mapIdentityError translates an identity provider error into the client
// error taxonomy.
func mapIdentityError(err error) error {
	if err == nil {
		return nil
	}

	var vaultErr *models.VaultError
	if errors.As(err, &vaultErr) {
		return err
	}

	switch {
	case errors.Is(err, identity.ErrNotAuthorized), errors.Is(err, identity.ErrIdentityNotConfirmed):
		return &models.VaultError{Kind: models.KindNotAuthorized, Cause: err}
	case errors.Is(err, identity.ErrAlreadyRegistered):
		return &models.VaultError{Kind: models.KindAlreadyRegistered, Cause: err}
	case errors.Is(err, identity.ErrInvalidInput):
		return &models.VaultError{Kind: models.KindInvalidInput, Cause: err}
	case errors.Is(err, identity.ErrServiceError):
		return &models.VaultError{Kind: models.KindServiceError, Cause: err}
	case errors.Is(err, identity.ErrInvalidConfig):
		return &models.VaultError{Kind: models.KindInvalidConfig, Cause: err}
	case errors.Is(err, identity.ErrAuthTokenMissing):
		return &models.VaultError{Kind: models.KindAuthTokenMissing, Cause: err}
	case errors.Is(err, identity.ErrMissingResult):
		return models.WrapFatal(models.ErrResultMissing.Description, err)
	}

	var svcErr *identity.ServiceError
	if errors.As(err, &svcErr) {
		return models.NewRequestFailed(svcErr.StatusCode, err)
	}

	return models.NewRequestFailed(0, err)
}
