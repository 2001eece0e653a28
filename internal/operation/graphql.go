// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package operation

import (
	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/crypto"
	"github.com/MKhiriev/go-secure-vault/models"
)

// checkResult maps the outcome of a GraphQLClient call. A nil result with no
// error is a missing result.
func checkResult(res *adapter.Result, err error) (*adapter.Result, error) {
	if err != nil {
		return nil, mapTransportError(err)
	}
	if res == nil {
		return nil, models.ErrResultMissing
	}
	if err = mapGraphQLErrors(res.Errors); err != nil {
		return nil, err
	}
	return res, nil
}

// decodeField decodes res.Data[field] into out. found is false when the
// field is absent or null.
func decodeField(res *adapter.Result, field string, out any) (bool, error) {
	found, err := res.Decode(field, out)
	if err != nil {
		return false, models.WrapFatal("failed to decode "+field, err)
	}
	return found, nil
}

// token returns the vault user token, either set directly or copied from a
// SignIn dependency.
func (o *Operation) token() (string, error) {
	token, ok := o.inputString(KeyToken)
	if !ok {
		return "", models.ErrTokenNotFoundInInput
	}
	return token, nil
}

func openVault(cipher *crypto.BlobCipher, secret *crypto.Secret, rec adapter.VaultRecord) (models.Vault, error) {
	blob, err := cipher.OpenEncoded(secret.Bytes(), rec.Blob)
	if err != nil {
		return models.Vault{}, err
	}
	return models.Vault{VaultMetadata: rec.Metadata(), Blob: blob}, nil
}
