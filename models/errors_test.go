// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVaultError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "kind only",
			err:  ErrNotRegistered,
			want: "not registered",
		},
		{
			name: "cause repeating the kind",
			err:  &VaultError{Kind: KindNotAuthorized, Cause: errors.New("not authorized")},
			want: "not authorized",
		},
		{
			name: "distinct cause",
			err:  &VaultError{Kind: KindNotAuthorized, Cause: errors.New("identity not confirmed")},
			want: "not authorized: identity not confirmed",
		},
		{
			name: "cause repeating the description",
			err:  WrapFatal("vault is invalid", errors.New("vault is invalid")),
			want: "fatal error: vault is invalid",
		},
		{
			name: "status and cause",
			err:  NewRequestFailed(http.StatusBadGateway, errors.New("bad gateway")),
			want: "request failed (status 502 Bad Gateway): bad gateway",
		},
		{
			name: "graphql description",
			err:  NewGraphQLError("boom"),
			want: "graphql error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestVaultError_Is(t *testing.T) {
	err := WrapFatal("vault is invalid", errors.New("short blob"))

	assert.ErrorIs(t, err, ErrFatal)
	assert.ErrorIs(t, err, ErrVaultInvalid)
	assert.NotErrorIs(t, err, ErrResultMissing)
	assert.NotErrorIs(t, err, ErrNotAuthorized)
}

func TestVaultError_Retryable(t *testing.T) {
	assert.True(t, ErrServiceError.Retryable())
	assert.True(t, (&VaultError{Kind: KindRequestFailed}).Retryable())
	assert.False(t, ErrVersionMismatch.Retryable())
}
