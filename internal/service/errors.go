// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrNoIdentityProvider = errors.New("identity provider is required")
	ErrNoGraphQLClient    = errors.New("graphql client is required")
	ErrNoUserClient       = errors.New("user client is required")
	ErrNoKeyManager       = errors.New("key manager is required")
	ErrInvalidPbkdfRounds = errors.New("pbkdf rounds must be positive")
)
