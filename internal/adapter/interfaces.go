// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the transport layer of the vault client: a GraphQL over
// HTTP client for the secure vault service.
//
// The primary abstraction is [GraphQLClient]. Queries may be answered from a
// [ResponseCache] depending on the [CachePolicy]; mutations always go to the
// network. Transport failures are reported with the sentinel errors from
// errors.go (wrapped in [*HTTPError] when a status code is known) so callers
// can classify them with [errors.Is] and [errors.As].
package adapter

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/graphql_client_mock.go -package=mock

// GraphQLClient performs GraphQL requests against the vault service.
type GraphQLClient interface {
	// Perform sends a mutation. The returned result may carry GraphQL errors
	// alongside a nil error; only transport failures are returned as error.
	Perform(ctx context.Context, mutation Mutation) (*Result, error)

	// Fetch sends a query, consulting the response cache according to policy.
	Fetch(ctx context.Context, query Query, policy CachePolicy) (*Result, error)

	// ClearCaches drops every cached query response.
	ClearCaches(ctx context.Context) error
}

// ResponseCache stores raw query responses keyed by request.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

// TokenSource supplies the ID token sent in the Authorization header.
type TokenSource interface {
	GetIDToken() (string, error)
}
