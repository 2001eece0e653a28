// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities
// used across different parts of the vault client.
// Includes tools for working with context, type-safe keys,
// HTTP client initialization, ID token claims and UUID generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// OperationIDCtxKey is the key used to store the id of the queued operation
// on whose behalf a request is made.
//
// Example of writing a value to the context:
//
//	ctx := utils.WithOperationID(ctx, op.ID())
var OperationIDCtxKey = contextKey("operationID")

// WithOperationID returns a copy of ctx carrying the operation id.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, OperationIDCtxKey, id)
}

// GetOperationIDFromContext retrieves the operation id from the context.
//
// Returns the id and an ok flag:
//   - ok == true : value is found and is a string
//   - ok == false: value is missing or has an unexpected type
func GetOperationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(OperationIDCtxKey).(string)
	return id, ok
}
