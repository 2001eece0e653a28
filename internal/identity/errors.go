// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthorized        = errors.New("not authorized")
	ErrAlreadyRegistered    = errors.New("already registered")
	ErrIdentityNotConfirmed = errors.New("identity not confirmed")
	ErrInvalidInput         = errors.New("invalid input")
	ErrServiceError         = errors.New("identity service error")
	ErrInvalidConfig        = errors.New("invalid identity provider config")
	// ErrAuthTokenMissing is returned when a sign-in succeeds without the
	// full token set.
	ErrAuthTokenMissing = errors.New("authentication tokens missing")
	// ErrMissingResult is returned when a successful response lacks the
	// expected payload.
	ErrMissingResult = errors.New("identity provider returned no result")
	// ErrRequestFailed covers network failures and unclassified responses.
	ErrRequestFailed = errors.New("identity request failed")
)

// ServiceError is a failed identity provider response. Type is the exception
// name without its namespace prefix.
type ServiceError struct {
	StatusCode int
	Type       string
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s (http %d): %s: %s", e.Err, e.StatusCode, e.Type, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
