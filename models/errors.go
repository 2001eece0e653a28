// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"net/http"
)

// ErrorKind enumerates the client-visible failure kinds.
type ErrorKind int

const (
	KindNotSignedIn ErrorKind = iota + 1
	KindNotRegistered
	KindRegisterOperationAlreadyInProgress
	KindAlreadyRegistered
	KindNotAuthorized
	KindInvalidOwnershipProof
	KindInvalidInput
	KindVersionMismatch
	KindInsufficientEntitlements
	KindServiceError
	KindRequestFailed
	KindGraphQLError
	KindFatalError
	KindInvalidConfig
	KindAuthTokenMissing
)

var kindNames = map[ErrorKind]string{
	KindNotSignedIn:                        "not signed in",
	KindNotRegistered:                      "not registered",
	KindRegisterOperationAlreadyInProgress: "register operation already in progress",
	KindAlreadyRegistered:                  "already registered",
	KindNotAuthorized:                      "not authorized",
	KindInvalidOwnershipProof:              "invalid ownership proof",
	KindInvalidInput:                       "invalid input",
	KindVersionMismatch:                    "version mismatch",
	KindInsufficientEntitlements:           "insufficient entitlements",
	KindServiceError:                       "service error",
	KindRequestFailed:                      "request failed",
	KindGraphQLError:                       "graphql error",
	KindFatalError:                         "fatal error",
	KindInvalidConfig:                      "invalid config",
	KindAuthTokenMissing:                   "auth token missing",
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown error kind %d", int(k))
}

// VaultError is the single error type surfaced by the vault client.
//
// Description is set for graphQL and fatal errors, StatusCode and Cause for
// request failures. errors.Is matches on Kind, and additionally on
// Description when the target carries one.
type VaultError struct {
	Kind        ErrorKind
	Description string
	StatusCode  int
	Cause       error
}

func (e *VaultError) Error() string {
	msg := e.Kind.String()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d %s)", msg, e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	// collaborator sentinels often share the kind's wording
	if e.Cause != nil {
		if cause := e.Cause.Error(); cause != e.Kind.String() && cause != e.Description {
			msg += ": " + cause
		}
	}
	return msg
}

func (e *VaultError) Unwrap() error {
	return e.Cause
}

func (e *VaultError) Is(target error) bool {
	t, ok := target.(*VaultError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Description == "" || t.Description == e.Description
}

// Retryable reports whether the caller may reasonably retry the same call.
func (e *VaultError) Retryable() bool {
	return e.Kind == KindServiceError || e.Kind == KindRequestFailed
}

var (
	ErrNotSignedIn                        = &VaultError{Kind: KindNotSignedIn}
	ErrNotRegistered                      = &VaultError{Kind: KindNotRegistered}
	ErrRegisterOperationAlreadyInProgress = &VaultError{Kind: KindRegisterOperationAlreadyInProgress}
	ErrAlreadyRegistered                  = &VaultError{Kind: KindAlreadyRegistered}
	ErrNotAuthorized                      = &VaultError{Kind: KindNotAuthorized}
	ErrInvalidOwnershipProof              = &VaultError{Kind: KindInvalidOwnershipProof}
	ErrInvalidInput                       = &VaultError{Kind: KindInvalidInput}
	ErrVersionMismatch                    = &VaultError{Kind: KindVersionMismatch}
	ErrInsufficientEntitlements           = &VaultError{Kind: KindInsufficientEntitlements}
	ErrServiceError                       = &VaultError{Kind: KindServiceError}
	ErrRequestFailed                      = &VaultError{Kind: KindRequestFailed}
	ErrGraphQL                            = &VaultError{Kind: KindGraphQLError}
	ErrFatal                              = &VaultError{Kind: KindFatalError}
	ErrInvalidConfig                      = &VaultError{Kind: KindInvalidConfig}
	ErrAuthTokenMissing                   = &VaultError{Kind: KindAuthTokenMissing}
)

// Fatal errors with fixed descriptions that callers and tests match on.
var (
	ErrVaultInvalid         = NewFatalError("vault is invalid")
	ErrXorLengthMismatch    = NewFatalError("XOR inputs not identical in size")
	ErrPreconditionFailure  = NewFatalError("operation precondition failure")
	ErrTokenNotFoundInInput = NewFatalError("expected authentication token not found in the input")
	ErrResultMissing        = NewFatalError("operation completed successfully but result is missing")
)

func NewRequestFailed(statusCode int, cause error) error {
	return &VaultError{Kind: KindRequestFailed, StatusCode: statusCode, Cause: cause}
}

func NewGraphQLError(description string) error {
	return &VaultError{Kind: KindGraphQLError, Description: description}
}

func NewFatalError(description string) *VaultError {
	return &VaultError{Kind: KindFatalError, Description: description}
}

// WrapFatal returns a fatal error with the given description that unwraps to
// cause.
func WrapFatal(description string, cause error) error {
	return &VaultError{Kind: KindFatalError, Description: description, Cause: cause}
}
