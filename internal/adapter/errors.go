// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrUnexpectedStatus    = errors.New("unexpected http status")

	// ErrRequestFailed is returned when no HTTP response was received.
	ErrRequestFailed = errors.New("request failed")
	// ErrAuthTokenMissing is returned when the token source has no ID token.
	ErrAuthTokenMissing = errors.New("auth token missing")
	// ErrMalformedResponse is returned for bodies that are not GraphQL results.
	ErrMalformedResponse = errors.New("malformed graphql response")
	// ErrCacheMiss is returned by Fetch with ReturnCacheDataDontFetch when
	// nothing is cached for the query.
	ErrCacheMiss = errors.New("no cached response")
)

// HTTPError carries the status code of a failed response. It unwraps to one
// of the status sentinels above.
type HTTPError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s (http %d)", e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s (http %d): %s", e.Err, e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
