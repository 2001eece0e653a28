// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IDTokenClaims are the fields of an identity provider ID token the client
// relies on.
type IDTokenClaims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// Expired reports whether the token has expired at now. A token without exp
// never expires.
func (c IDTokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseIDTokenClaims extracts the registered claims of tokenString without
// verifying its signature. The signature is checked by the service, the
// client only needs the subject and expiry.
//
// Returns an error if the token is malformed or has no subject.
//
// Example usage:
//
//	claims, err := utils.ParseIDTokenClaims(rawToken)
//	if err != nil || claims.Expired(time.Now()) {
//	    // treat as signed out
//	}
func ParseIDTokenClaims(tokenString string) (IDTokenClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &jwt.RegisteredClaims{})
	if err != nil {
		return IDTokenClaims{}, fmt.Errorf("error occurred parsing ID token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return IDTokenClaims{}, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return IDTokenClaims{}, errors.New("empty subject error")
	}

	result := IDTokenClaims{Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}
