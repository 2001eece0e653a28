// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session exposes the signed-in state of the platform user the vault
// client acts for.
package session

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MKhiriev/go-secure-vault/internal/config"
	"github.com/MKhiriev/go-secure-vault/internal/utils"
)

//go:generate mockgen -source=session.go -destination=../mock/user_client_mock.go -package=mock

// UserClient reports the signed-in platform user. The vault client never
// signs users in itself.
type UserClient interface {
	IsSignedIn() bool
	// GetSubject returns the user id, used as the vault username.
	GetSubject() (string, error)
	// GetIDToken returns the ID token sent to the vault service.
	GetIDToken() (string, error)
}

var (
	ErrNoToken      = errors.New("no ID token available")
	ErrTokenExpired = errors.New("ID token expired")
)

// TokenProvider is a [UserClient] backed by an ID token given inline or read
// from a file on every call, so an external refresher can rotate the file.
type TokenProvider struct {
	token string
	path  string
	now   func() time.Time
}

// NewTokenProvider builds a TokenProvider from cfg. IDTokenFile wins over
// IDToken when both are set.
func NewTokenProvider(cfg config.ClientSession) *TokenProvider {
	return &TokenProvider{
		token: strings.TrimSpace(cfg.IDToken),
		path:  cfg.IDTokenFile,
		now:   time.Now,
	}
}

func (p *TokenProvider) IsSignedIn() bool {
	_, err := p.claims()
	return err == nil
}

func (p *TokenProvider) GetSubject() (string, error) {
	claims, err := p.claims()
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (p *TokenProvider) GetIDToken() (string, error) {
	raw, err := p.raw()
	if err != nil {
		return "", err
	}
	if _, err = p.parse(raw); err != nil {
		return "", err
	}
	return raw, nil
}

func (p *TokenProvider) claims() (utils.IDTokenClaims, error) {
	raw, err := p.raw()
	if err != nil {
		return utils.IDTokenClaims{}, err
	}
	return p.parse(raw)
}

func (p *TokenProvider) parse(raw string) (utils.IDTokenClaims, error) {
	claims, err := utils.ParseIDTokenClaims(raw)
	if err != nil {
		return utils.IDTokenClaims{}, err
	}
	if claims.Expired(p.now()) {
		return utils.IDTokenClaims{}, ErrTokenExpired
	}
	return claims, nil
}

func (p *TokenProvider) raw() (string, error) {
	if p.path != "" {
		data, err := os.ReadFile(p.path)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNoToken, err)
		}
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
		return "", ErrNoToken
	}

	if p.token == "" {
		return "", ErrNoToken
	}
	return p.token, nil
}
