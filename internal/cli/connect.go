// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/config"
	"github.com/MKhiriev/go-secure-vault/internal/crypto"
	"github.com/MKhiriev/go-secure-vault/internal/identity"
	"github.com/MKhiriev/go-secure-vault/internal/logger"
	"github.com/MKhiriev/go-secure-vault/internal/service"
	"github.com/MKhiriev/go-secure-vault/internal/session"
	"github.com/MKhiriev/go-secure-vault/internal/store"
	"github.com/MKhiriev/go-secure-vault/models"
)

// ConnectFunc builds the client services from a validated configuration.
// The returned closer releases everything the services hold.
type ConnectFunc func(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*service.ClientServices, io.Closer, error)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Connect wires the production collaborators.
func Connect(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*service.ClientServices, io.Closer, error) {
	cache, cacheCloser, err := newResponseCache(ctx, cfg.Cache, log)
	if err != nil {
		return nil, nil, err
	}

	tokens := session.NewTokenProvider(cfg.Session)

	graphQL, err := adapter.NewGraphQLClient(cfg.Service, tokens, cache, log)
	if err != nil {
		_ = cacheCloser.Close()
		return nil, nil, fmt.Errorf("error creating graphql client: %w", err)
	}

	provider, err := identity.NewCognitoProvider(cfg.Service, log)
	if err != nil {
		_ = cacheCloser.Close()
		return nil, nil, fmt.Errorf("error creating identity provider: %w", err)
	}

	services, err := service.NewClientServices(service.ClientDependencies{
		Identity:      provider,
		GraphQL:       graphQL,
		Session:       tokens,
		Keys:          crypto.NewKeyManager(),
		PbkdfRounds:   cfg.Service.PbkdfRounds,
		MaxConcurrent: cfg.Queue.MaxConcurrent,
		BuildInfo:     buildInfo,
	}, log)
	if err != nil {
		_ = cacheCloser.Close()
		return nil, nil, fmt.Errorf("error creating client services: %w", err)
	}

	return services, closerFunc(func() error {
		services.Watcher.Stop()
		services.VaultClient.Close()
		return cacheCloser.Close()
	}), nil
}

func newResponseCache(ctx context.Context, cfg config.ClientCache, log *logger.Logger) (adapter.ResponseCache, io.Closer, error) {
	noop := closerFunc(func() error { return nil })

	switch cfg.Type {
	case config.CacheTypeMemory:
		return adapter.NewMemoryCache(cfg.Size, cfg.TTL), noop, nil
	case config.CacheTypeNone:
		return adapter.NewNoopCache(), noop, nil
	case config.CacheTypeSQLite:
		db, err := store.NewConnectSQLite(ctx, cfg.DSN, log)
		if err != nil {
			return nil, nil, err
		}
		if err = db.Migrate(); err != nil {
			return nil, nil, errors.Join(err, db.Close())
		}
		return store.NewSQLiteCache(db, cfg.TTL, log), db, nil
	}

	return nil, nil, fmt.Errorf("%w: unknown cache type %q", config.ErrInvalidCacheConfigs, cfg.Type)
}
