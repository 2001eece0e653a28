// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-secure-vault/internal/adapter"
	"github.com/MKhiriev/go-secure-vault/internal/logger"
)

// responseCache is the SQLite-backed [adapter.ResponseCache]. It keeps
// transport responses across CLI invocations. Responses never hold vault
// plaintext: content queries return ciphertext only.
type responseCache struct {
	db     *DB
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewSQLiteCache returns a response cache stored in db. Entries older than
// ttl are ignored and pruned on write; a zero ttl keeps entries until Clear.
// The schema must already be migrated.
func NewSQLiteCache(db *DB, ttl time.Duration, log *logger.Logger) adapter.ResponseCache {
	log.Debug().Dur("ttl", ttl).Msg("creating sqlite response cache")
	return &responseCache{
		db:     db,
		ttl:    ttl,
		now:    time.Now,
		logger: log,
	}
}

func (c *responseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := buildGetResponseQuery(key, c.notBefore())
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value []byte
	err = c.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		c.logger.Err(err).Str("func", "*responseCache.Get").Msg("error reading cached response")
		return nil, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

func (c *responseCache) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := buildSetResponseQuery(key, value, c.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		c.logger.Err(err).Str("func", "*responseCache.Set").Msg("error storing response")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if notBefore := c.notBefore(); notBefore > 0 {
		return c.prune(ctx, notBefore)
	}
	return nil
}

func (c *responseCache) Clear(ctx context.Context) error {
	query, args, err := buildClearResponsesQuery()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		c.logger.Err(err).Str("func", "*responseCache.Clear").Msg("error clearing responses")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (c *responseCache) prune(ctx context.Context, notBefore int64) error {
	query, args, err := buildPruneResponsesQuery(notBefore)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (c *responseCache) notBefore() int64 {
	if c.ttl <= 0 {
		return 0
	}
	return c.now().Add(-c.ttl).UnixMilli()
}
