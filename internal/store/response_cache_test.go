// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-secure-vault/internal/logger"
)

func newTestSQLiteCache(t *testing.T, ttl time.Duration) *responseCache {
	t.Helper()

	db, err := NewConnectSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "cache.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	return NewSQLiteCache(db, ttl, logger.Nop()).(*responseCache)
}

func newMockCache(t *testing.T) (*responseCache, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db := &DB{DB: conn, logger: logger.Nop()}
	return NewSQLiteCache(db, 0, logger.Nop()).(*responseCache), mock
}

func TestSQLiteCache_SetGetClear(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLiteCache(t, 0)

	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", []byte("first")))
	require.NoError(t, c.Set(ctx, "k", []byte("second")))

	value, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("second"), value)

	require.NoError(t, c.Clear(ctx))
	_, found, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteCache_TTL(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLiteCache(t, time.Minute)

	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set(ctx, "old", []byte("v")))

	now = now.Add(30 * time.Second)
	_, found, err := c.Get(ctx, "old")
	require.NoError(t, err)
	assert.True(t, found)

	now = now.Add(time.Minute)
	_, found, err = c.Get(ctx, "old")
	require.NoError(t, err)
	assert.False(t, found)

	// a write prunes expired rows
	require.NoError(t, c.Set(ctx, "new", []byte("v")))
	var rows int
	require.NoError(t, c.db.QueryRow("SELECT COUNT(*) FROM response_cache").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSQLiteCache_GetError(t *testing.T) {
	c, mock := newMockCache(t)
	dbErr := errors.New("disk I/O error")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM response_cache")).
		WithArgs("k").
		WillReturnError(dbErr)

	_, found, err := c.Get(context.Background(), "k")
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteCache_SetError(t *testing.T) {
	c, mock := newMockCache(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO response_cache")).
		WithArgs("k", []byte("v"), sqlmock.AnyArg()).
		WillReturnError(errors.New("readonly database"))

	err := c.Set(context.Background(), "k", []byte("v"))
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteCache_ClearError(t *testing.T) {
	c, mock := newMockCache(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM response_cache")).
		WillReturnError(errors.New("locked"))

	err := c.Clear(context.Background())
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewConnectSQLite_BadPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := NewConnectSQLite(context.Background(), filepath.Join(blocker, "cache.db"), logger.Nop())
	assert.ErrorIs(t, err, ErrOpeningDB)
}
