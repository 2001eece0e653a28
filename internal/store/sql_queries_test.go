// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildGetResponseQuery(t *testing.T) {
	query, args, err := buildGetResponseQuery("key-1", 0)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "select value from response_cache")
	assert.Contains(t, q, "cache_key = ?")
	assert.NotContains(t, q, "stored_at")
	assert.Equal(t, []any{"key-1"}, args)
}

func Test_buildGetResponseQuery_WithCutoff(t *testing.T) {
	query, args, err := buildGetResponseQuery("key-1", 1000)
	require.NoError(t, err)

	assert.Contains(t, strings.ToLower(query), "stored_at >= ?")
	assert.Equal(t, []any{"key-1", int64(1000)}, args)
	// sqlite placeholders only
	assert.NotContains(t, query, "$1")
}

func Test_buildSetResponseQuery(t *testing.T) {
	query, args, err := buildSetResponseQuery("key-1", []byte("v"), 42)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "insert into response_cache (cache_key,value,stored_at) values (?,?,?)")
	assert.Contains(t, q, "on conflict(cache_key) do update set value = excluded.value, stored_at = excluded.stored_at")
	assert.Equal(t, []any{"key-1", []byte("v"), int64(42)}, args)
}

func Test_buildClearResponsesQuery(t *testing.T) {
	query, args, err := buildClearResponsesQuery()
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM response_cache", query)
	assert.Empty(t, args)
}

func Test_buildPruneResponsesQuery(t *testing.T) {
	query, args, err := buildPruneResponsesQuery(7)
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM response_cache WHERE stored_at < ?", query)
	assert.Equal(t, []any{int64(7)}, args)
}
