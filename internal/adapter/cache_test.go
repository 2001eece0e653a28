// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, 0)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte("payload")
	require.NoError(t, c.Set(ctx, "k", value))
	value[0] = 'X' // cache must own its copy

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, c.Clear(ctx))
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, 0)

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	_, _, _ = c.Get(ctx, "a")
	require.NoError(t, c.Set(ctx, "c", []byte("3")))

	_, ok, _ := c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "a")
	assert.True(t, ok)
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, 10*time.Millisecond)

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	assert.Eventually(t, func() bool {
		_, ok, _ := c.Get(ctx, "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	c := NewNoopCache()

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Clear(ctx))
}

func TestCacheKey_IgnoresToken(t *testing.T) {
	a := cacheKey(NewGetVaultQuery("token-a", "vault-1"))
	b := cacheKey(NewGetVaultQuery("token-b", "vault-1"))
	other := cacheKey(NewGetVaultQuery("token-a", "vault-2"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Contains(t, a, "GetVault:")
}

func TestCacheKey_DistinguishesPaging(t *testing.T) {
	limit := 5
	assert.NotEqual(t,
		cacheKey(NewListVaultsMetadataOnlyQuery(nil, nil)),
		cacheKey(NewListVaultsMetadataOnlyQuery(&limit, nil)),
	)
}
