// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"maps"
	"time"

	"github.com/bluele/gcache"
)

const defaultMemoryCacheSize = 256

type memoryCache struct {
	cache gcache.Cache
}

// NewMemoryCache returns an LRU [ResponseCache] holding at most size entries,
// each expiring after ttl. A non-positive ttl disables expiry.
func NewMemoryCache(size int, ttl time.Duration) ResponseCache {
	if size <= 0 {
		size = defaultMemoryCacheSize
	}

	builder := gcache.New(size).LRU()
	if ttl > 0 {
		builder = builder.Expiration(ttl)
	}

	return &memoryCache{cache: builder.Build()}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, err := m.cache.Get(key)
	if errors.Is(err, gcache.KeyNotFoundError) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	raw, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(raw), true, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) error {
	return m.cache.Set(key, bytes.Clone(value))
}

func (m *memoryCache) Clear(_ context.Context) error {
	m.cache.Purge()
	return nil
}

type noopCache struct{}

// NewNoopCache returns a [ResponseCache] that never stores anything.
func NewNoopCache() ResponseCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, string, []byte) error         { return nil }
func (noopCache) Clear(context.Context) error                       { return nil }

// cacheKey identifies a query independently of the per-sign-in token.
func cacheKey(q Query) string {
	vars := maps.Clone(q.Variables)
	delete(vars, "token")

	// map keys are marshalled in sorted order
	encoded, _ := json.Marshal(vars)
	sum := sha256.Sum256(append([]byte(q.OperationName+"\x00"), encoded...))

	return q.OperationName + ":" + hex.EncodeToString(sum[:])
}
