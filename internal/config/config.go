// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// StructuredConfig is the top-level configuration container of the vault
// client. It is populated by merging values from environment variables,
// command-line flags, an optional JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Service holds the vault service and identity pool coordinates.
	Service Service `envPrefix:"SERVICE_"`

	// Session locates the ID token of the signed-in user.
	Session Session `envPrefix:"SESSION_"`

	// Cache selects the transport response cache backend.
	Cache Cache `envPrefix:"CACHE_"`

	// Queue tunes the operation queues.
	Queue Queue `envPrefix:"QUEUE_"`

	// Workers holds configuration for background jobs.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log controls where and how verbosely the client logs.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Service holds the remote endpoints and key-derivation settings.
type Service struct {
	// APIURL is the GraphQL endpoint of the secure vault service.
	// Env: SERVICE_API_URL
	APIURL string `env:"API_URL"`

	// Region is the region of the identity user pool (e.g. "us-east-1").
	// Env: SERVICE_REGION
	Region string `env:"REGION"`

	// PoolID is the identity user pool id.
	// Env: SERVICE_POOL_ID
	PoolID string `env:"POOL_ID"`

	// ClientID is the app client id of the user pool.
	// Env: SERVICE_CLIENT_ID
	ClientID string `env:"CLIENT_ID"`

	// IdentityEndpoint overrides the identity provider URL derived from
	// Region. Mostly useful for tests and private deployments.
	// Env: SERVICE_IDENTITY_ENDPOINT
	IdentityEndpoint string `env:"IDENTITY_ENDPOINT"`

	// PbkdfRounds is the password stretching work factor used at
	// registration. Existing registrations keep their stored value.
	// Env: SERVICE_PBKDF_ROUNDS
	PbkdfRounds uint32 `env:"PBKDF_ROUNDS"`

	// RequestTimeout bounds every outbound request.
	// Env: SERVICE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Session locates the user's ID token. IDTokenFile wins when both are set.
type Session struct {
	// Env: SESSION_ID_TOKEN
	IDToken string `env:"ID_TOKEN"`
	// Env: SESSION_ID_TOKEN_FILE
	IDTokenFile string `env:"ID_TOKEN_FILE"`
}

// Cache configures the transport response cache.
type Cache struct {
	// Type is one of "memory", "sqlite" or "none".
	// Env: CACHE_TYPE
	Type string `env:"TYPE"`
	// DSN is the SQLite database path, required for the sqlite type.
	// Env: CACHE_DSN
	DSN string `env:"DSN"`
	// Size bounds the number of entries of the memory cache.
	// Env: CACHE_SIZE
	Size int `env:"SIZE"`
	// TTL expires cached entries; zero keeps them until cleared.
	// Env: CACHE_TTL
	TTL time.Duration `env:"TTL"`
}

// Queue configures the operation queues.
type Queue struct {
	// MaxConcurrent is the number of operations a queue runs at once.
	// Env: QUEUE_MAX_CONCURRENT
	MaxConcurrent int `env:"MAX_CONCURRENT"`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// WatchInterval is the polling period of the vault metadata watcher.
	// Env: WORKERS_WATCH_INTERVAL
	WatchInterval time.Duration `env:"WATCH_INTERVAL"`
}

// Log holds logging settings.
type Log struct {
	// Env: LOG_FILE
	File string `env:"FILE"`
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`
}

// Cache backend names.
const (
	CacheTypeMemory = "memory"
	CacheTypeSQLite = "sqlite"
	CacheTypeNone   = "none"
)

// GetStructuredConfig loads and merges the configuration from all sources in
// the following priority order (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags from fs (may be nil)
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig(fs *pflag.FlagSet) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(fs).
		withJSON().
		withDefaults().
		build()
}
