// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validClientConfig() *ClientConfig {
	return &ClientConfig{
		Service: ClientService{
			APIURL:         "https://vault.example.com/graphql",
			Region:         "us-east-1",
			ClientID:       "client",
			PbkdfRounds:    1000,
			RequestTimeout: time.Second,
		},
		Session: ClientSession{IDToken: "token"},
		Cache:   ClientCache{Type: CacheTypeMemory},
		Queue:   ClientQueue{MaxConcurrent: 1},
		Workers: ClientWorkers{WatchInterval: time.Minute},
	}
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ClientConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*ClientConfig) {}},
		{name: "endpoint override without region", mutate: func(c *ClientConfig) {
			c.Service.Region = ""
			c.Service.IdentityEndpoint = "http://localhost:9229"
		}},
		{name: "missing api url", mutate: func(c *ClientConfig) { c.Service.APIURL = "" }, wantErr: ErrInvalidServiceConfigs},
		{name: "missing client id", mutate: func(c *ClientConfig) { c.Service.ClientID = "" }, wantErr: ErrInvalidServiceConfigs},
		{name: "zero rounds", mutate: func(c *ClientConfig) { c.Service.PbkdfRounds = 0 }, wantErr: ErrInvalidServiceConfigs},
		{name: "no identity location", mutate: func(c *ClientConfig) { c.Service.Region = "" }, wantErr: ErrInvalidServiceConfigs},
		{name: "no token source", mutate: func(c *ClientConfig) { c.Session.IDToken = "" }, wantErr: ErrInvalidSessionConfigs},
		{name: "sqlite without dsn", mutate: func(c *ClientConfig) { c.Cache.Type = CacheTypeSQLite }, wantErr: ErrInvalidCacheConfigs},
		{name: "unknown cache", mutate: func(c *ClientConfig) { c.Cache.Type = "redis" }, wantErr: ErrInvalidCacheConfigs},
		{name: "zero concurrency", mutate: func(c *ClientConfig) { c.Queue.MaxConcurrent = 0 }, wantErr: ErrInvalidQueueConfigs},
		{name: "zero watch interval", mutate: func(c *ClientConfig) { c.Workers.WatchInterval = 0 }, wantErr: ErrInvalidWorkerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validClientConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetClientConfig_FromEnv(t *testing.T) {
	setEnvVars(t, map[string]string{
		"SERVICE_API_URL":   "https://vault.example.com/graphql",
		"SERVICE_REGION":    "us-east-1",
		"SERVICE_CLIENT_ID": "client",
		"SESSION_ID_TOKEN":  "token",
	})

	cfg, err := GetClientConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "https://vault.example.com/graphql", cfg.Service.APIURL)
	assert.Equal(t, uint32(defaultPbkdfRounds), cfg.Service.PbkdfRounds)
	assert.Equal(t, defaultRequestTimeout, cfg.Service.RequestTimeout)
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, defaultCacheSize, cfg.Cache.Size)
	assert.Equal(t, defaultMaxConcurrent, cfg.Queue.MaxConcurrent)
	assert.Equal(t, "token", cfg.Session.IDToken)
}

func TestGetClientConfig_Invalid(t *testing.T) {
	t.Setenv("SERVICE_API_URL", "https://vault.example.com/graphql")

	cfg, err := GetClientConfig(nil)
	require.NotNil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidServiceConfigs)
}
