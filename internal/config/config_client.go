// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ClientService holds the remote endpoints used by the transport and the
// identity provider.
type ClientService struct {
	// APIURL is the GraphQL endpoint of the vault service.
	APIURL string
	// Region, PoolID and ClientID locate the identity user pool.
	Region   string
	PoolID   string
	ClientID string
	// IdentityEndpoint overrides the endpoint derived from Region.
	IdentityEndpoint string
	// PbkdfRounds is used for new registrations only.
	PbkdfRounds uint32
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// ClientSession locates the ID token of the signed-in user.
type ClientSession struct {
	IDToken     string
	IDTokenFile string
}

// ClientCache selects and sizes the response cache.
type ClientCache struct {
	Type string
	DSN  string
	Size int
	TTL  time.Duration
}

// ClientQueue tunes the operation queues.
type ClientQueue struct {
	MaxConcurrent int
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// WatchInterval defines how often the vault watcher polls the service.
	WatchInterval time.Duration
}

// ClientLog holds the logger destination and level.
type ClientLog struct {
	File  string
	Level string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Service ClientService
	Session ClientSession
	Cache   ClientCache
	Queue   ClientQueue
	Workers ClientWorkers
	Log     ClientLog
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration. fs may be nil.
func GetClientConfig(fs *pflag.FlagSet) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)

	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		Service: ClientService{
			APIURL:           cfg.Service.APIURL,
			Region:           cfg.Service.Region,
			PoolID:           cfg.Service.PoolID,
			ClientID:         cfg.Service.ClientID,
			IdentityEndpoint: cfg.Service.IdentityEndpoint,
			PbkdfRounds:      cfg.Service.PbkdfRounds,
			RequestTimeout:   cfg.Service.RequestTimeout,
		},
		Session: ClientSession{
			IDToken:     cfg.Session.IDToken,
			IDTokenFile: cfg.Session.IDTokenFile,
		},
		Cache: ClientCache{
			Type: cfg.Cache.Type,
			DSN:  cfg.Cache.DSN,
			Size: cfg.Cache.Size,
			TTL:  cfg.Cache.TTL,
		},
		Queue:   ClientQueue{MaxConcurrent: cfg.Queue.MaxConcurrent},
		Workers: ClientWorkers{WatchInterval: cfg.Workers.WatchInterval},
		Log:     ClientLog{File: cfg.Log.File, Level: cfg.Log.Level},
	}
}
