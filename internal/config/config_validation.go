// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

func (cfg *ClientConfig) validate() error {
	s := cfg.Service
	if s.APIURL == "" || s.ClientID == "" || s.PbkdfRounds == 0 || s.RequestTimeout == 0 {
		return ErrInvalidServiceConfigs
	}
	if s.IdentityEndpoint == "" && s.Region == "" {
		return ErrInvalidServiceConfigs
	}

	if cfg.Session.IDToken == "" && cfg.Session.IDTokenFile == "" {
		return ErrInvalidSessionConfigs
	}

	switch cfg.Cache.Type {
	case CacheTypeMemory, CacheTypeNone:
	case CacheTypeSQLite:
		if cfg.Cache.DSN == "" {
			return ErrInvalidCacheConfigs
		}
	default:
		return ErrInvalidCacheConfigs
	}

	if cfg.Queue.MaxConcurrent <= 0 {
		return ErrInvalidQueueConfigs
	}

	if cfg.Workers.WatchInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
