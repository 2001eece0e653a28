// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/spf13/pflag"
)

const (
	defaultPbkdfRounds    = 10000
	defaultRequestTimeout = 30 * time.Second
	defaultCacheSize      = 256
	defaultMaxConcurrent  = 1
	defaultWatchInterval  = time.Minute
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, nil
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(fs *pflag.FlagSet) *configBuilder {
	flagsCfg, err := ParseFlags(fs)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagsCfg)
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string

	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
			break
		}
	}

	if jsonPath != "" {
		jsonCfg, err := parseJSON(jsonPath)
		if err != nil {
			b.err = errors.Join(b.err, err)
			return b
		}
		b.configs = append(b.configs, jsonCfg)
	}

	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, &StructuredConfig{
		Service: Service{
			PbkdfRounds:    defaultPbkdfRounds,
			RequestTimeout: defaultRequestTimeout,
		},
		Cache: Cache{
			Type: CacheTypeMemory,
			Size: defaultCacheSize,
		},
		Queue:   Queue{MaxConcurrent: defaultMaxConcurrent},
		Workers: Workers{WatchInterval: defaultWatchInterval},
		Log:     Log{Level: "info"},
	})
	return b
}
