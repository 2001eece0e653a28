// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flag names registered by [RegisterFlags].
const (
	FlagConfig           = "config"
	FlagAPIURL           = "api-url"
	FlagRegion           = "region"
	FlagPoolID           = "pool-id"
	FlagClientID         = "client-id"
	FlagIdentityEndpoint = "identity-endpoint"
	FlagPbkdfRounds      = "pbkdf-rounds"
	FlagRequestTimeout   = "request-timeout"
	FlagIDToken          = "id-token"
	FlagIDTokenFile      = "id-token-file"
	FlagCacheType        = "cache"
	FlagCacheDSN         = "cache-dsn"
	FlagLogFile          = "log-file"
	FlagLogLevel         = "log-level"
)

// RegisterFlags adds the configuration flags to fs.
//
// Flags:
//
//	-c/--config          json file path with configs
//	--api-url            vault service GraphQL endpoint
//	--region             identity user pool region
//	--pool-id            identity user pool id
//	--client-id          identity app client id
//	--identity-endpoint  identity provider URL override
//	--pbkdf-rounds       password stretching rounds used at registration
//	--request-timeout    request timeout (e.g., "30s", "1m")
//	--id-token           ID token of the signed-in user
//	--id-token-file      file holding the ID token
//	--cache              response cache: memory, sqlite or none
//	--cache-dsn          sqlite cache database path
//	--log-file           log file path
//	--log-level          log level (debug, info, warn, error)
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "JSON config file path")
	fs.String(FlagAPIURL, "", "Vault service GraphQL endpoint")
	fs.String(FlagRegion, "", "Identity user pool region")
	fs.String(FlagPoolID, "", "Identity user pool id")
	fs.String(FlagClientID, "", "Identity app client id")
	fs.String(FlagIdentityEndpoint, "", "Identity provider URL override")
	fs.Uint32(FlagPbkdfRounds, 0, "Password stretching rounds used at registration")
	fs.Duration(FlagRequestTimeout, 0, "Request timeout (e.g., 30s, 1m)")
	fs.String(FlagIDToken, "", "ID token of the signed-in user")
	fs.String(FlagIDTokenFile, "", "File holding the ID token")
	fs.String(FlagCacheType, "", "Response cache: memory, sqlite or none")
	fs.String(FlagCacheDSN, "", "SQLite cache database path")
	fs.String(FlagLogFile, "", "Log file path")
	fs.String(FlagLogLevel, "", "Log level (debug, info, warn, error)")
}

// ParseFlags reads the flags registered by [RegisterFlags] from an already
// parsed fs. A nil fs yields an empty config.
func ParseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	if fs == nil {
		return cfg, nil
	}

	var err error
	str := func(name string, dst *string) {
		if err != nil || fs.Lookup(name) == nil {
			return
		}
		*dst, err = fs.GetString(name)
	}

	str(FlagConfig, &cfg.JSONFilePath)
	str(FlagAPIURL, &cfg.Service.APIURL)
	str(FlagRegion, &cfg.Service.Region)
	str(FlagPoolID, &cfg.Service.PoolID)
	str(FlagClientID, &cfg.Service.ClientID)
	str(FlagIdentityEndpoint, &cfg.Service.IdentityEndpoint)
	str(FlagIDToken, &cfg.Session.IDToken)
	str(FlagIDTokenFile, &cfg.Session.IDTokenFile)
	str(FlagCacheType, &cfg.Cache.Type)
	str(FlagCacheDSN, &cfg.Cache.DSN)
	str(FlagLogFile, &cfg.Log.File)
	str(FlagLogLevel, &cfg.Log.Level)

	if err == nil && fs.Lookup(FlagPbkdfRounds) != nil {
		cfg.Service.PbkdfRounds, err = fs.GetUint32(FlagPbkdfRounds)
	}
	if err == nil && fs.Lookup(FlagRequestTimeout) != nil {
		cfg.Service.RequestTimeout, err = fs.GetDuration(FlagRequestTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading flags: %w", err)
	}

	return cfg, nil
}
