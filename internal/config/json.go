// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the JSON file layout.
type StructuredJSONConfig struct {
	Service struct {
		APIURL           string   `json:"api_url"`
		Region           string   `json:"region"`
		PoolID           string   `json:"pool_id"`
		ClientID         string   `json:"client_id"`
		IdentityEndpoint string   `json:"identity_endpoint"`
		PbkdfRounds      uint32   `json:"pbkdf_rounds"`
		RequestTimeout   Duration `json:"request_timeout"`
	} `json:"service,omitempty"`

	Session struct {
		IDToken     string `json:"id_token"`
		IDTokenFile string `json:"id_token_file"`
	} `json:"session,omitempty"`

	Cache struct {
		Type string   `json:"type"`
		DSN  string   `json:"dsn"`
		Size int      `json:"size"`
		TTL  Duration `json:"ttl"`
	} `json:"cache,omitempty"`

	Queue struct {
		MaxConcurrent int `json:"max_concurrent"`
	} `json:"queue,omitempty"`

	Workers struct {
		WatchInterval Duration `json:"watch_interval"`
	} `json:"workers,omitempty"`

	Log struct {
		File  string `json:"file"`
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Service: Service{
			APIURL:           jsonCfg.Service.APIURL,
			Region:           jsonCfg.Service.Region,
			PoolID:           jsonCfg.Service.PoolID,
			ClientID:         jsonCfg.Service.ClientID,
			IdentityEndpoint: jsonCfg.Service.IdentityEndpoint,
			PbkdfRounds:      jsonCfg.Service.PbkdfRounds,
			RequestTimeout:   time.Duration(jsonCfg.Service.RequestTimeout),
		},
		Session: Session{
			IDToken:     jsonCfg.Session.IDToken,
			IDTokenFile: jsonCfg.Session.IDTokenFile,
		},
		Cache: Cache{
			Type: jsonCfg.Cache.Type,
			DSN:  jsonCfg.Cache.DSN,
			Size: jsonCfg.Cache.Size,
			TTL:  time.Duration(jsonCfg.Cache.TTL),
		},
		Queue:   Queue{MaxConcurrent: jsonCfg.Queue.MaxConcurrent},
		Workers: Workers{WatchInterval: time.Duration(jsonCfg.Workers.WatchInterval)},
		Log: Log{
			File:  jsonCfg.Log.File,
			Level: jsonCfg.Log.Level,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
