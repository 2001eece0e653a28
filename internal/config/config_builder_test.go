// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_FirstNonZeroWins verifies that earlier sources take precedence
// and later ones only fill the gaps.
func TestBuild_FirstNonZeroWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Service: Service{APIURL: "https://first"}},
		&StructuredConfig{Service: Service{APIURL: "https://second", ClientID: "client"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "https://first", cfg.Service.APIURL)
	assert.Equal(t, "client", cfg.Service.ClientID)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("SERVICE_API_URL", "https://vault.example.com/graphql")
	t.Setenv("QUEUE_MAX_CONCURRENT", "4")

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "https://vault.example.com/graphql", b.configs[0].Service.APIURL)
	assert.Equal(t, 4, b.configs[0].Queue.MaxConcurrent)
}

func TestWithEnv_SetsErrorOnBadValue(t *testing.T) {
	t.Setenv("SERVICE_PBKDF_ROUNDS", "many")

	b := newConfigBuilder()
	b.withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

func TestWithFlags_NilFlagSet(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags(nil))
	require.Len(t, b.configs, 1)
	assert.Equal(t, &StructuredConfig{}, b.configs[0])
}

func TestWithFlags_ReadsParsedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--api-url", "https://flag", "--pbkdf-rounds", "5"}))

	b := newConfigBuilder()
	b.withFlags(fs)

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "https://flag", b.configs[0].Service.APIURL)
	assert.Equal(t, uint32(5), b.configs[0].Service.PbkdfRounds)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Service.APIURL = "https://json"
	payload.Cache.Type = CacheTypeSQLite
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "https://json", b.configs[1].Service.APIURL)
	assert.Equal(t, CacheTypeSQLite, b.configs[1].Cache.Type)
}

func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_UsesFirstPath verifies that the path from the highest
// priority source is used.
func TestWithJSON_UsesFirstPath(t *testing.T) {
	first := StructuredJSONConfig{}
	first.Log.Level = "debug"
	second := StructuredJSONConfig{}
	second.Log.Level = "error"

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: ""},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, first)},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, second)},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 4)
	assert.Equal(t, "debug", b.configs[3].Log.Level)
}

// ── withDefaults ──────────────────────────────────────────────────────────────

func TestWithDefaults_FillGaps(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Queue: Queue{MaxConcurrent: 3}})

	cfg, err := b.withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Queue.MaxConcurrent)
	assert.Equal(t, uint32(defaultPbkdfRounds), cfg.Service.PbkdfRounds)
	assert.Equal(t, 30*time.Second, cfg.Service.RequestTimeout)
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, time.Minute, cfg.Workers.WatchInterval)
	assert.Equal(t, "info", cfg.Log.Level)
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

func TestGetStructuredConfig_EnvBeatsFlagsBeatsJSON(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Service.APIURL = "https://json"
	payload.Service.ClientID = "json-client"
	payload.Service.Region = "eu-west-1"
	path := writeTempJSONConfig(t, payload)

	t.Setenv("SERVICE_API_URL", "https://env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-c", path, "--api-url", "https://flag", "--client-id", "flag-client"}))

	cfg, err := GetStructuredConfig(fs)
	require.NoError(t, err)

	assert.Equal(t, "https://env", cfg.Service.APIURL)
	assert.Equal(t, "flag-client", cfg.Service.ClientID)
	assert.Equal(t, "eu-west-1", cfg.Service.Region)
	assert.Equal(t, uint32(defaultPbkdfRounds), cfg.Service.PbkdfRounds)
}
