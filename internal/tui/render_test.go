// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-secure-vault/models"
)

func TestRenderMetadataTable(t *testing.T) {
	out := RenderMetadataTable([]models.VaultMetadata{
		{ID: "vault-1", Version: 3, BlobFormat: "json", UpdatedAt: time.Unix(1700000000, 0)},
		{ID: "vault-22", Version: 1},
	})

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "vault-1")
	assert.Contains(t, out, "vault-22")
	assert.Contains(t, out, "json")
	assert.Contains(t, out, time.Unix(1700000000, 0).Local().Format(timeLayout))
}

func TestRenderMetadataTable_Empty(t *testing.T) {
	assert.Contains(t, RenderMetadataTable(nil), "no vaults")
}

func TestRenderVault(t *testing.T) {
	out := RenderVault(models.Vault{
		VaultMetadata: models.VaultMetadata{
			ID:      "vault-1",
			Version: 2,
			Owners:  []models.Owner{{ID: "sudo-1", Issuer: "sudoplatform.sudoservice"}},
		},
		Blob: []byte(`{"a":1}`),
	})

	assert.Contains(t, out, "vault-1")
	assert.Contains(t, out, "sudo-1 (sudoplatform.sudoservice)")
	assert.Contains(t, out, "{\"a\":1}\n")
}

func TestRenderChanges(t *testing.T) {
	out := RenderChanges(time.Now(), models.VaultChanges{
		Added:   []models.VaultMetadata{{ID: "a", Version: 1}},
		Updated: []models.VaultMetadata{{ID: "b", Version: 4}},
		Removed: []models.VaultMetadata{{ID: "c", Version: 2}},
	})

	assert.Contains(t, out, "+ a v1")
	assert.Contains(t, out, "~ b v4")
	assert.Contains(t, out, "- c v2")
}

func TestRenderBuildInfo(t *testing.T) {
	out := RenderBuildInfo(models.NewAppBuildInfo("1.0.0", "", "abc"))

	assert.Contains(t, out, "1.0.0")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "abc")
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		hint string
	}{
		{"not registered", models.ErrNotRegistered, "vaultctl register"},
		{"version mismatch", fmt.Errorf("update: %w", models.ErrVersionMismatch), "fetch the current version"},
		{"unreachable", models.NewRequestFailed(0, errors.New("dial tcp 127.0.0.1:1: connection refused")), "unreachable"},
		{"request failed", models.NewRequestFailed(502, errors.New("bad gateway")), "may be retried"},
		{"plain", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderError(tt.err)
			assert.Contains(t, out, tt.err.Error())
			if tt.hint != "" {
				assert.Contains(t, out, tt.hint)
			}
		})
	}

	assert.Empty(t, RenderError(nil))
}
