// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppBuildInfo(t *testing.T) {
	info := NewAppBuildInfo("1.0.0", "2026-03-01", "deadbeef")
	assert.Equal(t, "1.0.0", info.BuildVersion())
	assert.Equal(t, "version 1.0.0 (commit deadbeef, built 2026-03-01)", info.String())
}

func TestAppBuildInfo_NotAvailable(t *testing.T) {
	var zero AppBuildInfo
	assert.Equal(t, "N/A", zero.BuildVersion())

	info := NewAppBuildInfo("", "", "")
	assert.Equal(t, "version N/A (commit N/A, built N/A)", info.String())
}
