// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the environment. Keys are the section prefix plus
// the field key, for example SERVICE_API_URL, SESSION_ID_TOKEN_FILE,
// CACHE_TYPE, QUEUE_MAX_CONCURRENT, WORKERS_WATCH_INTERVAL and LOG_LEVEL;
// CONFIG names the JSON file. Unset variables leave their fields zero so the
// other sources can fill them.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}
