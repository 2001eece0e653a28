// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidServiceConfigs indicates missing endpoints, pool coordinates,
	// a zero PBKDF round count or a zero request timeout.
	ErrInvalidServiceConfigs = errors.New("invalid service configuration")
	// ErrInvalidSessionConfigs indicates that no ID token source is set.
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidCacheConfigs indicates an unknown cache type or a sqlite
	// cache without DSN.
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidQueueConfigs indicates a non-positive queue concurrency.
	ErrInvalidQueueConfigs = errors.New("invalid queue configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero watch interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
