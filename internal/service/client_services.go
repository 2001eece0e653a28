// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-secure-vault/internal/logger"
)

type ClientServices struct {
	VaultClient SecureVaultClient
	Watcher     MetadataWatcher
}

func NewClientServices(deps ClientDependencies, log *logger.Logger) (*ClientServices, error) {
	client, err := NewSecureVaultClient(deps, log)
	if err != nil {
		return nil, err
	}

	return &ClientServices{
		VaultClient: client,
		Watcher:     NewMetadataWatcher(client, log),
	}, nil
}
