// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-secure-vault/internal/logger"
	"github.com/MKhiriev/go-secure-vault/models"
)

const defaultWatchInterval = time.Minute

// metadataLister is the part of SecureVaultClient the watcher polls.
type metadataLister interface {
	ListVaultsMetadataOnly(ctx context.Context, completion Completion[[]models.VaultMetadata]) error
}

type metadataWatcher struct {
	lister metadataLister
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMetadataWatcher creates a watcher polling lister. The watcher is idle
// until Start is called.
func NewMetadataWatcher(lister metadataLister, log *logger.Logger) MetadataWatcher {
	return &metadataWatcher{lister: lister, logger: logger.OrNop(log).Named("watcher")}
}

func (w *metadataWatcher) Start(ctx context.Context, interval time.Duration, onChange func(models.VaultChanges)) {
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	w.Stop()

	w.mu.Lock()
	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		known := make(map[string]models.VaultMetadata)
		w.poll(watchCtx, known, onChange)

		for {
			select {
			case <-watchCtx.Done():
				return
			case <-t.C:
				w.poll(watchCtx, known, onChange)
			}
		}
	}()
}

func (w *metadataWatcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// poll lists metadata once and reports the changes against known, which it
// then updates. Errors are logged and the watch goes on.
func (w *metadataWatcher) poll(ctx context.Context, known map[string]models.VaultMetadata, onChange func(models.VaultChanges)) {
	vaults, err := Await(ctx, func(done Completion[[]models.VaultMetadata]) error {
		return w.lister.ListVaultsMetadataOnly(ctx, done)
	})
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn().Err(err).Msg("failed to list vault metadata")
		}
		return
	}

	changes := diffMetadata(known, vaults)
	clear(known)
	for _, v := range vaults {
		known[v.ID] = v
	}

	if !changes.Empty() && onChange != nil {
		onChange(changes)
	}
}

// diffMetadata compares a listing with the previous one. Each result slice
// is sorted by vault id.
func diffMetadata(previous map[string]models.VaultMetadata, current []models.VaultMetadata) models.VaultChanges {
	var changes models.VaultChanges
	seen := make(map[string]struct{}, len(current))

	for _, v := range current {
		seen[v.ID] = struct{}{}
		old, ok := previous[v.ID]
		switch {
		case !ok:
			changes.Added = append(changes.Added, v)
		case old.Version != v.Version:
			changes.Updated = append(changes.Updated, v)
		}
	}
	for id, v := range previous {
		if _, ok := seen[id]; !ok {
			changes.Removed = append(changes.Removed, v)
		}
	}

	byID := func(a, b models.VaultMetadata) int { return cmp.Compare(a.ID, b.ID) }
	slices.SortFunc(changes.Added, byID)
	slices.SortFunc(changes.Updated, byID)
	slices.SortFunc(changes.Removed, byID)
	return changes
}
