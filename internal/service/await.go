// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "context"

// Await runs call and blocks until its completion fires or ctx is done.
//
//	meta, err := service.Await(ctx, func(done service.Completion[models.VaultMetadata]) error {
//		return client.CreateVault(ctx, key, password, blob, "json", nil, done)
//	})
//
// When ctx ends first the queued work is not cancelled; it still runs and
// its secrets are still wiped.
func Await[T any](ctx context.Context, call func(completion Completion[T]) error) (T, error) {
	type outcome struct {
		result T
		err    error
	}

	var zero T
	done := make(chan outcome, 1)
	if err := call(func(result T, err error) {
		done <- outcome{result: result, err: err}
	}); err != nil {
		return zero, err
	}

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
