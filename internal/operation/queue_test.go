// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package operation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-secure-vault/models"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) op(name string, err error) *Operation {
	return New(name, nil, func(context.Context, *Operation) error {
		r.mu.Lock()
		r.order = append(r.order, name)
		r.mu.Unlock()
		return err
	})
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

func waitDone(t *testing.T, ops ...*Operation) {
	t.Helper()
	for _, op := range ops {
		select {
		case <-op.Done():
		case <-time.After(5 * time.Second):
			t.Fatalf("operation %s did not finish", op.Name())
		}
	}
}

func TestQueue_RunsInSubmissionOrder(t *testing.T) {
	q := NewQueue("test", 1, nil)
	rec := &recorder{}

	a, b, c := rec.op("a", nil), rec.op("b", nil), rec.op("c", nil)
	q.Add(context.Background(), a, b)
	q.Add(context.Background(), c)
	q.Wait()

	assert.Equal(t, []string{"a", "b", "c"}, rec.names())
	assert.Equal(t, 0, q.OperationCount())
	assert.False(t, a.QueuedTime().IsZero())
}

func TestQueue_WaitsForDependencies(t *testing.T) {
	q := NewQueue("test", 1, nil)
	rec := &recorder{}

	first := rec.op("first", nil)
	second := rec.op("second", nil)
	second.AddDependency(first)

	q.Add(context.Background(), second, first)
	q.Wait()

	assert.Equal(t, []string{"first", "second"}, rec.names())
}

func TestQueue_DependencyFailurePropagates(t *testing.T) {
	q := NewQueue("test", 1, nil)
	rec := &recorder{}

	signIn := rec.op("signIn", models.ErrNotAuthorized)
	create := rec.op("create", nil)
	create.AddDependency(signIn)

	q.Add(context.Background(), signIn, create)
	waitDone(t, signIn, create)

	assert.Equal(t, []string{"signIn"}, rec.names())
	assert.ErrorIs(t, create.Err(), models.ErrPreconditionFailure)
}

func TestQueue_DependencyInAnotherQueue(t *testing.T) {
	other := NewQueue("other", 1, nil)
	q := NewQueue("test", 1, nil)

	release := make(chan struct{})
	blocker := New("blocker", nil, func(context.Context, *Operation) error {
		<-release
		return nil
	})
	dependent := New("dependent", nil, func(context.Context, *Operation) error { return nil })
	dependent.AddDependency(blocker)

	q.Add(context.Background(), dependent)
	other.Add(context.Background(), blocker)

	assert.Equal(t, StateReady, dependent.State())
	close(release)
	waitDone(t, blocker, dependent)

	assert.NoError(t, dependent.Err())
}

func TestQueue_RespectsMaxConcurrent(t *testing.T) {
	q := NewQueue("test", 2, nil)

	var current, peak atomic.Int32
	ops := make([]*Operation, 0, 6)
	for range 6 {
		ops = append(ops, New("work", nil, func(context.Context, *Operation) error {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
			return nil
		}))
	}

	q.Add(context.Background(), ops...)
	q.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestQueue_OperationCount(t *testing.T) {
	q := NewQueue("test", 1, nil)
	release := make(chan struct{})

	blocking := New("blocking", nil, func(context.Context, *Operation) error {
		<-release
		return nil
	})
	next := New("next", nil, func(context.Context, *Operation) error { return nil })

	q.Add(context.Background(), blocking, next)
	assert.Equal(t, 2, q.OperationCount())

	close(release)
	q.Wait()
	assert.Equal(t, 0, q.OperationCount())
}

func TestQueue_CancelledContextCancelsOperation(t *testing.T) {
	q := NewQueue("test", 1, nil)
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := rec.op("never", nil)
	q.Add(ctx, op)
	waitDone(t, op)

	assert.Empty(t, rec.names())
	assert.ErrorIs(t, op.Err(), ErrCancelled)
}

func TestQueue_CloseCancelsPending(t *testing.T) {
	q := NewQueue("test", 1, nil)
	release := make(chan struct{})

	running := New("running", nil, func(context.Context, *Operation) error {
		<-release
		return nil
	})
	rec := &recorder{}
	pending := rec.op("pending", nil)

	completed := make(chan struct{})
	pending.SetCompletion(func() { close(completed) })

	q.Add(context.Background(), running, pending)
	require.Eventually(t, func() bool { return running.State() == StateExecuting }, time.Second, time.Millisecond)

	q.Close()
	close(release)
	waitDone(t, running, pending)
	<-completed

	assert.NoError(t, running.Err())
	assert.ErrorIs(t, pending.Err(), ErrCancelled)
	assert.Empty(t, rec.names())

	late := rec.op("late", nil)
	q.Add(context.Background(), late)
	waitDone(t, late)
	assert.ErrorIs(t, late.Err(), ErrCancelled)
}
