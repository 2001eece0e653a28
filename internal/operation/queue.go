// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package operation

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-secure-vault/internal/logger"
)

type queued struct {
	op  *Operation
	ctx context.Context
}

// Queue runs operations in submission order with at most maxConcurrent of
// them executing at a time. An operation is not started before all of its
// dependencies have finished; dependencies need not be in the same queue.
type Queue struct {
	name          string
	maxConcurrent int
	logger        *logger.Logger

	mu      sync.Mutex
	idle    *sync.Cond
	pending []queued
	running map[*Operation]struct{}
	closed  bool
}

// NewQueue returns an empty queue. maxConcurrent below 1 is treated as 1.
func NewQueue(name string, maxConcurrent int, log *logger.Logger) *Queue {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	q := &Queue{
		name:          name,
		maxConcurrent: maxConcurrent,
		logger:        logger.OrNop(log).Named("queue:" + name),
		running:       make(map[*Operation]struct{}),
	}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Add submits ops. The operations run with ctx; an operation whose ctx is
// done by the time it is scheduled is cancelled instead. Adding to a closed
// queue cancels ops and finishes them on a separate goroutine.
func (q *Queue) Add(ctx context.Context, ops ...*Operation) {
	now := time.Now()
	for _, op := range ops {
		op.markQueued(now)
		op.Observe(q.onStateChange)
		for _, dep := range op.Dependencies() {
			dep.Observe(q.onStateChange)
		}
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		go func() {
			for _, op := range ops {
				op.Cancel()
				op.Start(ctx)
			}
		}()
		return
	}
	for _, op := range ops {
		q.pending = append(q.pending, queued{op: op, ctx: ctx})
	}
	q.logger.Debug().Int("added", len(ops)).Int("pending", len(q.pending)).Msg("operations queued")
	q.schedule()
	q.mu.Unlock()
}

// onStateChange releases the slot of a finished operation before its
// completion hook runs, then starts whatever became runnable.
func (q *Queue) onStateChange(op *Operation, state State) {
	if state == StateExecuting {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.running[op]; ok && state == StateFinished {
		delete(q.running, op)
	}
	q.schedule()
	if len(q.running) == 0 && len(q.pending) == 0 {
		q.idle.Broadcast()
	}
}

// schedule starts the first runnable pending operations. Must be called with
// q.mu held.
func (q *Queue) schedule() {
	for len(q.running) < q.maxConcurrent {
		idx := -1
		for i, p := range q.pending {
			if p.op.IsCancelled() || p.op.dependenciesFinished() {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}

		next := q.pending[idx]
		q.pending = append(q.pending[:idx], q.pending[idx+1:]...)
		q.running[next.op] = struct{}{}
		go q.run(next)
	}
}

func (q *Queue) run(item queued) {
	if item.ctx.Err() != nil {
		item.op.Cancel()
	}
	item.op.Start(item.ctx)

	// Start is a no-op for an operation that already finished elsewhere.
	if item.op.State() == StateFinished {
		q.onStateChange(item.op, StateFinished)
	}
}

// OperationCount returns the number of operations queued or executing.
func (q *Queue) OperationCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) + len(q.running)
}

// Wait blocks until the queue is empty.
func (q *Queue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.running) > 0 || len(q.pending) > 0 {
		q.idle.Wait()
	}
}

// Close cancels every pending operation and rejects further ones. Executing
// operations run to completion. Cancelled operations still finish, so their
// completion hooks run.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	pending := make([]*Operation, 0, len(q.pending))
	for _, p := range q.pending {
		pending = append(pending, p.op)
	}
	q.mu.Unlock()

	q.logger.Debug().Int("cancelled", len(pending)).Msg("queue closed")
	for _, op := range pending {
		op.Cancel()
	}
}
