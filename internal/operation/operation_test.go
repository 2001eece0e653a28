// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package operation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-secure-vault/internal/utils"
	"github.com/MKhiriev/go-secure-vault/models"
)

func finishedOp(t *testing.T, name string, err error, output map[string]any) *Operation {
	t.Helper()

	op := New(name, nil, func(_ context.Context, op *Operation) error {
		for k, v := range output {
			op.SetOutput(k, v)
		}
		return err
	})
	op.Start(context.Background())
	require.Equal(t, StateFinished, op.State())
	return op
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "executing", StateExecuting.String())
	assert.Equal(t, "finished", StateFinished.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestOperation_StartRunsExecAndFinishes(t *testing.T) {
	var (
		mu     sync.Mutex
		states []State
		ctxID  string
	)

	op := New("test", nil, func(ctx context.Context, _ *Operation) error {
		ctxID, _ = utils.GetOperationIDFromContext(ctx)
		return nil
	})
	op.Observe(func(_ *Operation, s State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	})

	assert.Equal(t, StateReady, op.State())
	assert.NotEmpty(t, op.ID())
	assert.Equal(t, "test", op.Name())

	op.Start(context.Background())

	assert.Equal(t, StateFinished, op.State())
	assert.NoError(t, op.Err())
	assert.Equal(t, op.ID(), ctxID)
	assert.Equal(t, []State{StateExecuting, StateFinished}, states)
	assert.False(t, op.StartTime().IsZero())
	assert.False(t, op.FinishTime().Before(op.StartTime()))

	select {
	case <-op.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestOperation_ExecErrorIsRecorded(t *testing.T) {
	boom := errors.New("boom")
	op := finishedOp(t, "failing", boom, nil)

	assert.ErrorIs(t, op.Err(), boom)
}

func TestOperation_FailedDependencyNeverExecutes(t *testing.T) {
	dep := finishedOp(t, "dep", models.ErrNotAuthorized, nil)

	executed := false
	op := New("dependent", nil, func(context.Context, *Operation) error {
		executed = true
		return nil
	})
	op.AddDependency(dep)

	assert.False(t, op.EvaluatePreconditions())
	op.Start(context.Background())

	assert.False(t, executed)
	assert.Equal(t, StateFinished, op.State())
	assert.ErrorIs(t, op.Err(), models.ErrPreconditionFailure)
}

func TestOperation_StartWaitsForDependencies(t *testing.T) {
	dep := New("dep", nil, func(context.Context, *Operation) error { return nil })

	executed := false
	op := New("dependent", nil, func(context.Context, *Operation) error {
		executed = true
		return nil
	})
	op.AddDependency(dep)

	op.Start(context.Background())
	assert.False(t, executed)
	assert.Equal(t, StateReady, op.State())

	dep.Start(context.Background())
	op.Start(context.Background())
	assert.True(t, executed)
	assert.Equal(t, StateFinished, op.State())
	assert.NoError(t, op.Err())
}

func TestOperation_CancelledStartsWithPendingDependencies(t *testing.T) {
	dep := New("dep", nil, func(context.Context, *Operation) error { return nil })
	op := New("dependent", nil, func(context.Context, *Operation) error {
		t.Error("cancelled operation must not execute")
		return nil
	})
	op.AddDependency(dep)

	op.Cancel()
	op.Start(context.Background())

	assert.Equal(t, StateFinished, op.State())
	assert.ErrorIs(t, op.Err(), ErrCancelled)
	assert.Equal(t, StateReady, dep.State())
}

func TestOperation_CopiesDependencyOutputLaterWins(t *testing.T) {
	first := finishedOp(t, "first", nil, map[string]any{KeyToken: "old", "a": 1})
	second := finishedOp(t, "second", nil, map[string]any{KeyToken: "new"})

	var seen map[string]any
	op := New("consumer", nil, func(_ context.Context, op *Operation) error {
		seen = op.Input()
		return nil
	})
	op.SetInput("own", true)
	op.AddDependency(first)
	op.AddDependency(second)
	op.SetCopyDependenciesOutputAsInput(true)

	op.Start(context.Background())
	require.NoError(t, op.Err())

	assert.Equal(t, map[string]any{KeyToken: "new", "a": 1, "own": true}, seen)
}

func TestOperation_DoesNotCopyOutputByDefault(t *testing.T) {
	dep := finishedOp(t, "dep", nil, map[string]any{KeyToken: "tok"})

	op := New("consumer", nil, func(context.Context, *Operation) error { return nil })
	op.AddDependency(dep)
	op.Start(context.Background())

	assert.Empty(t, op.Input())
}

func TestOperation_CancelWhileReady(t *testing.T) {
	executed := false
	completions := 0
	op := New("cancelled", nil, func(context.Context, *Operation) error {
		executed = true
		return nil
	})
	op.SetCompletion(func() { completions++ })

	op.Cancel()
	assert.True(t, op.IsCancelled())
	assert.Equal(t, StateReady, op.State())

	op.Start(context.Background())

	assert.False(t, executed)
	assert.Equal(t, StateFinished, op.State())
	assert.ErrorIs(t, op.Err(), ErrCancelled)
	assert.ErrorIs(t, op.Err(), context.Canceled)
	assert.Equal(t, 1, completions)
}

func TestOperation_CancelAfterFinishIsIgnored(t *testing.T) {
	op := finishedOp(t, "done", nil, nil)

	op.Cancel()

	assert.False(t, op.IsCancelled())
	assert.NoError(t, op.Err())
}

func TestOperation_FinishIsIdempotent(t *testing.T) {
	boom := errors.New("boom")
	op := finishedOp(t, "once", boom, nil)
	finishedAt := op.FinishTime()

	op.finish(nil)
	op.finish(errors.New("other"))

	assert.Equal(t, StateFinished, op.State())
	assert.ErrorIs(t, op.Err(), boom)
	assert.Equal(t, finishedAt, op.FinishTime())
}

func TestOperation_StartIsNoOpOnceFinished(t *testing.T) {
	calls := 0
	op := New("twice", nil, func(context.Context, *Operation) error {
		calls++
		return nil
	})

	op.Start(context.Background())
	op.Start(context.Background())

	assert.Equal(t, 1, calls)
}

func TestOperation_CompletionRunsBeforeDone(t *testing.T) {
	op := New("completion", nil, func(context.Context, *Operation) error { return nil })

	var finishedInCompletion bool
	op.SetCompletion(func() {
		finishedInCompletion = op.State() == StateFinished
		select {
		case <-op.Done():
			t.Error("done closed before completion")
		default:
		}
	})

	op.Start(context.Background())

	assert.True(t, finishedInCompletion)
}

func TestOperation_InputAndOutputAreCopies(t *testing.T) {
	op := New("maps", nil, func(context.Context, *Operation) error { return nil })
	op.SetInput("k", "v")

	in := op.Input()
	in["k"] = "changed"

	assert.Equal(t, "v", op.Input()["k"])
}
