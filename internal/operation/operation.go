// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package operation implements the units of asynchronous work the vault
// client is built from and the queue that runs them.
//
// An [Operation] moves ready → executing → finished exactly once. Before
// executing it may copy the outputs of its dependencies into its input and
// it refuses to execute when any dependency failed. Concrete operations
// (SignIn, CreateVault, ...) embed *Operation and expose their typed result
// as exported fields that are valid once [Operation.Done] is closed.
package operation

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-secure-vault/internal/logger"
	"github.com/MKhiriev/go-secure-vault/internal/utils"
	"github.com/MKhiriev/go-secure-vault/models"
)

// State is the lifecycle position of an Operation.
type State int

const (
	StateReady State = iota
	StateExecuting
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateExecuting:
		return "executing"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Observer is called after every state transition and after a successful
// Cancel, with the state current at that point. It runs on the goroutine
// that caused the change and must not block.
type Observer func(op *Operation, state State)

var ids = utils.NewUUIDGenerator()

// Operation is the shared state machine of all concrete operations.
type Operation struct {
	id   string
	name string
	exec func(ctx context.Context) error

	logger *logger.Logger

	mu                            sync.Mutex
	state                         State
	starting                      bool
	cancelled                     bool
	queuedTime                    time.Time
	startTime                     time.Time
	finishTime                    time.Time
	input                         map[string]any
	output                        map[string]any
	err                           error
	dependencies                  []*Operation
	copyDependenciesOutputAsInput bool
	completion                    func()
	observers                     []Observer
	done                          chan struct{}
}

// newOperation returns a ready operation that runs exec when started. The
// error returned by exec becomes the operation's error.
func newOperation(name string, log *logger.Logger, exec func(ctx context.Context) error) *Operation {
	id := ids.Generate()

	return &Operation{
		id:     id,
		name:   name,
		exec:   exec,
		logger: logger.OrNop(log).ForOperation(name, id),
		input:  make(map[string]any),
		output: make(map[string]any),
		done:   make(chan struct{}),
	}
}

// New returns an operation running fn. It is meant for glue steps and tests;
// the vault operations have dedicated constructors.
func New(name string, log *logger.Logger, fn func(ctx context.Context, op *Operation) error) *Operation {
	var op *Operation
	op = newOperation(name, log, func(ctx context.Context) error {
		return fn(ctx, op)
	})
	return op
}

func (o *Operation) ID() string   { return o.id }
func (o *Operation) Name() string { return o.name }

func (o *Operation) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Operation) IsCancelled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelled
}

// Err is the error the operation finished with. It is nil while the
// operation has not finished.
func (o *Operation) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

func (o *Operation) QueuedTime() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queuedTime
}

func (o *Operation) StartTime() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.startTime
}

func (o *Operation) FinishTime() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.finishTime
}

// Done is closed once the operation has finished and its completion has run.
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Input returns a copy of the input map.
func (o *Operation) Input() map[string]any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return maps.Clone(o.input)
}

func (o *Operation) SetInput(key string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.input[key] = value
}

// Output returns a copy of the output map.
func (o *Operation) Output() map[string]any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return maps.Clone(o.output)
}

func (o *Operation) SetOutput(key string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.output[key] = value
}

func (o *Operation) inputString(key string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.input[key].(string)
	return v, ok && v != ""
}

// AddDependency makes o wait for dep. Dependencies must be added before o
// is queued.
func (o *Operation) AddDependency(dep *Operation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dependencies = append(o.dependencies, dep)
}

func (o *Operation) Dependencies() []*Operation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.dependencies)
}

// SetCopyDependenciesOutputAsInput makes Start merge the output of every
// dependency into the input, in dependency order.
func (o *Operation) SetCopyDependenciesOutputAsInput(copyOutput bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.copyDependenciesOutputAsInput = copyOutput
}

// SetCompletion sets the hook run exactly once when the operation finishes,
// before Done is closed.
func (o *Operation) SetCompletion(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completion = fn
}

func (o *Operation) Observe(fn Observer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

func (o *Operation) markQueued(t time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.queuedTime.IsZero() {
		o.queuedTime = t
	}
}

// dependenciesFinished reports whether every dependency has finished.
func (o *Operation) dependenciesFinished() bool {
	for _, dep := range o.Dependencies() {
		if dep.State() != StateFinished {
			return false
		}
	}
	return true
}

// EvaluatePreconditions reports whether every dependency finished without
// an error.
func (o *Operation) EvaluatePreconditions() bool {
	for _, dep := range o.Dependencies() {
		if dep.Err() != nil {
			return false
		}
	}
	return true
}

// Cancel marks a ready operation as cancelled. It has no effect once the
// operation is executing or finished. A cancelled operation finishes with
// ErrCancelled when started, without executing.
func (o *Operation) Cancel() {
	o.mu.Lock()
	if o.state != StateReady || o.cancelled {
		o.mu.Unlock()
		return
	}
	o.cancelled = true
	observers := slices.Clone(o.observers)
	o.mu.Unlock()

	o.logger.Debug().Msg("cancelled")
	for _, fn := range observers {
		fn(o, StateReady)
	}
}

// Start runs the operation on the calling goroutine. It is a no-op unless
// the operation is ready, not already starting, and every dependency has
// finished. A cancelled operation finishes regardless of its dependencies.
func (o *Operation) Start(ctx context.Context) {
	if !o.dependenciesFinished() && !o.IsCancelled() {
		return
	}

	o.mu.Lock()
	if o.state != StateReady || o.starting {
		o.mu.Unlock()
		return
	}
	o.starting = true
	if o.cancelled {
		o.mu.Unlock()
		o.finish(ErrCancelled)
		return
	}
	o.startTime = time.Now()
	deps := slices.Clone(o.dependencies)
	copyOutput := o.copyDependenciesOutputAsInput
	o.mu.Unlock()

	if copyOutput {
		for _, dep := range deps {
			out := dep.Output()
			o.mu.Lock()
			maps.Copy(o.input, out)
			o.mu.Unlock()
		}
	}

	if !o.EvaluatePreconditions() {
		o.finish(models.ErrPreconditionFailure)
		return
	}

	o.mu.Lock()
	if o.cancelled {
		o.mu.Unlock()
		o.finish(ErrCancelled)
		return
	}
	o.state = StateExecuting
	observers := slices.Clone(o.observers)
	o.mu.Unlock()

	for _, fn := range observers {
		fn(o, StateExecuting)
	}
	o.logger.Info().Msg("started")

	o.finish(o.exec(utils.WithOperationID(ctx, o.id)))
}

// finish moves the operation to finished. Calls after the first are no-ops.
func (o *Operation) finish(err error) {
	o.mu.Lock()
	if o.state == StateFinished {
		o.mu.Unlock()
		return
	}
	o.state = StateFinished
	o.err = err
	o.finishTime = time.Now()
	completion := o.completion
	o.completion = nil
	observers := slices.Clone(o.observers)
	elapsed, queueTime := o.durations()
	o.mu.Unlock()

	event := o.logger.Info()
	if err != nil {
		event = o.logger.Warn().Err(err)
	}
	event.Int64("elapsed", elapsed.Milliseconds()).
		Int64("queue_time", queueTime.Milliseconds()).
		Msg("finished")

	for _, fn := range observers {
		fn(o, StateFinished)
	}
	if completion != nil {
		completion()
	}
	close(o.done)
}

// durations must be called with o.mu held.
func (o *Operation) durations() (elapsed, queueTime time.Duration) {
	if !o.startTime.IsZero() {
		elapsed = o.finishTime.Sub(o.startTime)
		if !o.queuedTime.IsZero() {
			queueTime = o.startTime.Sub(o.queuedTime)
		}
	} else if !o.queuedTime.IsZero() {
		queueTime = o.finishTime.Sub(o.queuedTime)
	}
	return elapsed, queueTime
}
