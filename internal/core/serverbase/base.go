// SPDX-License-Identifier: MPL-2.0

// Package serverbase provides the lifecycle state machine embedded by
// quarterdeck's long-running server components: atomic state reads,
// mutex-protected transitions, WaitGroup tracking, and context-based
// cancellation.
package serverbase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	// StateCreated indicates the server instance was created but Start() not called.
	StateCreated State = iota
	// StateStarting indicates Start() was called and the server is initializing.
	StateStarting
	// StateRunning indicates the server is accepting connections.
	StateRunning
	// StateStopping indicates Stop() was called and graceful shutdown is in progress.
	StateStopping
	// StateStopped is terminal: the server has stopped.
	StateStopped
	// StateFailed is terminal: the server failed to start or hit a fatal error.
	StateFailed
)

// State represents the lifecycle state of a server.
type State int32

// String returns a human-readable representation of the server state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true for Stopped and Failed.
func (s State) IsTerminal() bool {
	return s == StateStopped || s == StateFailed
}

// Base carries the shared lifecycle machinery. Concrete servers embed it.
// A server instance is single-use: once stopped or failed, create a new one.
type Base struct {
	state   atomic.Int32
	stateMu sync.Mutex

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedCh chan struct{}
	errCh     chan error
	lastErr   error
}

// NewBase creates a Base in the Created state.
func NewBase() *Base {
	b := &Base{
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 1),
	}
	b.state.Store(int32(StateCreated))
	return b
}

// State returns the current server state (atomic, lock-free read).
func (b *Base) State() State {
	return State(b.state.Load())
}

// IsRunning returns true if the server is in the Running state.
func (b *Base) IsRunning() bool {
	return b.State() == StateRunning
}

// Err returns a channel for receiving async fatal errors. It is closed
// when the server stops.
func (b *Base) Err() <-chan error {
	return b.errCh
}

// LastError returns the error that caused the Failed state, or nil.
func (b *Base) LastError() error {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.lastErr
}

// TransitionToStarting attempts Created -> Starting. It must be called at
// the beginning of Start(). A context already cancelled at this point
// fails the transition before any setup happens, closing a race where the
// serve goroutine could reach Running after the caller has given up.
func (b *Base) TransitionToStarting(ctx context.Context) error {
	select {
	case <-ctx.Done():
		b.TransitionToFailed(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return b.LastError()
	default:
	}

	if !b.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", b.State())
	}

	b.ctx, b.cancel = context.WithCancel(context.Background())
	return nil
}

// TransitionToRunning marks the server ready and closes the started
// channel to signal waiters.
func (b *Base) TransitionToRunning() {
	if b.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(b.startedCh)
	}
}

// TransitionToFailed records the fatal error, moves to Failed, and cancels
// the server context.
func (b *Base) TransitionToFailed(err error) {
	b.stateMu.Lock()
	b.lastErr = err
	b.stateMu.Unlock()

	b.state.Store(int32(StateFailed))

	if b.cancel != nil {
		b.cancel()
	}
	b.SendError(err)
}

// TransitionToStopping attempts to move into Stopping. It returns true if
// this caller owns the shutdown; false if the server never started, is
// already stopping, or is already terminal.
func (b *Base) TransitionToStopping() bool {
	for {
		current := b.State()
		switch current {
		case StateStopped, StateFailed, StateStopping:
			return false
		case StateCreated:
			if b.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return false
			}
		case StateStarting, StateRunning:
			if !b.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				continue
			}
			if b.cancel != nil {
				b.cancel()
			}
			return true
		default:
			return false
		}
	}
}

// TransitionToStopped marks the server fully stopped. Call only after all
// tracked goroutines have exited.
func (b *Base) TransitionToStopped() {
	b.state.Store(int32(StateStopped))
}

// WaitForShutdown blocks until all tracked goroutines have completed.
func (b *Base) WaitForShutdown() {
	b.wg.Wait()
}

// Context returns the server's internal context, nil before Start.
func (b *Base) Context() context.Context {
	return b.ctx
}

// AddGoroutine registers a goroutine with the shutdown WaitGroup. Call
// before starting it.
func (b *Base) AddGoroutine() {
	b.wg.Add(1)
}

// DoneGoroutine marks a tracked goroutine finished. Defer it first thing.
func (b *Base) DoneGoroutine() {
	b.wg.Done()
}

// SendError delivers an error to Err() consumers without blocking; if the
// channel is full the error is dropped.
func (b *Base) SendError(err error) {
	select {
	case b.errCh <- err:
	default:
	}
}

// CloseErrChannel closes the error channel to signal consumers. Call once,
// when the server is fully stopped.
func (b *Base) CloseErrChannel() {
	close(b.errCh)
}

// StartedChannel returns the channel closed when the server reaches
// Running, for custom waiting logic.
func (b *Base) StartedChannel() <-chan struct{} {
	return b.startedCh
}
