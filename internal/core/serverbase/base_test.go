// SPDX-License-Identifier: MPL-2.0

package serverbase

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestState_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  string
	}{
		{StateCreated, "created"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopping, "stopping"},
		{StateStopped, "stopped"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsTerminal(t *testing.T) {
	t.Parallel()

	for _, s := range []State{StateCreated, StateStarting, StateRunning, StateStopping} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []State{StateStopped, StateFailed} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestBase_HappyLifecycle(t *testing.T) {
	t.Parallel()

	b := NewBase()
	if b.State() != StateCreated {
		t.Fatalf("initial state = %s, want created", b.State())
	}

	if err := b.TransitionToStarting(context.Background()); err != nil {
		t.Fatalf("TransitionToStarting failed: %v", err)
	}
	if b.Context() == nil {
		t.Fatal("context should exist after TransitionToStarting")
	}

	b.TransitionToRunning()
	if !b.IsRunning() {
		t.Fatalf("state = %s, want running", b.State())
	}

	select {
	case <-b.StartedChannel():
	case <-time.After(time.Second):
		t.Fatal("started channel should be closed once running")
	}

	if !b.TransitionToStopping() {
		t.Fatal("TransitionToStopping should succeed from running")
	}
	select {
	case <-b.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("stopping should cancel the server context")
	}

	b.TransitionToStopped()
	if b.State() != StateStopped {
		t.Errorf("state = %s, want stopped", b.State())
	}
}

func TestBase_StartWithCancelledContext(t *testing.T) {
	t.Parallel()

	b := NewBase()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.TransitionToStarting(ctx)
	if err == nil {
		t.Fatal("expected error when starting with cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want wrapped context.Canceled", err)
	}
	if b.State() != StateFailed {
		t.Errorf("state = %s, want failed", b.State())
	}
}

func TestBase_DoubleStartRejected(t *testing.T) {
	t.Parallel()

	b := NewBase()
	if err := b.TransitionToStarting(context.Background()); err != nil {
		t.Fatalf("first TransitionToStarting failed: %v", err)
	}
	if err := b.TransitionToStarting(context.Background()); err == nil {
		t.Fatal("second TransitionToStarting should fail")
	}
}

func TestBase_StopBeforeStart(t *testing.T) {
	t.Parallel()

	b := NewBase()
	if b.TransitionToStopping() {
		t.Fatal("TransitionToStopping before start should not own the shutdown")
	}
	if b.State() != StateStopped {
		t.Errorf("state = %s, want stopped", b.State())
	}
}

func TestBase_FailureReporting(t *testing.T) {
	t.Parallel()

	b := NewBase()
	if err := b.TransitionToStarting(context.Background()); err != nil {
		t.Fatalf("TransitionToStarting failed: %v", err)
	}

	boom := errors.New("bind: address in use")
	b.TransitionToFailed(boom)

	if b.State() != StateFailed {
		t.Fatalf("state = %s, want failed", b.State())
	}
	if !errors.Is(b.LastError(), boom) {
		t.Errorf("LastError = %v, want %v", b.LastError(), boom)
	}

	select {
	case err := <-b.Err():
		if !errors.Is(err, boom) {
			t.Errorf("Err() delivered %v, want %v", err, boom)
		}
	case <-time.After(time.Second):
		t.Fatal("Err() should deliver the fatal error")
	}
}

func TestBase_GoroutineTracking(t *testing.T) {
	t.Parallel()

	b := NewBase()
	b.AddGoroutine()
	done := make(chan struct{})
	go func() {
		defer b.DoneGoroutine()
		<-done
	}()

	close(done)
	b.WaitForShutdown()
}
