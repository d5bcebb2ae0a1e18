// SPDX-License-Identifier: MPL-2.0

package handlers

import (
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"quarterdeck/pkg/command"
)

func TestAll_BuildsCleanly(t *testing.T) {
	t.Parallel()

	reg, err := command.Build(All(log.New(io.Discard))...)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{"echo", "health", "system"}
	if got := reg.Groups(); !reflect.DeepEqual(got, want) {
		t.Errorf("Groups() = %v, want %v", got, want)
	}
}

func TestEchoHandler(t *testing.T) {
	t.Parallel()

	reg, err := command.Build(NewEchoHandler())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	d, ok := reg.Lookup("echo", "run")
	if !ok {
		t.Fatal("Lookup(echo, run) missed")
	}
	if out, _ := d.Run("bob"); out != "bob" {
		t.Errorf("echo run = %q, want %q", out, "bob")
	}

	d, _ = reg.Lookup("echo", "upper")
	if out, _ := d.Run("bob"); out != "BOB" {
		t.Errorf("echo upper = %q, want %q", out, "BOB")
	}

	// Echo has no default action by design.
	d, ok = reg.Lookup("echo", command.DefaultKey)
	if !ok {
		t.Fatal("default entry must exist for every group")
	}
	if d.Runnable() {
		t.Error("echo default entry should have no callable")
	}
}

func TestSystemHandler(t *testing.T) {
	t.Parallel()

	h := NewSystemHandler()

	out, err := h.Execute("")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	for _, want := range []string{"pid:", "go:", "uptime:"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary %q should contain %q", out, want)
		}
	}

	mem, err := h.runMem("")
	if err != nil {
		t.Fatalf("mem failed: %v", err)
	}
	if !strings.Contains(mem, "heap alloc:") {
		t.Errorf("mem output %q should report heap alloc", mem)
	}

	gc, err := h.runGC("")
	if err != nil {
		t.Fatalf("gc failed: %v", err)
	}
	if !strings.Contains(gc, "garbage collection complete") {
		t.Errorf("gc output %q unexpected", gc)
	}
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler()
	out, err := h.Execute("")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, `"status":"UP"`) {
		t.Errorf("health output %q should report UP", out)
	}
}

func TestAudited_TransparentToRegistry(t *testing.T) {
	t.Parallel()

	wrapped := Audited(NewEchoHandler(), log.New(io.Discard))

	w, ok := wrapped.(command.Wrapper)
	if !ok {
		t.Fatal("Audited handler should implement command.Wrapper")
	}
	if _, isEcho := w.Unwrap().(*EchoHandler); !isEcho {
		t.Error("Unwrap should expose the inner handler")
	}

	reg, err := command.Build(wrapped)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := reg.Lookup("echo", "run"); !ok {
		t.Error("wrapped handler's commands should register")
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
