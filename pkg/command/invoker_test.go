// SPDX-License-Identifier: MPL-2.0

package command

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// newTestInvoker returns an invoker whose reporter logs into buf with the
// given verbosity.
func newTestInvoker(buf *bytes.Buffer, verbose bool) *Invoker {
	logger := log.New(buf)
	reporter := NewReporter(logger, func() bool { return verbose })
	return NewInvoker(reporter)
}

func TestInvoke_ReturnsHandlerOutput(t *testing.T) {
	t.Parallel()

	inv := newTestInvoker(&bytes.Buffer{}, false)
	d := Descriptor{Group: "test", Name: "run", Run: echoFunc}

	out, err := inv.Invoke(d, "bob")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if out != "bob" {
		t.Errorf("Invoke output = %q, want %q", out, "bob")
	}
}

func TestInvoke_FailureRendering(t *testing.T) {
	t.Parallel()

	boom := errors.New("backend unreachable: 10.0.0.7:5432")

	tests := []struct {
		name        string
		verbose     bool
		wantDetail  bool
		wantGeneric bool
	}{
		{"verbose off hides detail", false, false, true},
		{"verbose on embeds detail", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logBuf bytes.Buffer
			inv := newTestInvoker(&logBuf, tt.verbose)
			d := Descriptor{Group: "db", Name: "ping", Run: func(string) (string, error) { return "", boom }}

			out, err := inv.Invoke(d, "")
			if err != nil {
				t.Fatalf("invocation failure must not propagate as error, got %v", err)
			}
			if !strings.HasPrefix(out, failurePrefix) {
				t.Errorf("output %q should start with %q", out, failurePrefix)
			}
			if got := strings.Contains(out, boom.Error()); got != tt.wantDetail {
				t.Errorf("detail in output = %v, want %v (output %q)", got, tt.wantDetail, out)
			}
			if got := strings.Contains(out, genericFailureText); got != tt.wantGeneric {
				t.Errorf("generic text in output = %v, want %v (output %q)", got, tt.wantGeneric, out)
			}
			// Operator log always carries the full detail.
			if !strings.Contains(logBuf.String(), boom.Error()) {
				t.Errorf("operator log %q should carry the failure detail", logBuf.String())
			}
		})
	}
}

func TestInvoke_TerminationPropagatesVerbatim(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	inv := newTestInvoker(&logBuf, true)
	wrappedEnd := fmt.Errorf("operator asked to leave: %w", ErrSessionEnded)
	d := Descriptor{Group: "session", Name: "bye", Run: func(string) (string, error) { return "", wrappedEnd }}

	out, err := inv.Invoke(d, "")
	if !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("Invoke error = %v, want ErrSessionEnded", err)
	}
	if err != wrappedEnd {
		t.Errorf("termination signal must propagate unmodified, got %v", err)
	}
	if out != "" {
		t.Errorf("no display string may be produced for a terminated call, got %q", out)
	}
	if logBuf.Len() != 0 {
		t.Errorf("termination is not a failure; nothing should be logged, got %q", logBuf.String())
	}
}

func TestInvoke_PanicRecovered(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	inv := newTestInvoker(&logBuf, true)
	d := Descriptor{Group: "test", Name: "boom", Run: func(string) (string, error) { panic("nil map write") }}

	out, err := inv.Invoke(d, "")
	if err != nil {
		t.Fatalf("panic must be absorbed at the invoker boundary, got error %v", err)
	}
	if !strings.Contains(out, "nil map write") {
		t.Errorf("verbose rendering should include the panic value, got %q", out)
	}
	if !strings.Contains(logBuf.String(), "nil map write") {
		t.Errorf("operator log should include the panic value, got %q", logBuf.String())
	}
}

func TestInvoke_NilCallableDefensiveCheck(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	inv := newTestInvoker(&logBuf, false)
	d := Descriptor{Group: "bare", Name: DefaultKey}

	out, err := inv.Invoke(d, "")
	if err != nil {
		t.Fatalf("nil callable must not crash or propagate, got %v", err)
	}
	if !strings.HasPrefix(out, failurePrefix) {
		t.Errorf("output %q should be rendered error text", out)
	}
	if logBuf.Len() == 0 {
		t.Error("programming error should be visible in the operator log")
	}
}

func TestReporter_DebugLevelEnablesDetail(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	reporter := NewReporter(logger, nil)

	out := reporter.Render(errors.New("secret detail"))
	if !strings.Contains(out, "secret detail") {
		t.Errorf("debug-level logger should opt in to detail, got %q", out)
	}

	logger.SetLevel(log.InfoLevel)
	out = reporter.Render(errors.New("secret detail"))
	if strings.Contains(out, "secret detail") {
		t.Errorf("info-level logger should hide detail, got %q", out)
	}
}
