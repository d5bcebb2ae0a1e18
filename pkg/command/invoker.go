// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
)

// Invoker executes resolved descriptors. It holds no mutable state, so one
// Invoker is safely shared by all concurrent sessions.
type Invoker struct {
	reporter *Reporter
}

// NewInvoker builds an Invoker rendering failures through the reporter.
func NewInvoker(reporter *Reporter) *Invoker {
	return &Invoker{reporter: reporter}
}

// Invoke runs the descriptor's callable against the argument string.
//
// Only the termination signal crosses this boundary as an error: when the
// callable returns an error matching ErrSessionEnded it is propagated
// verbatim so the owning session can unwind. Every other failure — an
// ordinary error return or a panic in the handler — is logged and rendered
// into user-safe text, which becomes the call's successful output.
//
// Callers are expected to have rejected nil-callable descriptors as
// "unknown command" during lookup; hitting one here is a programming error
// and is answered with rendered error text rather than a crash.
func (i *Invoker) Invoke(d Descriptor, arg string) (out string, err error) {
	if d.Run == nil {
		return i.reporter.Render(fmt.Errorf("command %s %s has no bound callable", d.Group, d.Name)), nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = i.reporter.Render(fmt.Errorf("command %s %s panicked: %v", d.Group, d.Name, rec))
			err = nil
		}
	}()

	out, err = d.Run(arg)
	if err != nil {
		if errors.Is(err, ErrSessionEnded) {
			return "", err
		}
		return i.reporter.Render(err), nil
	}
	return out, nil
}
