// SPDX-License-Identifier: MPL-2.0

// Package command implements the command registry served to interactive
// shell sessions: discovery of handler-declared command metadata, the
// immutable two-level (group → command) registry, and the invocation
// pipeline that turns handler failures into user-safe output.
package command

import (
	"errors"
	"fmt"
)

// DefaultKey is the reserved command name under which a group's default
// action is registered. It is never a user-typed command name: the session
// layer resolves it when the user supplies a group with no subcommand.
const DefaultKey = "execute"

// ErrSessionEnded is the termination signal. A handler returns an error
// matching this sentinel (via errors.Is) to request that the owning session
// end. It is a control signal, not a failure: the Invoker propagates it
// verbatim and never renders it as output.
var ErrSessionEnded = errors.New("session ended")

// ErrMissingGroup is the sentinel error wrapped by MissingGroupError.
var ErrMissingGroup = errors.New("missing group metadata")

type (
	// Func is the callable bound to a command: one opaque argument string
	// in, one display string out. Argument splitting beyond the group and
	// command head tokens is the handler's concern, not the registry's.
	Func func(arg string) (string, error)

	// GroupSpec is the group-level metadata a handler declares.
	GroupSpec struct {
		// Name is the top-level command-group name. Must be non-empty.
		Name string
		// Description is shown in help listings.
		Description string
	}

	// CommandSpec is a single subcommand registration within a group.
	CommandSpec struct {
		// Name is the subcommand name, unique within the group. Must be
		// non-empty.
		Name string
		// Description is shown in help listings.
		Description string
		// Run is the bound callable.
		Run Func
	}

	// Handler declares one command group. Handlers are externally owned;
	// the registry holds only the closures needed to invoke them.
	Handler interface {
		Group() GroupSpec
		Commands() []CommandSpec
	}

	// DefaultRunner is the optional interface a handler implements to give
	// its group a default action, bound under DefaultKey. Groups whose
	// handler does not implement it still get a DefaultKey entry, with a
	// nil Run.
	DefaultRunner interface {
		Execute(arg string) (string, error)
	}

	// Wrapper is implemented by handlers that transparently wrap another
	// handler (decoration, interception). Discovery resolves through
	// wrappers to the registration-bearing handler before reading
	// metadata, so a wrapper must not shadow the wrapped declarations.
	Wrapper interface {
		Unwrap() Handler
	}

	// Descriptor is the immutable record for one invocable command.
	Descriptor struct {
		// Group is the owning group name.
		Group string
		// Name is the command name within the group (DefaultKey for the
		// group's default action).
		Name string
		// Description is the registering spec's description.
		Description string
		// Run is the bound callable. Nil only for a DefaultKey entry of a
		// group with no default action; such a descriptor must be treated
		// as "unknown command" by callers and never handed to the Invoker.
		Run Func
	}

	// MissingGroupError is returned when a handler declares no usable
	// group metadata.
	MissingGroupError struct {
		Handler string
	}

	// DuplicateCommandError is returned when two different handlers
	// register the same command name into one group.
	DuplicateCommandError struct {
		Group string
		Name  string
	}
)

// Runnable reports whether the descriptor has a bound callable.
func (d Descriptor) Runnable() bool { return d.Run != nil }

// Error implements the error interface for MissingGroupError.
func (e *MissingGroupError) Error() string {
	return fmt.Sprintf("handler %s declares no group name", e.Handler)
}

// Unwrap returns ErrMissingGroup for errors.Is() compatibility.
func (e *MissingGroupError) Unwrap() error { return ErrMissingGroup }

// Error implements the error interface for DuplicateCommandError.
func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command %q already registered in group %q by another handler", e.Name, e.Group)
}
