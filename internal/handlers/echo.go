// SPDX-License-Identifier: MPL-2.0

package handlers

import (
	"strings"

	"quarterdeck/pkg/command"
)

// EchoHandler returns its input, useful for connectivity checks and for
// verifying argument passing end to end. It deliberately has no default
// action: a bare "echo" is an unknown command.
type EchoHandler struct{}

// NewEchoHandler creates the echo group.
func NewEchoHandler() *EchoHandler { return &EchoHandler{} }

// Group declares the handler's group metadata.
func (h *EchoHandler) Group() command.GroupSpec {
	return command.GroupSpec{Name: "echo", Description: "echo arguments back"}
}

// Commands declares the group's subcommands.
func (h *EchoHandler) Commands() []command.CommandSpec {
	return []command.CommandSpec{
		{Name: "run", Description: "return the argument unchanged", Run: h.runEcho},
		{Name: "upper", Description: "return the argument upper-cased", Run: h.runUpper},
	}
}

func (h *EchoHandler) runEcho(arg string) (string, error) {
	return arg, nil
}

func (h *EchoHandler) runUpper(arg string) (string, error) {
	return strings.ToUpper(arg), nil
}
