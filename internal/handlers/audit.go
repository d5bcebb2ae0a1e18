// SPDX-License-Identifier: MPL-2.0

package handlers

import (
	"github.com/charmbracelet/log"

	"quarterdeck/pkg/command"
)

// auditedHandler wraps another handler for registration bookkeeping. It
// implements command.Wrapper, so registry construction resolves through it
// to the wrapped handler's metadata, and it delegates the Handler surface
// so it behaves identically when used directly.
type auditedHandler struct {
	inner  command.Handler
	logger *log.Logger
}

// Audited wraps a handler and logs its group registration once at debug
// level. The returned handler is transparent to the registry.
func Audited(h command.Handler, logger *log.Logger) command.Handler {
	if logger == nil {
		logger = log.Default()
	}
	logger.Debug("registering command handler", "group", h.Group().Name)
	return &auditedHandler{inner: h, logger: logger}
}

// Group delegates to the wrapped handler.
func (a *auditedHandler) Group() command.GroupSpec { return a.inner.Group() }

// Commands delegates to the wrapped handler.
func (a *auditedHandler) Commands() []command.CommandSpec { return a.inner.Commands() }

// Unwrap exposes the registration-bearing handler.
func (a *auditedHandler) Unwrap() command.Handler { return a.inner }
