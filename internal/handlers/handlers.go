// SPDX-License-Identifier: MPL-2.0

// Package handlers provides the command handler groups bundled with the
// quarterdeck binary. Applications embedding the console register their
// own handlers alongside (or instead of) these.
package handlers

import (
	"github.com/charmbracelet/log"

	"quarterdeck/pkg/command"
)

// All returns the bundled handler set.
func All(logger *log.Logger) []command.Handler {
	return []command.Handler{
		NewSystemHandler(),
		NewHealthHandler(),
		Audited(NewEchoHandler(), logger),
	}
}
