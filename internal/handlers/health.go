// SPDX-License-Identifier: MPL-2.0

package handlers

import (
	"fmt"
	"time"

	"quarterdeck/pkg/command"
)

// HealthHandler reports console liveness. It only has a default action;
// the group name alone is the command.
type HealthHandler struct {
	started time.Time
}

// NewHealthHandler creates the health group.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

// Group declares the handler's group metadata.
func (h *HealthHandler) Group() command.GroupSpec {
	return command.GroupSpec{Name: "health", Description: "console liveness check"}
}

// Commands declares no subcommands; health is default-action only.
func (h *HealthHandler) Commands() []command.CommandSpec { return nil }

// Execute reports the console status.
func (h *HealthHandler) Execute(string) (string, error) {
	return fmt.Sprintf(`{"status":"UP","since":%q}`, h.started.Format(time.RFC3339)), nil
}
