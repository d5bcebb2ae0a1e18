// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// failurePrefix opens every rendered invocation failure.
const failurePrefix = "Error performing command invocation"

// genericFailureText is what remote users see when verbose diagnostics are
// off: no stack traces, no paths, nothing internal.
const genericFailureText = "Please check server logs for more information"

// Reporter translates invocation failures into text safe to send to a
// remote, possibly untrusted, user. The full detail always goes to the
// operator log at error severity; whether it also reaches the user is
// decided per call by the verbose gate.
type Reporter struct {
	logger *log.Logger
	// verbose is consulted at render time so operators can flip
	// diagnostics on a live process (e.g. by raising the log level).
	verbose func() bool
}

// NewReporter builds a Reporter around the given logger. When verbose is
// nil, detail is exposed whenever the logger itself is at debug level.
func NewReporter(logger *log.Logger, verbose func() bool) *Reporter {
	if logger == nil {
		logger = log.Default()
	}
	r := &Reporter{logger: logger}
	if verbose == nil {
		verbose = func() bool { return logger.GetLevel() <= log.DebugLevel }
	}
	r.verbose = verbose
	return r
}

// Render logs the failure and returns the user-facing rendering.
func (r *Reporter) Render(err error) string {
	r.logger.Error(failurePrefix, "error", err)
	if r.verbose() {
		return fmt.Sprintf("%s\r\n%v", failurePrefix, err)
	}
	return fmt.Sprintf("%s\r\n%s", failurePrefix, genericFailureText)
}
