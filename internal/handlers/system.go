// SPDX-License-Identifier: MPL-2.0

package handlers

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"quarterdeck/pkg/command"
)

// SystemHandler exposes process and Go runtime introspection.
type SystemHandler struct {
	started time.Time
}

// NewSystemHandler creates the system group, anchoring uptime at now.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{started: time.Now()}
}

// Group declares the handler's group metadata.
func (h *SystemHandler) Group() command.GroupSpec {
	return command.GroupSpec{Name: "system", Description: "process and runtime introspection"}
}

// Execute is the group's default action: a one-screen process summary.
func (h *SystemHandler) Execute(arg string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "pid:        %d\n", os.Getpid())
	fmt.Fprintf(&b, "go:         %s\n", runtime.Version())
	fmt.Fprintf(&b, "os/arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "goroutines: %d\n", runtime.NumGoroutine())
	fmt.Fprintf(&b, "uptime:     %s", h.uptime())
	return b.String(), nil
}

// Commands declares the group's subcommands.
func (h *SystemHandler) Commands() []command.CommandSpec {
	return []command.CommandSpec{
		{Name: "uptime", Description: "time since the console started", Run: h.runUptime},
		{Name: "mem", Description: "Go heap and GC statistics", Run: h.runMem},
		{Name: "gc", Description: "force a garbage collection", Run: h.runGC},
	}
}

func (h *SystemHandler) uptime() time.Duration {
	return time.Since(h.started).Round(time.Second)
}

func (h *SystemHandler) runUptime(string) (string, error) {
	return h.uptime().String(), nil
}

func (h *SystemHandler) runMem(string) (string, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var b strings.Builder
	fmt.Fprintf(&b, "heap alloc:   %s\n", formatBytes(m.HeapAlloc))
	fmt.Fprintf(&b, "heap sys:     %s\n", formatBytes(m.HeapSys))
	fmt.Fprintf(&b, "total alloc:  %s\n", formatBytes(m.TotalAlloc))
	fmt.Fprintf(&b, "gc cycles:    %d", m.NumGC)
	return b.String(), nil
}

func (h *SystemHandler) runGC(string) (string, error) {
	before := heapAlloc()
	runtime.GC()
	after := heapAlloc()
	return fmt.Sprintf("garbage collection complete: %s -> %s", formatBytes(before), formatBytes(after)), nil
}

func heapAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
