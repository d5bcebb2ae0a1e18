// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for quarterdeck.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output and remote error detail
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "quarterdeck",
		Short: "An SSH admin console with pluggable command groups",
		Long: TitleStyle.Render("quarterdeck") + SubtitleStyle.Render(" - An SSH admin console with pluggable command groups") + `

quarterdeck serves a registry of named commands to interactive SSH
sessions. Handlers declare a command group and its subcommands; the
registry is built once at startup and shared read-only by all sessions.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'quarterdeck serve'
  2. Note the generated password in the log (or configure one)
  3. Connect with: ssh -p 8022 operator@localhost
  4. Type 'help' at the prompt`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output (includes remote error detail)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/quarterdeck/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
