// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"quarterdeck/internal/config"
	"quarterdeck/internal/handlers"
	"quarterdeck/pkg/command"
	"quarterdeck/pkg/sshd"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH console",
	Long: `Start the SSH console.

Builds the command registry from the bundled handler groups and serves it
to interactive SSH sessions until interrupted.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("loading config: %w", err)}
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "quarterdeck",
		ReportTimestamp: true,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	// The verbosity gate is evaluated per failure, so flipping the log
	// level on a live process also flips remote diagnostics.
	verboseErrors := cfg.VerboseErrors
	reporter := command.NewReporter(logger, func() bool {
		return verboseErrors || logger.GetLevel() <= log.DebugLevel
	})
	invoker := command.NewInvoker(reporter)

	registry, err := command.Build(handlers.All(logger)...)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("building command registry: %w", err)}
	}
	logger.Info("command registry built", "groups", registry.Groups())

	server, err := sshd.New(cfg.ServerOptions(), registry, invoker, logger)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	ctx := cmd.Context()
	if err := server.Start(ctx); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := server.Stop(); err != nil {
			return &ExitError{Code: 1, Err: err}
		}
	case err, ok := <-server.Err():
		if ok && err != nil {
			_ = server.Stop()
			return &ExitError{Code: 1, Err: err}
		}
	}

	return server.Wait()
}
