// SPDX-License-Identifier: MPL-2.0

package sshd

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidHostAddress is the sentinel error wrapped by InvalidHostAddressError.
	ErrInvalidHostAddress = errors.New("invalid host address")
	// ErrInvalidListenPort is the sentinel error wrapped by InvalidListenPortError.
	ErrInvalidListenPort = errors.New("invalid listen port")
	// ErrInvalidServerConfig is the sentinel error wrapped by InvalidServerConfigError.
	ErrInvalidServerConfig = errors.New("invalid shell server config")
)

type (
	// HostAddress is a network host address (IP or hostname) for server
	// binding. A valid address is non-empty and not whitespace-only.
	HostAddress string

	// ListenPort is a TCP port for server binding. Zero means auto-select.
	ListenPort int

	// InvalidHostAddressError is returned when a HostAddress is empty or
	// whitespace-only.
	InvalidHostAddressError struct {
		Value HostAddress
	}

	// InvalidListenPortError is returned when a ListenPort is outside
	// 0-65535.
	InvalidListenPortError struct {
		Value ListenPort
	}

	// InvalidServerConfigError aggregates field-level validation errors
	// from a Config. It wraps ErrInvalidServerConfig for errors.Is().
	InvalidServerConfigError struct {
		FieldErrors []error
	}

	// Config holds immutable configuration for the shell server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1).
		Host HostAddress
		// Port is the port to listen on (0 = auto-select; default: 8022).
		Port ListenPort
		// HostKeyPath is where the server host key lives; wish generates
		// one there on first start. Empty means an ephemeral in-memory key.
		HostKeyPath string
		// Password guards password authentication. Empty means a random
		// password is generated at startup and logged once.
		Password string
		// AuthorizedKeysPath optionally enables public-key authentication
		// against an OpenSSH authorized_keys file.
		AuthorizedKeysPath string
		// Prompt is the interactive prompt (default: "quarterdeck> ").
		Prompt string
		// BannerText is printed when a session opens. Ignored when
		// BannerFile is set.
		BannerText string
		// BannerFile is a file whose contents open each session; files
		// ending in .md are rendered as markdown.
		BannerFile string
		// IdleTimeout disconnects sessions idle for this long (0 = none).
		IdleTimeout time.Duration
		// MaxTimeout caps total session duration (0 = none).
		MaxTimeout time.Duration
		// StartupTimeout is the max time to wait for the server to be
		// ready (default: 5s).
		StartupTimeout time.Duration
		// ShutdownTimeout bounds graceful shutdown (default: 10s).
		ShutdownTimeout time.Duration
	}
)

// String returns the string representation of the HostAddress.
func (h HostAddress) String() string { return string(h) }

// Validate returns nil if the HostAddress is non-empty and not
// whitespace-only, or an error wrapping ErrInvalidHostAddress.
func (h HostAddress) Validate() error {
	if strings.TrimSpace(string(h)) == "" {
		return &InvalidHostAddressError{Value: h}
	}
	return nil
}

// Validate returns nil if the ListenPort is within 0-65535, or an error
// wrapping ErrInvalidListenPort.
func (p ListenPort) Validate() error {
	if p < 0 || p > 65535 {
		return &InvalidListenPortError{Value: p}
	}
	return nil
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            8022,
		Prompt:          "quarterdeck> ",
		StartupTimeout:  5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate checks all config fields and aggregates failures.
func (c Config) Validate() error {
	var fieldErrs []error
	if err := c.Host.Validate(); err != nil {
		fieldErrs = append(fieldErrs, err)
	}
	if err := c.Port.Validate(); err != nil {
		fieldErrs = append(fieldErrs, err)
	}
	if c.IdleTimeout < 0 {
		fieldErrs = append(fieldErrs, fmt.Errorf("idle timeout must not be negative, got %s", c.IdleTimeout))
	}
	if c.MaxTimeout < 0 {
		fieldErrs = append(fieldErrs, fmt.Errorf("max timeout must not be negative, got %s", c.MaxTimeout))
	}
	if len(fieldErrs) > 0 {
		return &InvalidServerConfigError{FieldErrors: fieldErrs}
	}
	return nil
}

// Error implements the error interface for InvalidHostAddressError.
func (e *InvalidHostAddressError) Error() string {
	return fmt.Sprintf("invalid host address %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidHostAddress for errors.Is() compatibility.
func (e *InvalidHostAddressError) Unwrap() error { return ErrInvalidHostAddress }

// Error implements the error interface for InvalidListenPortError.
func (e *InvalidListenPortError) Error() string {
	return fmt.Sprintf("invalid listen port %d: must be within 0-65535", e.Value)
}

// Unwrap returns ErrInvalidListenPort for errors.Is() compatibility.
func (e *InvalidListenPortError) Unwrap() error { return ErrInvalidListenPort }

// Error implements the error interface for InvalidServerConfigError.
func (e *InvalidServerConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid shell server config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidServerConfig for errors.Is() compatibility.
func (e *InvalidServerConfigError) Unwrap() error { return ErrInvalidServerConfig }
