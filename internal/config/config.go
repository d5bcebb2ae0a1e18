// SPDX-License-Identifier: MPL-2.0

// Package config loads quarterdeck's configuration: a TOML file in the
// platform config directory, overridable by QUARTERDECK_* environment
// variables and an explicit --config path.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "quarterdeck"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

// ConfigDir returns the quarterdeck configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads configuration from cfgFile when non-empty, otherwise from
// the default config directory, layering environment overrides on top.
// A missing config file is not an error; defaults apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("verbose_errors", defaults.VerboseErrors)
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.host_key_path", defaults.Server.HostKeyPath)
	v.SetDefault("server.password", defaults.Server.Password)
	v.SetDefault("server.authorized_keys_path", defaults.Server.AuthorizedKeysPath)
	v.SetDefault("server.prompt", defaults.Server.Prompt)
	v.SetDefault("server.banner_text", defaults.Server.BannerText)
	v.SetDefault("server.banner_file", defaults.Server.BannerFile)
	v.SetDefault("server.idle_timeout", defaults.Server.IdleTimeout)
	v.SetDefault("server.max_timeout", defaults.Server.MaxTimeout)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	} else {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(dir)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Persist the host key across restarts unless told otherwise.
	if cfg.Server.HostKeyPath == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		cfg.Server.HostKeyPath = filepath.Join(dir, "ssh_host_ed25519")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
