// SPDX-License-Identifier: MPL-2.0

package config

import (
	"time"

	"quarterdeck/pkg/sshd"
)

type (
	// Config is the full quarterdeck configuration.
	Config struct {
		// VerboseErrors exposes invocation failure detail to remote
		// users. Off by default: untrusted users get a generic message.
		VerboseErrors bool `mapstructure:"verbose_errors"`
		// Server configures the SSH shell server.
		Server ServerConfig `mapstructure:"server"`
	}

	// ServerConfig mirrors sshd.Config in file-friendly form.
	ServerConfig struct {
		Host               string        `mapstructure:"host"`
		Port               int           `mapstructure:"port"`
		HostKeyPath        string        `mapstructure:"host_key_path"`
		Password           string        `mapstructure:"password"`
		AuthorizedKeysPath string        `mapstructure:"authorized_keys_path"`
		Prompt             string        `mapstructure:"prompt"`
		BannerText         string        `mapstructure:"banner_text"`
		BannerFile         string        `mapstructure:"banner_file"`
		IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
		MaxTimeout         time.Duration `mapstructure:"max_timeout"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	server := sshd.DefaultConfig()
	return Config{
		Server: ServerConfig{
			Host:   server.Host.String(),
			Port:   int(server.Port),
			Prompt: server.Prompt,
		},
	}
}

// ServerOptions converts the file form into the sshd server config.
func (c *Config) ServerOptions() sshd.Config {
	cfg := sshd.DefaultConfig()
	cfg.Host = sshd.HostAddress(c.Server.Host)
	cfg.Port = sshd.ListenPort(c.Server.Port)
	cfg.HostKeyPath = c.Server.HostKeyPath
	cfg.Password = c.Server.Password
	cfg.AuthorizedKeysPath = c.Server.AuthorizedKeysPath
	cfg.Prompt = c.Server.Prompt
	cfg.BannerText = c.Server.BannerText
	cfg.BannerFile = c.Server.BannerFile
	cfg.IdleTimeout = c.Server.IdleTimeout
	cfg.MaxTimeout = c.Server.MaxTimeout
	return cfg
}

// Validate checks the configuration via the server config's own rules.
func (c *Config) Validate() error {
	return c.ServerOptions().Validate()
}
