// SPDX-License-Identifier: MPL-2.0

package sshd

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/charmbracelet/ssh"
	gossh "golang.org/x/crypto/ssh"
)

// initAuth resolves the effective password and loads authorized keys.
// Called once from New.
func (s *Server) initAuth() error {
	s.password = s.cfg.Password
	if s.password == "" {
		generated, err := generatePassword()
		if err != nil {
			return fmt.Errorf("generating shell password: %w", err)
		}
		s.password = generated
		s.logger.Warn("no shell password configured, generated one for this run", "password", generated)
	}

	if s.cfg.AuthorizedKeysPath != "" {
		keys, err := loadAuthorizedKeys(s.cfg.AuthorizedKeysPath)
		if err != nil {
			return fmt.Errorf("loading authorized keys: %w", err)
		}
		s.authKeys = keys
		s.logger.Info("public key authentication enabled", "keys", len(keys), "path", s.cfg.AuthorizedKeysPath)
	}

	return nil
}

// generatePassword returns a random 16-byte hex password.
func generatePassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// loadAuthorizedKeys parses an OpenSSH authorized_keys file.
func loadAuthorizedKeys(path string) ([]ssh.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var keys []ssh.PublicKey
	for {
		data = bytes.TrimSpace(data)
		if len(data) == 0 {
			break
		}
		key, _, _, rest, err := gossh.ParseAuthorizedKey(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		keys = append(keys, key)
		data = rest
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no keys found in %s", path)
	}
	return keys, nil
}

// passwordHandler authenticates sessions against the effective password.
func (s *Server) passwordHandler(ctx ssh.Context, password string) bool {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		s.logger.Warn("failed password authentication attempt", "user", ctx.User(), "remote", ctx.RemoteAddr())
		return false
	}
	s.logger.Debug("password authentication successful", "user", ctx.User())
	return true
}

// publicKeyHandler authenticates sessions against the authorized keys
// loaded at construction. Rejects everything when none are configured.
func (s *Server) publicKeyHandler(ctx ssh.Context, key ssh.PublicKey) bool {
	for _, authorized := range s.authKeys {
		if ssh.KeysEqual(key, authorized) {
			s.logger.Debug("public key authentication successful", "user", ctx.User())
			return true
		}
	}
	return false
}
