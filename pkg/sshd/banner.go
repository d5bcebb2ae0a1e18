// SPDX-License-Identifier: MPL-2.0

package sshd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

// defaultBannerText greets sessions when no banner is configured.
const defaultBannerText = "quarterdeck — type 'help' for a list of supported commands"

// renderBanner produces the session-opening banner once, at server
// construction. A configured file wins over configured text; markdown
// files are rendered for the terminal, everything else is sent as-is.
func renderBanner(cfg Config) (string, error) {
	if cfg.BannerFile != "" {
		data, err := os.ReadFile(cfg.BannerFile)
		if err != nil {
			return "", fmt.Errorf("reading banner file: %w", err)
		}
		if strings.HasSuffix(cfg.BannerFile, ".md") {
			return renderMarkdown(string(data))
		}
		return strings.TrimRight(string(data), "\n"), nil
	}

	if cfg.BannerText != "" {
		return cfg.BannerText, nil
	}

	return bannerStyle.Render(defaultBannerText), nil
}

// renderMarkdown renders markdown banner content for the terminal.
func renderMarkdown(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
