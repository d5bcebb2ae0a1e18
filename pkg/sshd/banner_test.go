// SPDX-License-Identifier: MPL-2.0

package sshd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderBanner(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	textFile := filepath.Join(dir, "banner.txt")
	if err := os.WriteFile(textFile, []byte("welcome aboard\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	mdFile := filepath.Join(dir, "banner.md")
	if err := os.WriteFile(mdFile, []byte("# Welcome\n\nuse *help*\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	t.Run("default banner", func(t *testing.T) {
		t.Parallel()

		out, err := renderBanner(Config{})
		if err != nil {
			t.Fatalf("renderBanner failed: %v", err)
		}
		if !strings.Contains(out, "quarterdeck") {
			t.Errorf("default banner %q should name the application", out)
		}
	})

	t.Run("configured text", func(t *testing.T) {
		t.Parallel()

		out, err := renderBanner(Config{BannerText: "hello operator"})
		if err != nil {
			t.Fatalf("renderBanner failed: %v", err)
		}
		if out != "hello operator" {
			t.Errorf("banner = %q, want configured text", out)
		}
	})

	t.Run("plain file wins over text", func(t *testing.T) {
		t.Parallel()

		out, err := renderBanner(Config{BannerFile: textFile, BannerText: "ignored"})
		if err != nil {
			t.Fatalf("renderBanner failed: %v", err)
		}
		if out != "welcome aboard" {
			t.Errorf("banner = %q, want file contents without trailing newline", out)
		}
	})

	t.Run("markdown file rendered", func(t *testing.T) {
		t.Parallel()

		out, err := renderBanner(Config{BannerFile: mdFile})
		if err != nil {
			t.Fatalf("renderBanner failed: %v", err)
		}
		if !strings.Contains(out, "Welcome") {
			t.Errorf("rendered markdown %q should keep the heading text", out)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		t.Parallel()

		if _, err := renderBanner(Config{BannerFile: filepath.Join(dir, "missing.md")}); err == nil {
			t.Error("missing banner file should fail")
		}
	})
}
