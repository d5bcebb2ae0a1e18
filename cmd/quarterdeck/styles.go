// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette - shared hex colors for consistent theming across CLI output.
const (
	// ColorPrimary is purple - used for titles and primary emphasis.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for subtitles and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorError is red - used for errors and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for warnings and caution states.
	ColorWarning = lipgloss.Color("#F59E0B")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// ErrorStyle is for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)
