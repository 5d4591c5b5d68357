package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"taskboard/internal/model"
)

// The TUI must stay readable on light and dark terminals, so colors are
// adaptive and "faint" is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted          lipgloss.TerminalColor = ac("240", "243")
	colorSurfaceFg      lipgloss.TerminalColor = ac("235", "252")
	colorControlBg      lipgloss.TerminalColor = ac("252", "235")
	colorSelectedBg     lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg     lipgloss.TerminalColor = ac("235", "255")
	colorSelectedBorder lipgloss.TerminalColor = ac("232", "255")
	colorCardBorder     lipgloss.TerminalColor = ac("250", "243")
	colorAccent         lipgloss.TerminalColor = ac("27", "62")
	colorError          lipgloss.TerminalColor = ac("160", "203")
	colorOverdue        lipgloss.TerminalColor = ac("160", "203")

	// Priority and status colors follow the board's badges: red/amber/green and gray/blue/amber/green.
	colorPriorityHigh   lipgloss.TerminalColor = ac("#dc2626", "#ef4444")
	colorPriorityMedium lipgloss.TerminalColor = ac("#d97706", "#f59e0b")
	colorPriorityLow    lipgloss.TerminalColor = ac("#059669", "#10b981")

	colorStatusTodo       lipgloss.TerminalColor = ac("#4b5563", "#9ca3af")
	colorStatusInProgress lipgloss.TerminalColor = ac("#2563eb", "#3b82f6")
	colorStatusReview     lipgloss.TerminalColor = ac("#d97706", "#f59e0b")
	colorStatusDone       lipgloss.TerminalColor = ac("#059669", "#10b981")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg).Padding(0, 1)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
}

func priorityColor(p model.Priority) lipgloss.TerminalColor {
	switch p {
	case model.PriorityHigh:
		return colorPriorityHigh
	case model.PriorityMedium:
		return colorPriorityMedium
	}
	return colorPriorityLow
}

func statusColor(s model.Status) lipgloss.TerminalColor {
	switch s {
	case model.StatusInProgress:
		return colorStatusInProgress
	case model.StatusReview:
		return colorStatusReview
	case model.StatusDone:
		return colorStatusDone
	}
	return colorStatusTodo
}

func priorityBadge(p model.Priority) string {
	return lipgloss.NewStyle().Foreground(priorityColor(p)).Bold(p == model.PriorityHigh).Render(string(p))
}

func statusBadge(s model.Status) string {
	return lipgloss.NewStyle().Foreground(statusColor(s)).Render(s.Label())
}

// applyColorProfilePreference honors NO_COLOR and otherwise trusts COLORTERM/TERM
// over termenv's terminal detection.
func applyColorProfilePreference() {
	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	term := strings.ToLower(os.Getenv("TERM"))
	switch {
	case profile == termenv.Ascii:
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		profile = termenv.TrueColor
	case strings.Contains(term, "256color") && profile == termenv.ANSI:
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference lets TASKBOARD_TUI_THEME=light|dark override background detection.
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TASKBOARD_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}
}
