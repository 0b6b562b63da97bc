// Package ui provides the terminal styling for the stackinit CLI.
// Styling is cosmetic only; every message stays meaningful as plain text.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Semantic colors shared by all commands.
var (
	Success = lipgloss.Color("#8BC34A") // lime green
	Warning = lipgloss.Color("#FFC107") // yellow
	Danger  = lipgloss.Color("#e53935") // red
	Info    = lipgloss.Color("#2196F3") // blue
	Muted   = lipgloss.Color("#9E9E9E") // grey
)

// Styles holds the styled components used by the commands.
type Styles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles returns the standard stackinit look.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(Info),
		Success: lipgloss.NewStyle().Foreground(Success),
		Warn:    lipgloss.NewStyle().Foreground(Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(Danger),
		Muted:   lipgloss.NewStyle().Foreground(Muted),
	}
}
