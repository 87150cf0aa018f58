package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles the item view renders with.
type Styles struct {
	Title  lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
	Energy lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
	Name   lipgloss.Style
	Border lipgloss.Style
}

// NewStyles returns the styles for a theme name (classic, neon, mono).
func NewStyles(theme string) Styles {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)

	switch strings.ToLower(theme) {
	case "mono":
		plain := lipgloss.NewStyle()
		return Styles{
			Title:  plain.Bold(true),
			Muted:  plain,
			Accent: plain,
			Energy: plain,
			Error:  plain,
			Help:   plain,
			Name:   plain,
			Border: plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
		}
	case "neon":
		return Styles{
			Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:  lipgloss.NewStyle().Faint(true),
			Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Energy: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Help:   lipgloss.NewStyle().Faint(true),
			Name:   lipgloss.NewStyle().Bold(true),
			Border: border.BorderForeground(lipgloss.Color("13")),
		}
	default:
		return Styles{
			Title:  lipgloss.NewStyle().Bold(true),
			Muted:  lipgloss.NewStyle().Faint(true),
			Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Energy: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Help:   lipgloss.NewStyle().Faint(true),
			Name:   lipgloss.NewStyle().Bold(true),
			Border: border,
		}
	}
}
