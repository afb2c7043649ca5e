package tui

import (
	"github.com/charmbracelet/lipgloss"

	"swarm-console/internal/mission"
)

var (
	Background = lipgloss.Color("#0a0a0a")
	Foreground = lipgloss.Color("#ededed")
	Muted      = lipgloss.Color("#666666")
	Faint      = lipgloss.Color("#444444")
	Border     = lipgloss.Color("#333333")
	Live       = lipgloss.Color("#10b981")

	// Accent colors named by the catalog.
	accents = map[string]lipgloss.Color{
		"blue":    lipgloss.Color("#3b82f6"),
		"pink":    lipgloss.Color("#ec4899"),
		"emerald": lipgloss.Color("#10b981"),
		"purple":  lipgloss.Color("#a855f7"),
	}

	statusColors = map[mission.Status]lipgloss.Color{
		mission.StatusQueued:     lipgloss.Color("#a3a3a3"),
		mission.StatusProcessing: lipgloss.Color("#3b82f6"),
		mission.StatusCompleted:  lipgloss.Color("#10b981"),
		mission.StatusFailed:     lipgloss.Color("#ef4444"),
	}
)

type Styles struct {
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Panel       lipgloss.Style
	PanelHeader lipgloss.Style
	Step        lipgloss.Style
	Check       lipgloss.Style
	Timestamp   lipgloss.Style
	Code        lipgloss.Style
	Error       lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(Foreground),
		Subtle:      lipgloss.NewStyle().Foreground(Muted),
		Panel:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border),
		PanelHeader: lipgloss.NewStyle().Bold(true).Foreground(Foreground),
		Step:        lipgloss.NewStyle().Foreground(Foreground),
		Check:       lipgloss.NewStyle().Foreground(Live).Bold(true),
		Timestamp:   lipgloss.NewStyle().Foreground(Faint),
		Code:        lipgloss.NewStyle().Foreground(Foreground),
		Error:       lipgloss.NewStyle().Foreground(statusColors[mission.StatusFailed]),
	}
}

func StatusBadge(s mission.Status) string {
	c, ok := statusColors[s]
	if !ok {
		c = Muted
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(Background).
		Background(c).
		Padding(0, 1).
		Render(string(s))
}

func ConnectivityBadge(label string, connected bool) string {
	c := Muted
	if connected {
		c = Live
	}
	return lipgloss.NewStyle().Foreground(c).Render(label)
}

// Accent maps a catalog color name to a terminal color.
func Accent(name string) lipgloss.Color {
	if c, ok := accents[name]; ok {
		return c
	}
	return Foreground
}
