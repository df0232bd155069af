// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds scan statistics for display.
type Stats struct {
	ScansCompleted int64
	EventsScanned  int64
	Opportunities  int64
	SourceErrors   int64
	LastScanMs     float64
}

// StatsComponent renders scan statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	hitRate := float64(0)
	if s.stats.EventsScanned > 0 {
		hitRate = float64(s.stats.Opportunities) / float64(s.stats.EventsScanned) * 100
	}

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.SourceErrors))
	if s.stats.SourceErrors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.SourceErrors))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Scans: %s  │  Events: %s  │  Opportunities: %s (%.1f%%)\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.ScansCompleted)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.EventsScanned)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Opportunities)),
			hitRate,
		) +
		fmt.Sprintf("Last scan: %s  │  Source errors: %s",
			valueStyle.Render(fmt.Sprintf("%.0fms", s.stats.LastScanMs)),
			errorsDisplay,
		)
}
