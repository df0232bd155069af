// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SourceStatus represents an odds source's health.
type SourceStatus struct {
	Name       string
	Healthy    bool
	LastUpdate time.Time
}

// SourcesComponent renders odds source health.
type SourcesComponent struct {
	sources []SourceStatus
}

// NewSourcesComponent creates a new sources component.
func NewSourcesComponent() *SourcesComponent {
	return &SourcesComponent{
		sources: make([]SourceStatus, 0),
	}
}

// Update updates a source's status.
func (s *SourcesComponent) Update(status SourceStatus) {
	for i, src := range s.sources {
		if src.Name == status.Name {
			s.sources[i] = status
			return
		}
	}
	s.sources = append(s.sources, status)
}

// View renders the sources component.
func (s *SourcesComponent) View() string {
	if len(s.sources) == 0 {
		return "No sources registered"
	}

	var result string
	for _, src := range s.sources {
		status := "● OK"
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
		if !src.Healthy {
			status = "○ Failing"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
		}

		line := fmt.Sprintf("├─ %s: %s", src.Name, style.Render(status))
		if !src.LastUpdate.IsZero() {
			line += fmt.Sprintf(" (%s ago)", time.Since(src.LastUpdate).Round(time.Second))
		}
		result += line + "\n"
	}

	return result
}
