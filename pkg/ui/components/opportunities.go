// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// OpportunityRow represents an opportunity in the list.
type OpportunityRow struct {
	Timestamp    string
	Event        string
	ProfitMargin float64 // percent
	Profit       float64
	ROI          float64 // percent
	Bets         string  // compact bookmaker/odds summary
}

// OpportunitiesComponent renders the opportunities list.
type OpportunitiesComponent struct {
	rows    []OpportunityRow
	maxRows int
}

// NewOpportunitiesComponent creates a new opportunities component.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	return &OpportunitiesComponent{
		rows:    make([]OpportunityRow, 0),
		maxRows: maxRows,
	}
}

// Add adds a new opportunity to the top of the list.
func (o *OpportunitiesComponent) Add(row OpportunityRow) {
	o.rows = append([]OpportunityRow{row}, o.rows...)
	if len(o.rows) > o.maxRows {
		o.rows = o.rows[:o.maxRows]
	}
}

// Clear clears all opportunities.
func (o *OpportunitiesComponent) Clear() {
	o.rows = make([]OpportunityRow, 0)
}

// Count returns the number of listed opportunities.
func (o *OpportunitiesComponent) Count() int {
	return len(o.rows)
}

// View renders the opportunities component.
func (o *OpportunitiesComponent) View() string {
	if len(o.rows) == 0 {
		return "No arbitrage opportunities detected yet..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	profitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	result := headerStyle.Render(fmt.Sprintf("OPPORTUNITIES (last %d)\n", o.maxRows))
	result += "┌──────────┬──────────────────────┬─────────┬──────────┬────────┐\n"
	result += "│   Time   │        Event         │ Margin  │  Profit  │  ROI   │\n"
	result += "├──────────┼──────────────────────┼─────────┼──────────┼────────┤\n"

	for _, row := range o.rows {
		result += fmt.Sprintf("│ %-8s │ %-20s │%7.2f%% │%9s │%6.2f%% │\n",
			row.Timestamp,
			clip(row.Event, 20),
			row.ProfitMargin,
			profitStyle.Render(fmt.Sprintf("€%.2f", row.Profit)),
			row.ROI,
		)
		if row.Bets != "" {
			result += fmt.Sprintf("│          │ %-56s│\n", clip(row.Bets, 56))
		}
	}

	result += "└──────────┴──────────────────────┴─────────┴──────────┴────────┘"

	return result
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
