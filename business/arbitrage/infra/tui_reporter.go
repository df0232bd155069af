// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"

	"github.com/arbstream/arbstream/business/arbitrage/app"
	"github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/pkg/ui"
)

// TUIReporter implements Reporter by forwarding events to the Bubble Tea
// program as messages. It never blocks: ui.Send is a no-op when the program
// is not running.
type TUIReporter struct{}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

// Start is a no-op; the TUI program lifecycle is owned by main.
func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// Report sends an arbitrage opportunity to the TUI.
func (r *TUIReporter) Report(opp *domain.Opportunity) {
	ui.Send(ui.OpportunityMsg{Opportunity: opp})
}

// ScanStarted tells the TUI which event is being scanned.
func (r *TUIReporter) ScanStarted(event string) {
	ui.Send(ui.ScanStartedMsg{Event: event})
}

// ScanFinished sends the scan summary to the TUI.
func (r *TUIReporter) ScanFinished(result *app.ScanResult) {
	if result == nil {
		return
	}
	ui.Send(ui.ScanFinishedMsg{
		EventsScanned: result.EventsScanned,
		Opportunities: len(result.Opportunities),
		SourceErrors:  result.SourceErrors,
		Duration:      result.Duration(),
	})
}

// Stop is a no-op; the TUI program lifecycle is owned by main.
func (r *TUIReporter) Stop() error {
	return nil
}
