// Package app contains the application services and port definitions for the
// arbitrage context.
package app

import (
	"context"

	"github.com/arbstream/arbstream/business/arbitrage/domain"
)

// Reporter is the port through which scan progress and found opportunities
// reach the outside world: console, TUI, websocket clients. Report and the
// Scan* hooks are called from the scan loop and must not block it.
type Reporter interface {
	// Start prepares the reporter before the first scan.
	Start(ctx context.Context) error

	// Report delivers one found opportunity.
	Report(opp *domain.Opportunity)

	// ScanStarted announces that an event is being scanned.
	ScanStarted(event string)

	// ScanFinished delivers the completed scan's result.
	ScanFinished(result *ScanResult)

	// Stop flushes and releases the reporter.
	Stop() error
}

// MultiReporter fans every call out to a set of reporters.
type MultiReporter struct {
	reporters []Reporter
}

// NewMultiReporter bundles reporters into one. A nil or empty set is valid
// and reports nowhere.
func NewMultiReporter(reporters ...Reporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

func (m *MultiReporter) Start(ctx context.Context) error {
	for _, r := range m.reporters {
		if err := r.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiReporter) Report(opp *domain.Opportunity) {
	for _, r := range m.reporters {
		r.Report(opp)
	}
}

func (m *MultiReporter) ScanStarted(event string) {
	for _, r := range m.reporters {
		r.ScanStarted(event)
	}
}

func (m *MultiReporter) ScanFinished(result *ScanResult) {
	for _, r := range m.reporters {
		r.ScanFinished(result)
	}
}

// Stop stops every reporter, returning the first error but never stopping
// short: each reporter gets its Stop call.
func (m *MultiReporter) Stop() error {
	var firstErr error
	for _, r := range m.reporters {
		if err := r.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
