// Package ui provides the Bubble Tea TUI for the arbitrage scanner.
package ui

import (
	"time"

	"github.com/arbstream/arbstream/business/arbitrage/domain"
)

// Message types for TUI updates

// OpportunityMsg is sent when an arbitrage opportunity is detected.
type OpportunityMsg struct {
	Opportunity *domain.Opportunity
}

// ScanStartedMsg is sent when an event scan begins.
type ScanStartedMsg struct {
	Event string
}

// ScanFinishedMsg is sent when a full scan cycle completes.
type ScanFinishedMsg struct {
	EventsScanned int
	Opportunities int
	SourceErrors  int
	Duration      time.Duration
}

// SourceStatusMsg is sent when a source's health changes.
type SourceStatusMsg struct {
	Name    string
	Healthy bool
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step   string // step key, e.g. "config", "sources", "gateway"
	Status string // "pending", "connecting", "connected", "failed"
}
