// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arbstream/arbstream/business/arbitrage/app"
	"github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/internal/money"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// NewConsoleReporterTo creates a ConsoleReporter writing to w.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// Start prints the startup banner.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "ArbStream Scanner Started")
	fmt.Fprintln(r.out, "=========================")
	return nil
}

// Report prints a full bet slip for an arbitrage opportunity.
func (r *ConsoleReporter) Report(opp *domain.Opportunity) {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintln(r.out, "ARBITRAGE OPPORTUNITY DETECTED")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Event:          %s\n", opp.EventName)
	fmt.Fprintf(r.out, "Detected:       %s\n", opp.DetectedAt.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Sum 1/odds:     %.6f\n", opp.ArbitragePercentage)
	fmt.Fprintf(r.out, "Profit margin:  %.2f%%\n", opp.ProfitMargin)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "BETS")
	for i, outcome := range opp.Outcomes {
		stake := money.Zero()
		if i < len(opp.Stakes) {
			stake = money.FromFloat(opp.Stakes[i])
		}
		fmt.Fprintf(r.out, "  %-12s %-10s @ %.2f  stake %s\n",
			outcome.Bookmaker, outcome.Market, outcome.Odds, stake.Whole())
	}
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "RETURNS")
	fmt.Fprintf(r.out, "  Total staked:      %s\n", money.FromFloat(opp.TotalBankroll).String())
	fmt.Fprintf(r.out, "  Guaranteed profit: %s\n", money.FromFloat(opp.GuaranteedProfit).String())
	fmt.Fprintf(r.out, "  ROI:               %.2f%%\n", opp.ROI)
	fmt.Fprintln(r.out, "================================================================================")
}

// ScanStarted prints a line when an event scan begins.
func (r *ConsoleReporter) ScanStarted(event string) {
	fmt.Fprintf(r.out, "[%s] scanning %s\n", time.Now().Format("15:04:05"), event)
}

// ScanFinished prints a scan summary line.
func (r *ConsoleReporter) ScanFinished(result *app.ScanResult) {
	if result == nil {
		return
	}
	fmt.Fprintf(r.out, "[%s] scan complete: %d events, %d opportunities, %d source errors (%s)\n",
		time.Now().Format("15:04:05"),
		result.EventsScanned,
		len(result.Opportunities),
		result.SourceErrors,
		result.Duration().Round(time.Millisecond),
	)
}

// Stop prints the shutdown banner.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "ArbStream Scanner Stopped")
	return nil
}
