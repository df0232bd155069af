package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/arbstream/arbstream/business/arbitrage/domain"
	oddsapp "github.com/arbstream/arbstream/business/odds/app"
	oddsdomain "github.com/arbstream/arbstream/business/odds/domain"
	"github.com/arbstream/arbstream/internal/apperror"
	"github.com/arbstream/arbstream/internal/logger"
)

const (
	tracerName = "arbitrage"
	meterName  = "arbitrage"
)

// ScanResult is the outcome of one full scan cycle. It is an explicit value
// owned by whoever ran the scan; the scanner additionally retains the most
// recent one for read-only consumers like the gateway.
type ScanResult struct {
	StartedAt     time.Time             `json:"started_at"`
	FinishedAt    time.Time             `json:"finished_at"`
	EventsScanned int                   `json:"events_scanned"`
	Opportunities []*domain.Opportunity `json:"opportunities"`
	SourceErrors  int                   `json:"source_errors"`
}

// Duration returns how long the scan took.
func (r *ScanResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

type scannerMetrics struct {
	scans         metric.Int64Counter
	events        metric.Int64Counter
	opportunities metric.Int64Counter
	sourceErrors  metric.Int64Counter
}

// Scanner runs the detection pipeline: list events, gather odds from every
// source, aggregate the best line per market, and build opportunities.
//
// At most one scan runs at a time. The in-progress token is an atomic flag;
// a concurrent Scan call fails fast with CodeScanInProgress instead of
// queueing, since a queued scan would only re-fetch the same odds later.
type Scanner struct {
	odds      *oddsapp.OddsService
	bankroll  float64
	maxEvents int
	reporter  Reporter
	logger    logger.LoggerInterface
	tracer    trace.Tracer
	metrics   *scannerMetrics

	scanning atomic.Bool

	mu   sync.RWMutex
	last *ScanResult
}

// NewScanner creates a Scanner. maxEvents <= 0 means no cap. The reporter
// must not be nil; pass an empty MultiReporter to scan silently.
func NewScanner(odds *oddsapp.OddsService, bankroll float64, maxEvents int, reporter Reporter, log logger.LoggerInterface) (*Scanner, error) {
	s := &Scanner{
		odds:      odds,
		bankroll:  bankroll,
		maxEvents: maxEvents,
		reporter:  reporter,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scanner) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &scannerMetrics{}

	s.metrics.scans, err = meter.Int64Counter(
		"arb_scans_total",
		metric.WithDescription("Completed scan cycles"),
	)
	if err != nil {
		return err
	}

	s.metrics.events, err = meter.Int64Counter(
		"arb_events_scanned_total",
		metric.WithDescription("Events scanned"),
	)
	if err != nil {
		return err
	}

	s.metrics.opportunities, err = meter.Int64Counter(
		"arb_opportunities_total",
		metric.WithDescription("Arbitrage opportunities found"),
	)
	if err != nil {
		return err
	}

	s.metrics.sourceErrors, err = meter.Int64Counter(
		"arb_source_errors_total",
		metric.WithDescription("Source failures during scans"),
	)
	if err != nil {
		return err
	}

	return nil
}

// ScanEvent scans a single event: gather from all sources, keep the
// successful answers, reduce to the best line per canonical market, and run
// the engine. Returns the opportunity (nil when none) and the number of
// sources that failed.
func (s *Scanner) ScanEvent(ctx context.Context, event oddsdomain.Event) (*domain.Opportunity, int) {
	ctx, span := s.tracer.Start(ctx, "arbitrage.scan_event",
		trace.WithAttributes(attribute.String("event", event.Name)),
	)
	defer span.End()

	s.reporter.ScanStarted(event.Name)

	results := s.odds.GatherOdds(ctx, event)

	var outcomes []domain.Outcome
	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			continue
		}
		outcomes = append(outcomes, r.Outcomes...)
	}

	selected, ok := domain.SelectThreeWay(outcomes)
	if !ok {
		s.logger.Debug(ctx, "event not fully covered",
			"event", event.Name,
			"outcomes", len(outcomes))
		return nil, failures
	}

	opp := domain.BuildOpportunity(event.Name, selected, s.bankroll)
	if opp == nil {
		return nil, failures
	}

	span.SetAttributes(attribute.Float64("s_value", opp.ArbitragePercentage))
	s.logger.Info(ctx, "arbitrage found",
		"event", event.Name,
		"s_value", opp.ArbitragePercentage,
		"profit", opp.GuaranteedProfit,
		"roi", opp.ROI)

	s.reporter.Report(opp)
	return opp, failures
}

// Scan runs one full cycle over all available events. A second concurrent
// call fails with CodeScanInProgress.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	if !s.scanning.CompareAndSwap(false, true) {
		return nil, apperror.Conflict(apperror.CodeScanInProgress,
			"a scan is already running")
	}
	defer s.scanning.Store(false)

	ctx, span := s.tracer.Start(ctx, "arbitrage.scan")
	defer span.End()

	result := &ScanResult{StartedAt: time.Now()}

	events, err := s.odds.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	if s.maxEvents > 0 && len(events) > s.maxEvents {
		events = events[:s.maxEvents]
	}

	for _, event := range events {
		if ctx.Err() != nil {
			break
		}

		opp, failures := s.ScanEvent(ctx, event)
		result.EventsScanned++
		result.SourceErrors += failures
		if opp != nil {
			result.Opportunities = append(result.Opportunities, opp)
		}
	}

	result.FinishedAt = time.Now()

	s.metrics.scans.Add(ctx, 1)
	s.metrics.events.Add(ctx, int64(result.EventsScanned))
	s.metrics.opportunities.Add(ctx, int64(len(result.Opportunities)))
	s.metrics.sourceErrors.Add(ctx, int64(result.SourceErrors))

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	s.logger.Info(ctx, "scan finished",
		"events", result.EventsScanned,
		"opportunities", len(result.Opportunities),
		"source_errors", result.SourceErrors,
		"duration", result.Duration())

	s.reporter.ScanFinished(result)
	return result, nil
}

// LastResult returns the most recent completed scan, or CodeNoScanResult if
// none has finished yet.
func (s *Scanner) LastResult() (*ScanResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return nil, apperror.NotFound(apperror.CodeNoScanResult,
			"no scan has completed yet")
	}
	return s.last, nil
}

// Scanning reports whether a scan is currently in flight.
func (s *Scanner) Scanning() bool {
	return s.scanning.Load()
}

// Bankroll returns the configured per-opportunity bankroll.
func (s *Scanner) Bankroll() float64 {
	return s.bankroll
}

// RunContinuous scans immediately and then on every interval tick until the
// context is done. Individual scan failures are logged and the loop keeps
// going; an unreachable source now may answer on the next tick.
func (s *Scanner) RunContinuous(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Scan(ctx); err != nil {
			s.logger.Error(ctx, "scan failed",
				"code", apperror.GetCode(err),
				"error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
