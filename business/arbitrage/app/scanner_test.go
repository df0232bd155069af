package app

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/arbstream/arbstream/business/arbitrage/domain"
	oddsapp "github.com/arbstream/arbstream/business/odds/app"
	oddsdomain "github.com/arbstream/arbstream/business/odds/domain"
	"github.com/arbstream/arbstream/internal/apperror"
	"github.com/arbstream/arbstream/internal/logger"
)

// fixedSource returns scripted outcomes per event.
type fixedSource struct {
	name   string
	events []oddsdomain.Event
	odds   map[string][]domain.Outcome
	err    error
	delay  time.Duration
}

func (f *fixedSource) FetchOdds(ctx context.Context, eventID string) ([]domain.Outcome, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.odds[eventID], nil
}

func (f *fixedSource) ListEvents(ctx context.Context) ([]oddsdomain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fixedSource) BookmakerName() string { return f.name }

// recordingReporter captures reporter calls for assertions.
type recordingReporter struct {
	mu       sync.Mutex
	started  []string
	reported []*domain.Opportunity
	finished []*ScanResult
}

func (r *recordingReporter) Start(ctx context.Context) error { return nil }

func (r *recordingReporter) Report(opp *domain.Opportunity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reported = append(r.reported, opp)
}

func (r *recordingReporter) ScanStarted(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, event)
}

func (r *recordingReporter) ScanFinished(result *ScanResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, result)
}

func (r *recordingReporter) Stop() error { return nil }

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

var testEvents = []oddsdomain.Event{
	{ID: "ajax-psv", Name: "Ajax vs PSV", Sport: "Football"},
	{ID: "feyenoord-az", Name: "Feyenoord vs AZ", Sport: "Football"},
}

func line(book string, home, draw, away float64) []domain.Outcome {
	return []domain.Outcome{
		{Bookmaker: book, Odds: home, Market: domain.MarketHomeWin},
		{Bookmaker: book, Odds: draw, Market: domain.MarketDraw},
		{Bookmaker: book, Odds: away, Market: domain.MarketAwayWin},
	}
}

// arbSources builds two books whose combined best line (2.1/3.6/4.4) is an
// arbitrage on ajax-psv only.
func arbSources() []oddsapp.Source {
	return []oddsapp.Source{
		&fixedSource{
			name:   "TOTO",
			events: testEvents,
			odds: map[string][]domain.Outcome{
				"ajax-psv":     line("TOTO", 2.1, 3.2, 3.6),
				"feyenoord-az": line("TOTO", 2.0, 3.0, 3.5),
			},
		},
		&fixedSource{
			name:   "Bet365",
			events: testEvents,
			odds: map[string][]domain.Outcome{
				"ajax-psv":     line("Bet365", 1.9, 3.6, 4.4),
				"feyenoord-az": line("Bet365", 1.9, 3.1, 3.4),
			},
		},
	}
}

func newTestScanner(t *testing.T, sources []oddsapp.Source, maxEvents int) (*Scanner, *recordingReporter) {
	t.Helper()
	rep := &recordingReporter{}
	odds := oddsapp.NewOddsService(sources, time.Second, testLogger())
	s, err := NewScanner(odds, 1000.0, maxEvents, rep, testLogger())
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}
	return s, rep
}

func TestScan_FindsCrossBookArbitrage(t *testing.T) {
	s, rep := newTestScanner(t, arbSources(), 0)

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if result.EventsScanned != 2 {
		t.Errorf("EventsScanned = %d, want 2", result.EventsScanned)
	}
	if len(result.Opportunities) != 1 {
		t.Fatalf("len(Opportunities) = %d, want 1", len(result.Opportunities))
	}

	opp := result.Opportunities[0]
	if opp.EventName != "Ajax vs PSV" {
		t.Errorf("EventName = %q, want Ajax vs PSV", opp.EventName)
	}
	// Best line stitched across books: TOTO home, Bet365 draw and away.
	wantBooks := []string{"TOTO", "Bet365", "Bet365"}
	for i, o := range opp.Outcomes {
		if o.Bookmaker != wantBooks[i] {
			t.Errorf("Outcomes[%d].Bookmaker = %q, want %q", i, o.Bookmaker, wantBooks[i])
		}
	}

	if result.SourceErrors != 0 {
		t.Errorf("SourceErrors = %d, want 0", result.SourceErrors)
	}
	if result.FinishedAt.Before(result.StartedAt) {
		t.Error("FinishedAt before StartedAt")
	}

	// Reporter saw both events, the opportunity, and the final result.
	if len(rep.started) != 2 {
		t.Errorf("ScanStarted calls = %d, want 2", len(rep.started))
	}
	if len(rep.reported) != 1 || rep.reported[0].ID != opp.ID {
		t.Errorf("Report calls = %+v, want the found opportunity", rep.reported)
	}
	if len(rep.finished) != 1 || rep.finished[0] != result {
		t.Error("ScanFinished not called with the scan result")
	}
}

func TestScan_SourceFailureIsolation(t *testing.T) {
	sources := arbSources()
	sources = append(sources, &fixedSource{
		name: "Unibet",
		err:  apperror.New(apperror.CodeSourceNetworkError),
	})
	// Failing source cannot serve ListEvents either; keep it last so a
	// healthy source answers first.
	s, _ := newTestScanner(t, sources, 0)

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(result.Opportunities) != 1 {
		t.Errorf("len(Opportunities) = %d, want 1 despite failing source", len(result.Opportunities))
	}
	// One failure per scanned event.
	if result.SourceErrors != 2 {
		t.Errorf("SourceErrors = %d, want 2", result.SourceErrors)
	}
}

func TestScan_SingleFlight(t *testing.T) {
	sources := []oddsapp.Source{&fixedSource{
		name:   "TOTO",
		events: testEvents,
		odds: map[string][]domain.Outcome{
			"ajax-psv":     line("TOTO", 2.0, 3.0, 3.5),
			"feyenoord-az": line("TOTO", 2.0, 3.0, 3.5),
		},
		delay: 100 * time.Millisecond,
	}}
	s, _ := newTestScanner(t, sources, 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Scan(context.Background()) //nolint:errcheck
	}()

	// Wait until the first scan holds the token.
	deadline := time.Now().Add(time.Second)
	for !s.Scanning() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !s.Scanning() {
		t.Fatal("first scan never started")
	}

	_, err := s.Scan(context.Background())
	if apperror.GetCode(err) != apperror.CodeScanInProgress {
		t.Errorf("concurrent Scan() code = %s, want SCAN_IN_PROGRESS", apperror.GetCode(err))
	}

	<-done
	if s.Scanning() {
		t.Error("Scanning() still true after scan finished")
	}

	// The token is released, a new scan may run.
	if _, err := s.Scan(context.Background()); err != nil {
		t.Errorf("follow-up Scan() error = %v", err)
	}
}

func TestScan_MaxEventsCap(t *testing.T) {
	s, _ := newTestScanner(t, arbSources(), 1)

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.EventsScanned != 1 {
		t.Errorf("EventsScanned = %d, want 1", result.EventsScanned)
	}
}

func TestLastResult(t *testing.T) {
	s, _ := newTestScanner(t, arbSources(), 0)

	if _, err := s.LastResult(); apperror.GetCode(err) != apperror.CodeNoScanResult {
		t.Errorf("LastResult() before scan code = %s, want NO_SCAN_RESULT", apperror.GetCode(err))
	}

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	last, err := s.LastResult()
	if err != nil {
		t.Fatalf("LastResult() error = %v", err)
	}
	if last != result {
		t.Error("LastResult() did not return the completed scan")
	}
}

func TestScan_NoEvents(t *testing.T) {
	s, _ := newTestScanner(t, []oddsapp.Source{&fixedSource{
		name: "TOTO",
		err:  apperror.New(apperror.CodeSourceNetworkError),
	}}, 0)

	_, err := s.Scan(context.Background())
	if apperror.GetCode(err) != apperror.CodeNoEventsAvailable {
		t.Errorf("Scan() code = %s, want NO_EVENTS_AVAILABLE", apperror.GetCode(err))
	}

	// A failed scan must release the single-flight token.
	if s.Scanning() {
		t.Error("Scanning() true after failed scan")
	}
}

func TestMultiReporter(t *testing.T) {
	a := &recordingReporter{}
	b := &recordingReporter{}
	multi := NewMultiReporter(a, b)

	if err := multi.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	opp := &domain.Opportunity{ID: "x"}
	multi.Report(opp)
	multi.ScanStarted("Ajax vs PSV")
	multi.ScanFinished(&ScanResult{})

	for _, rep := range []*recordingReporter{a, b} {
		if len(rep.reported) != 1 || len(rep.started) != 1 || len(rep.finished) != 1 {
			t.Errorf("reporter missed calls: %d/%d/%d",
				len(rep.reported), len(rep.started), len(rep.finished))
		}
	}

	if err := multi.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
