package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	arbdomain "github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/business/odds/domain"
	"github.com/arbstream/arbstream/internal/apperror"
	"github.com/arbstream/arbstream/internal/logger"
)

// stubSource is a scriptable Source for service tests.
type stubSource struct {
	name     string
	outcomes []arbdomain.Outcome
	events   []domain.Event
	err      error
	delay    time.Duration
}

func (s *stubSource) FetchOdds(ctx context.Context, eventID string) ([]arbdomain.Outcome, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.outcomes, nil
}

func (s *stubSource) ListEvents(ctx context.Context) ([]domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func (s *stubSource) BookmakerName() string { return s.name }

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestGatherOdds_AllSourcesAnswer(t *testing.T) {
	sources := []Source{
		&stubSource{name: "TOTO", outcomes: []arbdomain.Outcome{
			{Bookmaker: "TOTO", Odds: 2.0, Market: arbdomain.MarketHomeWin},
		}},
		&stubSource{name: "Bet365", outcomes: []arbdomain.Outcome{
			{Bookmaker: "Bet365", Odds: 3.4, Market: arbdomain.MarketDraw},
		}},
	}
	svc := NewOddsService(sources, time.Second, testLogger())

	results := svc.GatherOdds(context.Background(), domain.Event{ID: "ev-1", Name: "Ajax vs PSV"})

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	// Results keep registration order regardless of completion order.
	if results[0].Bookmaker != "TOTO" || results[1].Bookmaker != "Bet365" {
		t.Errorf("result order = [%s, %s], want [TOTO, Bet365]",
			results[0].Bookmaker, results[1].Bookmaker)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("source %s: unexpected error %v", r.Bookmaker, r.Err)
		}
	}
}

func TestGatherOdds_FailureIsolation(t *testing.T) {
	sources := []Source{
		&stubSource{name: "TOTO", err: apperror.New(apperror.CodeSourceNetworkError)},
		&stubSource{name: "Bet365", outcomes: []arbdomain.Outcome{
			{Bookmaker: "Bet365", Odds: 3.4, Market: arbdomain.MarketDraw},
		}},
	}
	svc := NewOddsService(sources, time.Second, testLogger())

	results := svc.GatherOdds(context.Background(), domain.Event{ID: "ev-1"})

	if results[0].Err == nil {
		t.Error("failing source reported no error")
	}
	if apperror.GetCode(results[0].Err) != apperror.CodeSourceNetworkError {
		t.Errorf("error code = %s, want SOURCE_NETWORK_ERROR", apperror.GetCode(results[0].Err))
	}
	if results[1].Err != nil || len(results[1].Outcomes) != 1 {
		t.Errorf("healthy source affected by sibling failure: %+v", results[1])
	}
}

func TestGatherOdds_SlowSourceTimesOut(t *testing.T) {
	sources := []Source{
		&stubSource{name: "TOTO", delay: 500 * time.Millisecond},
		&stubSource{name: "Bet365", outcomes: []arbdomain.Outcome{
			{Bookmaker: "Bet365", Odds: 3.4, Market: arbdomain.MarketDraw},
		}},
	}
	svc := NewOddsService(sources, 20*time.Millisecond, testLogger())

	start := time.Now()
	results := svc.GatherOdds(context.Background(), domain.Event{ID: "ev-1"})
	elapsed := time.Since(start)

	if elapsed > 200*time.Millisecond {
		t.Errorf("gather took %v, per-source timeout not enforced", elapsed)
	}
	if !errors.Is(results[0].Err, context.DeadlineExceeded) {
		t.Errorf("slow source error = %v, want deadline exceeded", results[0].Err)
	}
	if results[1].Err != nil {
		t.Errorf("fast source failed: %v", results[1].Err)
	}
}

func TestListEvents_FirstAnsweringSourceWins(t *testing.T) {
	sources := []Source{
		&stubSource{name: "TOTO", err: apperror.New(apperror.CodeSourceNetworkError)},
		&stubSource{name: "Bet365", events: []domain.Event{{ID: "ev-1", Name: "Ajax vs PSV"}}},
		&stubSource{name: "Unibet", events: []domain.Event{{ID: "other", Name: "should not be reached"}}},
	}
	svc := NewOddsService(sources, time.Second, testLogger())

	events, err := svc.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].ID != "ev-1" {
		t.Errorf("events = %+v, want the second source's list", events)
	}
}

func TestListEvents_AllSourcesFail(t *testing.T) {
	sources := []Source{
		&stubSource{name: "TOTO", err: apperror.New(apperror.CodeSourceUnauthorized)},
		&stubSource{name: "Bet365", err: apperror.New(apperror.CodeSourceRateLimited)},
	}
	svc := NewOddsService(sources, time.Second, testLogger())

	_, err := svc.ListEvents(context.Background())
	if err == nil {
		t.Fatal("ListEvents() error = nil, want NO_EVENTS_AVAILABLE")
	}
	if apperror.GetCode(err) != apperror.CodeNoEventsAvailable {
		t.Errorf("error code = %s, want NO_EVENTS_AVAILABLE", apperror.GetCode(err))
	}
}

func TestSourceNames(t *testing.T) {
	svc := NewOddsService([]Source{
		&stubSource{name: "TOTO"},
		&stubSource{name: "Bet365"},
	}, time.Second, testLogger())

	names := svc.SourceNames()
	if len(names) != 2 || names[0] != "TOTO" || names[1] != "Bet365" {
		t.Errorf("SourceNames() = %v, want [TOTO Bet365]", names)
	}
}
