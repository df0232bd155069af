// Package mock provides a synthetic odds source for running the pipeline
// without live bookmaker access.
package mock

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	arbdomain "github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/business/odds/domain"
)

// fetchDelay simulates provider latency so concurrency behavior stays
// realistic in demo runs.
const fetchDelay = 100 * time.Millisecond

// arbBiasChance is how often a biased source quotes one outcome well above
// market, which can line up into a cross-book arbitrage.
const arbBiasChance = 0.3

var fixtures = []domain.Event{
	{ID: "ajax-psv", Name: "Ajax vs PSV", Sport: "Football"},
	{ID: "feyenoord-az", Name: "Feyenoord vs AZ", Sport: "Football"},
	{ID: "utrecht-twente", Name: "Utrecht vs Twente", Sport: "Football"},
}

// Source generates plausible three-way odds with a bookmaker margin, and,
// when biased, occasionally one outlier price. It implements the odds
// source port.
type Source struct {
	bookmaker string
	arbBias   bool

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a mock source seeded from the clock.
func New(bookmaker string, arbBias bool) *Source {
	return NewSeeded(bookmaker, arbBias, time.Now().UnixNano())
}

// NewSeeded creates a mock source with a fixed seed, for reproducible tests.
func NewSeeded(bookmaker string, arbBias bool, seed int64) *Source {
	return &Source{
		bookmaker: bookmaker,
		arbBias:   arbBias,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// BookmakerName identifies the simulated bookmaker.
func (s *Source) BookmakerName() string {
	return s.bookmaker
}

// FetchOdds generates a fresh three-way line for the event.
func (s *Source) FetchOdds(ctx context.Context, eventID string) ([]arbdomain.Outcome, error) {
	select {
	case <-time.After(fetchDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.arbBias && s.rng.Float64() < arbBiasChance {
		return s.outlierOdds(), nil
	}
	return s.marginOdds(), nil
}

// ListEvents returns the fixed demo fixture list.
func (s *Source) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events := make([]domain.Event, len(fixtures))
	copy(events, fixtures)
	return events, nil
}

// marginOdds produces a normal bookmaker line: fair-ish prices shaded down
// by a 5-15% margin, so S lands above 1.0 and no single-book arbitrage
// exists.
func (s *Source) marginOdds() []arbdomain.Outcome {
	home := s.uniform(1.8, 3.0)
	draw := s.uniform(2.8, 4.0)
	away := s.uniform(2.0, 5.0)

	margin := s.uniform(0.05, 0.15)
	return s.line(
		home*(1-margin),
		draw*(1-margin),
		away*(1-margin),
	)
}

// outlierOdds quotes one market well above consensus. Combined with other
// books' normal lines this is what produces cross-book arbitrages.
func (s *Source) outlierOdds() []arbdomain.Outcome {
	switch s.rng.Intn(3) {
	case 0:
		return s.line(s.uniform(2.3, 2.8), s.uniform(3.0, 3.5), s.uniform(3.5, 4.5))
	case 1:
		return s.line(s.uniform(2.0, 2.5), s.uniform(4.0, 5.0), s.uniform(3.0, 4.0))
	default:
		return s.line(s.uniform(2.0, 2.5), s.uniform(3.0, 3.5), s.uniform(4.5, 6.0))
	}
}

func (s *Source) line(home, draw, away float64) []arbdomain.Outcome {
	return []arbdomain.Outcome{
		{Bookmaker: s.bookmaker, Odds: round2(home), Market: arbdomain.MarketHomeWin},
		{Bookmaker: s.bookmaker, Odds: round2(draw), Market: arbdomain.MarketDraw},
		{Bookmaker: s.bookmaker, Odds: round2(away), Market: arbdomain.MarketAwayWin},
	}
}

func (s *Source) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
