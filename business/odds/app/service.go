package app

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	arbdomain "github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/business/odds/domain"
	"github.com/arbstream/arbstream/internal/apperror"
	"github.com/arbstream/arbstream/internal/logger"
)

const tracerName = "odds"

// SourceResult is one source's answer for one event. Err and Outcomes are
// mutually exclusive; a failed source contributes an error, never partial
// odds.
type SourceResult struct {
	Bookmaker string
	Outcomes  []arbdomain.Outcome
	Err       error
}

// OddsService fans odds requests out to every registered source and collects
// the answers. One slow or broken source must never take the scan down: each
// source gets its own timeout, and failures are carried as per-source errors
// in the result set.
type OddsService struct {
	sources []Source
	timeout time.Duration
	logger  logger.LoggerInterface
	tracer  trace.Tracer
}

// NewOddsService creates an OddsService. timeout bounds each individual
// source call during a gather.
func NewOddsService(sources []Source, timeout time.Duration, log logger.LoggerInterface) *OddsService {
	return &OddsService{
		sources: sources,
		timeout: timeout,
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}
}

// GatherOdds queries all sources for one event concurrently. The returned
// slice has one entry per source, in registration order, so results are
// deterministic regardless of completion order.
func (s *OddsService) GatherOdds(ctx context.Context, event domain.Event) []SourceResult {
	ctx, span := s.tracer.Start(ctx, "odds.gather",
		trace.WithAttributes(
			attribute.String("event.id", event.ID),
			attribute.Int("sources", len(s.sources)),
		),
	)
	defer span.End()

	results := make([]SourceResult, len(s.sources))

	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()

			srcCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			outcomes, err := src.FetchOdds(srcCtx, event.ID)
			results[i] = SourceResult{
				Bookmaker: src.BookmakerName(),
				Outcomes:  outcomes,
				Err:       err,
			}
		}(i, src)
	}
	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			s.logger.Warn(ctx, "source failed, continuing without it",
				"bookmaker", r.Bookmaker,
				"event", event.Name,
				"code", apperror.GetCode(r.Err),
				"error", r.Err)
		}
	}

	return results
}

// ListEvents returns the event list from the first source that answers,
// tried in registration order. Sources quote the same fixtures; asking all
// of them would only multiply IDs for identical events.
func (s *OddsService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	ctx, span := s.tracer.Start(ctx, "odds.list_events")
	defer span.End()

	var lastErr error
	for _, src := range s.sources {
		srcCtx, cancel := context.WithTimeout(ctx, s.timeout)
		events, err := src.ListEvents(srcCtx)
		cancel()

		if err != nil {
			lastErr = err
			s.logger.Warn(ctx, "event listing failed, trying next source",
				"bookmaker", src.BookmakerName(),
				"error", err)
			continue
		}
		if len(events) == 0 {
			continue
		}
		return events, nil
	}

	if lastErr != nil {
		return nil, apperror.New(apperror.CodeNoEventsAvailable,
			apperror.WithCause(lastErr),
			apperror.WithContext("all sources failed or returned no events"))
	}
	return nil, apperror.New(apperror.CodeNoEventsAvailable,
		apperror.WithContext("no source returned events"))
}

// SourceNames returns the bookmaker names of the registered sources, in
// registration order.
func (s *OddsService) SourceNames() []string {
	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.BookmakerName()
	}
	return names
}
