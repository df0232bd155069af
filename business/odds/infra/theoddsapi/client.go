// Package theoddsapi implements an odds source backed by The Odds API v4,
// which aggregates lines from many European bookmakers behind one endpoint.
package theoddsapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	arbdomain "github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/business/odds/domain"
	"github.com/arbstream/arbstream/internal/apperror"
	"github.com/arbstream/arbstream/internal/httpclient"
	"github.com/arbstream/arbstream/internal/logger"
	"github.com/arbstream/arbstream/internal/ratelimit"
)

const (
	tracerName = "theoddsapi"

	// DefaultBaseURL is the production v4 endpoint.
	DefaultBaseURL = "https://api.the-odds-api.com/v4"

	marketH2H         = "h2h"
	oddsFormatDecimal = "decimal"

	// Quota headers returned on every response.
	headerRequestsRemaining = "x-requests-remaining"
	headerRequestsUsed      = "x-requests-used"
)

// Config configures the client. SportKeys are tried in order for both event
// listing and odds fetching; the free tier keys events by sport, not
// globally.
type Config struct {
	APIKey            string
	BaseURL           string
	Region            string // "eu", "uk", "us" or "au"
	SportKeys         []string
	RequestsPerMinute int
	RequestTimeout    time.Duration
}

// Client fetches h2h (1X2) lines from The Odds API. Each response carries
// every bookmaker's quote, so one upstream call yields outcomes for many
// books at once.
//
// The client rate-limits itself below the plan quota and trips a circuit
// breaker on repeated upstream failures, so a dead API degrades to fast
// local errors instead of hammering the quota.
type Client struct {
	cfg     Config
	http    httpclient.Client
	limiter *ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker[[]gameDTO]
	logger  logger.LoggerInterface
	tracer  trace.Tracer
}

// New creates a client. The API key is mandatory.
func New(cfg Config, log logger.LoggerInterface) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("the odds api: missing API key"))
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Region == "" {
		cfg.Region = "eu"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	httpClient, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("theoddsapi"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[[]gameDTO](gobreaker.Settings{
		Name:        "theoddsapi",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		breaker: breaker,
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// BookmakerName identifies the aggregator, not an individual book: the
// outcomes it returns carry the real bookmaker keys.
func (c *Client) BookmakerName() string {
	return "TheOddsAPI"
}

// ListEvents returns upcoming fixtures across the configured sport keys.
// Sports that are out of season or not in the plan are skipped silently.
func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	ctx, span := c.tracer.Start(ctx, "theoddsapi.list_events")
	defer span.End()

	var events []domain.Event
	var lastErr error

	for _, sportKey := range c.cfg.SportKeys {
		games, err := c.fetchGames(ctx, sportKey, "")
		if err != nil {
			// Unauthorized is fatal for every sport key, stop early.
			if apperror.GetCode(err) == apperror.CodeSourceUnauthorized {
				return nil, err
			}
			lastErr = err
			continue
		}

		for _, g := range games {
			events = append(events, domain.Event{
				ID:           g.ID,
				Name:         fmt.Sprintf("%s vs %s", g.HomeTeam, g.AwayTeam),
				Sport:        sportKey,
				CommenceTime: g.CommenceTime,
			})
		}
	}

	if len(events) == 0 && lastErr != nil {
		return nil, lastErr
	}

	span.SetAttributes(attribute.Int("events", len(events)))
	return events, nil
}

// FetchOdds returns every bookmaker's h2h outcomes for one event. Team names
// are mapped onto the canonical market labels using the event's home/away
// assignment.
func (c *Client) FetchOdds(ctx context.Context, eventID string) ([]arbdomain.Outcome, error) {
	ctx, span := c.tracer.Start(ctx, "theoddsapi.fetch_odds",
		trace.WithAttributes(attribute.String("event.id", eventID)),
	)
	defer span.End()

	// Event IDs do not encode the sport, so probe the configured keys.
	var lastErr error
	for _, sportKey := range c.cfg.SportKeys {
		games, err := c.fetchGames(ctx, sportKey, eventID)
		if err != nil {
			if apperror.GetCode(err) == apperror.CodeSourceUnauthorized {
				return nil, err
			}
			lastErr = err
			continue
		}
		if len(games) == 0 {
			continue
		}
		return parseGameOutcomes(games[0]), nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, apperror.NotFound(apperror.CodeEventNotFound,
		fmt.Sprintf("event %s not found in any configured sport", eventID))
}

// fetchGames performs one rate-limited, breaker-guarded odds request. An
// empty eventID lists the whole sport.
func (c *Client) fetchGames(ctx context.Context, sportKey, eventID string) ([]gameDTO, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	games, err := c.breaker.Execute(func() ([]gameDTO, error) {
		return c.doFetchGames(ctx, sportKey, eventID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperror.New(apperror.CodeCircuitOpen,
				apperror.WithCause(err),
				apperror.WithContext("the odds api breaker open"))
		}
		return nil, err
	}
	return games, nil
}

func (c *Client) doFetchGames(ctx context.Context, sportKey, eventID string) ([]gameDTO, error) {
	var games []gameDTO

	req := c.http.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(classifyStatus),
		httpclient.WithLabels(httpclient.NewLabel("sport", sportKey)),
	).
		SetQueryParam("apiKey", c.cfg.APIKey).
		SetQueryParam("regions", c.cfg.Region).
		SetQueryParam("markets", marketH2H).
		SetQueryParam("oddsFormat", oddsFormatDecimal).
		SetResult(&games)

	if eventID != "" {
		req.SetQueryParam("eventIds", eventID)
	}

	resp, err := req.Get(ctx, fmt.Sprintf("/sports/%s/odds", sportKey))
	if resp != nil {
		c.logQuota(ctx, resp)
	}
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeSourceNetworkError,
			apperror.WithCause(err),
			apperror.WithContext("the odds api request failed"))
	}

	return games, nil
}

// classifyStatus maps upstream HTTP failures onto source error kinds.
func classifyStatus(statusCode int, body []byte) error {
	switch {
	case statusCode == 401 || statusCode == 403:
		return apperror.Unauthorized(apperror.CodeSourceUnauthorized,
			"the odds api rejected the API key")
	case statusCode == 429:
		return apperror.New(apperror.CodeSourceRateLimited,
			apperror.WithStatusCode(429),
			apperror.WithContext("the odds api quota exhausted"))
	case statusCode >= 400:
		return apperror.External(apperror.CodeOddsFetchFailed,
			fmt.Sprintf("the odds api returned %d: %s", statusCode, truncate(body, 200)), nil)
	}
	return nil
}

// logQuota surfaces the per-account quota headers on every response.
func (c *Client) logQuota(ctx context.Context, resp *httpclient.Response) {
	remaining := resp.Header.Get(headerRequestsRemaining)
	if remaining == "" {
		return
	}
	c.logger.Debug(ctx, "the odds api quota",
		"used", resp.Header.Get(headerRequestsUsed),
		"remaining", remaining)
}

// parseGameOutcomes flattens one game's bookmaker quotes into outcomes.
// Team-named outcomes become Home Win / Away Win by matching against the
// fixture's home and away teams; anything unrecognized is dropped.
func parseGameOutcomes(game gameDTO) []arbdomain.Outcome {
	var outcomes []arbdomain.Outcome

	for _, book := range game.Bookmakers {
		for _, market := range book.Markets {
			if market.Key != marketH2H {
				continue
			}
			for _, o := range market.Outcomes {
				var label arbdomain.Market
				switch o.Name {
				case game.HomeTeam:
					label = arbdomain.MarketHomeWin
				case game.AwayTeam:
					label = arbdomain.MarketAwayWin
				case "Draw":
					label = arbdomain.MarketDraw
				default:
					continue
				}
				outcomes = append(outcomes, arbdomain.Outcome{
					Bookmaker: book.Key,
					Odds:      o.Price,
					Market:    label,
				})
			}
		}
	}

	return outcomes
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
