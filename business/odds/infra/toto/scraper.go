// Package toto implements an odds source that scrapes toto.nl with a
// headless browser. TOTO has no public odds API, so the site's rendered DOM
// is the only feed.
package toto

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	arbdomain "github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/business/odds/domain"
	"github.com/arbstream/arbstream/internal/apperror"
	"github.com/arbstream/arbstream/internal/logger"
)

const (
	tracerName = "toto"

	// DefaultBaseURL is the Dutch production site.
	DefaultBaseURL = "https://sport.toto.nl"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"
)

// chromeMu serializes browser usage; one Chrome at a time keeps memory
// bounded on small hosts.
var chromeMu sync.Mutex

// listEventsJS collects football fixtures from the overview page.
const listEventsJS = `
	Array.from(document.querySelectorAll('[data-testid="event-card"]')).map(el => ({
		id: el.getAttribute('data-event-id') || '',
		name: (el.querySelector('[data-testid="event-name"]') || {}).textContent || ''
	})).filter(e => e.id && e.name)
`

// fetchOddsJS extracts the three 1X2 prices from an event page. TOTO renders
// the match-result market first, with buttons ordered home / draw / away.
const fetchOddsJS = `
	(() => {
		const market = document.querySelector('[data-testid="market-match-result"]');
		if (!market) return null;
		const prices = Array.from(market.querySelectorAll('[data-testid="odds-value"]'))
			.map(el => el.textContent.trim());
		return prices.length === 3 ? {home: prices[0], draw: prices[1], away: prices[2]} : null;
	})()
`

type scrapedEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type scrapedOdds struct {
	Home string `json:"home"`
	Draw string `json:"draw"`
	Away string `json:"away"`
}

// Config configures the scraper.
type Config struct {
	Bookmaker string // display name, defaults to "TOTO"
	BaseURL   string
	Timeout   time.Duration // per page load
	Headless  bool
}

// Scraper drives a headless browser against toto.nl and parses the rendered
// odds. It implements the odds source port.
type Scraper struct {
	cfg    Config
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// New creates a scraper.
func New(cfg Config, log logger.LoggerInterface) *Scraper {
	if cfg.Bookmaker == "" {
		cfg.Bookmaker = "TOTO"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Scraper{
		cfg:    cfg,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
}

// BookmakerName identifies the scraped bookmaker.
func (s *Scraper) BookmakerName() string {
	return s.cfg.Bookmaker
}

// ListEvents scrapes the football overview page for upcoming fixtures.
func (s *Scraper) ListEvents(ctx context.Context) ([]domain.Event, error) {
	ctx, span := s.tracer.Start(ctx, "toto.list_events")
	defer span.End()

	var scraped []scrapedEvent
	err := s.withBrowser(ctx, s.cfg.BaseURL+"/voetbal", chromedp.Tasks{
		chromedp.WaitReady(`[data-testid="event-card"]`, chromedp.ByQuery),
		chromedp.Evaluate(listEventsJS, &scraped),
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeScraperNavigationFailed,
			apperror.WithCause(err),
			apperror.WithContext("toto overview page"))
	}

	events := make([]domain.Event, 0, len(scraped))
	for _, e := range scraped {
		events = append(events, domain.Event{
			ID:    e.ID,
			Name:  e.Name,
			Sport: "Football",
		})
	}

	span.SetAttributes(attribute.Int("events", len(events)))
	return events, nil
}

// FetchOdds scrapes one event page for its match-result (1X2) line.
func (s *Scraper) FetchOdds(ctx context.Context, eventID string) ([]arbdomain.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "toto.fetch_odds",
		trace.WithAttributes(attribute.String("event.id", eventID)),
	)
	defer span.End()

	var scraped *scrapedOdds
	url := fmt.Sprintf("%s/wedden/%s", s.cfg.BaseURL, eventID)
	err := s.withBrowser(ctx, url, chromedp.Tasks{
		chromedp.WaitReady(`[data-testid="market-match-result"]`, chromedp.ByQuery),
		chromedp.Evaluate(fetchOddsJS, &scraped),
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeScraperNavigationFailed,
			apperror.WithCause(err),
			apperror.WithContext("toto event page: "+eventID))
	}
	if scraped == nil {
		return nil, apperror.New(apperror.CodeScraperParseFailed,
			apperror.WithContext("match-result market not on page: "+eventID))
	}

	return parseLine(s.cfg.Bookmaker, *scraped)
}

// withBrowser runs tasks in a fresh headless browser context, preceded by
// navigation to url. Each call gets its own user-data dir and allocator so
// crashed pages cannot poison later scrapes.
func (s *Scraper) withBrowser(ctx context.Context, url string, tasks chromedp.Tasks) error {
	chromeMu.Lock()
	defer chromeMu.Unlock()

	chromeDir, err := os.MkdirTemp("", "toto_chrome_")
	if err != nil {
		return fmt.Errorf("create chrome temp dir: %w", err)
	}
	defer os.RemoveAll(chromeDir)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserDataDir(chromeDir),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	all := append(chromedp.Tasks{chromedp.Navigate(url)}, tasks...)
	return chromedp.Run(browserCtx, all)
}

// parseLine converts scraped price strings into canonical outcomes.
func parseLine(bookmaker string, odds scrapedOdds) ([]arbdomain.Outcome, error) {
	prices := []struct {
		raw    string
		market arbdomain.Market
	}{
		{odds.Home, arbdomain.MarketHomeWin},
		{odds.Draw, arbdomain.MarketDraw},
		{odds.Away, arbdomain.MarketAwayWin},
	}

	outcomes := make([]arbdomain.Outcome, 0, len(prices))
	for _, p := range prices {
		value, err := parsePrice(p.raw)
		if err != nil {
			return nil, apperror.New(apperror.CodeScraperParseFailed,
				apperror.WithCause(err),
				apperror.WithContext(fmt.Sprintf("price %q for %s", p.raw, p.market)))
		}
		outcomes = append(outcomes, arbdomain.Outcome{
			Bookmaker: bookmaker,
			Odds:      value,
			Market:    p.market,
		})
	}
	return outcomes, nil
}

// parsePrice parses a displayed decimal price. The Dutch site uses a comma
// decimal separator ("2,10").
func parsePrice(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", raw, err)
	}
	return value, nil
}
