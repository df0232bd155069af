package toto

import (
	"testing"

	arbdomain "github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/internal/apperror"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"2,10", 2.10, false},
		{"3.40", 3.40, false},
		{" 4,50 ", 4.50, false},
		{"12,00", 12.0, false},
		{"", 0, true},
		{"-", 0, true},
		{"n.v.t.", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parsePrice(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePrice(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parsePrice(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseLine(t *testing.T) {
	outcomes, err := parseLine("TOTO", scrapedOdds{Home: "2,10", Draw: "3,40", Away: "3,60"})
	if err != nil {
		t.Fatalf("parseLine() error = %v", err)
	}

	want := []arbdomain.Outcome{
		{Bookmaker: "TOTO", Odds: 2.1, Market: arbdomain.MarketHomeWin},
		{Bookmaker: "TOTO", Odds: 3.4, Market: arbdomain.MarketDraw},
		{Bookmaker: "TOTO", Odds: 3.6, Market: arbdomain.MarketAwayWin},
	}
	if len(outcomes) != 3 {
		t.Fatalf("len(outcomes) = %d, want 3", len(outcomes))
	}
	for i := range want {
		if outcomes[i] != want[i] {
			t.Errorf("outcomes[%d] = %+v, want %+v", i, outcomes[i], want[i])
		}
	}
}

func TestParseLine_SuspendedMarket(t *testing.T) {
	// Suspended markets render a dash instead of a price.
	_, err := parseLine("TOTO", scrapedOdds{Home: "2,10", Draw: "-", Away: "3,60"})
	if err == nil {
		t.Fatal("parseLine() error = nil, want SCRAPER_PARSE_FAILED")
	}
	if apperror.GetCode(err) != apperror.CodeScraperParseFailed {
		t.Errorf("error code = %s, want SCRAPER_PARSE_FAILED", apperror.GetCode(err))
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{}, nil)

	if s.BookmakerName() != "TOTO" {
		t.Errorf("BookmakerName() = %q, want TOTO", s.BookmakerName())
	}
	if s.cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", s.cfg.BaseURL, DefaultBaseURL)
	}
	if s.cfg.Timeout <= 0 {
		t.Error("Timeout not defaulted")
	}
}
