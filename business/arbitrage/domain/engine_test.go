package domain

import (
	"math"
	"testing"
)

func threeWay(home, draw, away float64) []Outcome {
	return []Outcome{
		{Bookmaker: "TOTO", Odds: home, Market: MarketHomeWin},
		{Bookmaker: "Bet365", Odds: draw, Market: MarketDraw},
		{Bookmaker: "Unibet", Odds: away, Market: MarketAwayWin},
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		wantArb  bool
		wantS    float64 // 0 means "compute from odds"
	}{
		{
			name:     "valid_arbitrage",
			outcomes: threeWay(2.1, 3.5, 4.2),
			wantArb:  true,
		},
		{
			name:     "no_arbitrage_normal_margin",
			outcomes: threeWay(2.0, 3.0, 3.5),
			wantArb:  false,
		},
		{
			name:     "clear_arbitrage",
			outcomes: threeWay(2.1, 3.6, 4.4),
			wantArb:  true,
		},
		{
			name: "two_way_arbitrage",
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.1, Market: MarketHomeWin},
				{Bookmaker: "Bet365", Odds: 2.1, Market: MarketAwayWin},
			},
			wantArb: true,
		},
		{
			name:     "exactly_balanced_book_is_not_arbitrage",
			outcomes: threeWay(3.0, 3.0, 3.0),
			wantArb:  false, // S == 1.0 exactly
		},
		{
			name: "invalid_odds_below_one",
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 0.5, Market: MarketHomeWin},
				{Bookmaker: "Bet365", Odds: 3.5, Market: MarketDraw},
			},
			wantArb: false,
			wantS:   -1, // marker: expect 0.0 exactly
		},
		{
			name: "invalid_odds_exactly_one",
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 1.0, Market: MarketHomeWin},
				{Bookmaker: "Bet365", Odds: 100.0, Market: MarketDraw},
			},
			wantArb: false,
			wantS:   -1,
		},
		{
			name: "single_outcome",
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.0, Market: MarketHomeWin},
			},
			wantArb: false,
			wantS:   -1,
		},
		{
			name:     "empty",
			outcomes: nil,
			wantArb:  false,
			wantS:    -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotArb, gotS := Detect(tt.outcomes)

			if gotArb != tt.wantArb {
				t.Errorf("Detect() arbitrage = %v, want %v (S=%v)", gotArb, tt.wantArb, gotS)
			}

			if tt.wantS == -1 {
				// Rejected inputs must report S as 0.0 exactly.
				if gotS != 0.0 {
					t.Errorf("Detect() S = %v, want 0.0 for rejected input", gotS)
				}
				return
			}

			// S must match the reciprocal sum at full float precision.
			wantS := 0.0
			for _, o := range tt.outcomes {
				wantS += 1.0 / o.Odds
			}
			if gotS != wantS {
				t.Errorf("Detect() S = %v, want %v", gotS, wantS)
			}
			if gotArb != (wantS < 1.0) {
				t.Errorf("Detect() arbitrage = %v, inconsistent with S = %v", gotArb, wantS)
			}
		})
	}
}

func TestDetect_ReferenceScenario(t *testing.T) {
	// The canonical example: 2.1 / 3.5 / 4.2 sits just under a balanced book.
	isArb, s := Detect(threeWay(2.1, 3.5, 4.2))

	if !isArb {
		t.Fatalf("Detect() = false, want arbitrage (S=%v)", s)
	}
	if !(0.99 < s && s < 1.0) {
		t.Errorf("Detect() S = %v, want in (0.99, 1.0)", s)
	}
}

func TestDetect_Idempotent(t *testing.T) {
	outcomes := threeWay(2.1, 3.6, 4.4)

	arb1, s1 := Detect(outcomes)
	arb2, s2 := Detect(outcomes)

	if arb1 != arb2 || s1 != s2 {
		t.Errorf("Detect() not idempotent: (%v, %v) vs (%v, %v)", arb1, s1, arb2, s2)
	}
}

func TestOptimalStakes_Rounded(t *testing.T) {
	outcomes := threeWay(2.1, 3.6, 4.4)
	_, s := Detect(outcomes)

	stakes, err := OptimalStakes(outcomes, 1000.0, s, true)
	if err != nil {
		t.Fatalf("OptimalStakes() error = %v", err)
	}

	if len(stakes) != len(outcomes) {
		t.Fatalf("len(stakes) = %d, want %d", len(stakes), len(outcomes))
	}

	total := 0.0
	for i, stake := range stakes {
		if stake != math.Round(stake) {
			t.Errorf("stake[%d] = %v, want whole currency units", i, stake)
		}
		if stake < 0 {
			t.Errorf("stake[%d] = %v, want non-negative", i, stake)
		}
		total += stake
	}

	// Rounding shifts the invested total slightly off the requested bankroll.
	if total < 990 || total > 1010 {
		t.Errorf("sum(stakes) = %v, want within 1%% of requested bankroll", total)
	}
}

func TestOptimalStakes_Unrounded(t *testing.T) {
	outcomes := threeWay(2.1, 3.6, 4.4)
	_, s := Detect(outcomes)

	stakes, err := OptimalStakes(outcomes, 1000.0, s, false)
	if err != nil {
		t.Fatalf("OptimalStakes() error = %v", err)
	}

	fractional := false
	for _, stake := range stakes {
		if stake != math.Round(stake) {
			fractional = true
		}
	}
	if !fractional {
		t.Error("unrounded stakes are all whole numbers, expected exact decimals")
	}

	// Unrounded stakes equalize every leg payout exactly.
	if ok, _ := VerifyPayoutWithin(stakes, outcomes, 1e-9); !ok {
		t.Error("unrounded stakes do not equalize payouts")
	}
}

func TestOptimalStakes_NonArbitrageFails(t *testing.T) {
	outcomes := threeWay(2.0, 3.0, 3.5)

	for _, s := range []float64{1.0, 1.1, 1.262} {
		if _, err := OptimalStakes(outcomes, 1000.0, s, true); err == nil {
			t.Errorf("OptimalStakes(s=%v) = nil error, want precondition violation", s)
		}
	}
}

func TestOptimalStakes_EqualPayouts(t *testing.T) {
	outcomes := threeWay(2.1, 3.6, 4.4)
	_, s := Detect(outcomes)

	stakes, err := OptimalStakes(outcomes, 1000.0, s, true)
	if err != nil {
		t.Fatalf("OptimalStakes() error = %v", err)
	}

	ok, payout := VerifyPayout(stakes, outcomes)
	if !ok {
		t.Errorf("VerifyPayout() = false, rounded stakes should stay within tolerance")
	}
	if payout <= 0 {
		t.Errorf("VerifyPayout() payout = %v, want positive", payout)
	}
}

func TestGuaranteedProfit(t *testing.T) {
	tests := []struct {
		name     string
		bankroll float64
		s        float64
		want     float64
	}{
		{"five_percent_edge", 1000.0, 0.95, 50.0},
		{"two_percent_edge", 500.0, 0.98, 500.0 * 0.02},
		{"balanced_book", 1000.0, 1.0, 0.0},
		{"overround_book", 1000.0, 1.1, 0.0},
		{"zero_bankroll", 0.0, 0.95, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GuaranteedProfit(tt.bankroll, tt.s)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("GuaranteedProfit(%v, %v) = %v, want %v", tt.bankroll, tt.s, got, tt.want)
			}
		})
	}
}

func TestROI(t *testing.T) {
	tests := []struct {
		name       string
		profit     float64
		investment float64
		want       float64
	}{
		{"five_percent", 50.0, 1000.0, 5.0},
		{"zero_profit", 0.0, 1000.0, 0.0},
		{"zero_investment", 50.0, 0.0, 0.0},
		{"negative_investment", 50.0, -10.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ROI(tt.profit, tt.investment); got != tt.want {
				t.Errorf("ROI(%v, %v) = %v, want %v", tt.profit, tt.investment, got, tt.want)
			}
		})
	}
}

func TestPayout(t *testing.T) {
	if got := Payout(100.0, 2.5); got != 250.0 {
		t.Errorf("Payout(100, 2.5) = %v, want 250", got)
	}
	if got := Payout(0.0, 2.5); got != 0.0 {
		t.Errorf("Payout(0, 2.5) = %v, want 0", got)
	}
}

func TestVerifyPayout(t *testing.T) {
	tests := []struct {
		name       string
		stakes     []float64
		outcomes   []Outcome
		wantValid  bool
		wantPayout float64
	}{
		{
			name:   "equal_payouts",
			stakes: []float64{600.0, 400.0},
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.0, Market: MarketHomeWin},
				{Bookmaker: "Bet365", Odds: 3.0, Market: MarketAwayWin},
			},
			wantValid:  true,
			wantPayout: 1200.0,
		},
		{
			name:   "within_one_unit",
			stakes: []float64{600.0, 400.0},
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.0, Market: MarketHomeWin},
				{Bookmaker: "Bet365", Odds: 2.9975, Market: MarketAwayWin},
			},
			wantValid:  true,
			wantPayout: 1200.0,
		},
		{
			name:   "beyond_tolerance",
			stakes: []float64{600.0, 400.0},
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.0, Market: MarketHomeWin},
				{Bookmaker: "Bet365", Odds: 2.9, Market: MarketAwayWin},
			},
			wantValid:  false,
			wantPayout: 1200.0,
		},
		{
			name:   "length_mismatch_fails_soft",
			stakes: []float64{600.0},
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.0, Market: MarketHomeWin},
				{Bookmaker: "Bet365", Odds: 3.0, Market: MarketAwayWin},
			},
			wantValid:  false,
			wantPayout: 0.0,
		},
		{
			name:       "empty_fails_soft",
			stakes:     nil,
			outcomes:   nil,
			wantValid:  false,
			wantPayout: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, payout := VerifyPayout(tt.stakes, tt.outcomes)

			if valid != tt.wantValid {
				t.Errorf("VerifyPayout() valid = %v, want %v", valid, tt.wantValid)
			}
			if math.Abs(payout-tt.wantPayout) > 1.0 {
				t.Errorf("VerifyPayout() payout = %v, want ~%v", payout, tt.wantPayout)
			}
		})
	}
}

func TestVerifyPayoutWithin_Strict(t *testing.T) {
	outcomes := []Outcome{
		{Bookmaker: "TOTO", Odds: 2.0, Market: MarketHomeWin},
		{Bookmaker: "Bet365", Odds: 3.0, Market: MarketAwayWin},
	}

	// Exactly equal legs pass a zero tolerance.
	if ok, _ := VerifyPayoutWithin([]float64{600.0, 400.0}, outcomes, 0.0); !ok {
		t.Error("strict verification rejected exactly equal payouts")
	}

	// A half-unit mismatch fails strict but passes the default tolerance.
	stakes := []float64{600.0, 400.1}
	if ok, _ := VerifyPayoutWithin(stakes, outcomes, 0.0); ok {
		t.Error("strict verification accepted unequal payouts")
	}
	if ok, _ := VerifyPayout(stakes, outcomes); !ok {
		t.Error("default tolerance rejected payouts within one unit")
	}
}

// Benchmark for the hot detection path.
func BenchmarkDetect(b *testing.B) {
	outcomes := threeWay(2.1, 3.6, 4.4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Detect(outcomes)
	}
}

func BenchmarkOptimalStakes(b *testing.B) {
	outcomes := threeWay(2.1, 3.6, 4.4)
	_, s := Detect(outcomes)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		OptimalStakes(outcomes, 1000.0, s, true) //nolint:errcheck
	}
}
