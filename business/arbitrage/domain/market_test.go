package domain

import (
	"reflect"
	"testing"
)

func TestGroupByMarket(t *testing.T) {
	outcomes := []Outcome{
		{Bookmaker: "TOTO", Odds: 2.0, Market: MarketHomeWin},
		{Bookmaker: "Bet365", Odds: 2.1, Market: MarketHomeWin},
		{Bookmaker: "TOTO", Odds: 3.4, Market: MarketDraw},
		{Bookmaker: "Unibet", Odds: 4.0, Market: MarketAwayWin},
	}

	groups := GroupByMarket(outcomes)

	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	if len(groups[MarketHomeWin]) != 2 {
		t.Errorf("home win group size = %d, want 2", len(groups[MarketHomeWin]))
	}
	// Arrival order is preserved within a group.
	if groups[MarketHomeWin][0].Bookmaker != "TOTO" {
		t.Errorf("first home win outcome = %q, want TOTO", groups[MarketHomeWin][0].Bookmaker)
	}
}

func TestBestPerMarket(t *testing.T) {
	tests := []struct {
		name      string
		group     []Outcome
		wantBook  string
		wantFound bool
	}{
		{
			name: "highest_odds_wins",
			group: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.0, Market: MarketHomeWin},
				{Bookmaker: "Bet365", Odds: 2.3, Market: MarketHomeWin},
				{Bookmaker: "Unibet", Odds: 2.1, Market: MarketHomeWin},
			},
			wantBook:  "Bet365",
			wantFound: true,
		},
		{
			name: "tie_keeps_first_seen",
			group: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.3, Market: MarketHomeWin},
				{Bookmaker: "Bet365", Odds: 2.3, Market: MarketHomeWin},
			},
			wantBook:  "TOTO",
			wantFound: true,
		},
		{
			name:      "empty_group",
			group:     nil,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, found := BestPerMarket(tt.group)

			if found != tt.wantFound {
				t.Fatalf("BestPerMarket() found = %v, want %v", found, tt.wantFound)
			}
			if found && best.Bookmaker != tt.wantBook {
				t.Errorf("BestPerMarket() bookmaker = %q, want %q", best.Bookmaker, tt.wantBook)
			}
		})
	}
}

func TestSelectThreeWay(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		want     []Outcome
		wantOK   bool
	}{
		{
			name: "best_odds_across_bookmakers",
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.0, Market: MarketHomeWin},
				{Bookmaker: "Bet365", Odds: 2.1, Market: MarketHomeWin},
				{Bookmaker: "TOTO", Odds: 3.4, Market: MarketDraw},
				{Bookmaker: "Bet365", Odds: 3.3, Market: MarketDraw},
				{Bookmaker: "TOTO", Odds: 3.8, Market: MarketAwayWin},
				{Bookmaker: "Unibet", Odds: 4.1, Market: MarketAwayWin},
			},
			want: []Outcome{
				{Bookmaker: "Bet365", Odds: 2.1, Market: MarketHomeWin},
				{Bookmaker: "TOTO", Odds: 3.4, Market: MarketDraw},
				{Bookmaker: "Unibet", Odds: 4.1, Market: MarketAwayWin},
			},
			wantOK: true,
		},
		{
			name: "extraneous_markets_filtered",
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.1, Market: MarketHomeWin},
				{Bookmaker: "TOTO", Odds: 3.4, Market: MarketDraw},
				{Bookmaker: "TOTO", Odds: 4.1, Market: MarketAwayWin},
				{Bookmaker: "TOTO", Odds: 1.5, Market: "Draw No Bet"},
				{Bookmaker: "Bet365", Odds: 1.9, Market: "Over 2.5"},
			},
			want: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.1, Market: MarketHomeWin},
				{Bookmaker: "TOTO", Odds: 3.4, Market: MarketDraw},
				{Bookmaker: "TOTO", Odds: 4.1, Market: MarketAwayWin},
			},
			wantOK: true,
		},
		{
			name: "missing_canonical_market",
			outcomes: []Outcome{
				{Bookmaker: "TOTO", Odds: 2.1, Market: MarketHomeWin},
				{Bookmaker: "TOTO", Odds: 3.4, Market: MarketDraw},
			},
			wantOK: false,
		},
		{
			name:     "no_outcomes",
			outcomes: nil,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectThreeWay(tt.outcomes)

			if ok != tt.wantOK {
				t.Fatalf("SelectThreeWay() ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectThreeWay() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Aggregation can surface an arbitrage no single bookmaker offers.
func TestSelectThreeWay_CrossBookmakerArbitrage(t *testing.T) {
	outcomes := []Outcome{
		// Each book alone carries a margin.
		{Bookmaker: "TOTO", Odds: 2.1, Market: MarketHomeWin},
		{Bookmaker: "TOTO", Odds: 3.2, Market: MarketDraw},
		{Bookmaker: "TOTO", Odds: 3.6, Market: MarketAwayWin},
		{Bookmaker: "Bet365", Odds: 1.9, Market: MarketHomeWin},
		{Bookmaker: "Bet365", Odds: 3.6, Market: MarketDraw},
		{Bookmaker: "Bet365", Odds: 3.9, Market: MarketAwayWin},
		{Bookmaker: "Unibet", Odds: 2.0, Market: MarketHomeWin},
		{Bookmaker: "Unibet", Odds: 3.3, Market: MarketDraw},
		{Bookmaker: "Unibet", Odds: 4.4, Market: MarketAwayWin},
	}

	selected, ok := SelectThreeWay(outcomes)
	if !ok {
		t.Fatal("SelectThreeWay() ok = false, want true")
	}

	// Best line: 2.1 / 3.6 / 4.4.
	isArb, s := Detect(selected)
	if !isArb {
		t.Errorf("Detect() = false for best cross-book line, S = %v", s)
	}

	// No single bookmaker's own line is an arbitrage.
	for _, book := range []string{"TOTO", "Bet365", "Unibet"} {
		var own []Outcome
		for _, o := range outcomes {
			if o.Bookmaker == book {
				own = append(own, o)
			}
		}
		if isArb, _ := Detect(own); isArb {
			t.Errorf("single bookmaker %s line unexpectedly arbitrages", book)
		}
	}
}
