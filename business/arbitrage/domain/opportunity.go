package domain

import (
	"time"

	"github.com/google/uuid"
)

// Opportunity is a fully computed arbitrage opportunity for one event.
// It is constructed once per qualifying event per scan and never mutated.
//
// Invariants: len(Outcomes) == len(Stakes); ArbitragePercentage < 1.0;
// stakes are non-negative whole currency units; TotalBankroll is the sum of
// the rounded stakes, which may differ slightly from the bankroll the caller
// requested.
type Opportunity struct {
	ID                  string    `json:"id"`
	EventName           string    `json:"event_name"`
	Outcomes            []Outcome `json:"outcomes"` // one per market, order matches Stakes
	ArbitragePercentage float64   `json:"arbitrage_percentage"` // S, the sum of reciprocal odds
	ProfitMargin        float64   `json:"profit_margin"`        // (1-S)*100, percent
	TotalBankroll       float64   `json:"total_bankroll"`       // actual invested sum after stake rounding
	Stakes              []float64 `json:"stakes"`
	GuaranteedProfit    float64   `json:"guaranteed_profit"`
	ROI                 float64   `json:"roi"` // percent
	DetectedAt          time.Time `json:"detected_at"`
}

// BuildOpportunity runs the full engine for one event: detect, allocate
// stakes, and derive profit figures. It returns nil when the outcomes do not
// form an arbitrage - absence of opportunity is a normal, frequent outcome,
// not a failure.
//
// Profit and ROI are computed from the post-rounding invested sum, not from
// the requested bankroll: they must reflect what was actually staked.
func BuildOpportunity(eventName string, outcomes []Outcome, bankroll float64) *Opportunity {
	isArb, s := Detect(outcomes)
	if !isArb {
		return nil
	}

	// Unreachable error: Detect just guaranteed s < 1.0.
	stakes, err := OptimalStakes(outcomes, bankroll, s, true)
	if err != nil {
		return nil
	}

	actualInvestment := 0.0
	for _, stake := range stakes {
		actualInvestment += stake
	}

	profit := GuaranteedProfit(actualInvestment, s)

	return &Opportunity{
		ID:                  uuid.NewString(),
		EventName:           eventName,
		Outcomes:            outcomes,
		ArbitragePercentage: s,
		ProfitMargin:        (1.0 - s) * 100.0,
		TotalBankroll:       actualInvestment,
		Stakes:              stakes,
		GuaranteedProfit:    profit,
		ROI:                 ROI(profit, actualInvestment),
		DetectedAt:          time.Now(),
	}
}
