// Package domain contains the core domain types and the pure arbitrage
// engine for the arbitrage context.
package domain

// Market is a mutually exclusive result category of an event.
type Market string

// Canonical three-way (1X2) market labels.
const (
	MarketHomeWin Market = "Home Win"
	MarketDraw    Market = "Draw"
	MarketAwayWin Market = "Away Win"
)

// CanonicalMarkets is the canonical three-way market set, in stake order.
var CanonicalMarkets = []Market{MarketHomeWin, MarketDraw, MarketAwayWin}

// MinViableOdds is the exclusive lower bound for a backable decimal price.
// Odds at or below 1.0 carry no payout over stake and are never treated as
// arbitrage legs, regardless of what the arithmetic would suggest.
const MinViableOdds = 1.0

// Outcome is a single priced outcome quoted by one bookmaker.
// It is an immutable value with no identity beyond its fields.
type Outcome struct {
	Bookmaker string  `json:"bookmaker"`
	Odds      float64 `json:"odds"`
	Market    Market  `json:"market"`
}

// Viable reports whether the outcome carries a backable price.
func (o Outcome) Viable() bool {
	return o.Odds > MinViableOdds
}
