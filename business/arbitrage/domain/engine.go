package domain

import (
	"math"

	"github.com/arbstream/arbstream/internal/apperror"
)

// PayoutTolerance is the maximum spread between leg payouts, in currency
// units, that VerifyPayout accepts. Whole-unit stake rounding can leave legs
// up to one unit apart.
const PayoutTolerance = 1.0

// Detect reports whether a set of mutually exclusive outcomes forms an
// arbitrage, together with the S value (the sum of reciprocal odds, also
// called the book percentage). An arbitrage exists iff S < 1.0: the market
// is over-booked from the bettor's perspective.
//
// Fewer than two outcomes, or any outcome priced at or below 1.0, is a
// normal negative result, not an error - malformed prices are common in
// live feeds and must never abort a scan.
func Detect(outcomes []Outcome) (bool, float64) {
	if len(outcomes) < 2 {
		return false, 0.0
	}

	for _, o := range outcomes {
		if !o.Viable() {
			return false, 0.0
		}
	}

	s := 0.0
	for _, o := range outcomes {
		s += 1.0 / o.Odds
	}

	return s < 1.0, s
}

// OptimalStakes computes the stake distribution that equalizes the payout of
// every leg: stake_i = (bankroll / odds_i) / s, which makes each leg pay out
// bankroll / s regardless of result.
//
// When round is true (the production mode) each stake is independently
// rounded to the nearest whole currency unit. Whole-unit stakes are a
// deliberate anti-gubbing policy: exact decimal stakes look like arbitrage
// bets. The rounding is lossy and is NOT re-balanced afterwards, so the
// realized payouts may differ by up to one unit per leg.
//
// Requesting stakes for a non-arbitrage set (s >= 1.0) is a precondition
// violation and returns an error.
func OptimalStakes(outcomes []Outcome, bankroll, s float64, round bool) ([]float64, error) {
	if s >= 1.0 {
		return nil, apperror.Validation(apperror.CodeNotArbitrage,
			"stake allocation requires S < 1.0")
	}

	stakes := make([]float64, len(outcomes))
	for i, o := range outcomes {
		stake := (bankroll / o.Odds) / s
		if round {
			stake = math.Round(stake)
		}
		stakes[i] = stake
	}

	return stakes, nil
}

// GuaranteedProfit returns the profit locked in by an arbitrage with the
// given invested bankroll: bankroll * (1 - s). For s >= 1.0 there is no
// guaranteed profit and the result is 0, never negative.
func GuaranteedProfit(bankroll, s float64) float64 {
	if s >= 1.0 {
		return 0.0
	}
	return bankroll * (1.0 - s)
}

// ROI returns the return on investment as a percentage. A non-positive
// investment yields 0 - a reporting convenience, not an error condition.
func ROI(profit, investment float64) float64 {
	if investment <= 0 {
		return 0.0
	}
	return (profit / investment) * 100.0
}

// Payout returns the total payout of a winning bet, stake included.
func Payout(stake, odds float64) float64 {
	return stake * odds
}

// VerifyPayout checks that every leg of a stake distribution pays out the
// same amount within PayoutTolerance, and returns the highest leg payout.
// A length mismatch between stakes and outcomes fails soft with (false, 0).
func VerifyPayout(stakes []float64, outcomes []Outcome) (bool, float64) {
	return VerifyPayoutWithin(stakes, outcomes, PayoutTolerance)
}

// VerifyPayoutWithin is VerifyPayout with a caller-chosen tolerance.
// Tolerance 0 demands exact payout equality, which only unrounded stakes
// satisfy.
func VerifyPayoutWithin(stakes []float64, outcomes []Outcome, tolerance float64) (bool, float64) {
	if len(stakes) != len(outcomes) || len(stakes) == 0 {
		return false, 0.0
	}

	minPayout := math.Inf(1)
	maxPayout := math.Inf(-1)
	for i, stake := range stakes {
		p := Payout(stake, outcomes[i].Odds)
		minPayout = math.Min(minPayout, p)
		maxPayout = math.Max(maxPayout, p)
	}

	return maxPayout-minPayout <= tolerance, maxPayout
}
