package domain

// GroupByMarket groups outcomes from any number of sources by market label.
// Grouping is by label equality only; within each group, outcomes keep their
// arrival order so that later selection is deterministic.
func GroupByMarket(outcomes []Outcome) map[Market][]Outcome {
	groups := make(map[Market][]Outcome)
	for _, o := range outcomes {
		groups[o.Market] = append(groups[o.Market], o)
	}
	return groups
}

// BestPerMarket selects the outcome with the highest odds from a market
// group. Ties break first-seen-wins: which of two equally priced bookmakers
// is chosen is not semantically significant, but it must be deterministic.
// Returns false for an empty group.
func BestPerMarket(group []Outcome) (Outcome, bool) {
	if len(group) == 0 {
		return Outcome{}, false
	}

	best := group[0]
	for _, o := range group[1:] {
		if o.Odds > best.Odds {
			best = o
		}
	}
	return best, true
}

// SelectThreeWay reduces raw outcomes from N sources to the single
// best-outcome-per-market set the engine requires: exactly one outcome per
// canonical market, in canonical order.
//
// Extraneous market labels (e.g. "Draw No Bet") are filtered out BEFORE
// detection so they never enter the calculation. If any canonical market has
// no outcomes at all, the event cannot be covered and false is returned.
func SelectThreeWay(outcomes []Outcome) ([]Outcome, bool) {
	groups := GroupByMarket(outcomes)

	selected := make([]Outcome, 0, len(CanonicalMarkets))
	for _, market := range CanonicalMarkets {
		best, ok := BestPerMarket(groups[market])
		if !ok {
			return nil, false
		}
		selected = append(selected, best)
	}

	return selected, true
}
