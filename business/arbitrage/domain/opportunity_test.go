package domain

import (
	"math"
	"testing"
)

func TestBuildOpportunity(t *testing.T) {
	outcomes := threeWay(2.1, 3.6, 4.4)

	opp := BuildOpportunity("Ajax vs PSV", outcomes, 1000.0)
	if opp == nil {
		t.Fatal("BuildOpportunity() = nil, want opportunity")
	}

	if opp.ID == "" {
		t.Error("ID is empty")
	}
	if opp.EventName != "Ajax vs PSV" {
		t.Errorf("EventName = %q, want %q", opp.EventName, "Ajax vs PSV")
	}
	if opp.DetectedAt.IsZero() {
		t.Error("DetectedAt is zero")
	}

	if len(opp.Stakes) != len(opp.Outcomes) {
		t.Fatalf("len(Stakes) = %d, len(Outcomes) = %d, want equal",
			len(opp.Stakes), len(opp.Outcomes))
	}

	if opp.ArbitragePercentage >= 1.0 {
		t.Errorf("ArbitragePercentage = %v, want < 1.0", opp.ArbitragePercentage)
	}

	// TotalBankroll is the post-rounding invested sum, not the requested one.
	sum := 0.0
	for _, stake := range opp.Stakes {
		if stake != math.Round(stake) {
			t.Errorf("stake %v is not a whole currency unit", stake)
		}
		sum += stake
	}
	if opp.TotalBankroll != sum {
		t.Errorf("TotalBankroll = %v, want sum of stakes %v", opp.TotalBankroll, sum)
	}

	// Profit and ROI derive from the actual invested sum.
	wantProfit := GuaranteedProfit(sum, opp.ArbitragePercentage)
	if math.Abs(opp.GuaranteedProfit-wantProfit) > 1e-9 {
		t.Errorf("GuaranteedProfit = %v, want %v", opp.GuaranteedProfit, wantProfit)
	}
	wantROI := ROI(wantProfit, sum)
	if math.Abs(opp.ROI-wantROI) > 1e-9 {
		t.Errorf("ROI = %v, want %v", opp.ROI, wantROI)
	}

	wantMargin := (1.0 - opp.ArbitragePercentage) * 100.0
	if math.Abs(opp.ProfitMargin-wantMargin) > 1e-9 {
		t.Errorf("ProfitMargin = %v, want %v", opp.ProfitMargin, wantMargin)
	}

	// The computed stakes stay payout-equal within tolerance.
	if ok, _ := VerifyPayout(opp.Stakes, opp.Outcomes); !ok {
		t.Error("VerifyPayout() = false for built opportunity")
	}
}

func TestBuildOpportunity_NoArbitrage(t *testing.T) {
	outcomes := threeWay(2.0, 3.0, 3.5)

	if opp := BuildOpportunity("Feyenoord vs AZ", outcomes, 1000.0); opp != nil {
		t.Errorf("BuildOpportunity() = %+v, want nil for non-arbitrage odds", opp)
	}
}

func TestBuildOpportunity_InvalidOdds(t *testing.T) {
	outcomes := []Outcome{
		{Bookmaker: "TOTO", Odds: 0.0, Market: MarketHomeWin},
		{Bookmaker: "Bet365", Odds: 3.6, Market: MarketDraw},
		{Bookmaker: "Unibet", Odds: 4.4, Market: MarketAwayWin},
	}

	if opp := BuildOpportunity("Ajax vs PSV", outcomes, 1000.0); opp != nil {
		t.Errorf("BuildOpportunity() = %+v, want nil for invalid odds", opp)
	}
}

func TestBuildOpportunity_UniqueIDs(t *testing.T) {
	outcomes := threeWay(2.1, 3.6, 4.4)

	a := BuildOpportunity("Ajax vs PSV", outcomes, 1000.0)
	b := BuildOpportunity("Ajax vs PSV", outcomes, 1000.0)
	if a == nil || b == nil {
		t.Fatal("BuildOpportunity() = nil, want opportunity")
	}
	if a.ID == b.ID {
		t.Errorf("two opportunities share ID %q", a.ID)
	}
}
