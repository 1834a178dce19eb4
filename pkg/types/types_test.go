package types

import "testing"

func TestCurrentMarginPercent(t *testing.T) {
	p := ProductRecord{CurrentPrice: 100, Cost: 60}
	if got := p.CurrentMarginPercent(); got != 40 {
		t.Fatalf("expected 40, got %v", got)
	}
	if got := (ProductRecord{CurrentPrice: 0, Cost: 60}).CurrentMarginPercent(); got != 0 {
		t.Fatalf("zero price must yield zero margin, got %v", got)
	}
}

func TestCompetitorMax(t *testing.T) {
	set := CompetitorPriceSet{Prices: []CompetitorPrice{
		{Source: "a", Price: 89.99},
		{Source: "b", Price: 94.99},
		{Source: "c", Price: 92.50},
	}}
	max, ok := set.Max()
	if !ok || max != 94.99 {
		t.Fatalf("expected 94.99, got %v ok=%v", max, ok)
	}

	if _, ok := (CompetitorPriceSet{}).Max(); ok {
		t.Fatalf("empty set must report no price")
	}
}

func TestVelocity(t *testing.T) {
	b := SalesBaseline{UnitsPerPeriod: 720, PeriodDays: 30}
	if got := b.Velocity(); got != 24 {
		t.Fatalf("expected 24, got %v", got)
	}
	if got := (SalesBaseline{UnitsPerPeriod: 10}).Velocity(); got != 0 {
		t.Fatalf("zero period must yield zero velocity, got %v", got)
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Fatalf("pending is not terminal")
	}
	if !StatusApproved.Terminal() || !StatusRejected.Terminal() {
		t.Fatalf("approved and rejected are terminal")
	}
}
