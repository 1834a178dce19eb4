package types

// ProductRecord holds the immutable per-SKU facts a validation pass reads.
// It is supplied by an external catalog provider and never mutated here.
type ProductRecord struct {
	SKU                 string   `json:"sku"`
	Name                string   `json:"name,omitempty"`
	Category            string   `json:"category,omitempty"`
	Brand               string   `json:"brand,omitempty"`
	CurrentPrice        float64  `json:"current_price"`
	Cost                float64  `json:"cost"`
	Stock               int      `json:"stock"`
	TargetMarginPercent float64  `json:"target_margin_percent"`
	Elasticity          *float64 `json:"elasticity,omitempty"`
}

// CurrentMarginPercent is (price - cost) / price expressed as a percentage.
// Returns 0 when the current price is not positive.
func (p ProductRecord) CurrentMarginPercent() float64 {
	if p.CurrentPrice <= 0 {
		return 0
	}
	return (p.CurrentPrice - p.Cost) / p.CurrentPrice * 100
}

type CompetitorPrice struct {
	Source          string  `json:"source"`
	Price           float64 `json:"price"`
	MatchConfidence float64 `json:"match_confidence,omitempty"`
}

type CompetitorPriceSet struct {
	SKU    string            `json:"sku"`
	Prices []CompetitorPrice `json:"prices"`
}

// Max returns the highest competitor price and whether any price is present.
func (c CompetitorPriceSet) Max() (float64, bool) {
	if len(c.Prices) == 0 {
		return 0, false
	}
	max := c.Prices[0].Price
	for _, p := range c.Prices[1:] {
		if p.Price > max {
			max = p.Price
		}
	}
	return max, true
}

// SalesBaseline is the historical sales metric used to seed demand projections.
type SalesBaseline struct {
	SKU            string  `json:"sku"`
	UnitsPerPeriod float64 `json:"units_per_period"`
	PeriodDays     int     `json:"period_days"`
}

// Velocity is units sold per day over the baseline period.
func (b SalesBaseline) Velocity() float64 {
	if b.PeriodDays <= 0 {
		return 0
	}
	return b.UnitsPerPeriod / float64(b.PeriodDays)
}
