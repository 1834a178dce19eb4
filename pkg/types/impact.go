package types

type ViolationRule string

const (
	RuleMinAbsolutePrice       ViolationRule = "MIN_ABSOLUTE_PRICE"
	RuleBelowCostOrMargin      ViolationRule = "BELOW_COST_OR_MARGIN"
	RuleExceedsMaxChange       ViolationRule = "EXCEEDS_MAX_CHANGE"
	RuleMarginTooHigh          ViolationRule = "MARGIN_TOO_HIGH"
	RuleAboveCompetitorCeiling ViolationRule = "ABOVE_COMPETITOR_CEILING"
)

type ViolationSeverity string

const (
	SeverityWarning  ViolationSeverity = "WARNING"
	SeverityBlocking ViolationSeverity = "BLOCKING"
)

// GuardrailViolation records a single clamp applied by the guardrail engine.
// Violations are data, not errors: the pipeline proceeds with the adjusted
// value so every adjustment stays auditable. Slice order is rule evaluation
// order.
type GuardrailViolation struct {
	Rule          ViolationRule     `json:"rule_id"`
	Severity      ViolationSeverity `json:"severity"`
	OriginalValue float64           `json:"original_value"`
	AdjustedValue float64           `json:"adjusted_value"`
}

type FinancialImpact struct {
	BaselineDemand     float64 `json:"baseline_demand"`
	BaselineRevenue    float64 `json:"baseline_revenue"`
	ProjectedDemand    float64 `json:"projected_demand"`
	ProjectedRevenue   float64 `json:"projected_revenue"`
	ProjectedProfit    float64 `json:"projected_profit"`
	DemandDeltaPercent float64 `json:"demand_delta_percent"`
	RevenueDelta       float64 `json:"revenue_delta"`
	ProfitDelta        float64 `json:"profit_delta"`
	BreakEvenVolume    float64 `json:"break_even_volume"`
}

// SensitivityScenario is the projected impact at a fixed percentage offset
// from the adjusted price. Consumers receive the ordered sequence
// -10%, -5%, adjusted, +5%, +10%.
type SensitivityScenario struct {
	OffsetPercent float64         `json:"offset_percent"`
	Price         float64         `json:"price"`
	Impact        FinancialImpact `json:"impact"`
}
