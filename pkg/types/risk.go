package types

type RiskTier string

const (
	TierLow      RiskTier = "LOW"
	TierMedium   RiskTier = "MEDIUM"
	TierHigh     RiskTier = "HIGH"
	TierCritical RiskTier = "CRITICAL"
)

type RiskAssessment struct {
	Tier                 RiskTier `json:"tier"`
	MagnitudePercent     float64  `json:"magnitude_percent"`
	AbsoluteDollarChange float64  `json:"absolute_dollar_change"`
	Confidence           float64  `json:"confidence"`
}

type AuthorityRole string

const (
	RoleAnalyst       AuthorityRole = "ANALYST"
	RoleSeniorAnalyst AuthorityRole = "SENIOR_ANALYST"
	RoleManager       AuthorityRole = "MANAGER"
	RoleDirector      AuthorityRole = "DIRECTOR"
)

// ValidatedRecommendation is the core's output for a single proposal: the
// clamped price, every adjustment made on the way, the financial projection
// with its sensitivity set, and the gate the change must pass through.
type ValidatedRecommendation struct {
	SKU               string                `json:"sku"`
	ProposedPrice     float64               `json:"proposed_price"`
	AdjustedPrice     float64               `json:"adjusted_price"`
	Violations        []GuardrailViolation  `json:"violations"`
	Impact            FinancialImpact       `json:"financial_impact"`
	Sensitivity       []SensitivityScenario `json:"sensitivity_scenarios"`
	Risk              RiskAssessment        `json:"risk_assessment"`
	RequiredAuthority AuthorityRole         `json:"required_authority"`
}
