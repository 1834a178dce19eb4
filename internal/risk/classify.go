// Package risk maps change magnitude and financial impact to a discrete
// severity tier and resolves the approval authority that tier demands.
package risk

import (
	"math"

	"github.com/pricewise/pricecore/internal/config"
	"github.com/pricewise/pricecore/pkg/types"
)

var tierOrder = []types.RiskTier{
	types.TierLow,
	types.TierMedium,
	types.TierHigh,
	types.TierCritical,
}

func tierRank(t types.RiskTier) int {
	for i, tier := range tierOrder {
		if tier == t {
			return i
		}
	}
	return len(tierOrder) - 1
}

func escalate(t types.RiskTier) types.RiskTier {
	rank := tierRank(t)
	if rank+1 >= len(tierOrder) {
		return types.TierCritical
	}
	return tierOrder[rank+1]
}

// Classify assigns a severity tier from the magnitude of the price change and
// its absolute dollar change. When the two dimensions disagree, the more
// conservative tier wins. A projected negative revenue impact escalates the
// result by exactly one level, capped at CRITICAL, so nothing that loses
// revenue is ever classified as freely auto-approvable.
func Classify(magnitudePercent, absoluteDollarChange, revenueDelta float64, cfg config.RiskConfig) types.RiskAssessment {
	magnitude := math.Abs(magnitudePercent)
	dollars := math.Abs(absoluteDollarChange)

	magTier := types.TierCritical
	for _, th := range cfg.Thresholds {
		if magnitude <= th.MaxMagnitudePercent {
			magTier = th.Tier
			break
		}
	}

	dollarTier := types.TierCritical
	for _, th := range cfg.Thresholds {
		if dollars <= th.MaxDollarChange {
			dollarTier = th.Tier
			break
		}
	}

	tier := magTier
	confidence := 0.95
	if magTier != dollarTier {
		confidence = 0.80
		if tierRank(dollarTier) > tierRank(magTier) {
			tier = dollarTier
		}
	}

	if revenueDelta < 0 {
		tier = escalate(tier)
	}

	return types.RiskAssessment{
		Tier:                 tier,
		MagnitudePercent:     magnitude,
		AbsoluteDollarChange: dollars,
		Confidence:           confidence,
	}
}
