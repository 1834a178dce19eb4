// Package simulate projects demand, revenue, and profit for a price change
// using a constant-elasticity demand model.
package simulate

import (
	"math"

	"github.com/pricewise/pricecore/internal/config"
	"github.com/pricewise/pricecore/pkg/types"
)

// ResolveElasticity picks the elasticity coefficient for a product: the
// per-product value when present, otherwise the configured default. Absent
// both, it fails; elasticity must never silently default to zero.
func ResolveElasticity(product types.ProductRecord, cfg config.SimulationConfig) (float64, error) {
	if product.Elasticity != nil {
		return *product.Elasticity, nil
	}
	if cfg.ElasticityDefault != nil {
		return *cfg.ElasticityDefault, nil
	}
	return 0, &config.ConfigurationError{Key: "simulation.elasticity_default"}
}

// Simulate computes the financial impact of moving from oldPrice to newPrice
// at the given baseline demand. Pure function of its inputs.
func Simulate(product types.ProductRecord, baselineDemand, oldPrice, newPrice, elasticity float64) types.FinancialImpact {
	changePercent := (newPrice - oldPrice) / oldPrice * 100
	demandChangePercent := elasticity * changePercent

	projectedDemand := math.Max(0, baselineDemand*(1+demandChangePercent/100))

	baselineRevenue := baselineDemand * oldPrice
	projectedRevenue := projectedDemand * newPrice
	projectedProfit := projectedDemand * (newPrice - product.Cost)
	baselineProfit := baselineDemand * (oldPrice - product.Cost)

	demandDelta := demandChangePercent
	if baselineDemand > 0 {
		demandDelta = (projectedDemand/baselineDemand - 1) * 100
	}

	return types.FinancialImpact{
		BaselineDemand:     baselineDemand,
		BaselineRevenue:    baselineRevenue,
		ProjectedDemand:    projectedDemand,
		ProjectedRevenue:   projectedRevenue,
		ProjectedProfit:    projectedProfit,
		DemandDeltaPercent: demandDelta,
		RevenueDelta:       projectedRevenue - baselineRevenue,
		ProfitDelta:        projectedProfit - baselineProfit,
		BreakEvenVolume:    breakEvenVolume(product, baselineDemand, oldPrice, newPrice, projectedDemand),
	}
}

// breakEvenVolume finds the demand level at the new price where the profit
// delta crosses zero, by linear interpolation between the baseline and
// projected operating points. Interpolation rather than a closed form so the
// same approach survives non-linear elasticity models.
func breakEvenVolume(product types.ProductRecord, baselineDemand, oldPrice, newPrice, projectedDemand float64) float64 {
	baselineProfit := baselineDemand * (oldPrice - product.Cost)

	deltaAt := func(demand float64) float64 {
		return demand*(newPrice-product.Cost) - baselineProfit
	}

	d0, d1 := baselineDemand, projectedDemand
	f0, f1 := deltaAt(d0), deltaAt(d1)

	if d1 == d0 || f1 == f0 {
		// Coincident or flat sample points. Fall back to the per-unit margin
		// through the baseline point; a zero margin never crosses zero.
		margin := newPrice - product.Cost
		if margin == 0 {
			if f0 == 0 {
				return d0
			}
			return 0
		}
		return math.Max(0, baselineProfit/margin)
	}

	breakEven := d0 - f0*(d1-d0)/(f1-f0)
	return math.Max(0, breakEven)
}
