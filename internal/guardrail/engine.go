// Package guardrail clamps a proposed price into policy bounds. Rules apply
// in a fixed order, each operating on the output of the previous; the order
// is a policy decision and must be preserved exactly for reproducibility.
package guardrail

import (
	"math"

	"github.com/pricewise/pricecore/internal/config"
	"github.com/pricewise/pricecore/pkg/types"
)

// Validate runs the proposal through the guardrail chain and returns the
// adjusted price together with every clamp applied, in evaluation order.
//
// Downward clamps never move the price below the blocking floors established
// earlier in the chain, so the returned price satisfies all BLOCKING rules
// simultaneously and re-validating the output is a no-op.
func Validate(product types.ProductRecord, proposal types.PriceProposal, competitors *types.CompetitorPriceSet, cfg config.GuardrailConfig) (float64, []types.GuardrailViolation, error) {
	if product.CurrentPrice <= 0 {
		return 0, nil, &ValidationError{Field: "product.current_price", Reason: "must be > 0"}
	}
	if product.Cost < 0 {
		return 0, nil, &ValidationError{Field: "product.cost", Reason: "must be >= 0"}
	}
	if math.IsNaN(proposal.ProposedPrice) || math.IsInf(proposal.ProposedPrice, 0) {
		return 0, nil, &ValidationError{Field: "proposal.proposed_price", Reason: "must be a finite number"}
	}

	price := proposal.ProposedPrice
	var violations []types.GuardrailViolation

	record := func(rule types.ViolationRule, severity types.ViolationSeverity, from, to float64) {
		violations = append(violations, types.GuardrailViolation{
			Rule:          rule,
			Severity:      severity,
			OriginalValue: from,
			AdjustedValue: to,
		})
	}

	// Rule 1: absolute floor.
	if price < cfg.MinAbsolutePrice {
		record(types.RuleMinAbsolutePrice, types.SeverityBlocking, price, cfg.MinAbsolutePrice)
		price = cfg.MinAbsolutePrice
	}

	// Rule 2: cost/margin floor.
	costFloor := product.Cost * (1 + cfg.MinMarginPercent/100)
	if price < costFloor {
		record(types.RuleBelowCostOrMargin, types.SeverityBlocking, price, costFloor)
		price = costFloor
	}

	// Floor that later downward clamps must respect.
	blockingFloor := math.Max(cfg.MinAbsolutePrice, costFloor)

	// Rule 3: maximum relative change from the current price.
	maxDelta := cfg.MaxChangePercent / 100
	lowBound := product.CurrentPrice * (1 - maxDelta)
	highBound := product.CurrentPrice * (1 + maxDelta)
	switch {
	case price > highBound:
		target := math.Max(highBound, blockingFloor)
		if target < price {
			record(types.RuleExceedsMaxChange, types.SeverityBlocking, price, target)
			price = target
		}
	case price < lowBound:
		record(types.RuleExceedsMaxChange, types.SeverityBlocking, price, lowBound)
		price = lowBound
	}

	// The lower change bound is itself blocking once applied.
	blockingFloor = math.Max(blockingFloor, math.Min(lowBound, price))

	// Rule 4: margin ceiling. Margin is (price - cost) / price; a ceiling of
	// m% solves to price = cost / (1 - m/100). Meaningless at zero cost.
	if product.Cost > 0 && cfg.MaxMarginPercent > 0 && cfg.MaxMarginPercent < 100 {
		margin := (price - product.Cost) / price * 100
		if margin > cfg.MaxMarginPercent {
			target := math.Max(product.Cost/(1-cfg.MaxMarginPercent/100), blockingFloor)
			if target < price {
				record(types.RuleMarginTooHigh, types.SeverityWarning, price, target)
				price = target
			}
		}
	}

	// Rule 5: competitor ceiling, only when competitor data is supplied.
	if competitors != nil {
		if maxComp, ok := competitors.Max(); ok {
			ceiling := maxComp * (1 + cfg.CompetitorCeilingFactor)
			target := math.Max(ceiling, blockingFloor)
			if price > target {
				record(types.RuleAboveCompetitorCeiling, types.SeverityWarning, price, target)
				price = target
			}
		}
	}

	return price, violations, nil
}
