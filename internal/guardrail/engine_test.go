package guardrail

import (
	"errors"
	"math"
	"testing"

	"github.com/pricewise/pricecore/internal/config"
	"github.com/pricewise/pricecore/pkg/types"
)

func testConfig() config.GuardrailConfig {
	return config.GuardrailConfig{
		MinAbsolutePrice:        0.50,
		MinMarginPercent:        10,
		MaxMarginPercent:        80,
		MaxChangePercent:        50,
		CompetitorCeilingFactor: 0.10,
	}
}

func TestValidateClampsToFloorsInOrder(t *testing.T) {
	product := types.ProductRecord{SKU: "SKU12345", CurrentPrice: 100, Cost: 60}
	proposal := types.PriceProposal{SKU: "SKU12345", ProposedPrice: 0.20}

	adjusted, violations, err := Validate(product, proposal, nil, testConfig())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if adjusted != 66.00 {
		t.Fatalf("expected adjusted 66.00, got %.2f", adjusted)
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	if violations[0].Rule != types.RuleMinAbsolutePrice {
		t.Fatalf("expected first violation %s, got %s", types.RuleMinAbsolutePrice, violations[0].Rule)
	}
	if violations[1].Rule != types.RuleBelowCostOrMargin {
		t.Fatalf("expected second violation %s, got %s", types.RuleBelowCostOrMargin, violations[1].Rule)
	}
	if violations[0].OriginalValue != 0.20 || violations[0].AdjustedValue != 0.50 {
		t.Fatalf("unexpected first clamp %v -> %v", violations[0].OriginalValue, violations[0].AdjustedValue)
	}
	if violations[1].OriginalValue != 0.50 || violations[1].AdjustedValue != 66.00 {
		t.Fatalf("unexpected second clamp %v -> %v", violations[1].OriginalValue, violations[1].AdjustedValue)
	}
	for _, v := range violations {
		if v.Severity != types.SeverityBlocking {
			t.Fatalf("floor violations must be blocking, got %s", v.Severity)
		}
	}
}

func TestValidateClampsMaxChange(t *testing.T) {
	product := types.ProductRecord{SKU: "SKU12345", CurrentPrice: 100, Cost: 40}
	proposal := types.PriceProposal{SKU: "SKU12345", ProposedPrice: 160}

	adjusted, violations, err := Validate(product, proposal, nil, testConfig())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if adjusted != 150.00 {
		t.Fatalf("expected adjusted 150.00, got %.2f", adjusted)
	}
	if len(violations) != 1 || violations[0].Rule != types.RuleExceedsMaxChange {
		t.Fatalf("expected single EXCEEDS_MAX_CHANGE violation, got %v", violations)
	}
}

func TestValidateMarginCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.MaxMarginPercent = 50

	// 10 cost at 30 price is a 66.7% margin; ceiling is 50% -> price 20.
	product := types.ProductRecord{SKU: "SKU1", CurrentPrice: 25, Cost: 10}
	proposal := types.PriceProposal{SKU: "SKU1", ProposedPrice: 30}

	adjusted, violations, err := Validate(product, proposal, nil, cfg)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if math.Abs(adjusted-20) > 1e-9 {
		t.Fatalf("expected adjusted 20, got %v", adjusted)
	}
	if len(violations) != 1 || violations[0].Rule != types.RuleMarginTooHigh {
		t.Fatalf("expected MARGIN_TOO_HIGH, got %v", violations)
	}
	if violations[0].Severity != types.SeverityWarning {
		t.Fatalf("margin ceiling must be a warning, got %s", violations[0].Severity)
	}
}

func TestValidateCompetitorCeiling(t *testing.T) {
	product := types.ProductRecord{SKU: "SKU12345", CurrentPrice: 100, Cost: 40}
	proposal := types.PriceProposal{SKU: "SKU12345", ProposedPrice: 140}
	competitors := &types.CompetitorPriceSet{
		SKU: "SKU12345",
		Prices: []types.CompetitorPrice{
			{Source: "amazon", Price: 89.99},
			{Source: "bestbuy", Price: 94.99},
		},
	}

	adjusted, violations, err := Validate(product, proposal, competitors, testConfig())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	// Ceiling is 94.99 * 1.10.
	want := 94.99 * 1.10
	if math.Abs(adjusted-want) > 1e-9 {
		t.Fatalf("expected adjusted %.4f, got %.4f", want, adjusted)
	}
	last := violations[len(violations)-1]
	if last.Rule != types.RuleAboveCompetitorCeiling || last.Severity != types.SeverityWarning {
		t.Fatalf("expected ABOVE_COMPETITOR_CEILING warning, got %v", last)
	}
}

func TestValidateNoCompetitorDataSkipsCeiling(t *testing.T) {
	product := types.ProductRecord{SKU: "SKU1", CurrentPrice: 100, Cost: 40}
	proposal := types.PriceProposal{SKU: "SKU1", ProposedPrice: 140}

	_, violations, err := Validate(product, proposal, nil, testConfig())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, v := range violations {
		if v.Rule == types.RuleAboveCompetitorCeiling {
			t.Fatalf("competitor ceiling must not fire without competitor data")
		}
	}
}

func TestValidateCorruptProduct(t *testing.T) {
	cases := []struct {
		name    string
		product types.ProductRecord
	}{
		{"zero current price", types.ProductRecord{SKU: "SKU1", CurrentPrice: 0, Cost: 10}},
		{"negative current price", types.ProductRecord{SKU: "SKU1", CurrentPrice: -5, Cost: 10}},
		{"negative cost", types.ProductRecord{SKU: "SKU1", CurrentPrice: 10, Cost: -1}},
	}

	for _, tc := range cases {
		proposal := types.PriceProposal{SKU: "SKU1", ProposedPrice: 12}
		_, violations, err := Validate(tc.product, proposal, nil, testConfig())
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if violations != nil {
			t.Fatalf("%s: fatal error must not emit violations", tc.name)
		}
	}
}

func TestValidateNegativeProposalClamps(t *testing.T) {
	product := types.ProductRecord{SKU: "SKU1", CurrentPrice: 100, Cost: 60}
	proposal := types.PriceProposal{SKU: "SKU1", ProposedPrice: -10}

	adjusted, violations, err := Validate(product, proposal, nil, testConfig())
	if err != nil {
		t.Fatalf("a negative proposal is clamped, not rejected: %v", err)
	}
	if adjusted != 66.00 {
		t.Fatalf("expected adjusted 66.00, got %.2f", adjusted)
	}
	if len(violations) == 0 {
		t.Fatalf("expected violations for negative proposal")
	}
}

func TestValidateIdempotent(t *testing.T) {
	cfg := testConfig()
	products := []types.ProductRecord{
		{SKU: "a", CurrentPrice: 100, Cost: 60},
		{SKU: "b", CurrentPrice: 25, Cost: 10},
		{SKU: "c", CurrentPrice: 3, Cost: 0},
	}
	prices := []float64{-5, 0, 0.2, 1, 50, 99.99, 160, 1000}

	for _, product := range products {
		for _, price := range prices {
			first, _, err := Validate(product, types.PriceProposal{SKU: product.SKU, ProposedPrice: price}, nil, cfg)
			if err != nil {
				t.Fatalf("first pass: %v", err)
			}
			second, violations, err := Validate(product, types.PriceProposal{SKU: product.SKU, ProposedPrice: first}, nil, cfg)
			if err != nil {
				t.Fatalf("second pass: %v", err)
			}
			if second != first {
				t.Fatalf("product %s price %v: second pass moved %v -> %v", product.SKU, price, first, second)
			}
			if len(violations) != 0 {
				t.Fatalf("product %s price %v: second pass emitted %d violations", product.SKU, price, len(violations))
			}
		}
	}
}
