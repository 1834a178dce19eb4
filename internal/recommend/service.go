// Package recommend composes the decision core: pre-screening, guardrail
// validation, financial simulation, and risk classification. Evaluate is a
// pure function of its inputs; nothing here touches the ledger.
package recommend

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/pricewise/pricecore/internal/config"
	"github.com/pricewise/pricecore/internal/guardrail"
	"github.com/pricewise/pricecore/internal/risk"
	"github.com/pricewise/pricecore/internal/screen"
	"github.com/pricewise/pricecore/internal/simulate"
	"github.com/pricewise/pricecore/internal/telemetry"
	"github.com/pricewise/pricecore/pkg/types"
)

type Service struct {
	cfg      config.Config
	screener screen.Screener
	log      zerolog.Logger
}

type Option func(*Service)

func WithScreener(s screen.Screener) Option {
	return func(svc *Service) { svc.screener = s }
}

func WithLogger(log zerolog.Logger) Option {
	return func(svc *Service) { svc.log = log }
}

func NewService(cfg config.Config, opts ...Option) *Service {
	svc := &Service{
		cfg:      cfg,
		screener: screen.NoOp{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Evaluate validates a proposal end to end and returns the recommendation
// ready for approval routing. Fatal errors (corrupt input, missing
// configuration, screened-out intent) abort before any side effect; business
// clamps never do.
func (s *Service) Evaluate(product types.ProductRecord, proposal types.PriceProposal, competitors *types.CompetitorPriceSet, baseline types.SalesBaseline) (types.ValidatedRecommendation, error) {
	if proposal.SKU != product.SKU {
		return types.ValidatedRecommendation{}, &guardrail.ValidationError{
			Field:  "proposal.sku",
			Reason: "does not match product record",
		}
	}

	if result := s.screener.Screen(proposal.Notes); !result.Allowed {
		return types.ValidatedRecommendation{}, &guardrail.ValidationError{
			Field:  "proposal.notes",
			Reason: result.Reason,
		}
	}

	adjusted, violations, err := guardrail.Validate(product, proposal, competitors, s.cfg.Guardrails)
	if err != nil {
		return types.ValidatedRecommendation{}, err
	}
	for _, v := range violations {
		telemetry.GuardrailClampsTotal.WithLabelValues(string(v.Rule)).Inc()
	}

	elasticity, err := simulate.ResolveElasticity(product, s.cfg.Simulation)
	if err != nil {
		return types.ValidatedRecommendation{}, err
	}

	baselineDemand := baseline.Velocity()
	impact := simulate.Simulate(product, baselineDemand, product.CurrentPrice, adjusted, elasticity)
	scenarios := simulate.Scenarios(product, baselineDemand, product.CurrentPrice, adjusted, elasticity)

	magnitude := math.Abs(adjusted-product.CurrentPrice) / product.CurrentPrice * 100
	dollarChange := math.Abs(adjusted - product.CurrentPrice)
	assessment := risk.Classify(magnitude, dollarChange, impact.RevenueDelta, s.cfg.Risk)
	authority := risk.RequiredAuthority(assessment.Tier, s.cfg.Authority)

	telemetry.RecommendationsTotal.WithLabelValues(string(assessment.Tier)).Inc()
	s.log.Debug().
		Str("sku", product.SKU).
		Float64("proposed", proposal.ProposedPrice).
		Float64("adjusted", adjusted).
		Int("violations", len(violations)).
		Str("tier", string(assessment.Tier)).
		Msg("proposal evaluated")

	return types.ValidatedRecommendation{
		SKU:               product.SKU,
		ProposedPrice:     proposal.ProposedPrice,
		AdjustedPrice:     adjusted,
		Violations:        violations,
		Impact:            impact,
		Sensitivity:       scenarios,
		Risk:              assessment,
		RequiredAuthority: authority,
	}, nil
}
