package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pricewise/pricecore/pkg/types"
)

type Config struct {
	Guardrails GuardrailConfig  `yaml:"guardrails"`
	Simulation SimulationConfig `yaml:"simulation"`
	Risk       RiskConfig       `yaml:"risk"`
	Authority  AuthorityConfig  `yaml:"authority"`
	Workflow   WorkflowConfig   `yaml:"workflow"`
	DB         DBConfig         `yaml:"db"`
}

type GuardrailConfig struct {
	MinAbsolutePrice        float64 `yaml:"min_absolute_price"`
	MinMarginPercent        float64 `yaml:"min_margin_percent"`
	MaxMarginPercent        float64 `yaml:"max_margin_percent"`
	MaxChangePercent        float64 `yaml:"max_change_percent"`
	CompetitorCeilingFactor float64 `yaml:"competitor_ceiling_factor"`
}

type SimulationConfig struct {
	// ElasticityDefault applies when a product carries no elasticity of its
	// own. nil means "no default": simulation then fails rather than silently
	// assuming zero.
	ElasticityDefault *float64 `yaml:"elasticity_default"`
}

type RiskConfig struct {
	// Thresholds are ordered least to most severe. A proposal lands in the
	// first tier whose limits it satisfies; anything beyond the last entry is
	// CRITICAL.
	Thresholds []RiskThreshold `yaml:"thresholds"`
}

type RiskThreshold struct {
	Tier                types.RiskTier `yaml:"tier"`
	MaxMagnitudePercent float64        `yaml:"max_magnitude_percent"`
	MaxDollarChange     float64        `yaml:"max_dollar_change"`
}

type AuthorityConfig struct {
	Ranks    map[types.AuthorityRole]int            `yaml:"ranks"`
	Required map[types.RiskTier]types.AuthorityRole `yaml:"required"`
}

type WorkflowConfig struct {
	AutoApproveLow bool   `yaml:"auto_approve_low"`
	SystemActor    string `yaml:"system_actor"`
}

type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Default returns the documented default policy. Every value here is a
// starting point, not a constant: operators override any of it via Load.
func Default() Config {
	elasticity := -1.5
	return Config{
		Guardrails: GuardrailConfig{
			MinAbsolutePrice:        0.50,
			MinMarginPercent:        10,
			MaxMarginPercent:        80,
			MaxChangePercent:        50,
			CompetitorCeilingFactor: 0.10,
		},
		Simulation: SimulationConfig{ElasticityDefault: &elasticity},
		Risk: RiskConfig{
			Thresholds: []RiskThreshold{
				{Tier: types.TierLow, MaxMagnitudePercent: 10, MaxDollarChange: 50},
				{Tier: types.TierMedium, MaxMagnitudePercent: 25, MaxDollarChange: 150},
				{Tier: types.TierHigh, MaxMagnitudePercent: 40, MaxDollarChange: 500},
			},
		},
		Authority: AuthorityConfig{
			Ranks: map[types.AuthorityRole]int{
				types.RoleAnalyst:       1,
				types.RoleSeniorAnalyst: 2,
				types.RoleManager:       3,
				types.RoleDirector:      4,
			},
			Required: map[types.RiskTier]types.AuthorityRole{
				types.TierLow:      types.RoleAnalyst,
				types.TierMedium:   types.RoleSeniorAnalyst,
				types.TierHigh:     types.RoleManager,
				types.TierCritical: types.RoleDirector,
			},
		},
		Workflow: WorkflowConfig{SystemActor: "pricecore"},
	}
}

// Load reads a YAML config file, expands ${ENV} references, overlays it on
// the defaults, and validates the result.
func Load(path string) (Config, error) {
	// #nosec G304 -- path is operator-provided config path.
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	expanded := os.ExpandEnv(string(raw))
	expanded = strings.ReplaceAll(expanded, "\r\n", "\n")

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Guardrails.MinAbsolutePrice < 0 {
		return fmt.Errorf("guardrails.min_absolute_price must be >= 0")
	}
	if c.Guardrails.MinMarginPercent < 0 || c.Guardrails.MinMarginPercent > 100 {
		return fmt.Errorf("guardrails.min_margin_percent must be in [0,100]")
	}
	if c.Guardrails.MaxMarginPercent <= c.Guardrails.MinMarginPercent {
		return fmt.Errorf("guardrails.max_margin_percent must exceed min_margin_percent")
	}
	if c.Guardrails.MaxMarginPercent >= 100 {
		return fmt.Errorf("guardrails.max_margin_percent must be < 100")
	}
	if c.Guardrails.MaxChangePercent <= 0 {
		return fmt.Errorf("guardrails.max_change_percent must be > 0")
	}
	if c.Guardrails.CompetitorCeilingFactor < 0 {
		return fmt.Errorf("guardrails.competitor_ceiling_factor must be >= 0")
	}

	if len(c.Risk.Thresholds) == 0 {
		return fmt.Errorf("risk.thresholds must not be empty")
	}
	if !sort.SliceIsSorted(c.Risk.Thresholds, func(i, j int) bool {
		return c.Risk.Thresholds[i].MaxMagnitudePercent < c.Risk.Thresholds[j].MaxMagnitudePercent
	}) {
		return fmt.Errorf("risk.thresholds must be ordered by ascending max_magnitude_percent")
	}
	if !sort.SliceIsSorted(c.Risk.Thresholds, func(i, j int) bool {
		return c.Risk.Thresholds[i].MaxDollarChange < c.Risk.Thresholds[j].MaxDollarChange
	}) {
		return fmt.Errorf("risk.thresholds must be ordered by ascending max_dollar_change")
	}
	for _, th := range c.Risk.Thresholds {
		if th.Tier == types.TierCritical {
			return fmt.Errorf("risk.thresholds must not list %s; it is the overflow tier", types.TierCritical)
		}
		if _, ok := c.Authority.Required[th.Tier]; !ok {
			return fmt.Errorf("authority.required is missing tier %s", th.Tier)
		}
	}
	if _, ok := c.Authority.Required[types.TierCritical]; !ok {
		return fmt.Errorf("authority.required is missing tier %s", types.TierCritical)
	}

	if len(c.Authority.Ranks) == 0 {
		return fmt.Errorf("authority.ranks must not be empty")
	}
	seen := map[int]types.AuthorityRole{}
	for role, rank := range c.Authority.Ranks {
		if rank <= 0 {
			return fmt.Errorf("authority.ranks[%s] must be > 0", role)
		}
		if other, dup := seen[rank]; dup {
			return fmt.Errorf("authority.ranks[%s] and authority.ranks[%s] share rank %d", role, other, rank)
		}
		seen[rank] = role
	}
	for tier, role := range c.Authority.Required {
		if _, ok := c.Authority.Ranks[role]; !ok {
			return fmt.Errorf("authority.required[%s] names unranked role %s", tier, role)
		}
	}

	if c.Workflow.AutoApproveLow && c.Workflow.SystemActor == "" {
		return fmt.Errorf("workflow.system_actor is required when workflow.auto_approve_low=true")
	}

	if c.DB.Driver != "" && c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required when db.driver is set")
	}

	return nil
}
