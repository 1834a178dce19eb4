package risk

import (
	"github.com/pricewise/pricecore/internal/config"
	"github.com/pricewise/pricecore/pkg/types"
)

// RequiredAuthority resolves the minimum role allowed to decide a request at
// the given tier. Unknown tiers resolve to the CRITICAL requirement.
func RequiredAuthority(tier types.RiskTier, cfg config.AuthorityConfig) types.AuthorityRole {
	if role, ok := cfg.Required[tier]; ok {
		return role
	}
	return cfg.Required[types.TierCritical]
}

// Rank returns the ordinal position of a role in the approval hierarchy.
// Unknown roles rank 0, below every configured role.
func Rank(role types.AuthorityRole, cfg config.AuthorityConfig) int {
	return cfg.Ranks[role]
}

// Outranks reports whether actor may decide work requiring the given
// authority: equal or higher rank suffices.
func Outranks(actor, required types.AuthorityRole, cfg config.AuthorityConfig) bool {
	return Rank(actor, cfg) >= Rank(required, cfg)
}
