package screen

import "strings"

// RuleBased flags text containing any configured fraud pattern as a
// substring. Fast, deterministic, zero false negatives on exact phrasings.
type RuleBased struct {
	Patterns []string
}

func NewRuleBased() *RuleBased {
	return &RuleBased{Patterns: fraudPatterns}
}

func (s *RuleBased) Screen(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Allowed: true}
	}
	normalized := normalize(text)
	for _, pattern := range s.Patterns {
		if strings.Contains(normalized, pattern) {
			return Result{
				Allowed: false,
				Reason:  "matched fraud pattern",
				Matched: pattern,
			}
		}
	}
	return Result{Allowed: true}
}
