// Package screen pre-screens free-text proposal notes for intent that should
// never reach the guardrail chain, such as attempts to zero out a price. The
// pipeline consumes only the boolean result, never the mechanism, so the
// screening strategy can be swapped without touching validation.
package screen

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

type Result struct {
	Allowed bool
	Reason  string
	Matched string
}

type Screener interface {
	Screen(text string) Result
}

// NoOp allows everything. The default when screening is not configured.
type NoOp struct{}

func (NoOp) Screen(string) Result {
	return Result{Allowed: true}
}

// normalize lowercases and NFKC-folds text so homoglyph and width tricks do
// not slip past pattern checks.
func normalize(text string) string {
	return strings.ToLower(norm.NFKC.String(text))
}

// fraudPatterns are phrasings that signal an attempt to zero out or give away
// a product rather than reprice it.
var fraudPatterns = []string{
	"price to 0",
	"price to zero",
	"set price to 0",
	"set price to zero",
	"price at 0",
	"price at zero",
	"make free",
	"make it free",
	"give away",
	"no cost",
	"zero cost",
	"free of charge",
}
