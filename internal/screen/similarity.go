package screen

import "strings"

// Similarity flags text whose token set overlaps a fraud phrase beyond a
// Jaccard threshold. Catches reworded variants the substring check misses.
type Similarity struct {
	Corpus    []string
	Threshold float64
}

func NewSimilarity(threshold float64) *Similarity {
	return &Similarity{Corpus: fraudPatterns, Threshold: threshold}
}

func (s *Similarity) Screen(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Allowed: true}
	}
	tokens := tokenSet(normalize(text))
	if len(tokens) == 0 {
		return Result{Allowed: true}
	}

	best := 0.0
	bestPhrase := ""
	for _, phrase := range s.Corpus {
		score := jaccard(tokens, tokenSet(phrase))
		if score > best {
			best = score
			bestPhrase = phrase
		}
	}

	if best >= s.Threshold {
		return Result{
			Allowed: false,
			Reason:  "similar to fraud pattern",
			Matched: bestPhrase,
		}
	}
	return Result{Allowed: true}
}

func tokenSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, tok := range strings.Fields(text) {
		set[tok] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
