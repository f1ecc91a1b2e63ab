// Package guard post-filters vector-similarity results with a lexical
// sanity check.
//
// Vector similarity alone is noisy for a small catalog and short queries:
// a near-miss item can rank above the product the user actually named. The
// guard extracts at most one controlled keyword from the query and rejects
// candidates that never mention it, promoting name matches over
// description-only matches.
package guard

import (
	"strings"

	"github.com/neusearch/neusearch/internal/catalog"
)

// Guard validates and re-ranks retrieval candidates against a controlled
// keyword vocabulary.
type Guard struct {
	keywords []string
}

// New creates a Guard with the vocabulary in priority order.
func New(keywords []string) *Guard {
	return &Guard{keywords: keywords}
}

// ExtractKeyword returns the first vocabulary entry, in priority order,
// appearing as a substring of the lower-cased query; empty when none does.
func (g *Guard) ExtractKeyword(query string) string {
	q := strings.ToLower(query)
	for _, keyword := range g.keywords {
		if strings.Contains(q, keyword) {
			return keyword
		}
	}
	return ""
}

// Validate filters and re-ranks candidates.
//
// Without a keyword in the query the guard is a no-op and the vector
// ranking is trusted as-is. With a keyword, only candidates whose
// name+description mentions it survive; candidates with the keyword in the
// name come first, then description-only matches, each tier keeping the
// incoming similarity order. An empty result means "no products", not an
// error.
func (g *Guard) Validate(query string, candidates []catalog.Candidate) []catalog.Candidate {
	keyword := g.ExtractKeyword(query)
	if keyword == "" {
		return candidates
	}

	var nameMatches, descMatches []catalog.Candidate
	for _, c := range candidates {
		nameDesc := strings.ToLower(c.Item.Name + " " + c.Item.Description)
		if !strings.Contains(nameDesc, keyword) {
			continue
		}
		if strings.Contains(strings.ToLower(c.Item.Name), keyword) {
			nameMatches = append(nameMatches, c)
		} else {
			descMatches = append(descMatches, c)
		}
	}

	return append(nameMatches, descMatches...)
}
