package store

import (
	"strings"

	"github.com/FAU-CDI/ntparse/pkg/ntriples"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Stats holds statistics about a [Store].
type Stats struct {
	Triples    int `json:"triples"`    // distinct triples
	Duplicates int `json:"duplicates"` // triples received more than once

	Terms      int `json:"terms"` // distinct terms
	References int `json:"references"`
	BlankNodes int `json:"blankNodes"`
	Literals   int `json:"literals"`

	// Predicates holds the number of distinct triples per predicate
	Predicates map[ntriples.Reference]int `json:"predicates"`
}

// TopPredicates returns the n predicates used by the most triples, most used first.
// Ties are broken by the predicate itself.
// A negative n returns all predicates.
func (stats Stats) TopPredicates(n int) []ntriples.Reference {
	predicates := maps.Keys(stats.Predicates)
	slices.SortFunc(predicates, func(a, b ntriples.Reference) int {
		if diff := stats.Predicates[b] - stats.Predicates[a]; diff != 0 {
			return diff
		}
		return strings.Compare(string(a), string(b))
	})

	if n >= 0 && n < len(predicates) {
		predicates = predicates[:n]
	}
	return predicates
}
