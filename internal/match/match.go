// Package match decides whether a learner's submitted answers are an
// acceptable fuzzy match for a question's required answers.
package match

import (
	"github.com/agext/levenshtein"
)

// MatchOne reports whether a single submitted string matches a single
// expected string within the given tolerance. threshold is a leniency knob
// in [0,1]: 0 requires an exact match, 1 accepts nearly anything. Both
// strings must already be trimmed and lower-cased by the caller.
func MatchOne(submitted, expected string, threshold float64) bool {
	return levenshtein.Similarity(submitted, expected, nil) >= 1-threshold
}

// Match reports whether the submitted answers collectively satisfy the
// expected set: every expected string must be matched by at least one
// submitted string, order-independent. Extra submissions that match nothing
// do not cause failure. An empty submission set never satisfies anything.
func Match(submitted, expected []string, threshold float64) bool {
	if len(submitted) == 0 {
		return false
	}
	for _, exp := range expected {
		covered := false
		for _, sub := range submitted {
			if MatchOne(sub, exp, threshold) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}
