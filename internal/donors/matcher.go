package donors

import (
	"fmt"
	"strings"
)

// NameMatcher maps a donor name to the key contributions are grouped under.
type NameMatcher func(name string) string

// ExactMatch groups only identical spellings. "Apple Inc" and "Apple Inc."
// stay separate donors.
func ExactMatch(name string) string {
	return name
}

// FoldedMatch ignores case, repeated whitespace and trailing punctuation.
func FoldedMatch(name string) string {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	return strings.TrimRight(key, ".,;:")
}

// MatcherByName resolves a configured matching strategy.
func MatcherByName(name string) (NameMatcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "exact":
		return ExactMatch, nil
	case "folded":
		return FoldedMatch, nil
	}
	return nil, fmt.Errorf("donors: unknown name matching %q", name)
}
