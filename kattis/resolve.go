package kattis

import (
	"sort"

	"github.com/antzucaro/matchr"
)

// Resolve maps user input to a canonical code of the given code->name
// mapping. Exact codes pass through, exact display names are reverse-mapped,
// and anything else is fuzzy-matched over both codes and names. Candidates
// are scored by full-string similarity first and substring affinity as the
// tie-break; visiting them in sorted order and only replacing the best on a
// strictly higher score keeps the outcome deterministic across calls.
func Resolve(input string, mapping map[string]string) (string, error) {
	if _, ok := mapping[input]; ok {
		return input, nil
	}

	reverse := make(map[string]string, len(mapping))
	for code, name := range mapping {
		reverse[name] = code
	}
	if code, ok := reverse[input]; ok {
		return code, nil
	}

	candidates := make([]string, 0, len(mapping)*2)
	for code, name := range mapping {
		candidates = append(candidates, code, name)
	}
	sort.Strings(candidates)

	best := ""
	bestFull, bestPartial := -1.0, -1.0
	for _, cand := range candidates {
		full := matchr.JaroWinkler(input, cand, false)
		partial := matchr.SmithWaterman(input, cand)
		if full > bestFull || (full == bestFull && partial > bestPartial) {
			best, bestFull, bestPartial = cand, full, partial
		}
	}

	if _, ok := mapping[best]; ok {
		return best, nil
	}
	if code, ok := reverse[best]; ok {
		return code, nil
	}
	return "", &ResolveError{Input: input}
}
