// internal/search/search.go
//
// Fuzzy location search over the flattened page index.
//
// Context
// -------
// The search box on the static site sends free-text queries to /api/search.
// The index is small (one entry per published page), so ranking is a full
// scan: exact substring matches first, then close matches by edit distance.
package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Entry is one searchable page.
type Entry struct {
	Topic string `json:"topic"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// maxDistance is the edit-distance ceiling for a fuzzy hit.  Beyond three
// edits the match reads as noise rather than a typo.
const maxDistance = 3

type scored struct {
	entry Entry
	rank  int
}

// Rank orders entries by relevance to query and returns at most limit
// results.  A limit of zero or less means no cap.
func Rank(entries []Entry, query string, limit int) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var hits []scored
	for _, e := range entries {
		label := strings.ToLower(e.Label)
		switch {
		case label == q:
			hits = append(hits, scored{e, 0})
		case strings.HasPrefix(label, q):
			hits = append(hits, scored{e, 1})
		case strings.Contains(label, q):
			hits = append(hits, scored{e, 2})
		default:
			d := tokenDistance(label, q)
			if d <= maxDistance {
				hits = append(hits, scored{e, 3 + d})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return hits[i].entry.Label < hits[j].entry.Label
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Entry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}

// tokenDistance returns the smallest edit distance between the query and
// any single token of the label, so "torontto" still finds
// "Toronto, Ontario, Canada".
func tokenDistance(label, q string) int {
	best := maxDistance + 1
	for _, tok := range strings.FieldsFunc(label, func(r rune) bool {
		return r == ' ' || r == ','
	}) {
		if d := levenshtein.ComputeDistance(tok, q); d < best {
			best = d
		}
	}
	return best
}
