// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"sort"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// DefaultMaxShown is the card size used when no cap is configured.
const DefaultMaxShown = 10

// Rank sorts a copy of scored by score descending and keeps at most max
// records. Equal scores keep their feed order. A max of zero or less uses
// DefaultMaxShown.
func Rank(scored []types.ScoredRecord, max int) []types.ScoredRecord {
	if max <= 0 {
		max = DefaultMaxShown
	}
	out := make([]types.ScoredRecord, len(scored))
	copy(out, scored)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > max {
		out = out[:max]
	}
	return out
}
