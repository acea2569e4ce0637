package engine

import "github.com/fabworks/barcut/internal/model"

// EnumeratePatterns generates every feasible cutting pattern for the given
// items on a stock of usable length limit, charging kerf once per piece
// placed. A pattern with zero pieces is never produced, and the result is
// deterministic for identical inputs.
//
// The candidate space is Π(floor(limit/length_i)+1) over all items. The
// enumeration is intentionally exhaustive and has no internal guard; the
// caller is responsible for rejecting inputs whose candidate space is
// intractable. An empty result is a valid outcome, not an error.
func EnumeratePatterns(items []model.Item, limit, kerf int) []*model.Pattern {
	if len(items) == 0 {
		return nil
	}

	maxCounts := make([]int, len(items))
	for i, it := range items {
		maxCounts[i] = limit / it.Length
	}

	var patterns []*model.Pattern
	counts := make([]int, len(items))
	for {
		pieces, used := 0, 0
		for i, c := range counts {
			pieces += c
			used += c * items[i].Length
		}
		used += kerf * pieces
		if pieces > 0 && used <= limit {
			patterns = append(patterns, &model.Pattern{
				Counts:     append([]int(nil), counts...),
				Pieces:     pieces,
				UsedLength: used,
			})
		}

		// Odometer advance through the Cartesian product {0..m_i}.
		i := len(counts) - 1
		for i >= 0 {
			counts[i]++
			if counts[i] <= maxCounts[i] {
				break
			}
			counts[i] = 0
			i--
		}
		if i < 0 {
			return patterns
		}
	}
}

// PatternSpaceSize returns the Cartesian candidate count Π(m_i+1) a run
// would enumerate, so callers can refuse intractable inputs up front.
func PatternSpaceSize(items []model.Item, limit int) int {
	if len(items) == 0 {
		return 0
	}
	size := 1
	for _, it := range items {
		if it.Length <= 0 {
			return 0
		}
		size *= limit/it.Length + 1
	}
	return size
}
