package suppress

import "sort"

// claim is a half-open rune range [start, end) owned by an accepted
// candidate.
type claim struct {
	start, end int
}

// resolveOverlaps selects the subset of unprotected candidates whose
// occurrence ranges never intersect. Candidates are considered longest
// fragment first, then highest severity, so a long phrase beats the short
// phrases and runs embedded in it. Losers are not retried; the caller
// marks them skipped.
//
// The returned indices reference the input slice and preserve the greedy
// acceptance order. At most one rewrite will ever touch a given position.
func resolveOverlaps(patterns []Pattern) (accepted []int) {
	type ranked struct {
		idx    int
		length int
	}
	order := make([]ranked, 0, len(patterns))
	for i := range patterns {
		if patterns[i].Protection != ProtectionNone {
			continue
		}
		order = append(order, ranked{idx: i, length: patterns[i].runeLen()})
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := &patterns[order[a].idx], &patterns[order[b].idx]
		if order[a].length != order[b].length {
			return order[a].length > order[b].length
		}
		if pa.Severity != pb.Severity {
			return pa.Severity > pb.Severity
		}
		return pa.Occurrences[0] < pb.Occurrences[0]
	})

	var claimed []claim
	for _, r := range order {
		p := &patterns[r.idx]
		if selfOverlaps(p.Occurrences, r.length) || overlapsAny(claimed, p.Occurrences, r.length) {
			continue
		}
		for _, pos := range p.Occurrences {
			claimed = append(claimed, claim{start: pos, end: pos + r.length})
		}
		accepted = append(accepted, r.idx)
	}
	return accepted
}

// selfOverlaps reports whether two occurrence ranges of a single candidate
// intersect each other, which happens when the repeat period is shorter
// than the fragment. Occurrences are ascending.
func selfOverlaps(occurrences []int, length int) bool {
	for i := 1; i < len(occurrences); i++ {
		if occurrences[i] < occurrences[i-1]+length {
			return true
		}
	}
	return false
}

// overlapsAny reports whether any occurrence range [pos, pos+length)
// intersects an existing claim.
func overlapsAny(claimed []claim, occurrences []int, length int) bool {
	for _, pos := range occurrences {
		for _, c := range claimed {
			if pos < c.end && c.start < pos+length {
				return true
			}
		}
	}
	return false
}
