package suppress

import (
	"sort"
	"unicode"

	"github.com/yomogi-ai/refrain/internal/suppress/kana"
)

// applyBlockers runs the pre-processing passes over raw text in order:
// n-gram dedup blocking, alphanumeric run pre-clamp, then the dynamic
// repeat-penalty filter. It returns the filtered text and the number of
// n-gram and latin-run blocks applied.
func (e *Engine) applyBlockers(runes []rune) (out []rune, ngramBlocks, latinBlocks int) {
	out = runes
	if e.cfg.EnableNgramBlocking {
		out, ngramBlocks = e.ngramBlock(out)
	}
	if e.cfg.EnableLatinRunBlocking {
		out, latinBlocks = latinRunBlock(out)
	}
	if e.cfg.EnableDRP {
		out = e.dynamicRepeatPenalty(out)
	}
	return out, ngramBlocks, latinBlocks
}

// ngramBlock removes verbatim copies of fixed-width windows. A window
// qualifies when it contains at least one Japanese script character and its
// exact text occurs more than once; every occurrence after the first is
// deleted. Cuts prefer a boundary adjacent to punctuation so the deletion
// does not split the following word.
func (e *Engine) ngramBlock(runes []rune) ([]rune, int) {
	size := e.cfg.NgramBlockSize
	if len(runes) < size*2 {
		return runes, 0
	}

	counts := make(map[string]int)
	for i := 0; i+size <= len(runes); i++ {
		window := runes[i : i+size]
		if !containsCJK(window) {
			continue
		}
		counts[string(window)]++
	}

	var repeated []string
	for window, n := range counts {
		if n > 1 {
			repeated = append(repeated, window)
		}
	}
	if len(repeated) == 0 {
		return runes, 0
	}
	// Deterministic processing order.
	sort.Strings(repeated)

	blocks := 0
	for _, window := range repeated {
		// Re-locate in the current text; earlier deletions may have moved
		// or destroyed recorded positions.
		positions := findOccurrences(runes, []rune(window))
		if len(positions) < 2 {
			continue
		}
		lastStart := len(runes)
		for i := len(positions) - 1; i >= 1; i-- {
			start, end := positions[i], positions[i]+size
			// Occurrences overlap when the repeat period is shorter than
			// the window; a position reaching into the previous cut has
			// already been removed from the text.
			if end > lastStart {
				continue
			}
			// Extend the cut to the next punctuation boundary when one is
			// within reach, so the remainder starts cleanly.
			if end < len(runes) && !kana.IsPunct(runes[end]) {
				for q := end + 1; q <= end+2 && q < len(runes); q++ {
					if kana.IsPunct(runes[q]) {
						end = q
						break
					}
				}
			}
			runes = append(runes[:start:start], runes[end:]...)
			lastStart = start
		}
		blocks++
	}
	return runes, blocks
}

// latinRunBlock collapses alphanumeric runs longer than 3 to two repeats
// of the first character, before structured analysis sees them. Runs are
// grouped after width folding, so ｗｗWW and ７７77 count as single runs.
func latinRunBlock(runes []rune) ([]rune, int) {
	out := make([]rune, 0, len(runes))
	blocks := 0
	for i := 0; i < len(runes); {
		class := alnumClass(runes[i])
		if class == 0 {
			out = append(out, runes[i])
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && alnumClass(runes[j]) == class {
			j++
		}
		if j-i > 3 {
			out = append(out, runes[i], runes[i])
			blocks++
		} else {
			out = append(out, runes[i:j]...)
		}
		i = j
	}
	return out, blocks
}

// alnumClass returns the width-folded, case-folded class rune for an
// alphanumeric rune, or 0 for anything else. The w and 7 emphasis classes
// deliberately merge case and width variants.
func alnumClass(r rune) rune {
	f := kana.FoldWidth(r)
	switch {
	case f >= 'a' && f <= 'z':
		return f
	case f >= 'A' && f <= 'Z':
		return unicode.ToLower(f)
	case f >= '0' && f <= '9':
		return f
	}
	return 0
}

// dynamicRepeatPenalty is the streaming character filter. Each character
// past the warm-up window is dropped when its local frequency f within the
// trailing window satisfies f ≥ drp_base − drp_alpha×f. Punctuation,
// sentence-final marks, and whitespace always pass through.
func (e *Engine) dynamicRepeatPenalty(runes []rune) []rune {
	window := e.cfg.DRPWindow
	if len(runes) <= window {
		return runes
	}
	out := make([]rune, 0, len(runes))
	for i, r := range runes {
		if i < window {
			out = append(out, r)
			continue
		}
		if kana.IsPunct(r) || r == '\n' || unicode.IsSpace(r) {
			out = append(out, r)
			continue
		}
		n := 0
		for _, w := range runes[i-window : i] {
			if w == r {
				n++
			}
		}
		f := float64(n) / float64(window)
		if f >= e.cfg.DRPBase-e.cfg.DRPAlpha*f {
			continue
		}
		out = append(out, r)
	}
	return out
}

// containsCJK reports whether the slice holds at least one Japanese
// script character.
func containsCJK(runes []rune) bool {
	for _, r := range runes {
		if kana.IsCJK(r) {
			return true
		}
	}
	return false
}

// findOccurrences returns the ascending rune offsets of every (possibly
// overlapping) occurrence of fragment in runes.
func findOccurrences(runes, fragment []rune) []int {
	if len(fragment) == 0 || len(fragment) > len(runes) {
		return nil
	}
	var positions []int
	for i := 0; i+len(fragment) <= len(runes); i++ {
		if matchAt(runes, fragment, i) {
			positions = append(positions, i)
		}
	}
	return positions
}

// matchAt reports whether fragment occurs in runes at offset i.
func matchAt(runes, fragment []rune, i int) bool {
	for k, fr := range fragment {
		if runes[i+k] != fr {
			return false
		}
	}
	return true
}
