package suppress

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/yomogi-ai/refrain/internal/suppress/kana"
)

// rewriteAll processes the accepted candidates in severity-descending
// order, mutating the working text and assigning each pattern's outcome.
// A rewrite that changes nothing is a miss; a change that trips the
// over-compression guard is recorded but kept.
func (e *Engine) rewriteAll(runes []rune, patterns []Pattern, accepted []int) []rune {
	sort.SliceStable(accepted, func(a, b int) bool {
		pa, pb := &patterns[accepted[a]], &patterns[accepted[b]]
		if pa.Severity != pb.Severity {
			return pa.Severity > pb.Severity
		}
		return pa.runeLen() > pb.runeLen()
	})

	for _, idx := range accepted {
		p := &patterns[idx]
		before := runes
		runes = e.rewritePattern(runes, p)
		switch {
		case equalRunes(before, runes):
			p.Outcome = OutcomeMissed
		case e.overCompressed(before, runes):
			p.Outcome = OutcomeOverCompressed
		default:
			p.Outcome = OutcomeSuppressed
		}
	}
	return runes
}

// rewritePattern dispatches on the pattern kind. Phonetic and lemma
// groups are detect-only: they carry no rewrite rule and always come back
// unchanged, surfacing as detection misses.
func (e *Engine) rewritePattern(runes []rune, p *Pattern) []rune {
	switch p.Kind {
	case KindExactPhrase, KindWord:
		return e.substituteOccurrences(runes, p)
	case KindCharacterRun:
		return e.collapseCharacterRun(runes, p)
	case KindAlphanumericRun:
		return collapseAlnumRuns(runes, p)
	case KindInterjection:
		return rewriteInterjection(runes, p)
	case KindPhonetic, KindLemmaForm:
		return runes
	}
	panic(fmt.Sprintf("suppress: unhandled pattern kind %v", p.Kind))
}

// substituteOccurrences keeps the first occurrence of the fragment and
// replaces every later one from the alternatives table, cycling when
// occurrences outnumber alternatives. With no alternative available the
// occurrence is deleted. Occurrences are re-located against the current
// text and processed highest offset first so earlier offsets stay valid.
func (e *Engine) substituteOccurrences(runes []rune, p *Pattern) []rune {
	fragment := []rune(p.Text)
	positions := findOccurrences(runes, fragment)
	if len(positions) < 2 {
		return runes
	}
	alts := e.alts.Lookup(p.Text)

	lastStart := len(runes)
	for i := len(positions) - 1; i >= 1; i-- {
		start, end := positions[i], positions[i]+len(fragment)
		// Periodic fragments match at offsets closer together than their
		// own length; a position reaching into the previous edit is gone.
		if end > lastStart {
			continue
		}
		if len(alts) == 0 {
			runes = splice(runes, start, end, nil)
		} else {
			runes = splice(runes, start, end, []rune(alts[(i-1)%len(alts)]))
		}
		lastStart = start
	}
	return runes
}

// collapseCharacterRun clamps consecutive repeats of the pattern's
// character: kana to the configured limit, emphasis punctuation to 2,
// elongation and ellipsis marks to 3. Other characters are left alone.
func (e *Engine) collapseCharacterRun(runes []rune, p *Pattern) []rune {
	ch := []rune(p.Text)[0]
	var limit int
	switch {
	case kana.IsElongation(ch):
		limit = 3
	case kana.IsEmphasis(ch):
		limit = 2
	case kana.IsScript(ch):
		limit = e.cfg.CharacterRepetitionLimit
	default:
		return runes
	}
	return clampRuns(runes, func(r rune) bool { return r == ch }, limit)
}

// collapseAlnumRuns shortens every run of the pattern's alphanumeric
// class longer than 3 to exactly two repeats of the run's first character.
func collapseAlnumRuns(runes []rune, p *Pattern) []rune {
	class := alnumClass([]rune(p.Text)[0])
	if class == 0 {
		return runes
	}
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); {
		if alnumClass(runes[i]) != class {
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
		} else {
			out = append(out, runes[i:j]...)
		}
		i = j
	}
	return out
}

// rewriteInterjection keeps the first two qualifying runs of the
// interjection unit; the third and later alternate between deletion and
// collapsing to a two-character abbreviation. Runs are re-located in the
// current text and edited highest offset first.
func rewriteInterjection(runes []rune, p *Pattern) []rune {
	unit := []rune(p.NormalizedForm)[0]
	minRun := 3
	if kana.IsEmphasis(unit) {
		minRun = 2
	}
	matches := findRuns(runes, unit, minRun)
	for k := len(matches) - 1; k >= 2; k-- {
		m := matches[k]
		if (k-2)%2 == 0 {
			runes = splice(runes, m.start, m.end, nil)
		} else {
			runes = splice(runes, m.start, m.end, []rune{unit, unit})
		}
	}
	return runes
}

// overCompressed reports whether one rewrite removed too much: the text
// shrank below half its previous length, or more than 40% of structural
// markers disappeared. Advisory only; the rewrite is never reverted.
func (e *Engine) overCompressed(before, after []rune) bool {
	if len(before) == 0 {
		return false
	}
	if float64(len(after)) < e.policy.OverCompressLengthRatio*float64(len(before)) {
		return true
	}
	b, a := structuralMarkers(before), structuralMarkers(after)
	return b > 0 && float64(a) < float64(b)*(1-e.policy.StructuralDropRatio)
}

// structuralMarkers counts sentence-final punctuation, quotation marks,
// and runs of three or more kana characters.
func structuralMarkers(runes []rune) int {
	count := 0
	runLen := 0
	for _, r := range runes {
		if kana.IsSentenceFinal(r) || kana.IsQuote(r) {
			count++
		}
		if kana.IsScript(r) {
			runLen++
			if runLen == 3 {
				count++
			}
		} else {
			runLen = 0
		}
	}
	return count
}

// finalCleanup deterministically collapses whatever adjacent duplication
// survived the pattern pipeline: doubled sub-phrases of 5 down to 2 runes
// (longest first), punctuation-class run clamps, and whitespace runs.
// Onomatopoeic and rhetorical doublets stay intact while protection is on.
func (e *Engine) finalCleanup(runes []rune) []rune {
	for length := 5; length >= 2; length-- {
		for i := 0; i+2*length <= len(runes); {
			unit := runes[i : i+length]
			if !matchAt(runes, unit, i+length) || allSpace(unit) {
				i++
				continue
			}
			if e.cfg.EnableRhetoricalProtection && isProtectedDoublet(unit) {
				i++
				continue
			}
			// Drop the second copy; stay put so triples collapse too.
			runes = splice(runes, i+length, i+2*length, nil)
		}
	}

	runes = clampRuns(runes, kana.IsEmphasis, 2)
	runes = clampRuns(runes, func(r rune) bool { return r == '、' }, 1)
	runes = clampRuns(runes, func(r rune) bool { return r == '。' }, 1)
	runes = clampEllipsis(runes)
	runes = clampRuns(runes, func(r rune) bool { return r == ' ' || r == '　' || r == '\t' }, 2)
	return runes
}

// isProtectedDoublet reports whether unit+unit would be classified as
// onomatopoeic or dialectal, in which case cleanup leaves it alone.
func isProtectedDoublet(unit []rune) bool {
	doubled := string(unit) + string(unit)
	if dialectDoublets[doubled] {
		return true
	}
	return isKanaDoublet([]rune(doubled))
}

// clampRuns shortens every maximal run of class runes longer than max to
// exactly max.
func clampRuns(runes []rune, class func(rune) bool, max int) []rune {
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); {
		if !class(runes[i]) {
			out = append(out, runes[i])
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && class(runes[j]) {
			j++
		}
		n := j - i
		if n > max {
			n = max
		}
		out = append(out, runes[i:i+n]...)
		i = j
	}
	return out
}

// clampEllipsis shortens runs of four or more … to two.
func clampEllipsis(runes []rune) []rune {
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); {
		if runes[i] != '…' {
			out = append(out, runes[i])
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && runes[j] == '…' {
			j++
		}
		if j-i >= 4 {
			out = append(out, '…', '…')
		} else {
			out = append(out, runes[i:j]...)
		}
		i = j
	}
	return out
}

// splice replaces runes[start:end] with replacement, returning a new
// backing slice. Out-of-bounds offsets are programming errors and abort.
func splice(runes []rune, start, end int, replacement []rune) []rune {
	if start < 0 || end < start || end > len(runes) {
		panic(fmt.Sprintf("suppress: splice range [%d,%d) out of bounds for length %d", start, end, len(runes)))
	}
	out := make([]rune, 0, len(runes)-(end-start)+len(replacement))
	out = append(out, runes[:start]...)
	out = append(out, replacement...)
	out = append(out, runes[end:]...)
	return out
}

// equalRunes reports whether a and b hold identical contents.
func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// allSpace reports whether every rune is whitespace.
func allSpace(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
