package suppress

import (
	"sort"
	"unicode"

	"github.com/yomogi-ai/refrain/internal/suppress/kana"
)

// detect runs every enabled detection strategy over the pre-filtered text
// and returns the candidates that clear the severity floor, ordered by
// first occurrence.
func (e *Engine) detect(runes []rune) []Pattern {
	var all []Pattern
	all = append(all, e.detectExactPhrases(runes)...)
	all = append(all, e.detectCharacterRuns(runes)...)
	if e.cfg.EnableAggressiveMode {
		all = append(all, e.detectWords(runes)...)
	}
	all = append(all, e.detectPhonetic(runes)...)
	all = append(all, e.detectAlnumRuns(runes)...)
	all = append(all, e.detectInterjections(runes)...)
	if e.normalizer != nil {
		all = append(all, e.detectLemmaForms(runes)...)
	}

	kept := make([]Pattern, 0, len(all))
	for _, p := range all {
		if p.Severity > e.policy.SeverityFloor {
			kept = append(kept, p)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Occurrences[0] < kept[j].Occurrences[0]
	})
	return kept
}

// minPhraseLen and maxPhraseLen bound the exact-phrase scan.
const (
	minPhraseLen = 2
	maxPhraseLen = 18
)

// detectExactPhrases scans every substring of length 2–18 that contains at
// least one Japanese script character and counts its occurrences across
// the whole text. Two-rune fragments need three occurrences to qualify;
// longer fragments need two.
func (e *Engine) detectExactPhrases(runes []rune) []Pattern {
	maxLen := maxPhraseLen
	if half := len(runes) / 2; half < maxLen {
		maxLen = half
	}

	var patterns []Pattern
	seen := make(map[string]bool)
	for length := minPhraseLen; length <= maxLen; length++ {
		for i := 0; i+length <= len(runes); i++ {
			fragment := runes[i : i+length]
			if !containsCJK(fragment) {
				continue
			}
			text := string(fragment)
			if seen[text] {
				continue
			}
			seen[text] = true

			positions := findOccurrences(runes, fragment)
			minCount := 2
			if length == minPhraseLen {
				// Short fragments repeat by chance; demand more evidence.
				minCount = 3
			}
			if len(positions) < minCount {
				continue
			}
			patterns = append(patterns, Pattern{
				Text:        text,
				Occurrences: positions,
				Kind:        KindExactPhrase,
				Severity:    clampUnit(float64(len(positions)*length) / e.policy.ExactSeverityDivisor),
			})
		}
	}
	return patterns
}

// detectCharacterRuns finds single kana characters repeated three or more
// times consecutively.
func (e *Engine) detectCharacterRuns(runes []rune) []Pattern {
	var patterns []Pattern
	for i := 0; i < len(runes); {
		r := runes[i]
		if !kana.IsScript(r) {
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && runes[j] == r {
			j++
		}
		if j-i >= 3 {
			patterns = append(patterns, Pattern{
				Text:        string(runes[i:j]),
				Occurrences: []int{i},
				Kind:        KindCharacterRun,
				Severity:    clampUnit(float64(j-i) / e.policy.RunSeverityDivisor),
			})
		}
		i = j
	}
	return patterns
}

// token is one word produced by boundary tokenization.
type token struct {
	text string
	pos  int // rune offset
}

// tokenize splits runes into letter/digit words at script boundaries.
func tokenize(runes []rune) []token {
	var tokens []token
	for i := 0; i < len(runes); {
		r := runes[i]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != 'ー' {
			i++
			continue
		}
		j := i + 1
		for j < len(runes) {
			rj := runes[j]
			if !unicode.IsLetter(rj) && !unicode.IsDigit(rj) && rj != 'ー' {
				break
			}
			j++
		}
		tokens = append(tokens, token{text: string(runes[i:j]), pos: i})
		i = j
	}
	return tokens
}

// detectWords links repeated words of two or more runes whose consecutive
// occurrences sit within the configured distance window.
func (e *Engine) detectWords(runes []rune) []Pattern {
	positions := make(map[string][]int)
	var order []string
	for _, t := range tokens2plus(tokenize(runes)) {
		if len(positions[t.text]) == 0 {
			order = append(order, t.text)
		}
		positions[t.text] = append(positions[t.text], t.pos)
	}

	var patterns []Pattern
	for _, word := range order {
		occ := positions[word]
		if len(occ) < 2 {
			continue
		}
		// Keep only occurrences chained within max_distance of the
		// previous one.
		close := occ[:1]
		for i := 1; i < len(occ); i++ {
			if occ[i]-occ[i-1] <= e.cfg.MaxDistance {
				close = append(close, occ[i])
			}
		}
		if len(close) < 2 {
			continue
		}
		length := len([]rune(word))
		patterns = append(patterns, Pattern{
			Text:        word,
			Occurrences: close,
			Kind:        KindWord,
			Severity:    clampUnit(float64(len(close)*length) / e.policy.WordSeverityDivisor),
		})
	}
	return patterns
}

// tokens2plus filters tokens down to words of at least two runes.
func tokens2plus(tokens []token) []token {
	kept := tokens[:0]
	for _, t := range tokens {
		if len([]rune(t.text)) >= 2 {
			kept = append(kept, t)
		}
	}
	return kept
}

// phoneticGroup accumulates the surfaces mapping to one normalized form.
type phoneticGroup struct {
	surfaces  map[string]int
	positions []int
}

// detectPhonetic folds the text to hiragana and groups windows of 2–7
// runes by their phonetic normalization. A group is a candidate when at
// least two distinct surface forms share the normalized form and the
// closest surface pair clears the similarity threshold.
func (e *Engine) detectPhonetic(runes []rune) []Pattern {
	folded := make([]rune, len(runes))
	for i, r := range runes {
		folded[i] = kana.ToHiragana(r)
	}

	groups := make(map[string]*phoneticGroup)
	var order []string
	for length := 2; length <= 7; length++ {
		for i := 0; i+length <= len(runes); i++ {
			if !allHiragana(folded[i : i+length]) {
				continue
			}
			surface := string(runes[i : i+length])
			normalized := kana.Normalize(surface)
			g, ok := groups[normalized]
			if !ok {
				g = &phoneticGroup{surfaces: make(map[string]int)}
				groups[normalized] = g
				order = append(order, normalized)
			}
			g.surfaces[surface]++
			g.positions = append(g.positions, i)
		}
	}

	var patterns []Pattern
	for _, normalized := range order {
		g := groups[normalized]
		if len(g.surfaces) < 2 || len(g.positions) < 2 {
			continue
		}
		best := bestPairSimilarity(g.surfaces)
		if best < e.cfg.SimilarityThreshold {
			continue
		}
		sort.Ints(g.positions)
		patterns = append(patterns, Pattern{
			Text:           mostFrequent(g.surfaces),
			Occurrences:    g.positions,
			Kind:           KindPhonetic,
			Severity:       clampUnit(float64(len(g.positions)) / e.policy.PhoneticSeverityDivisor),
			NormalizedForm: normalized,
			Similarity:     best,
		})
	}
	return patterns
}

// allHiragana reports whether every rune is hiragana.
func allHiragana(runes []rune) bool {
	for _, r := range runes {
		if !kana.IsHiragana(r) {
			return false
		}
	}
	return len(runes) > 0
}

// bestPairSimilarity returns the highest Jaro-Winkler score among distinct
// surface pairs in the group.
func bestPairSimilarity(surfaces map[string]int) float64 {
	keys := make([]string, 0, len(surfaces))
	for s := range surfaces {
		keys = append(keys, s)
	}
	sort.Strings(keys)
	best := 0.0
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if s := kana.Similarity(keys[i], keys[j]); s > best {
				best = s
			}
		}
	}
	return best
}

// mostFrequent returns the surface with the highest count, breaking ties
// lexicographically for determinism.
func mostFrequent(surfaces map[string]int) string {
	var top string
	topCount := -1
	for s, n := range surfaces {
		if n > topCount || (n == topCount && s < top) {
			top, topCount = s, n
		}
	}
	return top
}

// detectAlnumRuns finds ASCII letter/digit runs of three or more after
// width folding, so full-width emphasis forms (ｗｗｗ, ７７７) are caught
// alongside their narrow variants.
func (e *Engine) detectAlnumRuns(runes []rune) []Pattern {
	var patterns []Pattern
	for i := 0; i < len(runes); {
		class := alnumClass(runes[i])
		if class == 0 {
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && alnumClass(runes[j]) == class {
			j++
		}
		if j-i >= 3 {
			patterns = append(patterns, Pattern{
				Text:        string(runes[i:j]),
				Occurrences: []int{i},
				Kind:        KindAlphanumericRun,
				Severity:    clampUnit(float64(j-i) / e.policy.RunSeverityDivisor),
			})
		}
		i = j
	}
	return patterns
}

// interjectionEntry is one row of the fixed overuse table: a vowel,
// emphasis mark, or elongation mark with its minimum qualifying run.
type interjectionEntry struct {
	unit   rune
	minRun int
}

// interjectionTable enumerates the interjection shapes the engine watches
// for: elongated vowels, stacked emphasis marks, and wave/long-vowel runs.
var interjectionTable = []interjectionEntry{
	{'あ', 3}, {'い', 3}, {'う', 3}, {'え', 3}, {'お', 3},
	{'！', 2}, {'？', 2}, {'〜', 3}, {'ー', 3},
}

// detectInterjections flags table entries whose qualifying runs occur two
// or more times in the text.
func (e *Engine) detectInterjections(runes []rune) []Pattern {
	var patterns []Pattern
	for _, entry := range interjectionTable {
		matches := findRuns(runes, entry.unit, entry.minRun)
		if len(matches) < 2 {
			continue
		}
		starts := make([]int, len(matches))
		for i, m := range matches {
			starts[i] = m.start
		}
		first := matches[0]
		patterns = append(patterns, Pattern{
			Text:           string(runes[first.start:first.end]),
			Occurrences:    starts,
			Kind:           KindInterjection,
			Severity:       clampUnit(float64(len(matches)) / e.policy.InterjectionSeverityDivisor),
			NormalizedForm: string(entry.unit),
		})
	}
	return patterns
}

// runSpan is a maximal run of one rune.
type runSpan struct {
	start, end int // [start, end)
}

// findRuns returns every maximal run of unit with length ≥ minRun.
func findRuns(runes []rune, unit rune, minRun int) []runSpan {
	var spans []runSpan
	for i := 0; i < len(runes); {
		if runes[i] != unit {
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && runes[j] == unit {
			j++
		}
		if j-i >= minRun {
			spans = append(spans, runSpan{start: i, end: j})
		}
		i = j
	}
	return spans
}

// detectLemmaForms groups words by the attached normalizer's lemma and
// emits a candidate when two or more distinct surfaces share one lemma.
// Only runs when a [Normalizer] is configured.
func (e *Engine) detectLemmaForms(runes []rune) []Pattern {
	groups := make(map[string]*phoneticGroup)
	var order []string
	for _, t := range tokens2plus(tokenize(runes)) {
		lemma := e.normalizer.Normalize(t.text)
		if lemma == "" {
			continue
		}
		g, ok := groups[lemma]
		if !ok {
			g = &phoneticGroup{surfaces: make(map[string]int)}
			groups[lemma] = g
			order = append(order, lemma)
		}
		g.surfaces[t.text]++
		g.positions = append(g.positions, t.pos)
	}

	var patterns []Pattern
	for _, lemma := range order {
		g := groups[lemma]
		if len(g.surfaces) < 2 || len(g.positions) < 2 {
			continue
		}
		sort.Ints(g.positions)
		patterns = append(patterns, Pattern{
			Text:           mostFrequent(g.surfaces),
			Occurrences:    g.positions,
			Kind:           KindLemmaForm,
			Severity:       clampUnit(float64(len(g.positions)) / e.policy.LemmaSeverityDivisor),
			NormalizedForm: lemma,
		})
	}
	return patterns
}

// clampUnit clamps v into [0,1].
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
