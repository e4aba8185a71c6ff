package suppress

import "strings"

// maxAlternatives caps how many alternatives one phrase cycles through.
const maxAlternatives = 3

// AlternativesTable maps overused phrases to substitution candidates. It is
// read-only after construction and safe to share across engines.
//
// Every alternative the table hands out is at most as long (in runes) as
// the phrase it replaces, so the substitution path never grows the text.
// Entries violating that are filtered at construction.
type AlternativesTable struct {
	entries map[string][]string
}

// NewAlternatives builds a table from entries, dropping any alternative
// longer than its key. The input map is copied.
func NewAlternatives(entries map[string][]string) *AlternativesTable {
	t := &AlternativesTable{entries: make(map[string][]string, len(entries))}
	for phrase, alts := range entries {
		keyLen := len([]rune(phrase))
		kept := make([]string, 0, len(alts))
		for _, a := range alts {
			if a == phrase || len([]rune(a)) > keyLen {
				continue
			}
			kept = append(kept, a)
		}
		if len(kept) > 0 {
			t.entries[phrase] = kept
		}
	}
	return t
}

// merge returns a new table containing t's entries overlaid with extra.
func (t *AlternativesTable) merge(extra map[string][]string) *AlternativesTable {
	combined := make(map[string][]string, len(t.entries)+len(extra))
	for k, v := range t.entries {
		combined[k] = v
	}
	for k, v := range extra {
		combined[k] = v
	}
	return NewAlternatives(combined)
}

// Lookup returns up to maxAlternatives substitution candidates for phrase:
// static table entries first, then rule-generated fallbacks. An empty
// result means the occurrence should be deleted instead of substituted.
func (t *AlternativesTable) Lookup(phrase string) []string {
	alts := t.entries[phrase]
	if len(alts) == 0 {
		alts = generateAlternatives(phrase)
	}
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}
	return alts
}

// generateAlternatives derives substitutions by rule when the static table
// has no entry: copula tail swaps, degree-adverb swaps, softening-particle
// drops, and finally prefix truncation.
func generateAlternatives(phrase string) []string {
	runes := []rune(phrase)
	n := len(runes)
	var alts []string

	keep := func(a string) {
		if a != "" && a != phrase && len([]rune(a)) <= n {
			alts = append(alts, a)
		}
	}

	switch {
	case strings.HasSuffix(phrase, "です"):
		base := phrase[:len(phrase)-len("です")]
		keep(base + "ます")
		keep(base + "だ")
	case strings.HasSuffix(phrase, "ます"):
		base := phrase[:len(phrase)-len("ます")]
		keep(base + "です")
		keep(base + "る")
	case strings.HasSuffix(phrase, "だ"):
		keep(phrase[:len(phrase)-len("だ")] + "や")
	}

	if strings.Contains(phrase, "とても") {
		keep(strings.Replace(phrase, "とても", "すごく", 1))
	}
	if strings.Contains(phrase, "すごく") {
		keep(strings.Replace(phrase, "すごく", "かなり", 1))
	}

	// Softening particle drop (ね/よ/な/さ tails).
	if n >= 3 {
		switch runes[n-1] {
		case 'ね', 'よ', 'な', 'さ':
			keep(string(runes[:n-1]))
		}
	}

	// Last resort: shorten to a prefix.
	if len(alts) == 0 && n >= 4 {
		keep(string(runes[:n-1]))
	}

	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}
	return alts
}

// defaultAlternativeEntries is the built-in phrase dictionary, including
// the Kansai-dialect doublets the generator cannot derive.
var defaultAlternativeEntries = map[string][]string{
	// Polite agreement.
	"そうです":   {"はい", "ええ"},
	"そうですね":  {"ですね", "ですよね"},
	"ですよね":   {"ですね"},
	"でしょう":   {"ですよね"},
	"とても":    {"すごく", "かなり"},

	// Exclamations.
	"わあ":  {"あら"},
	"うわあ": {"わあ"},

	// Kansai dialect.
	"そや":     {"せや"},
	"そやそや":   {"ほんまや", "せやな"},
	"あかん":    {"だめ"},
	"あかんあかん": {"だめだめ", "あきまへん"},
	"せや":     {"そや"},
	"せやせや":   {"そやそや", "ほんまに"},
	"ほんま":    {"本当", "まじで"},
	"なんや":    {"なに", "何や"},
	"どない":    {"どう"},
	"ちゃう":    {"違う"},

	// Copula tails.
	"です": {"ます", "だ", "や"},
	"ます": {"です", "る"},
	"だ":  {"や"},
	"やで": {"だよ"},

	// Qualifiers.
	"いい":   {"ええ", "良い"},
	"良い":   {"いい", "ええ"},
	"ええ":   {"いい"},
	"嬉しい":  {"楽しい", "幸せ"},
	"楽しい":  {"嬉しい", "愉快"},
	"おもろい": {"面白い"},

	// Punctuation pile-ups.
	"！！！":  {"！", "‼"},
	"？？？":  {"？", "⁇"},
	"〜〜〜":  {"〜", "ー"},
	"…………": {"……", "…"},
}

// DefaultAlternatives returns the built-in table.
func DefaultAlternatives() *AlternativesTable {
	return NewAlternatives(defaultAlternativeEntries)
}
