package suppress

import (
	"strings"

	"github.com/yomogi-ai/refrain/internal/suppress/kana"
)

// inflectionTails lists common verb and adjective endings, longest first so
// that stripping is greedy. Only one tail is removed per word.
var inflectionTails = []string{
	"ませんでした",
	"ました",
	"ません",
	"でした",
	"です",
	"ます",
	"ない",
	"たい",
	"って",
	"た",
	"て",
	"う",
	"る",
}

// InflectionNormalizer reduces inflected Japanese surface forms to a rough
// stem by folding width and script variants and stripping one common
// inflection tail. It is deliberately crude: grouping only needs forms of
// the same word to collapse to the same key, not a linguistically correct
// lemma.
type InflectionNormalizer struct{}

// Normalize implements [Normalizer].
func (InflectionNormalizer) Normalize(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		b.WriteRune(kana.ToHiragana(kana.FoldWidth(r)))
	}
	folded := b.String()

	for _, tail := range inflectionTails {
		if rest, ok := strings.CutSuffix(folded, tail); ok && rest != "" {
			return rest
		}
	}
	return folded
}
