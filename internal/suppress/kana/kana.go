// Package kana provides Japanese script classification and phonetic
// normalization for the repetition suppression engine.
//
// Normalization proceeds in three steps:
//
//  1. Katakana→hiragana folding, so ドキドキ and どきどき share one form.
//  2. Voiced/semi-voiced mark stripping (が→か, ぱ→は), so near-homophones
//     group together.
//  3. Small-kana glide removal (きょう→きう), collapsing palatalized and
//     geminate variants.
//
// Two surface forms that normalize to the same string are phonetic
// neighbours; [Similarity] ranks how close the surfaces themselves are
// using Jaro-Winkler, the same scoring the rest of the engine uses for
// grouping thresholds.
package kana

import (
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/width"
)

// voicedFold maps voiced and semi-voiced kana to their unvoiced base form.
var voicedFold = map[rune]rune{
	'が': 'か', 'ぎ': 'き', 'ぐ': 'く', 'げ': 'け', 'ご': 'こ',
	'ざ': 'さ', 'じ': 'し', 'ず': 'す', 'ぜ': 'せ', 'ぞ': 'そ',
	'だ': 'た', 'ぢ': 'ち', 'づ': 'つ', 'で': 'て', 'ど': 'と',
	'ば': 'は', 'び': 'ひ', 'ぶ': 'ふ', 'べ': 'へ', 'ぼ': 'ほ',
	'ぱ': 'は', 'ぴ': 'ひ', 'ぷ': 'ふ', 'ぺ': 'へ', 'ぽ': 'ほ',
	'ゔ': 'う',
}

// smallGlides are the small kana removed during normalization.
var smallGlides = map[rune]bool{
	'ゃ': true, 'ゅ': true, 'ょ': true, 'っ': true,
}

// IsHiragana reports whether r is in the hiragana block.
func IsHiragana(r rune) bool {
	return r >= 'ぁ' && r <= 'ゖ'
}

// IsKatakana reports whether r is in the katakana block (ー excluded).
func IsKatakana(r rune) bool {
	return r >= 'ァ' && r <= 'ヺ'
}

// IsKanji reports whether r is a CJK unified ideograph.
func IsKanji(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

// IsScript reports whether r belongs to the Japanese phonetic scripts
// (hiragana or katakana, including the prolonged sound mark ー).
func IsScript(r rune) bool {
	return IsHiragana(r) || IsKatakana(r) || r == 'ー'
}

// IsCJK reports whether r is any Japanese script character: kana, kanji,
// or the prolonged sound mark.
func IsCJK(r rune) bool {
	return IsScript(r) || IsKanji(r)
}

// IsPauseMark reports whether r is a mid-sentence pause mark.
func IsPauseMark(r rune) bool {
	return r == '、' || r == '，' || r == ','
}

// IsSentenceFinal reports whether r terminates a sentence.
func IsSentenceFinal(r rune) bool {
	switch r {
	case '。', '！', '？', '.', '!', '?':
		return true
	}
	return false
}

// IsQuote reports whether r is a quotation mark.
func IsQuote(r rune) bool {
	switch r {
	case '「', '」', '『', '』', '"', '\'':
		return true
	}
	return false
}

// IsEmphasis reports whether r is an emphasis punctuation mark
// (exclamation/question class).
func IsEmphasis(r rune) bool {
	switch r {
	case '！', '？', '!', '?', '‼', '⁇':
		return true
	}
	return false
}

// IsElongation reports whether r is an elongation or ellipsis mark.
func IsElongation(r rune) bool {
	switch r {
	case 'ー', '〜', '～', '…':
		return true
	}
	return false
}

// IsPunct reports whether r is any punctuation the engine treats as a
// structural boundary: pause, sentence-final, quote, or elongation mark.
func IsPunct(r rune) bool {
	return IsPauseMark(r) || IsSentenceFinal(r) || IsQuote(r) ||
		IsEmphasis(r) || IsElongation(r) || r == '・'
}

// ToHiragana folds katakana runes to their hiragana counterparts.
// The prolonged sound mark and non-katakana runes pass through unchanged.
func ToHiragana(r rune) rune {
	if r >= 'ァ' && r <= 'ヶ' {
		return r - ('ァ' - 'ぁ')
	}
	return r
}

// FoldWidth maps a full-width ASCII variant to its narrow form
// (ｗ→w, ７→7). Only ASCII narrow forms are applied: narrowing katakana
// would produce half-width katakana, which [ToHiragana] cannot fold.
// Everything else passes through.
func FoldWidth(r rune) rune {
	if n := width.LookupRune(r).Narrow(); n > 0 && n < utf8.RuneSelf {
		return n
	}
	return r
}

// Normalize canonicalizes s for phonetic grouping: katakana is folded to
// hiragana, voiced and semi-voiced marks are stripped, and small-kana
// glides are removed. The result is for matching only and is never emitted
// into output text.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		r = ToHiragana(r)
		if smallGlides[r] {
			continue
		}
		if base, ok := voicedFold[r]; ok {
			r = base
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Similarity returns the Jaro-Winkler similarity of the two surface forms
// in [0,1]. Used to gate phonetic grouping: surfaces that share a
// normalized form but score below the configured threshold are not merged.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	return matchr.JaroWinkler(a, b, false)
}
