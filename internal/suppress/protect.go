package suppress

import (
	"strings"

	"github.com/yomogi-ai/refrain/internal/suppress/kana"
)

// poeticMarkers are fragments that mark deliberately poetic or song-like
// text; candidates containing one are never rewritten.
var poeticMarkers = []string{"♪", "俳句", "短歌", "詩"}

// dialectDoublets enumerates known dialectal repeated interjections that
// read as affirmation, not as sloppy repetition.
var dialectDoublets = map[string]bool{
	"そやそや":   true,
	"せやせや":   true,
	"あかんあかん": true,
	"やなやな":   true,
	"ほんほん":   true,
	"うんうん":   true,
}

// classifyProtection runs the three protection predicates over every
// candidate and sets Protection on matches. Disabled entirely when
// rhetorical protection is off.
func (e *Engine) classifyProtection(runes []rune, patterns []Pattern) {
	if !e.cfg.EnableRhetoricalProtection {
		return
	}
	for i := range patterns {
		p := &patterns[i]
		switch {
		case isLyrical(p.Text):
			p.Protection = ProtectionLyrical
		case e.isRhetorical(runes, p):
			p.Protection = ProtectionRhetorical
		case isOnomatopoeic(runes, p):
			p.Protection = ProtectionOnomatopoeic
		}
	}
}

// isRhetorical reports whether the candidate is a deliberate rhetorical
// repeat: a short fragment whose repeats are each separated by a pause
// mark (ねえ、ねえ、ねえ), a fragment that itself contains a pause-separated
// self-repeat, or one carrying a poetic marker.
func (e *Engine) isRhetorical(runes []rune, p *Pattern) bool {
	for _, marker := range poeticMarkers {
		if strings.Contains(p.Text, marker) {
			return true
		}
	}

	fragment := []rune(p.Text)
	if len(fragment) > 5 {
		return false
	}

	// x、x inside the fragment itself.
	if k := strings.IndexRune(p.Text, '、'); k > 0 {
		parts := strings.Split(p.Text, "、")
		if len(parts) >= 2 && parts[0] != "" && parts[0] == parts[1] {
			return true
		}
	}

	// Every repeat separated from the previous occurrence by a pause mark.
	if len(p.Occurrences) < 2 {
		return false
	}
	for i := 1; i < len(p.Occurrences); i++ {
		gapStart := p.Occurrences[i-1] + len(fragment)
		gapEnd := p.Occurrences[i]
		if gapStart > gapEnd || gapEnd > len(runes) {
			return false
		}
		if !containsPauseMark(runes[gapStart:gapEnd]) {
			return false
		}
	}
	return true
}

// isOnomatopoeic reports whether the candidate is sound-symbolic: a kana
// doublet (ドキドキ, そやそや), a 2–3 rune kana unit that appears doubled in
// the text, or a known dialectal affirmation doublet.
func isOnomatopoeic(runes []rune, p *Pattern) bool {
	if dialectDoublets[p.Text] {
		return true
	}

	fragment := []rune(p.Text)
	if isKanaDoublet(fragment) {
		return true
	}

	// A short kana unit is onomatopoeic when the text doubles it
	// immediately at any occurrence (どき in どきどき).
	if len(fragment) < 2 || len(fragment) > 3 || !allKana(fragment) {
		return false
	}
	for _, pos := range p.Occurrences {
		if pos+2*len(fragment) <= len(runes) && matchAt(runes, fragment, pos+len(fragment)) {
			return true
		}
		if pos >= len(fragment) && matchAt(runes, fragment, pos-len(fragment)) {
			return true
		}
	}
	return false
}

// isKanaDoublet reports whether fragment is a pure-kana string of the form
// uu where u is 2–3 runes.
func isKanaDoublet(fragment []rune) bool {
	n := len(fragment)
	if n != 4 && n != 6 {
		return false
	}
	if !allKana(fragment) {
		return false
	}
	half := n / 2
	return matchAt(fragment, fragment[:half], half)
}

// isLyrical reports whether the fragment is part of a song-like refrain:
// it spans a line break or carries a musical-note marker.
func isLyrical(text string) bool {
	return strings.ContainsRune(text, '\n') || strings.ContainsRune(text, '♪')
}

// allKana reports whether every rune is hiragana or katakana.
func allKana(runes []rune) bool {
	for _, r := range runes {
		if !kana.IsHiragana(r) && !kana.IsKatakana(r) {
			return false
		}
	}
	return len(runes) > 0
}

// containsPauseMark reports whether the slice holds a pause mark.
func containsPauseMark(runes []rune) bool {
	for _, r := range runes {
		if kana.IsPauseMark(r) {
			return true
		}
	}
	return false
}
