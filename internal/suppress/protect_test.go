package suppress

import "testing"

func TestClassifyProtection(t *testing.T) {
	t.Parallel()
	e := mustEngine(t, DefaultConfig())

	cases := []struct {
		name    string
		text    string
		pattern Pattern
		want    Protection
	}{
		{
			name:    "pause-separated repeats are rhetorical",
			text:    "ねえ、ねえ、ねえ",
			pattern: Pattern{Text: "ねえ", Occurrences: []int{0, 3, 6}},
			want:    ProtectionRhetorical,
		},
		{
			name:    "fragment containing its own pause repeat",
			text:    "ねえ、ねえ",
			pattern: Pattern{Text: "ねえ、ねえ", Occurrences: []int{0}},
			want:    ProtectionRhetorical,
		},
		{
			name:    "poetic marker",
			text:    "詩の朗読。詩の朗読。",
			pattern: Pattern{Text: "詩の朗読", Occurrences: []int{0, 5}},
			want:    ProtectionRhetorical,
		},
		{
			name:    "musical note is lyrical",
			text:    "ラララ♪ラララ♪",
			pattern: Pattern{Text: "ラララ♪", Occurrences: []int{0, 4}},
			want:    ProtectionLyrical,
		},
		{
			name:    "line-spanning refrain is lyrical",
			text:    "ああ\nああ",
			pattern: Pattern{Text: "ああ\nああ", Occurrences: []int{0}},
			want:    ProtectionLyrical,
		},
		{
			name:    "dialect doublet",
			text:    "そやそや",
			pattern: Pattern{Text: "そやそや", Occurrences: []int{0}},
			want:    ProtectionOnomatopoeic,
		},
		{
			name:    "katakana doublet",
			text:    "ドキドキした",
			pattern: Pattern{Text: "ドキドキ", Occurrences: []int{0}},
			want:    ProtectionOnomatopoeic,
		},
		{
			name:    "short unit doubled in text",
			text:    "どきどきした",
			pattern: Pattern{Text: "どき", Occurrences: []int{0, 2}},
			want:    ProtectionOnomatopoeic,
		},
		{
			name:    "plain phrase repeat unprotected",
			text:    "魔法だ。魔法だ。魔法だ。",
			pattern: Pattern{Text: "魔法だ", Occurrences: []int{0, 4, 8}},
			want:    ProtectionNone,
		},
		{
			name:    "sentence-final marks are not pauses",
			text:    "いや。いや。",
			pattern: Pattern{Text: "いや", Occurrences: []int{0, 3}},
			want:    ProtectionNone,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			patterns := []Pattern{tc.pattern}
			e.classifyProtection([]rune(tc.text), patterns)
			if got := patterns[0].Protection; got != tc.want {
				t.Errorf("Protection = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClassifyProtection_Disabled(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.EnableRhetoricalProtection = false
	e := mustEngine(t, cfg)

	patterns := []Pattern{{Text: "そやそや", Occurrences: []int{0}}}
	e.classifyProtection([]rune("そやそや"), patterns)
	if got := patterns[0].Protection; got != ProtectionNone {
		t.Errorf("Protection = %v with classifier disabled, want %v", got, ProtectionNone)
	}
}

func TestIsKanaDoublet(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want bool
	}{
		{"そやそや", true},
		{"ドキドキ", true},
		{"あかんあかん", true},
		{"そやせや", false},
		{"魔法魔法", false},
		{"ああ", false},
		{"あああああ", false},
	}
	for _, tc := range cases {
		if got := isKanaDoublet([]rune(tc.in)); got != tc.want {
			t.Errorf("isKanaDoublet(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
