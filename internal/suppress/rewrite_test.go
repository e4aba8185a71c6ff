package suppress

import "testing"

func TestSubstituteOccurrences_CyclesAlternatives(t *testing.T) {
	t.Parallel()
	e := mustEngine(t, DefaultConfig())

	in := []rune("いいです。楽しいです。嬉しいです。")
	p := Pattern{Text: "です", Kind: KindExactPhrase, Occurrences: []int{2, 8, 14}}
	got := string(e.substituteOccurrences(in, &p))
	want := "いいです。楽しいます。嬉しいだ。"
	if got != want {
		t.Errorf("substituteOccurrences = %q, want %q", got, want)
	}
}

func TestSubstituteOccurrences_DeletesWithoutAlternatives(t *testing.T) {
	t.Parallel()
	e := mustEngine(t, DefaultConfig())

	in := []rune("魔法陣と魔法陣と魔法陣")
	p := Pattern{Text: "魔法陣", Kind: KindExactPhrase, Occurrences: []int{0, 4, 8}}
	got := string(e.substituteOccurrences(in, &p))
	want := "魔法陣とと"
	if got != want {
		t.Errorf("substituteOccurrences = %q, want %q", got, want)
	}
}

func TestSubstituteOccurrences_SingleOccurrenceUntouched(t *testing.T) {
	t.Parallel()
	e := mustEngine(t, DefaultConfig())

	in := []rune("ですが。")
	p := Pattern{Text: "です", Kind: KindExactPhrase, Occurrences: []int{0}}
	if got := string(e.substituteOccurrences(in, &p)); got != "ですが。" {
		t.Errorf("substituteOccurrences = %q, want input unchanged", got)
	}
}

func TestCollapseCharacterRun(t *testing.T) {
	t.Parallel()
	e := mustEngine(t, DefaultConfig())

	cases := []struct {
		name string
		in   string
		text string
		want string
	}{
		{"kana clamped to limit", "わあああああ！", "あああああ", "わあああ！"},
		{"elongation clamped to three", "すごーーーーーい", "ーーーーー", "すごーーーい"},
		{"emphasis clamped to two", "えっ！！！！", "！！！！", "えっ！！"},
		{"non-collapsible character untouched", "wwww", "wwww", "wwww"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := Pattern{Text: tc.text, Kind: KindCharacterRun, Occurrences: []int{0}}
			if got := string(e.collapseCharacterRun([]rune(tc.in), &p)); got != tc.want {
				t.Errorf("collapseCharacterRun(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCollapseCharacterRun_ConfiguredLimit(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.CharacterRepetitionLimit = 1
	e := mustEngine(t, cfg)

	p := Pattern{Text: "あああああ", Kind: KindCharacterRun, Occurrences: []int{1}}
	if got := string(e.collapseCharacterRun([]rune("わあああああ！"), &p)); got != "わあ！" {
		t.Errorf("collapseCharacterRun = %q, want わあ！", got)
	}
}

func TestCollapseAlnumRuns(t *testing.T) {
	t.Parallel()
	p := Pattern{Text: "wwwww", Kind: KindAlphanumericRun, Occurrences: []int{1}}
	got := string(collapseAlnumRuns([]rune("草wwwww生えwww"), &p))
	want := "草ww生えwww"
	if got != want {
		t.Errorf("collapseAlnumRuns = %q, want %q", got, want)
	}
}

func TestRewriteInterjection(t *testing.T) {
	t.Parallel()
	p := Pattern{Text: "あああ", Kind: KindInterjection, NormalizedForm: "あ"}
	got := string(rewriteInterjection([]rune("あああ。あああ。あああ。あああ。"), &p))
	want := "あああ。あああ。。ああ。"
	if got != want {
		t.Errorf("rewriteInterjection = %q, want %q", got, want)
	}
}

func TestRewriteInterjection_EmphasisRuns(t *testing.T) {
	t.Parallel()
	p := Pattern{Text: "！！", Kind: KindInterjection, NormalizedForm: "！"}
	got := string(rewriteInterjection([]rune("や！！と！！な！！！"), &p))
	want := "や！！と！！な"
	if got != want {
		t.Errorf("rewriteInterjection = %q, want %q", got, want)
	}
}

func TestRewriteAll_Outcomes(t *testing.T) {
	t.Parallel()
	e := mustEngine(t, DefaultConfig())

	patterns := []Pattern{
		{Text: "あああああ", Kind: KindCharacterRun, Occurrences: []int{1}, Severity: 1},
		{Text: "どき", Kind: KindPhonetic, Occurrences: []int{7}, Severity: 0.5, NormalizedForm: "とき"},
	}
	got := string(e.rewriteAll([]rune("わあああああ！どきどき"), patterns, []int{0, 1}))
	if got != "わあああ！どきどき" {
		t.Errorf("rewriteAll = %q, want わあああ！どきどき", got)
	}
	if patterns[0].Outcome != OutcomeSuppressed {
		t.Errorf("run outcome = %v, want %v", patterns[0].Outcome, OutcomeSuppressed)
	}
	if patterns[1].Outcome != OutcomeMissed {
		t.Errorf("phonetic outcome = %v, want %v", patterns[1].Outcome, OutcomeMissed)
	}
}

func TestOverCompressed(t *testing.T) {
	t.Parallel()
	e := mustEngine(t, DefaultConfig())

	cases := []struct {
		name          string
		before, after string
		want          bool
	}{
		{"unchanged", "ながい文章です。", "ながい文章です。", false},
		{"halved length", "ながいながい文章です。とても長い。", "で。", true},
		{"structural markers lost", "ああああ。いいいい。うううう。", "ああああいいいいうううう", true},
		{"modest trim", "ながい文章です。長い。", "ながい文章です。", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := e.overCompressed([]rune(tc.before), []rune(tc.after)); got != tc.want {
				t.Errorf("overCompressed(%q, %q) = %v, want %v", tc.before, tc.after, got, tc.want)
			}
		})
	}
}

func TestStructuralMarkers(t *testing.T) {
	t.Parallel()
	// Two quotes, one sentence-final mark, one kana run of three or more.
	if got := structuralMarkers([]rune("「ああああ」と言った。")); got != 4 {
		t.Errorf("structuralMarkers = %d, want 4", got)
	}
	if got := structuralMarkers([]rune("短い")); got != 0 {
		t.Errorf("structuralMarkers = %d, want 0", got)
	}
}

func TestFinalCleanup(t *testing.T) {
	t.Parallel()
	e := mustEngine(t, DefaultConfig())

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"doubled phrase collapsed", "嬉しい嬉しいな", "嬉しいな"},
		{"kanji doublet collapsed", "魔法魔法だ", "魔法だ"},
		{"onomatopoeic doublet kept", "だめだめだめ", "だめだめだめ"},
		{"dialect doublet kept", "そやそや", "そやそや"},
		{"pause marks clamped", "すごい、、、ね。。", "すごい、ね。"},
		{"emphasis clamped", "えー！！！！", "えー！！"},
		{"long ellipsis shortened", "それは………………だ", "それは……だ"},
		{"short ellipsis kept", "あ………", "あ………"},
		{"whitespace clamped", "a   b", "a  b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := string(e.finalCleanup([]rune(tc.in))); got != tc.want {
				t.Errorf("finalCleanup(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFinalCleanup_ProtectionOff(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.EnableRhetoricalProtection = false
	e := mustEngine(t, cfg)

	cases := []struct {
		in, want string
	}{
		{"そやそや", "そや"},
		{"だめだめだめ", "だめ"},
	}
	for _, tc := range cases {
		if got := string(e.finalCleanup([]rune(tc.in))); got != tc.want {
			t.Errorf("finalCleanup(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsProtectedDoublet(t *testing.T) {
	t.Parallel()
	cases := []struct {
		unit string
		want bool
	}{
		{"そや", true},
		{"だめ", true},
		{"あかん", true},
		{"魔法", false},
		{"嬉しい", false},
	}
	for _, tc := range cases {
		if got := isProtectedDoublet([]rune(tc.unit)); got != tc.want {
			t.Errorf("isProtectedDoublet(%q) = %v, want %v", tc.unit, got, tc.want)
		}
	}
}
