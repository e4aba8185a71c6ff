package suppress

import "testing"

// mustEngine builds an engine for tests that poke at unexported stages.
func mustEngine(t *testing.T, cfg Config, opts ...Option) *Engine {
	t.Helper()
	e, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestNgramBlock(t *testing.T) {
	t.Parallel()
	e := mustEngine(t, DefaultConfig())

	cases := []struct {
		name       string
		in         string
		want       string
		wantBlocks int
	}{
		{
			name:       "verbatim window removed",
			in:         "あいうえおかきくけこあいうえお",
			want:       "あいうえおかきくけこ",
			wantBlocks: 1,
		},
		{
			name:       "cut extends to punctuation boundary",
			in:         "ある日の朝に、ある日の朝が。",
			want:       "ある日の朝に、。",
			wantBlocks: 1,
		},
		{
			// The repeat period is shorter than the window, so the
			// occurrences of the repeated window overlap each other.
			name:       "overlapping occurrences of one window",
			in:         "だ。だ。だ。だ。だ。",
			want:       "だ。だ。だ",
			wantBlocks: 1,
		},
		{
			name:       "input shorter than two windows passes",
			in:         "あいうえおかきく",
			want:       "あいうえおかきく",
			wantBlocks: 0,
		},
		{
			name:       "windows without Japanese script ignored",
			in:         "aaaaaaaaaaaaaaa",
			want:       "aaaaaaaaaaaaaaa",
			wantBlocks: 0,
		},
		{
			name:       "no repeats",
			in:         "静かな夜に星が光っていた。",
			want:       "静かな夜に星が光っていた。",
			wantBlocks: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, blocks := e.ngramBlock([]rune(tc.in))
			if string(got) != tc.want {
				t.Errorf("ngramBlock(%q) = %q, want %q", tc.in, string(got), tc.want)
			}
			if blocks != tc.wantBlocks {
				t.Errorf("ngramBlock(%q) blocks = %d, want %d", tc.in, blocks, tc.wantBlocks)
			}
		})
	}
}

func TestLatinRunBlock(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name       string
		in         string
		want       string
		wantBlocks int
	}{
		{"long full-width run clamped", "草ｗｗｗｗｗ生えた", "草ｗｗ生えた", 1},
		{"mixed width and case is one run", "ｗｗWW", "ｗｗ", 1},
		{"digit run clamped", "777７", "77", 1},
		{"run of three kept", "www", "www", 0},
		{"distinct letters are separate runs", "abc", "abc", 0},
		{"plain text untouched", "ok", "ok", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, blocks := latinRunBlock([]rune(tc.in))
			if string(got) != tc.want {
				t.Errorf("latinRunBlock(%q) = %q, want %q", tc.in, string(got), tc.want)
			}
			if blocks != tc.wantBlocks {
				t.Errorf("latinRunBlock(%q) blocks = %d, want %d", tc.in, blocks, tc.wantBlocks)
			}
		})
	}
}

func TestAlnumClass(t *testing.T) {
	t.Parallel()
	cases := []struct {
		r    rune
		want rune
	}{
		{'ｗ', 'w'},
		{'W', 'w'},
		{'７', '7'},
		{'a', 'a'},
		{'あ', 0},
		{'、', 0},
	}
	for _, tc := range cases {
		if got := alnumClass(tc.r); got != tc.want {
			t.Errorf("alnumClass(%q) = %q, want %q", tc.r, got, tc.want)
		}
	}
}

func TestDynamicRepeatPenalty(t *testing.T) {
	t.Parallel()
	e := mustEngine(t, DefaultConfig())

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "saturated window drops the repeat",
			in:   "ねねねねねねねねね",
			want: "ねねねねねねねね",
		},
		{
			name: "punctuation passes even in saturated context",
			in:   "ねねねねねねねね。",
			want: "ねねねねねねねね。",
		},
		{
			name: "fresh character after pause survives",
			in:   "ねねねねねねねね、ねで",
			want: "ねねねねねねねね、で",
		},
		{
			name: "input within warm-up window untouched",
			in:   "ねねねねねねねね",
			want: "ねねねねねねねね",
		},
		{
			name: "varied text untouched",
			in:   "それから彼女は笑って歩き出した",
			want: "それから彼女は笑って歩き出した",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := string(e.dynamicRepeatPenalty([]rune(tc.in))); got != tc.want {
				t.Errorf("dynamicRepeatPenalty(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFindOccurrences(t *testing.T) {
	t.Parallel()
	got := findOccurrences([]rune("ああああ"), []rune("ああ"))
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("findOccurrences = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("findOccurrences = %v, want %v", got, want)
		}
	}

	if got := findOccurrences([]rune("あ"), []rune("ああ")); got != nil {
		t.Errorf("fragment longer than text: got %v, want nil", got)
	}
	if got := findOccurrences([]rune("ああ"), nil); got != nil {
		t.Errorf("empty fragment: got %v, want nil", got)
	}
}
