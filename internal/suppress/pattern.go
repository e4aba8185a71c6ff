package suppress

// Kind identifies the detection strategy that produced a [Pattern].
// The set is closed: the rewrite stage switches exhaustively over it, so
// adding a kind is a compile-time-visible change.
type Kind int

const (
	// KindExactPhrase is a verbatim phrase of 2–18 characters repeated
	// across the text.
	KindExactPhrase Kind = iota

	// KindCharacterRun is a single kana character repeated 3+ times
	// consecutively.
	KindCharacterRun

	// KindWord is a tokenized word repeated within a bounded distance.
	KindWord

	// KindPhonetic is a group of distinct surface forms sharing one
	// phonetic normalization. Detect-only: it never rewrites text.
	KindPhonetic

	// KindAlphanumericRun is an ASCII letter/digit (or its full-width
	// variant) repeated 3+ times consecutively.
	KindAlphanumericRun

	// KindInterjection is an overused vowel-run, punctuation-run, or
	// elongation pattern from a fixed table.
	KindInterjection

	// KindLemmaForm is a group of words sharing one lemma, produced only
	// when a [Normalizer] is attached. Detect-only like KindPhonetic.
	KindLemmaForm
)

// String returns the kind's stable lowercase name.
func (k Kind) String() string {
	switch k {
	case KindExactPhrase:
		return "exact_phrase"
	case KindCharacterRun:
		return "character_run"
	case KindWord:
		return "word"
	case KindPhonetic:
		return "phonetic"
	case KindAlphanumericRun:
		return "alphanumeric_run"
	case KindInterjection:
		return "interjection"
	case KindLemmaForm:
		return "lemma_form"
	}
	return "unknown"
}

// Protection marks a pattern as exempt from rewriting.
type Protection int

const (
	ProtectionNone Protection = iota

	// ProtectionRhetorical covers deliberate short repeats separated by
	// pause marks and enumerated poetic markers.
	ProtectionRhetorical

	// ProtectionOnomatopoeic covers sound-symbolic doublets (ドキドキ)
	// and dialectal affirmation doublets (そやそや).
	ProtectionOnomatopoeic

	// ProtectionLyrical covers song-like refrains containing line breaks
	// or musical-note markers.
	ProtectionLyrical
)

// String returns the protection's stable lowercase name.
func (p Protection) String() string {
	switch p {
	case ProtectionRhetorical:
		return "rhetorical"
	case ProtectionOnomatopoeic:
		return "onomatopoeic"
	case ProtectionLyrical:
		return "lyrical"
	}
	return "none"
}

// Outcome records what happened to a pattern during suppression.
type Outcome int

const (
	// OutcomePending means the pattern has not been processed yet. No
	// pattern in a finished [Result] carries this value.
	OutcomePending Outcome = iota

	// OutcomeSuppressed means a rewrite changed the text.
	OutcomeSuppressed

	// OutcomeMissed means the rewrite produced no textual change.
	OutcomeMissed

	// OutcomeOverCompressed means the rewrite changed the text but tripped
	// the over-compression guard. The rewritten text is kept.
	OutcomeOverCompressed

	// OutcomeSkipped means the pattern was never rewritten: either it was
	// protected, or the overlap resolver discarded it in favour of a
	// longer or more severe pattern.
	OutcomeSkipped
)

// String returns the outcome's stable lowercase name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeMissed:
		return "missed"
	case OutcomeOverCompressed:
		return "over_compressed"
	case OutcomeSkipped:
		return "skipped"
	}
	return "pending"
}

// Pattern is one candidate repeated fragment found by the detector.  All
// offsets are rune offsets into the pre-filtered text the detector ran
// over; they stay valid until the rewrite stage starts mutating text.
type Pattern struct {
	// Text is the fragment's surface form. For group kinds (phonetic,
	// lemma) it is the most frequent surface form in the group.
	Text string

	// Occurrences holds the rune offsets where the fragment starts,
	// ascending. Never empty.
	Occurrences []int

	// Kind identifies the detection strategy.
	Kind Kind

	// Severity is the pattern's disruption score in [0,1]. It grows with
	// occurrence count and fragment length; the formula per kind lives in
	// [Policy].
	Severity float64

	// Protection is set by the protection classifier. A protected pattern
	// always finishes as OutcomeSkipped.
	Protection Protection

	// NormalizedForm is the canonical form for group kinds. Matching only,
	// never emitted into output text.
	NormalizedForm string

	// Similarity is the best pairwise surface similarity within a phonetic
	// group, 0 for other kinds.
	Similarity float64

	// Outcome is OutcomePending until the engine finishes the call.
	Outcome Outcome
}

// Count returns the number of occurrences.
func (p *Pattern) Count() int { return len(p.Occurrences) }

// runeLen returns the fragment length in runes.
func (p *Pattern) runeLen() int { return len([]rune(p.Text)) }
