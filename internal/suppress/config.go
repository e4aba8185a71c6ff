package suppress

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable threshold of the engine. Construct it with
// [DefaultConfig] and override individual fields; [New] rejects out-of-range
// values instead of clamping them.
type Config struct {
	// SimilarityThreshold is the minimum Jaro-Winkler similarity two
	// surface forms must reach to be merged into one phonetic group.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// MaxDistance is the maximum rune gap between consecutive occurrences
	// for word-repetition linkage.
	MaxDistance int `yaml:"max_distance"`

	// MinCompressRate is the compression-rate floor used by the
	// success-rate model.
	MinCompressRate float64 `yaml:"min_compress_rate"`

	// NgramBlockSize is the window size for the n-gram dedup pre-filter.
	NgramBlockSize int `yaml:"ngram_block_size"`

	// EnableNgramBlocking toggles the n-gram dedup pre-filter.
	EnableNgramBlocking bool `yaml:"enable_4gram_blocking"`

	// DRPBase is the dynamic repeat-penalty base.
	DRPBase float64 `yaml:"drp_base"`

	// DRPAlpha is the dynamic repeat-penalty slope.
	DRPAlpha float64 `yaml:"drp_alpha"`

	// DRPWindow is the trailing window size, in runes, for the dynamic
	// repeat-penalty filter.
	DRPWindow int `yaml:"drp_window"`

	// EnableDRP toggles the dynamic repeat-penalty pre-filter.
	EnableDRP bool `yaml:"enable_drp"`

	// EnableLatinRunBlocking toggles the alphanumeric-run pre-clamp that
	// shortens letter/digit runs before structured analysis.
	EnableLatinRunBlocking bool `yaml:"enable_latin_run_blocking"`

	// EnableRhetoricalProtection toggles the protection classifier. When
	// false no candidate is protected.
	EnableRhetoricalProtection bool `yaml:"enable_rhetorical_protection"`

	// CharacterRepetitionLimit is the maximum consecutive repeats kept for
	// a kana character.
	CharacterRepetitionLimit int `yaml:"character_repetition_limit"`

	// EnableAggressiveMode enables the word-level detection strategy.
	EnableAggressiveMode bool `yaml:"enable_aggressive_mode"`
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:        0.35,
		MaxDistance:                50,
		MinCompressRate:            0.03,
		NgramBlockSize:             5,
		EnableNgramBlocking:        true,
		DRPBase:                    1.15,
		DRPAlpha:                   0.6,
		DRPWindow:                  8,
		EnableDRP:                  true,
		EnableLatinRunBlocking:     true,
		EnableRhetoricalProtection: true,
		CharacterRepetitionLimit:   3,
		EnableAggressiveMode:       true,
	}
}

// UnmarshalYAML decodes a YAML mapping over the defaults, so a config block
// only needs to name the fields it overrides.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	tmp := plain(DefaultConfig())
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*c = Config(tmp)
	return nil
}

// Validate range-checks every field and returns a joined error listing all
// violations found. A Config that validates cleanly builds a reusable,
// concurrency-safe engine.
func (c Config) Validate() error {
	var errs []error

	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("similarity_threshold %.2f is out of range [0, 1]", c.SimilarityThreshold))
	}
	if c.MaxDistance < 1 {
		errs = append(errs, fmt.Errorf("max_distance %d must be at least 1", c.MaxDistance))
	}
	if c.MinCompressRate < 0 || c.MinCompressRate > 1 {
		errs = append(errs, fmt.Errorf("min_compress_rate %.2f is out of range [0, 1]", c.MinCompressRate))
	}
	if c.NgramBlockSize < 2 {
		errs = append(errs, fmt.Errorf("ngram_block_size %d must be at least 2", c.NgramBlockSize))
	}
	if c.DRPBase <= 0 {
		errs = append(errs, fmt.Errorf("drp_base %.2f must be positive", c.DRPBase))
	}
	if c.DRPAlpha < 0 {
		errs = append(errs, fmt.Errorf("drp_alpha %.2f must not be negative", c.DRPAlpha))
	}
	if c.DRPWindow < 1 {
		errs = append(errs, fmt.Errorf("drp_window %d must be at least 1", c.DRPWindow))
	}
	if c.CharacterRepetitionLimit < 1 {
		errs = append(errs, fmt.Errorf("character_repetition_limit %d must be at least 1", c.CharacterRepetitionLimit))
	}

	return errors.Join(errs...)
}

// Policy collects the numeric constants behind severity scoring, the
// success-rate model, and the over-compression guard. None of these are
// derived from a stated model; they are tuning knobs, kept named and
// overridable via [WithPolicy] rather than buried as literals.
type Policy struct {
	// ExactSeverityDivisor scales exact-phrase severity:
	// min(1, count×length/divisor).
	ExactSeverityDivisor float64

	// WordSeverityDivisor scales word severity: min(1, count×length/divisor).
	WordSeverityDivisor float64

	// RunSeverityDivisor scales character/alphanumeric run severity:
	// min(1, run_length/divisor).
	RunSeverityDivisor float64

	// PhoneticSeverityDivisor scales phonetic-group severity:
	// min(1, occurrences/divisor).
	PhoneticSeverityDivisor float64

	// LemmaSeverityDivisor scales lemma-group severity:
	// min(1, occurrences/divisor).
	LemmaSeverityDivisor float64

	// InterjectionSeverityDivisor scales interjection severity:
	// min(1, occurrences/divisor).
	InterjectionSeverityDivisor float64

	// SeverityFloor discards candidates at or below this severity before
	// protection, resolution, and metrics.
	SeverityFloor float64

	// SuppressedScoreFloor is the minimum success rate reported once at
	// least one pattern was suppressed.
	SuppressedScoreFloor float64

	// CompressTargetScore is the success rate reported when nothing was
	// suppressed but the compression target was met.
	CompressTargetScore float64

	// PartialScoreFloor and PartialScoreScale shape the success rate for
	// positive compression below the target:
	// max(floor, rate/min_compress_rate × scale).
	PartialScoreFloor float64
	PartialScoreScale float64

	// OverCompressLengthRatio flags a rewrite whose output shrinks below
	// this fraction of its input length.
	OverCompressLengthRatio float64

	// StructuralDropRatio flags a rewrite that loses more than this
	// fraction of structural markers (sentence-final punctuation, quotes,
	// long kana runs).
	StructuralDropRatio float64
}

// DefaultPolicy returns the tuning constants the engine ships with.
func DefaultPolicy() Policy {
	return Policy{
		ExactSeverityDivisor:        8,
		WordSeverityDivisor:         20,
		RunSeverityDivisor:          5,
		PhoneticSeverityDivisor:     8,
		LemmaSeverityDivisor:        5,
		InterjectionSeverityDivisor: 3,
		SeverityFloor:               0.1,
		SuppressedScoreFloor:        0.75,
		CompressTargetScore:         0.8,
		PartialScoreFloor:           0.5,
		PartialScoreScale:           0.7,
		OverCompressLengthRatio:     0.5,
		StructuralDropRatio:         0.4,
	}
}
