// Package suppress detects and rewrites unwanted repetition in generated
// Japanese prose. An [Engine] runs a fixed pipeline over each input: cheap
// pre-processing blockers, six detection strategies, a protection classifier
// for deliberate rhetorical repetition, greedy overlap resolution, targeted
// rewriting, and a final cleanup pass. All analysis works on rune offsets.
package suppress

import (
	"context"
	"fmt"
	"time"
)

// Normalizer reduces a surface form to a canonical lemma. Plugging one in
// enables the lemma-grouping detection strategy; without it the strategy is
// skipped entirely.
type Normalizer interface {
	Normalize(word string) string
}

// Observer receives the metrics of every suppression call. Implementations
// must be safe for concurrent use.
type Observer interface {
	RecordSuppression(ctx context.Context, character string, m Metrics)
}

// Option customizes an [Engine] at construction time.
type Option func(*Engine)

// WithNormalizer installs a lemma normalizer, enabling lemma-form detection.
func WithNormalizer(n Normalizer) Option {
	return func(e *Engine) {
		e.normalizer = n
	}
}

// WithAlternatives merges caller-supplied replacement entries over the
// built-in table. Caller entries win on key collision.
func WithAlternatives(entries map[string][]string) Option {
	return func(e *Engine) {
		e.alts = e.alts.merge(entries)
	}
}

// WithPolicy replaces the built-in tuning constants.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithObserver registers an observer for per-call metrics.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// Engine is a reusable repetition suppressor. A constructed Engine is
// immutable and safe for concurrent use.
type Engine struct {
	cfg        Config
	policy     Policy
	alts       *AlternativesTable
	normalizer Normalizer
	observer   Observer
}

// New builds an Engine from cfg. Out-of-range configuration is rejected,
// never clamped.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suppressor configuration: %w", err)
	}
	e := &Engine{
		cfg:    cfg,
		policy: DefaultPolicy(),
		alts:   DefaultAlternatives(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Result is the outcome of one suppression call. Patterns holds every
// candidate that survived the severity filter, each with a final outcome;
// occurrence offsets refer to the text as it stood at detection time.
type Result struct {
	Original string
	Output   string
	Patterns []Pattern
	Metrics  Metrics
}

// Suppress rewrites repetitive stretches of text and reports what it found.
// It never fails: unrewritable patterns are reported as misses and the text
// passes through.
func (e *Engine) Suppress(ctx context.Context, text string) *Result {
	return e.SuppressCharacter(ctx, text, "")
}

// SuppressCharacter is [Engine.Suppress] with a speaker attribution that is
// forwarded to the observer, letting per-character repetition habits show up
// separately in recorded metrics.
func (e *Engine) SuppressCharacter(ctx context.Context, text, character string) *Result {
	start := time.Now()

	if text == "" {
		m := Metrics{SuccessRate: 1, ProcessingTime: time.Since(start)}
		if e.observer != nil {
			e.observer.RecordSuppression(ctx, character, m)
		}
		return &Result{Original: text, Output: text, Metrics: m}
	}

	original := []rune(text)
	working := make([]rune, len(original))
	copy(working, original)

	working, ngramBlocks, latinBlocks := e.applyBlockers(working)

	patterns := e.detect(working)
	e.classifyProtection(working, patterns)

	rhetorical := 0
	for i := range patterns {
		if patterns[i].Protection != ProtectionNone {
			patterns[i].Outcome = OutcomeSkipped
			rhetorical++
		}
	}

	accepted := resolveOverlaps(patterns)
	working = e.rewriteAll(working, patterns, accepted)

	// Candidates the resolver discarded were never attempted.
	for i := range patterns {
		if patterns[i].Outcome == OutcomePending {
			patterns[i].Outcome = OutcomeSkipped
		}
	}

	working = e.finalCleanup(working)

	m := Metrics{
		InputLength:          len(original),
		OutputLength:         len(working),
		PatternsDetected:     len(patterns),
		NgramBlocksApplied:   ngramBlocks,
		LatinBlocksApplied:   latinBlocks,
		RhetoricalExceptions: rhetorical,
	}
	for i := range patterns {
		switch patterns[i].Outcome {
		case OutcomeSuppressed:
			m.PatternsSuppressed++
		case OutcomeMissed:
			m.DetectionMisses++
		case OutcomeOverCompressed:
			m.OverCompressions++
		}
	}
	m.CompressionRate = float64(len(original)-len(working)) / float64(len(original))
	m.SuccessRate = successRate(e.policy, e.cfg, m.PatternsDetected, m.PatternsSuppressed, m.CompressionRate)
	m.ProcessingTime = time.Since(start)

	if e.observer != nil {
		e.observer.RecordSuppression(ctx, character, m)
	}

	return &Result{
		Original: text,
		Output:   string(working),
		Patterns: patterns,
		Metrics:  m,
	}
}
