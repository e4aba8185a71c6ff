package suppress

import (
	"math"
	"time"
)

// Metrics quantifies one suppression call. Lengths and the compression
// rate are measured in runes, matching the offsets used everywhere else
// in the engine.
type Metrics struct {
	// InputLength and OutputLength are the original and final text
	// lengths in runes.
	InputLength  int
	OutputLength int

	// PatternsDetected counts candidates that survived the severity
	// filter; discarded low-severity candidates are never reported.
	PatternsDetected int

	// PatternsSuppressed, DetectionMisses, and OverCompressions count
	// finalized patterns by outcome. OverCompressions is advisory: the
	// flagged rewrites were kept.
	PatternsSuppressed int
	DetectionMisses    int
	OverCompressions   int

	// NgramBlocksApplied and LatinBlocksApplied count pre-processing
	// deletions before structured analysis.
	NgramBlocksApplied int
	LatinBlocksApplied int

	// RhetoricalExceptions counts candidates the protection classifier
	// exempted from rewriting.
	RhetoricalExceptions int

	// CompressionRate is the fractional length reduction, 0 for empty
	// input.
	CompressionRate float64

	// SuccessRate is the composite [0,1] score from the success model.
	SuccessRate float64

	// ProcessingTime is the wall-clock duration of the call.
	ProcessingTime time.Duration
}

// successRate implements the composite success model. The branch
// constants are policy values, not derived quantities; see [Policy].
func successRate(pol Policy, cfg Config, detected, suppressed int, compressionRate float64) float64 {
	switch {
	case detected == 0:
		return 1
	case suppressed > 0:
		return math.Max(pol.SuppressedScoreFloor, float64(suppressed)/float64(detected))
	case compressionRate >= cfg.MinCompressRate:
		return pol.CompressTargetScore
	case compressionRate > 0:
		return math.Max(pol.PartialScoreFloor, compressionRate/cfg.MinCompressRate*pol.PartialScoreScale)
	default:
		return 0
	}
}
