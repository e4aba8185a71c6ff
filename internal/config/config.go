// Package config provides the configuration schema, loader, normalizer
// registry, and file watcher for the Refrain repetition suppressor.
package config

import "github.com/yomogi-ai/refrain/internal/suppress"

// LogLevel controls log verbosity for the Refrain CLI.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for Refrain.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// LogLevel controls verbosity. Empty means info.
	LogLevel LogLevel `yaml:"log_level"`

	// Suppressor holds the engine thresholds shared by every character.
	Suppressor suppress.Config `yaml:"suppressor"`

	// Normalizer selects the lemma normalizer registered in the [Registry].
	// Empty disables lemma-form detection.
	Normalizer NormalizerEntry `yaml:"normalizer"`

	// Alternatives merges extra replacement phrases over the built-in
	// table for every character.
	Alternatives map[string][]string `yaml:"alternatives"`

	// Characters lists per-speaker overrides.
	Characters []CharacterConfig `yaml:"characters"`
}

// NormalizerEntry is the configuration block selecting a lemma normalizer.
// The Name field is used to look up the constructor in the [Registry].
type NormalizerEntry struct {
	// Name selects the registered normalizer implementation (e.g., "inflection").
	Name string `yaml:"name"`

	// Options holds normalizer-specific configuration values.
	// Values may be strings, numbers, booleans, or nested maps.
	Options map[string]any `yaml:"options"`
}

// CharacterConfig describes one speaker's repetition habits and overrides.
// SuppressCharacter calls carrying this character's name use an engine built
// from these settings layered over the shared ones.
type CharacterConfig struct {
	// Name is the speaker's display name as passed to SuppressCharacter.
	Name string `yaml:"name"`

	// Alternatives merges replacement phrases for this character's verbal
	// tics over the shared table. Character entries win on key collision.
	Alternatives map[string][]string `yaml:"alternatives"`

	// Suppressor, when set, replaces the shared engine thresholds for this
	// character. Omitted fields take the documented defaults, not the
	// shared values.
	Suppressor *suppress.Config `yaml:"suppressor"`
}
