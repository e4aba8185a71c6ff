package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/yomogi-ai/refrain/internal/suppress"
)

// ValidNormalizerNames lists normalizer names shipped with Refrain.
// Used by [Validate] to warn about unrecognised names, which may still be
// valid third-party registrations.
var ValidNormalizerNames = []string{"inflection"}

// Default returns the configuration used when no file is given: info
// logging, default engine thresholds, no normalizer, no characters.
func Default() *Config {
	return &Config{
		LogLevel:   LogInfo,
		Suppressor: suppress.DefaultConfig(),
	}
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
// Omitted suppressor blocks take the default thresholds, so a config file
// only needs to name what it overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if err := cfg.Suppressor.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("suppressor: %w", err))
	}

	validateNormalizerName(cfg.Normalizer.Name)

	if err := validateAlternatives("alternatives", cfg.Alternatives); err != nil {
		errs = append(errs, err)
	}

	// Character duplicate name detection.
	namesSeen := make(map[string]int, len(cfg.Characters))

	for i, ch := range cfg.Characters {
		prefix := fmt.Sprintf("characters[%d]", i)
		if ch.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else {
			if prev, ok := namesSeen[ch.Name]; ok {
				errs = append(errs, fmt.Errorf("%s.name %q is a duplicate of characters[%d]", prefix, ch.Name, prev))
			}
			namesSeen[ch.Name] = i
		}
		if err := validateAlternatives(prefix+".alternatives", ch.Alternatives); err != nil {
			errs = append(errs, err)
		}
		if ch.Suppressor != nil {
			if err := ch.Suppressor.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s.suppressor: %w", prefix, err))
			}
		}
	}

	return errors.Join(errs...)
}

// validateAlternatives rejects empty keys and empty replacement lists.
// Replacements longer than their key are legal here; the engine filters
// them at table construction.
func validateAlternatives(prefix string, entries map[string][]string) error {
	var errs []error
	for key, alts := range entries {
		if key == "" {
			errs = append(errs, fmt.Errorf("%s: empty phrase key", prefix))
			continue
		}
		if len(alts) == 0 {
			errs = append(errs, fmt.Errorf("%s[%q]: at least one replacement is required", prefix, key))
		}
		for _, alt := range alts {
			if alt == "" {
				errs = append(errs, fmt.Errorf("%s[%q]: empty replacement", prefix, key))
				break
			}
		}
	}
	return errors.Join(errs...)
}

// validateNormalizerName logs a warning if name is non-empty and not found in
// [ValidNormalizerNames].
func validateNormalizerName(name string) {
	if name == "" {
		return
	}
	if slices.Contains(ValidNormalizerNames, name) {
		return
	}
	slog.Warn("unknown normalizer name — may be a typo or third-party registration",
		"name", name,
		"known", ValidNormalizerNames,
	)
}
