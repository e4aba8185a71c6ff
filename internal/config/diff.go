package config

import "maps"

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked.
type ConfigDiff struct {
	LogLevelChanged   bool
	NewLogLevel       LogLevel
	SuppressorChanged bool // shared engine thresholds changed
	NormalizerChanged bool
	CharactersChanged bool            // true if any character entry changed
	CharacterChanges  []CharacterDiff // per-character diffs
}

// CharacterDiff describes what changed for a single character between two
// configs.
type CharacterDiff struct {
	Name                string
	AlternativesChanged bool
	SuppressorChanged   bool
	Added               bool
	Removed             bool
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.LogLevel != new.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.LogLevel
	}

	if old.Suppressor != new.Suppressor || !alternativesEqual(old.Alternatives, new.Alternatives) {
		d.SuppressorChanged = true
	}

	if old.Normalizer.Name != new.Normalizer.Name {
		d.NormalizerChanged = true
	}

	// Build character lookup maps keyed by name.
	oldChars := make(map[string]*CharacterConfig, len(old.Characters))
	for i := range old.Characters {
		oldChars[old.Characters[i].Name] = &old.Characters[i]
	}
	newChars := make(map[string]*CharacterConfig, len(new.Characters))
	for i := range new.Characters {
		newChars[new.Characters[i].Name] = &new.Characters[i]
	}

	// Detect modified and removed characters.
	for name, oldCh := range oldChars {
		newCh, exists := newChars[name]
		if !exists {
			d.CharacterChanges = append(d.CharacterChanges, CharacterDiff{
				Name:    name,
				Removed: true,
			})
			d.CharactersChanged = true
			continue
		}
		cd := diffCharacter(name, oldCh, newCh)
		if cd.AlternativesChanged || cd.SuppressorChanged {
			d.CharacterChanges = append(d.CharacterChanges, cd)
			d.CharactersChanged = true
		}
	}

	// Detect added characters.
	for name := range newChars {
		if _, exists := oldChars[name]; !exists {
			d.CharacterChanges = append(d.CharacterChanges, CharacterDiff{
				Name:  name,
				Added: true,
			})
			d.CharactersChanged = true
		}
	}

	return d
}

// diffCharacter compares two character configs with the same name.
func diffCharacter(name string, old, new *CharacterConfig) CharacterDiff {
	cd := CharacterDiff{Name: name}

	if !alternativesEqual(old.Alternatives, new.Alternatives) {
		cd.AlternativesChanged = true
	}

	switch {
	case old.Suppressor == nil && new.Suppressor == nil:
	case old.Suppressor == nil || new.Suppressor == nil:
		cd.SuppressorChanged = true
	case *old.Suppressor != *new.Suppressor:
		cd.SuppressorChanged = true
	}

	return cd
}

// alternativesEqual compares two replacement tables by value.
func alternativesEqual(a, b map[string][]string) bool {
	return maps.EqualFunc(a, b, func(x, y []string) bool {
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	})
}
