package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yomogi-ai/refrain/internal/suppress"
)

// ErrNormalizerNotRegistered is returned by [Registry.Create] when no
// factory has been registered under the requested normalizer name.
var ErrNormalizerNotRegistered = errors.New("config: normalizer not registered")

// Registry maps normalizer names to their constructor functions. It is safe
// for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	normalizers map[string]func(NormalizerEntry) (suppress.Normalizer, error)
}

// NewRegistry returns a [Registry] with the built-in normalizers already
// registered.
func NewRegistry() *Registry {
	r := &Registry{
		normalizers: make(map[string]func(NormalizerEntry) (suppress.Normalizer, error)),
	}
	r.Register("inflection", func(NormalizerEntry) (suppress.Normalizer, error) {
		return suppress.InflectionNormalizer{}, nil
	})
	return r
}

// Register registers a normalizer factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) Register(name string, factory func(NormalizerEntry) (suppress.Normalizer, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalizers[name] = factory
}

// Create instantiates a normalizer using the factory registered under
// entry.Name. An empty name yields a nil normalizer without error, which
// disables lemma-form detection. Returns [ErrNormalizerNotRegistered] if no
// factory has been registered for a non-empty name.
func (r *Registry) Create(entry NormalizerEntry) (suppress.Normalizer, error) {
	if entry.Name == "" {
		return nil, nil
	}
	r.mu.RLock()
	factory, ok := r.normalizers[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNormalizerNotRegistered, entry.Name)
	}
	return factory(entry)
}
