package effectchain

import (
	"errors"
	"fmt"
	"sort"
)

// Factory builds one Effect for a fixed channel count.
type Factory func(numChannels int, params Params) (Effect, error)

// Registry maps effect type names to their factories.
type Registry struct {
	factories map[string]Factory
}

var (
	// ErrDuplicateEffect is returned when a type name is registered twice.
	ErrDuplicateEffect = errors.New("duplicate effect type")
	// ErrUnknownEffect is returned when no factory is registered for a type name.
	ErrUnknownEffect = errors.New("unknown effect type")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given effect type.
func (r *Registry) Register(effectType string, factory Factory) error {
	if effectType == "" {
		return errors.New("empty effect type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[effectType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEffect, effectType)
	}

	r.factories[effectType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(effectType string, factory Factory) {
	err := r.Register(effectType, factory)
	if err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the factory for the given effect type, or nil.
func (r *Registry) Lookup(effectType string) Factory {
	return r.factories[effectType]
}

// New builds an effect of the given type.
func (r *Registry) New(effectType string, numChannels int, params Params) (Effect, error) {
	factory := r.Lookup(effectType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, effectType)
	}

	fx, err := factory(numChannels, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", effectType, err)
	}

	return fx, nil
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
