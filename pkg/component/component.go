// pkg/component/component.go
package component

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrConfiguration indicates a defect in the static component declarations
var ErrConfiguration = errors.New("invalid component configuration")

// ConfigError describes a rejected declaration
type ConfigError struct {
	Name   string // Name as passed to Declare
	Reason string // Why it was rejected
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("component: %s", e.Reason)
	}
	return fmt.Sprintf("component '%s': %s", e.Name, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// Component identifies one third-party library linked into the plugin module
type Component struct {
	Name string
}

// String returns the component name
func (c Component) String() string {
	return c.Name
}

// Builder accumulates component declarations before they are frozen into a Registry
type Builder struct {
	components []Component
	seen       map[string]struct{}
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		seen: make(map[string]struct{}),
	}
}

// Declare registers a component identifier.
// Empty, duplicate and path-like names are rejected and leave the builder
// untouched.
func (b *Builder) Declare(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ConfigError{Name: name, Reason: "name is required"}
	}
	if !isPathElement(name) {
		return &ConfigError{Name: name, Reason: "name must be a single path element"}
	}
	if _, ok := b.seen[name]; ok {
		return &ConfigError{Name: name, Reason: "already declared"}
	}

	b.seen[name] = struct{}{}
	b.components = append(b.components, Component{Name: name})
	return nil
}

// isPathElement reports whether name maps to exactly one file below the
// platform artifact directory on every host.
func isPathElement(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return name == filepath.Base(name)
}

// DeclareAll declares names in order, stopping at the first failure
func (b *Builder) DeclareAll(names ...string) error {
	for _, name := range names {
		if err := b.Declare(name); err != nil {
			return err
		}
	}
	return nil
}

// Build freezes the current declarations into an immutable Registry
func (b *Builder) Build() *Registry {
	components := make([]Component, len(b.components))
	copy(components, b.components)

	index := make(map[string]int, len(components))
	for i, c := range components {
		index[c.Name] = i
	}

	return &Registry{
		components: components,
		index:      index,
	}
}

// Registry is the frozen, ordered set of components a module links against.
// It is never mutated after Build and is safe to share.
type Registry struct {
	components []Component
	index      map[string]int
}

// New builds a Registry from names in one step
func New(names ...string) (*Registry, error) {
	b := NewBuilder()
	if err := b.DeclareAll(names...); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// All returns the components in declaration order.
// Each call returns a fresh slice, so iteration never consumes the registry.
func (r *Registry) All() []Component {
	out := make([]Component, len(r.components))
	copy(out, r.components)
	return out
}

// Names returns the component names in declaration order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components))
	for _, c := range r.components {
		names = append(names, c.Name)
	}
	return names
}

// Len returns the number of registered components
func (r *Registry) Len() int {
	return len(r.components)
}

// Contains reports whether name has been declared
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}
