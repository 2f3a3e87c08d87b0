// Package transform defines the pure, single-input single-output string
// transforms hosted by pipeline stages, and the static registry that stands
// in for the reference implementation's dynamic module loader (spec.md §1,
// "dynamic module loading... is a deployment concern").
package transform

import "fmt"

//go:generate mockgen -package mocks -destination ../stage/mocks/mock_transform.go github.com/textpipe/textpipe/internal/transform Transform

// Transform is a pure function from an owned line of bytes to a new owned
// line of bytes, or a failure. Implementations must not retain or mutate
// the input slice; ownership of the returned slice passes to the caller.
type Transform interface {
	Apply(line []byte) ([]byte, error)
}

// Func is an adapter allowing the use of plain functions as a Transform.
type Func func(line []byte) ([]byte, error)

// Apply calls f(line).
func (f Func) Apply(line []byte) ([]byte, error) { return f(line) }

// Factory builds a Transform from an opaque configuration string, per the
// stage module contract in spec.md §6. Config is unused by the reserved
// transform set but is threaded through so a deployment-specific factory
// (e.g. one backed by real dynamic loading) can make use of it.
type Factory func(config string) (Transform, error)

var registry = map[string]Factory{
	"upper":   func(string) (Transform, error) { return Func(Upper), nil },
	"lower":   func(string) (Transform, error) { return Func(Lower), nil },
	"reverse": func(string) (Transform, error) { return Func(Reverse), nil },
	"trim":    func(string) (Transform, error) { return Func(Trim), nil },
	"prefix":  func(string) (Transform, error) { return Func(Prefix), nil },
	"suffix":  func(string) (Transform, error) { return Func(Suffix), nil },
}

// Register adds, or replaces, the factory for name. Intended for use by
// deployments that want to extend the reserved transform set; it is not
// required for normal operation since the six reserved names are
// pre-registered.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// Lookup returns the Transform built from config by the factory registered
// under name. It returns an error if name is not registered.
func Lookup(name, config string) (Transform, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("transform: unknown stage %q", name)
	}
	return factory(config)
}

// Names returns the set of currently registered transform names, primarily
// for diagnostics and tests.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
