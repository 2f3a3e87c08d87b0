package stage

import (
	"github.com/textpipe/textpipe/internal/buffer"
	"github.com/textpipe/textpipe/internal/transform"
)

// Factory is the abstract stage-module contract from spec.md §6: given an
// input buffer and an output buffer, it returns a running Worker. Any opaque
// configuration string is bound when the Factory itself is constructed (see
// NewRegistryFactory), not passed to New. How a Factory is obtained (static registration,
// a build manifest, real dynamic loading) is a deployment concern the core
// is deliberately oblivious to.
type Factory interface {
	// Name returns the stage name this factory builds, for diagnostics.
	Name() string
	// New builds and starts a Worker wired to input and output.
	New(input, output *buffer.Buffer, opts ...Option) (*Worker, error)
}

// registryFactory is a Factory backed by the static transform registry
// (internal/transform). It is the only Factory implementation textpipe
// ships; a deployment wanting real dynamic loading would provide its own.
type registryFactory struct {
	name   string
	config string
}

// NewRegistryFactory returns a Factory that looks name up in the transform
// registry, passing config through to the transform's Factory function.
func NewRegistryFactory(name, config string) Factory {
	return &registryFactory{name: name, config: config}
}

func (f *registryFactory) Name() string { return f.name }

func (f *registryFactory) New(input, output *buffer.Buffer, opts ...Option) (*Worker, error) {
	tr, err := transform.Lookup(f.name, f.config)
	if err != nil {
		return nil, err
	}
	w := New(f.name, tr, input, output, opts...)
	w.Start()
	return w, nil
}
