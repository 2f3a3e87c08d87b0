// Package tracer adapts the Jaeger tracer bootstrap from
// Chapter11/tracing/tracer/tracer.go to a pipeline that may or may not want
// tracing: when disabled, GetTracer hands back an opentracing.NoopTracer so
// the rest of the code never has to branch on whether tracing is on.
package tracer

import (
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Pool keeps track of instantiated tracers so their underlying reporters can
// be flushed and closed once, at process shutdown.
var Pool = new(pool)

type pool struct {
	mu      sync.Mutex
	closers []io.Closer
}

// Close flushes and closes every tracer ever handed out by GetTracer with
// enabled=true, aggregating any errors encountered.
func (p *pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	for _, closer := range p.closers {
		if cErr := closer.Close(); cErr != nil {
			err = multierror.Append(err, cErr)
		}
	}
	p.closers = nil
	return err
}

// GetTracer returns a tracer for serviceName. When enabled is false (the
// default — textpipe never requires a reachable Jaeger agent to run) it
// returns opentracing.NoopTracer{}, which makes every span a cheap no-op.
// When enabled is true it configures a real Jaeger tracer from the
// environment, sampling every span, and registers its closer with Pool.
func GetTracer(serviceName string, enabled bool) (opentracing.Tracer, error) {
	if !enabled {
		return opentracing.NoopTracer{}, nil
	}

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, err
	}

	cfg.Sampler = &jaegercfg.SamplerConfig{
		Type:  jaeger.SamplerTypeConst,
		Param: 1,
	}
	cfg.ServiceName = serviceName

	tr, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, err
	}

	Pool.mu.Lock()
	Pool.closers = append(Pool.closers, closer)
	Pool.mu.Unlock()

	return tr, nil
}
