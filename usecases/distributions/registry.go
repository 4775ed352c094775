package distributions

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/probkit/probkit/entities/distribution"
)

// Params is the named-parameter list a variant factory consumes, plus
// optional dimension-name metadata (display only).
type Params struct {
	Named          map[string]interface{}
	DimensionNames []string
}

// Factory builds a variant instance from named parameters. numerics may
// be nil for variants that don't need a provider.
type Factory func(p Params, numerics Numerics) (distribution.Distribution, error)

// Registry dispatches construction by variant tag. It mirrors the
// runtime method dispatch of the surrounding framework: callers name a
// variant ("mvnormal", "normal") and get back a Distribution.
type Registry struct {
	sync.Mutex
	logger    logrus.FieldLogger
	factories map[string]Factory
}

// NewRegistry creates an empty registry. A nil logger falls back to the
// standard logrus logger.
func NewRegistry(logger logrus.FieldLogger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		logger:    logger,
		factories: map[string]Factory{},
	}
}

// NewDefaultRegistry creates a registry with the built-in variants
// registered.
func NewDefaultRegistry(logger logrus.FieldLogger) *Registry {
	r := NewRegistry(logger)
	r.Register("mvnormal", mvnormalFactory)
	r.Register("normal", normalFactory)
	return r
}

// Register adds or replaces the factory for a variant tag.
func (r *Registry) Register(tag string, f Factory) {
	r.Lock()
	defer r.Unlock()
	r.factories[tag] = f
	r.logger.WithField("action", "register_distribution").
		WithField("variant", tag).
		Debug("registered distribution variant")
}

// New constructs an instance of the tagged variant.
func (r *Registry) New(tag string, p Params, numerics Numerics) (distribution.Distribution, error) {
	r.Lock()
	f, ok := r.factories[tag]
	r.Unlock()
	if !ok {
		return nil, errors.Errorf("no distribution variant registered for tag %q", tag)
	}

	d, err := f(p, numerics)
	if err != nil {
		return nil, errors.Wrapf(err, "construct %q", tag)
	}
	return d, nil
}

func mvnormalFactory(p Params, numerics Numerics) (distribution.Distribution, error) {
	var mean []float64
	if raw, ok := p.Named["mu"]; ok {
		mean, ok = raw.([]float64)
		if !ok {
			return nil, errors.Errorf("parameter \"mu\" must be []float64, got %T", raw)
		}
	}

	var cov *mat.SymDense
	if raw, ok := p.Named["sigma"]; ok {
		cov, ok = raw.(*mat.SymDense)
		if !ok {
			return nil, errors.Errorf("parameter \"sigma\" must be *mat.SymDense, got %T", raw)
		}
	}

	m := NewMVNormal(mean, cov, numerics)
	if len(p.DimensionNames) > 0 {
		m.SetDimensionNames(p.DimensionNames...)
	}
	return m, nil
}

func normalFactory(p Params, _ Numerics) (distribution.Distribution, error) {
	mu, sigma := 0.0, 1.0
	if raw, ok := p.Named["mu"]; ok {
		mu, ok = raw.(float64)
		if !ok {
			return nil, errors.Errorf("parameter \"mu\" must be float64, got %T", raw)
		}
	}
	if raw, ok := p.Named["sigma"]; ok {
		sigma, ok = raw.(float64)
		if !ok {
			return nil, errors.Errorf("parameter \"sigma\" must be float64, got %T", raw)
		}
	}
	return NewNormal(mu, sigma), nil
}
