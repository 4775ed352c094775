// Package distributions contains the distribution variants and the
// variant dispatch registry. Each variant implements the capability set
// in entities/distribution; the multivariate normal variant delegates
// its numerics to an injected provider.
package distributions

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/probkit/probkit/entities/distribution"
)

// MVNormal is the multivariate normal variant, parameterized by a mean
// vector and a covariance matrix. It is an immutable value; every
// operation is a pure function of the stored parameters and the call's
// inputs.
//
// The covariance matrix is not validated for symmetry or positive
// semi-definiteness at construction. A covariance the provider cannot
// work with surfaces as a provider error at query time.
type MVNormal struct {
	mean     []float64
	cov      *mat.SymDense
	dimNames []string
	numerics Numerics
}

// NewMVNormal creates an MVNormal from a mean vector and a covariance
// matrix. A nil mean defaults to zeros matching the covariance order; a
// nil covariance defaults to the identity matching the mean length; both
// nil gives the 1-dimensional standard normal. numerics may be nil, in
// which case every provider-requiring operation fails with a
// MissingDependencyError.
func NewMVNormal(mean []float64, cov *mat.SymDense, numerics Numerics) *MVNormal {
	switch {
	case len(mean) == 0 && cov == nil:
		mean = []float64{0}
		cov = identity(1)
	case len(mean) == 0:
		mean = make([]float64, cov.SymmetricDim())
	case cov == nil:
		cov = identity(len(mean))
	}

	m := make([]float64, len(mean))
	copy(m, mean)

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	return &MVNormal{mean: m, cov: c, numerics: numerics}
}

// NewMVNormalCollection builds a vectorized collection with one instance
// per (mean, covariance) pair. The two lists must have equal length.
func NewMVNormalCollection(means [][]float64, covs []*mat.SymDense, numerics Numerics) (distribution.Collection, error) {
	if len(means) != len(covs) {
		return nil, fmt.Errorf("mean and covariance counts don't match: %d vs %d",
			len(means), len(covs))
	}

	out := make(distribution.Collection, len(means))
	for i := range means {
		out[i] = NewMVNormal(means[i], covs[i], numerics)
	}
	return out, nil
}

func identity(d int) *mat.SymDense {
	m := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		m.SetSym(i, i, 1)
	}
	return m
}

// SetDimensionNames attaches display labels for the dimensions. The
// labels are never used for computation.
func (m *MVNormal) SetDimensionNames(names ...string) {
	m.dimNames = make([]string, len(names))
	copy(m.dimNames, names)
}

// DimensionNames returns the attached display labels, or nil.
func (m *MVNormal) DimensionNames() []string {
	return m.dimNames
}

// Dimension returns the length of the mean vector.
func (m *MVNormal) Dimension() int {
	return len(m.mean)
}

// Format returns the display label, e.g. "MVN[2]".
func (m *MVNormal) Format() string {
	return fmt.Sprintf("MVN[%d]", m.Dimension())
}

// Mean returns the mean vector as a 1×d row matrix.
func (m *MVNormal) Mean() *mat.Dense {
	row := make([]float64, len(m.mean))
	copy(row, m.mean)
	return mat.NewDense(1, len(row), row)
}

// Covariance returns a copy of the d×d covariance matrix.
func (m *MVNormal) Covariance() *mat.SymDense {
	c := mat.NewSymDense(m.cov.SymmetricDim(), nil)
	c.CopySym(m.cov)
	return c
}

func (m *MVNormal) requireNumerics(operation string) error {
	if m.numerics == nil {
		return distribution.NewMissingDependency(operation, numericsDependency)
	}
	return nil
}

// Density evaluates the joint density at every input row, in input
// order.
func (m *MVNormal) Density(at distribution.Input, opts *distribution.QueryOptions) ([]float64, error) {
	if err := m.requireNumerics("density"); err != nil {
		return nil, err
	}
	return at.MapRows(func(row []float64) (float64, error) {
		lp, err := m.numerics.LogDensity(m.mean, m.cov, row)
		if err != nil {
			return 0, err
		}
		return math.Exp(lp), nil
	})
}

// LogDensity evaluates the joint density on the natural-log scale. The
// provider computes on the log scale directly; the value is never
// obtained as log(Density(...)).
func (m *MVNormal) LogDensity(at distribution.Input, opts *distribution.QueryOptions) ([]float64, error) {
	if err := m.requireNumerics("log_density"); err != nil {
		return nil, err
	}
	return at.MapRows(func(row []float64) (float64, error) {
		return m.numerics.LogDensity(m.mean, m.cov, row)
	})
}

// CDF evaluates P(X ≤ upper) for every input row of per-dimension upper
// bounds. The provider's integration error estimate is discarded.
func (m *MVNormal) CDF(upper distribution.Input, opts *distribution.QueryOptions) ([]float64, error) {
	if err := m.requireNumerics("cdf"); err != nil {
		return nil, err
	}
	numOpts := distribution.NumericOptionsOf(opts)
	return upper.MapRows(func(row []float64) (float64, error) {
		v, _, err := m.numerics.CDF(m.mean, m.cov, row, numOpts)
		return v, err
	})
}

// Quantile returns one row per probability level and one column per
// dimension.
//
// The marginal type treats every dimension as an independent univariate
// normal with its own marginal mean and variance; it is closed-form and
// needs no provider. The equicoordinate type solves for the scalar c
// with P(X₁ ≤ c, ..., X_d ≤ c) = p via the provider, except at the
// boundaries p=0 and p=1 which map to -Inf and +Inf without a delegate
// call. Probabilities outside [0, 1] yield NaN entries.
func (m *MVNormal) Quantile(p []float64, qt distribution.QuantileType, opts *distribution.QueryOptions) (*mat.Dense, error) {
	d := m.Dimension()

	switch qt {
	case distribution.QuantileMarginal, "":
		out := newQuantileMatrix(len(p), d)
		for i, prob := range p {
			for j := 0; j < d; j++ {
				sd := math.Sqrt(m.cov.At(j, j))
				out.Set(i, j, m.mean[j]+sd*stdNormalQuantile(prob))
			}
		}
		return out, nil

	case distribution.QuantileEquicoordinate:
		if err := m.requireNumerics("quantile"); err != nil {
			return nil, err
		}
		numOpts := distribution.NumericOptionsOf(opts)
		out := newQuantileMatrix(len(p), d)
		for i, prob := range p {
			var c float64
			switch {
			case prob == 0:
				c = math.Inf(-1)
			case prob == 1:
				c = math.Inf(1)
			default:
				var err error
				c, err = m.numerics.EquicoordinateQuantile(m.mean, m.cov, prob, numOpts)
				if err != nil {
					return nil, err
				}
			}
			for j := 0; j < d; j++ {
				out.Set(i, j, c)
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown quantile type %q", qt)
	}
}

// Generate draws n independent samples via the provider's sampler.
// Seeding is the caller's responsibility through the provider's random
// source.
func (m *MVNormal) Generate(n int, opts *distribution.QueryOptions) ([][]float64, error) {
	if err := m.requireNumerics("generate"); err != nil {
		return nil, err
	}
	return m.numerics.Sample(m.mean, m.cov, n)
}

func newQuantileMatrix(rows, cols int) *mat.Dense {
	if rows == 0 || cols == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(rows, cols, nil)
}

// stdNormalQuantile is the closed-form standard normal quantile. Unlike
// the distuv implementation it does not panic outside [0, 1]; it returns
// whatever the inverse error function produces there (NaN).
func stdNormalQuantile(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
