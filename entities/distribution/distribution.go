// Package distribution holds the value types and contracts shared by all
// distribution variants: the polymorphic Distribution capability set, the
// broadcasting Input container for observation points, query options, the
// vectorized Collection, and the error taxonomy.
package distribution

import (
	"gonum.org/v1/gonum/mat"
)

// QuantileType selects between the two quantile algorithms a variant may
// support.
type QuantileType string

const (
	// QuantileMarginal computes per-dimension quantiles from each
	// dimension's own marginal mean and variance, ignoring correlations.
	QuantileMarginal QuantileType = "marginal"

	// QuantileEquicoordinate finds the scalar threshold c such that the
	// joint probability of every coordinate being at most c equals the
	// target probability.
	QuantileEquicoordinate QuantileType = "equicoordinate"
)

// NumericOptions is passed through to the numerics provider untouched.
// Zero values mean provider defaults.
type NumericOptions struct {
	// MaxPoints caps the number of integration points a Monte Carlo
	// based routine may spend per query.
	MaxPoints int

	// AbsTol and RelTol are the absolute and relative error targets for
	// approximate routines.
	AbsTol float64
	RelTol float64
}

// QueryOptions carries the per-call knobs every operation accepts. A nil
// *QueryOptions is always valid and means defaults.
type QueryOptions struct {
	// DropMissing is accepted on every operation for interface
	// uniformity across variants. The normal variants have no notion of
	// missing observations and ignore it.
	DropMissing bool

	// Numerics is passed through to the numerics provider.
	Numerics NumericOptions
}

// NumericOptionsOf extracts the provider pass-through from possibly-nil
// query options.
func NumericOptionsOf(o *QueryOptions) NumericOptions {
	if o == nil {
		return NumericOptions{}
	}
	return o.Numerics
}

// Distribution is the capability set every variant implements. All
// operations are pure functions of the stored parameters and their
// explicit inputs; implementations hold no mutable state.
type Distribution interface {
	// Dimension returns the parameter-space dimensionality d.
	Dimension() int

	// Format returns a short display label, e.g. "MVN[2]".
	Format() string

	// Mean returns the mean vector as a 1×d row matrix.
	Mean() *mat.Dense

	// Covariance returns the d×d covariance matrix.
	Covariance() *mat.SymDense

	// Density evaluates the density at every row of the input, in input
	// order, one value per row.
	Density(at Input, opts *QueryOptions) ([]float64, error)

	// LogDensity is like Density on the natural-log scale. It is
	// computed directly on the log scale, never as log(Density(...)).
	LogDensity(at Input, opts *QueryOptions) ([]float64, error)

	// CDF evaluates P(X ≤ upper) component-wise per input row, where
	// each row is a vector of per-dimension upper bounds.
	CDF(upper Input, opts *QueryOptions) ([]float64, error)

	// Quantile returns a matrix with one row per probability level and
	// one column per dimension.
	Quantile(p []float64, qt QuantileType, opts *QueryOptions) (*mat.Dense, error)

	// Generate draws n independent samples, one row of length d each.
	Generate(n int, opts *QueryOptions) ([][]float64, error)
}
