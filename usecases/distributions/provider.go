package distributions

import (
	"gonum.org/v1/gonum/mat"

	"github.com/probkit/probkit/entities/distribution"
)

// Numerics is the multivariate normal numerics provider the MVNormal
// variant delegates to. Implementations own all the heavy lifting: joint
// density evaluation, joint CDF integration, equicoordinate quantile
// solving and covariance-aware sampling. Shape checks happen here, not in
// the variant; a provider error propagates to the caller unchanged.
type Numerics interface {
	// LogDensity evaluates the joint density at x on the natural-log
	// scale.
	LogDensity(mean []float64, cov *mat.SymDense, x []float64) (float64, error)

	// CDF evaluates P(X ≤ upper) and returns the value together with an
	// estimate of the integration error. Callers that only need the
	// probability discard the estimate.
	CDF(mean []float64, cov *mat.SymDense, upper []float64, opts distribution.NumericOptions) (value, errEstimate float64, err error)

	// EquicoordinateQuantile solves P(X₁ ≤ c, ..., X_d ≤ c) = p for c.
	EquicoordinateQuantile(mean []float64, cov *mat.SymDense, p float64, opts distribution.NumericOptions) (float64, error)

	// Sample draws n independent rows from the joint distribution.
	Sample(mean []float64, cov *mat.SymDense, n int) ([][]float64, error)
}

const numericsDependency = "a multivariate normal numerics provider"
