// Package numerics implements the multivariate normal numerics provider
// on top of gonum: distmv for joint density and sampling, mat for the
// Cholesky factorization, distuv for the univariate building blocks of
// the joint CDF integrator and the equicoordinate quantile solver.
package numerics

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/probkit/probkit/entities/distribution"
)

const (
	defaultMaxPoints = 25000
	defaultAbsTol    = 1e-3

	// confidence factor for the Monte Carlo error estimate, in the
	// spirit of Genz's 3.5-sigma bound.
	errConfidence = 3.5

	// fixed seed for common random numbers inside the quantile solver,
	// so the CDF objective is a deterministic monotone function of the
	// threshold.
	quantileSeed = 0x5eed

	batchSize = 500

	// lower clamp for conditional probabilities fed to the univariate
	// quantile: keeps it finite, so zero Cholesky entries can't turn
	// 0·Inf into NaN.
	minProb = 1e-15
)

// GonumProvider answers the MVN numerics contract using gonum. The zero
// source means the ambient global source; seeding is the caller's
// responsibility.
type GonumProvider struct {
	logger logrus.FieldLogger
	src    rand.Source
}

// NewGonumProvider creates a provider drawing randomness from the global
// source. A nil logger falls back to the standard logrus logger.
func NewGonumProvider(logger logrus.FieldLogger) *GonumProvider {
	return NewGonumProviderWithSource(logger, nil)
}

// NewGonumProviderWithSource creates a provider drawing randomness from
// src.
func NewGonumProviderWithSource(logger logrus.FieldLogger, src rand.Source) *GonumProvider {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GonumProvider{logger: logger, src: src}
}

func checkShapes(mean []float64, cov *mat.SymDense, x []float64) error {
	if len(mean) == 0 {
		return errors.Errorf("mean vector must not be empty")
	}
	if cov == nil {
		return errors.Errorf("covariance matrix must not be nil")
	}
	if dim := cov.SymmetricDim(); dim != len(mean) {
		return errors.Errorf("covariance order doesn't match mean length: %d vs %d",
			dim, len(mean))
	}
	if x != nil && len(x) != len(mean) {
		return errors.Errorf("observation length doesn't match dimension: %d vs %d",
			len(x), len(mean))
	}
	return nil
}

// LogDensity evaluates the joint density at x on the natural-log scale.
func (g *GonumProvider) LogDensity(mean []float64, cov *mat.SymDense, x []float64) (float64, error) {
	if err := checkShapes(mean, cov, x); err != nil {
		return 0, err
	}
	dist, ok := distmv.NewNormal(mean, cov, nil)
	if !ok {
		return 0, errors.Errorf("covariance matrix is not positive definite")
	}
	return dist.LogProb(x), nil
}

// Sample draws n independent rows from the joint distribution using the
// Cholesky-transform sampler in distmv.
func (g *GonumProvider) Sample(mean []float64, cov *mat.SymDense, n int) ([][]float64, error) {
	if n < 0 {
		return nil, errors.Errorf("sample count must be non-negative, got: %d", n)
	}
	if err := checkShapes(mean, cov, nil); err != nil {
		return nil, err
	}
	dist, ok := distmv.NewNormal(mean, cov, g.src)
	if !ok {
		return nil, errors.Errorf("covariance matrix is not positive definite")
	}

	out := make([][]float64, n)
	for i := range out {
		out[i] = dist.Rand(nil)
	}
	return out, nil
}

// CDF evaluates P(X ≤ upper) and an estimate of the integration error.
// One dimension is closed-form; higher dimensions use sequential Monte
// Carlo integration over the Cholesky factor (Genz' method), spending at
// most opts.MaxPoints samples or stopping once the error estimate drops
// below opts.AbsTol + opts.RelTol·|value|.
func (g *GonumProvider) CDF(mean []float64, cov *mat.SymDense, upper []float64, opts distribution.NumericOptions) (float64, float64, error) {
	if err := checkShapes(mean, cov, upper); err != nil {
		return 0, 0, err
	}
	return g.mvnCDF(mean, cov, upper, opts, g.uniform())
}

// EquicoordinateQuantile solves P(X₁ ≤ c, ..., X_d ≤ c) = p for c by
// bisection over the joint CDF. Every CDF evaluation inside one solve
// reuses the same random number stream, so the objective is smooth and
// monotone. Boundary and out-of-range targets resolve through the
// univariate quantile math: 0 → -Inf, 1 → +Inf, outside [0, 1] → NaN.
func (g *GonumProvider) EquicoordinateQuantile(mean []float64, cov *mat.SymDense, p float64, opts distribution.NumericOptions) (float64, error) {
	if err := checkShapes(mean, cov, nil); err != nil {
		return 0, err
	}

	z := math.Sqrt2 * math.Erfinv(2*p-1)
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return z, nil
	}

	d := len(mean)
	if d == 1 {
		return mean[0] + math.Sqrt(cov.At(0, 0))*z, nil
	}

	// Bracket the root: the joint probability at c is at most the
	// smallest marginal probability, and by Bonferroni at least
	// 1 - Σ(1-Φ_j(c)).
	zHi := math.Sqrt2 * math.Erfinv(2*(1-(1-p)/float64(d))-1)
	lo, hi := math.Inf(1), math.Inf(-1)
	for j := 0; j < d; j++ {
		sd := math.Sqrt(cov.At(j, j))
		lo = math.Min(lo, mean[j]+sd*z)
		hi = math.Max(hi, mean[j]+sd*zHi)
	}
	if hi <= lo {
		hi = lo + 1
	}

	eval := func(c float64) (float64, error) {
		bounds := make([]float64, d)
		for j := range bounds {
			bounds[j] = c
		}
		v, _, err := g.mvnCDF(mean, cov, bounds, opts, seededUniform(quantileSeed))
		return v, err
	}

	for iter := 0; iter < 80; iter++ {
		mid := 0.5 * (lo + hi)
		v, err := eval(mid)
		if err != nil {
			return 0, err
		}
		if v < p {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-9*(1+math.Abs(mid)) {
			break
		}
	}
	return 0.5 * (lo + hi), nil
}

func (g *GonumProvider) mvnCDF(mean []float64, cov *mat.SymDense, upper []float64, opts distribution.NumericOptions, uni distuv.Uniform) (float64, float64, error) {
	d := len(mean)

	if d == 1 {
		norm := distuv.Normal{Mu: mean[0], Sigma: math.Sqrt(cov.At(0, 0))}
		return norm.CDF(upper[0]), 0, nil
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return 0, 0, errors.Errorf("covariance matrix is not positive definite")
	}
	var lower mat.TriDense
	chol.LTo(&lower)

	b := make([]float64, d)
	for i := range b {
		b[i] = upper[i] - mean[i]
	}

	maxPoints := opts.MaxPoints
	if maxPoints <= 0 {
		maxPoints = defaultMaxPoints
	}
	absTol := opts.AbsTol
	if absTol <= 0 {
		absTol = defaultAbsTol
	}

	e1 := distuv.UnitNormal.CDF(b[0] / lower.At(0, 0))

	var sum, sumSq float64
	var value, errEst float64
	y := make([]float64, d-1)

	n := 0
	for n < maxPoints {
		for k := 0; k < batchSize; k++ {
			f := e1
			prev := e1
			for i := 1; i < d; i++ {
				if f == 0 {
					break
				}
				z := uni.Rand() * prev
				if z < minProb {
					z = minProb
				}
				y[i-1] = distuv.UnitNormal.Quantile(z)

				q := b[i]
				for j := 0; j < i; j++ {
					q -= lower.At(i, j) * y[j]
				}
				e := distuv.UnitNormal.CDF(q / lower.At(i, i))
				f *= e
				prev = e
			}
			sum += f
			sumSq += f * f
		}
		n += batchSize

		value = sum / float64(n)
		variance := (sumSq - sum*sum/float64(n)) / float64(n-1)
		if variance < 0 {
			variance = 0
		}
		errEst = errConfidence * math.Sqrt(variance/float64(n))
		if errEst < absTol+opts.RelTol*math.Abs(value) {
			return value, errEst, nil
		}
	}

	g.logger.WithField("action", "mvn_cdf").
		Debugf("error estimate %.3g above tolerance after %d points", errEst, n)
	return value, errEst, nil
}

func (g *GonumProvider) uniform() distuv.Uniform {
	return distuv.Uniform{Min: 0, Max: 1, Src: g.src}
}

func seededUniform(seed uint64) distuv.Uniform {
	return distuv.Uniform{Min: 0, Max: 1, Src: rand.NewSource(seed)}
}
