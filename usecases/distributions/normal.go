package distributions

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/probkit/probkit/entities/distribution"
)

// Normal is the univariate normal variant. It exists alongside MVNormal
// to keep the dispatch contract honest across variants: same capability
// set, same broadcasting rules, same quantile matrix shape. Its numerics
// come straight from distuv and are always available, so it has no
// provider and no missing-dependency failure mode.
type Normal struct {
	dist distuv.Normal
}

// NewNormal creates a univariate normal with the given mean and standard
// deviation.
func NewNormal(mu, sigma float64) *Normal {
	return &Normal{dist: distuv.Normal{Mu: mu, Sigma: sigma}}
}

// Dimension is always 1.
func (n *Normal) Dimension() int {
	return 1
}

// Format returns the display label, e.g. "N[1]".
func (n *Normal) Format() string {
	return fmt.Sprintf("N[%d]", n.Dimension())
}

// Mean returns the mean as a 1×1 matrix.
func (n *Normal) Mean() *mat.Dense {
	return mat.NewDense(1, 1, []float64{n.dist.Mu})
}

// Covariance returns the variance as a 1×1 matrix.
func (n *Normal) Covariance() *mat.SymDense {
	return mat.NewSymDense(1, []float64{n.dist.Sigma * n.dist.Sigma})
}

func (n *Normal) checkWidth(row []float64) error {
	if len(row) != 1 {
		return errors.Errorf("observation length doesn't match dimension: %d vs 1", len(row))
	}
	return nil
}

// Density evaluates the density at every input row, in input order.
func (n *Normal) Density(at distribution.Input, opts *distribution.QueryOptions) ([]float64, error) {
	return at.MapRows(func(row []float64) (float64, error) {
		if err := n.checkWidth(row); err != nil {
			return 0, err
		}
		return n.dist.Prob(row[0]), nil
	})
}

// LogDensity evaluates the density on the natural-log scale.
func (n *Normal) LogDensity(at distribution.Input, opts *distribution.QueryOptions) ([]float64, error) {
	return at.MapRows(func(row []float64) (float64, error) {
		if err := n.checkWidth(row); err != nil {
			return 0, err
		}
		return n.dist.LogProb(row[0]), nil
	})
}

// CDF evaluates P(X ≤ upper) at every input row.
func (n *Normal) CDF(upper distribution.Input, opts *distribution.QueryOptions) ([]float64, error) {
	return upper.MapRows(func(row []float64) (float64, error) {
		if err := n.checkWidth(row); err != nil {
			return 0, err
		}
		return n.dist.CDF(row[0]), nil
	})
}

// Quantile returns one row per probability level. With a single
// dimension the marginal and equicoordinate quantiles coincide.
func (n *Normal) Quantile(p []float64, qt distribution.QuantileType, opts *distribution.QueryOptions) (*mat.Dense, error) {
	switch qt {
	case distribution.QuantileMarginal, distribution.QuantileEquicoordinate, "":
	default:
		return nil, fmt.Errorf("unknown quantile type %q", qt)
	}

	out := newQuantileMatrix(len(p), 1)
	for i, prob := range p {
		out.Set(i, 0, n.dist.Mu+n.dist.Sigma*stdNormalQuantile(prob))
	}
	return out, nil
}

// Generate draws n independent samples. Seeding is the caller's
// responsibility via the ambient random source.
func (n *Normal) Generate(count int, opts *distribution.QueryOptions) ([][]float64, error) {
	if count < 0 {
		return nil, errors.Errorf("sample count must be non-negative, got: %d", count)
	}
	out := make([][]float64, count)
	for i := range out {
		out[i] = []float64{n.dist.Rand()}
	}
	return out, nil
}

var (
	_ distribution.Distribution = (*Normal)(nil)
	_ distribution.Distribution = (*MVNormal)(nil)
)
