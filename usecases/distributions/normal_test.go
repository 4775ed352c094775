package distributions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probkit/probkit/entities/distribution"
)

func TestNormal(t *testing.T) {
	n := NewNormal(3, 2)

	t.Run("parameters", func(t *testing.T) {
		assert.Equal(t, 1, n.Dimension())
		assert.Equal(t, "N[1]", n.Format())
		assert.Equal(t, 3.0, n.Mean().At(0, 0))
		assert.Equal(t, 4.0, n.Covariance().At(0, 0))
	})

	t.Run("density matches the closed form at the mean", func(t *testing.T) {
		out, err := n.Density(distribution.Point(3), nil)
		require.Nil(t, err)
		require.Len(t, out, 1)
		assert.InDelta(t, 1/(2*math.Sqrt(2*math.Pi)), out[0], 1e-12)
	})

	t.Run("log density agrees with log of density", func(t *testing.T) {
		at := distribution.Point(1.5)
		dens, err := n.Density(at, nil)
		require.Nil(t, err)
		logDens, err := n.LogDensity(at, nil)
		require.Nil(t, err)
		assert.InDelta(t, math.Log(dens[0]), logDens[0], 1e-12)
	})

	t.Run("cdf at the mean is one half", func(t *testing.T) {
		out, err := n.CDF(distribution.Point(3), nil)
		require.Nil(t, err)
		assert.InDelta(t, 0.5, out[0], 1e-12)
	})

	t.Run("quantile is symmetric around the mean", func(t *testing.T) {
		out, err := n.Quantile([]float64{0.25, 0.5, 0.75}, distribution.QuantileMarginal, nil)
		require.Nil(t, err)
		assert.InDelta(t, 3.0, out.At(1, 0), 1e-12)
		assert.InDelta(t, 3.0, 0.5*(out.At(0, 0)+out.At(2, 0)), 1e-12)
	})

	t.Run("equicoordinate quantile coincides with marginal", func(t *testing.T) {
		marginal, err := n.Quantile([]float64{0.8}, distribution.QuantileMarginal, nil)
		require.Nil(t, err)
		equi, err := n.Quantile([]float64{0.8}, distribution.QuantileEquicoordinate, nil)
		require.Nil(t, err)
		assert.Equal(t, marginal.At(0, 0), equi.At(0, 0))
	})

	t.Run("generate returns the requested sample count", func(t *testing.T) {
		for _, count := range []int{0, 1, 10} {
			out, err := n.Generate(count, nil)
			require.Nil(t, err)
			require.Len(t, out, count)
			for _, row := range out {
				assert.Len(t, row, 1)
			}
		}

		_, err := n.Generate(-1, nil)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "non-negative")
	})

	t.Run("wrong observation width is rejected", func(t *testing.T) {
		_, err := n.Density(distribution.Point(1, 2), nil)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "doesn't match dimension")
	})
}
