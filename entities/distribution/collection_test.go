package distribution

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type fakeDist struct {
	label   string
	value   float64
	fail    bool
	doPanic bool
}

func (f *fakeDist) Dimension() int { return 1 }

func (f *fakeDist) Format() string { return f.label }

func (f *fakeDist) Mean() *mat.Dense { return mat.NewDense(1, 1, []float64{f.value}) }

func (f *fakeDist) Covariance() *mat.SymDense { return mat.NewSymDense(1, []float64{1}) }

func (f *fakeDist) Density(at Input, opts *QueryOptions) ([]float64, error) {
	if f.doPanic {
		panic("fake density panic")
	}
	if f.fail {
		return nil, errors.Errorf("density failed for %s", f.label)
	}
	return at.MapRows(func(row []float64) (float64, error) {
		return f.value, nil
	})
}

func (f *fakeDist) LogDensity(at Input, opts *QueryOptions) ([]float64, error) {
	return f.Density(at, opts)
}

func (f *fakeDist) CDF(upper Input, opts *QueryOptions) ([]float64, error) {
	return f.Density(upper, opts)
}

func (f *fakeDist) Quantile(p []float64, qt QuantileType, opts *QueryOptions) (*mat.Dense, error) {
	out := mat.NewDense(len(p), 1, nil)
	for i := range p {
		out.Set(i, 0, f.value)
	}
	return out, nil
}

func (f *fakeDist) Generate(n int, opts *QueryOptions) ([][]float64, error) {
	out := make([][]float64, n)
	for i := range out {
		out[i] = []float64{f.value}
	}
	return out, nil
}

func TestCollection(t *testing.T) {
	coll := Collection{
		&fakeDist{label: "A", value: 1},
		&fakeDist{label: "B", value: 2},
		&fakeDist{label: "C", value: 3},
	}

	t.Run("format and dimensions keep instance order", func(t *testing.T) {
		assert.Equal(t, []string{"A", "B", "C"}, coll.Format())
		assert.Equal(t, []int{1, 1, 1}, coll.Dimensions())
	})

	t.Run("bulk density fans out per instance in order", func(t *testing.T) {
		out, err := coll.Density(List(Point(0), Point(0)), nil)
		require.Nil(t, err)
		assert.Equal(t, [][]float64{{1, 1}, {2, 2}, {3, 3}}, out)
	})

	t.Run("bulk quantile keeps instance order", func(t *testing.T) {
		out, err := coll.Quantile([]float64{0.5}, QuantileMarginal, nil)
		require.Nil(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, 2.0, out[1].At(0, 0))
	})

	t.Run("one failing instance fails the bulk query", func(t *testing.T) {
		failing := Collection{
			&fakeDist{label: "A", value: 1},
			&fakeDist{label: "B", fail: true},
		}
		out, err := failing.Density(Point(0), nil)
		assert.Nil(t, out)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "density failed for B")
	})

	t.Run("a panicking instance surfaces as an error", func(t *testing.T) {
		panicking := Collection{
			&fakeDist{label: "A", value: 1},
			&fakeDist{label: "B", doPanic: true},
		}
		out, err := panicking.Density(Point(0), nil)
		assert.Nil(t, out)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "panic occurred")
	})

	t.Run("empty collection yields empty results", func(t *testing.T) {
		out, err := Collection{}.CDF(Point(0), nil)
		require.Nil(t, err)
		assert.Len(t, out, 0)
	})
}
