package distributions

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probkit/probkit/entities/distribution"
)

func TestRegistry(t *testing.T) {
	logger, _ := test.NewNullLogger()
	r := NewDefaultRegistry(logger)

	t.Run("constructs the mvnormal variant", func(t *testing.T) {
		d, err := r.New("mvnormal", Params{
			Named: map[string]interface{}{
				"mu":    []float64{1, 2},
				"sigma": testCov(),
			},
			DimensionNames: []string{"x", "y"},
		}, nil)
		require.Nil(t, err)

		assert.Equal(t, "MVN[2]", d.Format())
		assert.Equal(t, 2, d.Dimension())

		m, ok := d.(*MVNormal)
		require.True(t, ok)
		assert.Equal(t, []string{"x", "y"}, m.DimensionNames())
	})

	t.Run("constructs the mvnormal default without parameters", func(t *testing.T) {
		d, err := r.New("mvnormal", Params{}, nil)
		require.Nil(t, err)
		assert.Equal(t, "MVN[1]", d.Format())
	})

	t.Run("constructs the normal variant", func(t *testing.T) {
		d, err := r.New("normal", Params{
			Named: map[string]interface{}{"mu": 5.0, "sigma": 2.0},
		}, nil)
		require.Nil(t, err)
		assert.Equal(t, "N[1]", d.Format())
		assert.Equal(t, 5.0, d.Mean().At(0, 0))
	})

	t.Run("unknown tags are rejected", func(t *testing.T) {
		_, err := r.New("poisson", Params{}, nil)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "no distribution variant registered")
	})

	t.Run("wrong parameter types are rejected", func(t *testing.T) {
		_, err := r.New("mvnormal", Params{
			Named: map[string]interface{}{"mu": "not a vector"},
		}, nil)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), `"mu" must be []float64`)
	})

	t.Run("custom variants can be registered", func(t *testing.T) {
		r.Register("custom", func(p Params, _ Numerics) (distribution.Distribution, error) {
			return NewNormal(0, 1), nil
		})
		d, err := r.New("custom", Params{}, nil)
		require.Nil(t, err)
		assert.Equal(t, "N[1]", d.Format())
	})
}

func TestRegistry_NilLogger(t *testing.T) {
	// a nil logger must not panic on registration
	r := NewRegistry(nil)
	r.Register("normal", normalFactory)
	_, err := r.New("normal", Params{}, nil)
	assert.Nil(t, err)
}
