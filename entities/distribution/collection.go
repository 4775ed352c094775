package distribution

import (
	"gonum.org/v1/gonum/mat"

	enterrors "github.com/probkit/probkit/entities/errors"
)

// Collection is an ordered list of distribution instances queried as one
// vectorized object. Bulk queries fan out across instances in parallel;
// instances are independent, but each instance's results keep the input
// order and the collection's results keep the instance order.
type Collection []Distribution

// Format returns the display label of every instance in order.
func (c Collection) Format() []string {
	out := make([]string, len(c))
	for i, d := range c {
		out[i] = d.Format()
	}
	return out
}

// Dimensions returns the dimensionality of every instance in order.
func (c Collection) Dimensions() []int {
	out := make([]int, len(c))
	for i, d := range c {
		out[i] = d.Dimension()
	}
	return out
}

// Means returns every instance's mean row matrix in order.
func (c Collection) Means() []*mat.Dense {
	out := make([]*mat.Dense, len(c))
	for i, d := range c {
		out[i] = d.Mean()
	}
	return out
}

func (c Collection) fanOut(fn func(i int, d Distribution) error) error {
	eg := enterrors.NewGroupWrapper(nil)
	for i, d := range c {
		i, d := i, d
		eg.Go(func() error {
			return fn(i, d)
		})
	}
	return eg.Wait()
}

// Density evaluates the input against every instance; result i belongs to
// instance i.
func (c Collection) Density(at Input, opts *QueryOptions) ([][]float64, error) {
	out := make([][]float64, len(c))
	err := c.fanOut(func(i int, d Distribution) error {
		res, err := d.Density(at, opts)
		if err != nil {
			return err
		}
		out[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LogDensity is the log-scale analogue of Density.
func (c Collection) LogDensity(at Input, opts *QueryOptions) ([][]float64, error) {
	out := make([][]float64, len(c))
	err := c.fanOut(func(i int, d Distribution) error {
		res, err := d.LogDensity(at, opts)
		if err != nil {
			return err
		}
		out[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CDF evaluates the upper bounds against every instance.
func (c Collection) CDF(upper Input, opts *QueryOptions) ([][]float64, error) {
	out := make([][]float64, len(c))
	err := c.fanOut(func(i int, d Distribution) error {
		res, err := d.CDF(upper, opts)
		if err != nil {
			return err
		}
		out[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Quantile computes the quantile matrix of every instance.
func (c Collection) Quantile(p []float64, qt QuantileType, opts *QueryOptions) ([]*mat.Dense, error) {
	out := make([]*mat.Dense, len(c))
	err := c.fanOut(func(i int, d Distribution) error {
		res, err := d.Quantile(p, qt, opts)
		if err != nil {
			return err
		}
		out[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Generate draws n samples from every instance.
func (c Collection) Generate(n int, opts *QueryOptions) ([][][]float64, error) {
	out := make([][][]float64, len(c))
	err := c.fanOut(func(i int, d Distribution) error {
		res, err := d.Generate(n, opts)
		if err != nil {
			return err
		}
		out[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
