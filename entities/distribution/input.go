package distribution

import (
	"gonum.org/v1/gonum/mat"
)

// Input is the observation container accepted by Density, LogDensity and
// CDF. It represents either a single coordinate row, a matrix of rows, or
// an ordered list of those. Every element is evaluated against the same
// distribution instance and the results are collected in input order, one
// output per input row.
type Input struct {
	batches []*mat.Dense
}

// Point wraps a single coordinate row.
func Point(coords ...float64) Input {
	if len(coords) == 0 {
		return Input{}
	}
	return Input{batches: []*mat.Dense{mat.NewDense(1, len(coords), coords)}}
}

// Rows wraps a matrix whose rows are the evaluation points.
func Rows(m *mat.Dense) Input {
	if m == nil {
		return Input{}
	}
	return Input{batches: []*mat.Dense{m}}
}

// List concatenates inputs into an ordered list. Each element keeps its
// position, so results come back in the same order.
func List(elems ...Input) Input {
	var out Input
	for _, el := range elems {
		out.batches = append(out.batches, el.batches...)
	}
	return out
}

// NumRows returns the total number of coordinate rows across all
// elements.
func (in Input) NumRows() int {
	total := 0
	for _, b := range in.batches {
		r, _ := b.Dims()
		total += r
	}
	return total
}

// MapRows applies fn to every coordinate row in input order and collects
// the results. It is the single broadcast combinator shared by the
// row-valued operations; the first error aborts the walk and is returned
// as-is.
func (in Input) MapRows(fn func(row []float64) (float64, error)) ([]float64, error) {
	out := make([]float64, 0, in.NumRows())
	for _, b := range in.batches {
		rows, _ := b.Dims()
		for i := 0; i < rows; i++ {
			v, err := fn(b.RawRowView(i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}
