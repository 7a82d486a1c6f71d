// Package metric provides metric tensors for raising and lowering indices.
//
// A Metric is built from the covariant components g_ab; the contravariant
// form g^ab is computed once by Gauss-Jordan elimination over the scalar
// field, so exact fields such as scalar.Rat stay exact.
package metric

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/scalar"
	"github.com/hupe1980/tensoralg/tensor"
)

var (
	// ErrSingular is returned when g_ab has no inverse.
	ErrSingular = errors.New("metric: singular matrix")

	// ErrNotSymmetric is returned when g_ab != g_ba for some a, b.
	ErrNotSymmetric = errors.New("metric: not symmetric")
)

// Metric holds both forms of a metric tensor bound to one dimension.
type Metric[T any] struct {
	dim   int
	lower *tensor.Tensor[T]
	upper *tensor.Tensor[T]
}

var _ tensor.Metric[float64] = (*Metric[float64])(nil)

// New builds a metric from row-major g_ab components.
func New[T any](f scalar.Field[T], dim int, components []T) (*Metric[T], error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: %d", index.ErrInvalidDimension, dim)
	}
	if len(components) != dim*dim {
		return nil, fmt.Errorf("metric: %d components for dimension %d", len(components), dim)
	}
	for i := range dim {
		for j := i + 1; j < dim; j++ {
			if !f.Equal(components[i*dim+j], components[j*dim+i]) {
				return nil, fmt.Errorf("%w: g[%d,%d] != g[%d,%d]", ErrNotSymmetric, i, j, j, i)
			}
		}
	}

	inv, err := Invert(f, dim, components)
	if err != nil {
		return nil, err
	}

	lower, err := tensor.FromSlice(f, index.Must(dim, index.Down("a"), index.Down("b")), append([]T(nil), components...))
	if err != nil {
		return nil, err
	}
	upper, err := tensor.FromSlice(f, index.Must(dim, index.Up("a"), index.Up("b")), inv)
	if err != nil {
		return nil, err
	}

	return &Metric[T]{dim: dim, lower: lower, upper: upper}, nil
}

// Identity returns the Euclidean metric diag(1, ..., 1).
func Identity[T any](f scalar.Field[T], dim int) (*Metric[T], error) {
	diag := make([]T, dim)
	for i := range diag {
		diag[i] = f.One()
	}
	return Diagonal(f, diag...)
}

// Diagonal returns the metric with the given diagonal and zero elsewhere,
// e.g. Diagonal(f, -1, 1, 1, 1) for Minkowski space.
func Diagonal[T any](f scalar.Field[T], diag ...T) (*Metric[T], error) {
	dim := len(diag)
	comp := make([]T, dim*dim)
	for i := range comp {
		comp[i] = f.Zero()
	}
	for i, v := range diag {
		comp[i*dim+i] = v
	}
	return New(f, dim, comp)
}

// Dim returns the dimension.
func (m *Metric[T]) Dim() int { return m.dim }

// Lower returns g_ab.
func (m *Metric[T]) Lower() *tensor.Tensor[T] { return m.lower }

// Upper returns g^ab.
func (m *Metric[T]) Upper() *tensor.Tensor[T] { return m.upper }

// Invert returns the inverse of the row-major n x n matrix a by Gauss-Jordan
// elimination.
func Invert[T any](f scalar.Field[T], n int, a []T) ([]T, error) {
	w := 2 * n
	aug := make([]T, n*w)
	for i := range n {
		for j := range n {
			aug[i*w+j] = a[i*n+j]
			if i == j {
				aug[i*w+n+j] = f.One()
			} else {
				aug[i*w+n+j] = f.Zero()
			}
		}
	}

	// Fields with a magnitude get partial pivoting; exact fields take the
	// first non-zero entry.
	mag, partial := f.(scalar.Magnitude[T])

	for col := range n {
		pivot := -1
		best := 0.0
		for r := col; r < n; r++ {
			v := aug[r*w+col]
			if f.IsZero(v) {
				continue
			}
			if !partial {
				pivot = r
				break
			}
			if m := mag.Abs(v); pivot < 0 || m > best {
				pivot, best = r, m
			}
		}
		if pivot < 0 {
			return nil, ErrSingular
		}
		if pivot != col {
			for k := range w {
				aug[col*w+k], aug[pivot*w+k] = aug[pivot*w+k], aug[col*w+k]
			}
		}

		p := aug[col*w+col]
		for k := range w {
			aug[col*w+k] = f.Div(aug[col*w+k], p)
		}

		for r := range n {
			if r == col {
				continue
			}
			factor := aug[r*w+col]
			if f.IsZero(factor) {
				continue
			}
			for k := range w {
				aug[r*w+k] = f.Sub(aug[r*w+k], f.Mul(factor, aug[col*w+k]))
			}
		}
	}

	inv := make([]T, n*n)
	for i := range n {
		copy(inv[i*n:(i+1)*n], aug[i*w+n:(i+1)*w])
	}
	return inv, nil
}
