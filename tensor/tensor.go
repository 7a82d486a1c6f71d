package tensor

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tensoralg/container"
	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/scalar"
)

var (
	// ErrUnbound is returned when a non-scalar tensor is built over Indices
	// without a dimension.
	ErrUnbound = errors.New("tensor: indices not bound to a dimension")

	// ErrNilField is returned when no scalar field is supplied.
	ErrNilField = errors.New("tensor: nil field")

	// ErrAmbiguousSymbol is returned by Reorder when a symbol names more than
	// one slot.
	ErrAmbiguousSymbol = errors.New("tensor: ambiguous symbol")
)

// Tensor pairs an index structure with its components.
//
// Components are addressed by index value: a tensor over (^a,_b) bound to
// dimension 3 always holds a 3x3 container, even when a slot is fixed or
// restricted. Tensors are immutable; every operation returns a new one.
type Tensor[T any] struct {
	ix   index.Indices
	comp *container.Dense[T]
	f    scalar.Field[T]
}

// New wraps comp, whose shape must equal ix.Shape().
func New[T any](f scalar.Field[T], ix index.Indices, comp *container.Dense[T]) (*Tensor[T], error) {
	if err := check(f, ix); err != nil {
		return nil, err
	}
	want := ix.Shape()
	got := comp.Shape()
	if len(want) != len(got) {
		return nil, fmt.Errorf("%w: components %v for %s", container.ErrShape, got, ix)
	}
	for i := range want {
		if want[i] != got[i] {
			return nil, fmt.Errorf("%w: components %v for %s", container.ErrShape, got, ix)
		}
	}
	return &Tensor[T]{ix: ix, comp: comp, f: f}, nil
}

// Zeros returns a tensor over ix with every component zero.
func Zeros[T any](f scalar.Field[T], ix index.Indices) (*Tensor[T], error) {
	if err := check(f, ix); err != nil {
		return nil, err
	}
	comp, err := container.Full(f.Zero(), ix.Shape()...)
	if err != nil {
		return nil, err
	}
	return &Tensor[T]{ix: ix, comp: comp, f: f}, nil
}

// FromSlice builds a tensor from row-major components.
func FromSlice[T any](f scalar.Field[T], ix index.Indices, data []T) (*Tensor[T], error) {
	if err := check(f, ix); err != nil {
		return nil, err
	}
	comp, err := container.FromSlice(data, ix.Shape()...)
	if err != nil {
		return nil, err
	}
	return &Tensor[T]{ix: ix, comp: comp, f: f}, nil
}

// Scalar returns a rank-(0,0) tensor holding v.
func Scalar[T any](f scalar.Field[T], v T) (*Tensor[T], error) {
	return FromSlice(f, index.Scalar(), []T{v})
}

func check[T any](f scalar.Field[T], ix index.Indices) error {
	if f == nil {
		return ErrNilField
	}
	if !ix.Bound() && !ix.IsScalar() {
		return fmt.Errorf("%w: %s", ErrUnbound, ix)
	}
	return nil
}

// Indices returns the index structure.
func (t *Tensor[T]) Indices() index.Indices { return t.ix }

// Components returns a copy of the component container.
func (t *Tensor[T]) Components() *container.Dense[T] { return t.comp.Clone() }

// Len returns the number of stored components without copying them.
func (t *Tensor[T]) Len() int { return t.comp.Len() }

// Field returns the scalar field.
func (t *Tensor[T]) Field() scalar.Field[T] { return t.f }

// At returns the component at coord.
func (t *Tensor[T]) At(coord ...int) (T, error) {
	return t.comp.At(coord...)
}

// Value returns the single component of a scalar tensor.
func (t *Tensor[T]) Value() (T, error) {
	if !t.ix.IsScalar() {
		var zero T
		return zero, fmt.Errorf("tensor: %s is not a scalar", t.ix)
	}
	return t.comp.At()
}

func (t *Tensor[T]) String() string {
	return fmt.Sprintf("T%s%v", t.ix, t.comp.Data())
}
