// Package container provides the dense row-major component storage tensors
// are backed by.
package container

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrShape is returned for a malformed shape or a data length that does
	// not match it.
	ErrShape = errors.New("container: invalid shape")

	// ErrOutOfBounds is returned for a coordinate outside the shape.
	ErrOutOfBounds = errors.New("container: coordinate out of bounds")

	// ErrPermutation is returned for a malformed axis permutation.
	ErrPermutation = errors.New("container: invalid permutation")
)

// Dense is an n-dimensional row-major array. A Dense with an empty shape holds
// exactly one element.
type Dense[T any] struct {
	shape   []int
	strides []int
	data    []T
}

// Full allocates a container of the given shape with every element set to
// fill.
func Full[T any](fill T, shape ...int) (*Dense[T], error) {
	n, err := size(shape)
	if err != nil {
		return nil, err
	}
	data := make([]T, n)
	for i := range data {
		data[i] = fill
	}
	return newDense(shape, data), nil
}

// FromSlice wraps data, which must hold exactly product(shape) elements.
// The container takes ownership of data.
func FromSlice[T any](data []T, shape ...int) (*Dense[T], error) {
	n, err := size(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShape, len(data), shape)
	}
	return newDense(shape, data), nil
}

func newDense[T any](shape []int, data []T) *Dense[T] {
	shape = slices.Clone(shape)
	return &Dense[T]{shape: shape, strides: strides(shape), data: data}
}

func size(shape []int) (int, error) {
	n := 1
	for _, s := range shape {
		if s < 1 {
			return 0, fmt.Errorf("%w: %v", ErrShape, shape)
		}
		n *= s
	}
	return n, nil
}

func strides(shape []int) []int {
	st := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= shape[i]
	}
	return st
}

// Shape returns a copy of the shape.
func (d *Dense[T]) Shape() []int { return slices.Clone(d.shape) }

// Rank returns the number of axes.
func (d *Dense[T]) Rank() int { return len(d.shape) }

// Len returns the number of elements.
func (d *Dense[T]) Len() int { return len(d.data) }

// Data returns the backing slice in row-major order. It is shared, not
// copied.
func (d *Dense[T]) Data() []T { return d.data }

// Offset returns the flat row-major offset of coord.
func (d *Dense[T]) Offset(coord ...int) (int, error) {
	if len(coord) != len(d.shape) {
		return 0, fmt.Errorf("%w: %v for shape %v", ErrOutOfBounds, coord, d.shape)
	}
	off := 0
	for i, c := range coord {
		if c < 0 || c >= d.shape[i] {
			return 0, fmt.Errorf("%w: %v for shape %v", ErrOutOfBounds, coord, d.shape)
		}
		off += c * d.strides[i]
	}
	return off, nil
}

// At returns the element at coord.
func (d *Dense[T]) At(coord ...int) (T, error) {
	off, err := d.Offset(coord...)
	if err != nil {
		var zero T
		return zero, err
	}
	return d.data[off], nil
}

// Set stores v at coord.
func (d *Dense[T]) Set(v T, coord ...int) error {
	off, err := d.Offset(coord...)
	if err != nil {
		return err
	}
	d.data[off] = v
	return nil
}

// Slice returns a copy of the sub-block addressed by a coordinate prefix.
// A full-length prefix yields a rank-0 container holding one element.
func (d *Dense[T]) Slice(prefix ...int) (*Dense[T], error) {
	if len(prefix) > len(d.shape) {
		return nil, fmt.Errorf("%w: prefix %v for shape %v", ErrOutOfBounds, prefix, d.shape)
	}
	off := 0
	for i, c := range prefix {
		if c < 0 || c >= d.shape[i] {
			return nil, fmt.Errorf("%w: prefix %v for shape %v", ErrOutOfBounds, prefix, d.shape)
		}
		off += c * d.strides[i]
	}
	rest := d.shape[len(prefix):]
	n, _ := size(rest)
	return newDense(rest, slices.Clone(d.data[off:off+n])), nil
}

// Permute returns a copy whose axis i is axis perm[i] of d.
func (d *Dense[T]) Permute(perm ...int) (*Dense[T], error) {
	if err := validatePermutation(perm, len(d.shape)); err != nil {
		return nil, err
	}

	shape := make([]int, len(perm))
	srcStrides := make([]int, len(perm))
	for i, p := range perm {
		shape[i] = d.shape[p]
		srcStrides[i] = d.strides[p]
	}

	out := newDense(shape, make([]T, len(d.data)))
	pos := make([]int, len(shape))
	for k := range out.data {
		src := 0
		for i, c := range pos {
			src += c * srcStrides[i]
		}
		out.data[k] = d.data[src]

		for i := len(pos) - 1; i >= 0; i-- {
			pos[i]++
			if pos[i] < shape[i] {
				break
			}
			pos[i] = 0
		}
	}
	return out, nil
}

func validatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("%w: %v for rank %d", ErrPermutation, perm, n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return fmt.Errorf("%w: %v", ErrPermutation, perm)
		}
		seen[p] = true
	}
	return nil
}

// InversePermutation returns q with q[perm[i]] = i.
func InversePermutation(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// Clone returns a deep copy of the container structure. Elements are copied
// by value.
func (d *Dense[T]) Clone() *Dense[T] {
	return newDense(d.shape, slices.Clone(d.data))
}

// Map returns a new container with fn applied to every element.
func (d *Dense[T]) Map(fn func(T) T) *Dense[T] {
	data := make([]T, len(d.data))
	for i, v := range d.data {
		data[i] = fn(v)
	}
	return newDense(d.shape, data)
}

// Equal reports whether a and b have the same shape and eq holds for every
// element pair.
func Equal[T any](a, b *Dense[T], eq func(x, y T) bool) bool {
	if !slices.Equal(a.shape, b.shape) {
		return false
	}
	for i := range a.data {
		if !eq(a.data[i], b.data[i]) {
			return false
		}
	}
	return true
}
