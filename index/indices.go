package index

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/tensoralg/internal/coord"
)

// Coord addresses one entry of an Indices' coordinate space. Each element is
// an index value, not a position within the value sequence.
type Coord []int

// Equal reports element-wise equality.
func (c Coord) Equal(o Coord) bool { return slices.Equal(c, o) }

func (c Coord) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Rank is the (#contravariant, #covariant) signature of an Indices.
type Rank struct {
	Contravariant int
	Covariant     int
}

func (r Rank) String() string {
	return fmt.Sprintf("(%d,%d)", r.Contravariant, r.Covariant)
}

// Indices is an ordered, immutable collection of Index values bound to a
// single dimension.
type Indices struct {
	idx []Index
	dim int
}

// New constructs Indices with orders 0..n-1 bound to dim.
func New(dim int, idx ...Index) (Indices, error) {
	return Unbound(idx...).Bind(dim)
}

// Must is like New but panics on error. Intended for literals and tests.
func Must(dim int, idx ...Index) Indices {
	ix, err := New(dim, idx...)
	if err != nil {
		panic(err)
	}
	return ix
}

// Unbound constructs Indices without a dimension. Iteration over running
// members fails with ErrUnboundDimension until Bind is called.
func Unbound(idx ...Index) Indices {
	out := make([]Index, len(idx))
	for i, x := range idx {
		out[i] = x.WithOrder(i)
	}
	return Indices{idx: out}
}

// Scalar returns the rank-(0,0) Indices.
func Scalar() Indices { return Indices{} }

// Bind returns a copy bound to dim. Rebinding to a different dimension is a
// shape mismatch.
func (ix Indices) Bind(dim int) (Indices, error) {
	if dim < 1 {
		return Indices{}, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	if ix.dim > 0 && ix.dim != dim {
		return Indices{}, &ShapeMismatchError{Left: ix.dim, Right: dim}
	}
	for _, x := range ix.idx {
		if err := x.validate(dim); err != nil {
			return Indices{}, err
		}
	}
	return Indices{idx: slices.Clone(ix.idx), dim: dim}, nil
}

// Validate checks every member symbol and value against the bound
// dimension. Indices assembled through Replace skip the checks Bind makes.
func (ix Indices) Validate() error {
	for _, x := range ix.idx {
		if err := x.validate(ix.dim); err != nil {
			return err
		}
	}
	return nil
}

// Dim returns the bound dimension, or 0 if unbound.
func (ix Indices) Dim() int { return ix.dim }

// Bound reports whether a dimension has been bound.
func (ix Indices) Bound() bool { return ix.dim > 0 }

// Len returns the number of slots.
func (ix Indices) Len() int { return len(ix.idx) }

// At returns the index at position i.
func (ix Indices) At(i int) Index { return ix.idx[i] }

// All returns a copy of the member indices.
func (ix Indices) All() []Index { return slices.Clone(ix.idx) }

// Symbols returns the member symbols in slot order.
func (ix Indices) Symbols() []string {
	out := make([]string, len(ix.idx))
	for i, x := range ix.idx {
		out[i] = x.symbol
	}
	return out
}

// Rank counts contravariant and covariant members.
func (ix Indices) Rank() Rank {
	var r Rank
	for _, x := range ix.idx {
		if x.variance == Covariant {
			r.Covariant++
		} else {
			r.Contravariant++
		}
	}
	return r
}

// Shape returns the container shape addressed by this Indices: the bound
// dimension for every slot, since coordinates carry index values.
func (ix Indices) Shape() []int {
	shape := make([]int, len(ix.idx))
	for i := range shape {
		shape[i] = ix.dim
	}
	return shape
}

// IsScalar reports rank (0,0).
func (ix Indices) IsScalar() bool { return len(ix.idx) == 0 }

// SelfSummed reports whether a mutually contracted pair is present.
func (ix Indices) SelfSummed() bool {
	for i := range ix.idx {
		for j := i + 1; j < len(ix.idx); j++ {
			if ix.idx[i].IsContractedWith(ix.idx[j]) {
				return true
			}
		}
	}
	return false
}

// HasSymbol reports whether any member carries symbol.
func (ix Indices) HasSymbol(symbol string) bool {
	return slices.ContainsFunc(ix.idx, func(x Index) bool { return x.symbol == symbol })
}

// Has reports whether a member with symbol and variance is present.
func (ix Indices) Has(symbol string, v Variance) bool {
	_, ok := ix.Position(symbol, v)
	return ok
}

// HasAt reports whether the member at order carries symbol.
func (ix Indices) HasAt(symbol string, order int) bool {
	return order >= 0 && order < len(ix.idx) && ix.idx[order].symbol == symbol
}

// Position returns the first slot with symbol and variance.
func (ix Indices) Position(symbol string, v Variance) (int, bool) {
	for i, x := range ix.idx {
		if x.symbol == symbol && x.variance == v {
			return i, true
		}
	}
	return -1, false
}

// Count returns the size of the coordinate space.
func (ix Indices) Count() (int, error) {
	sets, err := ix.valueSets()
	if err != nil {
		return 0, err
	}
	return coord.Count(sets), nil
}

// Coords returns an iterator over the cartesian product of every member's
// value sequence, in row-major order. A scalar yields one empty coordinate.
func (ix Indices) Coords() (iter.Seq[Coord], error) {
	sets, err := ix.valueSets()
	if err != nil {
		return nil, err
	}
	return func(yield func(Coord) bool) {
		for tup := range coord.Product(sets) {
			if !yield(tup) {
				return
			}
		}
	}, nil
}

func (ix Indices) valueSets() ([][]int, error) {
	sets := make([][]int, len(ix.idx))
	for i, x := range ix.idx {
		vals, err := x.Values(ix.dim)
		if err != nil {
			return nil, err
		}
		sets[i] = vals
	}
	return sets, nil
}

// Contains reports whether c lies in the coordinate space.
func (ix Indices) Contains(c Coord) bool {
	if len(c) != len(ix.idx) {
		return false
	}
	for i, x := range ix.idx {
		switch x.kind {
		case running:
			if c[i] < 0 || c[i] >= ix.dim {
				return false
			}
		default:
			if !slices.Contains(x.values, c[i]) {
				return false
			}
		}
	}
	return true
}

// Rename relabels every member carrying from.
func (ix Indices) Rename(from, to string) (Indices, error) {
	if !validSymbol(to) {
		return Indices{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, to)
	}
	out := slices.Clone(ix.idx)
	found := false
	for i, x := range out {
		if x.symbol == from {
			out[i] = x.WithSymbol(to)
			found = true
		}
	}
	if !found {
		return Indices{}, fmt.Errorf("%w: %q in %s", ErrSymbolNotFound, from, ix)
	}
	return Indices{idx: out, dim: ix.dim}, nil
}

// Negate flips the variance of every member carrying symbol.
func (ix Indices) Negate(symbol string) (Indices, error) {
	out := slices.Clone(ix.idx)
	found := false
	for i, x := range out {
		if x.symbol == symbol {
			out[i] = x.Negate()
			found = true
		}
	}
	if !found {
		return Indices{}, fmt.Errorf("%w: %q in %s", ErrSymbolNotFound, symbol, ix)
	}
	return Indices{idx: out, dim: ix.dim}, nil
}

// Replace returns a copy with the slot at pos replaced by x.
func (ix Indices) Replace(pos int, x Index) Indices {
	out := slices.Clone(ix.idx)
	out[pos] = x.WithOrder(pos)
	return Indices{idx: out, dim: ix.dim}
}

// Permute reorders slots so that slot i of the result is slot perm[i] of ix.
func (ix Indices) Permute(perm ...int) (Indices, error) {
	if err := ValidatePermutation(perm, len(ix.idx)); err != nil {
		return Indices{}, err
	}
	out := make([]Index, len(perm))
	for i, p := range perm {
		out[i] = ix.idx[p].WithOrder(i)
	}
	return Indices{idx: out, dim: ix.dim}, nil
}

// ValidatePermutation checks that perm is a permutation of 0..n-1.
func ValidatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidPermutation, len(perm), n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return fmt.Errorf("%w: %v", ErrInvalidPermutation, perm)
		}
		seen[p] = true
	}
	return nil
}

// String renders the indices as (^a,_b).
func (ix Indices) String() string {
	parts := make([]string, len(ix.idx))
	for i, x := range ix.idx {
		parts[i] = x.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Compatible reports whether a and b carry the same multiset of
// (symbol, variance) pairs, i.e. whether they can be added.
func Compatible(a, b Indices) bool {
	_, ok := correspondence(a, b)
	return ok
}

// correspondence maps every position of a to the matching position of b.
// Repeated members are matched by occurrence.
func correspondence(a, b Indices) ([]int, bool) {
	if len(a.idx) != len(b.idx) {
		return nil, false
	}
	used := make([]bool, len(b.idx))
	corr := make([]int, len(a.idx))
	for i, x := range a.idx {
		j := -1
		for k, y := range b.idx {
			if !used[k] && x.IsIdenticalTo(y) {
				j = k
				break
			}
		}
		if j < 0 {
			return nil, false
		}
		used[j] = true
		corr[i] = j
	}
	return corr, true
}

// build assembles result Indices, renumbering orders.
func build(dim int, idx []Index) Indices {
	out := make([]Index, len(idx))
	for i, x := range idx {
		out[i] = x.WithOrder(i)
	}
	return Indices{idx: out, dim: dim}
}

// without returns the members not flagged in skip, renumbered.
func (ix Indices) without(skip []bool) []Index {
	out := make([]Index, 0, len(ix.idx))
	for i, x := range ix.idx {
		if !skip[i] {
			out = append(out, x)
		}
	}
	return out
}

// resolveDim returns the common dimension of two operands.
func resolveDim(a, b Indices) (int, error) {
	switch {
	case a.dim > 0 && b.dim > 0 && a.dim != b.dim:
		return 0, &ShapeMismatchError{Left: a.dim, Right: b.dim}
	case a.dim > 0:
		return a.dim, nil
	default:
		return b.dim, nil
	}
}

// requireDim fails when dim is unbound but some operand has a running index.
func requireDim(dim int, ops ...Indices) error {
	if dim > 0 {
		return nil
	}
	for _, ix := range ops {
		for _, x := range ix.idx {
			if x.kind == running {
				return fmt.Errorf("%w: %s", ErrUnboundDimension, ix)
			}
		}
	}
	return nil
}
