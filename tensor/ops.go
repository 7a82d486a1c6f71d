package tensor

import (
	"context"
	"fmt"
	"slices"
	"unsafe"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/scalar"
)

// Contract multiplies a and b with implicit summation over every symbol that
// appears upper in one and lower in the other.
func Contract[T any](ctx context.Context, a, b *Tensor[T], opts ...Option) (*Tensor[T], error) {
	o := applyOptions(opts)

	res, err := a.ix.Einsum(b.ix, index.WithMode(o.mode))
	if err != nil {
		return nil, err
	}

	f := a.f
	return evaluate(ctx, a, res, o, func(term index.Term) (T, error) {
		x, err := a.comp.At(term.Left...)
		if err != nil {
			return f.Zero(), err
		}
		y, err := b.comp.At(term.Right...)
		if err != nil {
			return f.Zero(), err
		}
		return f.Mul(x, y), nil
	})
}

// Add returns a + b. The operands must carry the same symbols and variances,
// in any order; the result keeps a's slot order.
func Add[T any](ctx context.Context, a, b *Tensor[T], opts ...Option) (*Tensor[T], error) {
	return additive(ctx, a, b, a.f.Add, opts)
}

// Sub returns a - b under the same rules as Add.
func Sub[T any](ctx context.Context, a, b *Tensor[T], opts ...Option) (*Tensor[T], error) {
	return additive(ctx, a, b, a.f.Sub, opts)
}

func additive[T any](ctx context.Context, a, b *Tensor[T], op func(x, y T) T, opts []Option) (*Tensor[T], error) {
	o := applyOptions(opts)

	res, err := a.ix.Additive(b.ix, index.WithMode(o.mode))
	if err != nil {
		return nil, err
	}

	f := a.f
	return evaluate(ctx, a, res, o, func(term index.Term) (T, error) {
		x, err := a.comp.At(term.Left...)
		if err != nil {
			return f.Zero(), err
		}
		y, err := b.comp.At(term.Right...)
		if err != nil {
			return f.Zero(), err
		}
		return op(x, y), nil
	})
}

// Trace contracts every upper/lower pair of the same symbol within t.
func Trace[T any](ctx context.Context, t *Tensor[T], opts ...Option) (*Tensor[T], error) {
	o := applyOptions(opts)

	res, err := t.ix.SelfSum(index.WithMode(o.mode))
	if err != nil {
		return nil, err
	}

	return evaluate(ctx, t, res, o, func(term index.Term) (T, error) {
		return t.comp.At(term.Left...)
	})
}

// evaluate fills a zero tensor over res.Indices: every component is the sum of
// value over the terms of its coordinate.
func evaluate[T any](ctx context.Context, like *Tensor[T], res index.CombinationResult, o options, value func(index.Term) (T, error)) (*Tensor[T], error) {
	if o.budget != nil {
		bytes := footprint[T](res.Indices.Shape())
		if err := o.budget.AcquireMemory(ctx, bytes); err != nil {
			return nil, err
		}
		defer o.budget.ReleaseMemory(bytes)
	}

	out, err := Zeros(like.f, res.Indices)
	if err != nil {
		return nil, err
	}

	seq, err := res.Indices.Coords()
	if err != nil {
		return nil, err
	}
	coords := slices.Collect(seq)

	fill := func(ctx context.Context, part []index.Coord) error {
		var vals []T
		for _, c := range part {
			if err := ctx.Err(); err != nil {
				return err
			}
			terms, err := res.Strategy.Terms(c)
			if err != nil {
				return err
			}
			vals = vals[:0]
			for _, term := range terms {
				v, err := value(term)
				if err != nil {
					return fmt.Errorf("%s term %v: %w", res.Strategy.Kind(), term, err)
				}
				vals = append(vals, v)
			}
			if err := out.comp.Set(scalar.Sum(out.f, vals...), c...); err != nil {
				return err
			}
		}
		return nil
	}

	if o.workers <= 1 || len(coords) < 2 {
		if err := fill(ctx, coords); err != nil {
			return nil, err
		}
		return out, nil
	}

	// Workers own disjoint coordinate ranges, so component writes never overlap.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	chunk := (len(coords) + o.workers - 1) / o.workers
	for start := 0; start < len(coords); start += chunk {
		part := coords[start:min(start+chunk, len(coords))]
		g.Go(func() error {
			return fill(gctx, part)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// footprint is the component storage of a dense container of shape.
func footprint[T any](shape []int) int64 {
	var zero T
	n := int64(unsafe.Sizeof(zero))
	for _, d := range shape {
		n *= int64(d)
	}
	return n
}

// Scale multiplies every component by s.
func Scale[T any](t *Tensor[T], s T) *Tensor[T] {
	return &Tensor[T]{
		ix:   t.ix,
		comp: t.comp.Map(func(v T) T { return t.f.Mul(v, s) }),
		f:    t.f,
	}
}

// Neg negates every component.
func Neg[T any](t *Tensor[T]) *Tensor[T] {
	return &Tensor[T]{ix: t.ix, comp: t.comp.Map(t.f.Neg), f: t.f}
}

// Rename relabels every slot carrying from. Components are shared.
func Rename[T any](t *Tensor[T], from, to string) (*Tensor[T], error) {
	ix, err := t.ix.Rename(from, to)
	if err != nil {
		return nil, err
	}
	return &Tensor[T]{ix: ix, comp: t.comp, f: t.f}, nil
}

// Permute reorders slots so that slot i of the result is slot perm[i] of t.
func Permute[T any](t *Tensor[T], perm ...int) (*Tensor[T], error) {
	ix, err := t.ix.Permute(perm...)
	if err != nil {
		return nil, err
	}
	comp, err := t.comp.Permute(perm...)
	if err != nil {
		return nil, err
	}
	return &Tensor[T]{ix: ix, comp: comp, f: t.f}, nil
}

// Reorder permutes t so that its slots carry symbols in the given order.
func Reorder[T any](t *Tensor[T], symbols ...string) (*Tensor[T], error) {
	if len(symbols) != t.ix.Len() {
		return nil, fmt.Errorf("%w: %v for %s", index.ErrInvalidPermutation, symbols, t.ix)
	}
	have := t.ix.Symbols()
	perm := make([]int, len(symbols))
	for i, s := range symbols {
		first := slices.Index(have, s)
		if first < 0 {
			return nil, fmt.Errorf("%w: %q in %s", index.ErrSymbolNotFound, s, t.ix)
		}
		if slices.Index(have[first+1:], s) >= 0 {
			return nil, fmt.Errorf("%w: %q in %s", ErrAmbiguousSymbol, s, t.ix)
		}
		perm[i] = first
	}
	return Permute(t, perm...)
}

// Equal reports whether a and b have the same index structure and their
// components agree under a's field.
func Equal[T any](a, b *Tensor[T]) bool {
	if a.ix.String() != b.ix.String() {
		return false
	}
	if a.ix.Dim() != b.ix.Dim() && !a.ix.IsScalar() {
		return false
	}
	ca, cb := a.comp, b.comp
	if !slices.Equal(ca.Shape(), cb.Shape()) {
		return false
	}
	da, db := ca.Data(), cb.Data()
	for i := range da {
		if !a.f.Equal(da[i], db[i]) {
			return false
		}
	}
	return true
}
