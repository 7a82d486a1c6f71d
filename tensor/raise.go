package tensor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hupe1980/tensoralg/index"
)

// Metric supplies the two forms of a metric tensor. Only the component
// containers and the bound dimension are used; slot symbols are replaced.
type Metric[T any] interface {
	// Lower returns g_ab.
	Lower() *Tensor[T]
	// Upper returns g^ab, the inverse of g_ab.
	Upper() *Tensor[T]
}

// Raise turns the covariant slot carrying symbol into a contravariant one by
// contracting with g^ab. The slot keeps its position.
func Raise[T any](ctx context.Context, t *Tensor[T], m Metric[T], symbol string, opts ...Option) (*Tensor[T], error) {
	pos, err := slot(t, symbol, index.Covariant)
	if err != nil {
		return nil, err
	}
	return moveIndex(ctx, t, m.Upper(), pos, opts)
}

// Lower turns the contravariant slot carrying symbol into a covariant one by
// contracting with g_ab. The slot keeps its position.
func Lower[T any](ctx context.Context, t *Tensor[T], m Metric[T], symbol string, opts ...Option) (*Tensor[T], error) {
	pos, err := slot(t, symbol, index.Contravariant)
	if err != nil {
		return nil, err
	}
	return moveIndex(ctx, t, m.Lower(), pos, opts)
}

// slot locates the single slot carrying symbol with variance v.
func slot[T any](t *Tensor[T], symbol string, v index.Variance) (int, error) {
	pos, ok := t.ix.Position(symbol, v)
	if !ok {
		return 0, fmt.Errorf("%w: %s%s in %s", index.ErrSymbolNotFound, v, symbol, t.ix)
	}
	n := 0
	for _, s := range t.ix.Symbols() {
		if s == symbol {
			n++
		}
	}
	if n > 1 {
		return 0, fmt.Errorf("%w: %q in %s", ErrAmbiguousSymbol, symbol, t.ix)
	}
	return pos, nil
}

// moveIndex flips the variance of slot pos by contraction:
//
//	T'...^a...  =  g^{a p} T..._p...
//
// where p is a placeholder symbol unique to this call. The contraction puts
// the moved slot first; a final permutation restores its position.
func moveIndex[T any](ctx context.Context, t *Tensor[T], g *Tensor[T], pos int, opts []Option) (*Tensor[T], error) {
	target := t.ix.At(pos)
	placeholder := "~" + uuid.NewString()

	tmp := &Tensor[T]{ix: t.ix.Replace(pos, target.WithSymbol(placeholder)), comp: t.comp, f: t.f}

	gix, err := index.New(g.ix.Dim(),
		index.NewIndex(target.Symbol(), target.Variance().Flip()),
		index.NewIndex(placeholder, target.Variance().Flip()),
	)
	if err != nil {
		return nil, err
	}
	gt, err := New(t.f, gix, g.comp)
	if err != nil {
		return nil, err
	}

	out, err := Contract(ctx, gt, tmp, opts...)
	if err != nil {
		return nil, err
	}

	perm := make([]int, out.ix.Len())
	for i := range perm {
		switch {
		case i < pos:
			perm[i] = i + 1
		case i == pos:
			perm[i] = 0
		default:
			perm[i] = i
		}
	}
	return Permute(out, perm...)
}
