package index

import (
	"slices"

	"github.com/hupe1980/tensoralg/internal/coord"
	"github.com/hupe1980/tensoralg/internal/pairset"
)

// Additive aligns ix and other for entry-wise addition.
//
// Both operands must carry the same multiset of (symbol, variance) pairs with
// matching value specs on corresponding slots; the correspondence is
// order-independent. The result keeps ix's slot order. Each result coordinate
// yields exactly one term.
func (ix Indices) Additive(other Indices, opts ...CombineOption) (CombinationResult, error) {
	o := applyCombineOptions(opts)

	a, b, dim, err := prepareOperands(ix, other)
	if err != nil {
		return CombinationResult{}, err
	}

	corr, ok := correspondence(a, b)
	if !ok {
		return CombinationResult{}, &StructureMismatchError{Left: a.String(), Right: b.String()}
	}
	for i, j := range corr {
		if !a.idx[i].sameSpec(b.idx[j]) {
			return CombinationResult{}, &StructureMismatchError{Left: a.String(), Right: b.String()}
		}
	}

	res := build(dim, a.idx)
	base := additiveBase{res: res, corr: corr}

	if o.mode == Materialized {
		setsA, err := a.valueSets()
		if err != nil {
			return CombinationResult{}, err
		}
		setsB, err := b.valueSets()
		if err != nil {
			return CombinationResult{}, err
		}
		return CombinationResult{Indices: res, Strategy: newAdditiveMaterialized(base, setsA, setsB)}, nil
	}
	return CombinationResult{Indices: res, Strategy: &additiveLazy{additiveBase: base}}, nil
}

type additiveBase struct {
	res  Indices
	corr []int // position in A -> position in B
}

func (additiveBase) Kind() Kind { return KindAdditive }

type additiveLazy struct {
	additiveBase
}

func (s *additiveLazy) Terms(c Coord) ([]Term, error) {
	if err := checkCoord(s.res, c); err != nil {
		return nil, err
	}
	right := make(Coord, len(c))
	for i, j := range s.corr {
		right[j] = c[i]
	}
	return []Term{{Left: slices.Clone(c), Right: right}}, nil
}

// additiveMaterialized holds the aligned pair set: every (a, b) pair whose
// corresponding slots hold equal values.
type additiveMaterialized struct {
	additiveBase
	coordsA [][]int
	coordsB [][]int
	set     *pairset.Set
}

func newAdditiveMaterialized(base additiveBase, setsA, setsB [][]int) *additiveMaterialized {
	coordsA := coord.Collect(setsA)
	coordsB := coord.Collect(setsB)

	pa := make([]int, len(base.corr))
	for i := range pa {
		pa[i] = i
	}

	set := pairset.New(len(coordsB))
	for i, ca := range coordsA {
		for j, cb := range coordsB {
			if coord.Equal(ca, pa, cb, base.corr) {
				set.Add(i, j)
			}
		}
	}

	return &additiveMaterialized{
		additiveBase: base,
		coordsA:      coordsA,
		coordsB:      coordsB,
		set:          set,
	}
}

func (s *additiveMaterialized) Terms(c Coord) ([]Term, error) {
	if err := checkCoord(s.res, c); err != nil {
		return nil, err
	}
	terms := make([]Term, 0, 1)
	s.set.Each(func(i, j int) bool {
		if c.Equal(s.coordsA[i]) {
			terms = append(terms, Term{Left: slices.Clone(s.coordsA[i]), Right: slices.Clone(s.coordsB[j])})
		}
		return true
	})
	return terms, nil
}
