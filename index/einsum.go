package index

import (
	"slices"

	"github.com/hupe1980/tensoralg/internal/coord"
	"github.com/hupe1980/tensoralg/internal/pairset"
)

// contraction is one summed pair: position a in the left operand, position b
// in the right, running over the values both slots admit.
type contraction struct {
	a, b   int
	values []int
}

// Einsum contracts ix with other by implicit summation over every symbol that
// appears with opposite variance in both operands.
//
// The result indices are ix's free indices followed by other's free indices.
// A contracting symbol must occur exactly once in each operand, otherwise
// ErrMultipleContraction is returned. Operands bound to different dimensions
// fail with ErrShapeMismatch before any enumeration.
func (ix Indices) Einsum(other Indices, opts ...CombineOption) (CombinationResult, error) {
	o := applyCombineOptions(opts)

	a, b, dim, err := prepareOperands(ix, other)
	if err != nil {
		return CombinationResult{}, err
	}

	pairs, err := contractionPairs(a, b)
	if err != nil {
		return CombinationResult{}, err
	}

	skipA := make([]bool, a.Len())
	skipB := make([]bool, b.Len())
	for _, p := range pairs {
		skipA[p.a] = true
		skipB[p.b] = true
	}

	res := build(dim, append(a.without(skipA), b.without(skipB)...))

	setsA, err := a.valueSets()
	if err != nil {
		return CombinationResult{}, err
	}
	setsB, err := b.valueSets()
	if err != nil {
		return CombinationResult{}, err
	}
	for k := range pairs {
		pairs[k].values = coord.Intersect(setsA[pairs[k].a], setsB[pairs[k].b])
	}

	base := einsumBase{
		res:   res,
		nA:    a.Len(),
		nB:    b.Len(),
		aFree: positionsOf(skipA),
		bFree: positionsOf(skipB),
		pairs: pairs,
	}

	if o.mode == Materialized {
		return CombinationResult{Indices: res, Strategy: newEinsumMaterialized(base, setsA, setsB)}, nil
	}

	lists := make([][]int, len(pairs))
	for k, p := range pairs {
		lists[k] = p.values
	}
	return CombinationResult{Indices: res, Strategy: &einsumLazy{einsumBase: base, lists: lists}}, nil
}

// prepareOperands resolves the common dimension and binds unbound operands.
func prepareOperands(a, b Indices) (Indices, Indices, int, error) {
	dim, err := resolveDim(a, b)
	if err != nil {
		return Indices{}, Indices{}, 0, err
	}
	if err := requireDim(dim, a, b); err != nil {
		return Indices{}, Indices{}, 0, err
	}
	if dim > 0 {
		if !a.Bound() {
			if a, err = a.Bind(dim); err != nil {
				return Indices{}, Indices{}, 0, err
			}
		}
		if !b.Bound() {
			if b, err = b.Bind(dim); err != nil {
				return Indices{}, Indices{}, 0, err
			}
		}
	}
	return a, b, dim, nil
}

func contractionPairs(a, b Indices) ([]contraction, error) {
	var pairs []contraction
	for i, x := range a.idx {
		var partners []int
		for j, y := range b.idx {
			if x.IsContractedWith(y) {
				partners = append(partners, j)
			}
		}
		if len(partners) == 0 {
			continue
		}
		left := countSymbol(a, x.symbol)
		right := countSymbol(b, x.symbol)
		if len(partners) > 1 || left > 1 || right > 1 {
			return nil, &MultipleContractionError{Symbol: x.symbol, Left: left, Right: right}
		}
		pairs = append(pairs, contraction{a: i, b: partners[0]})
	}
	return pairs, nil
}

func countSymbol(ix Indices, symbol string) int {
	n := 0
	for _, x := range ix.idx {
		if x.symbol == symbol {
			n++
		}
	}
	return n
}

type einsumBase struct {
	res   Indices
	nA    int
	nB    int
	aFree []int
	bFree []int
	pairs []contraction
}

func (einsumBase) Kind() Kind { return KindEinsum }

// split writes the free part of c into fresh operand coordinates.
func (s *einsumBase) split(c Coord) (Coord, Coord) {
	left := make(Coord, s.nA)
	right := make(Coord, s.nB)
	for k, p := range s.aFree {
		left[p] = c[k]
	}
	off := len(s.aFree)
	for k, p := range s.bFree {
		right[p] = c[off+k]
	}
	return left, right
}

type einsumLazy struct {
	einsumBase
	lists [][]int
}

func (s *einsumLazy) Terms(c Coord) ([]Term, error) {
	if err := checkCoord(s.res, c); err != nil {
		return nil, err
	}
	left, right := s.split(c)

	terms := make([]Term, 0, coord.Count(s.lists))
	for vals := range coord.Product(s.lists) {
		l := slices.Clone(left)
		r := slices.Clone(right)
		for k, p := range s.pairs {
			l[p.a] = vals[k]
			r[p.b] = vals[k]
		}
		terms = append(terms, Term{Left: l, Right: r})
	}
	return terms, nil
}

// einsumMaterialized holds the restricted pair set: every (a, b) coordinate
// pair of the operands whose contracted slots agree.
type einsumMaterialized struct {
	einsumBase
	coordsA [][]int
	coordsB [][]int
	set     *pairset.Set
}

func newEinsumMaterialized(base einsumBase, setsA, setsB [][]int) *einsumMaterialized {
	coordsA := coord.Collect(setsA)
	coordsB := coord.Collect(setsB)

	pa := make([]int, len(base.pairs))
	pb := make([]int, len(base.pairs))
	for k, p := range base.pairs {
		pa[k] = p.a
		pb[k] = p.b
	}

	set := pairset.New(len(coordsB))
	for i, ca := range coordsA {
		for j, cb := range coordsB {
			if coord.Equal(ca, pa, cb, pb) {
				set.Add(i, j)
			}
		}
	}

	return &einsumMaterialized{
		einsumBase: base,
		coordsA:    coordsA,
		coordsB:    coordsB,
		set:        set,
	}
}

func (s *einsumMaterialized) Terms(c Coord) ([]Term, error) {
	if err := checkCoord(s.res, c); err != nil {
		return nil, err
	}
	projA := c[:len(s.aFree)]
	projB := c[len(s.aFree):]

	var match func(i, j int) bool
	switch {
	case s.res.IsScalar():
		match = func(int, int) bool { return true }
	case len(s.aFree) == 0:
		match = func(_, j int) bool { return coord.Matches(s.coordsB[j], s.bFree, projB) }
	case len(s.bFree) == 0:
		match = func(i, _ int) bool { return coord.Matches(s.coordsA[i], s.aFree, projA) }
	default:
		match = func(i, j int) bool {
			return coord.Matches(s.coordsA[i], s.aFree, projA) && coord.Matches(s.coordsB[j], s.bFree, projB)
		}
	}

	terms := make([]Term, 0)
	s.set.Each(func(i, j int) bool {
		if match(i, j) {
			terms = append(terms, Term{Left: slices.Clone(s.coordsA[i]), Right: slices.Clone(s.coordsB[j])})
		}
		return true
	})
	return terms, nil
}
