package index

import (
	"slices"

	"github.com/hupe1980/tensoralg/internal/coord"
	"github.com/hupe1980/tensoralg/internal/pairset"
)

// SelfSum contracts every mutually contracted pair within ix (the trace).
//
// A contracted symbol occurring more than twice cannot be traced
// unambiguously and fails with ErrMultipleContraction. Without any pair the
// result is the identity combination. Terms carry only Left.
func (ix Indices) SelfSum(opts ...CombineOption) (CombinationResult, error) {
	o := applyCombineOptions(opts)

	if err := requireDim(ix.dim, ix); err != nil {
		return CombinationResult{}, err
	}

	pairs, err := selfPairs(ix)
	if err != nil {
		return CombinationResult{}, err
	}

	skip := make([]bool, ix.Len())
	for _, p := range pairs {
		skip[p.a] = true
		skip[p.b] = true
	}
	res := build(ix.dim, ix.without(skip))

	sets, err := ix.valueSets()
	if err != nil {
		return CombinationResult{}, err
	}
	for k := range pairs {
		pairs[k].values = coord.Intersect(sets[pairs[k].a], sets[pairs[k].b])
	}

	base := selfSumBase{res: res, n: ix.Len(), free: positionsOf(skip), pairs: pairs}

	if o.mode == Materialized {
		return CombinationResult{Indices: res, Strategy: newSelfSumMaterialized(base, sets)}, nil
	}

	lists := make([][]int, len(pairs))
	for k, p := range pairs {
		lists[k] = p.values
	}
	return CombinationResult{Indices: res, Strategy: &selfSumLazy{selfSumBase: base, lists: lists}}, nil
}

func selfPairs(ix Indices) ([]contraction, error) {
	var pairs []contraction
	for i, x := range ix.idx {
		for j := i + 1; j < len(ix.idx); j++ {
			if !x.IsContractedWith(ix.idx[j]) {
				continue
			}
			if n := countSymbol(ix, x.symbol); n != 2 {
				return nil, &MultipleContractionError{Symbol: x.symbol, Left: n, Right: n}
			}
			pairs = append(pairs, contraction{a: i, b: j})
		}
	}
	return pairs, nil
}

type selfSumBase struct {
	res   Indices
	n     int
	free  []int
	pairs []contraction
}

func (selfSumBase) Kind() Kind { return KindSelfSum }

type selfSumLazy struct {
	selfSumBase
	lists [][]int
}

func (s *selfSumLazy) Terms(c Coord) ([]Term, error) {
	if err := checkCoord(s.res, c); err != nil {
		return nil, err
	}
	base := make(Coord, s.n)
	for k, p := range s.free {
		base[p] = c[k]
	}

	terms := make([]Term, 0, coord.Count(s.lists))
	for vals := range coord.Product(s.lists) {
		l := slices.Clone(base)
		for k, p := range s.pairs {
			l[p.a] = vals[k]
			l[p.b] = vals[k]
		}
		terms = append(terms, Term{Left: l})
	}
	return terms, nil
}

// selfSumMaterialized holds the diagonal set: the operand's coordinates whose
// paired positions hold equal values.
type selfSumMaterialized struct {
	selfSumBase
	coords [][]int
	set    *pairset.Set
}

func newSelfSumMaterialized(base selfSumBase, sets [][]int) *selfSumMaterialized {
	coords := coord.Collect(sets)

	pa := make([]int, len(base.pairs))
	pb := make([]int, len(base.pairs))
	for k, p := range base.pairs {
		pa[k] = p.a
		pb[k] = p.b
	}

	set := pairset.New(1)
	for i, c := range coords {
		if coord.Equal(c, pa, c, pb) {
			set.Add(i, 0)
		}
	}

	return &selfSumMaterialized{selfSumBase: base, coords: coords, set: set}
}

func (s *selfSumMaterialized) Terms(c Coord) ([]Term, error) {
	if err := checkCoord(s.res, c); err != nil {
		return nil, err
	}
	scalar := s.res.IsScalar()

	terms := make([]Term, 0)
	s.set.Each(func(i, _ int) bool {
		if scalar || coord.Matches(s.coords[i], s.free, c) {
			terms = append(terms, Term{Left: slices.Clone(s.coords[i])})
		}
		return true
	})
	return terms, nil
}
