// Package coord provides cartesian-product iteration over per-slot value lists.
//
// The product is enumerated in row-major order: the last slot varies fastest.
package coord

import (
	"iter"
	"slices"
)

// Count returns the number of tuples Product would yield.
// An empty list of slots yields exactly one (empty) tuple.
func Count(lists [][]int) int {
	n := 1
	for _, l := range lists {
		n *= len(l)
	}
	return n
}

// Product returns an iterator over the cartesian product of lists.
// Every yielded tuple is a fresh slice owned by the caller.
func Product(lists [][]int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for _, l := range lists {
			if len(l) == 0 {
				return
			}
		}

		pos := make([]int, len(lists))
		for {
			tup := make([]int, len(lists))
			for i, p := range pos {
				tup[i] = lists[i][p]
			}
			if !yield(tup) {
				return
			}

			// odometer step, last slot fastest
			k := len(pos) - 1
			for ; k >= 0; k-- {
				pos[k]++
				if pos[k] < len(lists[k]) {
					break
				}
				pos[k] = 0
			}
			if k < 0 {
				return
			}
		}
	}
}

// Collect materializes the product into a slice.
func Collect(lists [][]int) [][]int {
	out := make([][]int, 0, Count(lists))
	for tup := range Product(lists) {
		out = append(out, tup)
	}
	return out
}

// Intersect returns the values present in both a and b, in a's order.
func Intersect(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	for _, v := range a {
		if slices.Contains(b, v) {
			out = append(out, v)
		}
	}
	return out
}

// Equal reports whether a and b agree at the given positions.
// pa[i] in a is compared with pb[i] in b.
func Equal(a []int, pa []int, b []int, pb []int) bool {
	for i := range pa {
		if a[pa[i]] != b[pb[i]] {
			return false
		}
	}
	return true
}

// Matches reports whether tup holds want[i] at position pos[i] for every i.
func Matches(tup []int, pos []int, want []int) bool {
	for i, p := range pos {
		if tup[p] != want[i] {
			return false
		}
	}
	return true
}
