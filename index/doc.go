// Package index implements the symbolic index algebra behind tensor
// arithmetic.
//
// An Index is a named slot with a variance (upper ^a or lower _a) and a value
// specification: running over the full dimension, fixed to one value, or
// restricted to an explicit list. An Indices is an ordered, immutable
// collection of Index values bound to one dimension. Its coordinate space is
// the cartesian product of every member's values, enumerated in row-major
// order.
//
// # Combinations
//
// Three operations compute the index structure of a result and a Strategy
// that maps every result coordinate to the operand coordinates combining into
// it:
//
//   - Einsum: implicit summation over every symbol that occurs with opposite
//     variance in both operands. The result is left free indices then right
//     free indices.
//   - Additive: entry-wise alignment of two operands with the same
//     (symbol, variance) multiset, independent of slot order.
//   - SelfSum: contraction of mutually contracted pairs within one operand.
//
// For example (_a,_b) combined with (^a,_c) yields (_b,_c), and the terms
// for result coordinate (1,0) pair left (x,1) with right (x,0) for every x in
// [0, dim).
//
// # Modes
//
// Lazy strategies (the default) enumerate only the contracted sub-space of a
// requested coordinate. Materialized strategies build the full filtered pair
// set once, stored as a roaring bitmap, and filter it per coordinate. Both
// return the same terms.
//
//	res, err := index.Must(3, index.Down("a"), index.Down("b")).
//		Einsum(index.Must(3, index.Up("a")), index.WithMode(index.Materialized))
package index
