// Package testutil provides testing utilities for tensoralg.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic, thread-safe RNG and helpers for generating
// random tensors, metrics and permutations.
//
// # Random Tensors
//
//	rng := testutil.NewRNG(seed)
//	ix := index.Must(3, index.Up("a"), index.Down("b"))
//	t := rng.Tensor(ix)              // float64 components in [-1, 1)
//	g := rng.MetricComponents(3)     // symmetric, diagonally dominant
//
// # Permutations
//
//	for _, perm := range testutil.Permutations(3) { ... }
package testutil
