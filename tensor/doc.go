// Package tensor evaluates index-algebra combinations over concrete
// components.
//
// A Tensor pairs an index.Indices with a dense component container and the
// scalar field its arithmetic runs in. Operations compute the combination
// with the index package and then fill the result coordinate by coordinate:
//
//	A, _ := tensor.FromSlice(f, index.Must(2, index.Down("a"), index.Down("b")), []float64{1, 2, 3, 4})
//	B, _ := tensor.FromSlice(f, index.Must(2, index.Up("a"), index.Down("c")), []float64{5, 6, 7, 8})
//	C, _ := tensor.Contract(ctx, A, B) // C_bc = A_ab B^a_c
//
// Raise and Lower move a single index with a Metric by contracting with g^ab
// or g_ab; the moved slot keeps its position.
//
// # Concurrency
//
// Tensors are immutable and safe for concurrent use. WithWorkers(n) splits the
// result coordinates of one operation across n goroutines.
package tensor
