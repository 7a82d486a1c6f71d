// Package tensoralg is a symbolic tensor index-algebra engine.
//
// Tensors carry a named index structure, e.g. T^a_b, and combine by index
// notation: contraction sums over every symbol that appears upper in one
// operand and lower in the other, addition matches slots by symbol and
// variance, and the trace sums over repeated symbols within one tensor.
//
// # Quick Start
//
//	var f scalar.Field[float64] = scalar.Float64{Tolerance: 1e-12}
//	eng, _ := tensoralg.New(f, tensoralg.WithWorkers(4))
//
//	a, _ := tensor.FromSlice(f, index.Must(2, index.Up("a"), index.Down("b")), []float64{1, 2, 3, 4})
//	v, _ := tensor.FromSlice(f, index.Must(2, index.Up("b")), []float64{5, 6})
//
//	w, _ := eng.Contract(ctx, a, v) // w^a = a^a_b v^b
//
// # Metrics and Raising
//
// Raise and Lower move an index with a metric.Metric:
//
//	g, _ := metric.Diagonal(f, -1.0, 1, 1, 1)
//	vLow, _ := eng.Lower(ctx, v, g, "b") // v_b = g_bc v^c
//
// # Persistence
//
// With WithStore, Save and Load write self-describing snapshots:
//
//	eng, _ := tensoralg.New(f, tensoralg.WithStore(blobstore.NewLocalStore("./tensors")))
//	_ = eng.Save(ctx, "w", w)
//
// # Observability
//
// Engines log through a slog-backed Logger and report every operation to a
// MetricsCollector; see prommetrics for a Prometheus implementation.
package tensoralg
