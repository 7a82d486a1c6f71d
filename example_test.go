package tensoralg_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/tensoralg"
	"github.com/hupe1980/tensoralg/blobstore"
	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/metric"
	"github.com/hupe1980/tensoralg/scalar"
	"github.com/hupe1980/tensoralg/tensor"
)

// Example_contract demonstrates implicit summation over a repeated symbol.
func Example_contract() {
	ctx := context.Background()
	var f scalar.Field[float64] = scalar.Float64{Tolerance: 1e-12}

	eng, err := tensoralg.New(f)
	if err != nil {
		log.Fatal(err)
	}

	a, _ := tensor.FromSlice(f, index.Must(2, index.Up("a"), index.Down("b")), []float64{1, 2, 3, 4})
	v, _ := tensor.FromSlice(f, index.Must(2, index.Up("b")), []float64{5, 6})

	w, err := eng.Contract(ctx, a, v)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(w)
	// Output: T(^a)[17 39]
}

// Example_trace demonstrates self-contraction to a scalar.
func Example_trace() {
	ctx := context.Background()
	var f scalar.Field[float64] = scalar.Float64{}

	eng, _ := tensoralg.New(f)
	m, _ := tensor.FromSlice(f, index.Must(2, index.Up("a"), index.Down("a")), []float64{1, 2, 3, 4})

	tr, err := eng.Trace(ctx, m)
	if err != nil {
		log.Fatal(err)
	}

	v, _ := tr.Value()
	fmt.Println(v)
	// Output: 5
}

// Example_lower demonstrates lowering an index with the Minkowski metric.
func Example_lower() {
	ctx := context.Background()
	var f scalar.Field[float64] = scalar.Float64{}

	eng, _ := tensoralg.New(f)
	eta, _ := metric.Diagonal(f, -1.0, 1, 1, 1)
	v, _ := tensor.FromSlice(f, index.Must(4, index.Up("a")), []float64{1, 2, 3, 4})

	low, err := eng.Lower(ctx, v, eta, "a")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(low)
	// Output: T(_a)[-1 2 3 4]
}

// Example_saveLoad demonstrates snapshots in a blob store.
func Example_saveLoad() {
	ctx := context.Background()
	var f scalar.Field[float64] = scalar.Float64{}

	eng, _ := tensoralg.New(f, tensoralg.WithStore(blobstore.NewMemoryStore()))
	g, _ := tensor.FromSlice(f, index.Must(2, index.Down("a"), index.Down("b")), []float64{1, 0, 0, 1})

	if err := eng.Save(ctx, "g", g); err != nil {
		log.Fatal(err)
	}
	loaded, err := eng.Load(ctx, "g")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(loaded)
	// Output: T(_a,_b)[1 0 0 1]
}
