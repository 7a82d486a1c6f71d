package testutil

import (
	"math/big"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/scalar"
	"github.com/hupe1980/tensoralg/tensor"
)

// Tolerance is the float64 tolerance tests compare results with.
const Tolerance = 1e-9

// Field is the float64 field used by the helpers.
var Field scalar.Field[float64] = scalar.Float64{Tolerance: Tolerance}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// Components returns n random values in range [-1, 1).
func (r *RNG) Components(n int) []float64 {
	data := make([]float64, n)
	r.FillUniformRange(data, -1, 1)
	return data
}

// Rats returns n random rationals p/q with |p| < 100 and 0 < q <= maxDen.
func (r *RNG) Rats(n int, maxDen int64) []*big.Rat {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*big.Rat, n)
	for i := range out {
		p := r.rand.Int63n(199) - 99
		q := r.rand.Int63n(maxDen) + 1
		out[i] = big.NewRat(p, q)
	}
	return out
}

// Tensor returns a float64 tensor over ix with components in [-1, 1).
// ix must be bound or scalar.
func (r *RNG) Tensor(ix index.Indices) *tensor.Tensor[float64] {
	n := 1
	for _, s := range ix.Shape() {
		n *= s
	}
	t, err := tensor.FromSlice(Field, ix, r.Components(n))
	if err != nil {
		panic(err)
	}
	return t
}

// MetricComponents returns row-major components of a random symmetric,
// strictly diagonally dominant (hence invertible) dim x dim matrix.
func (r *RNG) MetricComponents(dim int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := make([]float64, dim*dim)
	for i := range dim {
		for j := i + 1; j < dim; j++ {
			v := r.rand.Float64()*2 - 1
			g[i*dim+j] = v
			g[j*dim+i] = v
		}
	}
	for i := range dim {
		sum := 1.0
		for j := range dim {
			if j != i {
				sum += abs(g[i*dim+j])
			}
		}
		g[i*dim+i] = sum + r.rand.Float64()
	}
	return g
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Permutations returns every permutation of 0..n-1 in lexicographic order.
func Permutations(n int) [][]int {
	var out [][]int
	cur := make([]int, 0, n)
	used := make([]bool, n)

	var rec func()
	rec = func() {
		if len(cur) == n {
			out = append(out, slices.Clone(cur))
			return
		}
		for i := range n {
			if used[i] {
				continue
			}
			used[i] = true
			cur = append(cur, i)
			rec()
			cur = cur[:len(cur)-1]
			used[i] = false
		}
	}
	rec()
	return out
}
