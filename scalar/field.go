// Package scalar defines the arithmetic contract tensor components are
// computed with, and the built-in fields.
package scalar

import (
	"math"
	"math/big"
	"math/cmplx"
)

// Field is the arithmetic a component type must support.
//
// Implementations must not mutate their operands.
type Field[T any] interface {
	Zero() T
	One() T
	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	// Div returns a/b. Callers guard b with IsZero.
	Div(a, b T) T
	Neg(a T) T
	Equal(a, b T) bool
	IsZero(a T) bool
}

// Magnitude is implemented by inexact fields. Elimination routines use Abs to
// choose the largest available pivot.
type Magnitude[T any] interface {
	Abs(a T) float64
}

// Float64 is the float64 field. Equality is within Tolerance (absolute).
type Float64 struct {
	Tolerance float64
}

var (
	_ Field[float64]     = Float64{}
	_ Magnitude[float64] = Float64{}
)

func (Float64) Zero() float64            { return 0 }
func (Float64) One() float64             { return 1 }
func (Float64) Add(a, b float64) float64 { return a + b }
func (Float64) Sub(a, b float64) float64 { return a - b }
func (Float64) Mul(a, b float64) float64 { return a * b }
func (Float64) Div(a, b float64) float64 { return a / b }
func (Float64) Neg(a float64) float64    { return -a }

func (f Float64) Equal(a, b float64) bool {
	return math.Abs(a-b) <= f.Tolerance
}

func (f Float64) IsZero(a float64) bool { return f.Equal(a, 0) }

func (Float64) Abs(a float64) float64 { return math.Abs(a) }

// Complex128 is the complex128 field. Equality is within Tolerance of the
// modulus of the difference.
type Complex128 struct {
	Tolerance float64
}

var (
	_ Field[complex128]     = Complex128{}
	_ Magnitude[complex128] = Complex128{}
)

func (Complex128) Zero() complex128               { return 0 }
func (Complex128) One() complex128                { return 1 }
func (Complex128) Add(a, b complex128) complex128 { return a + b }
func (Complex128) Sub(a, b complex128) complex128 { return a - b }
func (Complex128) Mul(a, b complex128) complex128 { return a * b }
func (Complex128) Div(a, b complex128) complex128 { return a / b }
func (Complex128) Neg(a complex128) complex128    { return -a }

func (f Complex128) Equal(a, b complex128) bool {
	return cmplx.Abs(a-b) <= f.Tolerance
}

func (f Complex128) IsZero(a complex128) bool { return f.Equal(a, 0) }

func (Complex128) Abs(a complex128) float64 { return cmplx.Abs(a) }

// Rat is the exact rational field over *big.Rat. Every operation allocates a
// fresh result; nil is treated as zero.
type Rat struct{}

var _ Field[*big.Rat] = Rat{}

func (Rat) Zero() *big.Rat { return new(big.Rat) }
func (Rat) One() *big.Rat  { return big.NewRat(1, 1) }

func (Rat) Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(orZero(a), orZero(b)) }
func (Rat) Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(orZero(a), orZero(b)) }
func (Rat) Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(orZero(a), orZero(b)) }
func (Rat) Neg(a *big.Rat) *big.Rat    { return new(big.Rat).Neg(orZero(a)) }

// Div returns a/b, or zero when b is zero.
func (Rat) Div(a, b *big.Rat) *big.Rat {
	b = orZero(b)
	if b.Sign() == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).Quo(orZero(a), b)
}

func (Rat) Equal(a, b *big.Rat) bool { return orZero(a).Cmp(orZero(b)) == 0 }
func (Rat) IsZero(a *big.Rat) bool   { return orZero(a).Sign() == 0 }

var ratZero = new(big.Rat)

func orZero(r *big.Rat) *big.Rat {
	if r == nil {
		return ratZero
	}
	return r
}

// Sum folds values with f.Add starting from f.Zero().
func Sum[T any](f Field[T], values ...T) T {
	acc := f.Zero()
	for _, v := range values {
		acc = f.Add(acc, v)
	}
	return acc
}
