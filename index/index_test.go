package index

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_String(t *testing.T) {
	tests := []struct {
		name     string
		idx      Index
		expected string
	}{
		{"Up", Up("a"), "^a"},
		{"Down", Down("b"), "_b"},
		{"Fixed", Down("b").Fixed(1), "_b=1"},
		{"Restricted", Up("c").Restrict(0, 2, 0), "^c{0,2}"},
		{"Range", Up("d").Range(1, 3), "^d{1,2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.idx.String())
		})
	}
}

func TestIndex_Relations(t *testing.T) {
	assert.True(t, Up("a").IsIdenticalTo(Up("a")))
	assert.False(t, Up("a").IsIdenticalTo(Down("a")))
	assert.True(t, Up("a").IsContractedWith(Down("a")))
	assert.False(t, Up("a").IsContractedWith(Down("b")))
	assert.False(t, Up("a").IsContractedWith(Up("a")))

	neg := Up("a").Negate()
	assert.True(t, neg.IsCovariant())
	assert.Equal(t, "a", neg.Symbol())
}

func TestIndex_Values(t *testing.T) {
	vals, err := Up("a").Values(3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, vals)

	vals, err = Up("a").Fixed(2).Values(3)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, vals)

	v, ok := Up("a").Fixed(2).FixedValue()
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = Up("a").FixedValue()
	assert.False(t, ok)

	_, err = Up("a").Values(0)
	assert.ErrorIs(t, err, ErrUnboundDimension)

	_, err = Up("a").Fixed(3).Values(3)
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	// a restricted index needs no dimension
	vals, err = Down("b").Restrict(4, 1).Values(0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, vals)
}

func TestIndex_RestrictCanonical(t *testing.T) {
	a := Up("c").Restrict(2, 0, 2)
	b := Up("c").Restrict(0, 2)

	assert.Equal(t, "^c{0,2}", a.String())
	assert.Equal(t, []int{0, 2}, a.Restriction())
	assert.True(t, a.sameSpec(b))

	res, err := Must(3, a).Additive(Must(3, b))
	require.NoError(t, err)
	assert.Equal(t, "(^c{0,2})", res.Indices.String())

	terms, err := res.Strategy.Terms(Coord{2})
	require.NoError(t, err)
	assert.Equal(t, []Term{{Left: Coord{2}, Right: Coord{2}}}, terms)
}

func TestIndex_InvalidSymbol(t *testing.T) {
	for _, sym := range []string{"", "a,b", "a{", "a b", "^a", "a=1"} {
		t.Run(sym, func(t *testing.T) {
			_, err := New(2, Up(sym))
			assert.ErrorIs(t, err, ErrInvalidSymbol)

			_, err = Unbound(Down(sym)).Bind(2)
			assert.ErrorIs(t, err, ErrInvalidSymbol)

			_, err = Must(2, Up("a")).Rename("a", sym)
			assert.ErrorIs(t, err, ErrInvalidSymbol)

			assert.Panics(t, func() { Must(2, Up(sym)) })
		})
	}

	for _, sym := range []string{"a", "mu1", "a'", "~tmp-1", "α"} {
		_, err := New(2, Up(sym))
		assert.NoError(t, err, sym)
	}
}

func TestIndex_Immutable(t *testing.T) {
	base := Up("a").Restrict(0, 1)
	r := base.Restriction()
	r[0] = 9
	assert.Equal(t, []int{0, 1}, base.Restriction())

	_ = base.Fixed(1)
	assert.False(t, base.IsRunning())
	assert.True(t, base.Running().IsRunning())
}

func TestVariance(t *testing.T) {
	assert.Equal(t, Covariant, Contravariant.Flip())
	assert.Equal(t, Contravariant, Covariant.Flip())
	assert.Equal(t, "^", Contravariant.String())
	assert.Equal(t, "_", Covariant.String())
}

func TestErrors_Unwrap(t *testing.T) {
	var err error = &ShapeMismatchError{Left: 3, Right: 4}
	assert.ErrorIs(t, err, ErrShapeMismatch)

	var sme *ShapeMismatchError
	require.True(t, errors.As(err, &sme))
	assert.Equal(t, 4, sme.Right)

	err = &MultipleContractionError{Symbol: "a", Left: 2, Right: 1}
	assert.ErrorIs(t, err, ErrMultipleContraction)
	assert.Contains(t, err.Error(), `"a"`)

	err = &StructureMismatchError{Left: "(^a)", Right: "(^b)"}
	assert.ErrorIs(t, err, ErrStructureMismatch)
}
