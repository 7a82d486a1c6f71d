package index

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Variance distinguishes upper (contravariant) from lower (covariant) indices.
type Variance uint8

const (
	// Contravariant is an upper index, written ^a.
	Contravariant Variance = iota
	// Covariant is a lower index, written _a.
	Covariant
)

// Flip returns the opposite variance.
func (v Variance) Flip() Variance {
	if v == Covariant {
		return Contravariant
	}
	return Covariant
}

func (v Variance) String() string {
	if v == Covariant {
		return "_"
	}
	return "^"
}

type valueKind uint8

const (
	running valueKind = iota
	fixed
	restricted
)

// Index is a single named slot of an Indices.
//
// The zero value is not useful; construct with Up, Down or NewIndex.
// Index values are immutable: every modifier returns a copy.
type Index struct {
	symbol   string
	variance Variance
	order    int
	kind     valueKind
	values   []int
}

// NewIndex creates a running index. The symbol is checked when the index is
// bound: it must be non-empty and consist of letters, digits, ', ~ and -.
func NewIndex(symbol string, v Variance) Index {
	return Index{symbol: symbol, variance: v}
}

// Up creates a running contravariant index.
func Up(symbol string) Index { return NewIndex(symbol, Contravariant) }

// Down creates a running covariant index.
func Down(symbol string) Index { return NewIndex(symbol, Covariant) }

// Fixed returns a copy pinned to a single value.
func (i Index) Fixed(v int) Index {
	i.kind = fixed
	i.values = []int{v}
	return i
}

// Restrict returns a copy running over an explicit value list. The list is
// kept sorted and free of duplicates, so Restrict(2, 0) equals Restrict(0, 2).
func (i Index) Restrict(values ...int) Index {
	i.kind = restricted
	i.values = slices.Compact(slices.Sorted(slices.Values(values)))
	return i
}

// Range returns a copy running over [lo, hi).
func (i Index) Range(lo, hi int) Index {
	vals := make([]int, 0, max(hi-lo, 0))
	for v := lo; v < hi; v++ {
		vals = append(vals, v)
	}
	return i.Restrict(vals...)
}

// Running returns a copy running over the full bound dimension.
func (i Index) Running() Index {
	i.kind = running
	i.values = nil
	return i
}

// Negate returns a copy with flipped variance.
func (i Index) Negate() Index {
	i.variance = i.variance.Flip()
	return i
}

// WithOrder returns a copy at the given position.
func (i Index) WithOrder(order int) Index {
	i.order = order
	return i
}

// WithSymbol returns a copy with a different symbol.
func (i Index) WithSymbol(symbol string) Index {
	i.symbol = symbol
	return i
}

// Symbol returns the index name.
func (i Index) Symbol() string { return i.symbol }

// Variance returns the index variance.
func (i Index) Variance() Variance { return i.variance }

// Order returns the position assigned by the owning Indices.
func (i Index) Order() int { return i.order }

// IsCovariant reports whether the index is lower.
func (i Index) IsCovariant() bool { return i.variance == Covariant }

// IsRunning reports whether the index spans the full dimension.
func (i Index) IsRunning() bool { return i.kind == running }

// FixedValue returns the pinned value, if any.
func (i Index) FixedValue() (int, bool) {
	if i.kind != fixed {
		return 0, false
	}
	return i.values[0], true
}

// Restriction returns the explicit value list of a restricted index, or nil.
func (i Index) Restriction() []int {
	if i.kind != restricted {
		return nil
	}
	return slices.Clone(i.values)
}

// IsIdenticalTo reports same symbol and same variance.
func (i Index) IsIdenticalTo(o Index) bool {
	return i.symbol == o.symbol && i.variance == o.variance
}

// IsContractedWith reports same symbol and opposite variance.
func (i Index) IsContractedWith(o Index) bool {
	return i.symbol == o.symbol && i.variance != o.variance
}

// Values returns the value sequence of the index for the given dimension:
// the single value if fixed, the explicit list if restricted, [0, dim) if
// running. A dimension below 1 means unbound.
func (i Index) Values(dim int) ([]int, error) {
	if i.kind == running {
		if dim < 1 {
			return nil, fmt.Errorf("%w: running index %s", ErrUnboundDimension, i)
		}
		vals := make([]int, dim)
		for v := range vals {
			vals[v] = v
		}
		return vals, nil
	}
	if err := i.validate(dim); err != nil {
		return nil, err
	}
	return slices.Clone(i.values), nil
}

func (i Index) validate(dim int) error {
	if !validSymbol(i.symbol) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, i.symbol)
	}
	for _, v := range i.values {
		if v < 0 || (dim > 0 && v >= dim) {
			return fmt.Errorf("%w: %s value %d, dimension %d", ErrValueOutOfRange, i, v, dim)
		}
	}
	return nil
}

func (i Index) sameSpec(o Index) bool {
	return i.kind == o.kind && slices.Equal(i.values, o.values)
}

// String renders the index as ^a, _b, _b=1 or ^c{0,2}.
func (i Index) String() string {
	var sb strings.Builder
	sb.WriteString(i.variance.String())
	sb.WriteString(i.symbol)
	switch i.kind {
	case fixed:
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(i.values[0]))
	case restricted:
		sb.WriteByte('{')
		for k, v := range i.values {
			if k > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(v))
		}
		sb.WriteByte('}')
	}
	return sb.String()
}
