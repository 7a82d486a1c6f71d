package index

import (
	"fmt"
)

// Kind identifies the combination algorithm behind a Strategy.
type Kind uint8

const (
	// KindEinsum is implicit contraction between two operands.
	KindEinsum Kind = iota
	// KindAdditive is structural addition between two operands.
	KindAdditive
	// KindSelfSum is self-contraction (trace) of a single operand.
	KindSelfSum
)

func (k Kind) String() string {
	switch k {
	case KindEinsum:
		return "einsum"
	case KindAdditive:
		return "additive"
	case KindSelfSum:
		return "selfsum"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Term names the operand entries that contribute to one result entry.
// Right is nil for self-contraction.
type Term struct {
	Left  Coord
	Right Coord
}

// Strategy maps a result coordinate to the operand coordinates to combine.
//
// Implementations hold immutable copies of everything they need; they never
// observe later changes to the operands they were built from.
type Strategy interface {
	Kind() Kind
	Terms(c Coord) ([]Term, error)
}

// CombinationResult is the outcome of a combination call: the result index
// structure and the strategy that generates its terms.
type CombinationResult struct {
	Indices  Indices
	Strategy Strategy
}

// Mode selects how a strategy enumerates terms.
type Mode uint8

const (
	// Lazy enumerates only the contracted sub-space of the requested coordinate.
	Lazy Mode = iota
	// Materialized builds the full filtered pair set up front and filters it per
	// coordinate.
	Materialized
)

func (m Mode) String() string {
	switch m {
	case Lazy:
		return "lazy"
	case Materialized:
		return "materialized"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMode parses "lazy" or "materialized".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "lazy", "":
		return Lazy, nil
	case "materialized":
		return Materialized, nil
	default:
		return Lazy, fmt.Errorf("index: unknown mode %q", s)
	}
}

type combineOptions struct {
	mode Mode
}

// CombineOption configures a combination call.
type CombineOption func(*combineOptions)

// WithMode selects the term enumeration mode.
func WithMode(m Mode) CombineOption {
	return func(o *combineOptions) {
		o.mode = m
	}
}

func applyCombineOptions(optFns []CombineOption) combineOptions {
	o := combineOptions{mode: Lazy}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// checkCoord validates a requested coordinate against the result space.
func checkCoord(res Indices, c Coord) error {
	if !res.Contains(c) {
		return fmt.Errorf("%w: %v for %s", ErrInvalidCoordinate, c, res)
	}
	return nil
}

// positionsOf returns the positions flagged false in skip.
func positionsOf(skip []bool) []int {
	out := make([]int, 0, len(skip))
	for i, s := range skip {
		if !s {
			out = append(out, i)
		}
	}
	return out
}
