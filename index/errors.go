package index

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when two operands are bound to different dimensions.
	ErrShapeMismatch = errors.New("index: shape mismatch")

	// ErrStructureMismatch is returned when an additive combination is requested
	// between incompatible symbol/variance structures.
	ErrStructureMismatch = errors.New("index: structure mismatch")

	// ErrMultipleContraction is returned when a symbol has more than one
	// contraction partner.
	ErrMultipleContraction = errors.New("index: multiple contraction partners")

	// ErrUnboundDimension is returned when a running index is iterated before
	// a dimension has been bound.
	ErrUnboundDimension = errors.New("index: dimension not bound")

	// ErrInvalidDimension is returned when binding a non-positive dimension.
	ErrInvalidDimension = errors.New("index: invalid dimension")

	// ErrValueOutOfRange is returned when a fixed or restricted value lies
	// outside [0, dim).
	ErrValueOutOfRange = errors.New("index: value out of range")

	// ErrInvalidCoordinate is returned when a coordinate does not address the
	// coordinate space of a combination result.
	ErrInvalidCoordinate = errors.New("index: invalid coordinate")

	// ErrInvalidSymbol is returned when a symbol is empty or contains
	// characters outside letters, digits, ', ~ and -.
	ErrInvalidSymbol = errors.New("index: invalid symbol")

	// ErrSymbolNotFound is returned when a symbol is not present.
	ErrSymbolNotFound = errors.New("index: symbol not found")

	// ErrInvalidPermutation is returned when a slot permutation is malformed.
	ErrInvalidPermutation = errors.New("index: invalid permutation")
)

// ShapeMismatchError reports the two dimensions that disagree.
type ShapeMismatchError struct {
	Left  int
	Right int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("index: shape mismatch: dimension %d vs %d", e.Left, e.Right)
}

func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

// StructureMismatchError carries both index descriptors of a failed
// additive combination.
type StructureMismatchError struct {
	Left  string
	Right string
}

func (e *StructureMismatchError) Error() string {
	return fmt.Sprintf("index: structure mismatch: %s vs %s", e.Left, e.Right)
}

func (e *StructureMismatchError) Unwrap() error { return ErrStructureMismatch }

// MultipleContractionError reports a symbol that cannot be contracted
// unambiguously.
type MultipleContractionError struct {
	Symbol string
	Left   int // occurrences in the left operand
	Right  int // occurrences in the right operand
}

func (e *MultipleContractionError) Error() string {
	return fmt.Sprintf("index: symbol %q has ambiguous contraction partners (%d left, %d right)",
		e.Symbol, e.Left, e.Right)
}

func (e *MultipleContractionError) Unwrap() error { return ErrMultipleContraction }
