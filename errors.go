package tensoralg

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tensoralg/blobstore"
	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/metric"
	"github.com/hupe1980/tensoralg/tensor"
)

// Public error contract. All of them match with errors.Is against errors
// returned by Engine.
var (
	ErrShapeMismatch       = index.ErrShapeMismatch
	ErrStructureMismatch   = index.ErrStructureMismatch
	ErrMultipleContraction = index.ErrMultipleContraction
	ErrUnboundDimension    = index.ErrUnboundDimension
	ErrSymbolNotFound      = index.ErrSymbolNotFound
	ErrAmbiguousSymbol     = tensor.ErrAmbiguousSymbol
	ErrSingular            = metric.ErrSingular
	ErrNotFound            = blobstore.ErrNotFound

	// ErrNoStore is returned by Save and Load when no store is configured.
	ErrNoStore = errors.New("tensoralg: no store configured")

	// ErrNilTensor is returned when an operand or metric is nil.
	ErrNilTensor = errors.New("tensoralg: nil tensor")
)

// ErrDimensionMismatch indicates operands bound to different dimensions.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrContraction indicates a symbol with ambiguous contraction partners.
type ErrContraction struct {
	Symbol string
	cause  error
}

func (e *ErrContraction) Error() string {
	return fmt.Sprintf("ambiguous contraction of %q", e.Symbol)
}

func (e *ErrContraction) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var sm *index.ShapeMismatchError
	if errors.As(err, &sm) {
		return &ErrDimensionMismatch{Expected: sm.Left, Actual: sm.Right, cause: err}
	}
	var mc *index.MultipleContractionError
	if errors.As(err, &mc) {
		return &ErrContraction{Symbol: mc.Symbol, cause: err}
	}
	return err
}
