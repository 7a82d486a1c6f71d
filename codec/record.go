package codec

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// ErrInvalidRecord is returned when a record fails validation on its way
// into or out of a codec.
var ErrInvalidRecord = errors.New("codec: invalid record")

// Validator is implemented by payloads that check themselves. The built-in
// codecs call Validate before Marshal and after Unmarshal.
type Validator interface {
	Validate() error
}

// Record is the codec-encoded body of a tensor snapshot: the dimension, the
// index notation (e.g. "(^a,_b=1)") and the row-major component list.
type Record[T any] struct {
	Dim        int    `json:"dim"`
	Indices    string `json:"indices"`
	Components []T    `json:"components"`
}

// Validate rejects values JSON cannot carry faithfully: NaN and Inf floats,
// complex components and nil rationals.
func (r *Record[T]) Validate() error {
	if r == nil {
		return nil
	}
	if r.Dim < 0 {
		return fmt.Errorf("%w: dimension %d", ErrInvalidRecord, r.Dim)
	}

	switch c := any(r.Components).(type) {
	case []float64:
		for k, v := range c {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: component %d of %s is %v", ErrInvalidRecord, k, r.Indices, v)
			}
		}
	case []complex128:
		return fmt.Errorf("%w: complex components are not supported", ErrInvalidRecord)
	case []*big.Rat:
		for k, v := range c {
			if v == nil {
				return fmt.Errorf("%w: component %d of %s is null", ErrInvalidRecord, k, r.Indices)
			}
		}
	}
	return nil
}

func validate(v any) error {
	if vv, ok := v.(Validator); ok {
		return vv.Validate()
	}
	return nil
}
