package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Components round-trip as long as the component type does: float64 values
// and *big.Rat (through its text form) are supported. A Record holding NaN,
// Inf or complex components is rejected with ErrInvalidRecord.
type JSON struct{}

// Marshal validates v if it is a Validator, then encodes it to JSON.
func (JSON) Marshal(v any) ([]byte, error) {
	if err := validate(v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Unmarshal decodes the JSON data into v and validates the result.
func (JSON) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	return validate(v)
}

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used by the library.
//
// NOTE: This affects newly-written snapshots only. Existing snapshots store
// the codec name in their header and are decoded with that codec.
var Default Codec = GoJSON{}
