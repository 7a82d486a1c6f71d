package codec

import gojson "github.com/goccy/go-json"

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
// Its output is interchangeable with JSON, and it applies the same
// Validator checks.
type GoJSON struct{}

// Marshal validates v if it is a Validator, then encodes it.
func (GoJSON) Marshal(v any) ([]byte, error) {
	if err := validate(v); err != nil {
		return nil, err
	}
	return gojson.Marshal(v)
}

// Unmarshal decodes the JSON data into v and validates the result.
func (GoJSON) Unmarshal(data []byte, v any) error {
	if err := gojson.Unmarshal(data, v); err != nil {
		return err
	}
	return validate(v)
}

// Name returns the unique name of the codec ("go-json").
func (GoJSON) Name() string { return "go-json" }
