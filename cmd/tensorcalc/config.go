package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Computation is the YAML description of a tensor calculation.
//
//	dimension: 2
//	metric: [1, 0, 0, 1]
//	tensors:
//	  A: {indices: "^a _b", components: [1, 2, 3, 4]}
//	  v: {indices: "^b", components: [5, 6]}
//	steps:
//	  - {name: w, op: contract, args: [A, v]}
//	  - {name: w_low, op: lower, args: [w], symbol: a}
type Computation struct {
	Dimension int                   `yaml:"dimension" validate:"required,gt=0"`
	Metric    []float64             `yaml:"metric"`
	Tensors   map[string]TensorSpec `yaml:"tensors" validate:"required,min=1,dive,keys,required,endkeys"`
	Steps     []Step                `yaml:"steps" validate:"dive"`
}

// TensorSpec is an input tensor, given inline or loaded from the store.
type TensorSpec struct {
	Indices    string    `yaml:"indices"`
	Components []float64 `yaml:"components" validate:"required_without=Load"`
	Load       string    `yaml:"load"`
}

// Step is one operation whose result is bound to Name.
type Step struct {
	Name   string   `yaml:"name" validate:"required"`
	Op     string   `yaml:"op" validate:"required,oneof=contract add sub trace raise lower scale"`
	Args   []string `yaml:"args" validate:"required,min=1,max=2"`
	Symbol string   `yaml:"symbol"`
	Factor float64  `yaml:"factor"`
	Print  *bool    `yaml:"print"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// arity is the number of operands each op takes.
var arity = map[string]int{
	"contract": 2,
	"add":      2,
	"sub":      2,
	"trace":    1,
	"raise":    1,
	"lower":    1,
	"scale":    1,
}

// ParseComputation decodes and validates a computation.
func ParseComputation(data []byte) (*Computation, error) {
	var c Computation
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse computation: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadComputation reads a computation file.
func LoadComputation(path string) (*Computation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseComputation(data)
}

// Validate checks the struct tags and the rules that span fields.
func (c *Computation) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid computation: %w", err)
	}

	var errs []error
	if len(c.Metric) > 0 && len(c.Metric) != c.Dimension*c.Dimension {
		errs = append(errs, fmt.Errorf("metric: %d components for dimension %d", len(c.Metric), c.Dimension))
	}

	defined := make(map[string]bool, len(c.Tensors)+len(c.Steps))
	for name := range c.Tensors {
		defined[name] = true
	}
	for i, s := range c.Steps {
		if n := arity[s.Op]; len(s.Args) != n {
			errs = append(errs, fmt.Errorf("step %d (%s): %s takes %d operands, got %d", i, s.Name, s.Op, n, len(s.Args)))
		}
		if (s.Op == "raise" || s.Op == "lower") && s.Symbol == "" {
			errs = append(errs, fmt.Errorf("step %d (%s): %s needs a symbol", i, s.Name, s.Op))
		}
		if (s.Op == "raise" || s.Op == "lower") && len(c.Metric) == 0 {
			errs = append(errs, fmt.Errorf("step %d (%s): %s needs a metric", i, s.Name, s.Op))
		}
		for _, a := range s.Args {
			if !defined[a] {
				errs = append(errs, fmt.Errorf("step %d (%s): undefined operand %q", i, s.Name, a))
			}
		}
		defined[s.Name] = true
	}
	return errors.Join(errs...)
}
