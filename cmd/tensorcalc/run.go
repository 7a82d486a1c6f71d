package main

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/tensoralg"
	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/metric"
	"github.com/hupe1980/tensoralg/tensor"
)

// Runner evaluates a Computation on an engine.
type Runner struct {
	eng  *tensoralg.Engine[float64]
	out  io.Writer
	save bool
}

// Result maps every input and step name to its tensor.
type Result map[string]*tensor.Tensor[float64]

// Run binds the inputs, evaluates the steps in order and prints each step
// result unless it sets print: false.
func (r *Runner) Run(ctx context.Context, c *Computation) (Result, error) {
	env := make(Result, len(c.Tensors)+len(c.Steps))
	f := r.eng.Field()

	for name, spec := range c.Tensors {
		t, err := r.input(ctx, c.Dimension, spec)
		if err != nil {
			return nil, fmt.Errorf("tensor %s: %w", name, err)
		}
		env[name] = t
	}

	var g tensor.Metric[float64]
	if len(c.Metric) > 0 {
		m, err := metric.New(f, c.Dimension, c.Metric)
		if err != nil {
			return nil, fmt.Errorf("metric: %w", err)
		}
		g = m
	}

	for i, s := range c.Steps {
		t, err := r.step(ctx, s, env, g)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s %s): %w", i, s.Op, s.Name, err)
		}
		env[s.Name] = t

		if s.Print == nil || *s.Print {
			fmt.Fprintf(r.out, "%s = %s\n", s.Name, t)
		}
		if r.save {
			if err := r.eng.Save(ctx, s.Name, t); err != nil {
				return nil, err
			}
		}
	}
	return env, nil
}

func (r *Runner) input(ctx context.Context, dim int, spec TensorSpec) (*tensor.Tensor[float64], error) {
	if spec.Load != "" {
		return r.eng.Load(ctx, spec.Load)
	}

	ix, err := index.Parse(spec.Indices)
	if err != nil {
		return nil, err
	}
	if !ix.IsScalar() {
		if ix, err = ix.Bind(dim); err != nil {
			return nil, err
		}
	}
	return tensor.FromSlice(r.eng.Field(), ix, spec.Components)
}

func (r *Runner) step(ctx context.Context, s Step, env Result, g tensor.Metric[float64]) (*tensor.Tensor[float64], error) {
	a := env[s.Args[0]]
	switch s.Op {
	case "contract":
		return r.eng.Contract(ctx, a, env[s.Args[1]])
	case "add":
		return r.eng.Add(ctx, a, env[s.Args[1]])
	case "sub":
		return r.eng.Sub(ctx, a, env[s.Args[1]])
	case "trace":
		return r.eng.Trace(ctx, a)
	case "raise":
		return r.eng.Raise(ctx, a, g, s.Symbol)
	case "lower":
		return r.eng.Lower(ctx, a, g, s.Symbol)
	case "scale":
		return tensor.Scale(a, s.Factor), nil
	default:
		return nil, fmt.Errorf("unknown op %q", s.Op)
	}
}
