package tensoralg

import (
	"context"
	"time"

	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/persistence"
	"github.com/hupe1980/tensoralg/scalar"
	"github.com/hupe1980/tensoralg/tensor"
)

// Engine evaluates tensor operations over one scalar field with shared
// evaluation, logging, metrics and storage settings.
// It holds no mutable state and is safe for concurrent use.
type Engine[T any] struct {
	field scalar.Field[T]
	opts  options
	repo  *persistence.Repository[T]
}

// New creates an Engine over f.
func New[T any](f scalar.Field[T], optFns ...Option) (*Engine[T], error) {
	if f == nil {
		return nil, tensor.ErrNilField
	}

	o := applyOptions(optFns)
	e := &Engine[T]{field: f, opts: o}
	if o.store != nil {
		repoOpts := []persistence.Option{
			persistence.WithCodec(o.codec),
			persistence.WithCompression(o.compression),
			persistence.WithConcurrency(max(o.workers, 1)),
		}
		if o.resources != nil {
			repoOpts = append(repoOpts, persistence.WithIOLimiter(o.resources))
		}
		e.repo = persistence.NewRepository(o.store, f, repoOpts...)
	}
	return e, nil
}

// Field returns the scalar field.
func (e *Engine[T]) Field() scalar.Field[T] { return e.field }

// Logger returns the configured logger.
func (e *Engine[T]) Logger() *Logger { return e.opts.logger }

// MemoryUsage returns the bytes currently reserved by running operations
// under WithResourceLimits.
func (e *Engine[T]) MemoryUsage() int64 { return e.opts.resources.MemoryUsage() }

// Contract multiplies a and b, summing over every upper/lower symbol pair.
func (e *Engine[T]) Contract(ctx context.Context, a, b *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	if a == nil || b == nil {
		return nil, ErrNilTensor
	}
	return e.combine(ctx, index.KindEinsum, func() (*tensor.Tensor[T], error) {
		return tensor.Contract(ctx, a, b, e.opts.tensorOptions()...)
	})
}

// Add returns a + b.
func (e *Engine[T]) Add(ctx context.Context, a, b *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	if a == nil || b == nil {
		return nil, ErrNilTensor
	}
	return e.combine(ctx, index.KindAdditive, func() (*tensor.Tensor[T], error) {
		return tensor.Add(ctx, a, b, e.opts.tensorOptions()...)
	})
}

// Sub returns a - b.
func (e *Engine[T]) Sub(ctx context.Context, a, b *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	if a == nil || b == nil {
		return nil, ErrNilTensor
	}
	return e.combine(ctx, index.KindAdditive, func() (*tensor.Tensor[T], error) {
		return tensor.Sub(ctx, a, b, e.opts.tensorOptions()...)
	})
}

// Trace contracts every upper/lower pair of the same symbol within t.
func (e *Engine[T]) Trace(ctx context.Context, t *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	if t == nil {
		return nil, ErrNilTensor
	}
	return e.combine(ctx, index.KindSelfSum, func() (*tensor.Tensor[T], error) {
		return tensor.Trace(ctx, t, e.opts.tensorOptions()...)
	})
}

func (e *Engine[T]) combine(ctx context.Context, kind index.Kind, fn func() (*tensor.Tensor[T], error)) (*tensor.Tensor[T], error) {
	start := time.Now()
	out, err := fn()
	err = translateError(err)

	var (
		n  int
		ix index.Indices
	)
	if out != nil {
		ix = out.Indices()
		n = out.Len()
	}
	e.opts.metricsCollector.RecordCombination(kind, n, time.Since(start), err)
	e.opts.logger.LogCombination(ctx, kind, ix, err)

	if err != nil {
		return nil, err
	}
	return out, nil
}

// Raise turns the lower slot of symbol in t into an upper slot.
func (e *Engine[T]) Raise(ctx context.Context, t *tensor.Tensor[T], m tensor.Metric[T], symbol string) (*tensor.Tensor[T], error) {
	if t == nil || m == nil {
		return nil, ErrNilTensor
	}
	return e.move(ctx, "raise", symbol, func() (*tensor.Tensor[T], error) {
		return tensor.Raise(ctx, t, m, symbol, e.opts.tensorOptions()...)
	})
}

// Lower turns the upper slot of symbol in t into a lower slot.
func (e *Engine[T]) Lower(ctx context.Context, t *tensor.Tensor[T], m tensor.Metric[T], symbol string) (*tensor.Tensor[T], error) {
	if t == nil || m == nil {
		return nil, ErrNilTensor
	}
	return e.move(ctx, "lower", symbol, func() (*tensor.Tensor[T], error) {
		return tensor.Lower(ctx, t, m, symbol, e.opts.tensorOptions()...)
	})
}

func (e *Engine[T]) move(ctx context.Context, op, symbol string, fn func() (*tensor.Tensor[T], error)) (*tensor.Tensor[T], error) {
	start := time.Now()
	out, err := fn()
	err = translateError(err)

	e.opts.metricsCollector.RecordRaiseLower(op, time.Since(start), err)
	e.opts.logger.LogRaiseLower(ctx, op, symbol, err)

	if err != nil {
		return nil, err
	}
	return out, nil
}

// Save stores t under name in the configured store.
func (e *Engine[T]) Save(ctx context.Context, name string, t *tensor.Tensor[T]) error {
	if e.repo == nil {
		return ErrNoStore
	}
	if t == nil {
		return ErrNilTensor
	}

	start := time.Now()
	err := e.repo.Save(ctx, name, t)

	e.opts.metricsCollector.RecordSnapshot("save", time.Since(start), err)
	e.opts.logger.LogSnapshot(ctx, "save", name, err)
	return err
}

// Load reads the tensor stored under name.
func (e *Engine[T]) Load(ctx context.Context, name string) (*tensor.Tensor[T], error) {
	if e.repo == nil {
		return nil, ErrNoStore
	}

	start := time.Now()
	t, err := e.repo.Load(ctx, name)

	e.opts.metricsCollector.RecordSnapshot("load", time.Since(start), err)
	e.opts.logger.LogSnapshot(ctx, "load", name, err)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the names of all stored tensors.
func (e *Engine[T]) List(ctx context.Context) ([]string, error) {
	if e.repo == nil {
		return nil, ErrNoStore
	}
	return e.repo.List(ctx)
}
