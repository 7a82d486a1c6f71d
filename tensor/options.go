package tensor

import (
	"context"

	"github.com/hupe1980/tensoralg/index"
)

type options struct {
	mode    index.Mode
	workers int
	budget  Budget
}

// Budget reserves memory for result components while they are evaluated.
type Budget interface {
	AcquireMemory(ctx context.Context, bytes int64) error
	ReleaseMemory(bytes int64)
}

// Option configures evaluation of a tensor operation.
type Option func(*options)

// WithMode selects lazy or materialized term enumeration.
func WithMode(m index.Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithWorkers fills result components with up to n goroutines.
// n <= 1 evaluates serially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithBudget makes every evaluation reserve the size of its result from b
// before allocating it, blocking while b is exhausted.
func WithBudget(b Budget) Option {
	return func(o *options) {
		o.budget = b
	}
}

func applyOptions(optFns []Option) options {
	o := options{mode: index.Lazy, workers: 1}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
