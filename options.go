package tensoralg

import (
	"log/slog"

	"github.com/hupe1980/tensoralg/blobstore"
	"github.com/hupe1980/tensoralg/codec"
	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/internal/resource"
	"github.com/hupe1980/tensoralg/tensor"
)

type options struct {
	mode             index.Mode
	workers          int
	codec            codec.Codec
	compression      codec.Compression
	store            blobstore.Store
	resources        *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Engine.
type Option func(*options)

// WithMode selects lazy or materialized term enumeration.
// Both produce identical results; materialized trades memory for repeated
// per-coordinate work.
func WithMode(m index.Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithWorkers evaluates result components with up to n goroutines.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithCodec configures the codec used for new snapshots.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures block compression for new snapshots.
func WithCompression(c codec.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithStore enables Save and Load on the given blob store.
//
// Example:
//
//	eng, _ := tensoralg.New(f,
//	    tensoralg.WithStore(blobstore.NewLocalStore("./tensors")),
//	    tensoralg.WithCompression(codec.CompressionZSTD),
//	)
func WithStore(s blobstore.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithResourceLimits bounds the result memory of concurrently running
// operations and the snapshot IO throughput in bytes per second.
// Zero leaves a resource unlimited.
func WithResourceLimits(memoryBytes, ioBytesPerSec int64) Option {
	return func(o *options) {
		o.resources = resource.NewController(resource.Config{
			MemoryLimitBytes:   memoryBytes,
			IOLimitBytesPerSec: ioBytesPerSec,
		})
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tensoralg.BasicMetricsCollector{}
//	eng, _ := tensoralg.New(f, tensoralg.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Contractions: %d, Avg latency: %dns\n", stats.ContractCount, stats.CombinationAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		mode:             index.Lazy,
		workers:          1,
		codec:            codec.Default,
		compression:      codec.CompressionNone,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) tensorOptions() []tensor.Option {
	opts := []tensor.Option{tensor.WithMode(o.mode), tensor.WithWorkers(o.workers)}
	if o.resources != nil {
		opts = append(opts, tensor.WithBudget(o.resources))
	}
	return opts
}
