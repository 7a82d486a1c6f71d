package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tensoralg/blobstore"
	"github.com/hupe1980/tensoralg/codec"
	"github.com/hupe1980/tensoralg/scalar"
	"github.com/hupe1980/tensoralg/tensor"
)

// Option configures a Repository.
type Option func(*options)

type options struct {
	codec       codec.Codec
	compression codec.Compression
	concurrency int
	limiter     IOLimiter
}

// IOLimiter throttles snapshot bytes read from and written to the store.
type IOLimiter interface {
	AcquireIO(ctx context.Context, n int) error
}

// WithCodec sets the codec used for new snapshots. Loading always uses the
// codec recorded in the snapshot.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the block compression used for new snapshots.
func WithCompression(c codec.Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithConcurrency bounds the parallelism of SaveAll and LoadAll.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithIOLimiter throttles Save and Load by snapshot size.
func WithIOLimiter(l IOLimiter) Option {
	return func(o *options) { o.limiter = l }
}

// Repository saves and loads named tensors over a blob store.
// Names map to blobs "<name>.tns".
type Repository[T any] struct {
	store blobstore.Store
	field scalar.Field[T]
	opts  options
}

// NewRepository creates a repository decoding components with f.
func NewRepository[T any](store blobstore.Store, f scalar.Field[T], optFns ...Option) *Repository[T] {
	o := options{codec: codec.Default, compression: codec.CompressionNone, concurrency: 4}
	for _, fn := range optFns {
		fn(&o)
	}
	return &Repository[T]{store: store, field: f, opts: o}
}

func blobName(name string) string { return name + Ext }

// Save writes t under name, replacing any previous snapshot.
func (r *Repository[T]) Save(ctx context.Context, name string, t *tensor.Tensor[T]) error {
	data, err := Encode(t, r.opts.codec, r.opts.compression)
	if err != nil {
		return err
	}
	if err := r.acquire(ctx, len(data)); err != nil {
		return err
	}
	if err := r.store.Put(ctx, blobName(name), data); err != nil {
		return fmt.Errorf("persistence: save %q: %w", name, err)
	}
	return nil
}

// Load reads the tensor saved under name.
func (r *Repository[T]) Load(ctx context.Context, name string) (*tensor.Tensor[T], error) {
	data, err := r.read(ctx, blobName(name))
	if err != nil {
		return nil, fmt.Errorf("persistence: load %q: %w", name, err)
	}
	t, err := Decode(data, r.field)
	if err != nil {
		return nil, fmt.Errorf("persistence: load %q: %w", name, err)
	}
	return t, nil
}

func (r *Repository[T]) read(ctx context.Context, blob string) ([]byte, error) {
	b, err := r.store.Open(ctx, blob)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if err := r.acquire(ctx, int(b.Size())); err != nil {
		return nil, err
	}

	buf := make([]byte, b.Size())
	n, err := b.ReadAt(ctx, buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

func (r *Repository[T]) acquire(ctx context.Context, n int) error {
	if r.opts.limiter == nil {
		return nil
	}
	return r.opts.limiter.AcquireIO(ctx, n)
}

// Delete removes the snapshot saved under name.
func (r *Repository[T]) Delete(ctx context.Context, name string) error {
	return r.store.Delete(ctx, blobName(name))
}

// List returns the sorted names of all saved tensors.
func (r *Repository[T]) List(ctx context.Context) ([]string, error) {
	blobs, err := r.store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(blobs))
	for _, b := range blobs {
		if name, ok := strings.CutSuffix(b, Ext); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// SaveAll saves every entry of tensors concurrently.
func (r *Repository[T]) SaveAll(ctx context.Context, tensors map[string]*tensor.Tensor[T]) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.concurrency)

	for name, t := range tensors {
		g.Go(func() error {
			return r.Save(ctx, name, t)
		})
	}
	return g.Wait()
}

// LoadAll loads the named tensors concurrently. It fails if any is missing.
func (r *Repository[T]) LoadAll(ctx context.Context, names ...string) (map[string]*tensor.Tensor[T], error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.concurrency)

	var (
		mu  sync.Mutex
		out = make(map[string]*tensor.Tensor[T], len(names))
	)
	for _, name := range names {
		g.Go(func() error {
			t, err := r.Load(ctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			out[name] = t
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
