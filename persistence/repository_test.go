package persistence_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensoralg/blobstore"
	"github.com/hupe1980/tensoralg/codec"
	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/persistence"
	"github.com/hupe1980/tensoralg/tensor"
	"github.com/hupe1980/tensoralg/testutil"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(11)

	for name, store := range map[string]blobstore.Store{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	} {
		t.Run(name, func(t *testing.T) {
			repo := persistence.NewRepository(store, f, persistence.WithCompression(codec.CompressionLZ4))

			g := rng.Tensor(index.Must(3, index.Down("a"), index.Down("b")))
			v := rng.Tensor(index.Must(3, index.Up("a")))

			require.NoError(t, repo.Save(ctx, "g", g))
			require.NoError(t, repo.Save(ctx, "v", v))

			names, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"g", "v"}, names)

			got, err := repo.Load(ctx, "g")
			require.NoError(t, err)
			assert.True(t, tensor.Equal(g, got))

			require.NoError(t, repo.Delete(ctx, "g"))
			_, err = repo.Load(ctx, "g")
			assert.ErrorIs(t, err, blobstore.ErrNotFound)
		})
	}
}

func TestRepository_SaveAllLoadAll(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(5)
	repo := persistence.NewRepository(blobstore.NewMemoryStore(), f,
		persistence.WithCodec(codec.JSON{}),
		persistence.WithCompression(codec.CompressionZSTD),
		persistence.WithConcurrency(2),
	)

	in := make(map[string]*tensor.Tensor[float64])
	names := make([]string, 0, 8)
	for i := range 8 {
		name := fmt.Sprintf("t%d", i)
		in[name] = rng.Tensor(index.Must(2, index.Up("a"), index.Down("b")))
		names = append(names, name)
	}

	require.NoError(t, repo.SaveAll(ctx, in))

	out, err := repo.LoadAll(ctx, names...)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for name, tt := range in {
		assert.True(t, tensor.Equal(tt, out[name]), name)
	}

	_, err = repo.LoadAll(ctx, "t0", "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestRepository_IgnoresForeignBlobs(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "notes.txt", []byte("x")))

	repo := persistence.NewRepository(store, f)
	names, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

type countingLimiter struct {
	mu    sync.Mutex
	bytes int
}

func (l *countingLimiter) AcquireIO(_ context.Context, n int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bytes += n
	return nil
}

func TestRepository_IOLimiter(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	limiter := &countingLimiter{}
	repo := persistence.NewRepository(store, f, persistence.WithIOLimiter(limiter))

	tt := testutil.NewRNG(2).Tensor(index.Must(2, index.Up("a")))
	require.NoError(t, repo.Save(ctx, "v", tt))

	data, err := blobstore.ReadAll(ctx, store, "v"+persistence.Ext)
	require.NoError(t, err)
	assert.Equal(t, len(data), limiter.bytes)

	_, err = repo.Load(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, 2*len(data), limiter.bytes)
}
