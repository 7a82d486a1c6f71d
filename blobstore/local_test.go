package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"local":  NewLocalStore(filepath.Join(t.TempDir(), "snapshots")),
	}
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)

			data := []byte("(_a,_b) dim=2 components=[1,2,3,4]")

			w, err := store.Create(ctx, "metric/g.tns")
			require.NoError(t, err)
			n, err := w.Write(data)
			require.NoError(t, err)
			require.Equal(t, len(data), n)
			require.NoError(t, w.Sync())

			// not visible before Close
			_, err = store.Open(ctx, "metric/g.tns")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, w.Close())

			blob, err := store.Open(ctx, "metric/g.tns")
			require.NoError(t, err)
			defer blob.Close()
			assert.Equal(t, int64(len(data)), blob.Size())

			buf := make([]byte, 7)
			n, err = blob.ReadAt(ctx, buf, 0)
			require.NoError(t, err)
			assert.Equal(t, 7, n)
			assert.Equal(t, "(_a,_b)", string(buf))

			r, err := blob.ReadRange(ctx, 8, 5)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, "dim=2", string(got))

			require.NoError(t, store.Put(ctx, "riemann.tns", []byte("R")))

			names, err = store.List(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"metric/g.tns", "riemann.tns"}, names)

			names, err = store.List(ctx, "metric/")
			require.NoError(t, err)
			assert.Equal(t, []string{"metric/g.tns"}, names)

			all, err := ReadAll(ctx, store, "riemann.tns")
			require.NoError(t, err)
			assert.Equal(t, []byte("R"), all)

			require.NoError(t, store.Delete(ctx, "riemann.tns"))
			require.NoError(t, store.Delete(ctx, "riemann.tns"))

			_, err = ReadAll(ctx, store, "riemann.tns")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}

func TestStore_PutReplaces(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "t", []byte("first version")))
			require.NoError(t, store.Put(ctx, "t", []byte("second")))

			got, err := ReadAll(ctx, store, "t")
			require.NoError(t, err)
			assert.Equal(t, "second", string(got))

			require.NoError(t, store.Put(ctx, "empty", nil))
			got, err = ReadAll(ctx, store, "empty")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestStore_ReadBoundaries(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "digits", []byte("0123456789")))

			blob, err := store.Open(ctx, "digits")
			require.NoError(t, err)
			defer blob.Close()

			tests := []struct {
				name        string
				off, length int64
				want        string
			}{
				{"full", 0, 10, "0123456789"},
				{"past end", 8, 5, "89"},
				{"offset past end", 20, 5, ""},
				{"zero length", 3, 0, ""},
			}
			for _, tt := range tests {
				r, err := blob.ReadRange(ctx, tt.off, tt.length)
				require.NoError(t, err, tt.name)
				got, _ := io.ReadAll(r)
				r.Close()
				assert.Equal(t, tt.want, string(got), tt.name)
			}

			buf := make([]byte, 4)
			n, err := blob.ReadAt(ctx, buf, 8)
			assert.Equal(t, 2, n)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestStore_InvalidName(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, store.Put(ctx, "", []byte("x")), ErrInvalidName)
		})
	}

	local := NewLocalStore(t.TempDir())
	assert.ErrorIs(t, local.Put(ctx, "../escape", []byte("x")), ErrInvalidName)
	_, err := local.Open(ctx, "/etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestStore_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, store.Put(ctx, "t", nil), context.Canceled)
			_, err := store.Open(ctx, "t")
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestLocalStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStore(root)

	require.NoError(t, store.Put(ctx, "a.tns", []byte("payload")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.tns", entries[0].Name())
}

func TestLocalStore_ClosedBlob(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "a", []byte("payload")))

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, blob.Close())

	_, err = blob.ReadAt(ctx, make([]byte, 1), 0)
	assert.Error(t, err)
}
