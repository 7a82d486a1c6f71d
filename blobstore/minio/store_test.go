package minio

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensoralg/blobstore"
)

type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, object)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *MockClient) GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, object, opts.Header().Get("Range"))
	r, _ := args.Get(0).(io.ReadCloser)
	return r, args.Error(1)
}

func (m *MockClient) PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, bucket, object, string(data), size)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockClient) RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucket, object).Error(0)
}

func (m *MockClient) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return m.Called(ctx, bucket, opts.Prefix).Get(0).(<-chan minio.ObjectInfo)
}

func objects(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}

func TestStore_Open(t *testing.T) {
	mockClient := new(MockClient)
	store := NewStore(mockClient, "bucket", "tensors/")
	ctx := context.Background()

	mockClient.On("StatObject", mock.Anything, "bucket", "tensors/missing.tns").
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}).Once()
	mockClient.On("StatObject", mock.Anything, "bucket", "tensors/F.tns").
		Return(minio.ObjectInfo{Size: 10}, nil).Once()
	mockClient.On("GetObject", mock.Anything, "bucket", "tensors/F.tns", "bytes=0-3").
		Return(io.NopCloser(strings.NewReader("TNS0")), nil).Once()
	mockClient.On("GetObject", mock.Anything, "bucket", "tensors/F.tns", "bytes=8-9").
		Return(io.NopCloser(strings.NewReader("!!")), nil).Once()

	_, err := store.Open(ctx, "missing.tns")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	b, err := store.Open(ctx, "F.tns")
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.Size())

	buf := make([]byte, 4)
	n, err := b.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "TNS0", string(buf[:n]))

	n, err = b.ReadAt(ctx, buf, 8)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "!!", string(buf[:n]))

	r, err := b.ReadRange(ctx, 10, 4)
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	assert.Empty(t, data)

	require.NoError(t, b.Close())
	mockClient.AssertExpectations(t)
}

func TestStore_Write(t *testing.T) {
	mockClient := new(MockClient)
	store := NewStore(mockClient, "bucket", "")
	ctx := context.Background()

	mockClient.On("PutObject", mock.Anything, "bucket", "a.tns", "payload", int64(7)).
		Return(minio.UploadInfo{}, nil).Once()
	mockClient.On("PutObject", mock.Anything, "bucket", "b.tns", "streamed", int64(-1)).
		Return(minio.UploadInfo{}, nil).Once()

	require.NoError(t, store.Put(ctx, "a.tns", []byte("payload")))

	w, err := store.Create(ctx, "b.tns")
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())
	assert.Error(t, w.Close())

	assert.ErrorIs(t, store.Put(ctx, "", nil), blobstore.ErrInvalidName)
	mockClient.AssertExpectations(t)
}

func TestStore_DeleteAndList(t *testing.T) {
	mockClient := new(MockClient)
	store := NewStore(mockClient, "bucket", "tensors")
	ctx := context.Background()

	mockClient.On("RemoveObject", mock.Anything, "bucket", "tensors/a.tns").
		Return(minio.ErrorResponse{Code: "NoSuchKey"}).Once()
	mockClient.On("ListObjects", mock.Anything, "bucket", "tensors/").
		Return(objects(
			minio.ObjectInfo{Key: "tensors/g.tns"},
			minio.ObjectInfo{Key: "tensors/F.tns"},
		)).Once()
	mockClient.On("ListObjects", mock.Anything, "bucket", "tensors/x").
		Return(objects(minio.ObjectInfo{Err: minio.ErrorResponse{Code: "AccessDenied"}})).Once()

	assert.NoError(t, store.Delete(ctx, "a.tns"))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"F.tns", "g.tns"}, names)

	_, err = store.List(ctx, "x")
	assert.Error(t, err)
	mockClient.AssertExpectations(t)
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri  string
		want Endpoint
		ok   bool
	}{
		{"minio://localhost:9000/tensors", Endpoint{Host: "localhost:9000", Bucket: "tensors"}, true},
		{"minio://localhost:9000/tensors/run1/", Endpoint{Host: "localhost:9000", Bucket: "tensors", Prefix: "run1"}, true},
		{"minios://play.min.io/b/p/q", Endpoint{Host: "play.min.io", Bucket: "b", Prefix: "p/q", Secure: true}, true},
		{"minio://localhost:9000", Endpoint{}, false},
		{"s3://bucket", Endpoint{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := ParseURI(tt.uri)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDial(t *testing.T) {
	store, err := Dial("minio://localhost:9000/tensors/run1")
	require.NoError(t, err)
	assert.Equal(t, "tensors", store.bucket)
	assert.Equal(t, "run1/", store.prefix)

	_, err = Dial("minio://")
	assert.Error(t, err)
}
