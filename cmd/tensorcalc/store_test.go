package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensoralg/blobstore"
	"github.com/hupe1980/tensoralg/blobstore/minio"
	"github.com/hupe1980/tensoralg/blobstore/s3"
)

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	// keep the AWS config loader away from the developer's files
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_REGION", "eu-central-1")

	tests := []struct {
		name  string
		fl    flags
		check func(t *testing.T, s blobstore.Store)
	}{
		{"none", flags{}, func(t *testing.T, s blobstore.Store) { assert.Nil(t, s) }},
		{"local", flags{store: dir}, func(t *testing.T, s blobstore.Store) {
			require.IsType(t, &blobstore.LocalStore{}, s)
			assert.Equal(t, dir, s.(*blobstore.LocalStore).Root())
		}},
		{"memory", flags{store: "mem://"}, func(t *testing.T, s blobstore.Store) {
			assert.IsType(t, &blobstore.MemoryStore{}, s)
		}},
		{"s3", flags{store: "s3://bucket/tensors", endpoint: "http://localhost:4566"}, func(t *testing.T, s blobstore.Store) {
			require.IsType(t, &s3.Store{}, s)
			assert.Equal(t, "bucket", s.(*s3.Store).Bucket())
		}},
		{"s3 versioned", flags{store: "s3://bucket", region: "us-east-1", commitTable: "commits"}, func(t *testing.T, s blobstore.Store) {
			assert.IsType(t, &s3.CommitStore{}, s)
		}},
		{"minio", flags{store: "minio://localhost:9000/tensors"}, func(t *testing.T, s blobstore.Store) {
			assert.IsType(t, &minio.Store{}, s)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := openStore(context.Background(), tt.fl)
			require.NoError(t, err)
			tt.check(t, s)
		})
	}

	for _, bad := range []string{"s3:///nobucket", "minio://host"} {
		_, err := openStore(context.Background(), flags{store: bad})
		assert.Error(t, err, bad)
	}
}

func TestRootCmd_MemoryStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte(computationYAML), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"run", path, "--store", "mem://", "--save", "--log-level", "error"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "norm = T()[6662]")
}
