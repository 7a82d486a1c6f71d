package main

import (
	"context"
	"strings"

	"github.com/hupe1980/tensoralg/blobstore"
	"github.com/hupe1980/tensoralg/blobstore/minio"
	"github.com/hupe1980/tensoralg/blobstore/s3"
)

// openStore resolves --store: "s3://bucket/prefix", "minio://host/bucket/prefix"
// (or "minios://" for TLS), "mem://" for a throwaway store, anything else is a
// local directory.
func openStore(ctx context.Context, fl flags) (blobstore.Store, error) {
	switch {
	case fl.store == "":
		return nil, nil
	case strings.HasPrefix(fl.store, "s3://"):
		var opts []s3.Option
		if fl.region != "" {
			opts = append(opts, s3.WithRegion(fl.region))
		}
		if fl.endpoint != "" {
			opts = append(opts, s3.WithEndpoint(fl.endpoint))
		}
		if fl.commitTable != "" {
			opts = append(opts, s3.WithCommitTable(fl.commitTable))
		}
		return s3.Dial(ctx, fl.store, opts...)
	case strings.HasPrefix(fl.store, "minio://"), strings.HasPrefix(fl.store, "minios://"):
		return minio.Dial(fl.store)
	case fl.store == "mem://":
		return blobstore.NewMemoryStore(), nil
	default:
		return blobstore.NewLocalStore(fl.store), nil
	}
}
