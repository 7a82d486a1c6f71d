package s3

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hupe1980/tensoralg/blobstore"
)

type options struct {
	region            string
	endpoint          string
	pathStyle         bool
	partSize          int64
	uploadConcurrency int
	commitTable       string
}

// Option configures Dial and NewStore.
type Option func(*options)

// WithRegion overrides the region from the environment.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint targets an S3-compatible service. It implies path-style
// addressing.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
		o.pathStyle = true
	}
}

// WithPartSize sets the multipart upload part size (minimum 5 MiB).
func WithPartSize(n int64) Option {
	return func(o *options) {
		if n >= manager.MinUploadPartSize {
			o.partSize = n
		}
	}
}

// WithUploadConcurrency sets the number of parts uploaded in parallel.
func WithUploadConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.uploadConcurrency = n
		}
	}
}

// WithCommitTable makes Dial return a CommitStore that records versions in
// the given DynamoDB table.
func WithCommitTable(table string) Option {
	return func(o *options) { o.commitTable = table }
}

func applyOptions(optFns []Option) options {
	o := options{
		partSize:          8 * 1024 * 1024,
		uploadConcurrency: manager.DefaultUploadConcurrency,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// ParseURI splits "s3://bucket/prefix" into bucket and prefix.
func ParseURI(uri string) (bucket, prefix string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("s3: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("s3: invalid uri %q, want s3://bucket[/prefix]", uri)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// Dial resolves AWS credentials from the default chain and returns a store
// for uri ("s3://bucket/prefix").
func Dial(ctx context.Context, uri string, optFns ...Option) (blobstore.Store, error) {
	bucket, prefix, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	o := applyOptions(optFns)

	var loadOpts []func(*config.LoadOptions) error
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = aws.String(o.endpoint)
		}
		so.UsePathStyle = o.pathStyle
	})
	store := NewStore(client, bucket, prefix, optFns...)

	if o.commitTable == "" {
		return store, nil
	}
	return NewCommitStore(store, dynamodb.NewFromConfig(cfg), o.commitTable, "s3://"+bucket+"/"+prefix), nil
}
