package minio

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Endpoint is a parsed "minio://host:port/bucket/prefix" uri. The "minios"
// scheme selects TLS.
type Endpoint struct {
	Host   string
	Bucket string
	Prefix string
	Secure bool
}

// ParseURI parses a minio store uri.
func ParseURI(uri string) (Endpoint, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Endpoint{}, fmt.Errorf("minio: %w", err)
	}
	if (u.Scheme != "minio" && u.Scheme != "minios") || u.Host == "" {
		return Endpoint{}, fmt.Errorf("minio: invalid uri %q, want minio://host/bucket[/prefix]", uri)
	}
	bucket, prefix, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	if bucket == "" {
		return Endpoint{}, fmt.Errorf("minio: uri %q has no bucket", uri)
	}
	return Endpoint{Host: u.Host, Bucket: bucket, Prefix: prefix, Secure: u.Scheme == "minios"}, nil
}

// Dial connects to the server in uri. Credentials come from MINIO_ACCESS_KEY
// and MINIO_SECRET_KEY (or the AWS_* equivalents).
func Dial(uri string) (*Store, error) {
	ep, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvMinio{},
		&credentials.EnvAWS{},
	})

	client, err := minio.New(ep.Host, &minio.Options{Creds: creds, Secure: ep.Secure})
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	return NewStore(Wrap(client), ep.Bucket, ep.Prefix), nil
}
