// Package s3 stores tensor snapshots in Amazon S3 or an S3-compatible service.
//
// # Usage
//
//	store, err := s3.Dial(ctx, "s3://my-bucket/tensors", s3.WithRegion("eu-central-1"))
//
//	eng, err := tensoralg.New(f, tensoralg.WithStore(store))
//
// With WithCommitTable the returned store is a CommitStore: every Put becomes
// a new immutable version, committed through a DynamoDB conditional write so
// that concurrent writers of the same tensor cannot silently overwrite each
// other.
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large snapshots
//   - Automatic pagination for listing
//   - Key prefix for sharing a bucket
package s3
