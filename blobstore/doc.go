// Package blobstore stores tensor snapshots as named, immutable blobs.
//
// Store is the interface persistence writes through. Implementations must be
// safe for concurrent use.
//
//   - MemoryStore keeps blobs in a map, for tests and short-lived engines.
//   - LocalStore keeps one file per blob under a root directory and maps
//     files read-only on Open.
//
// Writes are atomic: a reader never observes a partially written blob.
package blobstore
