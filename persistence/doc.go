// Package persistence stores tensors as self-describing binary snapshots.
//
// A snapshot is a fixed little-endian FileHeader followed by the codec name
// and one compressed block holding the encoded record:
//
//	magic "TNS0" | version | compression | codec name length | block size | CRC32
//	codec name
//	block (see codec.Compress)
//
// The record carries the dimension, the index notation (e.g. "(^a,_b=1)")
// and the row-major components, so a snapshot can be decoded without knowing
// how it was written. Components must be encodable by the codec: float64 and
// *big.Rat are, complex128 is not.
//
// Repository names snapshots in a blobstore.Store.
package persistence
