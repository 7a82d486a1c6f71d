package persistence

import "errors"

const (
	// MagicNumber identifies snapshot files (ASCII: "TNS0").
	MagicNumber = 0x544E5330
	// Version is the current snapshot format version.
	Version = 1

	// HeaderSize is the encoded size of FileHeader.
	HeaderSize = 24

	// Ext is the blob name suffix used by Repository.
	Ext = ".tns"
)

var (
	ErrInvalidMagic   = errors.New("persistence: invalid magic number")
	ErrInvalidVersion = errors.New("persistence: unsupported version")
	ErrUnknownCodec   = errors.New("persistence: unknown codec")
	ErrTruncated      = errors.New("persistence: truncated snapshot")
)

// FileHeader is the 24-byte header at the start of every snapshot.
type FileHeader struct {
	Magic       uint32 // 0x544E5330 ("TNS0")
	Version     uint16
	Compression uint8 // codec.Compression
	CodecLen    uint8 // length of the codec name that follows
	BlockSize   uint64
	Checksum    uint32 // CRC32 of codec name and block
	Reserved    uint32
}
