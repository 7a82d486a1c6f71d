package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/tensoralg/codec"
	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/scalar"
	"github.com/hupe1980/tensoralg/tensor"
)

// Encode serializes t into a snapshot. A nil codec means codec.Default.
func Encode[T any](t *tensor.Tensor[T], c codec.Codec, compression codec.Compression) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	name := c.Name()
	if len(name) > 255 {
		return nil, fmt.Errorf("%w: name %q too long", ErrUnknownCodec, name)
	}

	ix := t.Indices()
	if err := ix.Validate(); err != nil {
		return nil, fmt.Errorf("persistence: encode: %w", err)
	}
	rec := &codec.Record[T]{
		Dim:        ix.Dim(),
		Indices:    ix.String(),
		Components: t.Components().Data(),
	}
	payload, err := c.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("persistence: encode %s: %w", ix, err)
	}
	block, err := codec.Compress(payload, compression)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	cw := NewChecksumWriter(&body)
	cw.Write([]byte(name))
	cw.Write(block)

	header := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(compression),
		CodecLen:    uint8(len(name)),
		BlockSize:   uint64(len(block)),
		Checksum:    cw.Sum(),
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + body.Len())
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}

// ReadHeader decodes and validates the header of a snapshot.
func ReadHeader(data []byte) (FileHeader, error) {
	var h FileHeader
	if len(data) < HeaderSize {
		return h, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	if _, err := binary.Decode(data[:HeaderSize], binary.LittleEndian, &h); err != nil {
		return h, err
	}
	if h.Magic != MagicNumber {
		return h, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return h, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	return h, nil
}

// Decode restores a tensor over f from a snapshot produced by Encode.
func Decode[T any](data []byte, f scalar.Field[T]) (*tensor.Tensor[T], error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[HeaderSize:]
	if uint64(len(body)) < uint64(h.CodecLen)+h.BlockSize {
		return nil, fmt.Errorf("%w: body %d bytes, want %d", ErrTruncated, len(body), uint64(h.CodecLen)+h.BlockSize)
	}
	body = body[:uint64(h.CodecLen)+h.BlockSize]
	if sum := CalculateChecksum(body); sum != h.Checksum {
		return nil, &ChecksumMismatchError{Expected: h.Checksum, Actual: sum}
	}

	name := string(body[:h.CodecLen])
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	payload, err := codec.Decompress(body[h.CodecLen:], codec.Compression(h.Compression))
	if err != nil {
		return nil, err
	}

	var rec codec.Record[T]
	if err := c.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("persistence: decode: %w", err)
	}

	ix, err := index.Parse(rec.Indices)
	if err != nil {
		return nil, err
	}
	if rec.Dim > 0 {
		if ix, err = ix.Bind(rec.Dim); err != nil {
			return nil, err
		}
	}
	return tensor.FromSlice(f, ix, rec.Components)
}
