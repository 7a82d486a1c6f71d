package persistence_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensoralg/codec"
	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/persistence"
	"github.com/hupe1980/tensoralg/scalar"
	"github.com/hupe1980/tensoralg/tensor"
	"github.com/hupe1980/tensoralg/testutil"
)

var f scalar.Field[float64] = scalar.Float64{Tolerance: 1e-12}

func TestEncodeDecode(t *testing.T) {
	rng := testutil.NewRNG(7)

	tensors := map[string]*tensor.Tensor[float64]{
		"vector": rng.Tensor(index.Must(3, index.Up("a"))),
		"mixed":  rng.Tensor(index.Must(3, index.Up("a"), index.Down("b").Fixed(1), index.Up("c").Restrict(0, 2))),
		"rank3":  rng.Tensor(index.Must(4, index.Down("a"), index.Down("b"), index.Up("c"))),
	}
	s, err := tensor.Scalar(f, 42.0)
	require.NoError(t, err)
	tensors["scalar"] = s

	for name, tt := range tensors {
		for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
			for _, comp := range []codec.Compression{codec.CompressionNone, codec.CompressionLZ4, codec.CompressionZSTD} {
				t.Run(name+"/"+c.Name()+"/"+comp.String(), func(t *testing.T) {
					data, err := persistence.Encode(tt, c, comp)
					require.NoError(t, err)

					h, err := persistence.ReadHeader(data)
					require.NoError(t, err)
					assert.Equal(t, uint8(comp), h.Compression)
					assert.Equal(t, uint8(len(c.Name())), h.CodecLen)

					got, err := persistence.Decode(data, f)
					require.NoError(t, err)
					assert.True(t, tensor.Equal(tt, got), "%s != %s", tt, got)
					assert.Equal(t, tt.Indices().String(), got.Indices().String())
				})
			}
		}
	}
}

func TestEncodeDecode_Rat(t *testing.T) {
	var rf scalar.Field[*big.Rat] = scalar.Rat{}
	rng := testutil.NewRNG(3)

	tt, err := tensor.FromSlice(rf, index.Must(2, index.Up("a"), index.Down("b")), rng.Rats(4, 9))
	require.NoError(t, err)

	data, err := persistence.Encode(tt, nil, codec.CompressionZSTD)
	require.NoError(t, err)

	got, err := persistence.Decode(data, rf)
	require.NoError(t, err)
	assert.True(t, tensor.Equal(tt, got))
}

func TestEncode_Complex(t *testing.T) {
	var cf scalar.Field[complex128] = scalar.Complex128{}

	tt, err := tensor.FromSlice(cf, index.Must(2, index.Up("a")), []complex128{1i, 2})
	require.NoError(t, err)

	_, err = persistence.Encode(tt, codec.JSON{}, codec.CompressionNone)
	assert.ErrorIs(t, err, codec.ErrInvalidRecord)
}

func TestEncode_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		tt, err := tensor.FromSlice(f, index.Must(2, index.Up("a")), []float64{1, v})
		require.NoError(t, err)

		for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
			_, err = persistence.Encode(tt, c, codec.CompressionLZ4)
			assert.ErrorIs(t, err, codec.ErrInvalidRecord, "%s %v", c.Name(), v)
		}
	}
}

func TestEncode_InvalidSymbol(t *testing.T) {
	for _, sym := range []string{"", "a,b", "a{", "a,^b"} {
		ix := index.Must(2, index.Up("a")).Replace(0, index.Up(sym))
		tt, err := tensor.FromSlice(f, ix, []float64{1, 2})
		require.NoError(t, err)

		_, err = persistence.Encode(tt, nil, codec.CompressionNone)
		assert.ErrorIs(t, err, index.ErrInvalidSymbol, sym)
	}
}

func TestDecode_Errors(t *testing.T) {
	tt := testutil.NewRNG(1).Tensor(index.Must(2, index.Up("a"), index.Down("b")))
	data, err := persistence.Encode(tt, codec.GoJSON{}, codec.CompressionNone)
	require.NoError(t, err)

	t.Run("truncated header", func(t *testing.T) {
		_, err := persistence.Decode(data[:10], f)
		assert.ErrorIs(t, err, persistence.ErrTruncated)
	})

	t.Run("truncated body", func(t *testing.T) {
		_, err := persistence.Decode(data[:len(data)-1], f)
		assert.ErrorIs(t, err, persistence.ErrTruncated)
	})

	t.Run("magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		binary.LittleEndian.PutUint32(bad, 0x56454330)
		_, err := persistence.Decode(bad, f)
		assert.ErrorIs(t, err, persistence.ErrInvalidMagic)
	})

	t.Run("version", func(t *testing.T) {
		bad := bytes.Clone(data)
		binary.LittleEndian.PutUint16(bad[4:], 9)
		_, err := persistence.Decode(bad, f)
		assert.ErrorIs(t, err, persistence.ErrInvalidVersion)
	})

	t.Run("checksum", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[len(bad)-2] ^= 0xFF
		_, err := persistence.Decode(bad, f)

		var mismatch *persistence.ChecksumMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.NotEqual(t, mismatch.Expected, mismatch.Actual)
	})

	t.Run("unknown codec", func(t *testing.T) {
		bad := bytes.Clone(data)
		// "go-json" -> "go-yaml", then fix up the checksum
		copy(bad[persistence.HeaderSize+3:], "yaml")
		binary.LittleEndian.PutUint32(bad[16:], persistence.CalculateChecksum(bad[persistence.HeaderSize:]))
		_, err := persistence.Decode(bad, f)
		assert.ErrorIs(t, err, persistence.ErrUnknownCodec)
	})
}

func TestChecksumWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := persistence.NewChecksumWriter(&buf)

	_, err := cw.Write([]byte("tensor"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("snapshot"))
	require.NoError(t, err)

	assert.Equal(t, "tensorsnapshot", buf.String())
	assert.Equal(t, persistence.CalculateChecksum([]byte("tensorsnapshot")), cw.Sum())
}
