package tile

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/jbouffard/rasterframes/errors"
	"github.com/stretchr/testify/require"
)

func TestParseCellType(t *testing.T) {
	cases := map[string]CellType{
		"uint8":         Uint8CellType,
		"int8":          Int8CellType,
		"uint16raw":     Uint16CellType.Raw(),
		"int16ud-9999":  Int16CellType.WithNoData(-9999),
		"int32":         Int32CellType,
		"float32ud-1.5": Float32CellType.WithNoData(-1.5),
		"float64mask":   Float64CellType.WithMask(),
		"uint32":        Uint32CellType,
	}
	for name, expected := range cases {
		ct, err := ParseCellType(name)
		require.Nil(t, err, name)
		require.Equal(t, expected, ct, name)
		require.Equal(t, name, ct.String())
	}
}

func TestParseCellTypeUnknown(t *testing.T) {
	_, err := ParseCellType("complex128")
	require.NotNil(t, err)
	require.IsType(t, errors.UnknownCellTypeError{}, err)
	_, err = ParseCellType("uint8ud-1")
	require.NotNil(t, err)
	_, err = ParseCellType("int16udabc")
	require.NotNil(t, err)
}

func TestPromote(t *testing.T) {
	require.Equal(t, Float64CellType, Promote(Int32CellType, Float64CellType))
	require.Equal(t, Float32CellType, Promote(Float32CellType, Int16CellType))
	require.Equal(t, Float64CellType, Promote(Float32CellType, Float64CellType))
	require.Equal(t, Int32CellType, Promote(Int16CellType, Int32CellType))
	require.Equal(t, Uint16CellType, Promote(Uint8CellType, Uint16CellType))
	require.Equal(t, Int16CellType, Promote(Uint8CellType, Int8CellType))
	require.Equal(t, Int32CellType, Promote(Int16CellType, Uint16CellType))
	require.Equal(t, Int16CellType, Promote(Uint8CellType, Int16CellType))
	require.Equal(t, Float64CellType, Promote(Uint32CellType, Int8CellType))
	require.Equal(t, Int16CellType, Promote(Int16CellType.WithNoData(-9999), Int16CellType))
	require.Equal(t, Int32CellType.WithMask(), Promote(Int32CellType.Raw(), Int32CellType))
}

func TestConstantNoDataSentinels(t *testing.T) {
	b, err := NewBuilder(Int16CellType, 2, 1)
	require.Nil(t, err)
	b.SetIndex(0, 5)
	tile := b.Build()
	v, ok := tile.GetIndex(0)
	require.True(t, ok)
	require.Equal(t, 5.0, v)
	require.True(t, tile.IsNoData(1))

	b, err = NewBuilder(Uint8CellType, 2, 1)
	require.Nil(t, err)
	b.SetIndex(0, 7)
	b.SetIndex(1, 0) // 0 is the uint8 sentinel
	tile = b.Build()
	require.False(t, tile.IsNoData(0))
	require.True(t, tile.IsNoData(1))

	b, err = NewBuilder(Float32CellType, 2, 1)
	require.Nil(t, err)
	b.SetIndex(0, 1.5)
	b.SetIndex(1, math.NaN())
	tile = b.Build()
	v, ok = tile.GetIndex(0)
	require.True(t, ok)
	require.Equal(t, 1.5, v)
	require.True(t, tile.IsNoData(1))
}

func TestUserDefinedAndMaskNoData(t *testing.T) {
	ud := Int16CellType.WithNoData(-9999)
	tile, err := FromFloat64s(ud, 3, 1, []float64{1, -9999, math.NaN()})
	require.Nil(t, err)
	require.False(t, tile.IsNoData(0))
	require.True(t, tile.IsNoData(1))
	require.True(t, tile.IsNoData(2))

	masked := Uint8CellType.WithMask()
	tile, err = FromFloat64s(masked, 3, 1, []float64{0, math.NaN(), 255})
	require.Nil(t, err)
	v, ok := tile.GetIndex(0)
	require.True(t, ok)
	require.Equal(t, 0.0, v)
	require.True(t, tile.IsNoData(1))
	v, ok = tile.GetIndex(2)
	require.True(t, ok)
	require.Equal(t, 255.0, v)

	raw := Uint8CellType.Raw()
	tile, err = FromFloat64s(raw, 2, 1, []float64{0, math.NaN()})
	require.Nil(t, err)
	require.False(t, tile.IsNoData(0))
	require.False(t, tile.IsNoData(1))
}

func TestIntegerCellsTruncateAndClamp(t *testing.T) {
	tile, err := FromFloat64s(Uint8CellType.Raw(), 4, 1, []float64{2.9, -3, 300, -0.5})
	require.Nil(t, err)
	require.Equal(t, []float64{2, 0, 255, 0}, tile.Float64s())
	tile, err = FromFloat64s(Int8CellType.Raw(), 2, 1, []float64{-2.9, -1000})
	require.Nil(t, err)
	require.Equal(t, []float64{-2, -128}, tile.Float64s())

	// out-of-range data values stay data cells under a sentinel
	tile, err = FromFloat64s(Int8CellType, 3, 1, []float64{-1000, 1000, math.MinInt8})
	require.Nil(t, err)
	require.False(t, tile.IsNoData(0))
	require.False(t, tile.IsNoData(1))
	require.True(t, tile.IsNoData(2))
	v, _ := tile.Get(0, 0)
	require.Equal(t, -127.0, v)
	tile, err = FromFloat64s(Uint16CellType, 1, 1, []float64{-4})
	require.Nil(t, err)
	v, ok := tile.Get(0, 0)
	require.True(t, ok)
	require.Equal(t, 1.0, v)
}

func TestWiden(t *testing.T) {
	require.Equal(t, Int8CellType, Int8CellType.Widen([]float64{-127, 127, math.NaN()}))
	require.Equal(t, Int16CellType, Int8CellType.Widen([]float64{-128}))
	require.Equal(t, Int16CellType, Uint8CellType.Widen([]float64{0}))
	require.Equal(t, Int32CellType, Int8CellType.Widen([]float64{40000}))
	require.Equal(t, Float64CellType, Int32CellType.Widen([]float64{0.5}))
	require.Equal(t, Float64CellType, Float32CellType.Widen([]float64{math.MaxFloat64}))
	require.Equal(t, Int32CellType.WithMask(), Int16CellType.WithMask().Widen([]float64{-40000}))
	require.Equal(t, Int32CellType, Int16CellType.WithNoData(-1).Widen([]float64{-1}))
}

func TestBuilderIsSingleUse(t *testing.T) {
	b, err := NewBuilder(Int32CellType, 1, 1)
	require.Nil(t, err)
	b.Build()
	require.Panics(t, func() { b.SetIndex(0, 1) })
	require.Panics(t, func() { b.Build() })
}

func TestBuilderRejectsBadDimensions(t *testing.T) {
	_, err := NewBuilder(Int32CellType, 0, 1)
	require.NotNil(t, err)
	_, err = FromFloat64s(Int32CellType, 2, 2, []float64{1, 2, 3})
	require.NotNil(t, err)
}

func TestConvert(t *testing.T) {
	src, err := FromFloat64s(Float64CellType, 3, 1, []float64{1.7, math.NaN(), -2.2})
	require.Nil(t, err)
	dst, err := src.Convert(Int16CellType)
	require.Nil(t, err)
	require.Equal(t, Int16CellType, dst.CellType())
	v, ok := dst.GetIndex(0)
	require.True(t, ok)
	require.Equal(t, 1.0, v)
	require.True(t, dst.IsNoData(1))
	v, ok = dst.GetIndex(2)
	require.True(t, ok)
	require.Equal(t, -2.0, v)
	same, err := src.Convert(Float64CellType)
	require.Nil(t, err)
	require.True(t, same == src)
}

func TestMakeConstantTile(t *testing.T) {
	tile, err := MakeConstantTile(3, 4, 5, Int32CellType)
	require.Nil(t, err)
	require.Equal(t, Dimensions{Cols: 4, Rows: 5}, tile.Dimensions())
	require.Equal(t, 20, tile.Size())
	for _, v := range tile.Float64s() {
		require.Equal(t, 3.0, v)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	values := make([]float64, 64*64)
	for i := range values {
		if i%7 == 0 {
			values[i] = math.NaN()
		} else {
			values[i] = float64(i % 251)
		}
	}
	for _, ct := range []CellType{Uint16CellType, Float32CellType, Int16CellType.WithNoData(-1), Float64CellType.WithMask()} {
		tile, err := FromFloat64s(ct, 64, 64, values)
		require.Nil(t, err)
		for _, codec := range []Codec{NoCompression, LZ4, Zstd} {
			buf, err := Encode(tile, codec)
			require.Nil(t, err)
			decoded, err := Decode(buf)
			require.Nil(t, err)
			require.True(t, tile.Equal(decoded), "%s with %s", ct, codec)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not a tile"))
	require.NotNil(t, err)
}

// withDims rewrites the dimensions in the header of an encoded int32 tile
func withDims(buf []byte, cols, rows uint32) []byte {
	out := append([]byte{}, buf...)
	offset := len(codecMagic) + 4 + len("int32")
	binary.LittleEndian.PutUint32(out[offset:], cols)
	binary.LittleEndian.PutUint32(out[offset+4:], rows)
	return out
}

func TestDecodeRejectsBadHeaders(t *testing.T) {
	small, err := MakeConstantTile(7, 2, 2, Int32CellType)
	require.Nil(t, err)
	for _, codec := range []Codec{NoCompression, LZ4, Zstd} {
		buf, err := Encode(small, codec)
		require.Nil(t, err)
		decoded, err := Decode(buf)
		require.Nil(t, err)
		require.True(t, small.Equal(decoded))

		for _, dims := range [][2]uint32{{0, 2}, {2, 0}, {math.MaxUint32, math.MaxUint32}, {1 << 16, 1 << 16}, {3, 2}, {1, 2}} {
			_, err = Decode(withDims(buf, dims[0], dims[1]))
			require.NotNil(t, err, "%s %v", codec, dims)
		}
		if codec == NoCompression {
			_, err = Decode(append(append([]byte{}, buf...), 0))
			require.NotNil(t, err)
		}
		_, err = Decode(buf[:len(buf)-1])
		require.NotNil(t, err, codec.String())
	}
}

func TestValidateDimensions(t *testing.T) {
	require.Nil(t, ValidateDimensions(Int32CellType, 256, 256))
	require.NotNil(t, ValidateDimensions(Int32CellType, -1, 4))
	require.NotNil(t, ValidateDimensions(Int32CellType, 4, 0))
	require.NotNil(t, ValidateDimensions(Float64CellType, 1<<16, 1<<16))
	require.Nil(t, ValidateDimensions(Uint8CellType, 1<<15, 1<<15))
	require.NotNil(t, ValidateDimensions(CellType{Kind: DataKind(99)}, 1, 1))
	_, err := FromFloat64s(Int32CellType, -1, -1, []float64{1})
	require.NotNil(t, err)
}

func TestRenderASCII(t *testing.T) {
	tile, err := FromFloat64s(Float64CellType, 3, 2, []float64{0, 5, 10, math.NaN(), 10, 0})
	require.Nil(t, err)
	out := tile.RenderASCII()
	require.Equal(t, ".+@\n @.\n", out)
}
