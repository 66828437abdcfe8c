package local

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jbouffard/rasterframes/errors"
	"github.com/jbouffard/rasterframes/reduce"
	"github.com/jbouffard/rasterframes/tile"
	"github.com/stretchr/testify/require"
)

func randomTile(t *testing.T, r *rand.Rand, ct tile.CellType, cols, rows int, noDataRate float64) *tile.Tile {
	values := make([]float64, cols*rows)
	for i := range values {
		if r.Float64() < noDataRate {
			values[i] = math.NaN()
		} else {
			values[i] = float64(1 + r.Intn(20000))
		}
	}
	tl, err := tile.FromFloat64s(ct, cols, rows, values)
	require.Nil(t, err)
	return tl
}

func TestAddSubtractRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	a := randomTile(t, r, tile.Int32CellType, 20, 20, 0.1)
	b := randomTile(t, r, tile.Int32CellType, 20, 20, 0.1)
	sum, err := Add(a, b)
	require.Nil(t, err)
	diff, err := Subtract(sum, a)
	require.Nil(t, err)
	for i := 0; i < b.Size(); i++ {
		bv, bok := b.GetIndex(i)
		dv, dok := diff.GetIndex(i)
		_, aok := a.GetIndex(i)
		if aok && bok {
			require.True(t, dok)
			require.Equal(t, bv, dv)
		} else {
			require.False(t, dok)
		}
	}
}

func TestDimensionMismatch(t *testing.T) {
	a, err := tile.MakeConstantTile(1, 2, 2, tile.Int32CellType)
	require.Nil(t, err)
	b, err := tile.MakeConstantTile(1, 3, 2, tile.Int32CellType)
	require.Nil(t, err)
	for _, op := range []func(a, b *tile.Tile) (*tile.Tile, error){Add, Subtract, Multiply, Divide, NormalizedDifference} {
		_, err := op(a, b)
		require.NotNil(t, err)
		var dme errors.DimensionMismatchError
		require.ErrorAs(t, err, &dme)
		require.Equal(t, 3, dme.RightCols)
	}
}

func TestNoDataIsAbsorbing(t *testing.T) {
	a, err := tile.FromFloat64s(tile.Float64CellType, 3, 1, []float64{1, math.NaN(), 3})
	require.Nil(t, err)
	b, err := tile.FromFloat64s(tile.Float64CellType, 3, 1, []float64{math.NaN(), 2, 3})
	require.Nil(t, err)
	for _, op := range []func(a, b *tile.Tile) (*tile.Tile, error){Add, Subtract, Multiply, Divide, NormalizedDifference} {
		out, err := op(a, b)
		require.Nil(t, err)
		require.True(t, out.IsNoData(0))
		require.True(t, out.IsNoData(1))
		require.False(t, out.IsNoData(2))
	}
}

func TestDivideByZeroTile(t *testing.T) {
	a, err := tile.MakeConstantTile(5, 4, 4, tile.Int32CellType)
	require.Nil(t, err)
	zero, err := tile.MakeConstantTile(0, 4, 4, tile.Int32CellType.Raw())
	require.Nil(t, err)
	out, err := Divide(a, zero)
	require.Nil(t, err)
	require.Equal(t, int64(16), reduce.NoDataCells(out))
	require.Equal(t, int64(0), reduce.DataCells(out))

	out, err = DivideScalar(a, 0)
	require.Nil(t, err)
	require.Equal(t, int64(16), reduce.NoDataCells(out))
}

func TestNormalizedDifference(t *testing.T) {
	a, err := tile.FromFloat64s(tile.Int16CellType, 3, 1, []float64{3, 2, 0})
	require.Nil(t, err)
	b, err := tile.FromFloat64s(tile.Int16CellType, 3, 1, []float64{1, 2, 0})
	require.Nil(t, err)
	out, err := NormalizedDifference(a, b)
	require.Nil(t, err)
	require.Equal(t, tile.Float64, out.CellType().Kind)
	v, ok := out.GetIndex(0)
	require.True(t, ok)
	require.Equal(t, 0.5, v)
	v, ok = out.GetIndex(1)
	require.True(t, ok)
	require.Equal(t, 0.0, v)
	require.True(t, out.IsNoData(2)) // zero denominator
}

func TestSelfNormalizedDifferenceIsZero(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	a := randomTile(t, r, tile.Uint16CellType, 30, 30, 0.05)
	out, err := NormalizedDifference(a, a)
	require.Nil(t, err)
	mean, ok := reduce.Mean(out)
	require.True(t, ok)
	require.Equal(t, 0.0, math.Round(mean))
}

func TestConstantArithmeticMeans(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	tl := randomTile(t, r, tile.Uint16CellType, 50, 50, 0)
	one, err := tile.MakeConstantTile(1, 50, 50, tile.Int8CellType)
	require.Nil(t, err)
	two, err := tile.MakeConstantTile(2, 50, 50, tile.Int8CellType)
	require.Nil(t, err)
	mean, ok := reduce.Mean(tl)
	require.True(t, ok)

	check := func(op func(a, b *tile.Tile) (*tile.Tile, error), rhs *tile.Tile, expected float64) {
		out, err := op(tl, rhs)
		require.Nil(t, err)
		m, ok := reduce.Mean(out)
		require.True(t, ok)
		require.InDelta(t, expected, m, 1e-9)
	}
	check(Add, one, mean+1)
	check(Subtract, one, mean-1)
	check(Multiply, two, mean*2)
	check(Divide, two, mean/2)
}

func TestResultCellTypes(t *testing.T) {
	i16, err := tile.MakeConstantTile(7, 2, 2, tile.Int16CellType)
	require.Nil(t, err)
	f32, err := tile.MakeConstantTile(2, 2, 2, tile.Float32CellType)
	require.Nil(t, err)
	u8, err := tile.MakeConstantTile(2, 2, 2, tile.Uint8CellType)
	require.Nil(t, err)

	out, err := Add(i16, f32)
	require.Nil(t, err)
	require.Equal(t, tile.Float32CellType, out.CellType())
	out, err = Multiply(i16, u8)
	require.Nil(t, err)
	require.Equal(t, tile.Int16CellType, out.CellType())
	out, err = Divide(i16, u8)
	require.Nil(t, err)
	require.Equal(t, tile.Float64CellType, out.CellType())
	v, _ := out.GetIndex(0)
	require.Equal(t, 3.5, v)
}

func TestScalarOperations(t *testing.T) {
	tl, err := tile.FromFloat64s(tile.Int32CellType, 3, 1, []float64{2, math.NaN(), 6})
	require.Nil(t, err)

	out, err := AddScalar(tl, 1)
	require.Nil(t, err)
	require.Equal(t, tile.Int32CellType, out.CellType())
	require.Equal(t, 3.0, first(out))
	require.True(t, out.IsNoData(1))

	out, err = AddScalar(tl, 0.5)
	require.Nil(t, err)
	require.Equal(t, tile.Float64CellType, out.CellType())
	require.Equal(t, 2.5, first(out))

	out, err = SubtractScalar(tl, 2)
	require.Nil(t, err)
	v, ok := out.GetIndex(2)
	require.True(t, ok)
	require.Equal(t, 4.0, v)

	out, err = MultiplyScalar(tl, 3)
	require.Nil(t, err)
	require.Equal(t, 6.0, first(out))

	out, err = DivideScalar(tl, 4)
	require.Nil(t, err)
	require.Equal(t, 0.5, first(out))
}

func first(t *tile.Tile) float64 {
	v, _ := t.GetIndex(0)
	return v
}

func extremeValues(ct tile.CellType) []float64 {
	lo, hi := ct.Kind.MinValue(), ct.Kind.MaxValue()
	switch {
	case ct.Kind == tile.Float32:
		return []float64{-math.MaxFloat32, 0, math.MaxFloat32}
	case ct.Kind == tile.Float64:
		return []float64{-math.MaxFloat64 / 2, 0, math.MaxFloat64 / 2}
	case ct.Kind.IsSigned():
		return []float64{lo + 1, lo + 2, -1, 0, 1, hi - 1, hi}
	case ct.Policy == tile.ConstantNoData:
		return []float64{1, 2, hi - 1, hi}
	default:
		return []float64{0, 1, hi - 1, hi}
	}
}

func TestAddSubtractRoundTripExtremes(t *testing.T) {
	kinds := []tile.DataKind{tile.Uint8, tile.Int8, tile.Uint16, tile.Int16, tile.Uint32, tile.Int32, tile.Float32, tile.Float64}
	for _, kind := range kinds {
		for _, ct := range []tile.CellType{{Kind: kind}, {Kind: kind, Policy: tile.MaskNoData}, {Kind: kind, Policy: tile.NoNoData}} {
			vals := extremeValues(ct)
			n := len(vals)
			av := make([]float64, n*n)
			bv := make([]float64, n*n)
			for i := range av {
				av[i] = vals[i/n]
				bv[i] = vals[i%n]
			}
			a, err := tile.FromFloat64s(ct, n, n, av)
			require.Nil(t, err)
			b, err := tile.FromFloat64s(ct, n, n, bv)
			require.Nil(t, err)
			require.Equal(t, int64(n*n), reduce.DataCells(b), ct.String())

			sum, err := Add(a, b)
			require.Nil(t, err)
			require.Equal(t, int64(n*n), reduce.DataCells(sum), ct.String())
			diff, err := Subtract(sum, a)
			require.Nil(t, err)
			for i := 0; i < n*n; i++ {
				v, ok := diff.GetIndex(i)
				require.True(t, ok, "%s cell %d", ct, i)
				require.Equal(t, bv[i], v, "%s: (%v + %v) - %v", ct, av[i], bv[i], av[i])
			}
		}
	}
}

func TestOverflowWidensResult(t *testing.T) {
	a, err := tile.MakeConstantTile(-20000, 1, 1, tile.Int16CellType)
	require.Nil(t, err)
	sum, err := Add(a, a)
	require.Nil(t, err)
	require.Equal(t, tile.Int32CellType, sum.CellType())
	v, ok := sum.GetIndex(0)
	require.True(t, ok)
	require.Equal(t, -40000.0, v)

	b, err := tile.MakeConstantTile(100, 1, 1, tile.Int8CellType)
	require.Nil(t, err)
	sum, err = Add(b, b)
	require.Nil(t, err)
	require.Equal(t, tile.Int16CellType, sum.CellType())
	diff, err := Subtract(sum, b)
	require.Nil(t, err)
	require.Equal(t, 100.0, first(diff))

	// subtraction results below zero leave unsigned kinds
	u, err := tile.MakeConstantTile(3, 1, 1, tile.Uint8CellType)
	require.Nil(t, err)
	w, err := tile.MakeConstantTile(5, 1, 1, tile.Uint8CellType)
	require.Nil(t, err)
	diff, err = Subtract(u, w)
	require.Nil(t, err)
	require.Equal(t, tile.Int16CellType, diff.CellType())
	require.Equal(t, -2.0, first(diff))

	big, err := tile.MakeConstantTile(math.MaxInt32, 1, 1, tile.Int32CellType)
	require.Nil(t, err)
	prod, err := MultiplyScalar(big, 4)
	require.Nil(t, err)
	require.Equal(t, tile.Float64CellType, prod.CellType())
	require.Equal(t, 4.0*math.MaxInt32, first(prod))

	top, err := tile.MakeConstantTile(127, 1, 1, tile.Int8CellType.WithMask())
	require.Nil(t, err)
	out, err := AddScalar(top, 1)
	require.Nil(t, err)
	require.Equal(t, tile.Int16CellType.WithMask(), out.CellType())
	require.Equal(t, 128.0, first(out))
}

func TestConvertNeverClampsOntoNoData(t *testing.T) {
	tl, err := tile.FromFloat64s(tile.Float64CellType, 3, 1, []float64{-1e9, 1e9, -5})
	require.Nil(t, err)
	out, err := tl.Convert(tile.Int16CellType)
	require.Nil(t, err)
	require.Equal(t, int64(3), reduce.DataCells(out))
	v, _ := out.GetIndex(0)
	require.Equal(t, float64(math.MinInt16+1), v)
	v, _ = out.GetIndex(1)
	require.Equal(t, float64(math.MaxInt16), v)

	out, err = tl.Convert(tile.Uint8CellType)
	require.Nil(t, err)
	require.Equal(t, int64(3), reduce.DataCells(out))
	require.Equal(t, 1.0, first(out))
}
