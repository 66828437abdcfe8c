package functions

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/accumulators"
	"github.com/jbouffard/rasterframes/errors"
	"github.com/jbouffard/rasterframes/internal/partition"
	"github.com/jbouffard/rasterframes/reduce"
	"github.com/jbouffard/rasterframes/schema"
	"github.com/jbouffard/rasterframes/tile"
	"github.com/stretchr/testify/require"
)

func testSchema() rf.Schema {
	s := schema.CreateSchema()
	s.CreateColumn("a", &rf.TileColumnType{})
	s.CreateColumn("b", &rf.TileColumnType{})
	s.CreateColumn("n", &rf.Int32ColumnType{})
	s.CreateColumn("name", &rf.VarStringColumnType{})
	s.CreateColumn("shape", &rf.GeometryColumnType{})
	return s
}

func testRow(t *testing.T, s rf.Schema, a []float64, b []float64) rf.Row {
	ct, err := tile.ParseCellType("float64")
	require.Nil(t, err)
	row := partition.CreateEmptyRow(s)
	at, err := tile.FromFloat64s(ct, len(a), 1, a)
	require.Nil(t, err)
	require.Nil(t, row.SetTile("a", at))
	if b == nil {
		require.Nil(t, row.SetNil("b"))
	} else {
		bt, err := tile.FromFloat64s(ct, len(b), 1, b)
		require.Nil(t, err)
		require.Nil(t, row.SetTile("b", bt))
	}
	require.Nil(t, row.SetInt32("n", 3))
	require.Nil(t, row.SetVarString("name", "int16"))
	require.Nil(t, row.SetGeometry("shape", geom.Polygon{{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0}}}))
	return row
}

func evalTile(t *testing.T, e *Expression, row rf.Row) *tile.Tile {
	b, err := e.Bind(row.Schema())
	require.Nil(t, err)
	res, err := b.Eval(row)
	require.Nil(t, err)
	return res.(*tile.Tile)
}

func TestLookup(t *testing.T) {
	d, err := Lookup("rf_localAdd")
	require.Nil(t, err)
	require.Equal(t, 2, d.Arity())
	d, err = Lookup("localSubtract")
	require.Nil(t, err)
	require.Equal(t, "rf_localSubtract", d.Name)
	require.Equal(t, "rf_localSubtract(Tile, Tile) Tile", d.String())
	_, err = Lookup("rf_nope")
	require.Equal(t, errors.UnknownFunctionError{Name: "rf_nope"}, err)
	require.Contains(t, Names(), "rf_aggStats")
	require.Len(t, Names(), 29)
}

func TestInvokeErrors(t *testing.T) {
	_, err := Invoke("rf_localAdd", Col("a"))
	require.Equal(t, errors.ArityError{Name: "rf_localAdd", Expected: 2, Actual: 1}, err)

	s := testSchema()
	e, err := Invoke("rf_localAdd", Col("a"), Col("n"))
	require.Nil(t, err)
	_, err = e.Bind(s)
	require.Equal(t, errors.OperandTypeError{Name: "rf_localAdd", Position: 1, Expected: "Tile", Actual: "Int"}, err)

	_, err = LocalAddScalar(Col("a"), 1).Bind(s)
	require.Nil(t, err)
	_, err = mustInvoke("rf_localAddScalar", Col("a"), Lit("one")).Bind(s)
	require.IsType(t, errors.OperandTypeError{}, err)

	_, err = LocalAdd(Col("a"), Col("missing")).Bind(s)
	require.IsType(t, errors.SchemaError{}, err)

	_, err = mustInvoke("rf_aggMean", LocalAdd(Col("a"), Col("b"))).Bind(s)
	require.IsType(t, errors.OperandTypeError{}, err)
	_, err = LocalAdd(AggMean("a"), Col("b")).Bind(s)
	require.NotNil(t, err)
}

func TestLocalAlgebra(t *testing.T) {
	s := testSchema()
	row := testRow(t, s, []float64{1, 2, math.NaN(), 4}, []float64{3, 0, 1, 4})

	sum := evalTile(t, LocalAdd(Col("a"), Col("b")), row)
	require.Equal(t, []float64{4, 2}, sum.Float64s()[:2])
	require.True(t, math.IsNaN(sum.Float64s()[2]))

	roundTrip := evalTile(t, LocalSubtract(LocalAdd(Col("a"), Col("b")), Col("a")), row)
	b, err := row.GetTile("b")
	require.Nil(t, err)
	b.ForEachData(func(i int, v float64) {
		if rv, ok := roundTrip.GetIndex(i); ok {
			require.Equal(t, v, rv)
		}
	})

	quotient := evalTile(t, LocalDivide(Col("a"), Col("b")), row)
	_, ok := quotient.GetIndex(1)
	require.False(t, ok)

	nd := evalTile(t, NormalizedDifference(Col("a"), Col("a")), row)
	mean, ok := reduce.Mean(nd)
	require.True(t, ok)
	require.Equal(t, 0.0, mean)

	scaled := evalTile(t, LocalMultiplyScalar(Col("a"), 2), row)
	mean, ok = reduce.Mean(scaled)
	require.True(t, ok)
	require.InDelta(t, 14.0/3.0, mean, 1e-12)
}

func TestDimensionMismatchSurfaces(t *testing.T) {
	s := testSchema()
	row := testRow(t, s, []float64{1, 2}, []float64{1, 2, 3})
	bound, err := LocalAdd(Col("a"), Col("b")).Bind(s)
	require.Nil(t, err)
	_, err = bound.Eval(row)
	var dm errors.DimensionMismatchError
	require.ErrorAs(t, err, &dm)
}

func TestNullPropagation(t *testing.T) {
	s := testSchema()
	row := testRow(t, s, []float64{math.NaN()}, nil)
	bound, err := LocalAdd(Col("a"), Col("b")).Bind(s)
	require.Nil(t, err)
	res, err := bound.Eval(row)
	require.Nil(t, err)
	require.Nil(t, res)

	bound, err = TileMean(Col("a")).Bind(s)
	require.Nil(t, err)
	require.IsType(t, &rf.Float64ColumnType{}, bound.ResultType())
	res, err = bound.Eval(row)
	require.Nil(t, err)
	require.Nil(t, res)
}

func TestReductions(t *testing.T) {
	s := testSchema()
	row := testRow(t, s, []float64{1, math.NaN(), 5}, nil)
	for _, tc := range []struct {
		expr     *Expression
		expected interface{}
	}{
		{DataCells(Col("a")), int64(2)},
		{NoDataCells(Col("a")), int64(1)},
		{TileMin(Col("a")), 1.0},
		{TileMax(Col("a")), 5.0},
		{TileMean(Col("a")), 3.0},
		{TileSum(Col("a")), 6.0},
		{TileDimensions(Col("a")), tile.Dimensions{Cols: 3, Rows: 1}},
	} {
		bound, err := tc.expr.Bind(s)
		require.Nil(t, err)
		res, err := bound.Eval(row)
		require.Nil(t, err)
		require.Equal(t, tc.expected, res, tc.expr.String())
	}
	bound, err := TileStats(Col("a")).Bind(s)
	require.Nil(t, err)
	res, err := bound.Eval(row)
	require.Nil(t, err)
	require.EqualValues(t, 2, res.(reduce.Statistics).DataCells)
	bound, err = TileHistogram(Col("a"), 2).Bind(s)
	require.Nil(t, err)
	res, err = bound.Eval(row)
	require.Nil(t, err)
	require.EqualValues(t, 2, res.(*reduce.Histogram).TotalCount())
}

func TestConstructorsAndColumns(t *testing.T) {
	s := testSchema()
	row := testRow(t, s, []float64{1}, nil)

	// name column holds a cell type name, n holds a size
	e, err := Invoke("makeConstantTile", Lit(2.5), Col("n"), Lit(2), Col("name"))
	require.Nil(t, err)
	tl := evalTile(t, e, row)
	require.Equal(t, tile.Dimensions{Cols: 3, Rows: 2}, tl.Dimensions())
	require.Equal(t, "int16", tl.CellType().String())
	v, ok := tl.GetIndex(0)
	require.True(t, ok)
	require.Equal(t, 2.0, v)

	converted := evalTile(t, ConvertCellType(MakeConstantTile(3, 2, 2, "float32"), "uint8"), row)
	require.Equal(t, "uint8", converted.CellType().String())

	_, err = MakeConstantTile(1, 1, 1, "bogus").Bind(s)
	require.Nil(t, err)
	bound, _ := MakeConstantTile(1, 1, 1, "bogus").Bind(s)
	_, err = bound.Eval(row)
	var ute errors.UnknownCellTypeError
	require.ErrorAs(t, err, &ute)
}

func TestGeometryFunctions(t *testing.T) {
	s := testSchema()
	row := testRow(t, s, []float64{1}, nil)

	bound, err := Envelope(Col("shape")).Bind(s)
	require.Nil(t, err)
	res, err := bound.Eval(row)
	require.Nil(t, err)
	require.Equal(t, "Extent", schema.TypeName(bound.ResultType()))
	require.NotNil(t, res)

	burned := evalTile(t, Rasterize(Col("shape"), Col("shape"), 7, 4, 2), row)
	require.EqualValues(t, 8, reduce.DataCells(burned))

	bound, err = ReprojectGeometry(Col("shape"), "EPSG:4326", "EPSG:0").Bind(s)
	require.Nil(t, err)
	_, err = bound.Eval(row)
	var crsErr errors.UnknownCRSError
	require.ErrorAs(t, err, &crsErr)
}

func TestAggregateBinding(t *testing.T) {
	s := testSchema()
	bound, err := AggMean("a").Bind(s)
	require.Nil(t, err)
	require.True(t, bound.IsAggregate())
	_, err = bound.Eval(testRow(t, s, []float64{1}, nil))
	require.NotNil(t, err)
	facc, err := bound.Accumulator()
	require.Nil(t, err)
	acc := facc()
	require.IsType(t, &accumulators.Mean{}, acc)
	require.Nil(t, acc.Accumulate(testRow(t, s, []float64{1, 3}, nil)))
	require.Equal(t, 2.0, acc.(accumulators.Named).Value())

	_, err = AggStats("n").Bind(s)
	require.IsType(t, errors.OperandTypeError{}, err)
	rowBound, err := TileMean(Col("a")).Bind(s)
	require.Nil(t, err)
	_, err = rowBound.Accumulator()
	require.NotNil(t, err)
}
