package functions

import (
	"github.com/ctessum/geom"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/accumulators"
	"github.com/jbouffard/rasterframes/geometry"
	"github.com/jbouffard/rasterframes/local"
	"github.com/jbouffard/rasterframes/reduce"
	"github.com/jbouffard/rasterframes/tile"
)

func tileTile(fn func(a, b *tile.Tile) (*tile.Tile, error)) rowFunc {
	return func(args []interface{}) (interface{}, error) {
		return fn(args[0].(*tile.Tile), args[1].(*tile.Tile))
	}
}

func tileScalar(fn func(t *tile.Tile, c float64) (*tile.Tile, error)) rowFunc {
	return func(args []interface{}) (interface{}, error) {
		return fn(args[0].(*tile.Tile), args[1].(float64))
	}
}

// nullable maps a reduction without a result to null
func nullable(fn func(t *tile.Tile) (float64, bool)) rowFunc {
	return func(args []interface{}) (interface{}, error) {
		if v, ok := fn(args[0].(*tile.Tile)); ok {
			return v, nil
		}
		return nil, nil
	}
}

func onTile(fn func(t *tile.Tile) interface{}) rowFunc {
	return func(args []interface{}) (interface{}, error) {
		return fn(args[0].(*tile.Tile)), nil
	}
}

func rowFunctions() []*Descriptor {
	tt := []OperandKind{TileOperand, TileOperand}
	ts := []OperandKind{TileOperand, NumericOperand}
	t := []OperandKind{TileOperand}
	return []*Descriptor{
		{Name: "rf_localAdd", Operands: tt, Result: &rf.TileColumnType{}, eval: tileTile(local.Add)},
		{Name: "rf_localSubtract", Operands: tt, Result: &rf.TileColumnType{}, eval: tileTile(local.Subtract)},
		{Name: "rf_localMultiply", Operands: tt, Result: &rf.TileColumnType{}, eval: tileTile(local.Multiply)},
		{Name: "rf_localDivide", Operands: tt, Result: &rf.TileColumnType{}, eval: tileTile(local.Divide)},
		{Name: "rf_normalizedDifference", Operands: tt, Result: &rf.TileColumnType{}, eval: tileTile(local.NormalizedDifference)},
		{Name: "rf_localAddScalar", Operands: ts, Result: &rf.TileColumnType{}, eval: tileScalar(local.AddScalar)},
		{Name: "rf_localSubtractScalar", Operands: ts, Result: &rf.TileColumnType{}, eval: tileScalar(local.SubtractScalar)},
		{Name: "rf_localMultiplyScalar", Operands: ts, Result: &rf.TileColumnType{}, eval: tileScalar(local.MultiplyScalar)},
		{Name: "rf_localDivideScalar", Operands: ts, Result: &rf.TileColumnType{}, eval: tileScalar(local.DivideScalar)},
		{
			Name:     "rf_makeConstantTile",
			Operands: []OperandKind{NumericOperand, IntOperand, IntOperand, StringOperand},
			Result:   &rf.TileColumnType{},
			eval: func(args []interface{}) (interface{}, error) {
				ct, err := tile.ParseCellType(args[3].(string))
				if err != nil {
					return nil, err
				}
				return tile.MakeConstantTile(args[0].(float64), args[1].(int), args[2].(int), ct)
			},
		},
		{
			Name:     "rf_convertCellType",
			Operands: []OperandKind{TileOperand, StringOperand},
			Result:   &rf.TileColumnType{},
			eval: func(args []interface{}) (interface{}, error) {
				ct, err := tile.ParseCellType(args[1].(string))
				if err != nil {
					return nil, err
				}
				return args[0].(*tile.Tile).Convert(ct)
			},
		},
		{Name: "rf_tileDimensions", Operands: t, Result: &rf.DimensionsColumnType{}, eval: onTile(func(t *tile.Tile) interface{} { return t.Dimensions() })},
		{Name: "rf_cellType", Operands: t, Result: &rf.CellTypeColumnType{}, eval: onTile(func(t *tile.Tile) interface{} { return t.CellType() })},
		{Name: "rf_dataCells", Operands: t, Result: &rf.Int64ColumnType{}, eval: onTile(func(t *tile.Tile) interface{} { return reduce.DataCells(t) })},
		{Name: "rf_noDataCells", Operands: t, Result: &rf.Int64ColumnType{}, eval: onTile(func(t *tile.Tile) interface{} { return reduce.NoDataCells(t) })},
		{Name: "rf_tileMin", Operands: t, Result: &rf.Float64ColumnType{}, eval: nullable(reduce.Min)},
		{Name: "rf_tileMax", Operands: t, Result: &rf.Float64ColumnType{}, eval: nullable(reduce.Max)},
		{Name: "rf_tileMean", Operands: t, Result: &rf.Float64ColumnType{}, eval: nullable(reduce.Mean)},
		{Name: "rf_tileSum", Operands: t, Result: &rf.Float64ColumnType{}, eval: nullable(reduce.Sum)},
		{Name: "rf_tileStats", Operands: t, Result: &rf.StatisticsColumnType{}, eval: onTile(func(t *tile.Tile) interface{} { return reduce.Stats(t) })},
		{
			Name:     "rf_tileHistogram",
			Operands: []OperandKind{TileOperand, IntOperand},
			Result:   &rf.HistogramColumnType{},
			eval: func(args []interface{}) (interface{}, error) {
				return reduce.ComputeHistogram(args[0].(*tile.Tile), args[1].(int))
			},
		},
		{Name: "rf_renderAscii", Operands: t, Result: &rf.VarStringColumnType{}, eval: onTile(func(t *tile.Tile) interface{} { return t.RenderASCII() })},
		{
			Name:     "rf_envelope",
			Operands: []OperandKind{GeometryOperand},
			Result:   &rf.ExtentColumnType{},
			eval: func(args []interface{}) (interface{}, error) {
				return geometry.Envelope(args[0].(geom.Geom)), nil
			},
		},
		{
			Name:     "rf_rasterize",
			Operands: []OperandKind{GeometryOperand, GeometryOperand, NumericOperand, IntOperand, IntOperand},
			Result:   &rf.TileColumnType{},
			eval: func(args []interface{}) (interface{}, error) {
				return geometry.Rasterize(args[0].(geom.Geom), args[1].(geom.Geom), args[2].(float64), args[3].(int), args[4].(int))
			},
		},
		{
			Name:     "rf_reprojectGeometry",
			Operands: []OperandKind{GeometryOperand, StringOperand, StringOperand},
			Result:   &rf.GeometryColumnType{},
			eval: func(args []interface{}) (interface{}, error) {
				return geometry.ReprojectGeometry(args[0].(geom.Geom), args[1].(string), args[2].(string))
			},
		},
	}
}

func aggregateFunctions() []*Descriptor {
	t := []OperandKind{TileOperand}
	return []*Descriptor{
		{Name: "rf_aggMean", Operands: t, Aggregate: true, agg: accumulators.AggMean},
		{Name: "rf_aggDataCells", Operands: t, Aggregate: true, agg: accumulators.AggDataCells},
		{Name: "rf_aggNoDataCells", Operands: t, Aggregate: true, agg: accumulators.AggNoDataCells},
		{Name: "rf_aggStats", Operands: t, Aggregate: true, agg: accumulators.AggStats},
	}
}
