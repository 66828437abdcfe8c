package partition

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/ctessum/geom"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/errors"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/reduce"
	"github.com/jbouffard/rasterframes/tile"
)

const (
	colValueIsNilFlag = 1 << iota
)

// Row is a representation of a single row of columnar data,
// (a slice of a Partition), along with a reference to the
// Schema for that row (a mapping of column names to byte
// offsets). In practice, users of Row will call its
// getter and setter methods to retrieve, manipulate and store data
type rowImpl struct {
	partID  string
	meta    []byte
	data    []byte        // likely a slice of a partition array
	varData []interface{} // variable-length data, by column index
	schema  rf.Schema     // schema lets us pick the values we need out of the row
}

// AccessibleRow exposes the internal storage of a Row, for copying between Partitions
type AccessibleRow interface {
	rf.Row
	GetMeta() []byte
	GetData() []byte
	GetVarData() []interface{}
	GetSchema() rf.Schema
}

// CreateRow builds a new row from individual internal components
func CreateRow(partID string, meta []byte, data []byte, varData []interface{}, schema rf.Schema) rf.Row {
	return &rowImpl{partID: partID, meta: meta, data: data, varData: varData, schema: schema}
}

// CreateEmptyRow builds a standalone Row for a Schema, in which every column is nil
func CreateEmptyRow(schema rf.Schema) rf.Row {
	return createEmptyRow(schema)
}

func createEmptyRow(schema rf.Schema) *rowImpl {
	meta := make([]byte, schema.NumColumns())
	for i := range meta {
		meta[i] = colValueIsNilFlag
	}
	return &rowImpl{
		meta:    meta,
		data:    make([]byte, schema.Size()),
		varData: make([]interface{}, schema.NumColumns()),
		schema:  schema,
	}
}

// GetMeta returns Row internal data
func (r *rowImpl) GetMeta() []byte {
	return r.meta
}

// GetData returns Row internal data
func (r *rowImpl) GetData() []byte {
	return r.data
}

// GetVarData returns Row internal data
func (r *rowImpl) GetVarData() []interface{} {
	return r.varData
}

// GetSchema returns Row internal data
func (r *rowImpl) GetSchema() rf.Schema {
	return r.schema
}

// Schema returns a read-only copy of the schema for a row
func (r *rowImpl) Schema() rf.Schema {
	return r.schema.Clone()
}

// ToString returns a string representation of this row
func (r *rowImpl) ToString() string {
	var res strings.Builder
	fmt.Fprint(&res, "{")
	r.schema.ForEachColumn(func(name string, col rf.Column) error {
		var val string
		if r.IsNil(name) {
			val = "nil"
		} else {
			v, err := r.Get(name)
			if err != nil {
				return err
			}
			val = col.Type().ToString(v)
		}
		fmt.Fprintf(&res, "\"%s\": %s,", name, val)
		return nil
	})
	fmt.Fprint(&res, "}")
	return res.String()
}

// IsNil returns true iff the given column value is nil in this row. If an error occurs, this function will return false.
func (r *rowImpl) IsNil(colName string) bool {
	offset, e := r.schema.GetOffset(colName)
	if e != nil {
		return false
	}
	if !rf.IsVariableLength(offset.Type()) {
		return r.meta[offset.Index()]&colValueIsNilFlag > 0
	}
	return r.varData[offset.Index()] == nil
}

// SetNil sets the given column value to nil within this row
func (r *rowImpl) SetNil(colName string) error {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return err
	}
	r.meta[offset.Index()] = r.meta[offset.Index()] | colValueIsNilFlag
	if rf.IsVariableLength(offset.Type()) {
		r.varData[offset.Index()] = nil
	}
	return nil
}

func (r *rowImpl) checkIsNil(colName string, offset rf.Column) error {
	if !rf.IsVariableLength(offset.Type()) && r.meta[offset.Index()]&colValueIsNilFlag > 0 {
		return errors.NilValueError{Name: colName}
	} else if rf.IsVariableLength(offset.Type()) && r.varData[offset.Index()] == nil {
		return errors.NilValueError{Name: colName}
	}
	return nil
}

func (r *rowImpl) setNotNil(offset rf.Column) {
	r.meta[offset.Index()] = r.meta[offset.Index()] &^ colValueIsNilFlag
}

// fixedOffset returns the offset of a fixed-width column, checking its type
func (r *rowImpl) fixedOffset(colName string, matches func(rf.ColumnType) bool, expected string) (rf.Column, error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	}
	if !matches(offset.Type()) {
		return nil, errors.ColumnTypeError{Name: colName, Expected: expected}
	}
	return offset, nil
}

// Get returns the value of any column as an interface{}, if it exists
func (r *rowImpl) Get(colName string) (col interface{}, err error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	} else if rf.IsVariableLength(offset.Type()) {
		return r.GetVarCustomData(colName)
	}
	switch offset.Type().(type) {
	case *rf.BoolColumnType:
		return r.GetBool(colName)
	case *rf.Int32ColumnType:
		return r.GetInt32(colName)
	case *rf.Int64ColumnType:
		return r.GetInt64(colName)
	case *rf.Float64ColumnType:
		return r.GetFloat64(colName)
	case *rf.TimeColumnType, *rf.TemporalKeyColumnType:
		return r.GetTime(colName)
	case *rf.SpatialKeyColumnType:
		return r.GetSpatialKey(colName)
	case *rf.ExtentColumnType:
		return r.GetExtent(colName)
	case *rf.DimensionsColumnType:
		return r.GetDimensions(colName)
	default:
		return nil, fmt.Errorf("Cannot fetch value for unknown column type %T", offset.Type())
	}
}

// Set stores a value in any column, if the value matches the column's type. A nil value is stored as nil.
func (r *rowImpl) Set(colName string, value interface{}) error {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return err
	}
	if value == nil {
		return r.SetNil(colName)
	}
	typeErr := errors.ColumnTypeError{Name: colName, Expected: strings.TrimSuffix(strings.TrimPrefix(fmt.Sprintf("%T", offset.Type()), "*rasterframes."), "ColumnType")}
	switch offset.Type().(type) {
	case *rf.BoolColumnType:
		if v, ok := value.(bool); ok {
			return r.SetBool(colName, v)
		}
	case *rf.Int32ColumnType:
		if v, ok := value.(int32); ok {
			return r.SetInt32(colName, v)
		}
	case *rf.Int64ColumnType:
		if v, ok := value.(int64); ok {
			return r.SetInt64(colName, v)
		}
	case *rf.Float64ColumnType:
		if v, ok := value.(float64); ok {
			return r.SetFloat64(colName, v)
		}
	case *rf.TimeColumnType, *rf.TemporalKeyColumnType:
		if v, ok := value.(time.Time); ok {
			return r.SetTime(colName, v)
		}
	case *rf.SpatialKeyColumnType:
		if v, ok := value.(layer.SpatialKey); ok {
			return r.SetSpatialKey(colName, v)
		}
	case *rf.ExtentColumnType:
		if v, ok := value.(layer.Extent); ok {
			return r.SetExtent(colName, v)
		}
	case *rf.DimensionsColumnType:
		if v, ok := value.(tile.Dimensions); ok {
			return r.SetDimensions(colName, v)
		}
	case *rf.TileColumnType:
		if v, ok := value.(*tile.Tile); ok {
			return r.SetTile(colName, v)
		}
	case *rf.GeometryColumnType:
		if v, ok := value.(geom.Geom); ok {
			return r.SetGeometry(colName, v)
		}
	case *rf.CellTypeColumnType:
		if v, ok := value.(tile.CellType); ok {
			return r.SetCellType(colName, v)
		}
	case *rf.StatisticsColumnType:
		if v, ok := value.(reduce.Statistics); ok {
			return r.SetStatistics(colName, v)
		}
	case *rf.HistogramColumnType:
		if v, ok := value.(*reduce.Histogram); ok {
			return r.SetHistogram(colName, v)
		}
	case *rf.VarStringColumnType:
		if v, ok := value.(string); ok {
			return r.SetVarString(colName, v)
		}
	case *rf.VarBytesColumnType:
		if v, ok := value.([]byte); ok {
			return r.SetVarBytes(colName, v)
		}
	default:
		if rf.IsVariableLength(offset.Type()) {
			return r.SetVarCustomData(colName, value)
		}
	}
	return typeErr
}

func (r *rowImpl) getFixedBytes(colName string, matches func(rf.ColumnType) bool, expected string) ([]byte, error) {
	offset, err := r.fixedOffset(colName, matches, expected)
	if err != nil {
		return nil, err
	}
	if err = r.checkIsNil(colName, offset); err != nil {
		return nil, err
	}
	return r.data[offset.Start() : offset.Start()+offset.Type().Size()], nil
}

func (r *rowImpl) setFixedBytes(colName string, matches func(rf.ColumnType) bool, expected string, value []byte) error {
	offset, err := r.fixedOffset(colName, matches, expected)
	if err != nil {
		return err
	}
	if len(value) > offset.Type().Size() {
		return fmt.Errorf("Value is wider than column: %d/%d", offset.Type().Size(), len(value))
	}
	r.setNotNil(offset)
	copy(r.data[offset.Start():offset.Start()+offset.Type().Size()], value)
	return nil
}

func isBool(t rf.ColumnType) bool {
	_, ok := t.(*rf.BoolColumnType)
	return ok
}

func isInt32(t rf.ColumnType) bool {
	_, ok := t.(*rf.Int32ColumnType)
	return ok
}

func isInt64(t rf.ColumnType) bool {
	_, ok := t.(*rf.Int64ColumnType)
	return ok
}

func isFloat64(t rf.ColumnType) bool {
	_, ok := t.(*rf.Float64ColumnType)
	return ok
}

func isTime(t rf.ColumnType) bool {
	switch t.(type) {
	case *rf.TimeColumnType, *rf.TemporalKeyColumnType:
		return true
	}
	return false
}

func isSpatialKey(t rf.ColumnType) bool {
	_, ok := t.(*rf.SpatialKeyColumnType)
	return ok
}

func isExtent(t rf.ColumnType) bool {
	_, ok := t.(*rf.ExtentColumnType)
	return ok
}

func isDimensions(t rf.ColumnType) bool {
	_, ok := t.(*rf.DimensionsColumnType)
	return ok
}

// GetBool retrieves a single bool from the column with the given name.
func (r *rowImpl) GetBool(colName string) (bool, error) {
	buf, err := r.getFixedBytes(colName, isBool, "Bool")
	if err != nil {
		return false, err
	}
	return buf[0] > 0, nil
}

// GetInt32 retrieves a single int32 from the column with the given name
func (r *rowImpl) GetInt32(colName string) (int32, error) {
	buf, err := r.getFixedBytes(colName, isInt32, "Int32")
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf)), nil
}

// GetInt64 retrieves a single int64 from the column with the given name
func (r *rowImpl) GetInt64(colName string) (int64, error) {
	buf, err := r.getFixedBytes(colName, isInt64, "Int64")
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf)), nil
}

// GetFloat64 retrieves a single float64 from the column with the given name
func (r *rowImpl) GetFloat64(colName string) (float64, error) {
	buf, err := r.getFixedBytes(colName, isFloat64, "Float64")
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf)), nil
}

// GetTime retrieves a single Time from the column with the given name
func (r *rowImpl) GetTime(colName string) (col time.Time, err error) {
	buf, err := r.getFixedBytes(colName, isTime, "Time")
	if err != nil {
		return
	}
	err = col.UnmarshalBinary(buf)
	return col.UTC(), err
}

// GetSpatialKey retrieves a SpatialKey from the column with the given name
func (r *rowImpl) GetSpatialKey(colName string) (layer.SpatialKey, error) {
	buf, err := r.getFixedBytes(colName, isSpatialKey, "SpatialKey")
	if err != nil {
		return layer.SpatialKey{}, err
	}
	return layer.SpatialKey{
		Col: int32(binary.LittleEndian.Uint32(buf[0:4])),
		Row: int32(binary.LittleEndian.Uint32(buf[4:8])),
	}, nil
}

// GetExtent retrieves an Extent from the column with the given name
func (r *rowImpl) GetExtent(colName string) (layer.Extent, error) {
	buf, err := r.getFixedBytes(colName, isExtent, "Extent")
	if err != nil {
		return layer.Extent{}, err
	}
	return layer.Extent{
		XMin: math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8])),
		YMin: math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
		XMax: math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24])),
		YMax: math.Float64frombits(binary.LittleEndian.Uint64(buf[24:32])),
	}, nil
}

// GetDimensions retrieves Tile Dimensions from the column with the given name
func (r *rowImpl) GetDimensions(colName string) (tile.Dimensions, error) {
	buf, err := r.getFixedBytes(colName, isDimensions, "Dimensions")
	if err != nil {
		return tile.Dimensions{}, err
	}
	return tile.Dimensions{
		Cols: int(binary.LittleEndian.Uint32(buf[0:4])),
		Rows: int(binary.LittleEndian.Uint32(buf[4:8])),
	}, nil
}

// GetVarCustomData retrieves variable-length data of a custom type from the column with the given name
func (r *rowImpl) GetVarCustomData(colName string) (interface{}, error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	}
	if !rf.IsVariableLength(offset.Type()) {
		return nil, fmt.Errorf("Column %s is not a VarColumnType", colName)
	}
	if err = r.checkIsNil(colName, offset); err != nil {
		return nil, err
	}
	return r.varData[offset.Index()], nil
}

func (r *rowImpl) getVar(colName string, matches func(interface{}) bool, expected string) (interface{}, error) {
	val, err := r.GetVarCustomData(colName)
	if err != nil {
		return nil, err
	}
	if !matches(val) {
		return nil, errors.ColumnTypeError{Name: colName, Expected: expected}
	}
	return val, nil
}

// GetVarString retrieves a single string from the column with the given name
func (r *rowImpl) GetVarString(colName string) (string, error) {
	val, err := r.getVar(colName, func(v interface{}) bool { _, ok := v.(string); return ok }, "VarString")
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

// GetVarBytes retrieves a variable-length byte array from the column with the given name
func (r *rowImpl) GetVarBytes(colName string) ([]byte, error) {
	val, err := r.getVar(colName, func(v interface{}) bool { _, ok := v.([]byte); return ok }, "VarBytes")
	if err != nil {
		return nil, err
	}
	return val.([]byte), nil
}

// GetTile retrieves a Tile from the column with the given name
func (r *rowImpl) GetTile(colName string) (*tile.Tile, error) {
	val, err := r.getVar(colName, func(v interface{}) bool { _, ok := v.(*tile.Tile); return ok }, "Tile")
	if err != nil {
		return nil, err
	}
	return val.(*tile.Tile), nil
}

// GetGeometry retrieves a geometry from the column with the given name
func (r *rowImpl) GetGeometry(colName string) (geom.Geom, error) {
	val, err := r.getVar(colName, func(v interface{}) bool { _, ok := v.(geom.Geom); return ok }, "Geometry")
	if err != nil {
		return nil, err
	}
	return val.(geom.Geom), nil
}

// GetCellType retrieves a CellType from the column with the given name
func (r *rowImpl) GetCellType(colName string) (tile.CellType, error) {
	val, err := r.getVar(colName, func(v interface{}) bool { _, ok := v.(tile.CellType); return ok }, "CellType")
	if err != nil {
		return tile.CellType{}, err
	}
	return val.(tile.CellType), nil
}

// GetStatistics retrieves tile Statistics from the column with the given name
func (r *rowImpl) GetStatistics(colName string) (reduce.Statistics, error) {
	val, err := r.getVar(colName, func(v interface{}) bool { _, ok := v.(reduce.Statistics); return ok }, "Statistics")
	if err != nil {
		return reduce.Statistics{}, err
	}
	return val.(reduce.Statistics), nil
}

// GetHistogram retrieves a Histogram from the column with the given name
func (r *rowImpl) GetHistogram(colName string) (*reduce.Histogram, error) {
	val, err := r.getVar(colName, func(v interface{}) bool { _, ok := v.(*reduce.Histogram); return ok }, "Histogram")
	if err != nil {
		return nil, err
	}
	return val.(*reduce.Histogram), nil
}

// SetBool modifies a single bool from the column with the given name.
func (r *rowImpl) SetBool(colName string, value bool) error {
	var newVal byte
	if value {
		newVal = 1
	}
	return r.setFixedBytes(colName, isBool, "Bool", []byte{newVal})
}

// SetInt32 modifies a single int32 from the column with the given name.
func (r *rowImpl) SetInt32(colName string, value int32) error {
	buff := make([]byte, 4)
	binary.LittleEndian.PutUint32(buff, uint32(value))
	return r.setFixedBytes(colName, isInt32, "Int32", buff)
}

// SetInt64 modifies a single int64 from the column with the given name.
func (r *rowImpl) SetInt64(colName string, value int64) error {
	buff := make([]byte, 8)
	binary.LittleEndian.PutUint64(buff, uint64(value))
	return r.setFixedBytes(colName, isInt64, "Int64", buff)
}

// SetFloat64 modifies a single float64 from the column with the given name.
func (r *rowImpl) SetFloat64(colName string, value float64) error {
	buff := make([]byte, 8)
	binary.LittleEndian.PutUint64(buff, math.Float64bits(value))
	return r.setFixedBytes(colName, isFloat64, "Float64", buff)
}

// SetTime modifies a single Time from the column with the given name. Times are stored in UTC.
func (r *rowImpl) SetTime(colName string, value time.Time) error {
	bits, err := value.UTC().MarshalBinary()
	if err != nil {
		return err
	}
	return r.setFixedBytes(colName, isTime, "Time", bits)
}

// SetSpatialKey modifies a SpatialKey from the column with the given name.
func (r *rowImpl) SetSpatialKey(colName string, value layer.SpatialKey) error {
	buff := make([]byte, 8)
	binary.LittleEndian.PutUint32(buff[0:4], uint32(value.Col))
	binary.LittleEndian.PutUint32(buff[4:8], uint32(value.Row))
	return r.setFixedBytes(colName, isSpatialKey, "SpatialKey", buff)
}

// SetExtent modifies an Extent from the column with the given name.
func (r *rowImpl) SetExtent(colName string, value layer.Extent) error {
	buff := make([]byte, 32)
	binary.LittleEndian.PutUint64(buff[0:8], math.Float64bits(value.XMin))
	binary.LittleEndian.PutUint64(buff[8:16], math.Float64bits(value.YMin))
	binary.LittleEndian.PutUint64(buff[16:24], math.Float64bits(value.XMax))
	binary.LittleEndian.PutUint64(buff[24:32], math.Float64bits(value.YMax))
	return r.setFixedBytes(colName, isExtent, "Extent", buff)
}

// SetDimensions modifies Tile Dimensions from the column with the given name.
func (r *rowImpl) SetDimensions(colName string, value tile.Dimensions) error {
	buff := make([]byte, 8)
	binary.LittleEndian.PutUint32(buff[0:4], uint32(value.Cols))
	binary.LittleEndian.PutUint32(buff[4:8], uint32(value.Rows))
	return r.setFixedBytes(colName, isDimensions, "Dimensions", buff)
}

// SetVarCustomData stores variable-length data of a custom type in this Row
func (r *rowImpl) SetVarCustomData(colName string, value interface{}) error {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return err
	}
	if !rf.IsVariableLength(offset.Type()) {
		return fmt.Errorf("Column %s is not a VarColumnType", colName)
	}
	if value == nil {
		return r.SetNil(colName)
	}
	r.setNotNil(offset)
	r.varData[offset.Index()] = value
	return nil
}

func (r *rowImpl) setVar(colName string, expected rf.ColumnType, expectedName string, value interface{}) error {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return err
	}
	if reflect.TypeOf(offset.Type()) != reflect.TypeOf(expected) {
		return errors.ColumnTypeError{Name: colName, Expected: expectedName}
	}
	return r.SetVarCustomData(colName, value)
}

// SetVarString modifies a single string from the column with the given name.
func (r *rowImpl) SetVarString(colName string, value string) error {
	return r.setVar(colName, &rf.VarStringColumnType{}, "VarString", value)
}

// SetVarBytes modifies a single variable-length byte array from the column with the given name.
func (r *rowImpl) SetVarBytes(colName string, value []byte) error {
	if value == nil {
		return r.setVar(colName, &rf.VarBytesColumnType{}, "VarBytes", nil)
	}
	return r.setVar(colName, &rf.VarBytesColumnType{}, "VarBytes", value)
}

// SetTile stores a Tile in the column with the given name. A nil Tile is stored as nil.
func (r *rowImpl) SetTile(colName string, value *tile.Tile) error {
	if value == nil {
		return r.setVar(colName, &rf.TileColumnType{}, "Tile", nil)
	}
	return r.setVar(colName, &rf.TileColumnType{}, "Tile", value)
}

// SetGeometry stores a geometry in the column with the given name
func (r *rowImpl) SetGeometry(colName string, value geom.Geom) error {
	if value == nil {
		return r.setVar(colName, &rf.GeometryColumnType{}, "Geometry", nil)
	}
	return r.setVar(colName, &rf.GeometryColumnType{}, "Geometry", value)
}

// SetCellType stores a CellType in the column with the given name
func (r *rowImpl) SetCellType(colName string, value tile.CellType) error {
	return r.setVar(colName, &rf.CellTypeColumnType{}, "CellType", value)
}

// SetStatistics stores tile Statistics in the column with the given name
func (r *rowImpl) SetStatistics(colName string, value reduce.Statistics) error {
	return r.setVar(colName, &rf.StatisticsColumnType{}, "Statistics", value)
}

// SetHistogram stores a Histogram in the column with the given name
func (r *rowImpl) SetHistogram(colName string, value *reduce.Histogram) error {
	if value == nil {
		return r.setVar(colName, &rf.HistogramColumnType{}, "Histogram", nil)
	}
	return r.setVar(colName, &rf.HistogramColumnType{}, "Histogram", value)
}

// Repack copies this Row into a new standalone Row respecting another Schema. Columns are matched by
// name, columns absent from this Row are nil, and columns absent from the new Schema are dropped.
func (r *rowImpl) Repack(newSchema rf.Schema) (*rowImpl, error) {
	result := createEmptyRow(newSchema)
	err := newSchema.ForEachColumn(func(name string, col rf.Column) error {
		// if we're widening instead of shrinking, there might be new columns
		oldCol, err := r.schema.GetOffset(name)
		if err != nil {
			return nil
		}
		if reflect.TypeOf(oldCol.Type()) != reflect.TypeOf(col.Type()) {
			return fmt.Errorf("Cannot repack column %s of type %T into type %T", name, oldCol.Type(), col.Type())
		}
		if !rf.IsVariableLength(oldCol.Type()) {
			copy(result.data[col.Start():col.Start()+col.Type().Size()], r.data[oldCol.Start():oldCol.Start()+oldCol.Type().Size()])
		} else {
			result.varData[col.Index()] = r.varData[oldCol.Index()]
		}
		result.meta[col.Index()] = r.meta[oldCol.Index()]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
