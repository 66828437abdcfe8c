package rasterframes

import (
	"time"

	"github.com/ctessum/geom"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/reduce"
	"github.com/jbouffard/rasterframes/tile"
)

// Row is a representation of a single row of columnar data
// (a slice of a Partition), along with a reference to the
// Schema for that Row. Getters return an errors.NilValueError
// when the requested column holds a null value.
type Row interface {
	Schema() Schema                                          // Schema returns a read-only copy of the Schema of this Row
	ToString() string                                        // ToString returns a string representation of this Row
	IsNil(colName string) bool                               // IsNil returns true iff the given column value is nil in this row. If an error occurs, this function will return false.
	SetNil(colName string) error                             // SetNil sets the given column value to nil within this row
	Get(colName string) (interface{}, error)                 // Get returns the value of any column as an interface{}, if it exists
	Set(colName string, value interface{}) error             // Set stores a value in any column, if the value matches the column's type
	GetBool(colName string) (bool, error)                    // GetBool retrieves a single bool from the column with the given name
	GetInt32(colName string) (int32, error)                  // GetInt32 retrieves a single int32 from the column with the given name
	GetInt64(colName string) (int64, error)                  // GetInt64 retrieves a single int64 from the column with the given name
	GetFloat64(colName string) (float64, error)              // GetFloat64 retrieves a single float64 from the column with the given name
	GetTime(colName string) (time.Time, error)               // GetTime retrieves a single Time from the column with the given name
	GetSpatialKey(colName string) (layer.SpatialKey, error)  // GetSpatialKey retrieves a SpatialKey from the column with the given name
	GetExtent(colName string) (layer.Extent, error)          // GetExtent retrieves an Extent from the column with the given name
	GetDimensions(colName string) (tile.Dimensions, error)   // GetDimensions retrieves Tile Dimensions from the column with the given name
	GetVarString(colName string) (string, error)             // GetVarString retrieves a variable-length string from the column with the given name
	GetVarBytes(colName string) ([]byte, error)              // GetVarBytes retrieves a variable-length byte array from the column with the given name
	GetTile(colName string) (*tile.Tile, error)              // GetTile retrieves a Tile from the column with the given name
	GetGeometry(colName string) (geom.Geom, error)           // GetGeometry retrieves a geometry from the column with the given name
	GetCellType(colName string) (tile.CellType, error)       // GetCellType retrieves a CellType from the column with the given name
	GetStatistics(colName string) (reduce.Statistics, error) // GetStatistics retrieves tile Statistics from the column with the given name
	GetHistogram(colName string) (*reduce.Histogram, error)  // GetHistogram retrieves a Histogram from the column with the given name
	GetVarCustomData(colName string) (interface{}, error)    // GetVarCustomData retrieves variable-length data of a custom type from the column with the given name
	SetBool(colName string, value bool) error
	SetInt32(colName string, value int32) error
	SetInt64(colName string, value int64) error
	SetFloat64(colName string, value float64) error
	SetTime(colName string, value time.Time) error
	SetSpatialKey(colName string, value layer.SpatialKey) error
	SetExtent(colName string, value layer.Extent) error
	SetDimensions(colName string, value tile.Dimensions) error
	SetVarString(colName string, value string) error
	SetVarBytes(colName string, value []byte) error
	SetTile(colName string, value *tile.Tile) error // SetTile stores a Tile. A nil Tile is stored as a null value.
	SetGeometry(colName string, value geom.Geom) error
	SetCellType(colName string, value tile.CellType) error
	SetStatistics(colName string, value reduce.Statistics) error
	SetHistogram(colName string, value *reduce.Histogram) error
	SetVarCustomData(colName string, value interface{}) error
}
