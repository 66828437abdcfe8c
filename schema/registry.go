package schema

import (
	"reflect"
	"strings"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/errors"
)

// TileColumns returns the names of all Tile columns in a Schema, in column order
func TileColumns(s rf.Schema) ([]string, error) {
	if s == nil {
		return nil, errors.SchemaError{Reason: "no schema"}
	}
	names := make([]string, 0)
	err := s.ForEachColumn(func(name string, col rf.Column) error {
		if _, ok := col.Type().(*rf.TileColumnType); ok {
			names = append(names, name)
		}
		return nil
	})
	return names, err
}

// SpatialKeyColumn returns the name of the spatial key column of a Schema.
// A SchemaError is returned if the Schema has no spatial key column.
func SpatialKeyColumn(s rf.Schema) (string, error) {
	if s == nil {
		return "", errors.SchemaError{Reason: "no schema"}
	}
	for i, t := range s.ColumnTypes() {
		if _, ok := t.(*rf.SpatialKeyColumnType); ok {
			return s.ColumnNames()[i], nil
		}
	}
	return "", errors.SchemaError{Reason: "no spatial key column"}
}

// TemporalKeyColumn returns the name of the temporal key column of a Schema,
// and false if the Schema has no temporal dimension
func TemporalKeyColumn(s rf.Schema) (string, bool, error) {
	if s == nil {
		return "", false, errors.SchemaError{Reason: "no schema"}
	}
	for i, t := range s.ColumnTypes() {
		if _, ok := t.(*rf.TemporalKeyColumnType); ok {
			return s.ColumnNames()[i], true, nil
		}
	}
	return "", false, nil
}

// RequireColumnType returns the Column with the given name, or an error if it is absent
// or not of the same type as expected
func RequireColumnType(s rf.Schema, colName string, expected rf.ColumnType) (rf.Column, error) {
	col, err := s.GetOffset(colName)
	if err != nil {
		return nil, errors.SchemaError{Reason: err.Error()}
	}
	if !SameType(col.Type(), expected) {
		return nil, errors.ColumnTypeError{Name: colName, Expected: TypeName(expected)}
	}
	return col, nil
}

// SameType returns true iff two ColumnTypes are of the same kind
func SameType(a rf.ColumnType, b rf.ColumnType) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// TypeName returns a short name for a ColumnType, e.g. "Tile" for a *TileColumnType
func TypeName(t rf.ColumnType) string {
	if t == nil {
		return "nil"
	}
	return strings.TrimSuffix(reflect.Indirect(reflect.ValueOf(t)).Type().Name(), "ColumnType")
}
