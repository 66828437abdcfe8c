package schema

import (
	"fmt"
	"reflect"
	"sort"

	rf "github.com/jbouffard/rasterframes"
)

// column describes the byte offsets of the start
// and end of a field in a Row.
type column struct {
	idx     int
	start   int
	colType rf.ColumnType
}

// Clone returns a copy of this Column
func (c *column) Clone() rf.Column {
	return &column{c.idx, c.start, c.colType}
}

// Index returns the index of this Column within a Schema
func (c *column) Index() int {
	return c.idx
}

// SetIndex modifies the index of this Column within a Schema
func (c *column) SetIndex(newIndex int) {
	c.idx = newIndex
}

// Start returns the Start position of this Column within a Row
func (c *column) Start() int {
	return c.start
}

// Type returns the ColumnType of this Column
func (c *column) Type() rf.ColumnType {
	return c.colType
}

// Schema is a mapping from column names to byte offsets
// within a Row. It allows one to obtain offsets by name,
// define new columns, remove columns, etc.
type schema struct {
	schema map[string]rf.Column
	size   int
}

// CreateSchema is a factory for Schemas
func CreateSchema() rf.Schema {
	return &schema{
		schema: make(map[string]rf.Column),
		size:   0,
	}
}

// Equals returns nil iff this and another Schema are equivalent, or an error describing the difference
func (s *schema) Equals(otherSchema rf.Schema) error {
	if s.Size() != otherSchema.Size() {
		return fmt.Errorf("Schemas have unequal sizes")
	}
	if s.NumFixedLengthColumns() != otherSchema.NumFixedLengthColumns() {
		return fmt.Errorf("Schemas have unequal numbers of fixed-length columns")
	}
	if s.NumVariableLengthColumns() != otherSchema.NumVariableLengthColumns() {
		return fmt.Errorf("Schemas have unequal numbers of variable-length columns")
	}
	return s.ForEachColumn(func(name string, offset rf.Column) error {
		otherOffset, err := otherSchema.GetOffset(name)
		if err != nil {
			return err
		}
		if offset.Start() != otherOffset.Start() {
			return fmt.Errorf("Column %s offsets do not match", name)
		}
		if offset.Index() != otherOffset.Index() {
			return fmt.Errorf("Column %s indices do not match", name)
		}
		if reflect.TypeOf(offset.Type()) != reflect.TypeOf(otherOffset.Type()) {
			return fmt.Errorf("Column %s types do not match", name)
		}
		if offset.Type().Size() != otherOffset.Type().Size() {
			return fmt.Errorf("Column %s type fields do not match", name)
		}
		return nil
	})
}

// Clone returns a copy of this Schema
func (s *schema) Clone() rf.Schema {
	newSchema := make(map[string]rf.Column)
	for k, v := range s.schema {
		newSchema[k] = v.Clone()
	}
	return &schema{schema: newSchema, size: s.size}
}

// RowWidth returns the current byte size of a Row respecting this Schema, without padding
func (s *schema) RowWidth() int {
	return s.size
}

// Size returns the current byte size of a Row respecting this Schema, padded so rows fit neatly into 64 bit chunks
func (s *schema) Size() int {
	if s.size < 16 {
		return 16
	} else if s.size < 32 {
		return 32
	} else if s.size < 64 {
		return 64
	} else if s.size%64 != 0 {
		return ((s.size / 64) + 1) * 64
	} else {
		return (s.size / 64) * 64
	}
}

// NumColumns returns the number of columns (fixed-length and variable-length) in this Schema
func (s *schema) NumColumns() int {
	return len(s.schema)
}

// NumFixedLengthColumns returns the number of fixed-length columns in this Schema
func (s *schema) NumFixedLengthColumns() int {
	i := 0
	for _, col := range s.schema {
		if !rf.IsVariableLength(col.Type()) {
			i++
		}
	}
	return i
}

// NumVariableLengthColumns returns the number of variable-length columns in this Schema
func (s *schema) NumVariableLengthColumns() int {
	i := 0
	for _, col := range s.schema {
		if rf.IsVariableLength(col.Type()) {
			i++
		}
	}
	return i
}

// Repack optimizes the memory layout of the Schema, removing any gaps in fixed-length data.
func (s *schema) Repack() (newSchema rf.Schema) {
	newSchema = CreateSchema()
	// re-insert into fresh schema in original index order
	for _, name := range s.ColumnNames() {
		newSchema, _ = newSchema.CreateColumn(name, s.schema[name].Type())
	}
	return
}

// GetOffset returns the byte offset of a particular column within a row.
func (s *schema) GetOffset(colName string) (offset rf.Column, err error) {
	offset, ok := s.schema[colName]
	if !ok {
		err = fmt.Errorf("Schema does not contain column with name %s", colName)
	}
	return
}

// HasColumn returns true iff this schema contains a column with the given name
func (s *schema) HasColumn(colName string) bool {
	_, err := s.GetOffset(colName)
	return err == nil
}

// CreateColumn defines a new column within the Schema
func (s *schema) CreateColumn(colName string, columnType rf.ColumnType) (newSchema rf.Schema, err error) {
	_, containsOffset := s.schema[colName]
	if containsOffset {
		err = fmt.Errorf("Schema already contains column with name %s", colName)
	} else {
		if !rf.IsVariableLength(columnType) {
			s.schema[colName] = &column{len(s.schema), s.size, columnType}
			s.size += columnType.Size()
		} else {
			s.schema[colName] = &column{len(s.schema), 0, columnType}
		}
		newSchema = s
	}
	return
}

// RenameColumn renames a column within the Schema
func (s *schema) RenameColumn(oldName string, newName string) (newSchema rf.Schema, err error) {
	_, err = s.GetOffset(oldName)
	if err != nil {
		return nil, err
	}
	if oldName == newName {
		return s, nil
	}
	if s.HasColumn(newName) {
		return nil, fmt.Errorf("Cannot rename column %s to %s, which already exists", oldName, newName)
	}
	s.schema[newName] = s.schema[oldName]
	delete(s.schema, oldName)
	return s, nil
}

// RemoveColumn removes a column from the Schema. Remaining columns keep their
// relative order, and fixed-length data is repacked to remove the gap.
func (s *schema) RemoveColumn(colName string) (rf.Schema, error) {
	if !s.HasColumn(colName) {
		return nil, fmt.Errorf("Cannot remove column %s because it does not exist", colName)
	}
	names := s.ColumnNames()
	old := s.schema
	s.schema = make(map[string]rf.Column)
	s.size = 0
	for _, name := range names {
		if name != colName {
			s.CreateColumn(name, old[name].Type())
		}
	}
	return s, nil
}

// ColumnNames returns the names in the schema, in index order
func (s *schema) ColumnNames() []string {
	names := make([]string, 0, len(s.schema))
	for k := range s.schema {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		return s.schema[names[i]].Index() < s.schema[names[j]].Index()
	})
	return names
}

// ColumnTypes returns the types in the schema, in index order
func (s *schema) ColumnTypes() []rf.ColumnType {
	types := make([]rf.ColumnType, len(s.schema))
	for _, v := range s.schema {
		types[v.Index()] = v.Type()
	}
	return types
}

// ForEachColumn iterates over the columns in this Schema, in order of column index.
func (s *schema) ForEachColumn(fn func(name string, col rf.Column) error) error {
	for _, k := range s.ColumnNames() {
		err := fn(k, s.schema[k])
		if err != nil {
			return err
		}
	}
	return nil
}
