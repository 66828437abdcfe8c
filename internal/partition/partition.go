package partition

import (
	"fmt"

	uuid "github.com/gofrs/uuid"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/errors"
)

const defaultCapacity = 16

// partitionImpl is the internal implementation of Partition
type partitionImpl struct {
	id         string
	maxRows    int
	numRows    int
	rows       []byte
	rowMeta    []byte
	varRowData [][]interface{}
	schema     rf.Schema
	keys       []uint64
	isKeyed    bool
}

// createPartitionImpl creates a new Partition containing an empty byte array and a schema
func createPartitionImpl(maxRows int, initialCapacity int, schema rf.Schema) *partitionImpl {
	id, err := uuid.NewV4()
	if err != nil {
		panic(fmt.Errorf("failed to generate UUID for Partition: %w", err))
	}
	if initialCapacity > maxRows {
		initialCapacity = maxRows
	}
	return &partitionImpl{
		id:         id.String(),
		maxRows:    maxRows,
		numRows:    0,
		rows:       make([]byte, 0, initialCapacity*schema.Size()),
		rowMeta:    make([]byte, 0, initialCapacity*schema.NumColumns()),
		varRowData: make([][]interface{}, 0, initialCapacity),
		schema:     schema,
		keys:       make([]uint64, 0),
		isKeyed:    false,
	}
}

// CreatePartition creates a new, empty Partition with a schema
func CreatePartition(maxRows int, schema rf.Schema) rf.OperablePartition {
	return createPartitionImpl(maxRows, defaultCapacity, schema)
}

// CreateBuildablePartition creates a new Partition which can be populated by DataSources and Parsers
func CreateBuildablePartition(maxRows int, schema rf.Schema) rf.BuildablePartition {
	return createPartitionImpl(maxRows, defaultCapacity, schema)
}

// ID retrieves the ID of this Partition
func (p *partitionImpl) ID() string {
	return p.id
}

// GetMaxRows retrieves the maximum number of rows in this Partition
func (p *partitionImpl) GetMaxRows() int {
	return p.maxRows
}

// GetNumRows retrieves the number of rows in this Partition
func (p *partitionImpl) GetNumRows() int {
	return p.numRows
}

// GetSchema retrieves the Schema of this Partition
func (p *partitionImpl) GetSchema() rf.Schema {
	return p.schema
}

// UpdateCurrentSchema updates the Schema of this Partition
func (p *partitionImpl) UpdateCurrentSchema(currentSchema rf.Schema) {
	p.schema = currentSchema
}

func (p *partitionImpl) getRowData(rowNum int) []byte {
	size := p.schema.Size()
	return p.rows[rowNum*size : (rowNum+1)*size]
}

func (p *partitionImpl) getRowMeta(rowNum int) []byte {
	numCols := p.schema.NumColumns()
	return p.rowMeta[rowNum*numCols : (rowNum+1)*numCols]
}

// GetRow retrieves a specific row from this Partition
func (p *partitionImpl) GetRow(rowNum int) rf.Row {
	return &rowImpl{
		partID:  p.id,
		meta:    p.getRowMeta(rowNum),
		data:    p.getRowData(rowNum),
		varData: p.varRowData[rowNum],
		schema:  p.schema,
	}
}

// ForEachRow iterates over Rows in a Partition
func (p *partitionImpl) ForEachRow(fn rf.MapOperation) error {
	for i := 0; i < p.GetNumRows(); i++ {
		if err := fn(p.GetRow(i)); err != nil {
			return err
		}
	}
	return nil
}

// appendRowData adds a Row to the end of this Partition, if it isn't full and if the Row fits within the schema
func (p *partitionImpl) appendRowData(row []byte, meta []byte, varData []interface{}) error {
	if p.numRows >= p.maxRows {
		return errors.PartitionFullError{}
	} else if len(row) > p.schema.Size() || len(meta) != p.schema.NumColumns() || len(varData) != p.schema.NumColumns() {
		return errors.IncompatibleRowError{}
	}
	start := len(p.rows)
	p.rows = append(p.rows, make([]byte, p.schema.Size())...)
	copy(p.rows[start:], row)
	p.rowMeta = append(p.rowMeta, meta...)
	vd := make([]interface{}, len(varData))
	copy(vd, varData)
	p.varRowData = append(p.varRowData, vd)
	p.numRows++
	return nil
}

// appendKeyedRowData appends a keyed Row to the end of this Partition
func (p *partitionImpl) appendKeyedRowData(row []byte, meta []byte, varData []interface{}, key uint64) error {
	if !p.isKeyed {
		return fmt.Errorf("Partition is not keyed")
	}
	if err := p.appendRowData(row, meta, varData); err != nil {
		return err
	}
	p.keys = append(p.keys, key)
	return nil
}

// AppendEmptyRowData is a convenient way to add an empty Row to the end of this Partition, returning the Row so that Row methods can be used to populate it.
// The returned Row must be populated before the next Row is appended.
func (p *partitionImpl) AppendEmptyRowData() (rf.Row, error) {
	empty := createEmptyRow(p.schema)
	if err := p.appendRowData(empty.data, empty.meta, empty.varData); err != nil {
		return nil, err
	}
	return p.GetRow(p.numRows - 1), nil
}

// AppendRow copies a Row to the end of this Partition. Rows sharing this Partition's
// layout are copied directly, while others are repacked by column name.
func (p *partitionImpl) AppendRow(row rf.Row) error {
	irow, ok := row.(AccessibleRow)
	if !ok {
		return fmt.Errorf("Row of type %T cannot be appended to a Partition", row)
	}
	if irow.GetSchema() == p.schema || irow.GetSchema().Equals(p.schema) == nil {
		return p.appendRowData(irow.GetData(), irow.GetMeta(), irow.GetVarData())
	}
	repacked, err := row.(*rowImpl).Repack(p.schema)
	if err != nil {
		return err
	}
	return p.appendRowData(repacked.data, repacked.meta, repacked.varData)
}
