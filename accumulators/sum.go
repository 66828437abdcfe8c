package accumulators

import (
	"encoding/binary"
	"fmt"
	"math"

	rf "github.com/jbouffard/rasterframes"
)

// Adder returns a new Sum Accumulator
func Adder(colName string) rf.AccumulatorFactory {
	return func() rf.Accumulator {
		return &Sum{colName: colName}
	}
}

// Sum Sums records. Null values are skipped.
type Sum struct {
	colName string
	sum     float64
}

// GetSum returns the row Sum from this Accumulator
func (a *Sum) GetSum() float64 {
	return a.sum
}

// Name returns the result name of this Accumulator
func (a *Sum) Name() string {
	return fmt.Sprintf("sum(%s)", a.colName)
}

// Value returns the sum as a float64
func (a *Sum) Value() interface{} {
	return a.sum
}

// Accumulate adds a row to this Accumulator
func (a *Sum) Accumulate(row rf.Row) error {
	offset, err := row.Schema().GetOffset(a.colName)
	if err != nil {
		return err
	}
	if row.IsNil(a.colName) {
		return nil
	}
	switch offset.Type().(type) {
	case *rf.Int32ColumnType:
		v, err := row.GetInt32(a.colName)
		if err != nil {
			return err
		}
		a.sum += float64(v)
	case *rf.Int64ColumnType:
		v, err := row.GetInt64(a.colName)
		if err != nil {
			return err
		}
		a.sum += float64(v)
	case *rf.Float64ColumnType:
		v, err := row.GetFloat64(a.colName)
		if err != nil {
			return err
		}
		a.sum += v
	default:
		return fmt.Errorf("Column %s is not numeric", a.colName)
	}
	return nil
}

// Merge merges another Accumulator into this one
func (a *Sum) Merge(o rf.Accumulator) error {
	ca, ok := o.(*Sum)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Sum Accumulator")
	}
	a.sum += ca.sum
	return nil
}

// ToBytes serializes this Accumulator
func (a *Sum) ToBytes() ([]byte, error) {
	buff := make([]byte, 8)
	binary.LittleEndian.PutUint64(buff, math.Float64bits(a.sum))
	return buff, nil
}

// FromBytes produce a new Accumulator from serialized data
func (a *Sum) FromBytes(buff []byte) (rf.Accumulator, error) {
	if len(buff) != 8 {
		return nil, fmt.Errorf("Sum Accumulator expects 8 bytes, got %d", len(buff))
	}
	return &Sum{colName: a.colName, sum: math.Float64frombits(binary.LittleEndian.Uint64(buff))}, nil
}
