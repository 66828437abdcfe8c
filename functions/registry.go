// Package functions is the static registry of named raster functions. Every function is
// described by a Descriptor carrying its arity and operand kinds, and is invoked by name
// through Invoke. Operands are validated when an Expression is bound to a Schema, before
// any row is evaluated.
package functions

import (
	"sort"
	"strings"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/errors"
	"github.com/jbouffard/rasterframes/schema"
)

// OperandKind is the kind of value a function operand must have
type OperandKind int

const (
	// TileOperand is a *tile.Tile
	TileOperand OperandKind = iota
	// NumericOperand is any number. Integer operands are accepted as well.
	NumericOperand
	// IntOperand is an integer
	IntOperand
	// GeometryOperand is a geom.Geom
	GeometryOperand
	// StringOperand is a string
	StringOperand
	// OtherOperand is any value which cannot be passed to a function
	OtherOperand
)

// String returns the name of this OperandKind
func (k OperandKind) String() string {
	switch k {
	case TileOperand:
		return "Tile"
	case NumericOperand:
		return "Numeric"
	case IntOperand:
		return "Int"
	case GeometryOperand:
		return "Geometry"
	case StringOperand:
		return "String"
	default:
		return "Other"
	}
}

func (k OperandKind) accepts(actual OperandKind) bool {
	return k == actual || (k == NumericOperand && actual == IntOperand)
}

// kindOf returns the OperandKind of values stored in columns of the given type
func kindOf(colType rf.ColumnType) OperandKind {
	switch colType.(type) {
	case *rf.TileColumnType:
		return TileOperand
	case *rf.Int32ColumnType, *rf.Int64ColumnType:
		return IntOperand
	case *rf.Float64ColumnType:
		return NumericOperand
	case *rf.GeometryColumnType:
		return GeometryOperand
	case *rf.VarStringColumnType:
		return StringOperand
	default:
		return OtherOperand
	}
}

// rowFunc evaluates a row function over non-null operands, normalized to the Go type of their
// OperandKind. A nil result is stored as null.
type rowFunc func(args []interface{}) (interface{}, error)

// aggFunc produces the Accumulator of an aggregate function over a Tile column
type aggFunc func(colName string) rf.AccumulatorFactory

// Descriptor describes a registered function
type Descriptor struct {
	Name      string
	Operands  []OperandKind
	Aggregate bool
	Result    rf.ColumnType // the type of the column produced by a row function. Nil for aggregates.
	eval      rowFunc
	agg       aggFunc
}

// Arity returns the number of operands of this function
func (d *Descriptor) Arity() int {
	return len(d.Operands)
}

// ResultKind returns the OperandKind of the values produced by this function
func (d *Descriptor) ResultKind() OperandKind {
	if d.Aggregate {
		return OtherOperand
	}
	return kindOf(d.Result)
}

// String returns the signature of this function
func (d *Descriptor) String() string {
	operands := make([]string, len(d.Operands))
	for i, o := range d.Operands {
		operands[i] = o.String()
	}
	res := "Aggregate"
	if !d.Aggregate {
		res = schema.TypeName(d.Result)
	}
	return d.Name + "(" + strings.Join(operands, ", ") + ") " + res
}

const prefix = "rf_"

var registry = buildRegistry(append(rowFunctions(), aggregateFunctions()...))

func buildRegistry(descs []*Descriptor) map[string]*Descriptor {
	reg := make(map[string]*Descriptor, len(descs))
	for _, d := range descs {
		if _, exists := reg[d.Name]; exists {
			panic("function " + d.Name + " registered twice")
		}
		reg[d.Name] = d
	}
	return reg
}

// Lookup returns the Descriptor of a registered function. Names may omit the "rf_" prefix.
func Lookup(name string) (*Descriptor, error) {
	if d, ok := registry[name]; ok {
		return d, nil
	}
	if !strings.HasPrefix(name, prefix) {
		if d, ok := registry[prefix+name]; ok {
			return d, nil
		}
	}
	return nil, errors.UnknownFunctionError{Name: name}
}

// Names returns the names of all registered functions, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
