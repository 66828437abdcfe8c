package functions

import (
	"fmt"
	"strings"

	"github.com/ctessum/geom"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/errors"
	"github.com/jbouffard/rasterframes/tile"
)

// An Arg is an operand of a function: a column reference, a literal, or another Expression
type Arg interface {
	String() string
	bind(s rf.Schema) (boundArg, OperandKind, error)
}

type boundArg interface {
	eval(row rf.Row) (interface{}, error)
}

// column references a column by name
type column struct {
	name string
}

// Col references the column with the given name
func Col(name string) Arg {
	return &column{name: name}
}

func (c *column) String() string {
	return c.name
}

func (c *column) bind(s rf.Schema) (boundArg, OperandKind, error) {
	col, err := s.GetOffset(c.name)
	if err != nil {
		return nil, OtherOperand, errors.SchemaError{Reason: err.Error()}
	}
	return c, kindOf(col.Type()), nil
}

func (c *column) eval(row rf.Row) (interface{}, error) {
	if row.IsNil(c.name) {
		return nil, nil
	}
	return row.Get(c.name)
}

// literal is a constant operand
type literal struct {
	value interface{}
}

// Lit produces a constant operand. Supported values are ints, floats, strings,
// geometries and Tiles.
func Lit(v interface{}) Arg {
	return &literal{value: v}
}

func (l *literal) String() string {
	if s, ok := l.value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", l.value)
}

func (l *literal) kind() OperandKind {
	switch l.value.(type) {
	case int, int32, int64:
		return IntOperand
	case float32, float64:
		return NumericOperand
	case string:
		return StringOperand
	case *tile.Tile:
		return TileOperand
	case geom.Geom:
		return GeometryOperand
	default:
		return OtherOperand
	}
}

func (l *literal) bind(s rf.Schema) (boundArg, OperandKind, error) {
	return l, l.kind(), nil
}

func (l *literal) eval(row rf.Row) (interface{}, error) {
	return l.value, nil
}

// An Expression is the invocation of a registered function over operands
type Expression struct {
	desc *Descriptor
	args []Arg
}

// Invoke looks up a function by name and applies it to operands. The number of operands
// is checked immediately; their kinds are checked by Bind.
func Invoke(name string, args ...Arg) (*Expression, error) {
	desc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(args) != desc.Arity() {
		return nil, errors.ArityError{Name: desc.Name, Expected: desc.Arity(), Actual: len(args)}
	}
	for i, a := range args {
		if a == nil {
			return nil, errors.OperandTypeError{Name: desc.Name, Position: i, Expected: desc.Operands[i].String(), Actual: "nil"}
		}
	}
	return &Expression{desc: desc, args: args}, nil
}

// mustInvoke is used by the typed helpers, whose names and arities are fixed
func mustInvoke(name string, args ...Arg) *Expression {
	e, err := Invoke(name, args...)
	if err != nil {
		panic(err)
	}
	return e
}

// Descriptor returns the Descriptor of the function this Expression invokes
func (e *Expression) Descriptor() *Descriptor {
	return e.desc
}

// IsAggregate returns true iff this Expression invokes an aggregate function
func (e *Expression) IsAggregate() bool {
	return e.desc.Aggregate
}

// String returns a textual representation of this Expression, e.g. "rf_localAdd(a, b)"
func (e *Expression) String() string {
	args := make([]string, len(e.args))
	for i, a := range e.args {
		args[i] = a.String()
	}
	return e.desc.Name + "(" + strings.Join(args, ", ") + ")"
}

func (e *Expression) bind(s rf.Schema) (boundArg, OperandKind, error) {
	if e.desc.Aggregate {
		return nil, OtherOperand, fmt.Errorf("aggregate function %s cannot be nested within another function", e.desc.Name)
	}
	b, err := e.Bind(s)
	if err != nil {
		return nil, OtherOperand, err
	}
	return b, e.desc.ResultKind(), nil
}

// Bind validates this Expression against a Schema, producing a BoundExpression which can be
// evaluated against Rows of that Schema
func (e *Expression) Bind(s rf.Schema) (*BoundExpression, error) {
	bound := make([]boundArg, len(e.args))
	for i, a := range e.args {
		if e.desc.Aggregate {
			if _, ok := a.(*column); !ok {
				return nil, errors.OperandTypeError{Name: e.desc.Name, Position: i, Expected: "Tile column", Actual: a.String()}
			}
		}
		b, kind, err := a.bind(s)
		if err != nil {
			return nil, err
		}
		if !e.desc.Operands[i].accepts(kind) {
			return nil, errors.OperandTypeError{Name: e.desc.Name, Position: i, Expected: e.desc.Operands[i].String(), Actual: kind.String()}
		}
		bound[i] = b
	}
	return &BoundExpression{expr: e, args: bound}, nil
}

// A BoundExpression is an Expression which has been validated against a Schema
type BoundExpression struct {
	expr *Expression
	args []boundArg
}

// String returns a textual representation of this BoundExpression
func (b *BoundExpression) String() string {
	return b.expr.String()
}

// IsAggregate returns true iff this BoundExpression invokes an aggregate function
func (b *BoundExpression) IsAggregate() bool {
	return b.expr.desc.Aggregate
}

// ResultType returns the type of the column this BoundExpression produces. Nil for aggregates.
func (b *BoundExpression) ResultType() rf.ColumnType {
	return b.expr.desc.Result
}

// Accumulator returns the AccumulatorFactory of an aggregate BoundExpression
func (b *BoundExpression) Accumulator() (rf.AccumulatorFactory, error) {
	if !b.IsAggregate() {
		return nil, fmt.Errorf("%s is not an aggregate function", b.expr.desc.Name)
	}
	return b.expr.desc.agg(b.expr.args[0].(*column).name), nil
}

// Eval evaluates a row function against a Row. The result is nil when any operand is null,
// or when the function produces no value (e.g. the mean of a Tile without data cells).
func (b *BoundExpression) Eval(row rf.Row) (interface{}, error) {
	if b.IsAggregate() {
		return nil, fmt.Errorf("aggregate function %s cannot be evaluated against a single row", b.expr.desc.Name)
	}
	return b.eval(row)
}

func (b *BoundExpression) eval(row rf.Row) (interface{}, error) {
	values := make([]interface{}, len(b.args))
	for i, a := range b.args {
		v, err := a.eval(row)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		norm, err := normalize(b.expr.desc.Operands[i], v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.expr.String(), err)
		}
		values[i] = norm
	}
	res, err := b.expr.desc.eval(values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.expr.String(), err)
	}
	return res, nil
}

// normalize converts an operand value to the Go type of its OperandKind
func normalize(kind OperandKind, v interface{}) (interface{}, error) {
	switch kind {
	case NumericOperand:
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int32:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float32:
			return float64(n), nil
		case float64:
			return n, nil
		}
	case IntOperand:
		switch n := v.(type) {
		case int:
			return n, nil
		case int32:
			return int(n), nil
		case int64:
			return int(n), nil
		}
	case TileOperand:
		if t, ok := v.(*tile.Tile); ok && t != nil {
			return t, nil
		}
	case GeometryOperand:
		if g, ok := v.(geom.Geom); ok {
			return g, nil
		}
	case StringOperand:
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("value of type %T is not a %s", v, kind)
}
