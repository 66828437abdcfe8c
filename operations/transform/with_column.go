package transform

import (
	"fmt"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/errors"
	"github.com/jbouffard/rasterframes/functions"
	iutil "github.com/jbouffard/rasterframes/internal/util"
	"github.com/jbouffard/rasterframes/schema"
)

type withColumnTask struct {
	colName   string
	newSchema rf.Schema
	repack    bool
	fn        rf.MapOperation
}

func (s *withColumnTask) RunInitialize(sctx rf.StageContext) error {
	return nil
}

func (s *withColumnTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	part := previous
	if s.repack {
		var err error
		if part, err = previous.Repack(s.newSchema); err != nil {
			return nil, err
		}
	}
	next, err := part.MapRows(s.fn)
	return []rf.OperablePartition{next}, err
}

// WithColumn evaluates a row function Expression against every Row, storing the result
// in the named column. The column is created if it does not exist, and replaced if it
// exists with the same type. The Expression is bound when this operation is applied.
func WithColumn(colName string, expr *functions.Expression) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.WithColumnTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			if expr == nil {
				return nil, fmt.Errorf("WithColumn %s requires an expression", colName)
			}
			bound, err := expr.Bind(d.GetSchema())
			if err != nil {
				return nil, err
			}
			if bound.IsAggregate() {
				return nil, fmt.Errorf("Aggregate expression %s must be computed with Agg", bound.String())
			}
			newSchema := d.GetSchema().Clone()
			repack := true
			if newSchema.HasColumn(colName) {
				col, err := newSchema.GetOffset(colName)
				if err != nil {
					return nil, err
				}
				if !schema.SameType(col.Type(), bound.ResultType()) {
					return nil, errors.SchemaError{Reason: fmt.Sprintf("column %s of type %s cannot hold the result of %s, of type %s",
						colName, schema.TypeName(col.Type()), bound.String(), schema.TypeName(bound.ResultType()))}
				}
				repack = false
			} else if _, err := newSchema.CreateColumn(colName, bound.ResultType()); err != nil {
				return nil, err
			}
			fn := func(row rf.Row) error {
				res, err := bound.Eval(row)
				if err != nil {
					return err
				}
				return row.Set(colName, res)
			}
			return &rf.DataFrameOperationResult{
				Task: &withColumnTask{
					colName:   colName,
					newSchema: newSchema,
					repack:    repack,
					fn:        iutil.SafeMapOperation(fn),
				},
				DataSchema: newSchema,
			}, nil
		},
	}
}

// AddColumn declares that a new (empty) column with a
// specific type and name should be available to the
// next Task of the DataFrame pipeline
func AddColumn(colName string, colType rf.ColumnType) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.WithColumnTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			newSchema, err := d.GetSchema().Clone().CreateColumn(colName, colType)
			if err != nil {
				return nil, err
			}
			return &rf.DataFrameOperationResult{
				Task:       &repackTask{newSchema: newSchema},
				DataSchema: newSchema,
			}, nil
		},
	}
}
