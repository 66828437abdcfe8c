package transform

import (
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/errors"
)

// RemoveColumn removes existing columns (drop). Removing a column which does not exist is an error.
func RemoveColumn(oldNames ...string) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.RemoveColumnTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			newSchema := d.GetSchema().Clone()
			for _, oldName := range oldNames {
				if _, err := newSchema.RemoveColumn(oldName); err != nil {
					return nil, errors.SchemaError{Reason: err.Error()}
				}
			}
			return &rf.DataFrameOperationResult{
				Task:       &repackTask{newSchema: newSchema},
				DataSchema: newSchema,
			}, nil
		},
	}
}
