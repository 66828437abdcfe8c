package transform

import (
	rf "github.com/jbouffard/rasterframes"
)

// renameColumnTask relabels Partitions with a Schema sharing their layout
type renameColumnTask struct {
	newSchema rf.Schema
}

func (s *renameColumnTask) RunInitialize(sctx rf.StageContext) error {
	return nil
}

func (s *renameColumnTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	previous.UpdateCurrentSchema(s.newSchema)
	return []rf.OperablePartition{previous}, nil
}

// RenameColumn renames an existing column (withColumnRenamed)
func RenameColumn(oldName string, newName string) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.RenameColumnTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			newSchema, err := d.GetSchema().Clone().RenameColumn(oldName, newName)
			if err != nil {
				return nil, err
			}
			return &rf.DataFrameOperationResult{
				Task:       &renameColumnTask{newSchema: newSchema},
				DataSchema: newSchema,
			}, nil
		},
	}
}
