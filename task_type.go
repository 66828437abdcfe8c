package rasterframes

// TaskType describes the type of a Task, used internally to control behaviour
type TaskType string

const (
	// ExtractTaskType indicates that this task sources data from a DataSource
	ExtractTaskType TaskType = "extract"
	// ShuffleTaskType indicates that this task triggers a Shuffle, grouping rows by key
	ShuffleTaskType TaskType = "shuffle"
	// AccumulateTaskType indicates that this task triggers an Accumulation
	AccumulateTaskType TaskType = "accumulate"
	// FlatMapTaskType indicates that this task triggers a FlatMap
	FlatMapTaskType TaskType = "flatmap"
	// MapTaskType indicates that this task triggers a Map
	MapTaskType TaskType = "map"
	// FilterTaskType indicates that this task triggers a Filter
	FilterTaskType TaskType = "filter"
	// WithColumnTaskType indicates that this task computes a new column
	WithColumnTaskType TaskType = "with_column"
	// RemoveColumnTaskType indicates that this task removes columns
	RemoveColumnTaskType TaskType = "remove_column"
	// RenameColumnTaskType indicates that this task renames a column
	RenameColumnTaskType TaskType = "rename_column"
	// JoinTaskType indicates that this task joins against another DataFrame
	JoinTaskType TaskType = "join"
	// CollectTaskType indicates that this task triggers a Collect
	CollectTaskType TaskType = "collect"
)
