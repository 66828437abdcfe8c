package transform

import (
	"fmt"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/errors"
	iutil "github.com/jbouffard/rasterframes/internal/util"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/schema"
)

const (
	// BoundsColumn is the name of the column added by WithBounds
	BoundsColumn = "bounds"
	// CenterColumn is the name of the column added by WithCenter
	CenterColumn = "center"
)

// withKeyGeometry adds a geometry column computed from the layer layout and the spatial key of each Row
func withKeyGeometry(colName string, fn func(e layer.Extent) interface{}) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.WithColumnTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			md := d.TileLayerMetadata()
			if md == nil {
				return nil, errors.SchemaError{Reason: fmt.Sprintf("%s requires a DataFrame with tile layer metadata", colName)}
			}
			if err := md.Layout.Validate(); err != nil {
				return nil, err
			}
			keyCol, err := schema.SpatialKeyColumn(d.GetSchema())
			if err != nil {
				return nil, err
			}
			newSchema, err := d.GetSchema().Clone().CreateColumn(colName, &rf.GeometryColumnType{})
			if err != nil {
				return nil, err
			}
			layout := md.Layout
			set := func(row rf.Row) error {
				if row.IsNil(keyCol) {
					return row.SetNil(colName)
				}
				k, err := row.GetSpatialKey(keyCol)
				if err != nil {
					return err
				}
				return row.Set(colName, fn(layout.KeyExtent(k)))
			}
			return &rf.DataFrameOperationResult{
				Task: &withColumnTask{
					colName:   colName,
					newSchema: newSchema,
					repack:    true,
					fn:        iutil.SafeMapOperation(set),
				},
				DataSchema: newSchema,
			}, nil
		},
	}
}

// WithBounds adds a "bounds" column holding the polygon covered by the Tile of each Row
func WithBounds() *rf.DataFrameOperation {
	return withKeyGeometry(BoundsColumn, func(e layer.Extent) interface{} {
		return e.Polygon()
	})
}

// WithCenter adds a "center" column holding the center point of the Tile of each Row
func WithCenter() *rf.DataFrameOperation {
	return withKeyGeometry(CenterColumn, func(e layer.Extent) interface{} {
		return e.Center()
	})
}
