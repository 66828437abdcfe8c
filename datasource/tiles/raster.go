package tiles

import (
	"fmt"

	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/tile"
)

// FromRaster cuts a single georeferenced raster into a layer of tileCols x tileRows Tiles,
// keyed from the upper-left corner. Tiles on the right and bottom edges are padded with
// no-data, and the layout extent grows to cover the padding. Raw cell types gain a mask
// so that padding can be represented.
func FromRaster(raster *tile.Tile, extent layer.Extent, crs string, tileCols int, tileRows int) (*layer.TileLayerMetadata, []Record, error) {
	if raster == nil {
		return nil, nil, fmt.Errorf("FromRaster requires a raster")
	}
	if tileCols <= 0 || tileRows <= 0 {
		return nil, nil, fmt.Errorf("tile dimensions must be positive, got %dx%d", tileCols, tileRows)
	}
	if extent.Width() <= 0 || extent.Height() <= 0 {
		return nil, nil, fmt.Errorf("raster extent %s is empty", extent)
	}
	layoutCols := (raster.Cols() + tileCols - 1) / tileCols
	layoutRows := (raster.Rows() + tileRows - 1) / tileRows
	cellW := extent.Width() / float64(raster.Cols())
	cellH := extent.Height() / float64(raster.Rows())
	layoutExtent := layer.Extent{
		XMin: extent.XMin,
		YMax: extent.YMax,
		XMax: extent.XMin + float64(layoutCols*tileCols)*cellW,
		YMin: extent.YMax - float64(layoutRows*tileRows)*cellH,
	}
	ct := raster.CellType()
	if !ct.HasNoData() && (raster.Cols()%tileCols != 0 || raster.Rows()%tileRows != 0) {
		ct = ct.WithMask()
	}

	records := make([]Record, 0, layoutCols*layoutRows)
	for kr := 0; kr < layoutRows; kr++ {
		for kc := 0; kc < layoutCols; kc++ {
			b, err := tile.NewBuilder(ct, tileCols, tileRows)
			if err != nil {
				return nil, nil, err
			}
			for r := 0; r < tileRows; r++ {
				srcRow := kr*tileRows + r
				if srcRow >= raster.Rows() {
					break
				}
				for c := 0; c < tileCols; c++ {
					srcCol := kc*tileCols + c
					if srcCol >= raster.Cols() {
						break
					}
					if v, ok := raster.Get(srcCol, srcRow); ok {
						b.Set(c, r, v)
					}
				}
			}
			records = append(records, Record{
				Key:   layer.SpatialKey{Col: int32(kc), Row: int32(kr)},
				Tiles: []*tile.Tile{b.Build()},
			})
		}
	}

	metadata := &layer.TileLayerMetadata{
		CellType: ct,
		CRS:      crs,
		Extent:   extent,
		Layout: layer.LayoutDefinition{
			Extent:     layoutExtent,
			TileCols:   tileCols,
			TileRows:   tileRows,
			LayoutCols: layoutCols,
			LayoutRows: layoutRows,
		},
		Bounds: layer.KeyBounds{
			Min: layer.SpatialKey{Col: 0, Row: 0},
			Max: layer.SpatialKey{Col: int32(layoutCols - 1), Row: int32(layoutRows - 1)},
		},
	}
	return metadata, records, nil
}
