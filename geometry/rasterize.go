package geometry

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/tile"
)

// Envelope returns the axis-aligned bounding box of a geometry
func Envelope(g geom.Geom) layer.Extent {
	return layer.ExtentFromBounds(g.Bounds())
}

// grid maps between cell indices and coordinates for a cols x rows raster covering an
// extent. Row 0 is the northernmost row.
type grid struct {
	extent layer.Extent
	cols   int
	rows   int
	cellW  float64
	cellH  float64
}

func (gr *grid) center(col, row int) geom.Point {
	return geom.Point{
		X: gr.extent.XMin + (float64(col)+0.5)*gr.cellW,
		Y: gr.extent.YMax - (float64(row)+0.5)*gr.cellH,
	}
}

// cellOf returns the cell containing a point, and false if it lies outside the extent
func (gr *grid) cellOf(p geom.Point) (int, int, bool) {
	if p.X < gr.extent.XMin || p.X > gr.extent.XMax || p.Y < gr.extent.YMin || p.Y > gr.extent.YMax {
		return 0, 0, false
	}
	col := int(math.Floor((p.X - gr.extent.XMin) / gr.cellW))
	row := int(math.Floor((gr.extent.YMax - p.Y) / gr.cellH))
	if col == gr.cols {
		col--
	}
	if row == gr.rows {
		row--
	}
	return col, row, true
}

// Rasterize burns a geometry into a cols x rows Tile covering the envelope of bounds.
// Cells whose centers fall inside (or on the edge of) a polygonal geometry receive fill,
// as do cells containing a point or crossed by a line. All other cells are no-data.
// The Tile is int32 when fill is integral, and float64 otherwise.
func Rasterize(g geom.Geom, bounds geom.Geom, fill float64, cols int, rows int) (*tile.Tile, error) {
	if bounds == nil {
		return nil, fmt.Errorf("rasterize requires bounds")
	}
	extent := Envelope(bounds)
	if extent.Width() <= 0 || extent.Height() <= 0 {
		return nil, fmt.Errorf("rasterize bounds %s have no area", extent)
	}
	ct := tile.Float64CellType
	if fill == math.Trunc(fill) && fill > tile.Int32.MinValue() && fill <= tile.Int32.MaxValue() {
		ct = tile.Int32CellType
	}
	builder, err := tile.NewBuilder(ct, cols, rows)
	if err != nil {
		return nil, err
	}
	gr := &grid{
		extent: extent,
		cols:   cols,
		rows:   rows,
		cellW:  extent.Width() / float64(cols),
		cellH:  extent.Height() / float64(rows),
	}
	if g != nil {
		burn(gr, builder, g, fill)
	}
	return builder.Build(), nil
}

func burn(gr *grid, builder *tile.Builder, g geom.Geom, fill float64) {
	switch t := g.(type) {
	case geom.Point:
		burnPoint(gr, builder, t, fill)
	case *geom.Point:
		burnPoint(gr, builder, *t, fill)
	case geom.MultiPoint:
		for _, p := range t {
			burnPoint(gr, builder, p, fill)
		}
	case geom.LineString:
		burnLine(gr, builder, t, fill)
	case geom.MultiLineString:
		for _, l := range t {
			burnLine(gr, builder, l, fill)
		}
	case geom.GeometryCollection:
		for _, member := range t {
			burn(gr, builder, member, fill)
		}
	case geom.Polygonal:
		burnPolygonal(gr, builder, t, fill)
	}
}

func burnPoint(gr *grid, builder *tile.Builder, p geom.Point, fill float64) {
	if col, row, ok := gr.cellOf(p); ok {
		builder.Set(col, row, fill)
	}
}

// burnLine samples each segment at half-cell intervals
func burnLine(gr *grid, builder *tile.Builder, line geom.LineString, fill float64) {
	step := math.Min(gr.cellW, gr.cellH) / 2
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		length := math.Hypot(b.X-a.X, b.Y-a.Y)
		n := int(math.Ceil(length / step))
		for s := 0; s <= n; s++ {
			frac := 0.0
			if n > 0 {
				frac = float64(s) / float64(n)
			}
			burnPoint(gr, builder, geom.Point{X: a.X + frac*(b.X-a.X), Y: a.Y + frac*(b.Y-a.Y)}, fill)
		}
	}
	if len(line) == 1 {
		burnPoint(gr, builder, line[0], fill)
	}
}

func burnPolygonal(gr *grid, builder *tile.Builder, poly geom.Polygonal, fill float64) {
	b := poly.Bounds()
	if b == nil {
		return
	}
	// only visit cells within the polygon's envelope
	minCol, maxCol := 0, gr.cols-1
	minRow, maxRow := 0, gr.rows-1
	if c, r, ok := gr.cellOf(clamp(gr.extent, geom.Point{X: b.Min.X, Y: b.Max.Y})); ok {
		minCol, minRow = c, r
	}
	if c, r, ok := gr.cellOf(clamp(gr.extent, geom.Point{X: b.Max.X, Y: b.Min.Y})); ok {
		maxCol, maxRow = c, r
	}
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if gr.center(col, row).Within(poly) != geom.Outside {
				builder.Set(col, row, fill)
			}
		}
	}
}

func clamp(e layer.Extent, p geom.Point) geom.Point {
	return geom.Point{
		X: math.Max(e.XMin, math.Min(e.XMax, p.X)),
		Y: math.Max(e.YMin, math.Min(e.YMax, p.Y)),
	}
}
