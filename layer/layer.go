// Package layer describes how Tiles are arranged within a larger raster: spatial keys,
// geographic extents, layout definitions and tile layer metadata.
package layer

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/jbouffard/rasterframes/tile"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SpatialKey is the grid coordinate of a Tile within a layout. Columns increase eastward
// and rows increase southward from the upper-left corner of the layout.
type SpatialKey struct {
	Col int32 `json:"col"`
	Row int32 `json:"row"`
}

// String returns a textual representation of this SpatialKey
func (k SpatialKey) String() string {
	return fmt.Sprintf("(%d, %d)", k.Col, k.Row)
}

// Extent is an axis-aligned geographic rectangle
type Extent struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// ExtentFromBounds converts geometry Bounds into an Extent
func ExtentFromBounds(b *geom.Bounds) Extent {
	return Extent{XMin: b.Min.X, YMin: b.Min.Y, XMax: b.Max.X, YMax: b.Max.Y}
}

// String returns a textual representation of this Extent
func (e Extent) String() string {
	return fmt.Sprintf("Extent(%g, %g, %g, %g)", e.XMin, e.YMin, e.XMax, e.YMax)
}

// Width returns the east-west size of this Extent
func (e Extent) Width() float64 {
	return e.XMax - e.XMin
}

// Height returns the north-south size of this Extent
func (e Extent) Height() float64 {
	return e.YMax - e.YMin
}

// Center returns the midpoint of this Extent
func (e Extent) Center() geom.Point {
	return geom.Point{X: (e.XMin + e.XMax) / 2, Y: (e.YMin + e.YMax) / 2}
}

// Bounds converts this Extent into geometry Bounds
func (e Extent) Bounds() *geom.Bounds {
	return &geom.Bounds{Min: geom.Point{X: e.XMin, Y: e.YMin}, Max: geom.Point{X: e.XMax, Y: e.YMax}}
}

// Polygon returns the outline of this Extent as a counter-clockwise polygon
func (e Extent) Polygon() geom.Polygon {
	return geom.Polygon{{
		{X: e.XMin, Y: e.YMin},
		{X: e.XMax, Y: e.YMin},
		{X: e.XMax, Y: e.YMax},
		{X: e.XMin, Y: e.YMax},
		{X: e.XMin, Y: e.YMin},
	}}
}

// Intersects returns true iff this Extent and another share any area or boundary
func (e Extent) Intersects(o Extent) bool {
	return e.XMin <= o.XMax && o.XMin <= e.XMax && e.YMin <= o.YMax && o.YMin <= e.YMax
}

// Combine returns the smallest Extent covering this Extent and another
func (e Extent) Combine(o Extent) Extent {
	return Extent{
		XMin: math.Min(e.XMin, o.XMin),
		YMin: math.Min(e.YMin, o.YMin),
		XMax: math.Max(e.XMax, o.XMax),
		YMax: math.Max(e.YMax, o.YMax),
	}
}

// LayoutDefinition is a regular grid of equally-sized Tiles covering an Extent
type LayoutDefinition struct {
	Extent     Extent `json:"extent"`
	TileCols   int    `json:"tileCols"`
	TileRows   int    `json:"tileRows"`
	LayoutCols int    `json:"layoutCols"`
	LayoutRows int    `json:"layoutRows"`
}

// TileWidth returns the geographic width of a single Tile in this layout
func (l LayoutDefinition) TileWidth() float64 {
	return l.Extent.Width() / float64(l.LayoutCols)
}

// TileHeight returns the geographic height of a single Tile in this layout
func (l LayoutDefinition) TileHeight() float64 {
	return l.Extent.Height() / float64(l.LayoutRows)
}

// CellSize returns the geographic width and height of a single cell in this layout
func (l LayoutDefinition) CellSize() (float64, float64) {
	return l.TileWidth() / float64(l.TileCols), l.TileHeight() / float64(l.TileRows)
}

// KeyExtent returns the geographic Extent covered by the Tile with the given SpatialKey
func (l LayoutDefinition) KeyExtent(k SpatialKey) Extent {
	w, h := l.TileWidth(), l.TileHeight()
	xmin := l.Extent.XMin + float64(k.Col)*w
	ymax := l.Extent.YMax - float64(k.Row)*h
	return Extent{XMin: xmin, YMin: ymax - h, XMax: xmin + w, YMax: ymax}
}

// Validate returns an error if this LayoutDefinition cannot map keys to extents
func (l LayoutDefinition) Validate() error {
	if l.TileCols <= 0 || l.TileRows <= 0 || l.LayoutCols <= 0 || l.LayoutRows <= 0 {
		return fmt.Errorf("layout dimensions must be positive")
	}
	if l.Extent.Width() <= 0 || l.Extent.Height() <= 0 {
		return fmt.Errorf("layout extent %s is empty", l.Extent)
	}
	return nil
}

// KeyBounds is the inclusive range of SpatialKeys present in a layer
type KeyBounds struct {
	Min SpatialKey `json:"minKey"`
	Max SpatialKey `json:"maxKey"`
}

// Contains returns true iff the given key lies within these KeyBounds
func (b KeyBounds) Contains(k SpatialKey) bool {
	return k.Col >= b.Min.Col && k.Col <= b.Max.Col && k.Row >= b.Min.Row && k.Row <= b.Max.Row
}

// TileLayerMetadata describes a layer of keyed Tiles
type TileLayerMetadata struct {
	CellType tile.CellType    `json:"cellType"`
	CRS      string           `json:"crs"`
	Extent   Extent           `json:"extent"`
	Layout   LayoutDefinition `json:"layoutDefinition"`
	Bounds   KeyBounds        `json:"bounds"`
}

// ToJSON serializes this TileLayerMetadata
func (m *TileLayerMetadata) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MetadataFromJSON deserializes TileLayerMetadata
func MetadataFromJSON(data []byte) (*TileLayerMetadata, error) {
	m := &TileLayerMetadata{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	if err := m.Layout.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
