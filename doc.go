// Package rasterframes contains the core components of RasterFrames, a tile-valued column algebra
// engine for dataframes. This root package defines the types employed during regular use of the
// engine (Schemas, Rows, DataFrames and their operations) as well as those used to extend it with
// new DataSources, Tasks and Accumulators.
//
// Tile columns hold *tile.Tile values. Element-wise algebra lives in package local, per-tile
// reductions in package reduce, cross-row aggregations in package accumulators, and the
// by-name function registry in package functions.
package rasterframes
