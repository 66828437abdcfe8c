// Package file reads RasterFrame rows from shard files on disk. A glob selects the shards,
// each holding serialized rows (tiles as codec bytes, geometries as WKB) in whatever format
// the paired parser understands. One shard becomes one unit of work, so a layer exported
// as evenly sized shards keeps workers evenly loaded.
package file
