// Package jsonl parses JSON Lines DataSources. This parser uses https://github.com/tidwall/gjson to process data, and supports Schema column names formatted as gjson paths.
//
// Raster values are parsed as follows:
//   - Tiles are objects {"cellType": "int16", "cols": 2, "rows": 2, "cells": [1, null, 3, 4]}, where null marks no-data,
//     or {"encoded": "<base64>"} holding the tile wire codec
//   - spatial keys are objects {"col": 0, "row": 1}
//   - extents are objects {"xmin": 0, "ymin": 0, "xmax": 1, "ymax": 1}
//   - geometries are GeoJSON
//   - times are strings in the layout of their column (RFC3339 by default)
package jsonl
