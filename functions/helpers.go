package functions

// LocalAdd adds two Tiles cell-wise
func LocalAdd(l, r Arg) *Expression {
	return mustInvoke("rf_localAdd", l, r)
}

// LocalSubtract subtracts one Tile from another cell-wise
func LocalSubtract(l, r Arg) *Expression {
	return mustInvoke("rf_localSubtract", l, r)
}

// LocalMultiply multiplies two Tiles cell-wise
func LocalMultiply(l, r Arg) *Expression {
	return mustInvoke("rf_localMultiply", l, r)
}

// LocalDivide divides one Tile by another cell-wise. Division by zero produces no-data.
func LocalDivide(l, r Arg) *Expression {
	return mustInvoke("rf_localDivide", l, r)
}

// NormalizedDifference computes (l - r) / (l + r) cell-wise
func NormalizedDifference(l, r Arg) *Expression {
	return mustInvoke("rf_normalizedDifference", l, r)
}

// LocalAddScalar adds a constant to every cell of a Tile
func LocalAddScalar(t Arg, c float64) *Expression {
	return mustInvoke("rf_localAddScalar", t, Lit(c))
}

// LocalSubtractScalar subtracts a constant from every cell of a Tile
func LocalSubtractScalar(t Arg, c float64) *Expression {
	return mustInvoke("rf_localSubtractScalar", t, Lit(c))
}

// LocalMultiplyScalar multiplies every cell of a Tile by a constant
func LocalMultiplyScalar(t Arg, c float64) *Expression {
	return mustInvoke("rf_localMultiplyScalar", t, Lit(c))
}

// LocalDivideScalar divides every cell of a Tile by a constant
func LocalDivideScalar(t Arg, c float64) *Expression {
	return mustInvoke("rf_localDivideScalar", t, Lit(c))
}

// MakeConstantTile produces a Tile of the given size and cell type where every cell holds value
func MakeConstantTile(value float64, cols int, rows int, cellType string) *Expression {
	return mustInvoke("rf_makeConstantTile", Lit(value), Lit(cols), Lit(rows), Lit(cellType))
}

// ConvertCellType converts a Tile to another cell type
func ConvertCellType(t Arg, cellType string) *Expression {
	return mustInvoke("rf_convertCellType", t, Lit(cellType))
}

// TileDimensions returns the Dimensions of a Tile
func TileDimensions(t Arg) *Expression {
	return mustInvoke("rf_tileDimensions", t)
}

// CellType returns the cell type of a Tile
func CellType(t Arg) *Expression {
	return mustInvoke("rf_cellType", t)
}

// DataCells counts the data cells of a Tile
func DataCells(t Arg) *Expression {
	return mustInvoke("rf_dataCells", t)
}

// NoDataCells counts the no-data cells of a Tile
func NoDataCells(t Arg) *Expression {
	return mustInvoke("rf_noDataCells", t)
}

// TileMin returns the smallest data cell of a Tile
func TileMin(t Arg) *Expression {
	return mustInvoke("rf_tileMin", t)
}

// TileMax returns the largest data cell of a Tile
func TileMax(t Arg) *Expression {
	return mustInvoke("rf_tileMax", t)
}

// TileMean returns the mean of the data cells of a Tile
func TileMean(t Arg) *Expression {
	return mustInvoke("rf_tileMean", t)
}

// TileSum returns the sum of the data cells of a Tile
func TileSum(t Arg) *Expression {
	return mustInvoke("rf_tileSum", t)
}

// TileStats returns the Statistics of a Tile
func TileStats(t Arg) *Expression {
	return mustInvoke("rf_tileStats", t)
}

// TileHistogram returns a Histogram of the data cells of a Tile
func TileHistogram(t Arg, bins int) *Expression {
	return mustInvoke("rf_tileHistogram", t, Lit(bins))
}

// RenderASCII renders a Tile as text
func RenderASCII(t Arg) *Expression {
	return mustInvoke("rf_renderAscii", t)
}

// Envelope returns the Extent of a geometry
func Envelope(g Arg) *Expression {
	return mustInvoke("rf_envelope", g)
}

// Rasterize burns a geometry into a Tile covering bounds
func Rasterize(g Arg, bounds Arg, fill float64, cols int, rows int) *Expression {
	return mustInvoke("rf_rasterize", g, bounds, Lit(fill), Lit(cols), Lit(rows))
}

// ReprojectGeometry transforms a geometry between two coordinate reference systems
func ReprojectGeometry(g Arg, srcCRS string, dstCRS string) *Expression {
	return mustInvoke("rf_reprojectGeometry", g, Lit(srcCRS), Lit(dstCRS))
}

// AggMean computes the mean of all data cells of a Tile column
func AggMean(colName string) *Expression {
	return mustInvoke("rf_aggMean", Col(colName))
}

// AggDataCells counts the data cells of a Tile column
func AggDataCells(colName string) *Expression {
	return mustInvoke("rf_aggDataCells", Col(colName))
}

// AggNoDataCells counts the no-data cells of a Tile column
func AggNoDataCells(colName string) *Expression {
	return mustInvoke("rf_aggNoDataCells", Col(colName))
}

// AggStats computes Statistics over all cells of a Tile column
func AggStats(colName string) *Expression {
	return mustInvoke("rf_aggStats", Col(colName))
}
