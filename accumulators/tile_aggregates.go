package accumulators

import (
	"fmt"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/reduce"
)

// A Named Accumulator has a result name and a result value, which is nil when the
// aggregate is empty
type Named interface {
	rf.Accumulator
	Name() string
	Value() interface{}
}

// tileSummary folds every Tile of a column into a reduce.Summary. Null tiles are skipped.
type tileSummary struct {
	colName string
	summary *reduce.Summary
}

func newTileSummary(colName string) tileSummary {
	return tileSummary{colName: colName, summary: reduce.NewSummary()}
}

func (a *tileSummary) accumulate(row rf.Row) error {
	if row.IsNil(a.colName) {
		return nil
	}
	t, err := row.GetTile(a.colName)
	if err != nil {
		return err
	}
	a.summary.AddTile(t)
	return nil
}

func (a *tileSummary) fromBytes(buff []byte) (tileSummary, error) {
	s := reduce.NewSummary()
	if err := s.UnmarshalBinary(buff); err != nil {
		return tileSummary{}, err
	}
	return tileSummary{colName: a.colName, summary: s}, nil
}

// Summary returns the underlying Summary of this Accumulator
func (a *tileSummary) Summary() *reduce.Summary {
	return a.summary
}

// Accumulate adds the Tile of a row to this Accumulator
func (a *tileSummary) Accumulate(row rf.Row) error {
	return a.accumulate(row)
}

// ToBytes serializes this Accumulator
func (a *tileSummary) ToBytes() ([]byte, error) {
	return a.summary.MarshalBinary()
}

func (a *tileSummary) merge(name string, src *tileSummary) error {
	if a.colName != src.colName {
		return fmt.Errorf("Cannot merge %s Accumulators over columns %s and %s", name, a.colName, src.colName)
	}
	a.summary.Merge(src.summary)
	return nil
}

// AggMean returns a factory for Accumulators computing the mean of all data cells of a
// Tile column, across all rows
func AggMean(colName string) rf.AccumulatorFactory {
	return func() rf.Accumulator {
		return &Mean{tileSummary: newTileSummary(colName)}
	}
}

// Mean is the Accumulator produced by AggMean
type Mean struct {
	tileSummary
}

// GetMean returns the mean, and false if no data cells were accumulated
func (a *Mean) GetMean() (float64, bool) {
	return a.summary.Mean()
}

// Name returns the result name of this Accumulator
func (a *Mean) Name() string {
	return fmt.Sprintf("agg_mean(%s)", a.colName)
}

// Value returns the mean as a float64, or nil if no data cells were accumulated
func (a *Mean) Value() interface{} {
	if m, ok := a.GetMean(); ok {
		return m
	}
	return nil
}

// Merge merges another Accumulator into this one
func (a *Mean) Merge(o rf.Accumulator) error {
	other, ok := o.(*Mean)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Mean Accumulator")
	}
	return a.merge("Mean", &other.tileSummary)
}

// FromBytes produce a new Accumulator from serialized data
func (a *Mean) FromBytes(buff []byte) (rf.Accumulator, error) {
	s, err := a.fromBytes(buff)
	if err != nil {
		return nil, err
	}
	return &Mean{tileSummary: s}, nil
}

// AggDataCells returns a factory for Accumulators counting the data cells of a Tile
// column, across all rows
func AggDataCells(colName string) rf.AccumulatorFactory {
	return func() rf.Accumulator {
		return &DataCells{tileSummary: newTileSummary(colName)}
	}
}

// DataCells is the Accumulator produced by AggDataCells
type DataCells struct {
	tileSummary
}

// GetCount returns the number of data cells
func (a *DataCells) GetCount() int64 {
	return a.summary.DataCells()
}

// Name returns the result name of this Accumulator
func (a *DataCells) Name() string {
	return fmt.Sprintf("agg_data_cells(%s)", a.colName)
}

// Value returns the number of data cells as an int64
func (a *DataCells) Value() interface{} {
	return a.GetCount()
}

// Merge merges another Accumulator into this one
func (a *DataCells) Merge(o rf.Accumulator) error {
	other, ok := o.(*DataCells)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a DataCells Accumulator")
	}
	return a.merge("DataCells", &other.tileSummary)
}

// FromBytes produce a new Accumulator from serialized data
func (a *DataCells) FromBytes(buff []byte) (rf.Accumulator, error) {
	s, err := a.fromBytes(buff)
	if err != nil {
		return nil, err
	}
	return &DataCells{tileSummary: s}, nil
}

// AggNoDataCells returns a factory for Accumulators counting the no-data cells of a Tile
// column, across all rows
func AggNoDataCells(colName string) rf.AccumulatorFactory {
	return func() rf.Accumulator {
		return &NoDataCells{tileSummary: newTileSummary(colName)}
	}
}

// NoDataCells is the Accumulator produced by AggNoDataCells
type NoDataCells struct {
	tileSummary
}

// GetCount returns the number of no-data cells
func (a *NoDataCells) GetCount() int64 {
	return a.summary.NoDataCells()
}

// Name returns the result name of this Accumulator
func (a *NoDataCells) Name() string {
	return fmt.Sprintf("agg_nodata_cells(%s)", a.colName)
}

// Value returns the number of no-data cells as an int64
func (a *NoDataCells) Value() interface{} {
	return a.GetCount()
}

// Merge merges another Accumulator into this one
func (a *NoDataCells) Merge(o rf.Accumulator) error {
	other, ok := o.(*NoDataCells)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a NoDataCells Accumulator")
	}
	return a.merge("NoDataCells", &other.tileSummary)
}

// FromBytes produce a new Accumulator from serialized data
func (a *NoDataCells) FromBytes(buff []byte) (rf.Accumulator, error) {
	s, err := a.fromBytes(buff)
	if err != nil {
		return nil, err
	}
	return &NoDataCells{tileSummary: s}, nil
}

// AggStats returns a factory for Accumulators computing Statistics over all cells of a
// Tile column, across all rows
func AggStats(colName string) rf.AccumulatorFactory {
	return func() rf.Accumulator {
		return &Stats{tileSummary: newTileSummary(colName)}
	}
}

// Stats is the Accumulator produced by AggStats
type Stats struct {
	tileSummary
}

// GetStatistics returns the accumulated Statistics
func (a *Stats) GetStatistics() reduce.Statistics {
	return a.summary.Statistics()
}

// Name returns the result name of this Accumulator
func (a *Stats) Name() string {
	return fmt.Sprintf("aggStats(%s)", a.colName)
}

// Value returns the accumulated reduce.Statistics
func (a *Stats) Value() interface{} {
	return a.GetStatistics()
}

// Merge merges another Accumulator into this one
func (a *Stats) Merge(o rf.Accumulator) error {
	other, ok := o.(*Stats)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Stats Accumulator")
	}
	return a.merge("Stats", &other.tileSummary)
}

// FromBytes produce a new Accumulator from serialized data
func (a *Stats) FromBytes(buff []byte) (rf.Accumulator, error) {
	s, err := a.fromBytes(buff)
	if err != nil {
		return nil, err
	}
	return &Stats{tileSummary: s}, nil
}
