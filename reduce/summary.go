// Package reduce computes per-tile reductions, and the mergeable Summary from which
// cross-row aggregations are built.
package reduce

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jbouffard/rasterframes/tile"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Statistics is a read-only summary of the cells of one or more Tiles.
// Min, Max, Mean and Variance are NaN when there are no data cells.
type Statistics struct {
	DataCells   int64   `json:"dataCells"`
	NoDataCells int64   `json:"noDataCells"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Mean        float64 `json:"mean"`
	Sum         float64 `json:"sum"`
	Variance    float64 `json:"variance"`
}

// Empty returns true iff these Statistics were computed over zero data cells
func (s Statistics) Empty() bool {
	return s.DataCells == 0
}

// StdDev returns the population standard deviation of the data cells
func (s Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance)
}

// String returns a textual representation of these Statistics
func (s Statistics) String() string {
	return fmt.Sprintf("{dataCells: %d, noDataCells: %d, min: %g, max: %g, mean: %g, sum: %g, variance: %g}",
		s.DataCells, s.NoDataCells, s.Min, s.Max, s.Mean, s.Sum, s.Variance)
}

// jsonStatistics is the JSON form of Statistics, in which NaN values are null
type jsonStatistics struct {
	DataCells   int64    `json:"dataCells"`
	NoDataCells int64    `json:"noDataCells"`
	Min         *float64 `json:"min"`
	Max         *float64 `json:"max"`
	Mean        *float64 `json:"mean"`
	Sum         *float64 `json:"sum"`
	Variance    *float64 `json:"variance"`
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// MarshalJSON encodes these Statistics, representing the values of empty Statistics as null
func (s Statistics) MarshalJSON() ([]byte, error) {
	out := jsonStatistics{DataCells: s.DataCells, NoDataCells: s.NoDataCells, Sum: nullable(s.Sum)}
	if !s.Empty() {
		out.Min = nullable(s.Min)
		out.Max = nullable(s.Max)
		out.Mean = nullable(s.Mean)
		out.Variance = nullable(s.Variance)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes Statistics produced by MarshalJSON
func (s *Statistics) UnmarshalJSON(data []byte) error {
	var in jsonStatistics
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Statistics{
		DataCells:   in.DataCells,
		NoDataCells: in.NoDataCells,
		Min:         orNaN(in.Min),
		Max:         orNaN(in.Max),
		Mean:        orNaN(in.Mean),
		Sum:         orNaN(in.Sum),
		Variance:    orNaN(in.Variance),
	}
	if in.Sum == nil {
		s.Sum = 0
	}
	return nil
}

// Summary accumulates cell counts, a compensated sum, extrema and a running variance.
// Merging Summaries is commutative and associative (up to floating-point rounding), so
// partial Summaries computed over arbitrary partitions of the input combine into the
// same result as a single pass.
type Summary struct {
	dataCells   int64
	noDataCells int64
	sum         float64
	comp        float64 // Neumaier compensation term for sum
	min         float64
	max         float64
	mean        float64 // running mean, used only for the variance
	m2          float64 // sum of squared deviations from the running mean
}

// NewSummary returns an empty Summary
func NewSummary() *Summary {
	return &Summary{min: math.Inf(1), max: math.Inf(-1)}
}

func (s *Summary) addToSum(v float64) {
	t := s.sum + v
	if math.Abs(s.sum) >= math.Abs(v) {
		s.comp += (s.sum - t) + v
	} else {
		s.comp += (v - t) + s.sum
	}
	s.sum = t
}

// Add folds a single data value into this Summary
func (s *Summary) Add(v float64) {
	s.dataCells++
	s.addToSum(v)
	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}
	delta := v - s.mean
	s.mean += delta / float64(s.dataCells)
	s.m2 += delta * (v - s.mean)
}

// AddNoData counts n no-data cells
func (s *Summary) AddNoData(n int64) {
	s.noDataCells += n
}

// AddTile folds every cell of a Tile into this Summary in a single scan
func (s *Summary) AddTile(t *tile.Tile) {
	n := t.Size()
	for i := 0; i < n; i++ {
		if v, ok := t.GetIndex(i); ok {
			s.Add(v)
		} else {
			s.noDataCells++
		}
	}
}

// Merge folds another Summary into this one
func (s *Summary) Merge(o *Summary) {
	if o.dataCells > 0 {
		if s.dataCells == 0 {
			s.mean = o.mean
			s.m2 = o.m2
		} else {
			na, nb := float64(s.dataCells), float64(o.dataCells)
			n := na + nb
			delta := o.mean - s.mean
			s.mean += delta * nb / n
			s.m2 += o.m2 + delta*delta*na*nb/n
		}
		s.addToSum(o.sum)
		s.addToSum(o.comp)
		s.min = math.Min(s.min, o.min)
		s.max = math.Max(s.max, o.max)
	}
	s.dataCells += o.dataCells
	s.noDataCells += o.noDataCells
}

// DataCells returns the number of data cells folded into this Summary
func (s *Summary) DataCells() int64 {
	return s.dataCells
}

// NoDataCells returns the number of no-data cells folded into this Summary
func (s *Summary) NoDataCells() int64 {
	return s.noDataCells
}

// Sum returns the sum of all data cells, and false if there were none
func (s *Summary) Sum() (float64, bool) {
	if s.dataCells == 0 {
		return 0, false
	}
	return s.sum + s.comp, true
}

// Mean returns the mean of all data cells, computed from the combined sum and count,
// and false if there were no data cells
func (s *Summary) Mean() (float64, bool) {
	sum, ok := s.Sum()
	if !ok {
		return math.NaN(), false
	}
	return sum / float64(s.dataCells), true
}

// Min returns the smallest data cell, and false if there were none
func (s *Summary) Min() (float64, bool) {
	if s.dataCells == 0 {
		return math.NaN(), false
	}
	return s.min, true
}

// Max returns the largest data cell, and false if there were none
func (s *Summary) Max() (float64, bool) {
	if s.dataCells == 0 {
		return math.NaN(), false
	}
	return s.max, true
}

// Statistics produces the read-only Statistics for this Summary
func (s *Summary) Statistics() Statistics {
	if s.dataCells == 0 {
		return Statistics{
			NoDataCells: s.noDataCells,
			Min:         math.NaN(),
			Max:         math.NaN(),
			Mean:        math.NaN(),
			Variance:    math.NaN(),
		}
	}
	sum, _ := s.Sum()
	mean, _ := s.Mean()
	return Statistics{
		DataCells:   s.dataCells,
		NoDataCells: s.noDataCells,
		Min:         s.min,
		Max:         s.max,
		Mean:        mean,
		Sum:         sum,
		Variance:    s.m2 / float64(s.dataCells),
	}
}

const summaryBytes = 8 * 8

// MarshalBinary serializes this Summary
func (s *Summary) MarshalBinary() ([]byte, error) {
	buff := make([]byte, summaryBytes)
	binary.LittleEndian.PutUint64(buff[0:], uint64(s.dataCells))
	binary.LittleEndian.PutUint64(buff[8:], uint64(s.noDataCells))
	for i, f := range []float64{s.sum, s.comp, s.min, s.max, s.mean, s.m2} {
		binary.LittleEndian.PutUint64(buff[16+i*8:], math.Float64bits(f))
	}
	return buff, nil
}

// UnmarshalBinary deserializes a Summary produced by MarshalBinary
func (s *Summary) UnmarshalBinary(buff []byte) error {
	if len(buff) != summaryBytes {
		return fmt.Errorf("expected %d bytes of summary data, got %d", summaryBytes, len(buff))
	}
	s.dataCells = int64(binary.LittleEndian.Uint64(buff[0:]))
	s.noDataCells = int64(binary.LittleEndian.Uint64(buff[8:]))
	fields := []*float64{&s.sum, &s.comp, &s.min, &s.max, &s.mean, &s.m2}
	for i, f := range fields {
		*f = math.Float64frombits(binary.LittleEndian.Uint64(buff[16+i*8:]))
	}
	return nil
}
