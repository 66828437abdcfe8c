package tile

import (
	"math"
	"strings"
)

// shades from darkest to brightest
const asciiRamp = " .:-=+*#%@"

// RenderASCII draws this Tile as text, one line per row, shading each data cell by its
// position between the Tile's minimum and maximum. No-data cells are drawn as a blank.
func (t *Tile) RenderASCII() string {
	lo, hi := math.Inf(1), math.Inf(-1)
	t.ForEachData(func(_ int, v float64) {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	})
	var res strings.Builder
	levels := len(asciiRamp) - 1
	for r := 0; r < t.rows; r++ {
		for c := 0; c < t.cols; c++ {
			v, ok := t.Get(c, r)
			if !ok {
				res.WriteByte(' ')
				continue
			}
			idx := levels
			if hi > lo {
				idx = 1 + int((v-lo)/(hi-lo)*float64(levels-1))
			}
			res.WriteByte(asciiRamp[idx])
		}
		res.WriteByte('\n')
	}
	return res.String()
}
