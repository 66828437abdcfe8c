package transform

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/geometry"
	iutil "github.com/jbouffard/rasterframes/internal/util"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/schema"
)

// rightSuffix is appended to the names of right columns which clash with left columns
const rightSuffix = "_right"

// columnMapping maps a column of the right side of a join into the joined Schema
type columnMapping struct {
	from string
	to   string
}

// joinIndex finds the right Rows which match a left Row
type joinIndex interface {
	build(parts []rf.CollectedPartition) error
	matches(left rf.Row) ([]rf.Row, error)
}

type joinTask struct {
	right     rf.DataFrame
	leftCols  []string
	outSchema rf.Schema
	rightCols []columnMapping
	newIndex  func() joinIndex
	index     joinIndex
	fn        rf.FlatMapOperation
}

// RunInitialize evaluates the right side of the join, and indexes it
func (s *joinTask) RunInitialize(sctx rf.StageContext) error {
	parts, err := sctx.Evaluate(s.right)
	if err != nil {
		return fmt.Errorf("Unable to evaluate right side of join: %w", err)
	}
	index := s.newIndex()
	if err := index.build(parts); err != nil {
		return err
	}
	s.index = index
	sctx.Logger().V(1).Info("indexed right side of join", "partitions", len(parts))
	return nil
}

func (s *joinTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	part, err := previous.Repack(s.outSchema)
	if err != nil {
		return nil, err
	}
	return part.FlatMapRows(s.fn)
}

func (s *joinTask) join(left rf.Row, newRow rf.RowFactory) ([]rf.Row, error) {
	matches, err := s.index.matches(left)
	if err != nil {
		return nil, err
	}
	result := make([]rf.Row, 0, len(matches))
	for _, right := range matches {
		out := newRow()
		for _, name := range s.leftCols {
			if err := copyValue(left, name, out, name); err != nil {
				return nil, err
			}
		}
		for _, m := range s.rightCols {
			if err := copyValue(right, m.from, out, m.to); err != nil {
				return nil, err
			}
		}
		result = append(result, out)
	}
	return result, nil
}

// copyValue copies a single column value between Rows, preserving nulls
func copyValue(src rf.Row, srcName string, dst rf.Row, dstName string) error {
	if src.IsNil(srcName) {
		return dst.SetNil(dstName)
	}
	v, err := src.Get(srcName)
	if err != nil {
		return err
	}
	return dst.Set(dstName, v)
}

// joinSchema produces the Schema of a join: left columns, followed by right columns other
// than the right join column. Right columns whose names clash receive a suffix.
func joinSchema(left rf.Schema, right rf.Schema, rightJoinCol string) (rf.Schema, []columnMapping, error) {
	out := left.Clone()
	mappings := make([]columnMapping, 0, right.NumColumns())
	err := right.ForEachColumn(func(name string, col rf.Column) error {
		if name == rightJoinCol {
			return nil
		}
		to := name
		for out.HasColumn(to) {
			to += rightSuffix
		}
		if _, err := out.CreateColumn(to, col.Type()); err != nil {
			return err
		}
		mappings = append(mappings, columnMapping{from: name, to: to})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, mappings, nil
}

func joinOperation(right rf.DataFrame, joinCols func(left rf.Schema, right rf.Schema) (string, string, error), newIndex func(leftCol, rightCol string) joinIndex) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.JoinTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			if right == nil {
				return nil, fmt.Errorf("join requires a right DataFrame")
			}
			leftCol, rightCol, err := joinCols(d.GetSchema(), right.GetSchema())
			if err != nil {
				return nil, err
			}
			outSchema, mappings, err := joinSchema(d.GetSchema(), right.GetSchema(), rightCol)
			if err != nil {
				return nil, err
			}
			task := &joinTask{
				right:     right,
				leftCols:  d.GetSchema().ColumnNames(),
				outSchema: outSchema,
				rightCols: mappings,
				newIndex:  func() joinIndex { return newIndex(leftCol, rightCol) },
			}
			task.fn = iutil.SafeFlatMapOperation(task.join)
			return &rf.DataFrameOperationResult{
				Task:       task,
				DataSchema: outSchema,
			}, nil
		},
	}
}

// keyIndex is a hash index of right Rows by SpatialKey
type keyIndex struct {
	leftCol  string
	rightCol string
	buckets  map[uint64][]rf.Row
}

func hashKey(k layer.SpatialKey) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(k.Col))
	binary.LittleEndian.PutUint32(buf[4:], uint32(k.Row))
	return xxhash.Sum64(buf[:])
}

func (idx *keyIndex) build(parts []rf.CollectedPartition) error {
	idx.buckets = make(map[uint64][]rf.Row)
	for _, p := range parts {
		for i := 0; i < p.GetNumRows(); i++ {
			row := p.GetRow(i)
			if row.IsNil(idx.rightCol) {
				continue
			}
			k, err := row.GetSpatialKey(idx.rightCol)
			if err != nil {
				return err
			}
			h := hashKey(k)
			idx.buckets[h] = append(idx.buckets[h], row)
		}
	}
	return nil
}

func (idx *keyIndex) matches(left rf.Row) ([]rf.Row, error) {
	if left.IsNil(idx.leftCol) {
		return nil, nil
	}
	k, err := left.GetSpatialKey(idx.leftCol)
	if err != nil {
		return nil, err
	}
	var result []rf.Row
	for _, row := range idx.buckets[hashKey(k)] {
		rk, err := row.GetSpatialKey(idx.rightCol)
		if err != nil {
			return nil, err
		}
		if rk == k {
			result = append(result, row)
		}
	}
	return result, nil
}

// SpatialJoin pairs each Row with the Rows of another DataFrame which share its spatial key.
// Rows without a match are dropped. The joined Rows carry the columns of this DataFrame,
// followed by those of the right DataFrame other than its spatial key. Right columns whose
// names are already taken receive the suffix "_right".
func SpatialJoin(right rf.DataFrame) *rf.DataFrameOperation {
	return joinOperation(right, func(l rf.Schema, r rf.Schema) (string, string, error) {
		leftCol, err := schema.SpatialKeyColumn(l)
		if err != nil {
			return "", "", err
		}
		rightCol, err := schema.SpatialKeyColumn(r)
		if err != nil {
			return "", "", err
		}
		return leftCol, rightCol, nil
	}, func(leftCol, rightCol string) joinIndex {
		return &keyIndex{leftCol: leftCol, rightCol: rightCol}
	})
}

// indexedRow is a right Row stored in an rtree by its geometry
type indexedRow struct {
	geom.Geom
	seq int
	row rf.Row
}

// extentIndex is an rtree index of right Rows by the extent of a geometry column
type extentIndex struct {
	leftCol  string
	rightCol string
	tree     *rtree.Rtree
}

func (idx *extentIndex) build(parts []rf.CollectedPartition) error {
	idx.tree = rtree.NewTree(25, 50)
	seq := 0
	for _, p := range parts {
		for i := 0; i < p.GetNumRows(); i++ {
			row := p.GetRow(i)
			if row.IsNil(idx.rightCol) {
				continue
			}
			g, err := row.GetGeometry(idx.rightCol)
			if err != nil {
				return err
			}
			idx.tree.Insert(&indexedRow{Geom: g, seq: seq, row: row})
			seq++
		}
	}
	return nil
}

// overlaps returns true iff two Extents share area. Extents without area
// (points and lines) only need to touch.
func overlaps(a layer.Extent, b layer.Extent) bool {
	w := math.Min(a.XMax, b.XMax) - math.Max(a.XMin, b.XMin)
	h := math.Min(a.YMax, b.YMax) - math.Max(a.YMin, b.YMin)
	if w < 0 || h < 0 {
		return false
	}
	if a.Width() > 0 && a.Height() > 0 && b.Width() > 0 && b.Height() > 0 {
		return w > 0 && h > 0
	}
	return true
}

func (idx *extentIndex) matches(left rf.Row) ([]rf.Row, error) {
	if left.IsNil(idx.leftCol) {
		return nil, nil
	}
	g, err := left.GetGeometry(idx.leftCol)
	if err != nil {
		return nil, err
	}
	extent := geometry.Envelope(g)
	found := make([]*indexedRow, 0)
	for _, candidate := range idx.tree.SearchIntersect(g.Bounds()) {
		ir := candidate.(*indexedRow)
		if overlaps(extent, geometry.Envelope(ir.Geom)) {
			found = append(found, ir)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].seq < found[j].seq })
	result := make([]rf.Row, len(found))
	for i, ir := range found {
		result[i] = ir.row
	}
	return result, nil
}

// SpatialJoinByExtent pairs each Row with the Rows of another DataFrame whose "bounds"
// geometries overlap its own, as produced by WithBounds. Columns are combined as in SpatialJoin,
// with the right "bounds" column dropped.
func SpatialJoinByExtent(right rf.DataFrame) *rf.DataFrameOperation {
	return joinOperation(right, func(l rf.Schema, r rf.Schema) (string, string, error) {
		for _, s := range []rf.Schema{l, r} {
			if _, err := schema.RequireColumnType(s, BoundsColumn, &rf.GeometryColumnType{}); err != nil {
				return "", "", err
			}
		}
		return BoundsColumn, BoundsColumn, nil
	}, func(leftCol, rightCol string) joinIndex {
		return &extentIndex{leftCol: leftCol, rightCol: rightCol}
	})
}
