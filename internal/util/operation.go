package util

import (
	"fmt"

	rf "github.com/jbouffard/rasterframes"
)

// SafeMapOperation wraps a MapOperation such that panics are recovered and nice error messages are constructed
func SafeMapOperation(mapOp rf.MapOperation) (safeMapOp rf.MapOperation) {
	return func(row rf.Row) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = panicError("Map", r, row)
			} else if err != nil {
				err = fmt.Errorf("Map Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		err = mapOp(row)
		return
	}
}

// SafeFilterOperation wraps a FilterOperation such that panics are recovered and nice error messages are constructed
func SafeFilterOperation(filterOp rf.FilterOperation) (safeFilterOp rf.FilterOperation) {
	return func(row rf.Row) (shouldKeep bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = panicError("Filter", r, row)
			} else if err != nil {
				err = fmt.Errorf("Filter Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		shouldKeep, err = filterOp(row)
		return
	}
}

// SafeFlatMapOperation wraps a FlatMapOperation such that panics are recovered and nice error messages are constructed
func SafeFlatMapOperation(flatMapOp rf.FlatMapOperation) (safeFlatMapOp rf.FlatMapOperation) {
	return func(row rf.Row, newRow rf.RowFactory) (result []rf.Row, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = panicError("FlatMap", r, row)
			} else if err != nil {
				err = fmt.Errorf("FlatMap Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		result, err = flatMapOp(row, newRow)
		return
	}
}

// SafeKeyingOperation wraps a KeyingOperation such that panics are recovered and nice error messages are constructed
func SafeKeyingOperation(keyingOp rf.KeyingOperation) (safeKeyingOp rf.KeyingOperation) {
	return func(row rf.Row) (key []byte, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = panicError("Keying", r, row)
			} else if err != nil {
				err = fmt.Errorf("Keying Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		key, err = keyingOp(row)
		return
	}
}

// SafeReductionOperation wraps a ReductionOperation such that panics are recovered and nice error messages are constructed
func SafeReductionOperation(reductionOp rf.ReductionOperation) (safeReductionOp rf.ReductionOperation) {
	return func(lrow, rrow rf.Row) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Reduction Panic: %w\nLRow: %s\nRRow: %s\n%s", anErr, lrow.ToString(), rrow.ToString(), GetTrace())
				} else {
					err = fmt.Errorf("Reduction Panic: %v\nLRow: %s\nRRow: %s\n%s", r, lrow.ToString(), rrow.ToString(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Reduction Error: %w\nLRow: %s\nRRow: %s", err, lrow.ToString(), rrow.ToString())
			}
		}()
		err = reductionOp(lrow, rrow)
		return
	}
}

// SafeAccumulation wraps an Accumulator's Accumulate function such that panics are recovered
func SafeAccumulation(acc rf.Accumulator) (safeAccumulate rf.MapOperation) {
	return func(row rf.Row) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = panicError("Accumulate", r, row)
			} else if err != nil {
				err = fmt.Errorf("Accumulate Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		err = acc.Accumulate(row)
		return
	}
}

func panicError(kind string, r interface{}, row rf.Row) error {
	if anErr, ok := r.(error); ok {
		return fmt.Errorf("%s Panic: %w\nRow: %s\n%s", kind, anErr, row.ToString(), GetTrace())
	}
	return fmt.Errorf("%s Panic: %v\nRow: %s\n%s", kind, r, row.ToString(), GetTrace())
}
