package partition

import (
	"fmt"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-multierror"
	rf "github.com/jbouffard/rasterframes"
)

// KeyRows generates hash keys for each row. Attempts to manipulate partition in-place, falling back to creating a fresh partition if there are row errors
func (p *partitionImpl) KeyRows(kfn rf.KeyingOperation) (rf.OperablePartition, error) {
	var multierr *multierror.Error
	inPlace := true // start by attempting to manipulate rows in-place
	keys := make([]uint64, p.numRows)
	var result *partitionImpl
	for i := 0; i < p.GetNumRows(); i++ {
		keyBuf, err := kfn(p.GetRow(i))
		if err != nil {
			multierr = multierror.Append(multierr, err)
			if inPlace {
				inPlace = false
				result = createPartitionImpl(p.maxRows, p.numRows, p.schema)
				result.isKeyed = true
				for j := 0; j < i; j++ {
					if err := result.appendKeyedRowData(p.getRowData(j), p.getRowMeta(j), p.varRowData[j], keys[j]); err != nil {
						return nil, err
					}
				}
			}
			continue
		}
		hasher := xxhash.New()
		hasher.Write(keyBuf)
		keys[i] = hasher.Sum64()
		if !inPlace {
			if err := result.appendKeyedRowData(p.getRowData(i), p.getRowMeta(i), p.varRowData[i], keys[i]); err != nil {
				return nil, err
			}
		}
	}
	if inPlace {
		p.keys = keys
		p.isKeyed = true
		return p, nil
	}
	return result, multierr.ErrorOrNil()
}

// IsKeyed returns true iff this Partition has been keyed with KeyRows
func (p *partitionImpl) IsKeyed() bool {
	return p.isKeyed
}

// GetKey returns the hash key of a particular row
func (p *partitionImpl) GetKey(rowNum int) (uint64, error) {
	if !p.isKeyed {
		return 0, fmt.Errorf("Partition is not keyed")
	}
	if rowNum < 0 || rowNum >= len(p.keys) {
		return 0, fmt.Errorf("Row %d does not exist in this Partition", rowNum)
	}
	return p.keys[rowNum], nil
}
