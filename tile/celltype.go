package tile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jbouffard/rasterframes/errors"
)

// DataKind is the numeric representation of the cells in a Tile
type DataKind uint8

const (
	// Uint8 cells are unsigned 8-bit integers
	Uint8 DataKind = iota + 1
	// Int8 cells are signed 8-bit integers
	Int8
	// Uint16 cells are unsigned 16-bit integers
	Uint16
	// Int16 cells are signed 16-bit integers
	Int16
	// Uint32 cells are unsigned 32-bit integers
	Uint32
	// Int32 cells are signed 32-bit integers
	Int32
	// Float32 cells are 32-bit IEEE-754 floats
	Float32
	// Float64 cells are 64-bit IEEE-754 floats
	Float64
)

var kindNames = map[DataKind]string{
	Uint8:   "uint8",
	Int8:    "int8",
	Uint16:  "uint16",
	Int16:   "int16",
	Uint32:  "uint32",
	Int32:   "int32",
	Float32: "float32",
	Float64: "float64",
}

// kinds tried in order when parsing a CellType name
var kindsByName = []DataKind{Float32, Float64, Uint16, Uint32, Uint8, Int16, Int32, Int8}

// String returns the name of this DataKind
func (k DataKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("DataKind(%d)", uint8(k))
}

// Size returns the width in bytes of a single cell of this DataKind
func (k DataKind) Size() int {
	switch k {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// IsFloat returns true iff this DataKind is a floating-point kind
func (k DataKind) IsFloat() bool {
	return k == Float32 || k == Float64
}

// IsSigned returns true iff this DataKind can represent negative values
func (k DataKind) IsSigned() bool {
	switch k {
	case Int8, Int16, Int32, Float32, Float64:
		return true
	default:
		return false
	}
}

// MinValue returns the smallest finite value representable by this DataKind
func (k DataKind) MinValue() float64 {
	switch k {
	case Int8:
		return math.MinInt8
	case Int16:
		return math.MinInt16
	case Int32:
		return math.MinInt32
	case Float32:
		return -math.MaxFloat32
	case Float64:
		return -math.MaxFloat64
	default:
		return 0
	}
}

// MaxValue returns the largest finite value representable by this DataKind
func (k DataKind) MaxValue() float64 {
	switch k {
	case Uint8:
		return math.MaxUint8
	case Int8:
		return math.MaxInt8
	case Uint16:
		return math.MaxUint16
	case Int16:
		return math.MaxInt16
	case Uint32:
		return math.MaxUint32
	case Int32:
		return math.MaxInt32
	case Float32:
		return math.MaxFloat32
	default:
		return math.MaxFloat64
	}
}

// NoDataPolicy describes how no-data cells are recognized within a Tile
type NoDataPolicy uint8

const (
	// ConstantNoData cells hold the fixed sentinel of their DataKind: the minimum value for signed
	// integers, 0 for unsigned integers and NaN for floats
	ConstantNoData NoDataPolicy = iota
	// UserDefinedNoData cells hold an explicit, caller-chosen sentinel
	UserDefinedNoData
	// MaskNoData cells are flagged in a validity mask stored beside the cell buffer
	MaskNoData
	// NoNoData tiles contain only data cells
	NoNoData
)

// CellType describes the numeric representation of a Tile's cells and its no-data convention
type CellType struct {
	Kind   DataKind
	Policy NoDataPolicy
	// NoDataValue is the sentinel for UserDefinedNoData cell types, and is ignored otherwise
	NoDataValue float64
}

// Cell types with the default constant no-data sentinel for each DataKind
var (
	Uint8CellType   = CellType{Kind: Uint8}
	Int8CellType    = CellType{Kind: Int8}
	Uint16CellType  = CellType{Kind: Uint16}
	Int16CellType   = CellType{Kind: Int16}
	Uint32CellType  = CellType{Kind: Uint32}
	Int32CellType   = CellType{Kind: Int32}
	Float32CellType = CellType{Kind: Float32}
	Float64CellType = CellType{Kind: Float64}
)

// WithNoData returns a copy of this CellType using a user-defined no-data sentinel
func (ct CellType) WithNoData(v float64) CellType {
	return CellType{Kind: ct.Kind, Policy: UserDefinedNoData, NoDataValue: v}
}

// WithMask returns a copy of this CellType which tracks no-data cells in a validity mask
func (ct CellType) WithMask() CellType {
	return CellType{Kind: ct.Kind, Policy: MaskNoData}
}

// Raw returns a copy of this CellType without a no-data convention
func (ct CellType) Raw() CellType {
	return CellType{Kind: ct.Kind, Policy: NoNoData}
}

// WithDefaultNoData returns a copy of this CellType using the constant sentinel of its DataKind
func (ct CellType) WithDefaultNoData() CellType {
	return CellType{Kind: ct.Kind, Policy: ConstantNoData}
}

// HasNoData returns true iff cells of this CellType can be no-data
func (ct CellType) HasNoData() bool {
	return ct.Policy != NoNoData
}

// IsMasked returns true iff this CellType stores no-data flags in a separate mask
func (ct CellType) IsMasked() bool {
	return ct.Policy == MaskNoData
}

// Sentinel returns the in-buffer value which denotes a no-data cell, if this CellType has one
func (ct CellType) Sentinel() (float64, bool) {
	switch ct.Policy {
	case ConstantNoData:
		switch {
		case ct.Kind.IsFloat():
			return math.NaN(), true
		case ct.Kind.IsSigned():
			return ct.Kind.MinValue(), true
		default:
			return 0, true
		}
	case UserDefinedNoData:
		return ct.NoDataValue, true
	default:
		return 0, false
	}
}

// isSentinel returns true iff a decoded buffer value is this CellType's no-data sentinel
func (ct CellType) isSentinel(v float64) bool {
	switch ct.Policy {
	case ConstantNoData:
		if ct.Kind.IsFloat() {
			return math.IsNaN(v)
		}
		s, _ := ct.Sentinel()
		return v == s
	case UserDefinedNoData:
		if ct.Kind.IsFloat() && math.IsNaN(v) {
			return true
		}
		if ct.Kind == Float32 {
			return float32(v) == float32(ct.NoDataValue)
		}
		return v == ct.NoDataValue
	default:
		return false
	}
}

// Widen returns ct, or the narrowest wider CellType, which stores every non-NaN value as
// an exact data cell. Integers widen int8 and uint8 to int16, 16-bit kinds to int32, and
// 32-bit kinds to float64. A widened user-defined sentinel becomes the constant sentinel.
func (ct CellType) Widen(values []float64) CellType {
	for _, v := range values {
		for !math.IsNaN(v) && !ct.holds(v) {
			ct = ct.widened()
		}
	}
	return ct
}

// holds returns true iff v can be stored as a data cell of this CellType without loss
func (ct CellType) holds(v float64) bool {
	if ct.isSentinel(v) {
		return false
	}
	switch ct.Kind {
	case Float64:
		return true
	case Float32:
		return math.IsInf(v, 0) || math.Abs(v) <= math.MaxFloat32
	default:
		return v == math.Trunc(v) && v >= ct.Kind.MinValue() && v <= ct.Kind.MaxValue()
	}
}

func (ct CellType) widened() CellType {
	var kind DataKind
	switch ct.Kind {
	case Uint8, Int8:
		kind = Int16
	case Uint16, Int16:
		kind = Int32
	default:
		kind = Float64
	}
	policy := ct.Policy
	if policy == UserDefinedNoData {
		policy = ConstantNoData
	}
	return CellType{Kind: kind, Policy: policy}
}

// clampData truncates an integer value and clamps it to the kind's range. Values outside
// the range never clamp onto the no-data sentinel.
func (ct CellType) clampData(v float64) float64 {
	if ct.Kind.IsFloat() {
		return v
	}
	v = math.Trunc(v)
	lo, hi := ct.Kind.MinValue(), ct.Kind.MaxValue()
	if v < lo {
		if ct.isSentinel(lo) {
			return lo + 1
		}
		return lo
	}
	if v > hi {
		if ct.isSentinel(hi) {
			return hi - 1
		}
		return hi
	}
	return v
}

// Validate returns an error if this CellType cannot be used to construct a Tile
func (ct CellType) Validate() error {
	if ct.Kind.Size() == 0 {
		return errors.UnknownCellTypeError{Name: ct.String()}
	}
	if ct.Policy > NoNoData {
		return errors.UnknownCellTypeError{Name: ct.String()}
	}
	if ct.Policy == UserDefinedNoData {
		v := ct.NoDataValue
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if !ct.Kind.IsFloat() {
				return fmt.Errorf("no-data value %v is not representable by %s", v, ct.Kind)
			}
			return nil
		}
		if v < ct.Kind.MinValue() || v > ct.Kind.MaxValue() || (!ct.Kind.IsFloat() && v != math.Trunc(v)) {
			return fmt.Errorf("no-data value %v is not representable by %s", v, ct.Kind)
		}
	}
	return nil
}

// String returns the canonical name of this CellType, e.g. "int16", "uint8raw", "int32ud-1" or "float64mask"
func (ct CellType) String() string {
	switch ct.Policy {
	case UserDefinedNoData:
		return ct.Kind.String() + "ud" + strconv.FormatFloat(ct.NoDataValue, 'g', -1, 64)
	case MaskNoData:
		return ct.Kind.String() + "mask"
	case NoNoData:
		return ct.Kind.String() + "raw"
	default:
		return ct.Kind.String()
	}
}

// MarshalText encodes this CellType as its canonical name
func (ct CellType) MarshalText() ([]byte, error) {
	if err := ct.Validate(); err != nil {
		return nil, err
	}
	return []byte(ct.String()), nil
}

// UnmarshalText decodes a CellType from its canonical name
func (ct *CellType) UnmarshalText(text []byte) error {
	parsed, err := ParseCellType(string(text))
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}

// ParseCellType parses a CellType from its canonical name
func ParseCellType(name string) (CellType, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	for _, k := range kindsByName {
		kn := k.String()
		if !strings.HasPrefix(trimmed, kn) {
			continue
		}
		suffix := trimmed[len(kn):]
		var ct CellType
		switch {
		case suffix == "":
			ct = CellType{Kind: k}
		case suffix == "raw":
			ct = CellType{Kind: k, Policy: NoNoData}
		case suffix == "mask":
			ct = CellType{Kind: k, Policy: MaskNoData}
		case strings.HasPrefix(suffix, "ud"):
			v, err := strconv.ParseFloat(suffix[2:], 64)
			if err != nil {
				return CellType{}, errors.UnknownCellTypeError{Name: name}
			}
			ct = CellType{Kind: k, Policy: UserDefinedNoData, NoDataValue: v}
		default:
			continue
		}
		if err := ct.Validate(); err != nil {
			return CellType{}, err
		}
		return ct, nil
	}
	return CellType{}, errors.UnknownCellTypeError{Name: name}
}

// Promote computes the CellType of the result of a binary operation over two CellTypes.
// Floats win over integers, wider kinds win over narrower ones, and a mix of signed and
// unsigned integers widens to the next signed kind which can hold both. Results use the
// default sentinel of the promoted kind, unless either operand is masked or raw, in which
// case the result is masked.
func Promote(a, b CellType) CellType {
	kind := promoteKind(a.Kind, b.Kind)
	if a.Policy == MaskNoData || a.Policy == NoNoData || b.Policy == MaskNoData || b.Policy == NoNoData {
		return CellType{Kind: kind, Policy: MaskNoData}
	}
	return CellType{Kind: kind}
}

func promoteKind(a, b DataKind) DataKind {
	if a == b {
		return a
	}
	switch {
	case a.IsFloat() && b.IsFloat():
		return Float64
	case a.IsFloat():
		return a
	case b.IsFloat():
		return b
	}
	if a.IsSigned() == b.IsSigned() {
		if a.Size() >= b.Size() {
			return a
		}
		return b
	}
	signed, unsigned := a, b
	if !a.IsSigned() {
		signed, unsigned = b, a
	}
	if unsigned.Size() < signed.Size() {
		return signed
	}
	switch unsigned {
	case Uint8:
		return Int16
	case Uint16:
		return Int32
	default:
		return Float64
	}
}
