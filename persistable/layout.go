package persistable

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute names that make up the Persistable dialect on top of raw
// HDF5 (spec §4.2, §6). These names are part of the wire contract and
// must match byte-for-byte what the sibling MATLAB/C++/JVM
// implementations read and write.
const (
	attrDataType             = "DATA_TYPE"
	attrFieldOrder           = "FIELD_ORDER"
	attrEmptyField           = "EMPTY_FIELD"
	attrLogicalBooleanArray  = "LOGICAL_BOOLEAN_ARRAY"
	attrParallelArray        = "PARALLEL_ARRAY"
	attrStructObjectArray    = "STRUCT_OBJECT_ARRAY"
	attrStructObjectArrayDim = "STRUCT_OBJECT_ARRAY_DIMS"
)

// presenceFlag is the payload every presence-only attribute carries:
// int8 [0] (spec §6).
var presenceFlag = []int8{0}

// structArrayElementName formats the subgroup name for a struct-object-
// array element at the given row-major multi-index (spec §4.2):
// "<field>-i0-i1-...-iR".
func structArrayElementName(field string, index []uint64) string {
	var b strings.Builder
	b.WriteString(field)
	for _, i := range index {
		b.WriteByte('-')
		b.WriteString(strconv.FormatUint(i, 10))
	}
	return b.String()
}

// parseStructArrayElementName splits a subgroup name of the form
// "<field>-i0-i1-...-iR" back into the field name and subscripts. It
// requires at least one subscript, since a record array always has
// rank >= 1 once it is non-empty.
func parseStructArrayElementName(name string, rank int) (field string, index []uint64, err error) {
	parts := strings.Split(name, "-")
	if len(parts) < rank+1 {
		return "", nil, fmt.Errorf("%w: %q", ErrMalformedStructArrayName, name)
	}

	// The field name itself may contain '-'; the last `rank` components
	// are always the subscripts.
	fieldParts := parts[:len(parts)-rank]
	idxParts := parts[len(parts)-rank:]

	field = strings.Join(fieldParts, "-")
	index = make([]uint64, rank)
	for i, p := range idxParts {
		v, convErr := strconv.ParseUint(p, 10, 64)
		if convErr != nil {
			return "", nil, fmt.Errorf("%w: %q: %v", ErrMalformedStructArrayName, name, convErr)
		}
		index[i] = v
	}
	return field, index, nil
}

// rowMajorStrides returns the row-major strides for dims: the last
// dimension varies fastest when flattening (spec §4.2, §4.4). For
// dims = [d0, d1, ..., dR], strides[j] = product(dims[j+1:]).
func rowMajorStrides(dims []uint64) []uint64 {
	strides := make([]uint64, len(dims))
	stride := uint64(1)
	for j := len(dims) - 1; j >= 0; j-- {
		strides[j] = stride
		stride *= dims[j]
	}
	return strides
}

// flatIndex computes the row-major flat index Σ i_j · Π_{k>j} dims[k]
// for a multi-index against dims (spec §4.4).
func flatIndex(dims []uint64, index []uint64) uint64 {
	strides := rowMajorStrides(dims)
	var flat uint64
	for j, i := range index {
		flat += i * strides[j]
	}
	return flat
}

// unflattenIndex is the inverse of flatIndex: it recovers the
// multi-index for a flat, row-major position.
func unflattenIndex(dims []uint64, flat uint64) []uint64 {
	index := make([]uint64, len(dims))
	strides := rowMajorStrides(dims)
	for j, s := range strides {
		index[j] = flat / s
		flat %= s
	}
	return index
}
