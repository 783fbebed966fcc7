package persistable

import (
	"fmt"

	"github.com/ziggy-module/hdf5persist/hdf5"
)

// decodeParallelArray reads a PARALLEL_ARRAY group as an ordinary record of
// per-field arrays, then -- only if the caller opted in via
// Options.ReconstituteStructArray -- transposes it back into a RecordArray
// (spec §4.3.3, §9(a)). Reconstitution is opt-in because it is lossy of
// nothing but expensive: every element must be rebuilt as its own Record.
func decodeParallelArray(g *hdf5.Group, opts Options) (Value, error) {
	members, err := g.Members()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", g.Path(), err)
	}
	v, err := decodeRecord(g, members, opts)
	if err != nil {
		return nil, err
	}
	rec := v.(Record)

	if !opts.ReconstituteStructArray {
		return rec, nil
	}
	return reconstituteRecordArray(rec, g.Path())
}

// decodeStructObjectArray reads a STRUCT_OBJECT_ARRAY group: one subgroup
// per element, named "<field>-i0-...-iR" by row-major multi-index (spec
// §4.2, §4.4).
func decodeStructObjectArray(g *hdf5.Group, opts Options) (Value, error) {
	dimsAttr := g.Attr(attrStructObjectArrayDim)
	if dimsAttr == nil {
		return nil, fmt.Errorf("%s: missing %s attribute", g.Path(), attrStructObjectArrayDim)
	}
	rawDims, err := dimsAttr.Value()
	if err != nil {
		return nil, fmt.Errorf("%s: reading %s: %w", g.Path(), attrStructObjectArrayDim, err)
	}
	dims, err := toUint64Dims(rawDims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Path(), err)
	}

	n := int(numElements(dims))
	rank := len(dims)
	records := make([]Record, n)
	seen := make([]bool, n)

	members, err := g.Members()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", g.Path(), err)
	}
	for _, name := range members {
		_, index, err := parseStructArrayElementName(name, rank)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g.Path(), err)
		}
		flat := flatIndex(dims, index)
		if int(flat) >= n {
			return nil, fmt.Errorf("%s/%s: index %d out of range for %d elements", g.Path(), name, flat, n)
		}

		child, err := g.OpenGroup(name)
		if err != nil {
			return nil, fmt.Errorf("opening %s/%s: %w", g.Path(), name, err)
		}
		v, err := decodeGroup(child, opts)
		if err != nil {
			return nil, err
		}
		rec, ok := v.(Record)
		if !ok {
			return nil, fmt.Errorf("%s/%s: %w: expected a Record element, got %T", g.Path(), name, ErrUnsupportedValue, v)
		}
		records[flat] = rec
		seen[flat] = true
	}

	for i, ok := range seen {
		if !ok {
			records[i] = Record{}
		}
	}

	return RecordArray{Dims: dims, Data: records}, nil
}

func toUint64Dims(raw interface{}) ([]uint64, error) {
	switch v := raw.(type) {
	case []int64:
		out := make([]uint64, len(v))
		for i, x := range v {
			out[i] = uint64(x)
		}
		return out, nil
	case int64:
		return []uint64{uint64(v)}, nil
	case []uint64:
		return v, nil
	case uint64:
		return []uint64{v}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %s attribute type %T", ErrUnsupportedValue, attrStructObjectArrayDim, raw)
	}
}

// reconstituteRecordArray transposes a record of parallel arrays (all
// fields sharing one shape) back into an array of records.
func reconstituteRecordArray(rec Record, groupPath string) (Value, error) {
	if len(rec.Fields) == 0 {
		return RecordArray{}, nil
	}

	var shape []uint64
	for _, f := range rec.Fields {
		dims, err := fieldDims(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: field %q: %w", groupPath, f.Name, err)
		}
		if shape == nil {
			shape = dims
		} else if !dimsEqual(shape, dims) {
			return nil, fmt.Errorf("%s: field %q: %w", groupPath, f.Name, ErrShapeMismatch)
		}
	}

	n := int(numElements(shape))
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{Fields: make([]RecordField, len(rec.Fields))}
	}

	for fi, f := range rec.Fields {
		vals, err := explodeField(f.Value, n)
		if err != nil {
			return nil, fmt.Errorf("%s: field %q: %w", groupPath, f.Name, err)
		}
		for i, v := range vals {
			records[i].Fields[fi] = RecordField{Name: f.Name, Value: v}
		}
	}

	return RecordArray{Dims: shape, Data: records}, nil
}

func fieldDims(v Value) ([]uint64, error) {
	switch t := v.(type) {
	case Scalar:
		return []uint64{1}, nil
	case NumArray:
		return t.Dims, nil
	case BoolArray:
		return t.Dims, nil
	case StrArray:
		return t.Dims, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a parallel array field", ErrUnsupportedValue, v)
	}
}

func dimsEqual(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func explodeField(v Value, n int) ([]Value, error) {
	switch t := v.(type) {
	case Scalar:
		if n != 1 {
			return nil, ErrShapeMismatch
		}
		return []Value{t}, nil
	case NumArray:
		out := make([]Value, n)
		for i := 0; i < n; i++ {
			val, err := numericElemAt(t.Data, i)
			if err != nil {
				return nil, err
			}
			out[i] = Scalar{DType: t.DType, V: val}
		}
		return out, nil
	case BoolArray:
		out := make([]Value, n)
		for i := 0; i < n; i++ {
			out[i] = Scalar{DType: DTInt8, V: t.Data[i]}
		}
		return out, nil
	case StrArray:
		out := make([]Value, n)
		for i := 0; i < n; i++ {
			out[i] = Scalar{DType: DTString, V: t.Data[i]}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func numericElemAt(data interface{}, i int) (interface{}, error) {
	switch s := data.(type) {
	case []int8:
		return s[i], nil
	case []int16:
		return s[i], nil
	case []int32:
		return s[i], nil
	case []int64:
		return s[i], nil
	case []float32:
		return s[i], nil
	case []float64:
		return s[i], nil
	default:
		return nil, fmt.Errorf("%w: unsupported numeric slice %T", ErrUnsupportedValue, data)
	}
}
