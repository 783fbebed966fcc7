package persistable

import (
	"fmt"
	"sort"

	"github.com/ziggy-module/hdf5persist/hdf5"
)

// decodeGroup classifies g by inspecting its attributes and children, in
// the order spec'd: parallel array, struct-object array, single-dataset
// leaf, declared-empty, else record (spec §4.2).
func decodeGroup(g *hdf5.Group, opts Options) (Value, error) {
	if g.HasAttr(attrParallelArray) {
		return decodeParallelArray(g, opts)
	}
	if g.HasAttr(attrStructObjectArray) {
		return decodeStructObjectArray(g, opts)
	}

	members, err := g.Members()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", g.Path(), err)
	}

	if len(members) == 1 {
		if ds, err := g.OpenDataset(members[0]); err == nil {
			return decodeLeaf(g, ds)
		}
	}

	if len(members) == 0 && g.HasAttr(attrEmptyField) {
		return Empty{}, nil
	}

	return decodeRecord(g, members, opts)
}

// decodeRecord reads g's field subgroups into a Record, honoring
// Options.PreserveFieldOrder (spec §4.2, §4.5).
func decodeRecord(g *hdf5.Group, members []string, opts Options) (Value, error) {
	ordered, err := orderFields(g, members, opts)
	if err != nil {
		return nil, err
	}

	fields := make([]RecordField, len(ordered))
	for i, name := range ordered {
		child, err := g.OpenGroup(name)
		if err != nil {
			return nil, fmt.Errorf("opening field %q under %s: %w", name, g.Path(), err)
		}
		v, err := decodeGroup(child, opts)
		if err != nil {
			return nil, err
		}
		fields[i] = RecordField{Name: name, Value: v}
	}
	return Record{Fields: fields}, nil
}

// orderFields returns members either in ascending name order or, when
// Options.PreserveFieldOrder is set, in the dense order their FIELD_ORDER
// attributes describe. A missing or duplicated index is reported as
// ErrFieldOrderGap rather than silently dropping the field, unlike the
// original hdf5mi reader.
func orderFields(g *hdf5.Group, members []string, opts Options) ([]string, error) {
	if !opts.PreserveFieldOrder {
		sorted := append([]string(nil), members...)
		sort.Strings(sorted)
		return sorted, nil
	}

	slots := make([]string, len(members))
	filled := make([]bool, len(members))
	for _, name := range members {
		child, err := g.OpenGroup(name)
		if err != nil {
			return nil, fmt.Errorf("opening field %q under %s: %w", name, g.Path(), err)
		}
		attr := child.Attr(attrFieldOrder)
		if attr == nil {
			return nil, fmt.Errorf("%s/%s: %w: missing FIELD_ORDER", g.Path(), name, ErrFieldOrderGap)
		}
		idx, err := attr.ReadScalarInt64()
		if err != nil {
			return nil, fmt.Errorf("%s/%s: reading FIELD_ORDER: %w", g.Path(), name, err)
		}
		if idx < 0 || int(idx) >= len(members) || filled[idx] {
			return nil, fmt.Errorf("%s/%s: %w: FIELD_ORDER=%d", g.Path(), name, ErrFieldOrderGap, idx)
		}
		slots[idx] = name
		filled[idx] = true
	}
	for i, ok := range filled {
		if !ok {
			return nil, fmt.Errorf("%s: %w: no field at index %d", g.Path(), ErrFieldOrderGap, i)
		}
	}
	return slots, nil
}

// decodeLeaf reads g's single dataset child, unwrapping a 1-D length-1
// shape back to a Scalar -- the same convention applies whether or not
// the value started life as a true scalar (spec §4.3.1).
func decodeLeaf(g *hdf5.Group, ds *hdf5.Dataset) (Value, error) {
	dims := ds.Shape()
	isScalarShape := len(dims) == 1 && dims[0] == 1

	dtAttr := g.Attr(attrDataType)
	if dtAttr == nil {
		return nil, fmt.Errorf("%s: %w", g.Path(), ErrMissingDataType)
	}
	rawTag, err := dtAttr.ReadScalarInt64()
	if err != nil {
		return nil, fmt.Errorf("%s: reading DATA_TYPE: %w", g.Path(), err)
	}
	dt, err := ParseDType(int8(rawTag))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Path(), err)
	}

	if dt == DTString {
		strs, err := ds.ReadString()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g.Path(), err)
		}
		if isScalarShape {
			return Scalar{DType: DTString, V: strs[0]}, nil
		}
		return StrArray{Dims: dims, Data: strs}, nil
	}

	if g.HasAttr(attrLogicalBooleanArray) {
		ints, err := ds.ReadInt8()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g.Path(), err)
		}
		data := make([]bool, len(ints))
		for i, v := range ints {
			data[i] = v != 0
		}
		if isScalarShape {
			return Scalar{DType: DTInt8, V: data[0]}, nil
		}
		return BoolArray{Dims: dims, Data: data}, nil
	}

	data, err := readNumericDataset(dt, ds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Path(), err)
	}
	if isScalarShape {
		return Scalar{DType: dt, V: firstElem(data)}, nil
	}
	return NumArray{DType: dt, Dims: dims, Data: data}, nil
}

func readNumericDataset(dt DType, ds *hdf5.Dataset) (interface{}, error) {
	switch dt {
	case DTInt8:
		return ds.ReadInt8()
	case DTInt16:
		return ds.ReadInt16()
	case DTInt32:
		return ds.ReadInt32()
	case DTInt64:
		return ds.ReadInt64()
	case DTFloat32:
		return ds.ReadFloat32()
	case DTFloat64:
		return ds.ReadFloat64()
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownDType, int8(dt))
	}
}

func firstElem(data interface{}) interface{} {
	switch s := data.(type) {
	case []int8:
		return s[0]
	case []int16:
		return s[0]
	case []int32:
		return s[0]
	case []int64:
		return s[0]
	case []float32:
		return s[0]
	case []float64:
		return s[0]
	default:
		return nil
	}
}
