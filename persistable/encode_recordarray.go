package persistable

import (
	"fmt"

	"github.com/ziggy-module/hdf5persist/hdf5"
)

// encodeRecordArray writes a RecordArray into g, choosing between the
// compact parallel-array representation and one subgroup per element
// depending on whether every element reduces to scalar fields (spec
// §4.3.3).
func encodeRecordArray(g *hdf5.Group, ra RecordArray, opts Options) error {
	if err := validateRecordArraySchema(ra); err != nil {
		return fmt.Errorf("%s: %w", g.Path(), err)
	}

	if len(ra.Data) > 0 && isParallelizableRecordArray(ra) {
		return encodeParallelArray(g, ra, opts)
	}
	return encodeStructObjectArray(g, ra, opts)
}

// encodeParallelArray transposes ra into a record whose fields are arrays
// shaped like ra, then writes that record directly into g -- the same
// group, not a nested one -- and finally flags g as PARALLEL_ARRAY. This
// mirrors the original hdf5mi encoder exactly: the group ends up carrying
// both PARALLEL_ARRAY and the opaque-record DATA_TYPE tag, with per-field
// subgroups as its only children.
func encodeParallelArray(g *hdf5.Group, ra RecordArray, opts Options) error {
	schema := ra.Data[0]
	fields := make([]RecordField, len(schema.Fields))
	for i, sf := range schema.Fields {
		fields[i] = RecordField{Name: sf.Name, Value: buildParallelFieldArray(ra, i)}
	}

	if err := encodeRecord(g, Record{Fields: fields}, opts); err != nil {
		return err
	}
	return g.SetAttr(attrParallelArray, presenceFlag)
}

// encodeStructObjectArray writes one subgroup per element of ra, named
// "<field>-i0-i1-...-iR" by row-major multi-index, and flags g with
// STRUCT_OBJECT_ARRAY / STRUCT_OBJECT_ARRAY_DIMS (spec §4.2, §4.3.3).
func encodeStructObjectArray(g *hdf5.Group, ra RecordArray, opts Options) error {
	if err := g.SetAttr(attrStructObjectArray, presenceFlag); err != nil {
		return fmt.Errorf("%s: %w", g.Path(), err)
	}

	dims := ra.Dims
	dimsI64 := make([]int64, len(dims))
	for i, d := range dims {
		dimsI64[i] = int64(d)
	}
	if err := g.SetAttr(attrStructObjectArrayDim, dimsI64); err != nil {
		return fmt.Errorf("%s: %w", g.Path(), err)
	}

	for flat, rec := range ra.Data {
		index := unflattenIndex(dims, uint64(flat))
		elemName := structArrayElementName(g.Name(), index)
		sub, err := g.CreateGroup(elemName)
		if err != nil {
			return fmt.Errorf("creating struct array element %s under %s: %w", elemName, g.Path(), err)
		}
		if err := encodeRecord(sub, rec, opts); err != nil {
			return err
		}
	}
	return nil
}
