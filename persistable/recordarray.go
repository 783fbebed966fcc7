package persistable

import "fmt"

// validateRecordArraySchema enforces the invariant that every element of a
// RecordArray shares element 0's field-name set and field kinds (spec §3).
// This applies whether or not the array ends up parallelisable.
func validateRecordArraySchema(ra RecordArray) error {
	if len(ra.Data) == 0 {
		return nil
	}
	schema := ra.Data[0]
	for i, rec := range ra.Data[1:] {
		if err := schemaMatches(schema, rec); err != nil {
			return fmt.Errorf("element %d: %w", i+1, err)
		}
	}
	return nil
}

func schemaMatches(a, b Record) error {
	if len(a.Fields) != len(b.Fields) {
		return ErrHeterogeneousRecordArray
	}
	for i, fa := range a.Fields {
		fb := b.Fields[i]
		if fa.Name != fb.Name {
			return ErrHeterogeneousRecordArray
		}
		if !sameVariantAndDType(fa.Value, fb.Value) {
			return ErrHeterogeneousRecordArray
		}
	}
	return nil
}

func sameVariantAndDType(a, b Value) bool {
	switch ta := a.(type) {
	case Empty:
		_, ok := b.(Empty)
		return ok
	case Scalar:
		tb, ok := b.(Scalar)
		return ok && ta.DType == tb.DType
	case NumArray:
		tb, ok := b.(NumArray)
		return ok && ta.DType == tb.DType
	case BoolArray:
		_, ok := b.(BoolArray)
		return ok
	case StrArray:
		_, ok := b.(StrArray)
		return ok
	case Record:
		tb, ok := b.(Record)
		return ok && schemaMatches(ta, tb) == nil
	case RecordArray:
		_, ok := b.(RecordArray)
		return ok
	default:
		return false
	}
}

// fieldScalar is a field value collapsed to a single primitive, the form
// every field of every element must take for a RecordArray to qualify as
// parallelisable (spec §4.3.3, matching the original _is_primitive /
// _is_scalar checks).
type fieldScalar struct {
	isBool bool
	dtype  DType
	val    interface{}
}

func scalarOf(v Value) (fieldScalar, bool) {
	switch t := v.(type) {
	case Scalar:
		return fieldScalar{dtype: t.DType, val: t.V}, true
	case NumArray:
		if numElements(t.Dims) != 1 {
			return fieldScalar{}, false
		}
		val, ok := firstNumericElem(t.Data)
		if !ok {
			return fieldScalar{}, false
		}
		return fieldScalar{dtype: t.DType, val: val}, true
	case StrArray:
		if numElements(t.Dims) == 1 && len(t.Data) == 1 {
			return fieldScalar{dtype: DTString, val: t.Data[0]}, true
		}
	case BoolArray:
		if numElements(t.Dims) == 1 && len(t.Data) == 1 {
			return fieldScalar{isBool: true, val: t.Data[0]}, true
		}
	}
	return fieldScalar{}, false
}

func firstNumericElem(data interface{}) (interface{}, bool) {
	switch s := data.(type) {
	case []int8:
		if len(s) == 1 {
			return s[0], true
		}
	case []int16:
		if len(s) == 1 {
			return s[0], true
		}
	case []int32:
		if len(s) == 1 {
			return s[0], true
		}
	case []int64:
		if len(s) == 1 {
			return s[0], true
		}
	case []float32:
		if len(s) == 1 {
			return s[0], true
		}
	case []float64:
		if len(s) == 1 {
			return s[0], true
		}
	}
	return nil, false
}

// isParallelizableRecordArray reports whether every element's every field
// collapses to a scalar primitive, the condition under which the original
// hdf5mi encoder transposes a record array into a record of parallel
// arrays instead of one subgroup per element (spec §4.3.3).
func isParallelizableRecordArray(ra RecordArray) bool {
	for _, rec := range ra.Data {
		for _, f := range rec.Fields {
			if _, ok := scalarOf(f.Value); !ok {
				return false
			}
		}
	}
	return true
}

// buildParallelFieldArray transposes field fieldIdx across every element of
// ra into a single array-shaped-like-ra Value, the representation a
// parallelisable record array is actually written as (spec §4.3.3).
func buildParallelFieldArray(ra RecordArray, fieldIdx int) Value {
	n := len(ra.Data)
	dims := append([]uint64(nil), ra.Dims...)
	first, _ := scalarOf(ra.Data[0].Fields[fieldIdx].Value)

	if first.isBool {
		data := make([]bool, n)
		for i, rec := range ra.Data {
			fs, _ := scalarOf(rec.Fields[fieldIdx].Value)
			data[i] = fs.val.(bool)
		}
		return BoolArray{Dims: dims, Data: data}
	}
	if first.dtype == DTString {
		data := make([]string, n)
		for i, rec := range ra.Data {
			fs, _ := scalarOf(rec.Fields[fieldIdx].Value)
			data[i] = fs.val.(string)
		}
		return StrArray{Dims: dims, Data: data}
	}

	return NumArray{DType: first.dtype, Dims: dims, Data: buildNumericSlice(first.dtype, ra, fieldIdx)}
}

func buildNumericSlice(dt DType, ra RecordArray, fieldIdx int) interface{} {
	n := len(ra.Data)
	switch dt {
	case DTInt8:
		out := make([]int8, n)
		for i, rec := range ra.Data {
			fs, _ := scalarOf(rec.Fields[fieldIdx].Value)
			out[i] = fs.val.(int8)
		}
		return out
	case DTInt16:
		out := make([]int16, n)
		for i, rec := range ra.Data {
			fs, _ := scalarOf(rec.Fields[fieldIdx].Value)
			out[i] = fs.val.(int16)
		}
		return out
	case DTInt32:
		out := make([]int32, n)
		for i, rec := range ra.Data {
			fs, _ := scalarOf(rec.Fields[fieldIdx].Value)
			out[i] = fs.val.(int32)
		}
		return out
	case DTInt64:
		out := make([]int64, n)
		for i, rec := range ra.Data {
			fs, _ := scalarOf(rec.Fields[fieldIdx].Value)
			out[i] = fs.val.(int64)
		}
		return out
	case DTFloat32:
		out := make([]float32, n)
		for i, rec := range ra.Data {
			fs, _ := scalarOf(rec.Fields[fieldIdx].Value)
			out[i] = fs.val.(float32)
		}
		return out
	case DTFloat64:
		out := make([]float64, n)
		for i, rec := range ra.Data {
			fs, _ := scalarOf(rec.Fields[fieldIdx].Value)
			out[i] = fs.val.(float64)
		}
		return out
	default:
		return nil
	}
}
