package persistable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructArrayElementNameRoundTrip(t *testing.T) {
	name := structArrayElementName("samples", []uint64{1, 2, 0})
	require.Equal(t, "samples-1-2-0", name)

	field, index, err := parseStructArrayElementName(name, 3)
	require.NoError(t, err)
	require.Equal(t, "samples", field)
	require.Equal(t, []uint64{1, 2, 0}, index)
}

func TestStructArrayElementNameWithDashInField(t *testing.T) {
	name := structArrayElementName("left-right", []uint64{4})
	field, index, err := parseStructArrayElementName(name, 1)
	require.NoError(t, err)
	require.Equal(t, "left-right", field)
	require.Equal(t, []uint64{4}, index)
}

func TestParseStructArrayElementNameMalformed(t *testing.T) {
	_, _, err := parseStructArrayElementName("onlyname", 2)
	require.ErrorIs(t, err, ErrMalformedStructArrayName)
}

func TestFlatIndexRowMajor(t *testing.T) {
	dims := []uint64{2, 3}
	// Row-major: last dimension varies fastest.
	require.Equal(t, uint64(0), flatIndex(dims, []uint64{0, 0}))
	require.Equal(t, uint64(1), flatIndex(dims, []uint64{0, 1}))
	require.Equal(t, uint64(3), flatIndex(dims, []uint64{1, 0}))
	require.Equal(t, uint64(5), flatIndex(dims, []uint64{1, 2}))
}

func TestUnflattenIndexInverse(t *testing.T) {
	dims := []uint64{2, 3, 4}
	for flat := uint64(0); flat < numElements(dims); flat++ {
		idx := unflattenIndex(dims, flat)
		require.Equal(t, flat, flatIndex(dims, idx))
	}
}

func TestParseDTypeRejectsUnknownTag(t *testing.T) {
	_, err := ParseDType(42)
	require.ErrorIs(t, err, ErrUnknownDType)
}

func TestValidateUTF8RejectsInvalidBytes(t *testing.T) {
	invalid := string([]byte{0xff, 0xfe, 0xfd})
	require.Error(t, validateUTF8(invalid))
	require.NoError(t, validateUTF8("valid utf-8 éè"))
}

func TestRecordSetPreservesPosition(t *testing.T) {
	rec := Record{}
	rec.Set("a", Scalar{DType: DTInt32, V: int32(1)})
	rec.Set("b", Scalar{DType: DTInt32, V: int32(2)})
	rec.Set("a", Scalar{DType: DTInt32, V: int32(99)})

	require.Len(t, rec.Fields, 2)
	require.Equal(t, "a", rec.Fields[0].Name)
	v, _ := rec.Get("a")
	require.Equal(t, Scalar{DType: DTInt32, V: int32(99)}, v)
}

func TestContentHashStable(t *testing.T) {
	v := Record{Fields: []RecordField{
		{Name: "x", Value: Scalar{DType: DTInt32, V: int32(1)}},
		{Name: "y", Value: StrArray{Dims: []uint64{2}, Data: []string{"a", "b"}}},
	}}
	h1 := ContentHash(v)
	h2 := ContentHash(v)
	require.Equal(t, h1, h2)

	other := Record{Fields: []RecordField{
		{Name: "x", Value: Scalar{DType: DTInt32, V: int32(2)}},
		{Name: "y", Value: StrArray{Dims: []uint64{2}, Data: []string{"a", "b"}}},
	}}
	require.NotEqual(t, h1, ContentHash(other))
}
