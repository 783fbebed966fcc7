package persistable

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns a deterministic 64-bit digest of v's structure and
// values. It never touches the on-disk format; it exists only as a fast
// equality pre-check, for example to flag byte-identical RecordArray
// elements. Two
// values with the same ContentHash are very likely (not guaranteed)
// structurally equal; callers that need a guarantee should still
// compare the decoded values themselves.
func ContentHash(v Value) uint64 {
	h := xxhash.New()
	writeHash(h, v)
	return h.Sum64()
}

func writeHash(h *xxhash.Digest, v Value) {
	switch t := v.(type) {
	case Empty:
		h.Write([]byte{'E'})
	case Scalar:
		h.Write([]byte{'S', byte(t.DType)})
		writeHashScalarValue(h, t.V)
	case NumArray:
		h.Write([]byte{'N', byte(t.DType)})
		writeHashDims(h, t.Dims)
		writeHashNumericSlice(h, t.Data)
	case BoolArray:
		h.Write([]byte{'B'})
		writeHashDims(h, t.Dims)
		for _, b := range t.Data {
			if b {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	case StrArray:
		h.Write([]byte{'T'})
		writeHashDims(h, t.Dims)
		for _, s := range t.Data {
			writeHashString(h, s)
		}
	case Record:
		h.Write([]byte{'R'})
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(len(t.Fields)))
		h.Write(buf[:])
		for _, f := range t.Fields {
			writeHashString(h, f.Name)
			writeHash(h, f.Value)
		}
	case RecordArray:
		h.Write([]byte{'A'})
		writeHashDims(h, t.Dims)
		for _, r := range t.Data {
			writeHash(h, r)
		}
	default:
		h.Write([]byte(fmt.Sprintf("?%T", t)))
	}
}

func writeHashDims(h *xxhash.Digest, dims []uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(dims)))
	h.Write(buf[:])
	for _, d := range dims {
		binary.LittleEndian.PutUint64(buf[:], d)
		h.Write(buf[:])
	}
}

func writeHashString(h *xxhash.Digest, s string) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
	h.Write(buf[:])
	h.Write([]byte(s))
}

func writeHashScalarValue(h *xxhash.Digest, v interface{}) {
	var buf [8]byte
	switch x := v.(type) {
	case int8:
		h.Write([]byte{byte(x)})
	case int16:
		binary.LittleEndian.PutUint16(buf[:2], uint16(x))
		h.Write(buf[:2])
	case int32:
		binary.LittleEndian.PutUint32(buf[:4], uint32(x))
		h.Write(buf[:4])
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(x))
		h.Write(buf[:])
	case float32:
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(x))
		h.Write(buf[:4])
	case float64:
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
		h.Write(buf[:])
	case string:
		writeHashString(h, x)
	default:
		h.Write([]byte(fmt.Sprintf("%v", x)))
	}
}

func writeHashNumericSlice(h *xxhash.Digest, data interface{}) {
	var buf [8]byte
	switch s := data.(type) {
	case []int8:
		for _, x := range s {
			h.Write([]byte{byte(x)})
		}
	case []int16:
		for _, x := range s {
			binary.LittleEndian.PutUint16(buf[:2], uint16(x))
			h.Write(buf[:2])
		}
	case []int32:
		for _, x := range s {
			binary.LittleEndian.PutUint32(buf[:4], uint32(x))
			h.Write(buf[:4])
		}
	case []int64:
		for _, x := range s {
			binary.LittleEndian.PutUint64(buf[:], uint64(x))
			h.Write(buf[:])
		}
	case []float32:
		for _, x := range s {
			binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(x))
			h.Write(buf[:4])
		}
	case []float64:
		for _, x := range s {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
			h.Write(buf[:])
		}
	default:
		h.Write([]byte(fmt.Sprintf("%v", s)))
	}
}
