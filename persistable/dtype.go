package persistable

import (
	"fmt"
	"reflect"
)

// DType is the element type tag stored in the DATA_TYPE attribute. The
// tag values are fixed across every sibling Persistable implementation
// (MATLAB, C++, JVM); changing one breaks interop.
type DType int8

const (
	DTInt8    DType = 2
	DTInt16   DType = 3
	DTInt32   DType = 4
	DTInt64   DType = 5
	DTFloat32 DType = 6
	DTFloat64 DType = 7
	DTString  DType = 8
	DTOpaque  DType = 9 // record marker, never an array element type
)

func (d DType) String() string {
	switch d {
	case DTInt8:
		return "int8"
	case DTInt16:
		return "int16"
	case DTInt32:
		return "int32"
	case DTInt64:
		return "int64"
	case DTFloat32:
		return "float32"
	case DTFloat64:
		return "float64"
	case DTString:
		return "string"
	case DTOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("DType(%d)", int8(d))
	}
}

// GoType returns the Go type that stores elements of this dtype.
func (d DType) GoType() (reflect.Type, error) {
	switch d {
	case DTInt8:
		return reflect.TypeOf(int8(0)), nil
	case DTInt16:
		return reflect.TypeOf(int16(0)), nil
	case DTInt32:
		return reflect.TypeOf(int32(0)), nil
	case DTInt64:
		return reflect.TypeOf(int64(0)), nil
	case DTFloat32:
		return reflect.TypeOf(float32(0)), nil
	case DTFloat64:
		return reflect.TypeOf(float64(0)), nil
	case DTString:
		return reflect.TypeOf(""), nil
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownDType, int8(d))
	}
}

// DTypeOf returns the dtype tag for a Go element type, the inverse of GoType.
func DTypeOf(t reflect.Type) (DType, bool) {
	switch t.Kind() {
	case reflect.Int8:
		return DTInt8, true
	case reflect.Int16:
		return DTInt16, true
	case reflect.Int32:
		return DTInt32, true
	case reflect.Int64:
		return DTInt64, true
	case reflect.Float32:
		return DTFloat32, true
	case reflect.Float64:
		return DTFloat64, true
	case reflect.String:
		return DTString, true
	default:
		return 0, false
	}
}

// ParseDType validates a raw tag read from a DATA_TYPE attribute.
func ParseDType(tag int8) (DType, error) {
	switch DType(tag) {
	case DTInt8, DTInt16, DTInt32, DTInt64, DTFloat32, DTFloat64, DTString, DTOpaque:
		return DType(tag), nil
	default:
		return 0, fmt.Errorf("%w: tag %d", ErrUnknownDType, tag)
	}
}
