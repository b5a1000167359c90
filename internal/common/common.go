package common

import (
	"encoding/binary"
	"math"
	"reflect"
	"unsafe"
)

// IsFixedKind reports whether k is a fixed-size primitive kind.
// int and uint are carried on the wire as 64-bit values.
func IsFixedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// IsIntegerKind reports whether k is a signed or unsigned integer kind.
func IsIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// IsSignedKind reports whether k is a signed integer kind.
func IsSignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// FixedSize returns the wire width for fixed-size primitive kinds.
func FixedSize(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int, reflect.Uint, reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8
	default:
		return -1
	}
}

// HostLittleEndian is true when the in-memory layout of integers matches the
// wire layout, which is what allows bulk copies of primitive slices.
var HostLittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// Bits returns the raw little-endian bit pattern of a fixed-kind value.
func Bits(v reflect.Value) uint64 {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32:
		// widening to float64 can quiet a signalling NaN, so read memory directly
		if v.CanAddr() {
			return uint64(*(*uint32)(v.Addr().UnsafePointer()))
		}
		return uint64(math.Float32bits(float32(v.Float())))
	case reflect.Float64:
		return math.Float64bits(v.Float())
	}
	panic("common: not a fixed kind: " + v.Kind().String())
}

// PutFixed writes the low width bytes of bits into b.
func PutFixed(b []byte, bits uint64, width int) {
	switch width {
	case 1:
		b[0] = byte(bits)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(bits))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(bits))
	case 8:
		binary.LittleEndian.PutUint64(b, bits)
	default:
		panic("common: bad width")
	}
}

// ReadFixed reads a width-byte little-endian value from b.
func ReadFixed(b []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		return binary.LittleEndian.Uint64(b)
	}
	panic("common: bad width")
}

// SetFixed stores a raw bit pattern read from the wire into dst.
// Signed values are sign-extended from width bytes.
func SetFixed(dst reflect.Value, bits uint64, width int) {
	switch dst.Kind() {
	case reflect.Bool:
		dst.SetBool(bits != 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(SignExtend(bits, width))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		dst.SetUint(bits)
	case reflect.Float32:
		if dst.CanAddr() {
			*(*uint32)(dst.Addr().UnsafePointer()) = uint32(bits)
			return
		}
		dst.SetFloat(float64(math.Float32frombits(uint32(bits))))
	case reflect.Float64:
		dst.SetFloat(math.Float64frombits(bits))
	default:
		panic("common: not a fixed kind: " + dst.Kind().String())
	}
}

// SignExtend interprets the low width bytes of bits as a two's complement value.
func SignExtend(bits uint64, width int) int64 {
	switch width {
	case 1:
		return int64(int8(bits))
	case 2:
		return int64(int16(bits))
	case 4:
		return int64(int32(bits))
	}
	return int64(bits)
}

// BytesOf aliases the backing memory of a slice of fixed-width elements.
// Callers must only use it for element kinds whose memory layout matches the
// wire layout on the host.
func BytesOf(slice reflect.Value, elemSize int) []byte {
	n := slice.Len()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(slice.Index(0).Addr().UnsafePointer()), n*elemSize)
}
