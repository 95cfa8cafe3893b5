package gsd

import "fmt"

// ElementType identifies the type of the elements stored in a data chunk.
// It is the wire-level type id stored in each index entry's type byte.
type ElementType uint8

const (
	TypeUint8 ElementType = iota + 1
	TypeUint16
	TypeUint32
	TypeUint64
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
)

// String returns a human-readable name for t, or "ElementType(n)" for an
// unknown id.
func (t ElementType) String() string {
	switch t {
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	}
	return fmt.Sprintf("ElementType(%d)", t)
}

// Valid reports whether t is one of the ten known element types.
func (t ElementType) Valid() bool {
	return t >= TypeUint8 && t <= TypeFloat64
}

// SizeofType returns the size in bytes of one element of the given type, or
// 0 if the type id is unknown.
func SizeofType(t ElementType) int {
	switch t {
	case TypeUint8, TypeInt8:
		return 1
	case TypeUint16, TypeInt16:
		return 2
	case TypeUint32, TypeInt32, TypeFloat32:
		return 4
	case TypeUint64, TypeInt64, TypeFloat64:
		return 8
	default:
		return 0
	}
}
