// Package codec implements the Bowler protocol's typed-value wire format
// (value.go, type.go) and the byte-range/assembler helpers (byterange.go,
// assembler.go) that builders and parsers use to read and write them at
// fixed offsets.
package codec

import "fmt"

// Type is a Bowler wire type code.
type Type uint8

// The ten Bowler typed values and their wire type codes. ByteBuffer and
// UInt8Array share code 37 on the wire; they are distinguished only by the
// Go value type used to carry them (ByteBufferValue vs. UInt8ArrayValue),
// never by the code itself.
const (
	TypeUInt8                 Type = 8
	TypeInt16                 Type = 16
	TypeInt32                 Type = 32
	TypeByteBuffer            Type = 37
	TypeUInt8Array            Type = 37
	TypeInt32Array            Type = 38
	TypeNullTerminatedString  Type = 39
	TypeFixedPointTwoPlaces   Type = 41
	TypeFixedPointThreePlaces Type = 42
	TypeBool                  Type = 43
)

func (t Type) String() string {
	switch t {
	case TypeUInt8:
		return "UInt8"
	case TypeInt16:
		return "Int16"
	case TypeInt32:
		return "Int32"
	case TypeByteBuffer: // == TypeUInt8Array
		return "ByteBuffer/UInt8Array"
	case TypeInt32Array:
		return "Int32Array"
	case TypeNullTerminatedString:
		return "NullTerminatedString"
	case TypeFixedPointTwoPlaces:
		return "FixedPointTwoPlaces"
	case TypeFixedPointThreePlaces:
		return "FixedPointThreePlaces"
	case TypeBool:
		return "Bool"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// FromCode maps a wire type code to a Type. Code 37 resolves to
// TypeByteBuffer; callers that need UInt8Array semantics for that code
// construct a UInt8ArrayValue explicitly, since the wire shape is identical.
func FromCode(code uint8) (Type, error) {
	switch Type(code) {
	case TypeUInt8, TypeInt16, TypeInt32, TypeByteBuffer, TypeInt32Array,
		TypeNullTerminatedString, TypeFixedPointTwoPlaces, TypeFixedPointThreePlaces, TypeBool:
		return Type(code), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownTypeCode, code)
	}
}
