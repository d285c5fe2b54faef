package codec

// Value is a Bowler typed value. Each concrete type below wraps the native Go
// representation used by builders and parsers; the Codec (codec.go) knows how
// to serialize and deserialize each one for its associated Type.
type Value interface {
	// Type returns the wire type this value serializes as.
	Type() Type
}

// BoolValue is a one-byte boolean (wire type Bool).
type BoolValue bool

// Type implements Value.
func (BoolValue) Type() Type { return TypeBool }

// UInt8Value is a one-byte unsigned integer (wire type UInt8).
type UInt8Value uint8

// Type implements Value.
func (UInt8Value) Type() Type { return TypeUInt8 }

// Int16Value is a two-byte big-endian signed integer (wire type Int16).
type Int16Value int16

// Type implements Value.
func (Int16Value) Type() Type { return TypeInt16 }

// Int32Value is a four-byte big-endian signed integer (wire type Int32).
type Int32Value int32

// Type implements Value.
func (Int32Value) Type() Type { return TypeInt32 }

// FixedPointTwoPlacesValue is an Int32 BE value divided by 100.0 on the wire.
type FixedPointTwoPlacesValue float64

// Type implements Value.
func (FixedPointTwoPlacesValue) Type() Type { return TypeFixedPointTwoPlaces }

// FixedPointThreePlacesValue is an Int32 BE value divided by 1000.0 on the wire.
type FixedPointThreePlacesValue float64

// Type implements Value.
func (FixedPointThreePlacesValue) Type() Type { return TypeFixedPointThreePlaces }

// ByteBufferValue is a 1-byte length-prefixed byte buffer (max 255 bytes).
type ByteBufferValue []byte

// Type implements Value.
func (ByteBufferValue) Type() Type { return TypeByteBuffer }

// UInt8ArrayValue has the identical wire shape to ByteBufferValue (code 37);
// it exists as a distinct Go type purely so callers and the introspector can
// keep the two semantics ("opaque buffer" vs. "array of bytes") apart.
type UInt8ArrayValue []uint8

// Type implements Value.
func (UInt8ArrayValue) Type() Type { return TypeUInt8Array }

// Int32ArrayValue is a 1-byte element-count prefix followed by that many
// big-endian Int32 values.
type Int32ArrayValue []int32

// Type implements Value.
func (Int32ArrayValue) Type() Type { return TypeInt32Array }

// NullTerminatedStringValue is a string terminated by a single 0x00 byte on
// the wire.
type NullTerminatedStringValue string

// Type implements Value.
func (NullTerminatedStringValue) Type() Type { return TypeNullTerminatedString }
