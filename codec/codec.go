package codec

import (
	"bytes"
	"fmt"
	"math"

	"golang.org/x/text/encoding"
)

// Codec serializes and deserializes Value's to and from contiguous byte
// regions. The zero value is ready to use; Codec carries no state of its own,
// it exists only to group the operations the way the wire protocol does.
type Codec struct{}

// Default is a ready-to-use Codec. Most callers use this instead of
// constructing their own.
var Default = Codec{}

// Width returns the number of bytes Serialize would write for v as type t.
// For fixed-width types v may be nil.
func (Codec) Width(t Type, v Value) (int, error) {
	switch t {
	case TypeBool, TypeUInt8:
		return 1, nil
	case TypeInt16:
		return 2, nil
	case TypeInt32, TypeFixedPointTwoPlaces, TypeFixedPointThreePlaces:
		return 4, nil
	case TypeByteBuffer:
		// TypeUInt8Array shares this code (37); same wire shape either way.
		n, err := bufferLen(v)
		if err != nil {
			return 0, err
		}
		return 1 + n, nil
	case TypeInt32Array:
		arr, err := asInt32Array(v)
		if err != nil {
			return 0, err
		}
		if len(arr) > 255 {
			return 0, fmt.Errorf("%w: Int32Array has %d elements, max 255", ErrValueOutOfRange, len(arr))
		}
		return 1 + 4*len(arr), nil
	case TypeNullTerminatedString:
		s, err := asString(v)
		if err != nil {
			return 0, err
		}
		enc, err := encodeString(s, nil)
		if err != nil {
			return 0, err
		}
		return len(enc) + 1, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownTypeCode, t)
	}
}

// Serialize writes v as type t at buf[offset:] and returns the number of
// bytes written, which equals Width(t, v).
func (c Codec) Serialize(t Type, v Value, buf []byte, offset int) (int, error) {
	width, err := c.Width(t, v)
	if err != nil {
		return 0, err
	}
	if offset < 0 || offset+width > len(buf) {
		return 0, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrInsufficientSpace, width, offset, len(buf))
	}

	switch t {
	case TypeBool:
		b, ok := v.(BoolValue)
		if !ok {
			return 0, fmt.Errorf("codec: value is not a BoolValue")
		}
		if b {
			buf[offset] = 1
		} else {
			buf[offset] = 0
		}
	case TypeUInt8:
		u, ok := v.(UInt8Value)
		if !ok {
			return 0, fmt.Errorf("codec: value is not a UInt8Value")
		}
		buf[offset] = byte(u)
	case TypeInt16:
		i, ok := v.(Int16Value)
		if !ok {
			return 0, fmt.Errorf("codec: value is not an Int16Value")
		}
		putInt16(buf[offset:], int16(i))
	case TypeInt32:
		i, ok := v.(Int32Value)
		if !ok {
			return 0, fmt.Errorf("codec: value is not an Int32Value")
		}
		putInt32(buf[offset:], int32(i))
	case TypeFixedPointTwoPlaces:
		f, ok := v.(FixedPointTwoPlacesValue)
		if !ok {
			return 0, fmt.Errorf("codec: value is not a FixedPointTwoPlacesValue")
		}
		scaled := float64(f) * 100.0
		i, err := scaledToInt32(scaled)
		if err != nil {
			return 0, err
		}
		putInt32(buf[offset:], i)
	case TypeFixedPointThreePlaces:
		f, ok := v.(FixedPointThreePlacesValue)
		if !ok {
			return 0, fmt.Errorf("codec: value is not a FixedPointThreePlacesValue")
		}
		scaled := float64(f) * 1000.0
		i, err := scaledToInt32(scaled)
		if err != nil {
			return 0, err
		}
		putInt32(buf[offset:], i)
	case TypeByteBuffer:
		// TypeUInt8Array shares this code (37); dispatch on v's Go type
		// since the wire shape is identical.
		switch bv := v.(type) {
		case ByteBufferValue:
			buf[offset] = byte(len(bv))
			copy(buf[offset+1:], bv)
		case UInt8ArrayValue:
			buf[offset] = byte(len(bv))
			copy(buf[offset+1:], bv)
		default:
			return 0, fmt.Errorf("codec: value is not a ByteBufferValue or UInt8ArrayValue")
		}
	case TypeInt32Array:
		arr, ok := v.(Int32ArrayValue)
		if !ok {
			return 0, fmt.Errorf("codec: value is not an Int32ArrayValue")
		}
		buf[offset] = byte(len(arr))
		pos := offset + 1
		for _, e := range arr {
			putInt32(buf[pos:], e)
			pos += 4
		}
	case TypeNullTerminatedString:
		s, ok := v.(NullTerminatedStringValue)
		if !ok {
			return 0, fmt.Errorf("codec: value is not a NullTerminatedStringValue")
		}
		enc, err := encodeString(string(s), nil)
		if err != nil {
			return 0, err
		}
		copy(buf[offset:], enc)
		buf[offset+len(enc)] = 0x00
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownTypeCode, t)
	}
	return width, nil
}

// Deserialize reads a value of type t from buf[offset:] and returns it along
// with the number of bytes consumed. enc is only consulted for
// TypeNullTerminatedString; pass nil for the default (ASCII/raw) encoding.
func (Codec) Deserialize(t Type, buf []byte, offset int, enc encoding.Encoding) (Value, int, error) {
	if offset < 0 || offset > len(buf) {
		return nil, 0, fmt.Errorf("%w: offset %d out of range", ErrTruncatedInput, offset)
	}
	rest := buf[offset:]

	switch t {
	case TypeBool:
		if len(rest) < 1 {
			return nil, 0, fmt.Errorf("%w: need 1 byte for Bool", ErrTruncatedInput)
		}
		return BoolValue(rest[0] != 0), 1, nil
	case TypeUInt8:
		if len(rest) < 1 {
			return nil, 0, fmt.Errorf("%w: need 1 byte for UInt8", ErrTruncatedInput)
		}
		return UInt8Value(rest[0]), 1, nil
	case TypeInt16:
		if len(rest) < 2 {
			return nil, 0, fmt.Errorf("%w: need 2 bytes for Int16", ErrTruncatedInput)
		}
		return Int16Value(getInt16(rest)), 2, nil
	case TypeInt32:
		if len(rest) < 4 {
			return nil, 0, fmt.Errorf("%w: need 4 bytes for Int32", ErrTruncatedInput)
		}
		return Int32Value(getInt32(rest)), 4, nil
	case TypeFixedPointTwoPlaces:
		if len(rest) < 4 {
			return nil, 0, fmt.Errorf("%w: need 4 bytes for FixedPointTwoPlaces", ErrTruncatedInput)
		}
		return FixedPointTwoPlacesValue(float64(getInt32(rest)) / 100.0), 4, nil
	case TypeFixedPointThreePlaces:
		if len(rest) < 4 {
			return nil, 0, fmt.Errorf("%w: need 4 bytes for FixedPointThreePlaces", ErrTruncatedInput)
		}
		return FixedPointThreePlacesValue(float64(getInt32(rest)) / 1000.0), 4, nil
	case TypeByteBuffer:
		// TypeUInt8Array shares this code (37); FromCode always resolves
		// code 37 to TypeByteBuffer, so this is the only reachable branch.
		if len(rest) < 1 {
			return nil, 0, fmt.Errorf("%w: need length byte for ByteBuffer", ErrTruncatedInput)
		}
		n := int(rest[0])
		if len(rest) < 1+n {
			return nil, 0, fmt.Errorf("%w: ByteBuffer declares %d bytes, only %d available", ErrTruncatedInput, n, len(rest)-1)
		}
		out := make([]byte, n)
		copy(out, rest[1:1+n])
		return ByteBufferValue(out), 1 + n, nil
	case TypeInt32Array:
		if len(rest) < 1 {
			return nil, 0, fmt.Errorf("%w: need count byte for Int32Array", ErrTruncatedInput)
		}
		count := int(rest[0])
		need := 1 + 4*count
		if len(rest) < need {
			return nil, 0, fmt.Errorf("%w: Int32Array declares %d elements, only %d bytes available", ErrTruncatedInput, count, len(rest)-1)
		}
		arr := make(Int32ArrayValue, count)
		pos := 1
		for i := 0; i < count; i++ {
			arr[i] = getInt32(rest[pos:])
			pos += 4
		}
		return arr, need, nil
	case TypeNullTerminatedString:
		idx := bytes.IndexByte(rest, 0x00)
		if idx < 0 {
			return nil, 0, fmt.Errorf("%w: NullTerminatedString has no terminating 0x00", ErrTruncatedInput)
		}
		raw := rest[:idx]
		decoded, err := decodeString(raw, enc)
		if err != nil {
			return nil, 0, err
		}
		return NullTerminatedStringValue(decoded), idx + 1, nil
	default:
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownTypeCode, t)
	}
}

func bufferLen(v Value) (int, error) {
	switch b := v.(type) {
	case ByteBufferValue:
		if len(b) > 255 {
			return 0, fmt.Errorf("%w: ByteBuffer has %d bytes, max 255", ErrValueOutOfRange, len(b))
		}
		return len(b), nil
	case UInt8ArrayValue:
		if len(b) > 255 {
			return 0, fmt.Errorf("%w: UInt8Array has %d bytes, max 255", ErrValueOutOfRange, len(b))
		}
		return len(b), nil
	default:
		return 0, fmt.Errorf("codec: value is not a ByteBufferValue or UInt8ArrayValue")
	}
}

func asInt32Array(v Value) (Int32ArrayValue, error) {
	arr, ok := v.(Int32ArrayValue)
	if !ok {
		return nil, fmt.Errorf("codec: value is not an Int32ArrayValue")
	}
	return arr, nil
}

func asString(v Value) (string, error) {
	s, ok := v.(NullTerminatedStringValue)
	if !ok {
		return "", fmt.Errorf("codec: value is not a NullTerminatedStringValue")
	}
	return string(s), nil
}

func encodeString(s string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		return []byte(s), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return out, nil
}

func decodeString(raw []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return string(out), nil
}

// scaledToInt32 truncates toward zero, matching Go's float64->int32
// conversion semantics, and rejects magnitudes that would overflow.
func scaledToInt32(scaled float64) (int32, error) {
	if scaled > math.MaxInt32 || scaled < math.MinInt32 {
		return 0, fmt.Errorf("%w: scaled value %g out of int32 range", ErrValueOutOfRange, scaled)
	}
	return int32(scaled), nil
}

func putInt16(buf []byte, v int16) {
	buf[0] = byte(v >> 8)
	buf[1] = byte(v)
}

func getInt16(buf []byte) int16 {
	return int16(uint16(buf[0])<<8 | uint16(buf[1]))
}

func putInt32(buf []byte, v int32) {
	buf[0] = byte(v >> 24)
	buf[1] = byte(v >> 16)
	buf[2] = byte(v >> 8)
	buf[3] = byte(v)
}

func getInt32(buf []byte) int32 {
	return int32(uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]))
}
