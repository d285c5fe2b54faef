package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		typ  Type
		val  Value
	}{
		{"Bool true", TypeBool, BoolValue(true)},
		{"Bool false", TypeBool, BoolValue(false)},
		{"UInt8", TypeUInt8, UInt8Value(200)},
		{"Int16 positive", TypeInt16, Int16Value(1234)},
		{"Int16 negative", TypeInt16, Int16Value(-1)},
		{"Int32 positive", TypeInt32, Int32Value(70000)},
		{"Int32 negative", TypeInt32, Int32Value(-2)},
		{"FixedPointTwoPlaces", TypeFixedPointTwoPlaces, FixedPointTwoPlacesValue(12.34)},
		{"FixedPointThreePlaces", TypeFixedPointThreePlaces, FixedPointThreePlacesValue(1.234)},
		{"ByteBuffer", TypeByteBuffer, ByteBufferValue{1, 2, 3}},
		{"UInt8Array", TypeUInt8Array, UInt8ArrayValue{9, 8, 7}},
		{"Int32Array", TypeInt32Array, Int32ArrayValue{1, -2, 3}},
		{"NullTerminatedString", TypeNullTerminatedString, NullTerminatedStringValue("hello")},
		{"NullTerminatedString empty", TypeNullTerminatedString, NullTerminatedStringValue("")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			width, err := Default.Width(c.typ, c.val)
			require.NoError(t, err)

			buf := make([]byte, width+3) // extra trailing bytes to prove we don't overrun
			n, err := Default.Serialize(c.typ, c.val, buf, 0)
			require.NoError(t, err)
			assert.Equal(t, width, n)

			got, consumed, err := Default.Deserialize(c.typ, buf, 0, nil)
			require.NoError(t, err)
			assert.Equal(t, width, consumed)
			assert.Equal(t, c.val, got)
		})
	}
}

func TestInt32ArrayWireShape(t *testing.T) {
	// [1, -2, 3] -> 03 00000001 FFFFFFFE 00000003
	val := Int32ArrayValue{1, -2, 3}
	width, err := Default.Width(TypeInt32Array, val)
	require.NoError(t, err)
	buf := make([]byte, width)
	_, err = Default.Serialize(TypeInt32Array, val, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x03,
		0x00, 0x00, 0x00, 0x01,
		0xFF, 0xFF, 0xFF, 0xFE,
		0x00, 0x00, 0x00, 0x03,
	}, buf)
}

func TestFixedPointTruncatesTowardZero(t *testing.T) {
	buf := make([]byte, 4)
	_, err := Default.Serialize(TypeFixedPointTwoPlaces, FixedPointTwoPlacesValue(1.239), buf, 0)
	require.NoError(t, err)
	// 1.239 * 100 = 123.9 -> truncated toward zero -> 123
	assert.Equal(t, int32(123), getInt32(buf))

	buf2 := make([]byte, 4)
	_, err = Default.Serialize(TypeFixedPointTwoPlaces, FixedPointTwoPlacesValue(-1.239), buf2, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(-123), getInt32(buf2))
}

func TestByteBufferMaxLength(t *testing.T) {
	big := make(ByteBufferValue, 256)
	_, err := Default.Width(TypeByteBuffer, big)
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestDeserializeTruncated(t *testing.T) {
	_, _, err := Default.Deserialize(TypeInt32, []byte{1, 2}, 0, nil)
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

func TestFromCode(t *testing.T) {
	cases := []struct {
		code uint8
		want Type
	}{
		{8, TypeUInt8},
		{16, TypeInt16},
		{32, TypeInt32},
		{37, TypeByteBuffer},
		{38, TypeInt32Array},
		{39, TypeNullTerminatedString},
		{41, TypeFixedPointTwoPlaces},
		{42, TypeFixedPointThreePlaces},
		{43, TypeBool},
	}
	for _, c := range cases {
		got, err := FromCode(c.code)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := FromCode(99)
	assert.ErrorIs(t, err, ErrUnknownTypeCode)
}

func TestInsufficientSpace(t *testing.T) {
	buf := make([]byte, 2)
	_, err := Default.Serialize(TypeInt32, Int32Value(1), buf, 0)
	assert.ErrorIs(t, err, ErrInsufficientSpace)
}
