package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACStringAndParseRoundTrip(t *testing.T) {
	m := MAC{0x01, 0x02, 0x0A, 0xFF, 0x00, 0xAB}
	assert.Equal(t, "01:02:0A:FF:00:AB", m.String())

	parsed, err := ParseMAC(m.String())
	require.NoError(t, err)
	assert.Equal(t, m, parsed)
}

func TestMACBroadcast(t *testing.T) {
	assert.True(t, Broadcast.IsBroadcast())
	assert.False(t, MAC{}.IsBroadcast())
}

func TestParseMACInvalid(t *testing.T) {
	_, err := ParseMAC("01:02:03")
	assert.ErrorIs(t, err, ErrInvalidMAC)

	_, err = ParseMAC("ZZ:02:03:04:05:06")
	assert.ErrorIs(t, err, ErrInvalidMAC)
}

func TestMethodFromByte(t *testing.T) {
	m, err := MethodFromByte(0x20)
	require.NoError(t, err)
	assert.Equal(t, MethodPost, m)

	_, err = MethodFromByte(0x99)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}
