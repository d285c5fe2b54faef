package bcsio

import (
	"testing"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetvalRoundTrip(t *testing.T) {
	c := Contribution()
	binding, err := c.RPCs["getval"].Binding(packet.MethodGet)
	require.NoError(t, err)

	asm := codec.NewAssembler(0)
	require.NoError(t, binding.Build(asm, []codec.Value{codec.UInt8Value(3)}))
	assert.Equal(t, []byte{3}, asm.Assemble())

	raw := []byte{0x00, 0x00, 0x01, 0x2c} // 300
	result, err := binding.Parse(codec.NewByteRange(raw, 0, len(raw)-1))
	require.NoError(t, err)
	assert.Equal(t, codec.Int32Value(300), result["value"])
}

func TestSetvalRoundTrip(t *testing.T) {
	c := Contribution()
	binding, err := c.RPCs["setval"].Binding(packet.MethodPost)
	require.NoError(t, err)

	asm := codec.NewAssembler(0)
	require.NoError(t, binding.Build(asm, []codec.Value{
		codec.UInt8Value(2),
		codec.UInt8ArrayValue{1, 2, 3},
	}))
	assert.Equal(t, []byte{2, 3, 1, 2, 3}, asm.Assemble())

	result, err := binding.Parse(codec.NewByteRange(nil, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestGetmodeRoundTrip(t *testing.T) {
	c := Contribution()
	binding, err := c.RPCs["getmode"].Binding(packet.MethodGet)
	require.NoError(t, err)

	raw := []byte{0x02}
	result, err := binding.Parse(codec.NewByteRange(raw, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, codec.UInt8Value(2), result["mode"])
}
