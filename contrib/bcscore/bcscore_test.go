package bcscore

import (
	"testing"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingRoundTrip(t *testing.T) {
	c := Contribution()
	entry := c.RPCs["_png"]
	binding, err := entry.Binding(packet.MethodGet)
	require.NoError(t, err)

	asm := codec.NewAssembler(0)
	require.NoError(t, binding.Build(asm, nil))
	assert.Equal(t, 0, asm.Length())

	result, err := binding.Parse(codec.NewByteRange(nil, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestNmsRoundTrip(t *testing.T) {
	c := Contribution()
	entry := c.RPCs["_nms"]
	binding, err := entry.Binding(packet.MethodGet)
	require.NoError(t, err)

	asm := codec.NewAssembler(0)
	require.NoError(t, binding.Build(asm, []codec.Value{codec.UInt8Value(2)}))
	assert.Equal(t, []byte{2}, asm.Assemble())

	raw := []byte("bcs.core;1.0.0\x00\x03")
	result, err := binding.Parse(codec.NewByteRange(raw, 0, len(raw)-1))
	require.NoError(t, err)
	assert.Equal(t, codec.ByteBufferValue(raw), result["raw"])
}

func TestNmsBuildRejectsWrongArgCount(t *testing.T) {
	c := Contribution()
	entry := c.RPCs["_nms"]
	binding, _ := entry.Binding(packet.MethodGet)
	asm := codec.NewAssembler(0)
	assert.Error(t, binding.Build(asm, nil))
}
