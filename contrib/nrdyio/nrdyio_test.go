package nrdyio

import (
	"testing"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPwrIsMultiMethod(t *testing.T) {
	c := Contribution()
	pwr := c.RPCs["_pwr"]
	assert.True(t, pwr.IsMultiMethod())

	critical, err := pwr.Binding(packet.MethodCritical)
	require.NoError(t, err)
	asm := codec.NewAssembler(0)
	require.NoError(t, critical.Build(asm, []codec.Value{codec.BoolValue(true)}))
	assert.Equal(t, []byte{0x01}, asm.Assemble())
	assert.Equal(t, packet.MethodStatus, critical.Recv)

	get, err := pwr.Binding(packet.MethodGet)
	require.NoError(t, err)
	result, err := get.Parse(codec.NewByteRange([]byte{0x01}, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, codec.BoolValue(true), result["powered"])
}

func TestRevAndInfo(t *testing.T) {
	c := Contribution()

	revBinding, err := c.RPCs["_rev"].Binding(packet.MethodGet)
	require.NoError(t, err)
	raw := append([]byte("v1.2.3"), 0x00)
	result, err := revBinding.Parse(codec.NewByteRange(raw, 0, len(raw)-1))
	require.NoError(t, err)
	assert.Equal(t, codec.NullTerminatedStringValue("v1.2.3"), result["revision"])

	infoBinding, err := c.RPCs["_info"].Binding(packet.MethodGet)
	require.NoError(t, err)
	raw = append([]byte("dyio rev4"), 0x00)
	result, err = infoBinding.Parse(codec.NewByteRange(raw, 0, len(raw)-1))
	require.NoError(t, err)
	assert.Equal(t, codec.NullTerminatedStringValue("dyio rev4"), result["info"])
}
