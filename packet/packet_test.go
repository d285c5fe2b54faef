package packet

import (
	"testing"

	"github.com/mdzio/go-bowler/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblePing(t *testing.T) {
	table := NewNamespaceIDTable()

	buf, err := Assemble(AssembleRequest{
		MAC:       Broadcast,
		Method:    MethodGet,
		Namespace: "bcs.core",
		Direction: 0,
		RPC:       "_png",
	}, table)
	require.NoError(t, err)

	want := []byte{
		0x03,                               // version
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // MAC broadcast
		0x10,             // method: get
		0x00,             // namespace 0, direction 0
		0x04,             // size: 4-byte RPC name + 0-byte body
		checksum([]byte{0x03, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x10, 0x00, 0x04}),
		'_', 'p', 'n', 'g',
	}
	assert.Equal(t, want, buf)
}

func TestParsePing(t *testing.T) {
	table := NewNamespaceIDTable()
	sum := checksum([]byte{0x03, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x10, 0x00, 0x04})
	raw := []byte{0x03, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x10, 0x00, 0x04, sum, '_', 'p', 'n', 'g'}

	pkt, err := Parse(raw, table)
	require.NoError(t, err)
	assert.Equal(t, Broadcast, pkt.MAC)
	assert.Equal(t, MethodGet, pkt.Method)
	assert.Equal(t, uint8(0), pkt.NamespaceID)
	assert.Equal(t, "bcs.core", pkt.NamespaceName)
	assert.Equal(t, uint8(0), pkt.Direction)
	assert.Equal(t, "_png", pkt.RPC)
	assert.Empty(t, pkt.Body)
}

func TestAssembleParseRoundTrip(t *testing.T) {
	table := NewNamespaceIDTable()
	table.Set(5, "bcs.io")

	mac, err := ParseMAC("01:02:03:04:05:06")
	require.NoError(t, err)

	buf, err := Assemble(AssembleRequest{
		MAC:       mac,
		Method:    MethodPost,
		Namespace: "bcs.io",
		Direction: 1,
		RPC:       "gtvl",
		BuildBody: func(b *codec.PacketAssembler) error {
			_, err := b.WriteValue(0, codec.TypeUInt8, codec.UInt8Value(7))
			return err
		},
	}, table)
	require.NoError(t, err)

	pkt, err := Parse(buf, table)
	require.NoError(t, err)
	assert.Equal(t, mac, pkt.MAC)
	assert.Equal(t, MethodPost, pkt.Method)
	assert.Equal(t, uint8(5), pkt.NamespaceID)
	assert.Equal(t, "bcs.io", pkt.NamespaceName)
	assert.Equal(t, uint8(1), pkt.Direction)
	assert.Equal(t, "gtvl", pkt.RPC)
	assert.Equal(t, []byte{7}, pkt.Body)
}

func TestParseBadVersion(t *testing.T) {
	table := NewNamespaceIDTable()
	raw := make([]byte, HeaderSize)
	raw[0] = 0x02
	_, err := Parse(raw, table)
	assert.ErrorIs(t, err, ErrBadVersion)
}

func TestParseBadChecksum(t *testing.T) {
	table := NewNamespaceIDTable()
	raw := []byte{0x03, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x10, 0x00, 0x04, 0x00, '_', 'p', 'n', 'g'}
	_, err := Parse(raw, table)
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func TestParseUnknownNamespace(t *testing.T) {
	table := NewNamespaceIDTable()
	header := []byte{0x03, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x10, 0x09, 0x04}
	raw := append(append([]byte{}, header...), checksum(header), '_', 'p', 'n', 'g')
	_, err := Parse(raw, table)
	assert.ErrorIs(t, err, ErrUnknownNamespaceID)
}

func TestParseTruncated(t *testing.T) {
	table := NewNamespaceIDTable()
	_, err := Parse([]byte{0x03, 0x00}, table)
	assert.ErrorIs(t, err, ErrTruncatedPacket)
}

func TestAssembleUnknownNamespace(t *testing.T) {
	table := NewNamespaceIDTable()
	_, err := Assemble(AssembleRequest{Namespace: "bcs.nope", RPC: "_png"}, table)
	assert.ErrorIs(t, err, ErrUnknownNamespaceID)
}

func TestEncodeRPCNameTooLong(t *testing.T) {
	table := NewNamespaceIDTable()
	_, err := Assemble(AssembleRequest{Namespace: "bcs.core", RPC: "toolong"}, table)
	require.Error(t, err)
}

func TestNamespaceIDTableReverseInvalidation(t *testing.T) {
	table := NewNamespaceIDTable()
	id, ok := table.IDForName("bcs.core")
	require.True(t, ok)
	assert.Equal(t, uint8(0), id)

	table.Set(3, "bcs.rpc")
	id, ok = table.IDForName("bcs.rpc")
	require.True(t, ok)
	assert.Equal(t, uint8(3), id)
}
