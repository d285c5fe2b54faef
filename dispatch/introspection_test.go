package dispatch

import (
	"testing"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
	"github.com/mdzio/go-bowler/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestImportRPCDoesNotClobberHandWrittenBinding exercises §4.6's promise
// that introspection augments a contrib-supplied RpcEntry rather than
// replacing a send method it already binds.
func TestImportRPCDoesNotClobberHandWrittenBinding(t *testing.T) {
	dev := NewDevice(transport.NewMock(), testMAC, Options{RequestTimeoutMillis: 500})
	t.Cleanup(dev.Close)

	handWritten := registry.NewRpcEntry(registry.MethodBinding{
		Send: packet.MethodPost,
		Recv: packet.MethodPost,
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			return nil
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			return registry.Result{"source": codec.UInt8Value(1)}, nil
		},
	})
	require.True(t, dev.SupportsNamespace(registry.Contribution{
		Namespace: "bcs.hand",
		RPCs:      map[string]*registry.RpcEntry{"thing": handWritten},
	}))

	generic := registry.NewRpcEntry(registry.MethodBinding{
		Send: packet.MethodPost,
		Recv: packet.MethodPost,
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			return nil
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			return registry.Result{"source": codec.UInt8Value(2)}, nil
		},
	})
	// A second, genuinely new send method the generic path discovered.
	generic.Promote(registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.MethodGet,
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			return nil
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			return registry.Result{"source": codec.UInt8Value(3)}, nil
		},
	})

	dev.ImportRPC("bcs.hand", "thing", generic)

	entry, err := dev.Registry().Resolve("bcs.hand", "thing")
	require.NoError(t, err)

	postBinding, err := entry.Binding(packet.MethodPost)
	require.NoError(t, err)
	result, err := postBinding.Parse(codec.NewByteRange(nil, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, codec.UInt8Value(1), result["source"], "hand-written post binding must survive introspection")

	getBinding, err := entry.Binding(packet.MethodGet)
	require.NoError(t, err)
	result, err = getBinding.Parse(codec.NewByteRange(nil, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, codec.UInt8Value(3), result["source"], "the newly discovered get binding must still be merged in")
}
