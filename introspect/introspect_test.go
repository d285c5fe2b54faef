package introspect

import (
	"fmt"
	"testing"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCaller answers CallBlocking from a canned table keyed by
// "namespace#rpc:arg0,arg1,...".
type fakeCaller struct {
	replies map[string]registry.Result
	errs    map[string]error
}

func (f *fakeCaller) key(namespace, rpc string, args []codec.Value) string {
	k := namespace + "#" + rpc + ":"
	for i, a := range args {
		if i > 0 {
			k += ","
		}
		k += fmt.Sprintf("%v", a)
	}
	return k
}

func (f *fakeCaller) CallBlocking(namespace, rpc string, method packet.Method, args ...codec.Value) (registry.Result, error) {
	k := f.key(namespace, rpc, args)
	if err, ok := f.errs[k]; ok {
		return nil, err
	}
	res, ok := f.replies[k]
	if !ok {
		return nil, fmt.Errorf("fakeCaller: no reply scripted for %s", k)
	}
	return res, nil
}

type fakeTarget struct {
	names map[uint8]string
	rpcs  map[string]*registry.RpcEntry
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{names: map[uint8]string{}, rpcs: map[string]*registry.RpcEntry{}}
}

func (f *fakeTarget) SetNamespaceID(id uint8, name string) { f.names[id] = name }
func (f *fakeTarget) NamespaceName(id uint8) (string, bool) {
	n, ok := f.names[id]
	return n, ok
}
func (f *fakeTarget) NamespaceIDs() []uint8 {
	ids := make([]uint8, 0, len(f.names))
	for id := range f.names {
		ids = append(ids, id)
	}
	return ids
}
func (f *fakeTarget) ImportRPC(namespace, rpcName string, entry *registry.RpcEntry) {
	f.rpcs[namespace+"#"+rpcName] = entry
}

func nmsResult(name, version string, count int) registry.Result {
	raw := []byte(fmt.Sprintf("%s;%s\x00%c", name, version, byte(count)))
	return registry.Result{"raw": codec.ByteBufferValue(raw)}
}

func TestNamespacesWalksUntilCount(t *testing.T) {
	caller := &fakeCaller{replies: map[string]registry.Result{
		"bcs.core#_nms:0": nmsResult("bcs.core", "1.0.0", 2),
		"bcs.core#_nms:1": nmsResult("bcs.io", "1.0.0", 2),
	}}
	target := newFakeTarget()

	count, err := Namespaces(caller, target)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "bcs.core", target.names[0])
	assert.Equal(t, "bcs.io", target.names[1])
}

func TestNamespacesPropagatesCallError(t *testing.T) {
	caller := &fakeCaller{errs: map[string]error{"bcs.core#_nms:0": assertErr}}
	target := newFakeTarget()
	_, err := Namespaces(caller, target)
	assert.ErrorIs(t, err, assertErr)
}

var assertErr = fmt.Errorf("boom")

func TestRPCsStopsOnEmptyName(t *testing.T) {
	caller := &fakeCaller{replies: map[string]registry.Result{
		"bcs.rpc#_rpc:1,0": {"name": codec.NullTerminatedStringValue("getval")},
		"bcs.rpc#args:1,0": {
			"send_method": codec.UInt8Value(0x10),
			"send_types":  codec.UInt8ArrayValue{8},
			"recv_method": codec.UInt8Value(0x10),
			"recv_types":  codec.UInt8ArrayValue{32},
		},
		"bcs.rpc#_rpc:1,1": {"name": codec.NullTerminatedStringValue("")},
	}}
	target := newFakeTarget()
	target.SetNamespaceID(1, "bcs.io")

	err := RPCs(caller, target)
	require.NoError(t, err)

	entry, ok := target.rpcs["bcs.io#getval"]
	require.True(t, ok)
	assert.False(t, entry.IsMultiMethod())

	binding, err := entry.Binding(packet.MethodGet)
	require.NoError(t, err)
	asm := codec.NewAssembler(0)
	require.NoError(t, binding.Build(asm, []codec.Value{codec.UInt8Value(3)}))
	assert.Equal(t, []byte{3}, asm.Assemble())

	result, err := binding.Parse(codec.NewByteRange([]byte{0, 0, 0, 42}, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, codec.Int32Value(42), result["arg0"])
}

func TestRPCsPropagatesArgsError(t *testing.T) {
	caller := &fakeCaller{replies: map[string]registry.Result{
		"bcs.rpc#_rpc:1,0": {"name": codec.NullTerminatedStringValue("weird")},
		// args reply deliberately missing recv_method
		"bcs.rpc#args:1,0": {
			"send_method": codec.UInt8Value(0x10),
			"send_types":  codec.UInt8ArrayValue{},
		},
	}}
	target := newFakeTarget()
	target.SetNamespaceID(1, "bcs.io")

	err := RPCs(caller, target)
	assert.Error(t, err)
}

func TestParseNms(t *testing.T) {
	name, version, count, err := parseNms([]byte("bcs.core;1.0.0\x00\x03"))
	require.NoError(t, err)
	assert.Equal(t, "bcs.core", name)
	assert.Equal(t, "1.0.0", version)
	assert.Equal(t, 3, count)

	_, _, _, err = parseNms([]byte("no-semicolon"))
	assert.Error(t, err)

	_, _, _, err = parseNms([]byte("name;version-no-null"))
	assert.Error(t, err)
}
