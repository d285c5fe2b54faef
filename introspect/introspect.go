// Package introspect walks a connected device's namespace and RPC catalog
// by issuing the protocol's meta-RPCs (bcs.core._nms, bcs.rpc._rpc,
// bcs.rpc.args) and synthesizes generic builders/parsers from the type
// codes the device reports back. Each step is an ordinary blocking call;
// there is no background goroutine here, callers drive the walk to
// completion one request at a time.
package introspect

import (
	"bytes"
	"fmt"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
	"github.com/mdzio/go-logging"
)

var introspectLog = logging.Get("bowler-introspect")

// maxRPCsPerNamespace bounds the _rpc/j walk so a misbehaving device (one
// that never returns an empty name) cannot hang introspection forever. 255
// is already the wire ceiling (j is a single byte).
const maxRPCsPerNamespace = 255

// Caller issues one blocking RPC call and waits for its reply or timeout.
// dispatch.Device satisfies this directly: CallBlocking(ns, rpc, method,
// args...) resolves to Handle.Call(args...).Wait().
type Caller interface {
	CallBlocking(namespace, rpc string, method packet.Method, args ...codec.Value) (registry.Result, error)
}

// Target is where discovered namespaces and RPCs are recorded. dispatch.Device
// satisfies this by delegating to its NamespaceIDTable and Registry.
type Target interface {
	SetNamespaceID(id uint8, name string)
	NamespaceName(id uint8) (string, bool)
	NamespaceIDs() []uint8
	ImportRPC(namespace, rpcName string, entry *registry.RpcEntry)
}

// Namespaces walks bcs.core._nms from index 0, recording every namespace id
// the device reports, and returns the total namespace count it declared.
func Namespaces(caller Caller, target Target) (int, error) {
	name0, _, count, err := callNms(caller, 0)
	if err != nil {
		return 0, fmt.Errorf("introspect: namespace 0: %w", err)
	}
	target.SetNamespaceID(0, name0)
	introspectLog.Debugf("namespace 0: %s (%d total)", name0, count)

	for i := 1; i < count; i++ {
		name, _, _, err := callNms(caller, uint8(i))
		if err != nil {
			return 0, fmt.Errorf("introspect: namespace %d: %w", i, err)
		}
		target.SetNamespaceID(uint8(i), name)
		introspectLog.Debugf("namespace %d: %s", i, name)
	}
	return count, nil
}

func callNms(caller Caller, index uint8) (name, version string, count int, err error) {
	res, err := caller.CallBlocking("bcs.core", "_nms", packet.MethodGet, codec.UInt8Value(index))
	if err != nil {
		return "", "", 0, err
	}
	raw, ok := rawBytesField(res, "raw")
	if !ok {
		return "", "", 0, fmt.Errorf("_nms reply missing raw field")
	}
	return parseNms(raw)
}

// parseNms decodes "<name>;<version>\x00<count>" per the protocol's _nms
// wire format.
func parseNms(raw []byte) (name, version string, count int, err error) {
	semi := bytes.IndexByte(raw, ';')
	if semi < 0 {
		return "", "", 0, fmt.Errorf("_nms reply missing ';' separator")
	}
	name = string(raw[:semi])
	rest := raw[semi+1:]
	null := bytes.IndexByte(rest, 0x00)
	if null < 0 || null+1 >= len(rest) {
		return "", "", 0, fmt.Errorf("_nms reply missing null terminator or trailing count byte")
	}
	version = string(rest[:null])
	count = int(rest[null+1])
	return name, version, count, nil
}

// RPCs walks bcs.rpc._rpc and bcs.rpc.args for every namespace the target
// already knows about (normally populated by a prior Namespaces call), and
// imports a synthesized RpcEntry for each RPC discovered. An RPC already
// present in the registry is augmented (Promote) with the newly discovered
// method rather than replaced.
func RPCs(caller Caller, target Target) error {
	for _, id := range target.NamespaceIDs() {
		name, ok := target.NamespaceName(id)
		if !ok {
			continue
		}
		if err := rpcsForNamespace(caller, target, id, name); err != nil {
			return fmt.Errorf("introspect: rpcs for namespace %s: %w", name, err)
		}
	}
	return nil
}

func rpcsForNamespace(caller Caller, target Target, nsID uint8, nsName string) error {
	for j := 0; j < maxRPCsPerNamespace; j++ {
		rpcRes, err := caller.CallBlocking("bcs.rpc", "_rpc", packet.MethodGet, codec.UInt8Value(nsID), codec.UInt8Value(uint8(j)))
		if err != nil {
			return err
		}
		rpcName, ok := stringField(rpcRes, "name")
		if !ok || rpcName == "" {
			return nil
		}

		argsRes, err := caller.CallBlocking("bcs.rpc", "args", packet.MethodGet, codec.UInt8Value(nsID), codec.UInt8Value(uint8(j)))
		if err != nil {
			return err
		}
		entry, err := entryFromArgs(argsRes)
		if err != nil {
			return fmt.Errorf("rpc %s#%s: %w", nsName, rpcName, err)
		}
		target.ImportRPC(nsName, rpcName, entry)
		introspectLog.Debugf("namespace %s: discovered rpc %s (multi=%v)", nsName, rpcName, entry.IsMultiMethod())
	}
	return nil
}

func entryFromArgs(res registry.Result) (*registry.RpcEntry, error) {
	sendCode, ok := uint8Field(res, "send_method")
	if !ok {
		return nil, fmt.Errorf("args reply missing send_method")
	}
	recvCode, ok := uint8Field(res, "recv_method")
	if !ok {
		return nil, fmt.Errorf("args reply missing recv_method")
	}
	sendTypes, err := typeArrayField(res, "send_types")
	if err != nil {
		return nil, err
	}
	recvTypes, err := typeArrayField(res, "recv_types")
	if err != nil {
		return nil, err
	}

	send, err := packet.MethodFromByte(sendCode)
	if err != nil {
		return nil, err
	}
	recv, err := packet.MethodFromByte(recvCode)
	if err != nil {
		return nil, err
	}

	return registry.NewRpcEntry(registry.MethodBinding{
		Send:  send,
		Recv:  recv,
		Build: genericBuilder(sendTypes),
		Parse: genericParser(recvTypes),
	}), nil
}

// genericBuilder serializes positional arguments in the order the device
// declared them.
func genericBuilder(types []codec.Type) registry.BodyBuilder {
	return func(body *codec.PacketAssembler, args []codec.Value) error {
		if len(args) != len(types) {
			return fmt.Errorf("introspect: expected %d args, got %d", len(types), len(args))
		}
		offset := 0
		for i, t := range types {
			n, err := body.WriteValue(offset, t, args[i])
			if err != nil {
				return err
			}
			offset += n
		}
		return nil
	}
}

// genericParser deserializes declared receive-arg types in order into a
// Result keyed "arg0", "arg1", ... - the positions double as names since a
// generically-introspected RPC has no declared field names.
func genericParser(types []codec.Type) registry.BodyParser {
	return func(body *codec.ByteRange) (registry.Result, error) {
		buf := body.ToBuffer()
		if err := body.Err(); err != nil {
			return nil, err
		}
		result := make(registry.Result, len(types))
		offset := 0
		for i, t := range types {
			v, n, err := codec.Default.Deserialize(t, buf, offset, nil)
			if err != nil {
				return nil, err
			}
			result[fmt.Sprintf("arg%d", i)] = v
			offset += n
		}
		return result, nil
	}
}
