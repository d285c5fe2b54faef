package packet

import (
	"bytes"
	"fmt"

	"github.com/mdzio/go-bowler/codec"
)

// ProtocolVersion is the only wire version this package speaks.
const ProtocolVersion uint8 = 0x03

// HeaderSize is the number of bytes in a packet header (up to and including
// the RPC name), before the body.
const HeaderSize = 15

// rpcNameLen is the fixed width of the RPC name field.
const rpcNameLen = 4

// MaxBodySize is the largest body a single packet can carry: the size byte
// counts the 4-byte RPC name plus the body, and is itself a single byte.
const MaxBodySize = 0xFF - rpcNameLen

// ParsedPacket is a fully decoded, checksum-verified Bowler packet.
type ParsedPacket struct {
	MAC           MAC
	Method        Method
	NamespaceID   uint8
	NamespaceName string
	Direction     uint8 // 0 = request, 1 = reply
	RPC           string
	Body          []byte
}

// Parse decodes a single packet from buf, which must hold exactly one
// packet's worth of bytes (use a Framer to carve packets out of a stream
// first). table resolves the wire namespace id embedded in the packet to a
// namespace name; a packet whose namespace id is not registered is rejected
// with ErrUnknownNamespaceID.
func Parse(buf []byte, table *NamespaceIDTable) (*ParsedPacket, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncatedPacket, len(buf), HeaderSize)
	}
	if buf[0] != ProtocolVersion {
		return nil, fmt.Errorf("%w: got 0x%02x, want 0x%02x", ErrBadVersion, buf[0], ProtocolVersion)
	}

	sum := checksum(buf[0:10])
	if buf[10] != sum {
		return nil, fmt.Errorf("%w: got 0x%02x, computed 0x%02x", ErrBadChecksum, buf[10], sum)
	}

	nsByte := buf[8]
	namespaceID := nsByte & 0x7F
	direction := nsByte >> 7

	size := buf[9]
	if int(size) < rpcNameLen {
		return nil, fmt.Errorf("%w: size byte %d shorter than RPC name field", ErrTruncatedPacket, size)
	}
	bodyLen := int(size) - rpcNameLen
	if len(buf) < HeaderSize+bodyLen {
		return nil, fmt.Errorf("%w: declared body length %d exceeds available %d bytes", ErrTruncatedPacket, bodyLen, len(buf)-HeaderSize)
	}

	method, err := MethodFromByte(buf[7])
	if err != nil {
		return nil, err
	}

	name, ok := table.NameForID(namespaceID)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownNamespaceID, namespaceID)
	}

	var mac MAC
	copy(mac[:], buf[1:7])

	rpc := decodeRPCName(buf[11:15])

	var body []byte
	if bodyLen > 0 {
		body = make([]byte, bodyLen)
		copy(body, buf[HeaderSize:HeaderSize+bodyLen])
	}

	return &ParsedPacket{
		MAC:           mac,
		Method:        method,
		NamespaceID:   namespaceID,
		NamespaceName: name,
		Direction:     direction,
		RPC:           rpc,
		Body:          body,
	}, nil
}

// AssembleRequest describes a packet to build.
type AssembleRequest struct {
	MAC       MAC
	Method    Method
	Namespace string
	Direction uint8
	RPC       string
	// BuildBody appends the packet body to a fresh codec.PacketAssembler
	// based at offset 15. It may be nil for bodyless packets (e.g. a
	// bcs.core._png ping).
	BuildBody func(body *codec.PacketAssembler) error
}

// Assemble builds a complete, checksummed wire packet from req. table
// resolves req.Namespace to its wire id; an unregistered namespace name is
// an error.
func Assemble(req AssembleRequest, table *NamespaceIDTable) ([]byte, error) {
	nsID, ok := table.IDForName(req.Namespace)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespaceID, req.Namespace)
	}

	rpcBytes, err := encodeRPCName(req.RPC)
	if err != nil {
		return nil, err
	}

	header := codec.NewAssembler(0)
	header.WriteByte(0, ProtocolVersion)
	header.WriteBytes(1, req.MAC[:])
	header.WriteByte(7, byte(req.Method))
	header.WriteByte(8, (req.Direction&0x01)<<7|(nsID&0x7F))
	header.WriteBytes(11, rpcBytes)

	body := codec.NewAssembler(HeaderSize)
	if req.BuildBody != nil {
		if err := req.BuildBody(body); err != nil {
			return nil, err
		}
	}

	size := rpcNameLen + body.Length()
	if size > 0xFF {
		return nil, fmt.Errorf("%w: body of %d bytes makes packet too large for a single-byte size field", ErrFraming, body.Length())
	}
	header.WriteByte(9, byte(size))

	// Bytes 0-9 (version through size) are now fully written; the checksum
	// covers exactly that range and nothing else.
	partial := header.Assemble()
	header.WriteByte(10, checksum(partial[0:10]))

	header.Append(body)
	return header.Assemble(), nil
}

// checksum sums b modulo 256.
func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return sum
}

// encodeRPCName zero-pads or rejects an RPC name to the fixed 4-byte wire
// field.
func encodeRPCName(name string) ([]byte, error) {
	if len(name) > rpcNameLen {
		return nil, fmt.Errorf("packet: RPC name %q longer than %d bytes", name, rpcNameLen)
	}
	out := make([]byte, rpcNameLen)
	copy(out, name)
	return out, nil
}

// decodeRPCName trims the trailing NUL padding off a 4-byte RPC name field.
func decodeRPCName(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}
