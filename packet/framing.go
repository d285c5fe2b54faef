package packet

// MaxPacketSize is a defensive ceiling on how many bytes a Framer will ever
// retain. A well-formed packet can be at most HeaderSize+MaxBodySize long,
// so this should never actually be reached in practice; it exists as a
// backstop against runaway buffering should tryExtract's bookkeeping ever
// regress.
const MaxPacketSize = 1024

// Framer turns a stream of arbitrary-sized chunks into a sequence of
// complete, unparsed packet slices. It never blocks and never drops bytes
// that might still belong to a packet: a malformed header is recovered from
// by discarding exactly one byte and trying again at the next offset.
type Framer struct {
	buf []byte
}

// NewFramer returns an empty Framer.
func NewFramer() *Framer {
	return &Framer{}
}

// Push appends a newly received chunk and returns every complete packet
// slice it can now extract, in order. Returned slices are owned by the
// caller and safe to retain; a partial trailing packet is kept internally
// for the next Push.
func (f *Framer) Push(chunk []byte) ([][]byte, error) {
	f.buf = append(f.buf, chunk...)

	var packets [][]byte
	for {
		pkt, consumed, resync := f.tryExtract()
		if consumed == 0 {
			break
		}
		f.buf = f.buf[consumed:]
		if resync {
			continue
		}
		packets = append(packets, pkt)
	}

	if len(f.buf) > MaxPacketSize {
		return packets, ErrFraming
	}
	return packets, nil
}

// tryExtract attempts to pull one packet off the front of f.buf. It returns
// (packet, bytesConsumed, resync). bytesConsumed == 0 means "need more data,
// try again after the next Push". resync == true means a single garbage
// byte was discarded and the caller should immediately retry rather than
// treat the returned slice as a packet.
func (f *Framer) tryExtract() ([]byte, int, bool) {
	if len(f.buf) < HeaderSize {
		return nil, 0, false
	}
	if f.buf[0] != ProtocolVersion {
		return nil, 1, true
	}

	size := f.buf[9]
	if int(size) < rpcNameLen {
		return nil, 1, true
	}
	total := HeaderSize + int(size) - rpcNameLen

	if len(f.buf) < total {
		return nil, 0, false
	}

	pkt := make([]byte, total)
	copy(pkt, f.buf[:total])
	return pkt, total, false
}

// Pending returns the number of bytes currently buffered waiting for more
// data to complete a packet.
func (f *Framer) Pending() int {
	return len(f.buf)
}
