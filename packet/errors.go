package packet

import "errors"

// Packet and framing errors.
var (
	ErrBadVersion         = errors.New("packet: bad protocol version")
	ErrBadChecksum        = errors.New("packet: bad checksum")
	ErrUnknownNamespaceID = errors.New("packet: unknown namespace id")
	ErrTruncatedPacket    = errors.New("packet: truncated packet")
	ErrUnknownMethod      = errors.New("packet: unknown method")
	ErrInvalidMAC         = errors.New("packet: invalid MAC address")
	ErrFraming            = errors.New("packet: unrecoverable framing error")
)
