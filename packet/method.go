// Package packet implements the Bowler wire packet codec (header layout,
// checksum, parse/assemble) and the stream framing parser that splits a
// raw byte stream into complete packet slices.
package packet

import "fmt"

// Method is a Bowler RPC method, semantically analogous to an HTTP verb.
type Method uint8

// The five Bowler methods and their wire codes.
const (
	MethodStatus   Method = 0x00
	MethodGet      Method = 0x10
	MethodPost     Method = 0x20
	MethodCritical Method = 0x30
	MethodAsync    Method = 0x40
)

func (m Method) String() string {
	switch m {
	case MethodStatus:
		return "status"
	case MethodGet:
		return "get"
	case MethodPost:
		return "post"
	case MethodCritical:
		return "critical"
	case MethodAsync:
		return "async"
	default:
		return fmt.Sprintf("Method(0x%02x)", uint8(m))
	}
}

// MethodFromByte maps a wire method byte to a Method.
func MethodFromByte(b byte) (Method, error) {
	switch Method(b) {
	case MethodStatus, MethodGet, MethodPost, MethodCritical, MethodAsync:
		return Method(b), nil
	default:
		return 0, fmt.Errorf("%w: method byte 0x%02x", ErrUnknownMethod, b)
	}
}

// DefaultRecvMethod returns the method a reply is expected on for a given
// send method, for contrib packages that don't need a non-default mapping.
// Idempotent query methods (Get, Post, Status) echo their own method back;
// the two fire-and-acknowledge methods (Critical, Async) are acknowledged on
// Status, since the device has nothing method-specific to echo.
func DefaultRecvMethod(send Method) Method {
	switch send {
	case MethodCritical, MethodAsync:
		return MethodStatus
	default:
		return send
	}
}
