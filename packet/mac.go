package packet

import (
	"fmt"
	"strconv"
	"strings"
)

// MAC is a six-byte Bowler device address.
type MAC [6]byte

// Broadcast is the all-devices MAC address (six 0xFF bytes).
var Broadcast = MAC{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// IsBroadcast reports whether m is the broadcast address.
func (m MAC) IsBroadcast() bool { return m == Broadcast }

// String formats m as a colon-separated upper-hex string.
func (m MAC) String() string {
	parts := make([]string, 6)
	for i, b := range m {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}

// ParseMAC parses a colon-separated upper-hex MAC string (e.g.
// "AA:BB:CC:DD:EE:FF").
func ParseMAC(s string) (MAC, error) {
	var m MAC
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return m, fmt.Errorf("%w: %q (expected 6 colon-separated bytes)", ErrInvalidMAC, s)
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return m, fmt.Errorf("%w: %q: %v", ErrInvalidMAC, s, err)
		}
		m[i] = byte(v)
	}
	return m, nil
}
