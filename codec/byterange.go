package codec

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
)

// ByteRange is a non-destructive, read-only view over a sub-slice of an
// owning byte buffer, with an inclusive end offset. Every reader method that
// consumes a variable number of bytes records the count in consumed so a
// caller can chain reads without recomputing offsets by hand.
//
// Errors accumulate on the range instead of being returned from every method,
// a fluent-query idiom (itf/rpcmodel.go's xmlrpc.Query: TryKey/Idx/Slice plus
// a single terminal Err() check). Once err is set, every further read is a no-op that returns
// the zero value.
type ByteRange struct {
	buf      []byte
	start    int
	end      int // inclusive
	consumed int
	err      error
}

// NewByteRange returns a ByteRange over buf[start:end+1] (end is inclusive).
func NewByteRange(buf []byte, start, end int) *ByteRange {
	r := &ByteRange{buf: buf, start: start, end: end}
	if start < 0 || end < start-1 || end >= len(buf) {
		r.err = fmt.Errorf("%w: invalid byte range [%d,%d] over %d-byte buffer", ErrTruncatedInput, start, end, len(buf))
	}
	return r
}

// Len returns the number of bytes in the range.
func (r *ByteRange) Len() int {
	if r.end < r.start {
		return 0
	}
	return r.end - r.start + 1
}

// Err returns the first error recorded on this range, or nil.
func (r *ByteRange) Err() error { return r.err }

// Consumed returns how many bytes the most recent variable-width read
// consumed.
func (r *ByteRange) Consumed() int { return r.consumed }

func (r *ByteRange) fail(err error) *ByteRange {
	if r.err == nil {
		r.err = err
	}
	return r
}

// raw returns the range's bytes, or nil if an error has already been
// recorded.
func (r *ByteRange) raw() []byte {
	if r.err != nil {
		return nil
	}
	return r.buf[r.start : r.end+1]
}

// Byte returns the i'th byte of the range (0-based, relative to the range's
// start).
func (r *ByteRange) Byte(i int) byte {
	if r.err != nil {
		return 0
	}
	if r.start+i > r.end || i < 0 {
		r.fail(fmt.Errorf("%w: byte index %d out of range", ErrTruncatedInput, i))
		return 0
	}
	return r.buf[r.start+i]
}

// Bytes returns a new ByteRange covering [a,b] (inclusive, relative offsets
// from this range's start).
func (r *ByteRange) Bytes(a, b int) *ByteRange {
	if r.err != nil {
		return r
	}
	if a < 0 || b < a-1 || r.start+b > r.end {
		return &ByteRange{buf: r.buf, err: fmt.Errorf("%w: sub-range [%d,%d] out of bounds", ErrTruncatedInput, a, b)}
	}
	return &ByteRange{buf: r.buf, start: r.start + a, end: r.start + b}
}

// ToEnd extends the range to the end of the owning buffer.
func (r *ByteRange) ToEnd() *ByteRange {
	if r.err != nil {
		return r
	}
	return &ByteRange{buf: r.buf, start: r.start, end: len(r.buf) - 1}
}

// ToNull narrows the range to end at the first 0x00 byte found at or after
// start. If includeNull is true, the null byte itself is part of the
// returned range; otherwise it is excluded.
func (r *ByteRange) ToNull(includeNull bool) *ByteRange {
	if r.err != nil {
		return r
	}
	idx := bytes.IndexByte(r.buf[r.start:r.end+1], 0x00)
	if idx < 0 {
		return &ByteRange{buf: r.buf, err: fmt.Errorf("%w: no null terminator found", ErrTruncatedInput)}
	}
	absNull := r.start + idx
	end := absNull
	if !includeNull {
		end = absNull - 1
	}
	nr := &ByteRange{buf: r.buf, start: r.start, end: end}
	nr.consumed = idx + 1
	return nr
}

// MaskedWith returns a new range, backed by a freshly allocated buffer, with
// m bitwise-ANDed into every byte.
func (r *ByteRange) MaskedWith(m byte) *ByteRange {
	raw := r.raw()
	if raw == nil {
		return r
	}
	out := make([]byte, len(raw))
	for i, b := range raw {
		out[i] = b & m
	}
	return &ByteRange{buf: out, start: 0, end: len(out) - 1}
}

// Format passes the range's raw bytes to f, for callers that want to handle
// a field themselves (e.g. printing, hashing).
func (r *ByteRange) Format(f func([]byte)) *ByteRange {
	raw := r.raw()
	if raw == nil {
		return r
	}
	f(raw)
	return r
}

// MapEvery partitions the range into consecutive n-byte sub-ranges and
// invokes f on each. Len() must be a multiple of n.
func (r *ByteRange) MapEvery(n int, f func(*ByteRange)) *ByteRange {
	if r.err != nil {
		return r
	}
	if n <= 0 || r.Len()%n != 0 {
		return r.fail(fmt.Errorf("%w: range of %d bytes is not a multiple of %d", ErrTruncatedInput, r.Len(), n))
	}
	for off := 0; off < r.Len(); off += n {
		sub := r.Bytes(off, off+n-1)
		f(sub)
		if sub.err != nil {
			return r.fail(sub.err)
		}
	}
	return r
}

// ToInt reads the range as an auto-width integer: 1 byte yields a UInt8, 2
// bytes an Int16, 4 bytes an Int32 (all returned widened to int).
func (r *ByteRange) ToInt() int {
	raw := r.raw()
	if raw == nil {
		return 0
	}
	switch len(raw) {
	case 1:
		return int(raw[0])
	case 2:
		return int(getInt16(raw))
	case 4:
		return int(getInt32(raw))
	default:
		r.fail(fmt.Errorf("%w: range of %d bytes has no auto-width integer reading", ErrTruncatedInput, len(raw)))
		return 0
	}
}

// ToString decodes the range as a string using enc (nil for raw/ASCII),
// stopping at the first null byte if present (a convenience for fields that
// are fixed-width but null-padded).
func (r *ByteRange) ToString(enc encoding.Encoding) string {
	raw := r.raw()
	if raw == nil {
		return ""
	}
	if idx := bytes.IndexByte(raw, 0x00); idx >= 0 {
		raw = raw[:idx]
	}
	s, err := decodeString(raw, enc)
	if err != nil {
		r.fail(err)
		return ""
	}
	return s
}

// ToRawString decodes the full range (no null stripping) as a string using
// enc (nil for raw/ASCII).
func (r *ByteRange) ToRawString(enc encoding.Encoding) string {
	raw := r.raw()
	if raw == nil {
		return ""
	}
	s, err := decodeString(raw, enc)
	if err != nil {
		r.fail(err)
		return ""
	}
	return s
}

// ToBuffer returns a copy of the range's raw bytes.
func (r *ByteRange) ToBuffer() []byte {
	raw := r.raw()
	if raw == nil {
		return nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}

// ToUInt8Array returns a copy of the range's raw bytes as a uint8 array.
func (r *ByteRange) ToUInt8Array() []uint8 {
	return r.ToBuffer()
}

// ToInt32Array interprets the range as a sequence of big-endian Int32
// values (no length prefix; Len() must be a multiple of 4).
func (r *ByteRange) ToInt32Array() []int32 {
	raw := r.raw()
	if raw == nil {
		return nil
	}
	if len(raw)%4 != 0 {
		r.fail(fmt.Errorf("%w: range of %d bytes is not a multiple of 4", ErrTruncatedInput, len(raw)))
		return nil
	}
	out := make([]int32, len(raw)/4)
	for i := range out {
		out[i] = getInt32(raw[i*4:])
	}
	return out
}

// ToBool interprets the first byte of the range as a boolean (non-zero is
// true).
func (r *ByteRange) ToBool() bool {
	raw := r.raw()
	if raw == nil || len(raw) < 1 {
		r.fail(fmt.Errorf("%w: need 1 byte for ToBool", ErrTruncatedInput))
		return false
	}
	return raw[0] != 0
}

// LookupIn uses the range's first byte as a key into table and returns the
// mapped value.
func (r *ByteRange) LookupIn(table map[byte]string) string {
	raw := r.raw()
	if raw == nil || len(raw) < 1 {
		r.fail(fmt.Errorf("%w: need 1 byte for LookupIn", ErrTruncatedInput))
		return ""
	}
	v, ok := table[raw[0]]
	if !ok {
		r.fail(fmt.Errorf("codec: byte 0x%02x has no entry in lookup table", raw[0]))
		return ""
	}
	return v
}
