package codec

// instruction is one deferred write: data goes at the buffer's absolute
// offset (already shifted by the owning assembler's base).
type instruction struct {
	offset int
	data   []byte
}

// PacketAssembler is an append-only list of deferred write instructions.
// Assembly is pure and idempotent: Assemble allocates a fresh buffer every
// time and replays the recorded instructions in insertion order, so an
// assembler can be reused or appended into another assembler any number of
// times without side effects.
type PacketAssembler struct {
	base         int
	instructions []instruction
	high         int // highest absolute offset written + its length - 1; -1 if empty
}

// NewAssembler returns a PacketAssembler whose local offset 0 corresponds to
// absolute offset base in the final buffer.
func NewAssembler(base int) *PacketAssembler {
	return &PacketAssembler{base: base, high: base - 1}
}

// Length returns the assembler's local length: the number of bytes from its
// base offset through the high-water mark of everything written so far.
func (a *PacketAssembler) Length() int {
	if a.high < a.base {
		return 0
	}
	return a.high - a.base + 1
}

// WriteByte records a single byte at localOffset.
func (a *PacketAssembler) WriteByte(localOffset int, b byte) {
	a.WriteBytes(localOffset, []byte{b})
}

// WriteBytes records data at localOffset.
func (a *PacketAssembler) WriteBytes(localOffset int, data []byte) {
	if len(data) == 0 {
		return
	}
	abs := a.base + localOffset
	cp := make([]byte, len(data))
	copy(cp, data)
	a.instructions = append(a.instructions, instruction{offset: abs, data: cp})
	if end := abs + len(cp) - 1; end > a.high {
		a.high = end
	}
}

// WriteValue serializes v as type t and records it at localOffset, returning
// the number of bytes that will be written.
func (a *PacketAssembler) WriteValue(localOffset int, t Type, v Value) (int, error) {
	width, err := Default.Width(t, v)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, width)
	n, err := Default.Serialize(t, v, buf, 0)
	if err != nil {
		return 0, err
	}
	a.WriteBytes(localOffset, buf[:n])
	return n, nil
}

// Append concatenates other's instructions into a and lifts a's high-water
// mark to cover other's, if that extends further. other's instructions keep
// whatever absolute offsets they were recorded with (typically a different
// base than a's), which is exactly how a packet's header assembler (base 0)
// absorbs its body assembler (base 15).
func (a *PacketAssembler) Append(other *PacketAssembler) *PacketAssembler {
	a.instructions = append(a.instructions, other.instructions...)
	if other.high > a.high {
		a.high = other.high
	}
	return a
}

// Assemble allocates a zero-filled buffer sized to the overall high-water
// mark (relative to absolute offset 0, not a's base) and applies every
// recorded instruction in insertion order.
func (a *PacketAssembler) Assemble() []byte {
	total := a.high + 1
	if total < 0 {
		total = 0
	}
	buf := make([]byte, total)
	for _, instr := range a.instructions {
		copy(buf[instr.offset:], instr.data)
	}
	return buf
}
