package packet

import "sync"

// coreNamespace is the one namespace every Bowler device has before any
// introspection has run.
const coreNamespace = "bcs.core"

// NamespaceIDTable maps wire namespace ids (0-127, since bit 7 of the
// namespace byte is the direction flag, not part of the id) to dotted
// namespace names. It always starts with 0x00 -> "bcs.core"; introspection
// fills in the rest. A reverse (name -> id) map is derived on demand and
// invalidated whenever the forward map changes.
type NamespaceIDTable struct {
	mu      sync.RWMutex
	byID    map[uint8]string
	reverse map[string]uint8
	// reverseValid is false whenever byID has changed since reverse was last
	// built; IDForName rebuilds it lazily.
	reverseValid bool
}

// NewNamespaceIDTable returns a table pre-populated with 0x00 -> "bcs.core".
func NewNamespaceIDTable() *NamespaceIDTable {
	t := &NamespaceIDTable{byID: make(map[uint8]string)}
	t.byID[0x00] = coreNamespace
	return t
}

// Set records id -> name, invalidating the cached reverse map.
func (t *NamespaceIDTable) Set(id uint8, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byID[id] = name
	t.reverseValid = false
}

// NameForID returns the namespace name registered for id, if any.
func (t *NamespaceIDTable) NameForID(id uint8) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	name, ok := t.byID[id]
	return name, ok
}

// IDForName returns the wire id registered for name, if any. The reverse
// index is built lazily and cached until the next Set.
func (t *NamespaceIDTable) IDForName(name string) (uint8, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.reverseValid {
		t.reverse = make(map[string]uint8, len(t.byID))
		for id, n := range t.byID {
			t.reverse[n] = id
		}
		t.reverseValid = true
	}
	id, ok := t.reverse[name]
	return id, ok
}

// IDs returns a snapshot of all registered wire ids.
func (t *NamespaceIDTable) IDs() []uint8 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]uint8, 0, len(t.byID))
	for id := range t.byID {
		out = append(out, id)
	}
	return out
}

// Allocate returns the wire id already registered for name, assigning and
// recording the lowest unused id in [1,127] if name has none yet. It
// reports false if every id is already taken.
func (t *NamespaceIDTable) Allocate(name string) (uint8, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, n := range t.byID {
		if n == name {
			return id, true
		}
	}
	for id := uint8(1); id < 128; id++ {
		if _, used := t.byID[id]; !used {
			t.byID[id] = name
			t.reverseValid = false
			return id, true
		}
	}
	return 0, false
}
