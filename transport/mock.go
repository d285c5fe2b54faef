package transport

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("transport: closed")

// Mock is an in-memory Transport for tests and examples. Bytes written to
// it are recorded; test code feeds simulated inbound chunks via Deliver,
// and production code never sees the difference from a real serial link.
type Mock struct {
	mu      sync.Mutex
	onChunk ChunkHandler
	onError ErrorHandler
	writes  [][]byte
	closed  bool

	// OnWrite, if set, is invoked synchronously inside Write after the
	// bytes are recorded. Tests use it to script replies: write the request
	// bytes, then synchronously Deliver a canned response.
	OnWrite func(b []byte)
}

// NewMock returns a ready-to-use Mock transport.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SetHandlers(onChunk ChunkHandler, onError ErrorHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChunk = onChunk
	m.onError = onError
}

func (m *Mock) Open() error {
	return nil
}

func (m *Mock) Write(b []byte) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	cp := append([]byte(nil), b...)
	m.writes = append(m.writes, cp)
	hook := m.OnWrite
	m.mu.Unlock()

	if hook != nil {
		hook(cp)
	}
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Deliver simulates an inbound chunk arriving from the device. After Close
// it delivers nothing.
func (m *Mock) Deliver(chunk []byte) {
	m.mu.Lock()
	h := m.onChunk
	if m.closed {
		h = nil
	}
	m.mu.Unlock()
	if h != nil {
		h(chunk)
	}
}

// Fail simulates a fatal transport error.
func (m *Mock) Fail(err error) {
	m.mu.Lock()
	h := m.onError
	m.mu.Unlock()
	if h != nil {
		h(err)
	}
}

// Writes returns every byte slice passed to Write so far, in order.
func (m *Mock) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}
