package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockWriteAndDeliver(t *testing.T) {
	m := NewMock()
	var got []byte
	m.SetHandlers(func(chunk []byte) { got = chunk }, nil)

	require.NoError(t, m.Open())
	require.NoError(t, m.Write([]byte{1, 2, 3}))
	assert.Equal(t, [][]byte{{1, 2, 3}}, m.Writes())

	m.Deliver([]byte{9, 9})
	assert.Equal(t, []byte{9, 9}, got)
}

func TestMockCloseRejectsWrite(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.Close())
	err := m.Write([]byte{1})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMockFailInvokesErrorHandler(t *testing.T) {
	m := NewMock()
	var got error
	m.SetHandlers(nil, func(err error) { got = err })

	boom := errors.New("boom")
	m.Fail(boom)
	assert.Equal(t, boom, got)
}

func TestMockOnWriteHook(t *testing.T) {
	m := NewMock()
	var receivedChunk []byte
	m.SetHandlers(func(chunk []byte) { receivedChunk = chunk }, nil)
	m.OnWrite = func(b []byte) {
		m.Deliver([]byte{0xAA})
	}

	require.NoError(t, m.Write([]byte{1}))
	assert.Equal(t, []byte{0xAA}, receivedChunk)
}
