// Package transport defines the duplex byte channel a dispatch.Device talks
// over. It deliberately knows nothing about serial ports, sockets, or any
// other concrete medium: the physical link is an external collaborator the
// core only ever sees as "write bytes out, receive chunks of bytes back".
package transport

// ChunkHandler receives a raw, arbitrarily-sized chunk of bytes read off
// the transport. It is called on whatever goroutine the Transport
// implementation uses to read; it must not block for long.
type ChunkHandler func(chunk []byte)

// ErrorHandler is invoked once, with a fatal error, when the transport can
// no longer be used (closed, I/O error, ...). After it fires no further
// ChunkHandler calls will occur.
type ErrorHandler func(err error)

// Transport is a duplex byte channel: something that can be opened, be
// written to, and that delivers received bytes and fatal errors through
// callbacks registered before Open is called.
type Transport interface {
	// SetHandlers registers the callbacks that receive incoming chunks and
	// fatal errors. It must be called before Open.
	SetHandlers(onChunk ChunkHandler, onError ErrorHandler)

	// Open establishes the underlying connection and starts delivering
	// chunks to the registered ChunkHandler. It does not block.
	Open() error

	// Write sends b out over the transport. Implementations must be safe
	// for concurrent use alongside chunk delivery, but dispatch.Device
	// already serializes its own writes onto one goroutine.
	Write(b []byte) error

	// Close releases the underlying connection. After Close, Write returns
	// an error and no more chunks are delivered.
	Close() error
}
