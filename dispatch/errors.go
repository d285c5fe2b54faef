package dispatch

import "errors"

// Dispatch errors.
var (
	ErrTimeout                  = errors.New("dispatch: call timed out")
	ErrCancelled                = errors.New("dispatch: call cancelled")
	ErrTransportClosed          = errors.New("dispatch: transport closed")
	ErrIntrospectionUnsupported = errors.New("dispatch: introspection unsupported by device")
)
