package dispatch

// Options configures a Device's Connect sequence.
type Options struct {
	// IntrospectNamespaces runs namespace discovery (bcs.core._nms) during
	// Connect. DefaultOptions sets it to true.
	IntrospectNamespaces bool

	// IntrospectRPCs additionally discovers every RPC of every namespace
	// (bcs.rpc._rpc / bcs.rpc.args) during Connect. DefaultOptions sets it to
	// false: most callers statically link the contrib packages they need and
	// only want namespace-id resolution from the device itself.
	IntrospectRPCs bool

	// HeartbeatMillis is the period of the periodic bcs.core._png keepalive
	// started after Connect finishes. Nil disables the heartbeat.
	HeartbeatMillis *uint32

	// RequestTimeoutMillis is how long a call waits for its matching reply
	// before failing with ErrTimeout.
	RequestTimeoutMillis uint32
}

// defaultHeartbeatMillis is DefaultOptions' heartbeat period.
const defaultHeartbeatMillis = uint32(3000)

// DefaultOptions returns the default options: namespace introspection on,
// RPC introspection off, a 3s heartbeat, and a 2s request timeout. NewDevice
// uses the Options it is given as they are; it fills in none of these
// defaults for zero-valued fields.
func DefaultOptions() Options {
	hb := defaultHeartbeatMillis
	return Options{
		IntrospectNamespaces: true,
		IntrospectRPCs:       false,
		HeartbeatMillis:      &hb,
		RequestTimeoutMillis: 2000,
	}
}
