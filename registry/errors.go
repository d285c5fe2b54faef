package registry

import "errors"

// Registry errors.
var (
	ErrUndefinedNamespace = errors.New("registry: undefined namespace")
	ErrUndefinedRpc       = errors.New("registry: undefined rpc")
	ErrUnsupportedMethod  = errors.New("registry: unsupported method for rpc")
)
