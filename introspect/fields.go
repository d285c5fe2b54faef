package introspect

import (
	"fmt"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/registry"
)

// rawBytesField reads key as an opaque byte buffer, accepting either a
// ByteBufferValue or UInt8ArrayValue (the two share a wire shape).
func rawBytesField(res registry.Result, key string) ([]byte, bool) {
	switch v := res[key].(type) {
	case codec.ByteBufferValue:
		return []byte(v), true
	case codec.UInt8ArrayValue:
		return []byte(v), true
	default:
		return nil, false
	}
}

func stringField(res registry.Result, key string) (string, bool) {
	s, ok := res[key].(codec.NullTerminatedStringValue)
	if !ok {
		return "", false
	}
	return string(s), true
}

func uint8Field(res registry.Result, key string) (uint8, bool) {
	u, ok := res[key].(codec.UInt8Value)
	if !ok {
		return 0, false
	}
	return uint8(u), true
}

// typeArrayField reads key as an array of wire type codes and resolves each
// one to a codec.Type.
func typeArrayField(res registry.Result, key string) ([]codec.Type, error) {
	codes, ok := res[key].(codec.UInt8ArrayValue)
	if !ok {
		return nil, fmt.Errorf("%s field missing or not a UInt8Array", key)
	}
	types := make([]codec.Type, len(codes))
	for i, c := range codes {
		t, err := codec.FromCode(c)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		types[i] = t
	}
	return types, nil
}
