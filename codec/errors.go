package codec

import "errors"

// Codec errors. Wrapped with additional context via fmt.Errorf("...: %w", ...)
// at call sites.
var (
	ErrUnknownTypeCode   = errors.New("codec: unknown type code")
	ErrTruncatedInput    = errors.New("codec: truncated input")
	ErrValueOutOfRange   = errors.New("codec: value out of range")
	ErrInvalidEncoding   = errors.New("codec: invalid string encoding")
	ErrInsufficientSpace = errors.New("codec: insufficient space in buffer")
)
