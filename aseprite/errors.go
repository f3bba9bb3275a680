package aseprite

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies why a decode was aborted.
type ErrorKind int

const (
	// ErrUnexpectedEOF means the stream ended before a declared length or
	// offset was satisfied.
	ErrUnexpectedEOF ErrorKind = iota + 1

	// ErrInvalidFormat means a header or record carried a value the format
	// does not allow (bad magic, unknown colour depth, palette range out of
	// bounds, ...).
	ErrInvalidFormat

	// ErrDecompression means a compressed cel payload was malformed or
	// inflated to fewer bytes than the cel dimensions require.
	ErrDecompression

	// ErrDanglingReference means a cel pointed at a layer, or a linked cel at
	// a frame/layer pair, that does not exist.
	ErrDanglingReference
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedEOF:
		return "unexpected eof"
	case ErrInvalidFormat:
		return "invalid format"
	case ErrDecompression:
		return "decompression failure"
	case ErrDanglingReference:
		return "dangling reference"
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// DecodeError is the single terminal error returned by the decoder. No
// partial document is ever returned alongside it.
type DecodeError struct {
	Kind ErrorKind
	// Offset is the absolute stream offset at which the problem was
	// detected.
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("aseprite: %s at offset 0x%x", e.Kind, e.Offset)
	}
	return fmt.Sprintf("aseprite: %s at offset 0x%x: %v", e.Kind, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or 0 if err did not come from
// the decoder.
func KindOf(err error) ErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func newError(kind ErrorKind, offset int64, format string, args ...interface{}) error {
	return &DecodeError{Kind: kind, Offset: offset, Err: fmt.Errorf(format, args...)}
}
