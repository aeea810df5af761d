package daggo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHex is the sentinel matched by errors.Is for any hex
	// decoding failure.
	ErrInvalidHex = errors.New("invalid hex")
)

// HexError reports a non-hex character in untrusted input.
//
// Malformed hex is the one recoverable error class in this package: it may
// originate from external data, so it is returned rather than panicking.
// The underlying sentinel can be matched via errors.Is(err, ErrInvalidHex).
type HexError struct {
	Char byte
	Pos  int
}

func (e *HexError) Error() string {
	return fmt.Sprintf("%q is not a hex character (offset %d)", e.Char, e.Pos)
}

func (e *HexError) Unwrap() error { return ErrInvalidHex }
