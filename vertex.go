package daggo

import (
	"fmt"
	"unicode/utf8"
)

// VertexName is the opaque, content-addressed name of a vertex in the
// graph, typically a commit hash. It is orthogonal to [Id]: the mapping
// between names and ids lives outside this package.
//
// The backing string makes VertexName a plain comparable value usable as
// a map key; the bytes need not be valid UTF-8.
type VertexName string

// NewVertexName constructs a name from raw bytes, losslessly.
func NewVertexName(value []byte) VertexName {
	return VertexName(value)
}

// Bytes returns the raw bytes of the name.
func (n VertexName) Bytes() []byte {
	return []byte(n)
}

const hexChars = "0123456789abcdef"

// Hex returns the deterministic lowercase hex encoding of the name.
func (n VertexName) Hex() string {
	buf := make([]byte, 0, len(n)*2)
	for i := 0; i < len(n); i++ {
		buf = append(buf, hexChars[n[i]>>4], hexChars[n[i]&0xf])
	}
	return string(buf)
}

// VertexNameFromHex decodes a hex string into a name.
//
// An odd-length input behaves as if a trailing '0' nibble were appended.
// An invalid hex character yields a *HexError; hex input may come from
// untrusted external data, so this never panics.
func VertexNameFromHex(hex []byte) (VertexName, error) {
	buf := make([]byte, (len(hex)+1)/2)
	for i, c := range hex {
		var value byte
		switch {
		case c >= '0' && c <= '9':
			value = c - '0'
		case c >= 'a' && c <= 'f':
			value = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			value = c - 'A' + 10
		default:
			return "", &HexError{Char: c, Pos: i}
		}
		if i&1 == 0 {
			buf[i/2] |= value << 4
		} else {
			buf[i/2] |= value
		}
	}
	return VertexName(buf), nil
}

// String renders long (>=2 byte) names as hex, matching how binary commit
// hashes are usually displayed. Short names render as UTF-8 text when
// valid, hex otherwise.
func (n VertexName) String() string {
	if len(n) >= 2 {
		return n.Hex()
	}
	if utf8.ValidString(string(n)) {
		return string(n)
	}
	return n.Hex()
}

// Format implements fmt.Formatter. A precision truncates the hex form,
// e.g. %.12v shows the first 12 hex digits of a hash.
func (n VertexName) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		out := n.String()
		if prec, ok := f.Precision(); ok && len(n) >= 2 && prec < len(out) {
			out = out[:prec]
		}
		fmt.Fprint(f, out)
	case 'q':
		fmt.Fprintf(f, "%q", n.String())
	default:
		fmt.Fprintf(f, "%%!%c(daggo.VertexName=%s)", verb, n.String())
	}
}
