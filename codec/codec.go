// Package codec encodes span sets into the self-describing binary form a
// persistence collaborator stores and reloads.
//
// Codec selection is a breaking-change boundary: bytes written with one
// layout version may not decode under another, so the header carries both
// the version and the compression scheme.
//
// Layout:
//
//	[magic 'D' 'S'][version 1B][compression 1B]
//	[uncompressed payload length uvarint]
//	[payload (possibly compressed)]
//	[CRC32C 4B little-endian, over everything before it]
//
// The payload is a uvarint span count followed by the spans in descending
// order, delta-encoded: the first High is absolute; every following High
// is stored as the gap below the previous Low (minus the guaranteed
// minimum of 2); span lengths are stored as High-Low. The deltas both
// shrink the varints and let the decoder re-verify the set invariants.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/daggo"
	"github.com/hupe1980/daggo/internal/hash"
)

// Compression selects the payload compression scheme.
type Compression uint8

const (
	// CompressionNone stores the payload as-is. Delta-encoded varints are
	// already compact; this is the right default for small sets.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, good for hot data).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd compression (better ratio, cold data).
	CompressionZstd Compression = 2
)

const (
	magic0, magic1 = 'D', 'S'
	layoutVersion  = 1
	crcLen         = 4
)

var (
	// ErrCorrupt is the sentinel matched by errors.Is for any decoding
	// failure. Encoded bytes come from external storage and are treated
	// as untrusted: decoding never panics.
	ErrCorrupt = errors.New("corrupt span set encoding")

	// ErrChecksum indicates the payload bytes do not match their CRC32C.
	ErrChecksum = fmt.Errorf("%w: checksum mismatch", ErrCorrupt)

	// ErrUnknownScheme indicates an unrecognized compression byte.
	ErrUnknownScheme = fmt.Errorf("%w: unknown compression scheme", ErrCorrupt)
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Encode serializes the set using the given compression scheme.
func Encode(set daggo.SpanSet, compression Compression) ([]byte, error) {
	payload := encodePayload(set)

	stored := payload
	switch compression {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 || n >= len(payload) {
			// Incompressible; store as-is.
			compression = CompressionNone
		} else {
			stored = buf[:n]
		}
	case CompressionZstd:
		enc := getZstdEncoder()
		stored = enc.EncodeAll(payload, nil)
		zstdEncoderPool.Put(enc)
		if len(stored) >= len(payload) {
			compression = CompressionNone
			stored = payload
		}
	default:
		return nil, fmt.Errorf("unsupported compression scheme: %d", compression)
	}

	out := make([]byte, 0, 4+binary.MaxVarintLen64+len(stored)+crcLen)
	out = append(out, magic0, magic1, layoutVersion, byte(compression))
	out = binary.AppendUvarint(out, uint64(len(payload)))
	out = append(out, stored...)
	out = binary.LittleEndian.AppendUint32(out, hash.CRC32C(out))
	return out, nil
}

// Decode deserializes bytes produced by Encode.
func Decode(data []byte) (daggo.SpanSet, error) {
	if len(data) < 4+1+crcLen {
		return daggo.SpanSet{}, fmt.Errorf("%w: truncated", ErrCorrupt)
	}
	body, crc := data[:len(data)-crcLen], data[len(data)-crcLen:]
	if hash.CRC32C(body) != binary.LittleEndian.Uint32(crc) {
		return daggo.SpanSet{}, ErrChecksum
	}
	if body[0] != magic0 || body[1] != magic1 {
		return daggo.SpanSet{}, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if body[2] != layoutVersion {
		return daggo.SpanSet{}, fmt.Errorf("%w: unsupported layout version %d", ErrCorrupt, body[2])
	}
	compression := Compression(body[3])

	rest := body[4:]
	rawLen, n := binary.Uvarint(rest)
	if n <= 0 {
		return daggo.SpanSet{}, fmt.Errorf("%w: bad payload length", ErrCorrupt)
	}
	stored := rest[n:]

	var payload []byte
	switch compression {
	case CompressionNone:
		if uint64(len(stored)) != rawLen {
			return daggo.SpanSet{}, fmt.Errorf("%w: payload length mismatch", ErrCorrupt)
		}
		payload = stored
	case CompressionLZ4:
		payload = make([]byte, rawLen)
		m, err := lz4.UncompressBlock(stored, payload)
		if err != nil || uint64(m) != rawLen {
			return daggo.SpanSet{}, fmt.Errorf("%w: lz4 payload", ErrCorrupt)
		}
	case CompressionZstd:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(stored, make([]byte, 0, rawLen))
		zstdDecoderPool.Put(dec)
		if err != nil || uint64(len(out)) != rawLen {
			return daggo.SpanSet{}, fmt.Errorf("%w: zstd payload", ErrCorrupt)
		}
		payload = out
	default:
		return daggo.SpanSet{}, ErrUnknownScheme
	}

	return decodePayload(payload)
}

func encodePayload(set daggo.SpanSet) []byte {
	spans := set.Spans()
	out := binary.AppendUvarint(nil, uint64(len(spans)))
	var prevLow uint64
	for i, sp := range spans {
		if i == 0 {
			out = binary.AppendUvarint(out, uint64(sp.High))
		} else {
			// Invariant: prevLow > sp.High+1, so the gap is at least 2.
			out = binary.AppendUvarint(out, prevLow-uint64(sp.High)-2)
		}
		out = binary.AppendUvarint(out, uint64(sp.High-sp.Low))
		prevLow = uint64(sp.Low)
	}
	return out
}

func decodePayload(payload []byte) (daggo.SpanSet, error) {
	next := func() (uint64, bool) {
		v, n := binary.Uvarint(payload)
		if n <= 0 {
			return 0, false
		}
		payload = payload[n:]
		return v, true
	}

	count, ok := next()
	if !ok {
		return daggo.SpanSet{}, fmt.Errorf("%w: bad span count", ErrCorrupt)
	}
	if count > uint64(len(payload)/2)+1 {
		// Each span needs at least two varint bytes; reject absurd counts
		// before allocating.
		return daggo.SpanSet{}, fmt.Errorf("%w: span count %d exceeds payload", ErrCorrupt, count)
	}

	spans := make([]daggo.Span, 0, count)
	var prevLow uint64
	for i := uint64(0); i < count; i++ {
		first, ok := next()
		if !ok {
			return daggo.SpanSet{}, fmt.Errorf("%w: truncated span %d", ErrCorrupt, i)
		}
		length, ok := next()
		if !ok {
			return daggo.SpanSet{}, fmt.Errorf("%w: truncated span %d", ErrCorrupt, i)
		}

		var high uint64
		if i == 0 {
			high = first
		} else {
			gap := first + 2
			if gap > prevLow {
				return daggo.SpanSet{}, fmt.Errorf("%w: span %d overlaps predecessor", ErrCorrupt, i)
			}
			high = prevLow - gap
		}
		if high > uint64(daggo.MaxId) || length > high {
			return daggo.SpanSet{}, fmt.Errorf("%w: span %d out of range", ErrCorrupt, i)
		}
		low := high - length
		spans = append(spans, daggo.Span{Low: daggo.Id(low), High: daggo.Id(high)})
		prevLow = low
	}
	if len(payload) != 0 {
		return daggo.SpanSet{}, fmt.Errorf("%w: trailing bytes", ErrCorrupt)
	}

	// Every invariant was re-verified above, so the sorted constructor
	// cannot trip.
	return daggo.FromSortedSpans(spans), nil
}
