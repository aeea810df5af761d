package codec

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/daggo"
	"github.com/hupe1980/daggo/internal/hash"
)

func sp(low, high uint64) daggo.Span {
	return daggo.NewSpan(daggo.Id(low), daggo.Id(high))
}

func TestRoundTrip(t *testing.T) {
	sets := []daggo.SpanSet{
		daggo.EmptySpanSet(),
		daggo.FullSpanSet(),
		daggo.FromSpans(sp(0, 0)),
		daggo.FromSpans(sp(1, 10), sp(20, 20), sp(31, 40)),
		daggo.FromSpans(
			daggo.GroupNonMaster.Span(),
			sp(0, uint64(daggo.GroupMaster.MaxId())-1),
		),
	}

	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		for _, set := range sets {
			data, err := Encode(set, compression)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.True(t, got.Equal(set), "scheme %d, set %v", compression, set)
		}
	}
}

func TestRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		spans := make([]daggo.Span, 0, 32)
		for j := 0; j < 32; j++ {
			low := rng.Uint64() % (1 << 40)
			spans = append(spans, sp(low, low+rng.Uint64()%1000))
		}
		set := daggo.FromSpans(spans...)

		for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
			data, err := Encode(set, compression)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err)
			require.True(t, got.Equal(set))
		}
	}
}

func TestCompressionShrinksLargeSets(t *testing.T) {
	// Many equally sized, equally spaced spans repeat the same varints, so
	// both schemes should beat the raw payload.
	spans := make([]daggo.Span, 0, 5000)
	for i := 5000; i > 0; i-- {
		low := uint64(i) * 10
		spans = append(spans, sp(low, low+5))
	}
	set := daggo.FromSpans(spans...)

	raw, err := Encode(set, CompressionNone)
	require.NoError(t, err)

	for _, compression := range []Compression{CompressionLZ4, CompressionZstd} {
		data, err := Encode(set, compression)
		require.NoError(t, err)
		assert.Less(t, len(data), len(raw), "scheme %d", compression)
		// The stored scheme byte must reflect what was actually used.
		assert.Equal(t, byte(compression), data[3])

		got, err := Decode(data)
		require.NoError(t, err)
		require.True(t, got.Equal(set))
	}
}

func TestIncompressibleFallsBackToNone(t *testing.T) {
	// A single tiny span cannot be shrunk; the header must say so.
	data, err := Encode(daggo.FromSpans(sp(3, 3)), CompressionLZ4)
	require.NoError(t, err)
	assert.Equal(t, byte(CompressionNone), data[3])

	got, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, got.Equal(daggo.FromSpans(sp(3, 3))))
}

func TestEncodeUnsupportedScheme(t *testing.T) {
	_, err := Encode(daggo.EmptySpanSet(), Compression(99))
	require.Error(t, err)
}

func TestDecodeChecksumMismatch(t *testing.T) {
	data, err := Encode(daggo.FromSpans(sp(1, 10), sp(20, 30)), CompressionNone)
	require.NoError(t, err)

	for i := range data {
		corrupted := append([]byte(nil), data...)
		corrupted[i] ^= 0x40
		_, err := Decode(corrupted)
		require.Error(t, err, "flipped byte %d", i)
		assert.ErrorIs(t, err, ErrCorrupt)
	}
}

func TestDecodeTruncated(t *testing.T) {
	data, err := Encode(daggo.FromSpans(sp(1, 10)), CompressionNone)
	require.NoError(t, err)

	for n := 0; n < len(data); n++ {
		_, err := Decode(data[:n])
		require.Error(t, err, "prefix of %d bytes", n)
		assert.ErrorIs(t, err, ErrCorrupt)
	}
}

// appendCRC seals a hand-built body with a valid checksum so decoding
// reaches the header and payload checks under test.
func appendCRC(body []byte) []byte {
	data := append([]byte(nil), body...)
	return binary.LittleEndian.AppendUint32(data, hash.CRC32C(data))
}

func TestDecodeBadMagic(t *testing.T) {
	data, err := Encode(daggo.FromSpans(sp(1, 10)), CompressionNone)
	require.NoError(t, err)

	body := append([]byte(nil), data[:len(data)-crcLen]...)
	body[0] = 'X'
	_, err = Decode(appendCRC(body))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrChecksum)
}

func TestDecodeBadVersion(t *testing.T) {
	data, err := Encode(daggo.FromSpans(sp(1, 10)), CompressionNone)
	require.NoError(t, err)

	body := append([]byte(nil), data[:len(data)-crcLen]...)
	body[2] = 9
	_, err = Decode(appendCRC(body))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodeUnknownScheme(t *testing.T) {
	data, err := Encode(daggo.FromSpans(sp(1, 10)), CompressionNone)
	require.NoError(t, err)

	body := append([]byte(nil), data[:len(data)-crcLen]...)
	body[3] = 7
	_, err = Decode(appendCRC(body))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestDecodeMalformedPayload(t *testing.T) {
	seal := func(payload []byte) []byte {
		body := []byte{magic0, magic1, layoutVersion, byte(CompressionNone)}
		body = append(body, byte(len(payload)))
		body = append(body, payload...)
		return appendCRC(body)
	}

	cases := map[string][]byte{
		// Count says two spans, payload holds one.
		"truncated span": {2, 10, 3},
		// Absurd count with no room for spans.
		"oversized count": {200, 1},
		// Second span's high computes above the first span's low.
		"overlap": {2, 10, 3, 200, 0},
		// Length larger than high underflows low.
		"length underflow": {1, 5, 9},
		// Valid single span followed by garbage.
		"trailing bytes": {1, 10, 3, 0xff},
	}
	for name, payload := range cases {
		_, err := Decode(seal(payload))
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrCorrupt, name)
	}
}
