package pcm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseFormatCaseInsensitive(t *testing.T) {
	for _, tag := range []string{"u8", "U8", "u16le", "U16LE", "s24be", "S24BE", "dbl", "DBL"} {
		f, err := ParseFormat(tag)
		require.NoError(t, err)
		assert.NotEqual(t, Unknown, f)
	}
}

func TestParseFormatUnknown(t *testing.T) {
	_, err := ParseFormat("bogus")
	require.Error(t, err)
	assert.True(t, errAsIs(err, ErrUnknownFormat))
}

func errAsIs(err, target error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Is(target)
}

func TestDecodeMidpoints(t *testing.T) {
	out, err := Decode(U8, []byte{0x80}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Values[0])

	out, err = Decode(S16LE, []byte{0x00, 0x00}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Values[0])
}

func TestDecodeAllZeroBytes(t *testing.T) {
	for _, f := range []Format{U16LE, U16BE, S16LE, S16BE, S24LE, S24BE} {
		// Unsigned formats are offset by half scale, so all-zero bytes are
		// the most negative sample; signed formats decode them to 0.
		want := 0.0
		if f == U16LE || f == U16BE {
			want = -1.0
		}
		zeros := make([]byte, 8*f.BytesPerSample())
		out, err := Decode(f, zeros, 8)
		require.NoError(t, err)
		for _, v := range out.Values {
			assert.InDelta(t, want, v, 1.0/32768.0, "format %v", f)
		}
	}
}

func TestDecodeEndiannessAgreement(t *testing.T) {
	le, err := Decode(U16LE, []byte{0x34, 0x12}, 1)
	require.NoError(t, err)
	be, err := Decode(U16BE, []byte{0x12, 0x34}, 1)
	require.NoError(t, err)
	assert.Equal(t, le.Values[0], be.Values[0])
}

func TestDecodeShortInput(t *testing.T) {
	_, err := Decode(S16LE, []byte{0x00}, 1)
	require.Error(t, err)
	assert.True(t, errAsIs(err, ErrShortInput))
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode(Unknown, []byte{0x00}, 1)
	require.Error(t, err)
}

func TestDecodeDBLRoundTrip(t *testing.T) {
	vals := []float64{0, 0.5, -0.5, 0.999}
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		bits := math.Float64bits(v)
		for j := 0; j < 8; j++ {
			b[i*8+j] = byte(bits >> (8 * j))
		}
	}
	out, err := Decode(DBL, b, len(vals))
	require.NoError(t, err)
	for i, v := range vals {
		assert.Equal(t, v, out.Values[i])
	}
}

// TestDecodeBoundsProperty checks that every supported format (except DBL,
// which is a verbatim passthrough and can legitimately reach 1.0 or beyond
// for out-of-range host doubles) produces output confined to [-1.0, 1.0).
func TestDecodeBoundsProperty(t *testing.T) {
	formats := []Format{U8, U16LE, U16BE, S16LE, S16BE, S24LE, S24BE}
	rapid.Check(t, func(rt *rapid.T) {
		f := formats[rapid.IntRange(0, len(formats)-1).Draw(rt, "format")]
		n := rapid.IntRange(1, 32).Draw(rt, "count")
		raw := rapid.SliceOfN(rapid.Uint8(), n*f.BytesPerSample(), n*f.BytesPerSample()).Draw(rt, "bytes")
		out, err := Decode(f, raw, n)
		if err != nil {
			rt.Fatalf("Decode: %v", err)
		}
		for _, v := range out.Values {
			if v < -1.0 || v >= 1.0 {
				rt.Fatalf("decoded value %v out of [-1,1) for format %v", v, f)
			}
		}
	})
}
