package stft

import (
	"math"
	"testing"

	"github.com/kwgt/wavspa-go/pcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func sineBytesS16LE(freq, fs float64, n int) []byte {
	b := make([]byte, n*2)
	for i := 0; i < n; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / fs)
		s := int16(v * 32767)
		b[2*i] = byte(s)
		b[2*i+1] = byte(s >> 8)
	}
	return b
}

func TestWindowClosedForms(t *testing.T) {
	for _, n := range []int{2, 4, 16, 1024} {
		for _, kind := range []WindowKind{RECTANGULAR, HAMMING, HANN, BLACKMAN, BLACKMAN_NUTTALL, FLAT_TOP} {
			e, err := NewEngine(pcm.S16LE, n)
			require.NoError(t, err)
			require.NoError(t, e.SetWindow(kind))
			// w[0] and w[n-1] sit at x = 0 and x = 2π, where every cosine
			// term is 1, so both endpoints equal the sum of the coefficients.
			endpoint := map[WindowKind]float64{
				RECTANGULAR:      1,
				HAMMING:          0.54 - 0.46,
				HANN:             0.50 - 0.50,
				BLACKMAN:         0.42 - 0.50 + 0.08,
				BLACKMAN_NUTTALL: 0.3635819 - 0.4891775 + 0.1365995 - 0.0106411,
				FLAT_TOP:         1 - 1.93 + 1.29 - 0.388 + 0.032,
			}[kind]
			assert.InDelta(t, endpoint, e.windowTbl.Values[0], 1e-9)
			assert.InDelta(t, endpoint, e.windowTbl.Values[n-1], 1e-9)
			if kind == RECTANGULAR {
				for _, w := range e.windowTbl.Values {
					assert.Equal(t, 1.0, w)
				}
			}
			if kind == HANN {
				// symmetric: w[i] == w[n-1-i]
				for i := 0; i < n/2; i++ {
					assert.InDelta(t, e.windowTbl.Values[i], e.windowTbl.Values[n-1-i], 1e-9)
				}
			}
		}
	}
}

func TestBandMapCoverage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capExp := rapid.IntRange(6, 14).Draw(rt, "capExp")
		capacity := 1 << capExp
		width := rapid.IntRange(1, capacity/2).Draw(rt, "width")
		mode := []ScaleMode{LINEAR, LOG}[rapid.IntRange(0, 1).Draw(rt, "mode")]

		e, err := NewEngine(pcm.S16LE, capacity)
		if err != nil {
			rt.Fatalf("NewEngine: %v", err)
		}
		if err := e.SetScaleMode(mode); err != nil {
			rt.Fatalf("SetScaleMode: %v", err)
		}
		if err := e.SetWidth(width); err != nil {
			rt.Fatalf("SetWidth: %v", err)
		}

		sum := 0
		for _, b := range e.bands {
			if b.Span < 1 {
				rt.Fatalf("band span %d < 1", b.Span)
			}
			sum += b.Span
		}
		if sum < width {
			rt.Fatalf("band span sum %d < width %d", sum, width)
		}
	})
}

func TestNewEngineClampsDefaultWidthForSmallCapacity(t *testing.T) {
	e, err := NewEngine(pcm.S16LE, 64)
	require.NoError(t, err)
	assert.LessOrEqual(t, e.Width(), 32)
	e.Transform()
	out := make([]float64, e.Width())
	require.NoError(t, e.CalcPower(out))
}

func TestNewEngineRejectsCWTOnlyFormat(t *testing.T) {
	_, err := NewEngine(pcm.DBL, 1024)
	require.Error(t, err)
}

func TestShiftInInvalidLength(t *testing.T) {
	e, err := NewEngine(pcm.S16LE, 1024)
	require.NoError(t, err)
	err = e.ShiftIn(make([]byte, 4000), 2000)
	require.Error(t, err)
}

func TestSetWidthRejectsTooLarge(t *testing.T) {
	e, err := NewEngine(pcm.S16LE, 1024)
	require.NoError(t, err)
	before := e.bands
	err = e.SetWidth(600) // > capacity/2 == 512
	require.Error(t, err)
	assert.Equal(t, before, e.bands, "BandMap must be left intact on failure")
}

func TestImpulseYieldsFlatMagnitude(t *testing.T) {
	n := 64
	e, err := NewEngine(pcm.S16LE, n)
	require.NoError(t, err)
	require.NoError(t, e.SetWindow(RECTANGULAR))
	require.NoError(t, e.SetWidth(n / 2))
	require.NoError(t, e.SetScaleMode(LINEAR))
	require.NoError(t, e.SetFrequency(44100, 100, 16000))

	b := make([]byte, n*2)
	s := int16(32767)
	b[2*(n-1)] = byte(s)
	b[2*(n-1)+1] = byte(s >> 8)
	require.NoError(t, e.ShiftIn(b, n))
	e.Transform()

	out := make([]float64, e.Width())
	require.NoError(t, e.CalcAbsolute(out))
	for i := 1; i < len(out); i++ {
		assert.InDelta(t, out[0], out[i], out[0]*0.05+1e-6)
	}
}

func TestPureToneBandMapPeak(t *testing.T) {
	n := 1024
	fs := 44100.0
	freq := 1000.0
	e, err := NewEngine(pcm.S16LE, n)
	require.NoError(t, err)
	require.NoError(t, e.SetWindow(HANN))
	require.NoError(t, e.SetWidth(512))
	require.NoError(t, e.SetScaleMode(LOG))
	require.NoError(t, e.SetFrequency(fs, 100, 16000))

	require.NoError(t, e.ShiftIn(sineBytesS16LE(freq, fs, n), n))
	e.Transform()

	out := make([]float64, e.Width())
	require.NoError(t, e.CalcPower(out))

	peak := 0
	for i := 1; i < len(out); i++ {
		if out[i] > out[peak] {
			peak = i
		}
	}

	wantBin := int(math.Round(float64(n) * freq / fs))
	best := 0
	bestDiff := math.MaxInt
	for i, b := range e.bands {
		d := b.Start - wantBin
		if d < 0 {
			d = -d
		}
		if d < bestDiff {
			bestDiff = d
			best = i
		}
	}
	assert.InDelta(t, best, peak, 2, "power peak should land near the band closest to the tone bin")
}

func TestCalcAmplitudeFailsWithoutSamples(t *testing.T) {
	e, err := NewEngine(pcm.S16LE, 64)
	require.NoError(t, err)
	out := make([]float64, e.Width())
	err = e.CalcAmplitude(out)
	require.Error(t, err)
}

func TestCalcAmplitudeSilenceIsNegativeInfinity(t *testing.T) {
	e, err := NewEngine(pcm.S16LE, 64)
	require.NoError(t, err)
	require.NoError(t, e.ShiftIn(make([]byte, 128), 64))
	e.Transform()
	out := make([]float64, e.Width())
	require.NoError(t, e.CalcAmplitude(out))
	for _, v := range out {
		assert.True(t, math.IsInf(v, -1) || math.IsNaN(v))
	}
}
