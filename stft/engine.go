// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stft implements the short-time Fourier transform engine from
// spec.md §4.2: a power-of-two sample ring, a window table, a real-DFT
// workspace built on gonum's FFT plan, a band-mapping table, and the three
// magnitude-domain reductions (power, amplitude, absolute).
package stft

import (
	"math"

	"github.com/emer/etable/etensor"
	"github.com/kwgt/wavspa-go/pcm"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	defaultFs = 44100
	defaultFl = 100
	defaultFh = 16000
	defaultW  = 480
)

// Engine is a single-threaded STFT state machine. Methods on one Engine
// must be serialized by the caller; independent Engines are fully
// independent (spec.md §5).
type Engine struct {
	format   pcm.Format
	capacity int
	used     int

	samples etensor.Float64 // length capacity, oldest at index 0

	window     WindowKind
	windowTbl  etensor.Float64 // length capacity

	width     int
	scaleMode ScaleMode
	fs, fl, fh float64
	bands     []band

	windowed  etensor.Float64 // length capacity, scratch for windowed samples
	workspace etensor.Float64 // length 2*(capacity/2+1), packed Re_k/Im_k pairs
	fft       *fourier.FFT    // twiddle state, built once per capacity

	running bool
}

// NewEngine constructs an Engine with the given PCM format and ring
// capacity (must be a power of two, >= 2), applying the defaults from
// spec.md §4.2 (fs=44100, fl=100, fh=16000, W=480, window=BLACKMAN,
// mode=LOG).
func NewEngine(format pcm.Format, capacity int) (*Engine, error) {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return nil, ErrInvalidCapacity
	}
	switch format {
	case pcm.U8, pcm.U16LE, pcm.U16BE, pcm.S16LE, pcm.S16BE, pcm.S24LE, pcm.S24BE:
	default:
		// DBL is a CWT-only format per spec.md §4.1/§4.2; every other tag
		// (including Unknown) is rejected here too.
		return nil, &Error{Kind: InvalidArgument, Param: "format", Msg: "unsupported STFT format " + format.String()}
	}
	width := defaultW
	if width > capacity/2 {
		// The spec's default W=480 assumes a capacity generous enough to
		// hold it (960+); for a smaller capacity, clamp so the default
		// configuration itself never violates "W <= N/2" (SetWidth enforces
		// the same bound for later changes).
		width = capacity / 2
	}
	e := &Engine{
		format:    format,
		capacity:  capacity,
		fs:        defaultFs,
		fl:        defaultFl,
		fh:        defaultFh,
		width:     width,
		window:    BLACKMAN,
		scaleMode: LOG,
		fft:       fourier.NewFFT(capacity),
	}
	e.samples.SetShape([]int{capacity}, nil, nil)
	e.windowTbl.SetShape([]int{capacity}, nil, nil)
	e.windowed.SetShape([]int{capacity}, nil, nil)
	e.workspace.SetShape([]int{2 * (capacity/2 + 1)}, nil, nil)
	buildWindow(e.window, &e.windowTbl)
	e.rebuildBandMap()
	return e, nil
}

// Width returns the configured output width W.
func (e *Engine) Width() int { return e.width }

// Used returns the count of valid (non-zero-padding) samples currently in
// the ring.
func (e *Engine) Used() int { return e.used }

// ShiftIn decodes count samples from b in the engine's configured format
// and appends them to the sample ring, discarding the oldest count samples.
// Fails InvalidLength if count > capacity or count < 0 (spec.md §4.2).
func (e *Engine) ShiftIn(b []byte, count int) error {
	if count < 0 || count > e.capacity {
		return ErrInvalidLength
	}
	if count == 0 {
		e.running = true
		return nil
	}
	decoded := make([]float64, count)
	if _, err := pcm.DecodeInto(e.format, b, decoded); err != nil {
		return err
	}
	shift := count
	if shift > e.capacity {
		shift = e.capacity
	}
	copy(e.samples.Values, e.samples.Values[shift:])
	copy(e.samples.Values[e.capacity-count:], decoded)
	e.used = e.used + count
	if e.used > e.capacity {
		e.used = e.capacity
	}
	e.running = true
	return nil
}

// Reset zeroes the sample ring and sets used=0.
func (e *Engine) Reset() {
	for i := range e.samples.Values {
		e.samples.Values[i] = 0
	}
	e.used = 0
	e.running = true
}

// SetWindow recomputes the window table for kind.
func (e *Engine) SetWindow(kind WindowKind) error {
	if kind < RECTANGULAR || kind > FLAT_TOP {
		return ErrInvalidWindow
	}
	e.window = kind
	buildWindow(kind, &e.windowTbl)
	return nil
}

// SetWidth requires w <= capacity/2; reallocates and rebuilds the BandMap.
func (e *Engine) SetWidth(w int) error {
	if w <= 0 || w > e.capacity/2 {
		return ErrInvalidWidth
	}
	e.width = w
	e.rebuildBandMap()
	return nil
}

// SetScaleMode rebuilds the BandMap for mode.
func (e *Engine) SetScaleMode(mode ScaleMode) error {
	if mode != LINEAR && mode != LOG {
		return ErrInvalidMode
	}
	e.scaleMode = mode
	e.rebuildBandMap()
	return nil
}

// SetFrequency validates fh <= fs/2 and fl <= fh, stores the triple, and
// rebuilds the BandMap.
func (e *Engine) SetFrequency(fs, fl, fh float64) error {
	if fh > fs/2 || fl > fh || fl <= 0 {
		return ErrInvalidFreq
	}
	e.fs, e.fl, e.fh = fs, fl, fh
	e.rebuildBandMap()
	return nil
}

func (e *Engine) rebuildBandMap() {
	e.bands = buildBandMap(e.capacity, e.width, e.scaleMode, e.fs, e.fl, e.fh)
}

// Transform windows the current sample ring, runs the forward real-DFT, and
// packs the N/2+1 complex bins into the workspace at offset 2k (Re_k,
// Im_k), per spec.md §4.2 and §9's indexing contract.
func (e *Engine) Transform() {
	for i := 0; i < e.capacity; i++ {
		e.windowed.Values[i] = e.samples.Values[i] * e.windowTbl.Values[i]
	}
	coeffs := e.fft.Coefficients(nil, e.windowed.Values)
	for k, c := range coeffs {
		e.workspace.Values[2*k] = real(c)
		e.workspace.Values[2*k+1] = imag(c)
	}
}

func (e *Engine) bin(k int) (re, im float64) {
	return e.workspace.Values[2*k], e.workspace.Values[2*k+1]
}

// CalcPower writes W values in the raw power-dB domain:
// out[i] = mean over the band of 10*log10(re^2+im^2).
func (e *Engine) CalcPower(out []float64) error {
	if len(out) != e.width {
		return ErrInvalidLength
	}
	for i, bnd := range e.bands {
		var v float64
		for j := 0; j < bnd.Span; j++ {
			re, im := e.bin(bnd.Start + j)
			v += 10 * math.Log10(re*re+im*im)
		}
		out[i] = v / float64(bnd.Span)
	}
	return nil
}

// CalcAmplitude writes W values in the amplitude-dB-FS domain, normalized
// by the sample count. Fails InvalidState while used is 0, i.e. before the
// first non-empty ShiftIn and again after Reset.
func (e *Engine) CalcAmplitude(out []float64) error {
	if len(out) != e.width {
		return ErrInvalidLength
	}
	if e.used == 0 {
		return ErrNoSamples
	}
	used := float64(e.used)
	for i, bnd := range e.bands {
		var v float64
		for j := 0; j < bnd.Span; j++ {
			re, im := e.bin(bnd.Start + j)
			v += 20 * math.Log10(math.Sqrt(re*re+im*im)/used)
		}
		out[i] = v / float64(bnd.Span)
	}
	return nil
}

// CalcAbsolute writes W values of linear magnitude normalized by the
// sample count.
func (e *Engine) CalcAbsolute(out []float64) error {
	if len(out) != e.width {
		return ErrInvalidLength
	}
	if e.used == 0 {
		return ErrNoSamples
	}
	used := float64(e.used)
	for i, bnd := range e.bands {
		var v float64
		for j := 0; j < bnd.Span; j++ {
			re, im := e.bin(bnd.Start + j)
			v += math.Sqrt(re*re+im*im) / used
		}
		out[i] = v / float64(bnd.Span)
	}
	return nil
}
