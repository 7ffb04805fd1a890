// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cwt implements the continuous wavelet transform engine from
// spec.md §4.3: a Gabor-bounded Morlet kernel swept across a tabulated set
// of target frequencies. The kernel shape -- a Gaussian envelope modulating
// a complex exponential, accumulated with explicit per-sample pos/neg
// contributions -- follows the same construction as the teacher's
// agabor.Filter/agabor.ToTensor Gabor kernel, generalized from a 2D spatial
// filter to a 1D temporal one swept per band.
package cwt

import (
	"math"
	"strings"

	"github.com/emer/etable/etensor"
	"github.com/kwgt/wavspa-go/pcm"
)

// ScaleMode selects linear or logarithmic target-frequency spacing.
type ScaleMode int

const (
	LOG ScaleMode = iota
	LINEAR
)

// ParseScaleMode looks up a scale-mode identifier case-insensitively.
func ParseScaleMode(tag string) (ScaleMode, error) {
	switch strings.ToUpper(tag) {
	case "LINEARSCALE", "LINEAR":
		return LINEAR, nil
	case "LOGSCALE", "LOG":
		return LOG, nil
	default:
		return LOG, &Error{Kind: InvalidArgument, Param: "scale_mode", Msg: "unknown scale mode " + tag}
	}
}

const (
	defaultSigma = 3.0
	defaultGth   = 0.01
	defaultFs    = 44100
	defaultFl    = 100
	defaultFh    = 2000
	defaultWidth = 360
	minWidth     = 32
)

// Options carries the independently-optional recognized CWT settings from
// spec.md §6, applied over the defaults by Engine.apply. A nil field keeps
// its current (or default, on construction) value.
type Options struct {
	Sigma          *float64
	GaborThreshold *float64
	// Frequency, if set, sets Fs=*Frequency, Fh=*Frequency/2, Fl=*Frequency/5
	// (spec.md §6), overriding any Range also present in the same Options.
	Frequency    *float64
	Range        *[2]float64 // {fl, fh}
	ScaleModeOpt *ScaleMode
	OutputWidth  *int
}

// Engine is a single-threaded CWT state machine (spec.md §5).
type Engine struct {
	sigma float64
	gth   float64
	fs    float64
	fl    float64
	fh    float64
	mode  ScaleMode
	width int

	wk0, wk1, wk2 float64

	ft etensor.Float64 // target frequency per band
	ws []int           // half-window size in samples per band

	samples etensor.Float64
	n       int

	wtRe, wtIm etensor.Float64 // per-band complex accumulator

	dirty bool // ws (and, transitively, wk0/wk1/wk2) needs a rebuild
}

// NewEngine constructs a CWT engine from opts, applying the defaults from
// spec.md §4.3 (sigma=3.0, gth=0.01, fs=44100, fl=100, fh=2000, mode=LOG,
// W=360).
func NewEngine(opts Options) (*Engine, error) {
	e := &Engine{
		sigma: defaultSigma,
		gth:   defaultGth,
		fs:    defaultFs,
		fl:    defaultFl,
		fh:    defaultFh,
		mode:  LOG,
		width: defaultWidth,
	}
	if err := e.apply(opts); err != nil {
		return nil, err
	}
	e.rebuildFt()
	e.rebuildWs()
	return e, nil
}

// apply merges opts over the engine's current settings, per spec.md §9
// "option parsing with partial overrides".
func (e *Engine) apply(opts Options) error {
	needsFt := false

	if opts.OutputWidth != nil {
		if *opts.OutputWidth < minWidth {
			return ErrInvalidWidth
		}
		e.width = *opts.OutputWidth
		needsFt = true
	}
	if opts.Frequency != nil {
		f := *opts.Frequency
		if f <= 0 {
			return ErrInvalidRange
		}
		e.fs = f
		e.fh = f / 2
		e.fl = f / 5
		needsFt = true
	} else if opts.Range != nil {
		fl, fh := opts.Range[0], opts.Range[1]
		if !(fl > 0 && fl < fh) {
			return ErrInvalidRange
		}
		e.fl, e.fh = fl, fh
		needsFt = true
	}
	if opts.ScaleModeOpt != nil {
		if *opts.ScaleModeOpt != LINEAR && *opts.ScaleModeOpt != LOG {
			return ErrInvalidMode
		}
		e.mode = *opts.ScaleModeOpt
		needsFt = true
	}
	if opts.Sigma != nil {
		e.sigma = *opts.Sigma
		e.dirty = true
	}
	if opts.GaborThreshold != nil {
		e.gth = *opts.GaborThreshold
		e.dirty = true
	}

	if needsFt {
		e.rebuildFt()
	}
	return nil
}

// SetOptions applies a partial set of overrides to an already-constructed
// engine.
func (e *Engine) SetOptions(opts Options) error {
	return e.apply(opts)
}

// Width returns the configured output width W.
func (e *Engine) Width() int { return e.width }

// rebuildFt recomputes the target-frequency table ft[0..W) synchronously,
// per spec.md §4.3, and marks ws dirty since it depends on ft.
func (e *Engine) rebuildFt() {
	e.ft.SetShape([]int{e.width}, nil, nil)
	switch e.mode {
	case LINEAR:
		for i := 0; i < e.width; i++ {
			e.ft.Values[i] = e.fl + float64(i)*(e.fh-e.fl)/float64(e.width)
		}
	case LOG:
		ratio := e.fh / e.fl
		for i := 0; i < e.width; i++ {
			e.ft.Values[i] = e.fl * math.Pow(ratio, float64(i)/float64(e.width))
		}
	}
	e.ws = make([]int, e.width)
	e.wtRe.SetShape([]int{e.width}, nil, nil)
	e.wtIm.SetShape([]int{e.width}, nil, nil)
	e.dirty = true
}

// rebuildWs recomputes wk0/wk1/wk2 and the per-band half-window table ws,
// per spec.md §4.3.
func (e *Engine) rebuildWs() {
	e.wk0 = e.sigma * math.Sqrt(-2*math.Log(e.gth))
	e.wk1 = 1 / math.Sqrt(2*math.Pi*e.sigma*e.sigma)
	e.wk2 = 2 * e.sigma * e.sigma
	for i := 0; i < e.width; i++ {
		e.ws[i] = int(math.Floor((e.wk0 / e.ft.Values[i]) * e.fs))
	}
	e.dirty = false
}

// PutIn decodes count samples from b in format and replaces the internal
// sample buffer, per spec.md §4.3.
func (e *Engine) PutIn(format pcm.Format, b []byte, count int) error {
	var buf etensor.Float64
	buf.SetShape([]int{count}, nil, nil)
	if _, err := pcm.DecodeInto(format, b, buf.Values); err != nil {
		return err
	}
	e.samples = buf
	e.n = count
	return nil
}

// Transform runs the Gabor-bounded Morlet accumulation centered at sample
// pos for every band, per spec.md §4.3. Fails InvalidPosition if pos is
// outside [0, n).
func (e *Engine) Transform(pos int) error {
	if e.n == 0 {
		return ErrNoSamples
	}
	if pos < 0 || pos >= e.n {
		return ErrInvalidPosition
	}
	if e.dirty {
		e.rebuildWs()
	}

	for i := 0; i < e.width; i++ {
		dx := e.ws[i]
		lo := -dx
		if -pos > lo {
			lo = -pos
		}
		hi := dx
		if e.n-pos-1 < hi {
			hi = e.n - pos - 1
		}
		ft := e.ft.Values[i]

		var re, im float64
		for j := lo; j <= hi; j++ {
			t := (float64(j) / e.fs) * ft
			g := e.wk1 * math.Exp(-(t*t)/e.wk2) * e.samples.Values[pos+j]
			re += math.Cos(2*math.Pi*t) * g
			im += math.Sin(2*math.Pi*t) * g
		}
		e.wtRe.Values[i] = re
		e.wtIm.Values[i] = im
	}
	return nil
}

// CalcPower writes W values: (|coef|/ft[i]) * 256. The 256 factor is a
// fixed display-scale calibration (spec.md §9), preserved bit-for-bit.
func (e *Engine) CalcPower(out []float64) error {
	if len(out) != e.width {
		return &Error{Kind: InvalidLength, Param: "out", Msg: "output slice length must equal width"}
	}
	for i := 0; i < e.width; i++ {
		re, im := e.wtRe.Values[i], e.wtIm.Values[i]
		out[i] = (math.Sqrt(re*re+im*im) / e.ft.Values[i]) * 256
	}
	return nil
}

// CalcAmplitude writes W values: 20*log10(sqrt((re^2+im^2)/(2*ws[i]))).
func (e *Engine) CalcAmplitude(out []float64) error {
	if len(out) != e.width {
		return &Error{Kind: InvalidLength, Param: "out", Msg: "output slice length must equal width"}
	}
	for i := 0; i < e.width; i++ {
		re, im := e.wtRe.Values[i], e.wtIm.Values[i]
		base := float64(2 * e.ws[i])
		out[i] = 20 * math.Log10(math.Sqrt((re*re+im*im)/base))
	}
	return nil
}

// TargetFrequency returns ft[i], the band's target frequency.
func (e *Engine) TargetFrequency(i int) float64 { return e.ft.Values[i] }
