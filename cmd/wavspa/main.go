// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command wavspa loads a WAV file, runs it through either the STFT or CWT
// engine, and writes the resulting spectrogram as a PNG. It is a thin demo
// harness, not part of the core API surface.
package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-audio/wav"
	"github.com/spf13/pflag"

	"github.com/kwgt/wavspa-go/cwt"
	"github.com/kwgt/wavspa-go/pcm"
	"github.com/kwgt/wavspa-go/raster"
	"github.com/kwgt/wavspa-go/stft"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

func main() {
	var (
		inPath    = pflag.StringP("input", "i", "", "input WAV file")
		outPath   = pflag.StringP("output", "o", "spectrogram.png", "output PNG file")
		engine    = pflag.String("engine", "stft", "analysis engine: stft or cwt")
		width     = pflag.Int("width", 480, "spectral output width (bands)")
		stepSamp  = pflag.Int("step", 256, "samples to advance per column (stft only)")
		mode      = pflag.String("mode", "amplitude", "reduction: power or amplitude")
		channel   = pflag.Int("channel", 0, "channel to extract from a multi-channel WAV")
	)
	pflag.Parse()

	if *inPath == "" {
		logger.Fatal("missing required --input")
	}

	samples, format, rate, err := loadWave(*inPath, *channel)
	if err != nil {
		logger.Fatal("load wave failed", "err", err)
	}
	logger.Info("loaded wave", "path", *inPath, "rate", rate, "samples", len(samples)/format.BytesPerSample())

	var img *raster.Framebuffer
	switch *engine {
	case "stft":
		img, err = runSTFT(samples, format, rate, *width, *stepSamp, *mode)
	case "cwt":
		img, err = runCWT(samples, format, rate, *width, *mode)
	default:
		err = fmt.Errorf("unknown engine %q", *engine)
	}
	if err != nil {
		logger.Fatal("analysis failed", "err", err)
	}

	if err := writePNG(*outPath, img); err != nil {
		logger.Fatal("write png failed", "err", err)
	}
	logger.Info("wrote spectrogram", "path", *outPath)
}

// loadWave reads a WAV file via go-audio/wav and returns the raw PCM bytes
// for the requested channel, its pcm.Format, and the sample rate.
func loadWave(path string, channel int) ([]byte, pcm.Format, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pcm.Unknown, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, pcm.Unknown, 0, errors.New("invalid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, pcm.Unknown, 0, err
	}

	format, err := formatForBitDepth(buf.SourceBitDepth)
	if err != nil {
		return nil, pcm.Unknown, 0, err
	}

	nch := buf.Format.NumChannels
	nFrames := buf.NumFrames()
	bps := format.BytesPerSample()
	out := make([]byte, nFrames*bps)
	idx := channel
	for i := 0; i < nFrames; i++ {
		encodeSample(out[i*bps:(i+1)*bps], format, buf.Data[idx])
		idx += nch
	}
	return out, format, int(dec.SampleRate), nil
}

// formatForBitDepth maps a WAV file's source bit depth onto the pcm.Format
// this module already knows how to decode, per the native signed-integer
// PCM layouts spec.md §4.1 defines.
func formatForBitDepth(bits int) (pcm.Format, error) {
	switch bits {
	case 16:
		return pcm.S16LE, nil
	case 24:
		return pcm.S24LE, nil
	default:
		return pcm.Unknown, fmt.Errorf("unsupported source bit depth %d", bits)
	}
}

// encodeSample writes v (a go-audio full-scale integer sample) into dst as
// little-endian bytes in format, the inverse of pcm.DecodeInto for the
// signed formats this binary supports.
func encodeSample(dst []byte, format pcm.Format, v int) {
	switch format {
	case pcm.S16LE:
		u := uint16(int16(v))
		dst[0] = byte(u)
		dst[1] = byte(u >> 8)
	case pcm.S24LE:
		u := uint32(v) & 0xFFFFFF
		dst[0] = byte(u)
		dst[1] = byte(u >> 8)
		dst[2] = byte(u >> 16)
	}
}

func runSTFT(samples []byte, format pcm.Format, rate, width, step int, mode string) (*raster.Framebuffer, error) {
	capacity := 4096
	e, err := stft.NewEngine(format, capacity)
	if err != nil {
		return nil, err
	}
	if wd := width; wd > 0 {
		if err := e.SetWidth(wd); err != nil {
			return nil, err
		}
	}

	bps := format.BytesPerSample()
	n := len(samples) / bps
	cols := 0
	for pos := 0; pos+step <= n; pos += step {
		cols++
	}
	if cols == 0 {
		return nil, errors.New("input too short for a single column")
	}

	fb, err := raster.NewFramebuffer(cols, e.Width(), raster.Options{})
	if err != nil {
		return nil, err
	}

	out := make([]float64, e.Width())
	col := 0
	for pos := 0; pos+step <= n; pos += step {
		chunk := samples[pos*bps : (pos+step)*bps]
		if err := e.ShiftIn(chunk, step); err != nil {
			return nil, err
		}
		e.Transform()
		if mode == "power" {
			if err := e.CalcPower(out); err != nil {
				return nil, err
			}
			if err := fb.DrawPower(col, out); err != nil {
				return nil, err
			}
		} else {
			if err := e.CalcAmplitude(out); err != nil {
				return nil, err
			}
			if err := fb.DrawAmplitude(col, out); err != nil {
				return nil, err
			}
		}
		col++
	}
	return fb, nil
}

func runCWT(samples []byte, format pcm.Format, rate, width int, mode string) (*raster.Framebuffer, error) {
	e, err := cwt.NewEngine(cwt.Options{OutputWidth: ptrInt(width)})
	if err != nil {
		return nil, err
	}
	f := float64(rate)
	if err := e.SetOptions(cwt.Options{Frequency: &f}); err != nil {
		return nil, err
	}

	bps := format.BytesPerSample()
	n := len(samples) / bps
	if err := e.PutIn(format, samples, n); err != nil {
		return nil, err
	}

	step := n / 256
	if step < 1 {
		step = 1
	}
	cols := 0
	for pos := 0; pos < n; pos += step {
		cols++
	}

	fb, err := raster.NewFramebuffer(cols, e.Width(), raster.Options{})
	if err != nil {
		return nil, err
	}

	out := make([]float64, e.Width())
	col := 0
	for pos := 0; pos < n; pos += step {
		if err := e.Transform(pos); err != nil {
			return nil, err
		}
		if mode == "power" {
			if err := e.CalcPower(out); err != nil {
				return nil, err
			}
			if err := fb.DrawPower(col, out); err != nil {
				return nil, err
			}
		} else {
			if err := e.CalcAmplitude(out); err != nil {
				return nil, err
			}
			if err := fb.DrawAmplitude(col, out); err != nil {
				return nil, err
			}
		}
		col++
	}
	return fb, nil
}

func writePNG(path string, fb *raster.Framebuffer) error {
	w, h := fb.Width(), fb.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	raw := fb.ToBytes()
	stride := w * 3
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*stride + x*3
			img.Set(x, y, rgbColor{raw[o], raw[o+1], raw[o+2]})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

type rgbColor struct{ r, g, b byte }

func (c rgbColor) RGBA() (r, g, b, a uint32) {
	r = uint32(c.r) * 0x101
	g = uint32(c.g) * 0x101
	b = uint32(c.b) * 0x101
	a = 0xffff
	return
}

func ptrInt(v int) *int { return &v }
