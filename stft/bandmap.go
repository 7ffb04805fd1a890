package stft

import (
	"math"
	"strings"
)

// ScaleMode selects linear or logarithmic band spacing, per spec.md §4.2.
type ScaleMode int

const (
	LOG ScaleMode = iota
	LINEAR
)

// ParseScaleMode looks up a scale-mode identifier case-insensitively,
// accepting both the long and short forms from spec.md §6.
func ParseScaleMode(tag string) (ScaleMode, error) {
	switch strings.ToUpper(tag) {
	case "LINEARSCALE", "LINEAR":
		return LINEAR, nil
	case "LOGSCALE", "LOG":
		return LOG, nil
	default:
		return LOG, &Error{Kind: InvalidArgument, Param: "mode", Msg: "unknown scale mode " + tag}
	}
}

// band is one BandMap entry: a contiguous run of DFT bins collapsed to one
// output value.
type band struct {
	Start int
	Span  int
}

// buildBandMap constructs the width-W band map for the given capacity,
// scale mode and frequency triple, per spec.md §4.2 "BandMap construction".
func buildBandMap(n int, width int, mode ScaleMode, fs, fl, fh float64) []band {
	bands := make([]band, width)
	pos := float64(n) * fl / fs
	head := int(math.RoundToEven(pos))

	switch mode {
	case LINEAR:
		step := float64(n) * (fh - fl) / (fs * float64(width))
		for i := 0; i < width; i++ {
			pos += step
			tail := int(math.RoundToEven(pos))
			span := tail - head
			if span < 1 {
				span = 1
			}
			bands[i] = band{Start: head, Span: span}
			head = tail
		}
	case LOG:
		step := math.Pow(fh/fl, 1.0/float64(width))
		for i := 0; i < width; i++ {
			pos *= step
			tail := int(math.RoundToEven(pos))
			span := tail - head
			if span < 1 {
				span = 1
			}
			bands[i] = band{Start: head, Span: span}
			head = tail
		}
	}
	return bands
}
