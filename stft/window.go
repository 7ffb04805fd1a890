package stft

import (
	"math"
	"strings"

	"github.com/emer/etable/etensor"
)

// WindowKind selects the analysis window applied before the DFT, per
// spec.md §4.2.
type WindowKind int

const (
	RECTANGULAR WindowKind = iota
	HAMMING
	HANN
	BLACKMAN
	BLACKMAN_NUTTALL
	FLAT_TOP
)

// ParseWindowKind looks up a window identifier case-insensitively.
func ParseWindowKind(tag string) (WindowKind, error) {
	switch strings.ToUpper(tag) {
	case "RECTANGULAR":
		return RECTANGULAR, nil
	case "HAMMING":
		return HAMMING, nil
	case "HANN":
		return HANN, nil
	case "BLACKMAN":
		return BLACKMAN, nil
	case "BLACKMAN_NUTTALL":
		return BLACKMAN_NUTTALL, nil
	case "FLAT_TOP":
		return FLAT_TOP, nil
	default:
		return RECTANGULAR, &Error{Kind: InvalidArgument, Param: "window", Msg: "unknown window kind " + tag}
	}
}

// buildWindow fills table (length n) with the closed-form window values for
// kind, per spec.md §4.2.
func buildWindow(kind WindowKind, table *etensor.Float64) {
	n := len(table.Values)
	if n == 0 {
		return
	}
	denom := float64(n - 1)
	if denom == 0 {
		denom = 1 // avoid div-by-zero for the degenerate n=1 case
	}
	for i := 0; i < n; i++ {
		x := 2 * math.Pi * float64(i) / denom
		var w float64
		switch kind {
		case RECTANGULAR:
			w = 1
		case HAMMING:
			w = 0.54 - 0.46*math.Cos(x)
		case HANN:
			w = 0.50 - 0.50*math.Cos(x)
		case BLACKMAN:
			w = 0.42 - 0.50*math.Cos(x) + 0.08*math.Cos(2*x)
		case BLACKMAN_NUTTALL:
			w = 0.3635819 - 0.4891775*math.Cos(x) + 0.1365995*math.Cos(2*x) - 0.0106411*math.Cos(3*x)
		case FLAT_TOP:
			w = 1 - 1.93*math.Cos(x) + 1.29*math.Cos(2*x) - 0.388*math.Cos(3*x) + 0.032*math.Cos(4*x)
		default:
			w = 1
		}
		table.Values[i] = w
	}
}
