package pcm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
)

// Decode converts count raw PCM samples encoded as format into a tensor of
// normalized float64 values in [-1.0, 1.0); DBL samples are copied verbatim
// and are not range-limited. It is a pure function family:
// the same (format, bytes, count) always produces the same output.
func Decode(format Format, b []byte, count int) (etensor.Float64, error) {
	var out etensor.Float64
	out.SetShape([]int{count}, nil, nil)
	n, err := DecodeInto(format, b, out.Values)
	if err != nil {
		return etensor.Float64{}, err
	}
	_ = n
	return out, nil
}

// DecodeInto decodes len(dst) samples from b into dst without allocating,
// for use on engines' hot push paths. Returns the number of samples written.
func DecodeInto(format Format, b []byte, dst []float64) (int, error) {
	bps := format.BytesPerSample()
	if bps == 0 {
		return 0, &Error{Kind: InvalidArgument, Param: "format", Msg: fmt.Sprintf("unknown PCM format %v", format)}
	}
	count := len(dst)
	need := count * bps
	if len(b) < need {
		return 0, &Error{Kind: InvalidLength, Param: "bytes", Msg: fmt.Sprintf("need %d bytes for %d samples, have %d", need, count, len(b))}
	}

	switch format {
	case U8:
		for i := 0; i < count; i++ {
			dst[i] = (float64(b[i]) - 128) / 128
		}
	case U16LE:
		for i := 0; i < count; i++ {
			v := binary.LittleEndian.Uint16(b[i*2:])
			dst[i] = (float64(v) - 32768) / 32768
		}
	case U16BE:
		for i := 0; i < count; i++ {
			v := binary.BigEndian.Uint16(b[i*2:])
			dst[i] = (float64(v) - 32768) / 32768
		}
	case S16LE:
		for i := 0; i < count; i++ {
			v := int16(binary.LittleEndian.Uint16(b[i*2:]))
			dst[i] = float64(v) / 32768
		}
	case S16BE:
		for i := 0; i < count; i++ {
			v := int16(binary.BigEndian.Uint16(b[i*2:]))
			dst[i] = float64(v) / 32768
		}
	case S24LE:
		for i := 0; i < count; i++ {
			o := i * 3
			v := int32(b[o])<<8 | int32(b[o+1])<<16 | int32(b[o+2])<<24
			dst[i] = float64(v) / 2147483648
		}
	case S24BE:
		for i := 0; i < count; i++ {
			o := i * 3
			v := int32(b[o])<<24 | int32(b[o+1])<<16 | int32(b[o+2])<<8
			dst[i] = float64(v) / 2147483648
		}
	case DBL:
		for i := 0; i < count; i++ {
			bits := binary.LittleEndian.Uint64(b[i*8:])
			dst[i] = math.Float64frombits(bits)
		}
	default:
		return 0, &Error{Kind: InvalidArgument, Param: "format", Msg: fmt.Sprintf("unknown PCM format %v", format)}
	}
	return count, nil
}
