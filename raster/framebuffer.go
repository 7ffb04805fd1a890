// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raster implements the RGB framebuffer renderer from spec.md §4.4:
// an owned byte raster plus column draws, gridlines, and glyph-based
// labels, exported as a raw top-down 24bpp byte view.
package raster

import "math"

// Options carries the independently-optional recognized Framebuffer
// settings from spec.md §6 and §9: column_step, margin_x, margin_y, ceil,
// floor. A nil field keeps the built-in default.
type Options struct {
	ColumnStep *int
	MarginX    *int
	MarginY    *int
	Ceil       *float64
	Floor      *float64
}

const (
	defaultCeil  = -10.0
	defaultFloor = -90.0
)

// Framebuffer is a single-threaded RGB raster state machine (spec.md §5).
// It exclusively owns its byte raster.
type Framebuffer struct {
	width, height int
	columnStep    int
	marginX       int
	marginY       int
	ceil, floor   float64
	rangeDb       float64

	stride int // bytes per raster row
	pix    []byte
}

// NewFramebuffer constructs a Framebuffer with the given spectral width and
// height (both >= 1), applying the defaults from spec.md §4.4
// (column_step=1, margin_x=0, margin_y=0, ceil=-10, floor=-90).
func NewFramebuffer(width, height int, opts Options) (*Framebuffer, error) {
	if width < 1 || height < 1 {
		return nil, ErrInvalidSize
	}
	fb := &Framebuffer{
		width:      width,
		height:     height,
		columnStep: 1,
		ceil:       defaultCeil,
		floor:      defaultFloor,
	}
	if opts.ColumnStep != nil {
		if *opts.ColumnStep < 1 {
			return nil, &Error{Kind: InvalidArgument, Param: "column_step", Msg: "column_step must be >= 1"}
		}
		fb.columnStep = *opts.ColumnStep
	}
	if opts.MarginX != nil {
		if *opts.MarginX < 0 {
			return nil, &Error{Kind: InvalidArgument, Param: "margin_x", Msg: "margin_x must be >= 0"}
		}
		fb.marginX = *opts.MarginX
	}
	if opts.MarginY != nil {
		if *opts.MarginY < 0 {
			return nil, &Error{Kind: InvalidArgument, Param: "margin_y", Msg: "margin_y must be >= 0"}
		}
		fb.marginY = *opts.MarginY
	}
	if opts.Ceil != nil {
		fb.ceil = *opts.Ceil
	}
	if opts.Floor != nil {
		fb.floor = *opts.Floor
	}
	fb.rangeDb = fb.ceil - fb.floor

	fb.stride = (fb.marginX + fb.width*fb.columnStep) * 3
	fb.pix = make([]byte, fb.stride*(fb.height+fb.marginY))
	return fb, nil
}

// totalWidth is the raster's pixel width, mx + w*k.
func (fb *Framebuffer) totalWidth() int { return fb.marginX + fb.width*fb.columnStep }

// totalHeight is the raster's pixel height, h + my.
func (fb *Framebuffer) totalHeight() int { return fb.height + fb.marginY }

func (fb *Framebuffer) setPixel(x, y int, r, g, b byte) {
	if x < 0 || y < 0 || x >= fb.totalWidth() || y >= fb.totalHeight() {
		return
	}
	o := y*fb.stride + x*3
	fb.pix[o] = r
	fb.pix[o+1] = g
	fb.pix[o+2] = b
}

func clampByte(v float64) byte {
	r := math.RoundToEven(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return byte(r)
}

// DrawPower paints spectral column col from data (raw power-dB domain,
// length == height) per spec.md §4.4: v = clamp(round(x*3.5), 0, 255),
// color (v/3, v, v/2).
func (fb *Framebuffer) DrawPower(col int, data []float64) error {
	if col < 0 || col >= fb.width {
		return ErrInvalidCol
	}
	if len(data) != fb.height {
		return ErrInvalidLength
	}
	for r := 0; r < fb.height; r++ {
		x := data[r]
		v := clampByte(x * 3.5)
		fb.paintColumnRow(col, r, byte(v/3), v, byte(v/2))
	}
	return nil
}

// DrawAmplitude paints spectral column col from data (amplitude-dB domain,
// length == height), per spec.md §4.4.
func (fb *Framebuffer) DrawAmplitude(col int, data []float64) error {
	if col < 0 || col >= fb.width {
		return ErrInvalidCol
	}
	if len(data) != fb.height {
		return ErrInvalidLength
	}
	for r := 0; r < fb.height; r++ {
		x := data[r]
		var v byte
		switch {
		case x >= fb.ceil:
			v = 255
		case x <= fb.floor:
			v = 0
		default:
			v = clampByte(255 * (x - fb.floor) / fb.rangeDb)
		}
		fb.paintColumnRow(col, r, byte(v/3), v, byte(v/2))
	}
	return nil
}

// paintColumnRow fills the k pixels of raster row r, spectral column col
// with the given color.
func (fb *Framebuffer) paintColumnRow(col, r int, rr, g, b byte) {
	x0 := fb.marginX + col*fb.columnStep
	for dx := 0; dx < fb.columnStep; dx++ {
		fb.setPixel(x0+dx, r, rr, g, b)
	}
}

// HLine draws a horizontal gridline at the given spectral row and a label
// above it, per spec.md §4.4.
func (fb *Framebuffer) HLine(row int, label string) error {
	if row < 0 || row >= fb.height {
		return ErrInvalidRow
	}
	for x := 0; x < fb.totalWidth(); x++ {
		o := row*fb.stride + x*3
		fb.pix[o] = saturatingAdd(fb.pix[o], 255)
	}
	fb.writeGlyphs(4, row-11, label, 0xff, 0x00, 0x00)
	return nil
}

// VLine draws a vertical gridline at the given spectral column and a label
// below it, per spec.md §4.4.
func (fb *Framebuffer) VLine(col int, label string) error {
	if col < 0 || col >= fb.width {
		return ErrInvalidCol
	}
	x := fb.marginX + col*fb.columnStep
	for y := 0; y < fb.totalHeight(); y++ {
		o := y*fb.stride + x*3
		fb.pix[o] = saturatingAdd(fb.pix[o], 0x40)
		fb.pix[o+1] = saturatingAdd(fb.pix[o+1], 0x40)
		fb.pix[o+2] = 0xff
	}
	fb.writeGlyphs(x+4, fb.height+14, label, 0x80, 0x80, 0xff)
	return nil
}

func saturatingAdd(a, b byte) byte {
	sum := int(a) + int(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// writeGlyphs renders label starting at raster pixel (x0, y0), advancing 6
// pixels per character, clipping out-of-bounds pixels silently (spec.md
// §4.4: "glyph writes are clipped to the raster bounds; no wraparound").
func (fb *Framebuffer) writeGlyphs(x0, y0 int, label string, r, g, b byte) {
	for i := 0; i < len(label); i++ {
		glyph := font[label[i]]
		gx := x0 + i*6
		for row := 0; row < 10; row++ {
			bits := glyph[row]
			for k := 0; k < 5; k++ {
				if bits&(0x80>>uint(k)) != 0 {
					fb.setPixel(gx+k, y0+row, r, g, b)
				}
			}
		}
	}
}

// ToBytes returns a read-only view of the raster: row-major, top-down,
// 3 bytes per pixel, totalWidth() pixels per row, totalHeight() rows.
func (fb *Framebuffer) ToBytes() []byte {
	return fb.pix
}

// Width returns the configured spectral width w.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the configured spectral height h.
func (fb *Framebuffer) Height() int { return fb.height }
