// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pcm decodes raw PCM byte streams into normalized float64 samples.
// It knows nothing about files, sockets, or any other transport -- callers
// hand it a byte slice and a format tag and get normalized samples back.
package pcm

import (
	"fmt"
	"strings"
)

// Format identifies the on-the-wire encoding of one PCM sample.
type Format int

const (
	// Unknown is the zero value, never produced by ParseFormat for valid input.
	Unknown Format = iota
	U8
	U16LE
	U16BE
	S16LE
	S16BE
	S24LE
	S24BE
	// DBL is only meaningful for the CWT engine -- 8-byte little-endian
	// (host) doubles copied verbatim.
	DBL
)

// String returns the canonical upper-case tag for the format.
func (f Format) String() string {
	switch f {
	case U8:
		return "U8"
	case U16LE:
		return "U16LE"
	case U16BE:
		return "U16BE"
	case S16LE:
		return "S16LE"
	case S16BE:
		return "S16BE"
	case S24LE:
		return "S24LE"
	case S24BE:
		return "S24BE"
	case DBL:
		return "DBL"
	default:
		return "Unknown"
	}
}

// ParseFormat looks up a format tag case-insensitively, per spec.md §6.
func ParseFormat(tag string) (Format, error) {
	switch strings.ToLower(tag) {
	case "u8":
		return U8, nil
	case "u16le":
		return U16LE, nil
	case "u16be":
		return U16BE, nil
	case "s16le":
		return S16LE, nil
	case "s16be":
		return S16BE, nil
	case "s24le":
		return S24LE, nil
	case "s24be":
		return S24BE, nil
	case "dbl":
		return DBL, nil
	default:
		return Unknown, &Error{Kind: InvalidArgument, Param: "format", Msg: fmt.Sprintf("unknown PCM format tag %q", tag)}
	}
}

// BytesPerSample returns the wire size of one sample in this format, or 0
// for Unknown.
func (f Format) BytesPerSample() int {
	switch f {
	case U8:
		return 1
	case U16LE, U16BE, S16LE, S16BE:
		return 2
	case S24LE, S24BE:
		return 3
	case DBL:
		return 8
	default:
		return 0
	}
}
