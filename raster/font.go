package raster

// font is the fixed 256-entry bitmap glyph table named in spec.md §4.4: 10
// rows per glyph, one byte per row, the glyph occupying bits 7..3 (mask
// 0x80>>k tests column k of a 5-pixel-wide glyph). It defines shapes for the
// characters axis labels actually need -- digits, uppercase letters, space,
// and the punctuation used in frequency/time/dB annotations ('.', '-', ':',
// '%'). Any other byte value, defined or not, is all-zero rows, which
// renders as a blank glyph -- not an error.
var font [256][10]byte

// glyphRows compiles a 10-row, 5-column ASCII art glyph (any non-blank,
// non-'.' rune marks a lit pixel) into the bits-7..3 packed byte form the
// renderer consumes.
func glyphRows(rows [10]string) [10]byte {
	var out [10]byte
	for r, row := range rows {
		var b byte
		for k := 0; k < 5 && k < len(row); k++ {
			if row[k] != '.' && row[k] != ' ' {
				b |= 0x80 >> uint(k)
			}
		}
		out[r] = b
	}
	return out
}

func init() {
	blank := [10]string{"     ", "     ", "     ", "     ", "     ", "     ", "     ", "     ", "     ", "     "}
	font[' '] = glyphRows(blank)

	font['0'] = glyphRows([10]string{
		".###.",
		"#...#",
		"#..##",
		"#.#.#",
		"##..#",
		"#...#",
		"#...#",
		".###.",
		"     ",
		"     ",
	})
	font['1'] = glyphRows([10]string{
		"..#..",
		".##..",
		"..#..",
		"..#..",
		"..#..",
		"..#..",
		"..#..",
		".###.",
		"     ",
		"     ",
	})
	font['2'] = glyphRows([10]string{
		".###.",
		"#...#",
		"....#",
		"...#.",
		"..#..",
		".#...",
		"#....",
		"#####",
		"     ",
		"     ",
	})
	font['3'] = glyphRows([10]string{
		"####.",
		"....#",
		"...#.",
		"..##.",
		"....#",
		"....#",
		"#...#",
		".###.",
		"     ",
		"     ",
	})
	font['4'] = glyphRows([10]string{
		"...#.",
		"..##.",
		".#.#.",
		"#..#.",
		"#####",
		"...#.",
		"...#.",
		"...#.",
		"     ",
		"     ",
	})
	font['5'] = glyphRows([10]string{
		"#####",
		"#....",
		"#....",
		"####.",
		"....#",
		"....#",
		"#...#",
		".###.",
		"     ",
		"     ",
	})
	font['6'] = glyphRows([10]string{
		"..##.",
		".#...",
		"#....",
		"####.",
		"#...#",
		"#...#",
		"#...#",
		".###.",
		"     ",
		"     ",
	})
	font['7'] = glyphRows([10]string{
		"#####",
		"....#",
		"...#.",
		"..#..",
		".#...",
		".#...",
		".#...",
		".#...",
		"     ",
		"     ",
	})
	font['8'] = glyphRows([10]string{
		".###.",
		"#...#",
		"#...#",
		".###.",
		"#...#",
		"#...#",
		"#...#",
		".###.",
		"     ",
		"     ",
	})
	font['9'] = glyphRows([10]string{
		".###.",
		"#...#",
		"#...#",
		".####",
		"....#",
		"....#",
		"...#.",
		".##..",
		"     ",
		"     ",
	})

	letters := map[byte][10]string{
		'A': {".###.", "#...#", "#...#", "#...#", "#####", "#...#", "#...#", "#...#", "     ", "     "},
		'B': {"####.", "#...#", "#...#", "####.", "#...#", "#...#", "#...#", "####.", "     ", "     "},
		'C': {".###.", "#...#", "#....", "#....", "#....", "#....", "#...#", ".###.", "     ", "     "},
		'D': {"####.", "#...#", "#...#", "#...#", "#...#", "#...#", "#...#", "####.", "     ", "     "},
		'E': {"#####", "#....", "#....", "####.", "#....", "#....", "#....", "#####", "     ", "     "},
		'F': {"#####", "#....", "#....", "####.", "#....", "#....", "#....", "#....", "     ", "     "},
		'G': {".###.", "#...#", "#....", "#..##", "#...#", "#...#", "#...#", ".###.", "     ", "     "},
		'H': {"#...#", "#...#", "#...#", "#####", "#...#", "#...#", "#...#", "#...#", "     ", "     "},
		'I': {".###.", "..#..", "..#..", "..#..", "..#..", "..#..", "..#..", ".###.", "     ", "     "},
		'J': {"....#", "....#", "....#", "....#", "....#", "#...#", "#...#", ".###.", "     ", "     "},
		'K': {"#...#", "#..#.", "#.#..", "##...", "#.#..", "#..#.", "#...#", "#...#", "     ", "     "},
		'L': {"#....", "#....", "#....", "#....", "#....", "#....", "#....", "#####", "     ", "     "},
		'M': {"#...#", "##.##", "#.#.#", "#...#", "#...#", "#...#", "#...#", "#...#", "     ", "     "},
		'N': {"#...#", "##..#", "#.#.#", "#..##", "#...#", "#...#", "#...#", "#...#", "     ", "     "},
		'O': {".###.", "#...#", "#...#", "#...#", "#...#", "#...#", "#...#", ".###.", "     ", "     "},
		'P': {"####.", "#...#", "#...#", "####.", "#....", "#....", "#....", "#....", "     ", "     "},
		'Q': {".###.", "#...#", "#...#", "#...#", "#.#.#", "#..#.", "#...#", ".##.#", "     ", "     "},
		'R': {"####.", "#...#", "#...#", "####.", "#.#..", "#..#.", "#...#", "#...#", "     ", "     "},
		'S': {".###.", "#...#", "#....", ".###.", "....#", "....#", "#...#", ".###.", "     ", "     "},
		'T': {"#####", "..#..", "..#..", "..#..", "..#..", "..#..", "..#..", "..#..", "     ", "     "},
		'U': {"#...#", "#...#", "#...#", "#...#", "#...#", "#...#", "#...#", ".###.", "     ", "     "},
		'V': {"#...#", "#...#", "#...#", "#...#", "#...#", ".#.#.", ".#.#.", "..#..", "     ", "     "},
		'W': {"#...#", "#...#", "#...#", "#.#.#", "#.#.#", "#.#.#", "##.##", "#...#", "     ", "     "},
		'X': {"#...#", "#...#", ".#.#.", "..#..", "..#..", ".#.#.", "#...#", "#...#", "     ", "     "},
		'Y': {"#...#", "#...#", ".#.#.", "..#..", "..#..", "..#..", "..#..", "..#..", "     ", "     "},
		'Z': {"#####", "....#", "...#.", "..#..", ".#...", "#....", "#....", "#####", "     ", "     "},
	}
	for ch, rows := range letters {
		font[ch] = glyphRows(rows)
	}

	punct := map[byte][10]string{
		'.': {"     ", "     ", "     ", "     ", "     ", "     ", ".#...", ".#...", "     ", "     "},
		'-': {"     ", "     ", "     ", "#####", "     ", "     ", "     ", "     ", "     ", "     "},
		':': {"     ", "..#..", "     ", "     ", "     ", "..#..", "     ", "     ", "     ", "     "},
		'%': {"#...#", "....#", "...#.", "..#..", ".#...", "#....", "#...#", "     ", "     ", "     "},
	}
	for ch, rows := range punct {
		font[ch] = glyphRows(rows)
	}
}
