package font

// Matrix is the 5x7 font burned into the sign firmware. Glyph bit
// patterns must stay in sync with the device; the preview is only
// bit-accurate while the two match.
var Matrix = &Font{
	Ascent:       7,
	DefaultWidth: 5,
	Glyphs:       matrixGlyphs,
}

func g5(rows ...uint8) Glyph {
	return Glyph{Width: 5, Height: 7, Rows: rows}
}

func gn(width int, rows ...uint8) Glyph {
	return Glyph{Width: width, Height: 7, Rows: rows}
}

var matrixGlyphs = map[rune]Glyph{
	'A': g5(0b01110, 0b10001, 0b10001, 0b11111, 0b10001, 0b10001, 0b10001),
	'B': g5(0b11110, 0b10001, 0b10001, 0b11110, 0b10001, 0b10001, 0b11110),
	'C': g5(0b01110, 0b10001, 0b10000, 0b10000, 0b10000, 0b10001, 0b01110),
	'D': g5(0b11100, 0b10010, 0b10001, 0b10001, 0b10001, 0b10010, 0b11100),
	'E': g5(0b11111, 0b10000, 0b11110, 0b10000, 0b10000, 0b10000, 0b11111),
	'F': g5(0b11111, 0b10000, 0b11110, 0b10000, 0b10000, 0b10000, 0b10000),
	'G': g5(0b01110, 0b10001, 0b10000, 0b10111, 0b10001, 0b10001, 0b01111),
	'H': g5(0b10001, 0b10001, 0b11111, 0b10001, 0b10001, 0b10001, 0b10001),
	'I': gn(3, 0b111, 0b010, 0b010, 0b010, 0b010, 0b010, 0b111),
	'J': g5(0b00111, 0b00010, 0b00010, 0b00010, 0b00010, 0b10010, 0b01100),
	'K': g5(0b10001, 0b10010, 0b10100, 0b11000, 0b10100, 0b10010, 0b10001),
	'L': g5(0b10000, 0b10000, 0b10000, 0b10000, 0b10000, 0b10000, 0b11111),
	'M': g5(0b10001, 0b11011, 0b10101, 0b10101, 0b10001, 0b10001, 0b10001),
	'N': g5(0b10001, 0b11001, 0b10101, 0b10011, 0b10001, 0b10001, 0b10001),
	'O': g5(0b01110, 0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b01110),
	'P': g5(0b11110, 0b10001, 0b10001, 0b11110, 0b10000, 0b10000, 0b10000),
	'Q': g5(0b01110, 0b10001, 0b10001, 0b10001, 0b10101, 0b10010, 0b01101),
	'R': g5(0b11110, 0b10001, 0b10001, 0b11110, 0b10100, 0b10010, 0b10001),
	'S': g5(0b01111, 0b10000, 0b10000, 0b01110, 0b00001, 0b00001, 0b11110),
	'T': g5(0b11111, 0b00100, 0b00100, 0b00100, 0b00100, 0b00100, 0b00100),
	'U': g5(0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b01110),
	'V': g5(0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b01010, 0b00100),
	'W': g5(0b10001, 0b10001, 0b10001, 0b10101, 0b10101, 0b11011, 0b10001),
	'X': g5(0b10001, 0b10001, 0b01010, 0b00100, 0b01010, 0b10001, 0b10001),
	'Y': g5(0b10001, 0b10001, 0b01010, 0b00100, 0b00100, 0b00100, 0b00100),
	'Z': g5(0b11111, 0b00001, 0b00010, 0b00100, 0b01000, 0b10000, 0b11111),

	'0': g5(0b01110, 0b10001, 0b10011, 0b10101, 0b11001, 0b10001, 0b01110),
	'1': gn(3, 0b010, 0b110, 0b010, 0b010, 0b010, 0b010, 0b111),
	'2': g5(0b01110, 0b10001, 0b00001, 0b00110, 0b01000, 0b10000, 0b11111),
	'3': g5(0b11111, 0b00010, 0b00100, 0b00010, 0b00001, 0b10001, 0b01110),
	'4': g5(0b00010, 0b00110, 0b01010, 0b10010, 0b11111, 0b00010, 0b00010),
	'5': g5(0b11111, 0b10000, 0b11110, 0b00001, 0b00001, 0b10001, 0b01110),
	'6': g5(0b00110, 0b01000, 0b10000, 0b11110, 0b10001, 0b10001, 0b01110),
	'7': g5(0b11111, 0b00001, 0b00010, 0b00100, 0b01000, 0b01000, 0b01000),
	'8': g5(0b01110, 0b10001, 0b10001, 0b01110, 0b10001, 0b10001, 0b01110),
	'9': g5(0b01110, 0b10001, 0b10001, 0b01111, 0b00001, 0b00010, 0b01100),

	' ':  gn(2, 0, 0, 0, 0, 0, 0, 0),
	'.':  gn(1, 0, 0, 0, 0, 0, 0, 1),
	',':  gn(2, 0, 0, 0, 0, 0, 0b01, 0b10),
	'!':  gn(1, 1, 1, 1, 1, 1, 0, 1),
	'?':  g5(0b01110, 0b10001, 0b00001, 0b00010, 0b00100, 0b00000, 0b00100),
	':':  gn(1, 0, 0, 1, 0, 1, 0, 0),
	'\'': gn(1, 1, 1, 0, 0, 0, 0, 0),
	'-':  gn(3, 0, 0, 0, 0b111, 0, 0, 0),
	'/':  g5(0b00001, 0b00001, 0b00010, 0b00100, 0b01000, 0b10000, 0b10000),
	'&':  g5(0b01100, 0b10010, 0b10100, 0b01000, 0b10101, 0b10010, 0b01101),
	'+':  g5(0b00000, 0b00100, 0b00100, 0b11111, 0b00100, 0b00100, 0b00000),
}
