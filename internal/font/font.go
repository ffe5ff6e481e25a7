// Package font holds the sign's bitmap font and the text layout rules:
// horizontal advance measurement and the descender-aware bottom-anchored
// vertical layout that keeps text from clipping off the matrix.
package font

import (
	"strings"

	"signadmin/internal/canvas"
	"signadmin/internal/model"
)

// Glyph is one character cell: per-row bit patterns (MSB-first, leftmost
// pixel in the highest used bit) plus the drawing offsets relative to the
// line origin.
type Glyph struct {
	Width   int
	Height  int
	Rows    []uint8
	XOffset int
	YOffset int
}

// Font is an immutable single-case bitmap font.
type Font struct {
	Glyphs map[rune]Glyph
	// Ascent is the nominal glyph height above the baseline.
	Ascent int
	// DefaultWidth is the advance used for characters without a glyph.
	DefaultWidth int
}

// glyphSpacing is the gap between adjacent glyphs in pixels.
const glyphSpacing = 1

// MeasureLine returns the pixel width of a line of text. The font is
// single-case, so text is uppercased first; unknown characters contribute
// the font's default advance.
func (f *Font) MeasureLine(text string) int {
	width := 0
	n := 0
	for _, r := range strings.ToUpper(text) {
		if g, ok := f.Glyphs[r]; ok {
			width += g.Width + glyphSpacing
		} else {
			width += f.DefaultWidth + glyphSpacing
		}
		n++
	}
	if n > 0 {
		width -= glyphSpacing
	}
	return width
}

// lineHeight returns the tallest glyph height across the text, falling
// back to the font ascent for empty or fully unknown text.
func (f *Font) lineHeight(text string) int {
	h := 0
	for _, r := range strings.ToUpper(text) {
		if g, ok := f.Glyphs[r]; ok && g.Height > h {
			h = g.Height
		}
	}
	return h
}

// maxDescent returns the largest |YOffset| across the text's glyphs.
func (f *Font) maxDescent(text string) int {
	d := 0
	for _, r := range strings.ToUpper(text) {
		g, ok := f.Glyphs[r]
		if !ok {
			continue
		}
		off := g.YOffset
		if off < 0 {
			off = -off
		}
		if off > d {
			d = off
		}
	}
	return d
}

// DrawText draws a line of text with its top-left line origin at (x, y),
// advancing left to right. Set bits are painted in the given color; clear
// bits leave the frame untouched.
func DrawText(frame *canvas.Frame, f *Font, text string, x, y int, c model.RGB) {
	cursor := x
	for _, r := range strings.ToUpper(text) {
		g, ok := f.Glyphs[r]
		if !ok {
			cursor += f.DefaultWidth + glyphSpacing
			continue
		}
		for row := 0; row < len(g.Rows) && row < g.Height; row++ {
			bits := g.Rows[row]
			for col := 0; col < g.Width; col++ {
				if bits&(1<<uint(g.Width-1-col)) == 0 {
					continue
				}
				frame.SetPixel(cursor+g.XOffset+col, y+g.YOffset+row, c)
			}
		}
		cursor += g.Width + glyphSpacing
	}
}
