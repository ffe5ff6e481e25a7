package font

import "strings"

// Vertical layout constants, in pixels. These are display-coordinate
// contracts matched to the physical sign; changing them changes where
// deployed data renders.
const (
	// BottomMargin is the clearance kept below the lowest text line.
	BottomMargin = 2
	// DescenderMargin is the extra clearance reserved when the bottom
	// line contains descender characters.
	DescenderMargin = 2
	// LineSpacing is the gap between the two text lines.
	LineSpacing = 1
)

// descenders are the characters whose shapes drop below the baseline.
const descenders = "gjpqy"

// HasDescenders reports whether text contains a descender character,
// case-insensitively. The margin rule keys off the raw input text even
// though glyphs render single-case: the physical sign's font dips below
// the baseline for these letters.
func HasDescenders(text string) bool {
	return strings.ContainsAny(strings.ToLower(text), descenders)
}

// Layout gives the top Y coordinate for each of the two text lines.
type Layout struct {
	Line1Y int
	Line2Y int
}

// BottomAligned anchors a pair of text lines to the bottom of the display.
//
// The bottom margin grows by DescenderMargin when line2 contains descender
// characters, shifting both lines up by the same amount so nothing clips
// at the bottom edge of the matrix.
func (f *Font) BottomAligned(line1, line2 string, displayHeight int) Layout {
	return f.bottomAligned(line1, line2, displayHeight, false)
}

// BottomAlignedSpaced is the variant used for mid-schedule previews: the
// inter-line gap also grows when line1 itself has descenders.
func (f *Font) BottomAlignedSpaced(line1, line2 string, displayHeight int) Layout {
	return f.bottomAligned(line1, line2, displayHeight, true)
}

func (f *Font) bottomAligned(line1, line2 string, displayHeight int, spaceLine1 bool) Layout {
	fontHeight := f.lineHeight(line1)
	if h := f.lineHeight(line2); h > fontHeight {
		fontHeight = h
	}
	if fontHeight == 0 {
		fontHeight = f.Ascent
	}

	baselineOffset := f.maxDescent(line1)
	if d := f.maxDescent(line2); d > baselineOffset {
		baselineOffset = d
	}

	bottomMargin := BottomMargin
	if HasDescenders(line2) {
		bottomMargin += DescenderMargin
	}

	spacing := LineSpacing
	if spaceLine1 && HasDescenders(line1) {
		spacing += DescenderMargin
	}

	line2Y := displayHeight - bottomMargin - baselineOffset - fontHeight
	line1Y := line2Y - fontHeight - spacing
	if line1Y < baselineOffset {
		line1Y = baselineOffset
	}

	return Layout{Line1Y: line1Y, Line2Y: line2Y}
}
