// Package bmp decodes the 8-bit indexed BMP images used for sign icons
// into a grid of resolved colors.
//
// Only the subset of the format the sign tooling produces is supported:
// uncompressed, 8 bits per pixel, palette directly after the 54-byte
// header. Colors with all three channels below the darkness threshold are
// reported as transparent rather than near-black; sign images cannot
// contain true near-black pixels.
package bmp

import (
	"encoding/binary"
	"errors"
	"fmt"

	appLog "signadmin/internal/log"
)

// ErrFormat indicates the byte stream is not a BMP file this decoder can
// make sense of (bad magic, truncated header or pixel data).
var ErrFormat = errors.New("bmp: invalid format")

// ErrUnsupportedFormat indicates a well-formed BMP that is not an 8-bit
// indexed image.
var ErrUnsupportedFormat = errors.New("bmp: unsupported format")

// Fixed header layout of the supported files.
const (
	headerSize        = 54
	offDataOffset     = 10
	offWidth          = 18
	offHeight         = 22
	offBitsPerPixel   = 28
	offPaletteEntries = 46

	paletteEntrySize   = 4
	defaultPaletteSize = 256

	// Channels below this value count as "off" for the transparency rule.
	darknessThreshold = 10
)

// Pixel is one resolved cell of a decoded image. Transparent pixels carry
// no meaningful color.
type Pixel struct {
	R, G, B     uint8
	Transparent bool
}

// Image is a decoded bitmap with row 0 as the visually top row.
type Image struct {
	Width  int
	Height int
	pixels []Pixel
}

// At returns the pixel at (x, y). Out-of-bounds coordinates return a
// transparent pixel.
func (im *Image) At(x, y int) Pixel {
	if x < 0 || x >= im.Width || y < 0 || y >= im.Height {
		return Pixel{Transparent: true}
	}
	return im.pixels[y*im.Width+x]
}

// Decode parses an 8-bit indexed BMP byte stream.
func Decode(data []byte) (*Image, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrFormat, len(data))
	}
	if data[0] != 'B' || data[1] != 'M' {
		return nil, fmt.Errorf("%w: missing BM signature", ErrFormat)
	}

	dataOffset := int(binary.LittleEndian.Uint32(data[offDataOffset:]))
	width := int(int32(binary.LittleEndian.Uint32(data[offWidth:])))
	rawHeight := int(int32(binary.LittleEndian.Uint32(data[offHeight:])))
	bitsPerPixel := int(binary.LittleEndian.Uint16(data[offBitsPerPixel:]))
	paletteEntries := int(binary.LittleEndian.Uint32(data[offPaletteEntries:]))

	if bitsPerPixel != 8 {
		return nil, fmt.Errorf("%w: %d bits per pixel, want 8", ErrUnsupportedFormat, bitsPerPixel)
	}

	// Negative height encodes top-down row order.
	topDown := rawHeight < 0
	height := rawHeight
	if height < 0 {
		height = -height
	}
	if width <= 0 || height == 0 {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d", ErrFormat, width, rawHeight)
	}

	if paletteEntries == 0 {
		paletteEntries = defaultPaletteSize
	}
	palette := decodePalette(data, paletteEntries)

	// Rows are padded to a 4-byte boundary.
	stride := ((width*bitsPerPixel + 31) / 32) * 4
	if dataOffset < headerSize || dataOffset+stride*height > len(data) {
		return nil, fmt.Errorf("%w: pixel data truncated", ErrFormat)
	}

	im := &Image{
		Width:  width,
		Height: height,
		pixels: make([]Pixel, width*height),
	}

	badIndexes := 0
	for y := 0; y < height; y++ {
		// Source rows are stored bottom-to-top unless the height was
		// negative; output row 0 is always the top row.
		srcRow := height - 1 - y
		if topDown {
			srcRow = y
		}
		rowBase := dataOffset + srcRow*stride

		for x := 0; x < width; x++ {
			idx := int(data[rowBase+x])
			if idx >= len(palette) {
				// Recoverable anomaly: fall back to opaque black.
				badIndexes++
				im.pixels[y*width+x] = Pixel{}
				continue
			}
			im.pixels[y*width+x] = palette[idx]
		}
	}

	if badIndexes > 0 {
		appLog.Warn("bmp: out-of-range palette indexes resolved to black",
			"count", badIndexes, "palette_size", len(palette))
	}

	return im, nil
}

// decodePalette reads up to entries (blue, green, red, reserved) tuples
// following the header, resolving the transparency rule per entry. A
// truncated palette yields fewer entries; lookups past the end are handled
// by the caller.
func decodePalette(data []byte, entries int) []Pixel {
	palette := make([]Pixel, 0, entries)
	for i := 0; i < entries; i++ {
		off := headerSize + i*paletteEntrySize
		if off+3 > len(data) {
			break
		}
		b, g, r := data[off], data[off+1], data[off+2]
		palette = append(palette, Pixel{
			R:           r,
			G:           g,
			B:           b,
			Transparent: r < darknessThreshold && g < darknessThreshold && b < darknessThreshold,
		})
	}
	return palette
}
