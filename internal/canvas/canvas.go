// Package canvas provides the addressable pixel buffer all sign rendering
// draws into, plus the sinks that turn a finished frame into something
// visible (PNG bytes, terminal output).
package canvas

import (
	"signadmin/internal/bmp"
	"signadmin/internal/model"
)

// Native geometry of the physical matrix.
const (
	MatrixWidth  = 64
	MatrixHeight = 32
)

// Frame is a width x height grid of display colors. The zero color (black)
// is the background: on the matrix, black pixels are simply off.
type Frame struct {
	Width  int
	Height int
	pix    []model.RGB
}

// NewFrame allocates a cleared frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		pix:    make([]model.RGB, width*height),
	}
}

// NewMatrixFrame allocates a frame with the physical sign's geometry.
func NewMatrixFrame() *Frame {
	return NewFrame(MatrixWidth, MatrixHeight)
}

// SetPixel sets one cell. Out-of-bounds coordinates are silently ignored;
// callers routinely draw partially off-canvas content and rely on the
// clipping.
func (f *Frame) SetPixel(x, y int, c model.RGB) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.pix[y*f.Width+x] = c
}

// PixelAt returns the cell color, or black for out-of-bounds coordinates.
func (f *Frame) PixelAt(x, y int) model.RGB {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return model.RGB{}
	}
	return f.pix[y*f.Width+x]
}

// Clear resets every cell to the background.
func (f *Frame) Clear() {
	for i := range f.pix {
		f.pix[i] = model.RGB{}
	}
}

// FillRect fills a rectangle, clipped to the frame.
func (f *Frame) FillRect(x, y, w, h int, c model.RGB) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			f.SetPixel(x+dx, y+dy, c)
		}
	}
}

// DrawImage composites a decoded bitmap at the given origin, skipping
// transparent cells. Off-frame source pixels clip naturally via SetPixel.
func (f *Frame) DrawImage(im *bmp.Image, originX, originY int) {
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			px := im.At(x, y)
			if px.Transparent {
				continue
			}
			f.SetPixel(originX+x, originY+y, model.RGB{R: px.R, G: px.G, B: px.B})
		}
	}
}

// Sink receives finished frames. Implementations own the visual surface;
// the frame itself stays purely logical.
type Sink interface {
	Flush(f *Frame) error
}

// Flush hands the frame to a sink.
func (f *Frame) Flush(s Sink) error {
	return s.Flush(f)
}
