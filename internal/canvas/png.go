package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// PNGSink encodes flushed frames as PNG, optionally upscaled by an integer
// factor so the 64x32 frame is viewable on a normal screen.
type PNGSink struct {
	W io.Writer
	// Scale is the integer upscale factor; values below 1 mean native size.
	Scale int
}

// Flush encodes the frame and writes it to the sink's writer.
func (s *PNGSink) Flush(f *Frame) error {
	scale := s.Scale
	if scale < 1 {
		scale = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, f.Width*scale, f.Height*scale))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.PixelAt(x, y)
			nc := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetNRGBA(x*scale+dx, y*scale+dy, nc)
				}
			}
		}
	}

	if err := png.Encode(s.W, img); err != nil {
		return fmt.Errorf("canvas: encode png: %w", err)
	}
	return nil
}
