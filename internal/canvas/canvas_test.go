package canvas

import (
	"bytes"
	"image/png"
	"testing"

	"signadmin/internal/model"
)

func TestSetPixelClipsOutOfBounds(t *testing.T) {
	f := NewFrame(4, 4)
	red := model.RGB{R: 255}

	// None of these may panic or touch the buffer.
	f.SetPixel(-1, 0, red)
	f.SetPixel(0, -1, red)
	f.SetPixel(4, 0, red)
	f.SetPixel(0, 4, red)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if f.PixelAt(x, y) != (model.RGB{}) {
				t.Fatalf("pixel (%d,%d) changed by out-of-bounds writes", x, y)
			}
		}
	}
}

func TestPixelAtOutOfBoundsIsBlack(t *testing.T) {
	f := NewFrame(2, 2)
	f.SetPixel(0, 0, model.RGB{R: 255})
	if got := f.PixelAt(-1, 0); got != (model.RGB{}) {
		t.Fatalf("PixelAt(-1,0) = %#v, want black", got)
	}
	if got := f.PixelAt(0, 2); got != (model.RGB{}) {
		t.Fatalf("PixelAt(0,2) = %#v, want black", got)
	}
}

func TestFillRectClips(t *testing.T) {
	f := NewFrame(4, 4)
	blue := model.RGB{B: 255}
	f.FillRect(2, 2, 10, 10, blue)

	if got := f.PixelAt(2, 2); got != blue {
		t.Fatalf("PixelAt(2,2) = %#v, want blue", got)
	}
	if got := f.PixelAt(3, 3); got != blue {
		t.Fatalf("PixelAt(3,3) = %#v, want blue", got)
	}
	if got := f.PixelAt(1, 1); got != (model.RGB{}) {
		t.Fatalf("PixelAt(1,1) = %#v, want black", got)
	}
}

func TestClear(t *testing.T) {
	f := NewFrame(3, 3)
	f.FillRect(0, 0, 3, 3, model.RGB{G: 128})
	f.Clear()
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if f.PixelAt(x, y) != (model.RGB{}) {
				t.Fatalf("pixel (%d,%d) survived Clear", x, y)
			}
		}
	}
}

func TestNewMatrixFrameGeometry(t *testing.T) {
	f := NewMatrixFrame()
	if f.Width != MatrixWidth || f.Height != MatrixHeight {
		t.Fatalf("frame = %dx%d, want %dx%d", f.Width, f.Height, MatrixWidth, MatrixHeight)
	}
}

func TestPNGSinkScales(t *testing.T) {
	f := NewFrame(2, 2)
	f.SetPixel(0, 0, model.RGB{R: 255})

	var buf bytes.Buffer
	sink := &PNGSink{W: &buf, Scale: 3}
	if err := f.Flush(sink); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 6 || bounds.Dy() != 6 {
		t.Fatalf("decoded size = %dx%d, want 6x6", bounds.Dx(), bounds.Dy())
	}

	r, _, _, _ := img.At(1, 1).RGBA()
	if r>>8 != 255 {
		t.Fatalf("scaled pixel (1,1) red = %d, want 255", r>>8)
	}
	r, _, _, _ = img.At(5, 5).RGBA()
	if r>>8 != 0 {
		t.Fatalf("scaled pixel (5,5) red = %d, want 0", r>>8)
	}
}

func TestTermSinkRenderShape(t *testing.T) {
	f := NewFrame(4, 4)
	sink := &TermSink{}
	out := sink.Render(f)

	lines := 0
	for _, r := range out {
		if r == '\n' {
			lines++
		}
	}
	// Two pixel rows per text line.
	if lines != 2 {
		t.Fatalf("rendered %d lines, want 2", lines)
	}
}
