package canvas

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"signadmin/internal/model"
)

// TermSink renders flushed frames into a terminal. Each character cell
// shows two vertically stacked pixels using the upper-half block glyph,
// so the 64x32 frame fits in 64 columns by 16 rows.
type TermSink struct {
	W io.Writer
}

// Flush writes the frame to the terminal writer.
func (s *TermSink) Flush(f *Frame) error {
	_, err := io.WriteString(s.W, s.Render(f))
	return err
}

// Render returns the frame as a styled string without writing it, which
// is what the watch TUI embeds into its view.
func (s *TermSink) Render(f *Frame) string {
	var b strings.Builder
	for y := 0; y < f.Height; y += 2 {
		for x := 0; x < f.Width; x++ {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(f.PixelAt(x, y)))).
				Background(lipgloss.Color(hexColor(f.PixelAt(x, y+1))))
			b.WriteString(style.Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func hexColor(c model.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
