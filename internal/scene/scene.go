// Package scene composes full display frames out of the lower layers:
// bitmap icons, the text layout engine, and the progress bar. Frame
// geometry here is a contract with the physical sign; the preview is only
// trustworthy while these constants match the firmware's layout.
package scene

import (
	"context"

	"signadmin/internal/bmp"
	"signadmin/internal/canvas"
	"signadmin/internal/font"
	appLog "signadmin/internal/log"
	"signadmin/internal/model"
)

// Fixed layout positions, in native 64x32 display coordinates.
const (
	// IconOriginX/Y place the 16x16 icon slot top-centered.
	IconOriginX = 24
	IconOriginY = 0

	// TextMarginX is the left margin for both text lines.
	TextMarginX = 2

	// Progress bar geometry.
	BarOriginX = 2
	BarOriginY = 26
	BarWidth   = 60
	BarHeight  = 3
	// BarTicks is the number of boundary tick marks across the bar.
	BarTicks = 5
)

var (
	barFillColor = model.RGB{R: 0, G: 255, B: 0}
	barTickColor = model.White
)

// ImageLoader fetches raw bitmap bytes for a named sign image.
type ImageLoader interface {
	LoadImage(ctx context.Context, name string) ([]byte, error)
}

// Renderer draws frames for sign records. It owns the decoded-image cache;
// the font and image source are injected.
type Renderer struct {
	Font   *font.Font
	Loader ImageLoader
	cache  *bmp.Cache
}

// NewRenderer builds a renderer around a font and an image source.
func NewRenderer(f *font.Font, loader ImageLoader) *Renderer {
	return &Renderer{
		Font:   f,
		Loader: loader,
		cache:  bmp.NewCache(),
	}
}

// EventView is the record shape the event frame renders: two text lines,
// an icon, and a palette color for the bottom line.
type EventView struct {
	TopLine    string
	BottomLine string
	Icon       string
	Color      string
}

// ViewOfEvent adapts a dated event for rendering.
func ViewOfEvent(ev model.Event) EventView {
	return EventView{TopLine: ev.TopLine, BottomLine: ev.BottomLine, Icon: ev.Icon, Color: ev.Color}
}

// ViewOfRecurring adapts a recurring event for rendering.
func ViewOfRecurring(ev model.RecurringEvent) EventView {
	return EventView{TopLine: ev.TopLine, BottomLine: ev.BottomLine, Icon: ev.Icon, Color: ev.Color}
}

// RenderEventFrame clears the frame and draws an event: icon in the icon
// slot, top line in the white accent color, bottom line in the record's
// palette color, both bottom-anchored against the full display height.
//
// A missing or undecodable icon is logged and skipped; the text still
// renders so the sign is never blank because of one bad asset.
func (r *Renderer) RenderEventFrame(ctx context.Context, f *canvas.Frame, view EventView) {
	f.Clear()
	r.drawImage(ctx, f, view.Icon, IconOriginX, IconOriginY)

	layout := r.Font.BottomAligned(view.TopLine, view.BottomLine, f.Height)
	bottomColor, _ := model.ColorByName(view.Color)

	font.DrawText(f, r.Font, view.TopLine, TextMarginX, layout.Line1Y, model.White)
	font.DrawText(f, r.Font, view.BottomLine, TextMarginX, layout.Line2Y, bottomColor)
}

// RenderScheduleFrame clears the frame and draws a schedule window: the
// item's image in the icon slot and, when enabled, the progress bar for
// the window at nowMinuteOfDay. Items without an image fall back to their
// name as a bottom-aligned text line.
func (r *Renderer) RenderScheduleFrame(ctx context.Context, f *canvas.Frame, item model.ScheduleItem, nowMinuteOfDay int) {
	f.Clear()

	if item.Image != "" {
		r.drawImage(ctx, f, item.Image, IconOriginX, IconOriginY)
	} else {
		layout := r.Font.BottomAlignedSpaced("", item.Name, f.Height)
		font.DrawText(f, r.Font, item.Name, TextMarginX, layout.Line2Y, model.White)
	}

	if item.ProgressBar {
		pct := ProgressPercent(item.StartMinute(), item.EndMinute(), nowMinuteOfDay)
		drawProgressBar(f, pct)
	}
}

// ProgressPercent maps a minute of the day onto [0, 1] across a window:
// 0 before the window starts, 1 after it ends, linear in between.
func ProgressPercent(startMinute, endMinute, nowMinute int) float64 {
	if endMinute <= startMinute {
		return 1
	}
	if nowMinute <= startMinute {
		return 0
	}
	if nowMinute >= endMinute {
		return 1
	}
	return float64(nowMinute-startMinute) / float64(endMinute-startMinute)
}

// drawProgressBar draws the fixed-width bar: a filled portion for elapsed
// time and evenly spaced boundary ticks. The first, middle, and last
// ticks extend one pixel above and below the bar body.
func drawProgressBar(f *canvas.Frame, pct float64) {
	filled := int(pct*float64(BarWidth) + 0.5)
	f.FillRect(BarOriginX, BarOriginY, filled, BarHeight, barFillColor)

	for i := 0; i < BarTicks; i++ {
		x := BarOriginX + i*(BarWidth-1)/(BarTicks-1)
		top, bottom := BarOriginY, BarOriginY+BarHeight-1
		if i == 0 || i == BarTicks/2 || i == BarTicks-1 {
			top--
			bottom++
		}
		for y := top; y <= bottom; y++ {
			f.SetPixel(x, y, barTickColor)
		}
	}
}

// drawImage loads, decodes (through the bounded cache), and composites a
// named image. Failures are recoverable: log and leave the slot empty.
func (r *Renderer) drawImage(ctx context.Context, f *canvas.Frame, name string, x, y int) {
	if name == "" {
		return
	}
	data, err := r.Loader.LoadImage(ctx, name)
	if err != nil {
		appLog.Warn("scene: image fetch failed, leaving slot empty", "image", name, "reason", err)
		return
	}
	im, err := r.cache.Decode(name, data)
	if err != nil {
		appLog.Warn("scene: image decode failed, leaving slot empty", "image", name, "reason", err)
		return
	}
	f.DrawImage(im, x, y)
}
