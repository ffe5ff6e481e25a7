package model

import "sort"

// RGB is an 8-bit-per-channel display color. The zero value is black,
// which on the LED matrix means "off".
type RGB struct {
	R, G, B uint8
}

// White is the accent color used for primary text lines.
var White = RGB{255, 255, 255}

// palette is the fixed set of named colors event records may reference.
// The values match what the sign firmware maps the names to; renaming or
// retuning an entry changes what deployed data files display.
var palette = map[string]RGB{
	"red":     {255, 0, 0},
	"orange":  {255, 128, 0},
	"yellow":  {255, 255, 0},
	"green":   {0, 255, 0},
	"cyan":    {0, 255, 255},
	"blue":    {0, 0, 255},
	"purple":  {128, 0, 255},
	"magenta": {255, 0, 255},
	"white":   {255, 255, 255},
}

// ColorByName resolves a palette color name. Unknown names return white so
// a typo in a data file degrades to readable text instead of a blank line.
func ColorByName(name string) (RGB, bool) {
	c, ok := palette[name]
	if !ok {
		return White, false
	}
	return c, true
}

// ColorNames lists the palette names; useful for validation messages.
func ColorNames() []string {
	names := make([]string, 0, len(palette))
	for name := range palette {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
