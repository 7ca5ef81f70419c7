package x11

import (
	"github.com/jezek/xgb/xproto"
)

// Crosshair describes the shape drawn into the overlay. The half width is
// computed with integer division, so even widths are drawn one pixel off
// center.
type Crosshair struct {
	Width int    // Side length in pixels
	Color uint32 // 24-bit RGB color
}

// Half returns half of the crosshair's width, rounded down.
func (c Crosshair) Half() int {
	return c.Width / 2
}

// Pixel returns the ARGB pixel value used to draw the crosshair. It is always
// fully opaque.
func (c Crosshair) Pixel() uint32 {
	return 0xFF000000 | (c.Color & 0x00FFFFFF)
}

// Segments returns the horizontal and vertical lines forming the crosshair.
func (c Crosshair) Segments() []xproto.Segment {
	w, h := int16(c.Width), int16(c.Half())
	return []xproto.Segment{
		{X1: 0, Y1: h, X2: w, Y2: h},
		{X1: h, Y1: 0, X2: h, Y2: w},
	}
}

// Origin returns the top-left corner of a window centered on (x, y).
func (c Crosshair) Origin(x, y int) (int, int) {
	half := c.Half()
	return x - half, y - half
}
