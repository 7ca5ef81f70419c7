package x11

import (
	"github.com/jezek/xgb/xproto"
)

// findARGBVisual returns the first 32-bit TrueColor visual of the screen.
func findARGBVisual(screen *xproto.ScreenInfo) (xproto.Visualid, error) {
	for _, depth := range screen.AllowedDepths {
		if depth.Depth != argbDepth {
			continue
		}
		for _, visual := range depth.Visuals {
			if visual.Class == xproto.VisualClassTrueColor {
				return visual.VisualId, nil
			}
		}
	}
	return 0, ErrNoARGBVisual
}
