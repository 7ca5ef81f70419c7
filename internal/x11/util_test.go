package x11

import (
	"errors"
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestFindARGBVisual(t *testing.T) {
	screen := &xproto.ScreenInfo{
		AllowedDepths: []xproto.DepthInfo{
			{Depth: 24, Visuals: []xproto.VisualInfo{
				{VisualId: 0x21, Class: xproto.VisualClassTrueColor},
			}},
			{Depth: 32, Visuals: []xproto.VisualInfo{
				{VisualId: 0x40, Class: xproto.VisualClassDirectColor},
				{VisualId: 0x41, Class: xproto.VisualClassTrueColor},
				{VisualId: 0x42, Class: xproto.VisualClassTrueColor},
			}},
		},
	}
	visual, err := findARGBVisual(screen)
	if err != nil {
		t.Fatal(err)
	}
	if visual != 0x41 {
		t.Errorf("got visual %x, want 41", visual)
	}
}

func TestFindARGBVisualMissing(t *testing.T) {
	screen := &xproto.ScreenInfo{
		AllowedDepths: []xproto.DepthInfo{
			{Depth: 24, Visuals: []xproto.VisualInfo{
				{VisualId: 0x21, Class: xproto.VisualClassTrueColor},
			}},
			{Depth: 32, Visuals: []xproto.VisualInfo{
				{VisualId: 0x40, Class: xproto.VisualClassDirectColor},
			}},
		},
	}
	if _, err := findARGBVisual(screen); !errors.Is(err, ErrNoARGBVisual) {
		t.Errorf("got %v, want ErrNoARGBVisual", err)
	}
}
