package x11

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"
)

// Overlay is a borderless, override-redirect ARGB window with the crosshair
// drawn into it. It ignores all input; pointer and keyboard events pass
// through to the windows below.
type Overlay struct {
	d     *Display
	shape Crosshair

	cmap xproto.Colormap
	win  xproto.Window
	gc   xproto.Gcontext

	mu     sync.Mutex
	closed bool
}

// NewOverlay creates, maps and draws the overlay window. It must be called
// after a successful Probe. If any step fails, every resource created so far
// is released before the error is returned.
func (d *Display) NewOverlay(c Crosshair) (_ *Overlay, err error) {
	visual, err := findARGBVisual(d.screen)
	if err != nil {
		return nil, err
	}
	o := &Overlay{d: d, shape: c}
	defer func() {
		if err != nil {
			o.release()
		}
	}()

	// Resources
	cmap, err := xproto.NewColormapId(d.conn)
	if err != nil {
		return nil, fmt.Errorf("allocate colormap id: %w", err)
	}
	err = xproto.CreateColormapChecked(
		d.conn,
		xproto.ColormapAllocNone,
		cmap,
		d.root,
		visual,
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create colormap: %w", err)
	}
	o.cmap = cmap

	win, err := xproto.NewWindowId(d.conn)
	if err != nil {
		return nil, fmt.Errorf("allocate window id: %w", err)
	}
	size := uint16(c.Width)
	err = xproto.CreateWindowChecked(
		d.conn,
		argbDepth,
		win,
		d.root,
		0, 0,
		size, size,
		0,
		xproto.WindowClassInputOutput,
		visual,
		maskOverlayAttrs,
		[]uint32{0, 0, 1, uint32(cmap)},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	o.win = win

	gc, err := xproto.NewGcontextId(d.conn)
	if err != nil {
		return nil, fmt.Errorf("allocate gc id: %w", err)
	}
	err = xproto.CreateGCChecked(d.conn, gc, xproto.Drawable(win), 0, nil).Check()
	if err != nil {
		return nil, fmt.Errorf("create gc: %w", err)
	}
	o.gc = gc

	// Stacking and visibility
	err = xproto.ConfigureWindowChecked(
		d.conn,
		win,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("raise window: %w", err)
	}
	if err = xproto.MapWindowChecked(d.conn, win).Check(); err != nil {
		return nil, fmt.Errorf("map window: %w", err)
	}

	// Drawing
	err = xproto.ChangeGCChecked(
		d.conn,
		gc,
		maskLineAttrs,
		[]uint32{
			c.Pixel(),
			1,
			xproto.LineStyleSolid,
			xproto.CapStyleButt,
			xproto.JoinStyleMiter,
		},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("set line attributes: %w", err)
	}
	err = xproto.ChangeWindowAttributesChecked(
		d.conn,
		win,
		xproto.CwBackPixel,
		[]uint32{0},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("set background: %w", err)
	}
	if err = xproto.ClearAreaChecked(d.conn, false, win, 0, 0, 0, 0).Check(); err != nil {
		return nil, fmt.Errorf("clear window: %w", err)
	}
	err = xproto.PolySegmentChecked(
		d.conn,
		xproto.Drawable(win),
		gc,
		c.Segments(),
	).Check()
	if err != nil {
		return nil, fmt.Errorf("draw crosshair: %w", err)
	}

	// Click-through
	if err = d.clearInputShape(win); err != nil {
		return nil, err
	}

	if err = d.sync(); err != nil {
		return nil, fmt.Errorf("sync: %w", err)
	}
	return o, nil
}

// clearInputShape sets the input shape of win to an empty region.
func (d *Display) clearInputShape(win xproto.Window) error {
	region, err := xfixes.NewRegionId(d.conn)
	if err != nil {
		return fmt.Errorf("allocate region id: %w", err)
	}
	if err := xfixes.CreateRegionChecked(d.conn, region, nil).Check(); err != nil {
		return fmt.Errorf("create region: %w", err)
	}
	defer xfixes.DestroyRegion(d.conn, region)
	err = xfixes.SetWindowShapeRegionChecked(
		d.conn,
		win,
		shape.SkInput,
		0, 0,
		region,
	).Check()
	if err != nil {
		return fmt.Errorf("set input shape: %w", err)
	}
	return nil
}

// Window returns the ID of the overlay window.
func (o *Overlay) Window() xproto.Window {
	return o.win
}

// Move centers the overlay on (x, y). The request is not checked and not
// flushed; errors surface on the display's error log.
func (o *Overlay) Move(x, y int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrOverlayClosed
	}
	ox, oy := o.shape.Origin(x, y)
	xproto.ConfigureWindow(
		o.d.conn,
		o.win,
		maskPosition,
		[]uint32{uint32(int32(ox)), uint32(int32(oy))},
	)
	return nil
}

// Close destroys the overlay's window, graphics context and colormap.
// Calling Close more than once does nothing.
func (o *Overlay) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	o.release()
	return nil
}

// release frees whichever server resources have been created, in reverse
// order of creation.
func (o *Overlay) release() {
	if o.gc != 0 {
		xproto.FreeGC(o.d.conn, o.gc)
		o.gc = 0
	}
	if o.win != 0 {
		xproto.DestroyWindow(o.d.conn, o.win)
		o.win = 0
	}
	if o.cmap != 0 {
		xproto.FreeColormap(o.d.conn, o.cmap)
		o.cmap = 0
	}
}
