package tracker

import (
	"github.com/tesselslate/crosshair/internal/x11"
	"github.com/tesselslate/crosshair/internal/xinput"
)

// Display is the connection which owns the overlay window.
type Display interface {
	// Probe checks for the required extensions.
	Probe() (x11.Extensions, error)

	// HasCompositor reports whether a compositing manager is running.
	HasCompositor() (bool, error)

	// NewOverlay creates and draws the overlay window.
	NewOverlay(x11.Crosshair) (Window, error)

	// Root returns the ID of the root window.
	Root() uint32

	// Died receives an error once the connection is lost.
	Died() <-chan error

	Close() error
}

// Window is the overlay window.
type Window interface {
	// Move centers the window on the given point.
	Move(x, y int) error

	Close() error
}

// Input is the connection XI2 events are received on.
type Input interface {
	Subscribe(root uint32, device xinput.DeviceID) error
	Events() <-chan xinput.Event
	Close() error
}

// Connector opens the X connections used by a Tracker.
type Connector interface {
	OpenDisplay(name string) (Display, error)
	OpenInput(name string) (Input, error)
}

// xConnector connects to a real X server.
type xConnector struct{}

func (xConnector) OpenDisplay(name string) (Display, error) {
	d, err := x11.Open(name)
	if err != nil {
		return nil, err
	}
	return xDisplay{d}, nil
}

func (xConnector) OpenInput(name string) (Input, error) {
	c, err := xinput.Open(name)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// xDisplay adapts *x11.Display to Display.
type xDisplay struct {
	*x11.Display
}

func (d xDisplay) NewOverlay(c x11.Crosshair) (Window, error) {
	o, err := d.Display.NewOverlay(c)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (d xDisplay) Root() uint32 {
	return uint32(d.Display.Root())
}
