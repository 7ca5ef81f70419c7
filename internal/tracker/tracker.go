// Package tracker keeps the crosshair overlay centered on the pointer of a
// single XInput device.
package tracker

import (
	"context"
	"fmt"

	"github.com/tesselslate/crosshair/internal/cfg"
	"github.com/tesselslate/crosshair/internal/log"
	"github.com/tesselslate/crosshair/internal/x11"
	"github.com/tesselslate/crosshair/internal/xinput"
)

// Tracker owns every resource the crosshair needs: both X connections and
// the overlay window.
type Tracker struct {
	display Display
	input   Input
	window  Window

	crosshair x11.Crosshair
	device    xinput.DeviceID
	opcode    uint8 // XInputExtension major opcode
}

// New connects to the X server named in the profile and sets up the overlay
// and the motion subscription.
func New(conf *cfg.Profile) (*Tracker, error) {
	return Build(conf, xConnector{})
}

// Build sets up a Tracker with the given connector. The steps run in order:
// connect, probe extensions, create the overlay, subscribe to motion events.
// If a step fails, everything set up by earlier steps is released.
func Build(conf *cfg.Profile, conn Connector) (*Tracker, error) {
	t := &Tracker{
		crosshair: x11.Crosshair{
			Width: conf.Width,
			Color: uint32(conf.Color),
		},
		device: xinput.DeviceID(conf.Device),
	}
	if err := t.setup(conf, conn); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

func (t *Tracker) setup(conf *cfg.Profile, conn Connector) error {
	display, err := conn.OpenDisplay(conf.Display)
	if err != nil {
		return fmt.Errorf("(init) open display: %w", err)
	}
	t.display = display

	ext, err := t.display.Probe()
	if err != nil {
		return fmt.Errorf("(init) probe extensions: %w", err)
	}
	t.opcode = ext.InputOpcode
	log.Debug("SHAPE %s, XFIXES %s, XInput opcode %d", ext.Shape, ext.XFixes, ext.InputOpcode)
	if !ext.Composite {
		log.Warn("Composite extension not available")
	}
	compositor, err := t.display.HasCompositor()
	if err != nil {
		log.Warn("Could not check for compositing manager: %s", err)
	} else if !compositor {
		log.Warn("No compositing manager running, the crosshair background will not be transparent")
	}

	window, err := t.display.NewOverlay(t.crosshair)
	if err != nil {
		return fmt.Errorf("(init) create overlay: %w", err)
	}
	t.window = window

	input, err := conn.OpenInput(conf.Display)
	if err != nil {
		return fmt.Errorf("(init) open input connection: %w", err)
	}
	t.input = input
	if err := t.input.Subscribe(t.display.Root(), t.device); err != nil {
		return fmt.Errorf("(init) subscribe to device %d: %w", t.device, err)
	}
	log.Info("Tracking device %d", t.device)
	return nil
}

// Close releases the overlay window and both connections.
func (t *Tracker) Close() error {
	if t.window != nil {
		if err := t.window.Close(); err != nil {
			log.Warn("Close overlay: %s", err)
		}
		t.window = nil
	}
	if t.input != nil {
		if err := t.input.Close(); err != nil {
			log.Warn("Close input connection: %s", err)
		}
		t.input = nil
	}
	if t.display != nil {
		if err := t.display.Close(); err != nil {
			log.Warn("Close display: %s", err)
		}
		t.display = nil
	}
	return nil
}

// Run moves the overlay for every motion event until the context is
// cancelled or a connection is lost. Events are handled in delivery order.
func (t *Tracker) Run(ctx context.Context) error {
	events := t.input.Events()
	died := t.display.Died()
	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down.")
			return nil
		case err := <-died:
			return fmt.Errorf("fatal X error: %w", err)
		case evt, ok := <-events:
			if !ok {
				return fmt.Errorf("fatal X error: %w", xinput.ErrConnectionDied)
			}
			if err := t.Step(evt); err != nil {
				return err
			}
		}
	}
}

// Step handles a single event. Anything other than an XI2 motion event is
// ignored.
func (t *Tracker) Step(evt xinput.Event) error {
	motion, ok := evt.Motion(t.opcode)
	if !ok {
		return nil
	}
	x, y := motion.Point()
	return t.window.Move(x, y)
}
