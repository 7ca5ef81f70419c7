// Package x11 provides the window side of the crosshair: the connection with
// the X server, extension negotiation and the click-through overlay window.
package x11

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Display maintains a connection with the X server along with the default
// screen and its root window.
type Display struct {
	conn      *xgb.Conn          // The X server connection
	atoms     *atomCache         // Atom cache
	screen    *xproto.ScreenInfo // Default screen
	screenNum int                // Default screen index
	root      xproto.Window      // Root window of the default screen

	died   chan error
	mu     sync.Mutex
	closed bool
}

// Open connects to the given X display. An empty name uses $DISPLAY.
func Open(name string) (*Display, error) {
	conn, err := xgb.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("could not open display: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	d := &Display{
		conn:      conn,
		atoms:     newAtomCache(conn),
		screen:    screen,
		screenNum: conn.DefaultScreen,
		root:      screen.Root,
		died:      make(chan error, 1),
	}
	go d.poll()
	return d, nil
}

// Close closes the connection. Calling Close more than once does nothing.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.conn.Close()
	return nil
}

// Root returns the ID of the root window.
func (d *Display) Root() xproto.Window {
	return d.root
}

// Screen returns the index of the default screen.
func (d *Display) Screen() int {
	return d.screenNum
}

// HasCompositor returns whether a compositing manager owns the
// _NET_WM_CM_S<screen> selection. Without one, the transparent parts of the
// overlay are drawn black.
func (d *Display) HasCompositor() (bool, error) {
	name := fmt.Sprintf("%s%d", netWmCmPrefix, d.screenNum)
	atom, err := d.atoms.Lookup(name, true)
	if err != nil {
		return false, err
	}
	if atom == xproto.AtomNone {
		return false, nil
	}
	reply, err := xproto.GetSelectionOwner(d.conn, atom).Reply()
	if err != nil {
		return false, fmt.Errorf("get %s owner: %w", name, err)
	}
	return reply.Owner != xproto.WindowNone, nil
}

// sync performs a round trip with the X server. Once it returns, every
// request sent before it has been processed.
func (d *Display) sync() error {
	_, err := xproto.GetInputFocus(d.conn).Reply()
	return err
}
