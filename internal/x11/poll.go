package x11

import (
	"github.com/tesselslate/crosshair/internal/log"
)

// Died returns a channel which receives ErrConnectionDied once the connection
// with the X server is gone.
func (d *Display) Died() <-chan error {
	return d.died
}

// poll drains the connection's event queue in the background. The overlay
// selects no events, so anything arriving here is an error caused by an
// unchecked request (such as a window move) or an event every client gets.
func (d *Display) poll() {
	for {
		evt, err := d.conn.WaitForEvent()
		if evt == nil && err == nil {
			d.died <- ErrConnectionDied
			return
		}
		if err != nil {
			log.Debug("X error: %s", err)
		}
	}
}
