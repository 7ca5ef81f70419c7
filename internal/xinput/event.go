package xinput

import (
	x "github.com/linuxdeepin/go-x11-client"
	"github.com/linuxdeepin/go-x11-client/ext/input"
)

// Event is an event read from the X server, tagged with the fields needed to
// tell where it came from. Its payload is only reachable through the typed
// accessors, which check the tags first.
type Event struct {
	Code      uint8  // Core event code, with the synthetic bit cleared
	Extension uint8  // Major opcode of the extension which sent a generic event
	Type      uint16 // Extension-specific event type
	data      []byte // Generic event payload
}

// Motion is the payload of an XI2 motion event. Coordinates are in pixels;
// XI2 reports them with sub-pixel precision.
type Motion struct {
	Device DeviceID // Device the event was routed through
	Source DeviceID // Physical device which generated the event
	RootX  float32
	RootY  float32
	EventX float32
	EventY float32
}

// Decode tags a raw event. Events shorter than the 32 bytes every X event
// has are rejected, as are generic events whose length field runs past the
// end of the buffer.
func Decode(raw []byte) (Event, bool) {
	if len(raw) < 32 {
		return Event{}, false
	}
	evt := Event{Code: x.GenericEvent(raw).GetEventCode()}
	if evt.Code != x.GeGenericEventCode {
		return evt, true
	}
	ge, err := x.NewGeGenericEvent(raw)
	if err != nil {
		return Event{}, false
	}
	evt.Extension = ge.Extension
	evt.Type = ge.EventType
	evt.data = ge.Data
	return evt, true
}

// Motion returns the event's motion payload if it is a generic event sent by
// the extension with the given opcode, of type XI_Motion, and long enough to
// hold a device event.
func (e Event) Motion(opcode uint8) (Motion, bool) {
	if e.Code != x.GeGenericEventCode || e.Extension != opcode || e.Type != input.MotionEventCode {
		return Motion{}, false
	}
	ev, err := input.NewMotionEvent(e.data)
	if err != nil {
		return Motion{}, false
	}
	return Motion{
		Device: DeviceID(ev.DeviceId),
		Source: DeviceID(ev.SourceId),
		RootX:  ev.RootX,
		RootY:  ev.RootY,
		EventX: ev.EventX,
		EventY: ev.EventY,
	}, true
}

// Point returns the event position in whole pixels, truncated toward zero.
func (m Motion) Point() (int, int) {
	return int(m.EventX), int(m.EventY)
}
