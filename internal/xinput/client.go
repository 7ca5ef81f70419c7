// Package xinput selects and decodes XInput2 device events. It keeps its own
// connection with the X server since XI2 events are generic events, which
// are longer than core events.
package xinput

import (
	"errors"
	"fmt"
	"sync"

	x "github.com/linuxdeepin/go-x11-client"
	"github.com/linuxdeepin/go-x11-client/ext/input"
)

const eventChannelSize = 256

// requester issues the XI2 requests a Client needs and waits for their
// replies.
type requester interface {
	queryVersion(major, minor uint16) (*input.XIQueryVersionReply, error)
	queryDevices() (*input.XIQueryDeviceReply, error)
	selectEvents(root x.Window, mask input.EventMask) error
}

// connRequester sends requests over an X connection.
type connRequester struct {
	conn *x.Conn
}

func (r connRequester) queryVersion(major, minor uint16) (*input.XIQueryVersionReply, error) {
	return input.XIQueryVersion(r.conn, major, minor).Reply(r.conn)
}

func (r connRequester) queryDevices() (*input.XIQueryDeviceReply, error) {
	return input.XIQueryDevice(r.conn, input.DeviceAll).Reply(r.conn)
}

func (r connRequester) selectEvents(root x.Window, mask input.EventMask) error {
	return input.XISelectEventsChecked(r.conn, root, []input.EventMask{mask}).Check(r.conn)
}

// Client is a connection with the X server used to receive XI2 events.
type Client struct {
	conn   *x.Conn
	req    requester
	raw    chan x.GenericEvent
	events chan Event
	done   chan struct{}

	negotiated sync.Once
	version    error // Result of version negotiation
	closeOnce  sync.Once
}

// Open connects to the given X display. An empty name uses $DISPLAY.
func Open(name string) (*Client, error) {
	conn, err := x.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("could not open display: %w", err)
	}
	c := &Client{
		conn:   conn,
		req:    connRequester{conn},
		raw:    conn.MakeAndAddEventChan(eventChannelSize),
		events: make(chan Event, eventChannelSize),
		done:   make(chan struct{}),
	}
	go c.poll()
	return c, nil
}

// Close closes the connection and the event channel. Calling Close more than
// once does nothing.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
	return nil
}

// Events returns the channel of events received from the X server, in
// delivery order. The channel is closed when the connection is lost or the
// client is closed.
func (c *Client) Events() <-chan Event {
	return c.events
}

// negotiate announces XI 2.0 support to the server. The server rejects XI2
// requests from clients which have not done so.
func (c *Client) negotiate() error {
	c.negotiated.Do(func() {
		reply, err := c.req.queryVersion(versionMajor, versionMinor)
		if err != nil {
			if isBadRequest(err) {
				c.version = ErrXI2Unsupported
			} else {
				c.version = fmt.Errorf("query XInput version: %w", err)
			}
			return
		}
		if reply.MajorVersion < versionMajor {
			c.version = fmt.Errorf("%w: server has XInput %d.%d",
				ErrXI2Unsupported, reply.MajorVersion, reply.MinorVersion)
		}
	})
	return c.version
}

// poll forwards raw events to the event channel until the connection goes
// away or the client is closed.
func (c *Client) poll() {
	defer close(c.events)
	for {
		select {
		case raw, ok := <-c.raw:
			if !ok {
				return
			}
			evt, ok := Decode(raw)
			if !ok {
				continue
			}
			select {
			case c.events <- evt:
			case <-c.done:
				return
			}
		case <-c.done:
			return
		}
	}
}

// isBadRequest reports whether err is an X protocol error with the
// BadRequest code.
func isBadRequest(err error) bool {
	var xerr *x.Error
	return errors.As(err, &xerr) && xerr.Code == x.RequestErrorCode
}
