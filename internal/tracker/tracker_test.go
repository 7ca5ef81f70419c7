package tracker

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesselslate/crosshair/internal/cfg"
	"github.com/tesselslate/crosshair/internal/x11"
	"github.com/tesselslate/crosshair/internal/xinput"
)

const testOpcode = 131

type point struct{ x, y int }

type fakeWindow struct {
	crosshair x11.Crosshair
	moves     []point
	closed    bool
}

func (w *fakeWindow) Move(x, y int) error {
	ox, oy := w.crosshair.Origin(x, y)
	w.moves = append(w.moves, point{ox, oy})
	return nil
}

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

type fakeDisplay struct {
	probeErr   error
	overlayErr error
	window     *fakeWindow
	overlays   int
	died       chan error
	closed     bool
}

func (d *fakeDisplay) Probe() (x11.Extensions, error) {
	if d.probeErr != nil {
		return x11.Extensions{}, d.probeErr
	}
	return x11.Extensions{InputOpcode: testOpcode, Composite: true}, nil
}

func (d *fakeDisplay) HasCompositor() (bool, error) { return true, nil }

func (d *fakeDisplay) NewOverlay(c x11.Crosshair) (Window, error) {
	if d.overlayErr != nil {
		return nil, d.overlayErr
	}
	d.overlays++
	d.window = &fakeWindow{crosshair: c}
	return d.window, nil
}

func (d *fakeDisplay) Root() uint32       { return 0x1e3 }
func (d *fakeDisplay) Died() <-chan error { return d.died }

func (d *fakeDisplay) Close() error {
	d.closed = true
	return nil
}

type fakeInput struct {
	subErr error
	root   uint32
	device xinput.DeviceID
	events chan xinput.Event
	closed bool
}

func (i *fakeInput) Subscribe(root uint32, device xinput.DeviceID) error {
	i.root, i.device = root, device
	return i.subErr
}

func (i *fakeInput) Events() <-chan xinput.Event { return i.events }

func (i *fakeInput) Close() error {
	i.closed = true
	return nil
}

type fakeConnector struct {
	display    *fakeDisplay
	input      *fakeInput
	displayErr error
	inputs     int
}

func (c *fakeConnector) OpenDisplay(string) (Display, error) {
	if c.displayErr != nil {
		return nil, c.displayErr
	}
	return c.display, nil
}

func (c *fakeConnector) OpenInput(string) (Input, error) {
	c.inputs++
	return c.input, nil
}

func newConnector() *fakeConnector {
	return &fakeConnector{
		display: &fakeDisplay{died: make(chan error, 1)},
		input:   &fakeInput{events: make(chan xinput.Event, 16)},
	}
}

func testProfile(width, device int) *cfg.Profile {
	conf := cfg.Default()
	conf.Width = width
	conf.Device = device
	return &conf
}

// rawEvent builds a generic event with event coordinates (x, y).
func rawEvent(code, opcode uint8, evtype uint16, x, y int) xinput.Event {
	raw := make([]byte, 80)
	raw[0] = code
	raw[1] = opcode
	binary.LittleEndian.PutUint32(raw[4:], uint32((len(raw)-32)/4))
	binary.LittleEndian.PutUint16(raw[8:], evtype)
	binary.LittleEndian.PutUint32(raw[40:], uint32(int32(x)<<16))
	binary.LittleEndian.PutUint32(raw[44:], uint32(int32(y)<<16))
	evt, ok := xinput.Decode(raw)
	if !ok {
		panic("bad test event")
	}
	return evt
}

func motion(x, y int) xinput.Event {
	return rawEvent(35, testOpcode, 6, x, y)
}

func TestBuild(t *testing.T) {
	conn := newConnector()
	tr, err := Build(testProfile(11, 9), conn)
	require.NoError(t, err)
	assert.Equal(t, 1, conn.display.overlays)
	assert.Equal(t, 11, conn.display.window.crosshair.Width)
	assert.Equal(t, uint32(0x1e3), conn.input.root)
	assert.Equal(t, xinput.DeviceID(9), conn.input.device)

	tr.Close()
	assert.True(t, conn.display.window.closed)
	assert.True(t, conn.input.closed)
	assert.True(t, conn.display.closed)
}

func TestBuildProbeFailure(t *testing.T) {
	conn := newConnector()
	conn.display.probeErr = x11.ErrMissingExtension
	_, err := Build(testProfile(11, 9), conn)
	assert.ErrorIs(t, err, x11.ErrMissingExtension)

	// No window may exist when an extension is missing.
	assert.Zero(t, conn.display.overlays)
	assert.Zero(t, conn.inputs)
	assert.True(t, conn.display.closed)
}

func TestBuildDisplayFailure(t *testing.T) {
	conn := newConnector()
	conn.displayErr = errors.New("connection refused")
	_, err := Build(testProfile(11, 9), conn)
	assert.ErrorContains(t, err, "connection refused")
	assert.False(t, conn.display.closed)
}

func TestBuildOverlayFailure(t *testing.T) {
	conn := newConnector()
	conn.display.overlayErr = x11.ErrNoARGBVisual
	_, err := Build(testProfile(11, 9), conn)
	assert.ErrorIs(t, err, x11.ErrNoARGBVisual)
	assert.Zero(t, conn.inputs)
	assert.True(t, conn.display.closed)
}

func TestBuildSubscribeFailure(t *testing.T) {
	conn := newConnector()
	conn.input.subErr = xinput.ErrXI2Unsupported
	_, err := Build(testProfile(11, 9), conn)
	assert.ErrorIs(t, err, xinput.ErrXI2Unsupported)
	assert.True(t, conn.display.window.closed)
	assert.True(t, conn.input.closed)
	assert.True(t, conn.display.closed)
}

func TestStep(t *testing.T) {
	conn := newConnector()
	tr, err := Build(testProfile(11, 9), conn)
	require.NoError(t, err)
	defer tr.Close()
	window := conn.display.window

	require.NoError(t, tr.Step(motion(100, 200)))
	assert.Equal(t, []point{{95, 195}}, window.moves)

	ignored := []xinput.Event{
		rawEvent(6, testOpcode, 6, 1, 1),    // core MotionNotify
		rawEvent(35, testOpcode+1, 6, 1, 1), // another extension
		rawEvent(35, testOpcode, 4, 1, 1),   // XI_ButtonPress
		rawEvent(35, testOpcode, 17, 1, 1),  // XI_RawMotion
	}
	for _, evt := range ignored {
		require.NoError(t, tr.Step(evt))
	}
	assert.Len(t, window.moves, 1)
}

func TestStepEvenWidth(t *testing.T) {
	conn := newConnector()
	tr, err := Build(testProfile(10, 9), conn)
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Step(motion(0, 0)))
	assert.Equal(t, []point{{-5, -5}}, conn.display.window.moves)
}

func TestRunOrder(t *testing.T) {
	conn := newConnector()
	tr, err := Build(testProfile(11, 9), conn)
	require.NoError(t, err)
	defer tr.Close()

	conn.input.events <- motion(10, 10)
	conn.input.events <- rawEvent(35, testOpcode, 4, 1, 1)
	conn.input.events <- motion(20, 30)
	conn.input.events <- motion(40, 50)
	close(conn.input.events)

	err = tr.Run(context.Background())
	assert.ErrorIs(t, err, xinput.ErrConnectionDied)
	assert.Equal(t, []point{{5, 5}, {15, 25}, {35, 45}}, conn.display.window.moves)
}

func TestRunCancel(t *testing.T) {
	conn := newConnector()
	tr, err := Build(testProfile(11, 9), conn)
	require.NoError(t, err)
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunDisplayDied(t *testing.T) {
	conn := newConnector()
	tr, err := Build(testProfile(11, 9), conn)
	require.NoError(t, err)
	defer tr.Close()

	conn.display.died <- x11.ErrConnectionDied
	err = tr.Run(context.Background())
	assert.ErrorIs(t, err, x11.ErrConnectionDied)
}
