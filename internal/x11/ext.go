package x11

import (
	"fmt"

	"github.com/jezek/xgb/composite"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"
)

// Version is an extension version negotiated with the X server.
type Version struct {
	Major, Minor uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Extensions describes the X extensions the crosshair relies on.
type Extensions struct {
	Shape  Version // SHAPE, for the input shape
	XFixes Version // XFIXES, for regions

	// InputOpcode is the major opcode of XInputExtension. Generic events
	// carry it to identify their origin.
	InputOpcode uint8

	// Composite is informational; the overlay works without it.
	Composite bool
}

// Probe checks for the SHAPE, XFIXES and XInputExtension extensions, in that
// order, and negotiates the versions needed to use them. A missing extension
// is an error wrapping ErrMissingExtension.
func (d *Display) Probe() (Extensions, error) {
	var ext Extensions

	if _, err := d.queryExtension(extShape); err != nil {
		return ext, err
	}
	if err := shape.Init(d.conn); err != nil {
		return ext, fmt.Errorf("init %s: %w", extShape, err)
	}
	shapeVersion, err := shape.QueryVersion(d.conn).Reply()
	if err != nil {
		return ext, fmt.Errorf("query %s version: %w", extShape, err)
	}
	ext.Shape = Version{uint32(shapeVersion.MajorVersion), uint32(shapeVersion.MinorVersion)}

	if _, err := d.queryExtension(extXFixes); err != nil {
		return ext, err
	}
	if err := xfixes.Init(d.conn); err != nil {
		return ext, fmt.Errorf("init %s: %w", extXFixes, err)
	}
	// The client has to announce its version before using any other XFIXES
	// request.
	fixesVersion, err := xfixes.QueryVersion(d.conn, xfixesMajor, xfixesMinor).Reply()
	if err != nil {
		return ext, fmt.Errorf("query %s version: %w", extXFixes, err)
	}
	ext.XFixes = Version{fixesVersion.MajorVersion, fixesVersion.MinorVersion}
	if ext.XFixes.Major < xfixesRegionMajor {
		return ext, fmt.Errorf("%s %s does not support regions: %w", extXFixes, ext.XFixes, ErrMissingExtension)
	}

	input, err := d.queryExtension(extInput)
	if err != nil {
		return ext, err
	}
	ext.InputOpcode = input.MajorOpcode

	ext.Composite = d.probeComposite()
	return ext, nil
}

// probeComposite reports whether the Composite extension is usable.
func (d *Display) probeComposite() bool {
	if _, err := d.queryExtension(extComposite); err != nil {
		return false
	}
	if err := composite.Init(d.conn); err != nil {
		return false
	}
	_, err := composite.QueryVersion(d.conn, 0, 4).Reply()
	return err == nil
}

// queryExtension asks the X server whether the named extension is present.
func (d *Display) queryExtension(name string) (*xproto.QueryExtensionReply, error) {
	reply, err := xproto.QueryExtension(d.conn, uint16(len(name)), name).Reply()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	if !reply.Present {
		return nil, fmt.Errorf("%s %w", name, ErrMissingExtension)
	}
	return reply, nil
}
