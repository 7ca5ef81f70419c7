package x11

import (
	"errors"

	"github.com/jezek/xgb/xproto"
)

// Extension names
const (
	extComposite = "Composite"
	extInput     = "XInputExtension"
	extShape     = "SHAPE"
	extXFixes    = "XFIXES"
)

// Atom names
const (
	netWmCmPrefix = "_NET_WM_CM_S"
)

// Window attribute masks. The value lists passed alongside them must be
// ordered by bit position.
const (
	maskOverlayAttrs uint32 = xproto.CwBackPixel |
		xproto.CwBorderPixel |
		xproto.CwOverrideRedirect |
		xproto.CwColormap

	maskLineAttrs uint32 = xproto.GcForeground |
		xproto.GcLineWidth |
		xproto.GcLineStyle |
		xproto.GcCapStyle |
		xproto.GcJoinStyle

	maskPosition uint16 = xproto.ConfigWindowX |
		xproto.ConfigWindowY
)

// argbDepth is the depth of a visual with an alpha channel.
const argbDepth = 32

// Minimum XFIXES version providing regions and SetWindowShapeRegion.
const (
	xfixesMajor = 5
	xfixesMinor = 0

	xfixesRegionMajor = 2
)

// Error types
var (
	ErrConnectionDied   = errors.New("connection with X server closed")
	ErrMissingExtension = errors.New("extension not available")
	ErrNoARGBVisual     = errors.New("no ARGB visual found")
	ErrOverlayClosed    = errors.New("overlay closed")
)
