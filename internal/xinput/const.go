package xinput

import (
	"errors"

	"github.com/linuxdeepin/go-x11-client/ext/input"
)

// XI2 protocol version requested by the client.
const (
	versionMajor = 2
	versionMinor = 0
)

// Special device IDs which never appear in a device listing.
const (
	AllDevices       DeviceID = input.DeviceAll
	AllMasterDevices DeviceID = input.DeviceAllMaster
)

// Error types
var (
	ErrConnectionDied = errors.New("connection with X server closed")
	ErrInvalidDevice  = errors.New("invalid device")
	ErrXI2Unsupported = errors.New("XInput2 not supported")
)
