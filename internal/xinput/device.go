package xinput

import (
	"cmp"
	"fmt"

	"github.com/linuxdeepin/go-x11-client/ext/input"
	"golang.org/x/exp/slices"
)

// DeviceID identifies an XInput device.
type DeviceID uint16

// DeviceType is the role of a device in the XI2 device hierarchy.
type DeviceType uint16

const (
	MasterPointer DeviceType = iota + 1
	MasterKeyboard
	SlavePointer
	SlaveKeyboard
	FloatingSlave
)

func (t DeviceType) String() string {
	switch t {
	case MasterPointer:
		return "master pointer"
	case MasterKeyboard:
		return "master keyboard"
	case SlavePointer:
		return "slave pointer"
	case SlaveKeyboard:
		return "slave keyboard"
	case FloatingSlave:
		return "floating slave"
	default:
		return fmt.Sprintf("unknown (%d)", uint16(t))
	}
}

// Pointer reports whether devices of this type produce pointer motion.
func (t DeviceType) Pointer() bool {
	return t == MasterPointer || t == SlavePointer || t == FloatingSlave
}

// Device describes an XInput device.
type Device struct {
	ID         DeviceID
	Name       string
	Type       DeviceType
	Attachment DeviceID // Paired master device, or the master of a slave
	Enabled    bool
}

// Devices lists every XInput device known to the X server, sorted by ID.
func (c *Client) Devices() ([]Device, error) {
	if err := c.negotiate(); err != nil {
		return nil, err
	}
	reply, err := c.req.queryDevices()
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	devices := make([]Device, 0, len(reply.Infos))
	for _, info := range reply.Infos {
		devices = append(devices, deviceFromInfo(info))
	}
	sortDevices(devices)
	return devices, nil
}

func deviceFromInfo(info input.XIDeviceInfo) Device {
	return Device{
		ID:         DeviceID(info.Id),
		Name:       info.Name,
		Type:       DeviceType(info.Type),
		Attachment: DeviceID(info.Attachment),
		Enabled:    info.Enabled,
	}
}

// findDevice returns the device with the given ID.
func findDevice(devices []Device, id DeviceID) (Device, bool) {
	for _, dev := range devices {
		if dev.ID == id {
			return dev, true
		}
	}
	return Device{}, false
}

func sortDevices(devices []Device) {
	slices.SortFunc(devices, func(a, b Device) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
