package xinput

import (
	"fmt"

	x "github.com/linuxdeepin/go-x11-client"
	"github.com/linuxdeepin/go-x11-client/ext/input"
)

// Subscribe selects motion events from the given device on the root window.
//
// An empty mask is selected first: the server answers it with BadRequest if
// it does not support XI2, which is reported as ErrXI2Unsupported. The
// motion mask is selected afterwards; a failure there means the device is
// unusable and is reported as ErrInvalidDevice.
func (c *Client) Subscribe(root uint32, device DeviceID) error {
	if err := c.negotiate(); err != nil {
		return err
	}
	if device != AllDevices && device != AllMasterDevices {
		devices, err := c.Devices()
		if err != nil {
			return err
		}
		if _, ok := findDevice(devices, device); !ok {
			return fmt.Errorf("%w: no device with ID %d", ErrInvalidDevice, device)
		}
	}

	mask := input.EventMask{
		DeviceId: input.DeviceId(device),
		Mask:     []uint32{0},
	}
	if err := c.req.selectEvents(x.Window(root), mask); err != nil {
		if isBadRequest(err) {
			return ErrXI2Unsupported
		}
		return fmt.Errorf("select events: %w", err)
	}

	mask.Mask = []uint32{input.XIEventMaskMotion}
	if err := c.req.selectEvents(x.Window(root), mask); err != nil {
		return fmt.Errorf("%w: select motion on device %d: %s", ErrInvalidDevice, device, err)
	}
	return nil
}
