package hid

import (
	"fmt"

	"github.com/karalabe/hid"
)

// DeviceInfo describes a HID interface found on the system
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	SerialNumber string
	UsagePage    uint16
	Usage        uint16
}

// ID formats the vendor and product IDs as "0xVVVV:0xPPPP"
func (d DeviceInfo) ID() string {
	return fmt.Sprintf("0x%04X:0x%04X", d.VendorID, d.ProductID)
}

// Label is a human readable name for the device
func (d DeviceInfo) Label() string {
	switch {
	case d.Manufacturer != "" && d.Product != "":
		return d.Manufacturer + " " + d.Product
	case d.Product != "":
		return d.Product
	case d.Manufacturer != "":
		return d.Manufacturer
	}
	return "Unknown device"
}

func fromInfo(d hid.DeviceInfo) DeviceInfo {
	return DeviceInfo{
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
		Path:         d.Path,
		Manufacturer: d.Manufacturer,
		Product:      d.Product,
		SerialNumber: d.Serial,
		UsagePage:    d.UsagePage,
		Usage:        d.Usage,
	}
}

// ListDevices returns every HID interface on the system
func ListDevices() ([]DeviceInfo, error) {
	infos := hid.Enumerate(0, 0)

	result := make([]DeviceInfo, len(infos))
	for i, d := range infos {
		result[i] = fromInfo(d)
	}
	return result, nil
}

// FindDevice returns the first interface matching the IDs, or nil
func FindDevice(vendorID, productID uint16) (*DeviceInfo, error) {
	infos := hid.Enumerate(vendorID, productID)
	if len(infos) == 0 {
		return nil, nil
	}
	d := fromInfo(infos[0])
	return &d, nil
}
