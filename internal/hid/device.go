package hid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/pleimann/camel-map/internal/utils"
)

// ErrClosed is returned by operations on a closed device
var ErrClosed = errors.New("device closed")

const permissionHint = "\n  This may be a permissions issue. On macOS, try:\n" +
	"  1. System Settings > Privacy & Security > Input Monitoring\n" +
	"  2. Add Terminal (or your terminal app) to the list"

// Device is a connection to the macropad
type Device struct {
	vendorID  uint16
	productID uint16
	device    *hid.Device
	mu        sync.Mutex
	closed    bool
}

// NewDevice opens the first interface of the device that can be opened
func NewDevice(vendorID, productID uint16) (*Device, error) {
	infos := hid.Enumerate(vendorID, productID)
	if len(infos) == 0 {
		if len(hid.Enumerate(0, 0)) == 0 {
			return nil, fmt.Errorf("no HID devices found on system - check USB connection")
		}
		name := utils.ExecutableName()
		return nil, fmt.Errorf("no device found with VendorID=0x%04X, ProductID=0x%04X\n"+
			"  Run '%s list-devices' to see available devices\n"+
			"  Run '%s set-device' to configure the correct device",
			vendorID, productID, name, name)
	}

	dev, err := openFirst(infos)
	if err != nil {
		return nil, fmt.Errorf("failed to open any of %d interface(s) for device 0x%04X:0x%04X: %w"+permissionHint,
			len(infos), vendorID, productID, err)
	}

	return &Device{vendorID: vendorID, productID: productID, device: dev}, nil
}

// openFirst opens the first interface that succeeds; composite devices
// expose interfaces that cannot all be opened
func openFirst(infos []hid.DeviceInfo) (*hid.Device, error) {
	var lastErr error
	for _, info := range infos {
		dev, err := info.Open()
		if err == nil {
			return dev, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Close closes the device connection
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.device != nil {
		return d.device.Close()
	}
	return nil
}

// ReadEvents reads button reports until ctx is done or the device fails.
// Reports that do not parse are skipped.
func (d *Device) ReadEvents(ctx context.Context, events chan<- Event) error {
	buf := make([]byte, 64)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.mu.Lock()
		if d.closed || d.device == nil {
			d.mu.Unlock()
			return ErrClosed
		}
		dev := d.device
		d.mu.Unlock()

		n, err := dev.Read(buf)
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
		if n == 0 {
			continue
		}

		event, err := ParseEvent(buf[:n])
		if err != nil {
			continue
		}

		select {
		case events <- *event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Write sends a raw report to the device
func (d *Device) Write(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.device == nil {
		return ErrClosed
	}

	_, err := d.device.Write(data)
	return err
}

// SendFrame sends a display frame to the device
func (d *Device) SendFrame(frame *DisplayFrame) error {
	return d.Write(frame.Encode())
}

// Reconnect reopens the device after a disconnect
func (d *Device) Reconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device != nil {
		d.device.Close()
		d.device = nil
	}
	d.closed = false

	infos := hid.Enumerate(d.vendorID, d.productID)
	if len(infos) == 0 {
		return fmt.Errorf("device not found")
	}

	dev, err := openFirst(infos)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	d.device = dev
	return nil
}

// WaitForDevice polls until the device can be reopened
func (d *Device) WaitForDevice(ctx context.Context, pollInterval time.Duration) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.Reconnect(); err == nil {
				return nil
			}
		}
	}
}
