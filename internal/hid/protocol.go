package hid

import (
	"encoding/binary"
	"fmt"
)

// Report IDs
const (
	ReportIDButtonEvent byte = 0x01
	ReportIDDisplay     byte = 0x02
)

// Button report types sent by the firmware
const (
	EventTypePress   byte = 0x01
	EventTypeRelease byte = 0x02
)

// Display commands
const (
	DisplayCmdFullFrame byte = 0x01
	DisplayCmdPartial   byte = 0x02
	DisplayCmdClear     byte = 0x03
)

// MaxButtons is the width of the button mask
const MaxButtons = 16

const (
	buttonReportSize  = 8
	displayHeaderSize = 10
)

// Event is a button report. ButtonMask holds the full set of buttons held
// down after the change, so transitions are found by diffing successive
// masks.
type Event struct {
	Type       EventType
	ButtonMask uint16
	Timestamp  uint32
}

type EventType byte

const (
	Press   EventType = EventType(EventTypePress)
	Release EventType = EventType(EventTypeRelease)
)

func (e EventType) String() string {
	switch e {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("unknown(%d)", e)
	}
}

// ParseEvent decodes a button report:
//
//	Byte 0:   Report ID (0x01)
//	Byte 1:   Report type (0x01=press, 0x02=release)
//	Byte 2-3: Button mask, little-endian
//	Byte 4-7: Device timestamp in ms, little-endian
func ParseEvent(data []byte) (*Event, error) {
	if len(data) < buttonReportSize {
		return nil, fmt.Errorf("event data too short: %d bytes", len(data))
	}
	if data[0] != ReportIDButtonEvent {
		return nil, fmt.Errorf("unexpected report ID: 0x%02X", data[0])
	}

	kind := EventType(data[1])
	if kind != Press && kind != Release {
		return nil, fmt.Errorf("unknown event type: 0x%02X", data[1])
	}

	return &Event{
		Type:       kind,
		ButtonMask: binary.LittleEndian.Uint16(data[2:4]),
		Timestamp:  binary.LittleEndian.Uint32(data[4:8]),
	}, nil
}

// Encode serializes the event as a button report
func (e Event) Encode() []byte {
	buf := make([]byte, buttonReportSize)
	buf[0] = ReportIDButtonEvent
	buf[1] = byte(e.Type)
	binary.LittleEndian.PutUint16(buf[2:4], e.ButtonMask)
	binary.LittleEndian.PutUint32(buf[4:8], e.Timestamp)
	return buf
}

// PressedButtons returns the indices of the buttons held down
func (e *Event) PressedButtons() []int {
	return maskBits(e.ButtonMask)
}

func maskBits(mask uint16) []int {
	var bits []int
	for i := 0; i < MaxButtons; i++ {
		if mask&(1<<i) != 0 {
			bits = append(bits, i)
		}
	}
	return bits
}

// DisplayFrame is a 1-bit bitmap update for the OLED panel
type DisplayFrame struct {
	Command byte
	X       uint16
	Y       uint16
	Width   uint16
	Height  uint16
	Data    []byte // 1-bit packed, row-major
}

// Encode serializes the frame:
//
//	Byte 0:    Report ID (0x02)
//	Byte 1:    Command
//	Byte 2-9:  X, Y, Width, Height, little-endian u16 each
//	Byte 10+:  Pixel data
func (f *DisplayFrame) Encode() []byte {
	buf := make([]byte, displayHeaderSize+len(f.Data))
	buf[0] = ReportIDDisplay
	buf[1] = f.Command
	for i, v := range []uint16{f.X, f.Y, f.Width, f.Height} {
		binary.LittleEndian.PutUint16(buf[2+2*i:], v)
	}
	copy(buf[displayHeaderSize:], f.Data)
	return buf
}

// NewFullFrame creates a full frame display update
func NewFullFrame(width, height uint16, data []byte) *DisplayFrame {
	return &DisplayFrame{Command: DisplayCmdFullFrame, Width: width, Height: height, Data: data}
}

// NewPartialFrame creates an update of one rectangle of the panel
func NewPartialFrame(x, y, width, height uint16, data []byte) *DisplayFrame {
	return &DisplayFrame{Command: DisplayCmdPartial, X: x, Y: y, Width: width, Height: height, Data: data}
}

// NewClearCommand creates a display clear command
func NewClearCommand() *DisplayFrame {
	return &DisplayFrame{Command: DisplayCmdClear}
}
