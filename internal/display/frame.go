package display

import (
	"github.com/pleimann/camel-map/internal/hid"
)

// MaxPayloadSize is the pixel data that fits in one 64-byte HID report
// after the 10-byte display header
const MaxPayloadSize = 54

// Chunk splits a packed frame buffer into partial frames of whole rows
// that each fit in one HID report.
func Chunk(width, height int, data []byte) []*hid.DisplayFrame {
	bytesPerRow := (width + 7) / 8
	rowsPerChunk := max(MaxPayloadSize/bytesPerRow, 1)

	var frames []*hid.DisplayFrame
	for y := 0; y < height; y += rowsPerChunk {
		rows := min(rowsPerChunk, height-y)
		start := min(y*bytesPerRow, len(data))
		end := min((y+rows)*bytesPerRow, len(data))
		frames = append(frames, hid.NewPartialFrame(0, uint16(y), uint16(width), uint16(rows), data[start:end]))
	}
	return frames
}
