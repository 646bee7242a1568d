package display

import (
	"testing"

	"github.com/pleimann/camel-map/internal/hid"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantRows      []int
	}{
		// 2 bytes per row, 27 rows per chunk
		{"two chunks", 16, 32, []int{27, 5}},
		{"single chunk", 8, 8, []int{8}},
		{"partial byte width", 12, 4, []int{4}},
		// 16 bytes per row, 3 rows per chunk
		{"panel", 128, 64, []int{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 1}},
		// wider than one report: one row per chunk
		{"very wide", 512, 2, []int{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bytesPerRow := (tt.width + 7) / 8
			frames := Chunk(tt.width, tt.height, make([]byte, bytesPerRow*tt.height))

			if len(frames) != len(tt.wantRows) {
				t.Fatalf("len(frames) = %d, want %d", len(frames), len(tt.wantRows))
			}
			y := 0
			for i, f := range frames {
				if f.Command != hid.DisplayCmdPartial {
					t.Errorf("frame[%d].Command = 0x%02X", i, f.Command)
				}
				if int(f.Y) != y || int(f.Height) != tt.wantRows[i] || int(f.Width) != tt.width {
					t.Errorf("frame[%d] = y%d %dx%d, want y%d %dx%d", i, f.Y, f.Width, f.Height, y, tt.width, tt.wantRows[i])
				}
				if len(f.Data) != tt.wantRows[i]*bytesPerRow {
					t.Errorf("len(frame[%d].Data) = %d, want %d", i, len(f.Data), tt.wantRows[i]*bytesPerRow)
				}
				y += tt.wantRows[i]
			}
		})
	}
}
