package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pleimann/camel-map/internal/hid"
	"github.com/pleimann/camel-map/internal/mapping"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"0x1234", 0x1234, false},
		{"0X00ff", 0x00FF, false},
		{" 4660 ", 4660, false},
		{"65535", 0xFFFF, false},
		{"65536", 0, true},
		{"0xZZ", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUniqueDevices(t *testing.T) {
	devices := []hid.DeviceInfo{
		{VendorID: 0x1234, ProductID: 0x5678, Path: "a"},
		{VendorID: 0x1234, ProductID: 0x5678, Path: "b"},
		{VendorID: 0, ProductID: 0, Path: "c"},
		{VendorID: 0x1234, ProductID: 0x0001, Path: "d"},
	}

	got := uniqueDevices(devices)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "a", got[0].Path)
		assert.Equal(t, "d", got[1].Path)
	}
}

func TestKeyboardSemantics(t *testing.T) {
	m := mapping.Mappings{
		"default": {
			mapping.Keyboard: {"a_down": "jump", "b_down": "fire"},
			"camel-pad":      {"selectdown": "confirm"},
		},
		"menu": {
			mapping.Keyboard: {"a_down": "jump", "Enter_down": "pick"},
		},
	}

	got := keyboardSemantics(m)
	assert.ElementsMatch(t, []string{"jump", "fire", "pick"}, got)
	assert.NotContains(t, got, "confirm")
}
