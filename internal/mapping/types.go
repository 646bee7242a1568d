package mapping

import (
	"sort"
)

// DefaultProfile is the profile active at startup and the fallback for
// controller resolution.
const DefaultProfile = "default"

// Keyboard is the device key holding keyboard mappings inside a profile.
const Keyboard = "keyboard"

// DeviceMappings maps a raw event name (or "<key>_<phase>" for keyboards)
// to a semantic event name.
type DeviceMappings map[string]string

// Profile holds the mappings of a single context, keyed by device: either
// Keyboard or a controller type name such as "vive-controls".
type Profile map[string]DeviceMappings

// Mappings is a set of named profiles.
//
// The YAML/JSON shape is:
//
//	default:
//	  keyboard:
//	    a_down: jump
//	  vive-controls:
//	    triggerdown: paint
type Mappings map[string]Profile

// Clone returns a deep copy of m.
func (m Mappings) Clone() Mappings {
	if m == nil {
		return nil
	}
	out := make(Mappings, len(m))
	for name, profile := range m {
		out[name] = profile.Clone()
	}
	return out
}

// Names returns the profile names in sorted order.
func (m Mappings) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}
	out := make(Profile, len(p))
	for device, events := range p {
		out[device] = events.Clone()
	}
	return out
}

// Devices returns the device keys of the profile in sorted order.
func (p Profile) Devices() []string {
	devices := make([]string, 0, len(p))
	for device := range p {
		devices = append(devices, device)
	}
	sort.Strings(devices)
	return devices
}

// Clone returns a copy of d.
func (d DeviceMappings) Clone() DeviceMappings {
	if d == nil {
		return nil
	}
	out := make(DeviceMappings, len(d))
	for raw, semantic := range d {
		out[raw] = semantic
	}
	return out
}

// Keys returns the raw event keys in sorted order.
func (d DeviceMappings) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
