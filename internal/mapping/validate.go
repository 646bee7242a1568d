package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// Keyboard phases accepted in "<key>_<phase>" keys.
const (
	PhaseDown  = "down"
	PhaseUp    = "up"
	PhasePress = "press"
)

// KeyboardKey builds the keyboard table key for a key and phase
func KeyboardKey(key, phase string) string {
	return key + "_" + phase
}

// SplitKeyboardKey splits "<key>_<phase>" at the last underscore. Keys such
// as "Shift_Left_down" keep their inner underscores.
func SplitKeyboardKey(s string) (key, phase string, ok bool) {
	i := strings.LastIndex(s, "_")
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// ValidPhase reports whether phase is a known keyboard phase
func ValidPhase(phase string) bool {
	switch phase {
	case PhaseDown, PhaseUp, PhasePress:
		return true
	}
	return false
}

// Vocabulary is a closed set of controller types and raw event names used
// to reject typos when mappings are loaded. An empty Vocabulary accepts any
// controller type and event.
type Vocabulary struct {
	// Controllers maps a controller type to the raw events it can emit.
	// A type with an empty list accepts any event name.
	Controllers map[string][]string
}

// IsEmpty reports whether the vocabulary imposes no restrictions
func (v Vocabulary) IsEmpty() bool {
	return len(v.Controllers) == 0
}

// Validate checks every profile of m. Keyboard keys must have the form
// "<key>_<phase>"; controller types and raw events must be part of vocab when
// it is not empty. All problems are reported together.
func Validate(m Mappings, vocab Vocabulary) error {
	var errs []error

	for _, name := range m.Names() {
		if name == "" {
			errs = append(errs, fmt.Errorf("profile name must not be empty"))
			continue
		}
		profile := m[name]
		for _, device := range profile.Devices() {
			events := profile[device]
			if device == Keyboard {
				errs = append(errs, validateKeyboard(name, events)...)
				continue
			}
			errs = append(errs, validateController(name, device, events, vocab)...)
		}
	}
	errs = append(errs, validateCycles(m)...)

	return errors.Join(errs...)
}

// validateCycles rejects controller mappings whose semantic event is also a
// raw event of the same controller in any profile. Emitting it would be
// resolved again.
func validateCycles(m Mappings) []error {
	raw := make(map[string]map[string]bool)
	for _, profile := range m {
		for device, events := range profile {
			if device == Keyboard {
				continue
			}
			if raw[device] == nil {
				raw[device] = make(map[string]bool)
			}
			for event := range events {
				raw[device][event] = true
			}
		}
	}

	var errs []error
	for _, name := range m.Names() {
		profile := m[name]
		for _, device := range profile.Devices() {
			if device == Keyboard {
				continue
			}
			events := profile[device]
			for _, event := range events.Keys() {
				if semantic := events[event]; raw[device][semantic] {
					errs = append(errs, fmt.Errorf("%s.%s: event %q maps to %q, which is itself a %s event", name, device, event, semantic, device))
				}
			}
		}
	}
	return errs
}

func validateKeyboard(profile string, events DeviceMappings) []error {
	var errs []error
	for _, raw := range events.Keys() {
		_, phase, ok := SplitKeyboardKey(raw)
		if !ok {
			errs = append(errs, fmt.Errorf("%s.keyboard: key %q is not of the form <key>_<phase>", profile, raw))
			continue
		}
		if !ValidPhase(phase) {
			errs = append(errs, fmt.Errorf("%s.keyboard: key %q has unknown phase %q", profile, raw, phase))
		}
		if events[raw] == "" {
			errs = append(errs, fmt.Errorf("%s.keyboard: key %q maps to an empty event", profile, raw))
		}
	}
	return errs
}

func validateController(profile, controller string, events DeviceMappings, vocab Vocabulary) []error {
	var errs []error

	var known map[string]bool
	if !vocab.IsEmpty() {
		allowed, ok := vocab.Controllers[controller]
		if !ok {
			return []error{fmt.Errorf("%s: unknown controller type %q", profile, controller)}
		}
		if len(allowed) > 0 {
			known = make(map[string]bool, len(allowed))
			for _, e := range allowed {
				known[e] = true
			}
		}
	}

	for _, raw := range events.Keys() {
		if events[raw] == "" {
			errs = append(errs, fmt.Errorf("%s.%s: event %q maps to an empty event", profile, controller, raw))
		}
		if known == nil {
			continue
		}
		// Activator keys ("trigger.longpress") are checked by their button.
		name := raw
		if i := strings.Index(raw, "."); i > 0 {
			name = raw[:i]
			if !known[name+PhaseDown] && !known[name+"touchstart"] && !known[name] {
				errs = append(errs, fmt.Errorf("%s.%s: unknown button %q in %q", profile, controller, name, raw))
			}
			continue
		}
		if !known[name] {
			errs = append(errs, fmt.Errorf("%s.%s: unknown event %q", profile, controller, raw))
		}
	}
	return errs
}
