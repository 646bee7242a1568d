// Package activator detects composite activations such as long presses and
// double presses on controller buttons.
//
// An activator listens to the start and end phase events of one button on a
// controller entity (for example "triggerdown" and "triggerup") and emits a
// synthetic raw event "<button>.<activator>" ("trigger.longpress") on the
// same entity. Mappings refer to these synthetic events like to any other
// raw event.
package activator

import (
	"fmt"
	"strings"
	"time"
)

// Button phase suffixes
const (
	PhaseDown       = "down"
	PhaseUp         = "up"
	PhaseTouchStart = "touchstart"
	PhaseTouchEnd   = "touchend"
)

// Names of the built-in activators
const (
	NameLongPress   = "longpress"
	NameDoublePress = "doublepress"
	NameDoubleTouch = "doubletouch"
)

// Definition describes an activator. It is stateless configuration; each
// attached button gets its own Detector.
type Definition interface {
	// Phases returns the suffixes of the button events the detector consumes.
	Phases() (start, end string)
	// NewDetector creates a detector calling onActivate on each activation.
	NewDetector(onActivate func(detail any)) Detector
}

// Detector is the per-button state machine of an activator
type Detector interface {
	Start(detail any)
	End(detail any)
	// Stop cancels pending timers. No activation is reported afterwards.
	Stop()
}

// LongPress activates when a button stays down for at least Threshold
type LongPress struct {
	Threshold time.Duration
}

func (LongPress) Phases() (string, string) { return PhaseDown, PhaseUp }

func (d LongPress) NewDetector(onActivate func(detail any)) Detector {
	return &holdDetector{threshold: d.Threshold, onActivate: onActivate}
}

// DoublePress activates on the second press of a button within Window
type DoublePress struct {
	Window time.Duration
}

func (DoublePress) Phases() (string, string) { return PhaseDown, PhaseUp }

func (d DoublePress) NewDetector(onActivate func(detail any)) Detector {
	return &repeatDetector{window: d.Window, onActivate: onActivate}
}

// DoubleTouch activates on the second touch of a capacitive button within
// Window
type DoubleTouch struct {
	Window time.Duration
}

func (DoubleTouch) Phases() (string, string) { return PhaseTouchStart, PhaseTouchEnd }

func (d DoubleTouch) NewDetector(onActivate func(detail any)) Detector {
	return &repeatDetector{window: d.Window, onActivate: onActivate}
}

// Simple activates on every start phase of a button, or on every end phase
// when OnEnd is set. It renames a button phase without any timing.
type Simple struct {
	OnEnd bool
}

func (Simple) Phases() (string, string) { return PhaseDown, PhaseUp }

func (d Simple) NewDetector(onActivate func(detail any)) Detector {
	return &edgeDetector{onEnd: d.OnEnd, onActivate: onActivate}
}

// EventName returns the synthetic raw event name of an activator on a button
func EventName(button, activator string) string {
	return button + "." + activator
}

// SplitKey splits a raw event key of the form "<button>.<activator>"
func SplitKey(raw string) (button, activator string, ok bool) {
	i := strings.LastIndex(raw, ".")
	if i <= 0 || i == len(raw)-1 {
		return "", "", false
	}
	return raw[:i], raw[i+1:], true
}

func describe(def Definition) string {
	start, end := def.Phases()
	return fmt.Sprintf("%T(%s/%s)", def, start, end)
}
