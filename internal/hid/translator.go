package hid

import (
	"fmt"
	"sync"
)

// Raw event phases emitted for buttons
const (
	PhaseDown = "down"
	PhaseUp   = "up"
)

// Emitter receives raw controller events
type Emitter interface {
	Emit(name string, detail any)
}

// ButtonDetail is the payload of a raw button event
type ButtonDetail struct {
	Button    string
	Index     int
	Timestamp uint32
}

// Translator turns button reports into raw controller events named
// "<button><phase>", e.g. "selectdown".
type Translator struct {
	names map[int]string
	out   Emitter

	mu   sync.Mutex
	held uint16
}

// NewTranslator creates a translator emitting on out. Buttons without a
// name in names are called "button<index>".
func NewTranslator(names map[int]string, out Emitter) *Translator {
	n := make(map[int]string, len(names))
	for i, name := range names {
		n[i] = name
	}
	return &Translator{names: n, out: out}
}

// ButtonName returns the raw name of the button at index
func (t *Translator) ButtonName(index int) string {
	if name, ok := t.names[index]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("button%d", index)
}

// Feed emits one event per button that changed state since the previous
// report. Releases are emitted before presses.
func (t *Translator) Feed(ev Event) int {
	t.mu.Lock()
	released := t.held &^ ev.ButtonMask
	pressed := ev.ButtonMask &^ t.held
	t.held = ev.ButtonMask
	t.mu.Unlock()

	count := 0
	for _, i := range maskBits(released) {
		t.emit(i, PhaseUp, ev.Timestamp)
		count++
	}
	for _, i := range maskBits(pressed) {
		t.emit(i, PhaseDown, ev.Timestamp)
		count++
	}
	return count
}

// Reset releases every held button, as after a device disconnect
func (t *Translator) Reset() int {
	return t.Feed(Event{Type: Release})
}

// Held returns the indices of the buttons currently held down
func (t *Translator) Held() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maskBits(t.held)
}

func (t *Translator) emit(index int, phase string, ts uint32) {
	name := t.ButtonName(index)
	t.out.Emit(name+phase, ButtonDetail{Button: name, Index: index, Timestamp: ts})
}
