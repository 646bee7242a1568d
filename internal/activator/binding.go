package activator

import (
	"sync"

	"github.com/pleimann/camel-map/internal/host"
)

// Source is the controller entity an activator listens on and emits to
type Source interface {
	AddEventListener(name string, h host.Handler) host.ListenerID
	RemoveEventListener(name string, id host.ListenerID) bool
	Emit(name string, detail any)
}

// Binding is an activator attached to one button of a controller
type Binding struct {
	src      Source
	event    string
	detector Detector

	startEvent, endEvent string
	startID, endID       host.ListenerID

	once sync.Once
}

// Attach listens for the phase events of button on src and emits
// EventName(button, name) on src for every activation.
func Attach(src Source, button, name string, def Definition) *Binding {
	start, end := def.Phases()

	b := &Binding{
		src:        src,
		event:      EventName(button, name),
		startEvent: button + start,
		endEvent:   button + end,
	}
	b.detector = def.NewDetector(func(detail any) {
		src.Emit(b.event, detail)
	})

	b.startID = src.AddEventListener(b.startEvent, func(ev host.Event) {
		b.detector.Start(ev.Detail)
	})
	b.endID = src.AddEventListener(b.endEvent, func(ev host.Event) {
		b.detector.End(ev.Detail)
	})

	return b
}

// Event returns the synthetic event name emitted by the binding
func (b *Binding) Event() string {
	return b.event
}

// Detach removes the phase listeners and stops pending timers
func (b *Binding) Detach() {
	b.once.Do(func() {
		b.src.RemoveEventListener(b.startEvent, b.startID)
		b.src.RemoveEventListener(b.endEvent, b.endID)
		b.detector.Stop()
	})
}
