// Package host is the in-process runtime the mapping engine plugs into: a
// scene of entities exchanging named events.
//
// Events emitted on an entity are delivered to the entity's own listeners
// and then bubble up to the scene with Event.Target set to the entity.
// Events emitted on the scene itself have no target.
package host

import (
	"sync"

	"github.com/google/uuid"
)

// Event names the host emits for the engine.
const (
	EventControllerConnected    = "controllerconnected"
	EventKeyDown                = "keydown"
	EventKeyUp                  = "keyup"
	EventKeyPress               = "keypress"
	EventInputMappingRegistered = "inputmappingregistered"
)

// Event is a named occurrence delivered to listeners
type Event struct {
	Name   string
	Detail any
	Target *Entity
}

// Handler receives events
type Handler func(Event)

// ListenerID identifies a registered listener
type ListenerID string

// ControllerDetail is the payload of a controllerconnected event
type ControllerDetail struct {
	Name   string
	Target *Entity
}

// KeyDetail is the payload of keydown, keyup and keypress events
type KeyDetail struct {
	Key string
}

type listenerEntry struct {
	id      ListenerID
	handler Handler
}

// listeners is a name-keyed list of handlers safe for concurrent use.
// Dispatch copies the handler list so handlers may add or remove listeners
// while an event is being delivered.
type listeners struct {
	mu      sync.RWMutex
	entries map[string][]listenerEntry
}

func newListeners() *listeners {
	return &listeners{entries: make(map[string][]listenerEntry)}
}

func (l *listeners) add(name string, h Handler) ListenerID {
	id := ListenerID(uuid.New().String())

	l.mu.Lock()
	l.entries[name] = append(l.entries[name], listenerEntry{id: id, handler: h})
	l.mu.Unlock()

	return id
}

func (l *listeners) remove(name string, id ListenerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.entries[name]
	for i, e := range entries {
		if e.id != id {
			continue
		}
		entries = append(entries[:i:i], entries[i+1:]...)
		if len(entries) == 0 {
			delete(l.entries, name)
		} else {
			l.entries[name] = entries
		}
		return true
	}
	return false
}

func (l *listeners) count(name string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries[name])
}

func (l *listeners) dispatch(ev Event) {
	l.mu.RLock()
	entries := make([]listenerEntry, len(l.entries[ev.Name]))
	copy(entries, l.entries[ev.Name])
	l.mu.RUnlock()

	for _, e := range entries {
		e.handler(ev)
	}
}

// Scene is the root of the event tree
type Scene struct {
	listeners *listeners
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{listeners: newListeners()}
}

// AddEventListener registers h for events named name reaching the scene
func (s *Scene) AddEventListener(name string, h Handler) ListenerID {
	return s.listeners.add(name, h)
}

// RemoveEventListener removes a listener. It reports whether the listener
// was registered.
func (s *Scene) RemoveEventListener(name string, id ListenerID) bool {
	return s.listeners.remove(name, id)
}

// ListenerCount returns the number of scene listeners for name
func (s *Scene) ListenerCount(name string) int {
	return s.listeners.count(name)
}

// Emit delivers a scene-wide event
func (s *Scene) Emit(name string, detail any) {
	s.listeners.dispatch(Event{Name: name, Detail: detail})
}

// NewEntity creates an entity attached to the scene
func (s *Scene) NewEntity(id string) *Entity {
	return &Entity{
		ID:        id,
		scene:     s,
		listeners: newListeners(),
	}
}

// Entity is an event target inside a scene, such as a tracked controller
type Entity struct {
	ID string

	scene     *Scene
	listeners *listeners
}

// AddEventListener registers h for events named name emitted on the entity
func (e *Entity) AddEventListener(name string, h Handler) ListenerID {
	return e.listeners.add(name, h)
}

// RemoveEventListener removes an entity listener
func (e *Entity) RemoveEventListener(name string, id ListenerID) bool {
	return e.listeners.remove(name, id)
}

// ListenerCount returns the number of entity listeners for name
func (e *Entity) ListenerCount(name string) int {
	return e.listeners.count(name)
}

// Emit delivers the event to the entity listeners and then to the scene
func (e *Entity) Emit(name string, detail any) {
	ev := Event{Name: name, Detail: detail, Target: e}
	e.listeners.dispatch(ev)
	if e.scene != nil {
		e.scene.listeners.dispatch(ev)
	}
}

// Scene returns the scene the entity belongs to
func (e *Entity) Scene() *Scene {
	return e.scene
}
