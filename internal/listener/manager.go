package listener

import (
	"log"
	"sort"
	"sync"

	"github.com/pleimann/camel-map/internal/host"
	"github.com/pleimann/camel-map/internal/index"
)

// Binder is where raw controller event listeners are attached, usually the
// scene that controller events bubble up to.
type Binder interface {
	AddEventListener(name string, h host.Handler) host.ListenerID
	RemoveEventListener(name string, id host.ListenerID) bool
}

// Target receives semantic events
type Target interface {
	Emit(name string, detail any)
}

// Key identifies a bound listener
type Key struct {
	ControllerType string
	Event          string
}

func (k Key) String() string {
	return k.ControllerType + "->" + k.Event
}

type binding struct {
	event string
	id    host.ListenerID
}

// Manager owns the raw event listeners bound for controller resolution and
// guarantees at most one listener per Key.
type Manager struct {
	binder  Binder
	active  func() string
	verbose bool

	mu    sync.Mutex
	bound map[Key]binding

	dispatchMu  sync.Mutex
	dispatching map[Key]bool
}

// NewManager creates a listener manager binding on binder. active is
// consulted on every raw event to pick the profile to resolve against.
func NewManager(binder Binder, active func() string, verbose bool) *Manager {
	return &Manager{
		binder:  binder,
		active:  active,
		verbose: verbose,
		bound:   make(map[Key]binding),

		dispatching: make(map[Key]bool),
	}
}

// Rebuild removes every bound listener, for all controller types, then binds
// one listener per raw event of ix.
//
// The bound handler resolves the raw event under the active profile with
// default fallback and emits the semantic event on the entity that produced
// the raw event, or on fallback when the event has no entity. The raw event
// detail is forwarded unchanged.
func (m *Manager) Rebuild(ix *index.Index, fallback Target) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teardownLocked()

	controllerType := ix.ControllerType()
	for _, event := range ix.Events() {
		key := Key{ControllerType: controllerType, Event: event}
		if _, exists := m.bound[key]; exists {
			continue
		}

		id := m.binder.AddEventListener(event, m.handler(ix, key, fallback))
		m.bound[key] = binding{event: event, id: id}
	}

	if m.verbose {
		log.Printf("Bound %d listener(s) for controller type %s", len(m.bound), controllerType)
	}
}

func (m *Manager) handler(ix *index.Index, key Key, fallback Target) host.Handler {
	return func(ev host.Event) {
		active := m.active()
		semantic, ok := ix.Resolve(ev.Name, active)
		if !ok {
			if m.verbose {
				log.Printf("Warning: no mapping for %s in profile %q or default", key, active)
			}
			return
		}

		var target Target = fallback
		if ev.Target != nil {
			target = ev.Target
		}
		if target == nil {
			return
		}

		// A semantic event that is itself a bound raw event would resolve
		// forever
		if !m.enter(key) {
			log.Printf("Warning: %s emitted again while resolving to %q, dropped", key, semantic)
			return
		}
		defer m.leave(key)
		target.Emit(semantic, ev.Detail)
	}
}

func (m *Manager) enter(key Key) bool {
	m.dispatchMu.Lock()
	defer m.dispatchMu.Unlock()
	if m.dispatching[key] {
		return false
	}
	m.dispatching[key] = true
	return true
}

func (m *Manager) leave(key Key) {
	m.dispatchMu.Lock()
	delete(m.dispatching, key)
	m.dispatchMu.Unlock()
}

// Teardown removes every bound listener. It is safe to call when nothing is
// bound.
func (m *Manager) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

func (m *Manager) teardownLocked() {
	for _, b := range m.bound {
		m.binder.RemoveEventListener(b.event, b.id)
	}
	m.bound = make(map[Key]binding)
}

// Bound returns the keys of the bound listeners in sorted order
func (m *Manager) Bound() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]Key, 0, len(m.bound))
	for k := range m.bound {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ControllerType != keys[j].ControllerType {
			return keys[i].ControllerType < keys[j].ControllerType
		}
		return keys[i].Event < keys[j].Event
	})
	return keys
}

// Len returns the number of bound listeners
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bound)
}
