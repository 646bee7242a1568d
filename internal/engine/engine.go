package engine

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/pleimann/camel-map/internal/activator"
	"github.com/pleimann/camel-map/internal/host"
	"github.com/pleimann/camel-map/internal/index"
	"github.com/pleimann/camel-map/internal/listener"
	"github.com/pleimann/camel-map/internal/mapping"
)

// ErrNoHost is returned by New when no host is given to emit events on.
var ErrNoHost = errors.New("input mapping requires a host with event emission")

// Host is the runtime the engine is attached to
type Host interface {
	listener.Binder
	Emit(name string, detail any)
}

// connection is the most recently connected controller
type connection struct {
	controllerType string
	target         *host.Entity
}

// Engine resolves raw input events of one host into semantic events under
// the active mapping profile.
type Engine struct {
	id         string
	host       Host
	store      *mapping.Store
	activators *activator.Registry
	verbose    bool

	mu        sync.Mutex
	active    string
	conn      *connection
	entities  map[string][]*host.Entity
	listeners *listener.Manager
	attached  []*activator.Binding
	closed    bool

	hostListeners []hostListener
	unsubscribe   func()
}

type hostListener struct {
	event string
	id    host.ListenerID
}

// Option configures an Engine
type Option func(*Engine)

// WithStore resolves against s instead of DefaultStore
func WithStore(s *mapping.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = s
		}
	}
}

// WithActivators looks activators up in r instead of DefaultActivators
func WithActivators(r *activator.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.activators = r
		}
	}
}

// WithVerbose enables informational logging
func WithVerbose(verbose bool) Option {
	return func(e *Engine) {
		e.verbose = verbose
	}
}

// New attaches a mapping engine to h. The engine listens on h for controller
// connections, keyboard events and mapping registrations, and follows every
// merge into its store.
func New(h Host, opts ...Option) (*Engine, error) {
	if h == nil {
		return nil, ErrNoHost
	}

	e := &Engine{
		id:         uuid.New().String(),
		host:       h,
		store:      DefaultStore,
		activators: DefaultActivators,
		active:     mapping.DefaultProfile,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.listeners = listener.NewManager(h, e.ActiveMapping, e.verbose)

	e.listen(host.EventControllerConnected, e.onControllerConnected)
	e.listen(host.EventKeyDown, e.onKey(mapping.PhaseDown))
	e.listen(host.EventKeyUp, e.onKey(mapping.PhaseUp))
	e.listen(host.EventKeyPress, e.onKey(mapping.PhasePress))
	e.listen(host.EventInputMappingRegistered, func(host.Event) { e.rebuild() })

	// Merges are announced on the host so every scene rebuilds on its own
	e.unsubscribe = e.store.Subscribe(func() {
		h.Emit(host.EventInputMappingRegistered, nil)
	})

	if e.verbose {
		log.Printf("Input mapping engine %s attached (%d profile(s) registered)", e.id, e.store.Len())
	}

	return e, nil
}

func (e *Engine) listen(event string, h host.Handler) {
	id := e.host.AddEventListener(event, h)
	e.hostListeners = append(e.hostListeners, hostListener{event: event, id: id})
}

// ID returns the engine instance identifier
func (e *Engine) ID() string {
	return e.id
}

// ActiveMapping returns the name of the active profile
func (e *Engine) ActiveMapping() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// SetActiveMapping activates the named profile. Unknown profiles are
// rejected with a warning and the active profile stays unchanged.
func (e *Engine) SetActiveMapping(name string) bool {
	if !e.store.Has(name) {
		log.Printf("Warning: trying to activate a mapping that doesn't exist: %q", name)
		return false
	}

	e.mu.Lock()
	previous := e.active
	e.active = name
	e.mu.Unlock()

	if e.verbose && previous != name {
		log.Printf("Active mapping changed: %s -> %s", previous, name)
	}
	return true
}

// Store returns the mapping store the engine resolves against
func (e *Engine) Store() *mapping.Store {
	return e.store
}

// ControllerConnected builds the index for controllerType and rebinds the
// raw event listeners. Semantic events without an originating entity are
// emitted on target.
func (e *Engine) ControllerConnected(controllerType string, target *host.Entity) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.conn = &connection{controllerType: controllerType, target: target}
	if target != nil && !containsEntity(e.entities[controllerType], target) {
		if e.entities == nil {
			e.entities = make(map[string][]*host.Entity)
		}
		e.entities[controllerType] = append(e.entities[controllerType], target)
	}
	e.mu.Unlock()

	if e.verbose {
		log.Printf("Controller connected: %s", controllerType)
	}
	e.rebuild()
}

func containsEntity(entities []*host.Entity, target *host.Entity) bool {
	for _, ent := range entities {
		if ent == target {
			return true
		}
	}
	return false
}

func (e *Engine) onControllerConnected(ev host.Event) {
	switch detail := ev.Detail.(type) {
	case host.ControllerDetail:
		e.ControllerConnected(detail.Name, detail.Target)
	case *host.ControllerDetail:
		if detail != nil {
			e.ControllerConnected(detail.Name, detail.Target)
		}
	default:
		log.Printf("Warning: %s event without controller detail", ev.Name)
	}
}

// rebuild re-indexes the connected controller from the current store content
// and replaces every bound listener and activator.
func (e *Engine) rebuild() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.conn == nil {
		return
	}

	if e.store.Len() == 0 {
		log.Printf("Warning: no input mappings defined")
	}

	snapshot := e.store.Snapshot()
	ix, missing := index.Build(snapshot, e.conn.controllerType)
	for _, profile := range missing {
		log.Printf("Warning: no mappings defined for controller type %s in profile %q", e.conn.controllerType, profile)
	}

	var fallback listener.Target
	if e.conn.target != nil {
		fallback = e.conn.target
	}
	e.listeners.Rebuild(ix, fallback)
	e.attachActivatorsLocked(ix)
}

func (e *Engine) attachActivatorsLocked(ix *index.Index) {
	for _, b := range e.attached {
		b.Detach()
	}
	e.attached = nil

	// Every entity of the connected type gets its own detectors
	entities := e.entities[e.conn.controllerType]
	if len(entities) == 0 {
		return
	}

	for _, raw := range ix.Events() {
		button, name, ok := activator.SplitKey(raw)
		if !ok {
			continue
		}
		def, ok := e.activators.Lookup(name)
		if !ok {
			log.Printf("Warning: mapping %q uses unknown activator %q", raw, name)
			continue
		}
		for _, ent := range entities {
			e.attached = append(e.attached, activator.Attach(ent, button, name, def))
		}
	}
}

// Bound returns the keys of the currently bound controller listeners
func (e *Engine) Bound() []listener.Key {
	return e.listeners.Bound()
}

// Close detaches the engine from its host and store. It is safe to call more
// than once.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	for _, b := range e.attached {
		b.Detach()
	}
	e.attached = nil
	e.entities = nil
	e.mu.Unlock()

	e.unsubscribe()
	for _, l := range e.hostListeners {
		e.host.RemoveEventListener(l.event, l.id)
	}
	e.hostListeners = nil
	e.listeners.Teardown()
}
