package action

import (
	"log"
	"sync"

	"github.com/pleimann/camel-map/internal/host"
	"github.com/pleimann/camel-map/internal/listener"
)

// Dispatcher listens for semantic events on a host and runs the matching
// actions.
type Dispatcher struct {
	binder listener.Binder
	exec   *Executor

	mu       sync.Mutex
	table    *Table
	bound    map[string]host.ListenerID
	handlers []func(Action, error)
}

// NewDispatcher creates a dispatcher. Nothing is dispatched until Bind.
func NewDispatcher(binder listener.Binder, exec *Executor) *Dispatcher {
	return &Dispatcher{
		binder: binder,
		exec:   exec,
		bound:  make(map[string]host.ListenerID),
	}
}

// OnAction registers a handler called after every dispatched action
func (d *Dispatcher) OnAction(fn func(Action, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, fn)
}

// Bind replaces the action table and listens for each of its events
func (d *Dispatcher) Bind(t *Table) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.unbindLocked()
	d.table = t
	for _, name := range t.Names() {
		d.bound[name] = d.binder.AddEventListener(name, d.handle)
	}
}

func (d *Dispatcher) unbindLocked() {
	for name, id := range d.bound {
		d.binder.RemoveEventListener(name, id)
	}
	d.bound = make(map[string]host.ListenerID)
}

// Close stops listening
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unbindLocked()
	d.table = nil
}

func (d *Dispatcher) handle(ev host.Event) {
	d.Dispatch(ev.Name)
}

// Dispatch runs the action bound to a semantic event. It reports whether
// an action was found.
func (d *Dispatcher) Dispatch(name string) bool {
	d.mu.Lock()
	table := d.table
	handlers := make([]func(Action, error), len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.Unlock()

	if table == nil {
		return false
	}
	a, ok := table.Lookup(name)
	if !ok {
		return false
	}

	err := d.exec.Run(a)
	if err != nil {
		log.Printf("Action %s failed: %v", name, err)
	}
	for _, h := range handlers {
		h(a, err)
	}
	return true
}
