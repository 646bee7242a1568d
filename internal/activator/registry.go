package activator

import (
	"log"
	"reflect"
	"sort"
	"sync"
	"time"
)

// Registry holds activator definitions by name
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds or replaces the definition registered under name
func (r *Registry) Register(name string, def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, exists := r.defs[name]; exists && !sameDefinition(old, def) {
		log.Printf("Activator %q redefined as %s", name, describe(def))
	}
	r.defs[name] = def
}

// sameDefinition reports whether a and b are equal comparable definitions
func sameDefinition(a, b Definition) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}

// Lookup returns the definition registered under name
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the registered activator names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterBuiltins registers longpress, doublepress and doubletouch with the
// given timings
func RegisterBuiltins(r *Registry, longPressThreshold, doubleWindow time.Duration) {
	r.Register(NameLongPress, LongPress{Threshold: longPressThreshold})
	r.Register(NameDoublePress, DoublePress{Window: doubleWindow})
	r.Register(NameDoubleTouch, DoubleTouch{Window: doubleWindow})
}
