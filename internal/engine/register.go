package engine

import (
	"time"

	"github.com/pleimann/camel-map/internal/activator"
	"github.com/pleimann/camel-map/internal/mapping"
)

// Default activator timings, matching the config defaults.
const (
	DefaultLongPressThreshold = 500 * time.Millisecond
	DefaultDoublePressWindow  = 300 * time.Millisecond
)

// DefaultStore is the process-wide mapping store used by engines created
// without WithStore.
var DefaultStore = mapping.NewStore()

// DefaultActivators is the process-wide activator registry used by engines
// created without WithActivators.
var DefaultActivators = newDefaultActivators()

func newDefaultActivators() *activator.Registry {
	r := activator.NewRegistry()
	activator.RegisterBuiltins(r, DefaultLongPressThreshold, DefaultDoublePressWindow)
	return r
}

// RegisterInputMappings merges m into DefaultStore, replacing its content if
// override is set. Every engine attached to the store rebuilds afterwards.
func RegisterInputMappings(m mapping.Mappings, override bool) {
	DefaultStore.Merge(m, override)
}

// RegisterInputActivator registers an activator definition in
// DefaultActivators under name.
func RegisterInputActivator(name string, def activator.Definition) {
	DefaultActivators.Register(name, def)
}
