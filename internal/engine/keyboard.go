package engine

import (
	"log"

	"github.com/pleimann/camel-map/internal/host"
	"github.com/pleimann/camel-map/internal/mapping"
)

// HandleKey resolves a keyboard key and phase against the keyboard table of
// the active profile and emits the semantic event on the whole host.
//
// Unlike controller events there is no fallback to the default profile: a
// key unmapped in the active profile emits nothing.
func (e *Engine) HandleKey(key, phase string) bool {
	return e.handleKey(key, phase, host.KeyDetail{Key: key})
}

func (e *Engine) handleKey(key, phase string, detail any) bool {
	active := e.ActiveMapping()

	semantic, ok := e.store.Lookup(active, mapping.Keyboard, mapping.KeyboardKey(key, phase))
	if !ok || semantic == "" {
		if e.verbose {
			log.Printf("No keyboard mapping for %s_%s in profile %q", key, phase, active)
		}
		return false
	}

	e.host.Emit(semantic, detail)
	return true
}

func (e *Engine) onKey(phase string) host.Handler {
	return func(ev host.Event) {
		switch detail := ev.Detail.(type) {
		case host.KeyDetail:
			e.handleKey(detail.Key, phase, detail)
		case *host.KeyDetail:
			if detail != nil {
				e.handleKey(detail.Key, phase, *detail)
			}
		case string:
			e.handleKey(detail, phase, host.KeyDetail{Key: detail})
		}
	}
}
