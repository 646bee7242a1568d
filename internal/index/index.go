// Package index inverts registered mapping profiles into per-controller
// lookup tables.
//
// For a controller type the index answers, for each raw event the
// controller can emit, which semantic event every profile maps it to:
//
//	vive-controls:
//	  triggerdown: {default: paint, task1: selectMenu}
//	  menudown:    {default: toggleMenu}
//
// An index is built from a full snapshot of the mapping store and is never
// patched; a change to the store or a new controller connection produces a
// new one.
package index

import (
	"sort"

	"github.com/pleimann/camel-map/internal/mapping"
)

// Index maps raw event names of one controller type to the semantic event of
// each profile that defines it.
type Index struct {
	controllerType string
	entries        map[string]map[string]string
}

// Build creates the index for controllerType from every profile in m.
//
// Profiles with no entry for the controller type are skipped and returned
// so the caller can report them. An empty m yields an empty index.
func Build(m mapping.Mappings, controllerType string) (*Index, []string) {
	ix := &Index{
		controllerType: controllerType,
		entries:        make(map[string]map[string]string),
	}

	var missing []string
	for _, profileName := range m.Names() {
		events, ok := m[profileName][controllerType]
		if !ok {
			missing = append(missing, profileName)
			continue
		}

		for raw, semantic := range events {
			byProfile, ok := ix.entries[raw]
			if !ok {
				byProfile = make(map[string]string)
				ix.entries[raw] = byProfile
			}
			byProfile[profileName] = semantic
		}
	}

	return ix, missing
}

// ControllerType returns the controller type the index was built for
func (ix *Index) ControllerType() string {
	return ix.controllerType
}

// Resolve returns the semantic event for rawEvent under the active profile,
// falling back to the default profile. The second result is false when
// neither profile maps the event.
func (ix *Index) Resolve(rawEvent, active string) (string, bool) {
	byProfile, ok := ix.entries[rawEvent]
	if !ok {
		return "", false
	}
	if semantic, ok := byProfile[active]; ok && semantic != "" {
		return semantic, true
	}
	if semantic, ok := byProfile[mapping.DefaultProfile]; ok && semantic != "" {
		return semantic, true
	}
	return "", false
}

// Events returns the indexed raw event names in sorted order
func (ix *Index) Events() []string {
	events := make([]string, 0, len(ix.entries))
	for raw := range ix.entries {
		events = append(events, raw)
	}
	sort.Strings(events)
	return events
}

// Profiles returns a copy of the profile -> semantic event table for rawEvent
func (ix *Index) Profiles(rawEvent string) map[string]string {
	byProfile, ok := ix.entries[rawEvent]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(byProfile))
	for profile, semantic := range byProfile {
		out[profile] = semantic
	}
	return out
}

// Len returns the number of indexed raw events
func (ix *Index) Len() int {
	return len(ix.entries)
}
