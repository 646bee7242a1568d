package action

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pleimann/camel-map/internal/config"
)

// Kind is what an action does
type Kind int

const (
	KindKeys Kind = iota
	KindText
	KindActivate
)

func (k Kind) String() string {
	switch k {
	case KindKeys:
		return "keys"
	case KindText:
		return "text"
	case KindActivate:
		return "activate"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Action is the parsed form of a configured action. Name is the semantic
// event that triggers it.
type Action struct {
	Name    string
	Kind    Kind
	Keys    []KeyPress
	Text    string
	Profile string
}

// Describe summarizes what the action does, for listings
func (a Action) Describe() string {
	switch a.Kind {
	case KindKeys:
		keys := make([]string, len(a.Keys))
		for i, k := range a.Keys {
			keys[i] = k.String()
		}
		return "keys " + strings.Join(keys, " ")
	case KindText:
		return fmt.Sprintf("text %q", a.Text)
	case KindActivate:
		return "activate " + a.Profile
	}
	return ""
}

// Table maps semantic events to actions
type Table struct {
	actions map[string]Action
}

// NewTable parses configured actions. All invalid actions are reported.
func NewTable(defs map[string]config.Action) (*Table, error) {
	t := &Table{actions: make(map[string]Action, len(defs))}

	var errs []error
	for name, def := range defs {
		a := Action{Name: name}
		switch {
		case len(def.Keys) > 0:
			keys, err := ParseKeys(def.Keys)
			if err != nil {
				errs = append(errs, fmt.Errorf("action %q: %w", name, err))
				continue
			}
			a.Kind, a.Keys = KindKeys, keys
		case def.Text != "":
			a.Kind, a.Text = KindText, def.Text
		case def.Activate != "":
			a.Kind, a.Profile = KindActivate, def.Activate
		default:
			errs = append(errs, fmt.Errorf("action %q does nothing", name))
			continue
		}
		t.actions[name] = a
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return t, nil
}

// Lookup returns the action triggered by a semantic event
func (t *Table) Lookup(name string) (Action, bool) {
	a, ok := t.actions[name]
	return a, ok
}

// Names returns the semantic events with an action, sorted
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.actions))
	for name := range t.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table) Len() int {
	return len(t.actions)
}
