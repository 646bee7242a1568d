package action

import (
	"fmt"
)

// KeyWriter sends input to the TUI
type KeyWriter interface {
	WriteKey(key KeyPress) error
	WriteString(s string) error
}

// Profiles switches the active mapping profile
type Profiles interface {
	SetActiveMapping(name string) bool
}

// Executor runs actions against the TUI and the mapping engine
type Executor struct {
	writer   KeyWriter
	profiles Profiles
}

// NewExecutor creates an executor. profiles may be nil when no action
// switches profiles.
func NewExecutor(writer KeyWriter, profiles Profiles) *Executor {
	return &Executor{writer: writer, profiles: profiles}
}

// Execute parses and writes a sequence of key strings
func (e *Executor) Execute(keys []string) error {
	parsed, err := ParseKeys(keys)
	if err != nil {
		return err
	}
	return e.writeKeys(parsed)
}

func (e *Executor) writeKeys(keys []KeyPress) error {
	for _, key := range keys {
		if err := e.writer.WriteKey(key); err != nil {
			return fmt.Errorf("failed to write key %q: %w", key, err)
		}
	}
	return nil
}

// Run performs a resolved action
func (e *Executor) Run(a Action) error {
	switch a.Kind {
	case KindKeys:
		return e.writeKeys(a.Keys)
	case KindText:
		if err := e.writer.WriteString(a.Text); err != nil {
			return fmt.Errorf("failed to type text: %w", err)
		}
		return nil
	case KindActivate:
		if e.profiles == nil {
			return fmt.Errorf("action %q: no mapping engine to activate %q", a.Name, a.Profile)
		}
		if !e.profiles.SetActiveMapping(a.Profile) {
			return fmt.Errorf("action %q: profile %q does not exist", a.Name, a.Profile)
		}
		return nil
	}
	return fmt.Errorf("action %q: unknown kind %d", a.Name, a.Kind)
}
