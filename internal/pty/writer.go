package pty

import (
	"time"

	"github.com/pleimann/camel-map/internal/action"
)

// Writer sends keys to the TUI with an optional delay between keystrokes
type Writer struct {
	manager  *Manager
	keyDelay time.Duration
}

// NewWriter creates a PTY writer
func NewWriter(manager *Manager, keyDelay time.Duration) *Writer {
	return &Writer{manager: manager, keyDelay: keyDelay}
}

// WriteKey writes a single key press
func (w *Writer) WriteKey(key action.KeyPress) error {
	if err := w.manager.Write(key.ToBytes()); err != nil {
		return err
	}
	// Some TUIs drop keys that arrive in the same read
	if w.keyDelay > 0 {
		time.Sleep(w.keyDelay)
	}
	return nil
}

// WriteString types s as-is
func (w *Writer) WriteString(s string) error {
	return w.manager.Write([]byte(s))
}
