package pty

import (
	"strings"
	"sync"
)

// RingBuffer keeps the most recent bytes written to it
type RingBuffer struct {
	mu    sync.RWMutex
	data  []byte
	size  int
	write int
	full  bool
}

// NewRingBuffer creates a ring buffer holding size bytes
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{data: make([]byte, size), size: size}
}

// Write appends p, dropping the oldest bytes once the buffer is full
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	for _, b := range p {
		rb.data[rb.write] = b
		rb.write = (rb.write + 1) % rb.size
		if rb.write == 0 {
			rb.full = true
		}
	}
	return len(p), nil
}

// String returns the buffered bytes, oldest first
func (rb *RingBuffer) String() string {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	if !rb.full {
		return string(rb.data[:rb.write])
	}
	return string(rb.data[rb.write:]) + string(rb.data[:rb.write])
}

// LastLine returns the last non-blank line with terminal escape sequences
// removed
func (rb *RingBuffer) LastLine() string {
	lines := strings.FieldsFunc(stripEscapes(rb.String()), func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// stripEscapes drops CSI and two-byte ESC sequences
func stripEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != 0x1b {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			continue
		}
		i++
	}
	return b.String()
}
