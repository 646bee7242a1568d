package pty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// ErrNotStarted is returned when writing before Start
var ErrNotStarted = errors.New("PTY not started")

const outputBufferSize = 4096

// Manager runs the TUI in a pseudo terminal. Keys are written to it and its
// recent output is kept for the status display.
type Manager struct {
	command    string
	args       []string
	workingDir string

	mu     sync.Mutex
	ptmx   *os.File
	cmd    *exec.Cmd
	exited chan struct{}

	output *RingBuffer
}

// NewManager creates a manager for command
func NewManager(command string, args []string, workingDir string) (*Manager, error) {
	if command == "" {
		return nil, fmt.Errorf("command is required")
	}

	return &Manager{
		command:    command,
		args:       args,
		workingDir: workingDir,
		output:     NewRingBuffer(outputBufferSize),
	}, nil
}

// Start starts the TUI. The PTY gets the size of the controlling terminal
// when there is one.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := exec.CommandContext(ctx, m.command, m.args...)
	cmd.Dir = m.workingDir
	cmd.Env = os.Environ()

	var size *pty.Winsize
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			size = &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}
		}
	}

	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}

	m.ptmx = ptmx
	m.cmd = cmd
	m.exited = make(chan struct{})

	go m.readOutput(ptmx)
	go func(exited chan struct{}) {
		cmd.Wait()
		close(exited)
	}(m.exited)

	return nil
}

// Stop interrupts the TUI and closes the PTY
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd != nil && m.cmd.Process != nil {
		m.cmd.Process.Signal(os.Interrupt)
		<-m.exited
	}

	if m.ptmx != nil {
		m.ptmx.Close()
		m.ptmx = nil
	}
}

func (m *Manager) readOutput(r io.Reader) {
	// Copy ends when the PTY is closed or the process exits
	io.Copy(m.output, r)
}

// Write sends raw bytes to the TUI
func (m *Manager) Write(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("nothing to write")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return ErrNotStarted
	}

	_, err := m.ptmx.Write(data)
	return err
}

// RecentOutput returns the last bytes the TUI printed
func (m *Manager) RecentOutput() string {
	return m.output.String()
}

// StatusLine returns the last non-blank line the TUI printed
func (m *Manager) StatusLine() string {
	return m.output.LastLine()
}

// Resize resizes the PTY window
func (m *Manager) Resize(rows, cols uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return ErrNotStarted
	}

	return pty.Setsize(m.ptmx, &pty.Winsize{Rows: rows, Cols: cols})
}

// IsRunning reports whether the TUI process is running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	exited := m.exited
	m.mu.Unlock()

	if exited == nil {
		return false
	}
	select {
	case <-exited:
		return false
	default:
		return true
	}
}

// Done is closed when the TUI exits. It is nil before Start.
func (m *Manager) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exited
}
