package ui

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pleimann/camel-map/internal/mapping"
)

// KeyEngine resolves keyboard input under switchable profiles
type KeyEngine interface {
	HandleKey(key, phase string) bool
	ActiveMapping() string
	SetActiveMapping(name string) bool
}

// SemanticMsg reports a semantic event emitted while monitoring. Seq is the
// key that produced it, see MonitorModel.Tag; zero attaches it to the last
// key shown.
type SemanticMsg struct {
	Name string
	Seq  int
}

const monitorHistory = 12

// Terminal key names translated to the key names used in keyboard mappings
var terminalKeys = map[string]string{
	"enter":     "Enter",
	"tab":       "Tab",
	"backspace": "Backspace",
	"delete":    "Delete",
	"insert":    "Insert",
	"home":      "Home",
	"end":       "End",
	"pgup":      "PageUp",
	"pgdown":    "PageDown",
	"up":        "ArrowUp",
	"down":      "ArrowDown",
	"left":      "ArrowLeft",
	"right":     "ArrowRight",
	" ":         " ",
	"space":     " ",
}

// MappingKey converts a terminal key to the key name used in keyboard
// mappings. ok is false for keys that cannot be mapped, such as ctrl
// combinations.
func MappingKey(msg tea.KeyMsg) (string, bool) {
	s := msg.String()
	if k, ok := terminalKeys[s]; ok {
		return k, true
	}
	if msg.Type != tea.KeyRunes && len(s) > 1 && s[0] == 'f' && !msg.Alt {
		// f1..f20
		return "F" + s[1:], true
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && !msg.Alt {
		return string(msg.Runes), true
	}
	return "", false
}

type monitorLine struct {
	seq      int
	key      string
	profile  string
	semantic []string
}

// MonitorModel feeds terminal keys through keyboard mappings. A terminal
// reports no key releases, so every key is sent as down, press and up.
type MonitorModel struct {
	engine   KeyEngine
	profiles []string
	lines    []monitorLine
	status   string
	seq      int
	feeds    *keyFeeds
}

// keyFeeds runs one key at a time through the engine and remembers which
// key is running
type keyFeeds struct {
	mu      sync.Mutex
	current atomic.Int64
}

// NewMonitorModel creates the monitor for the given profile names
func NewMonitorModel(engine KeyEngine, profiles []string) MonitorModel {
	return MonitorModel{engine: engine, profiles: profiles, feeds: &keyFeeds{}}
}

// Tag returns the message for a semantic event emitted by the engine. It
// must be called from the emitting listener, while the key is being fed.
func (m MonitorModel) Tag(name string) SemanticMsg {
	return SemanticMsg{Name: name, Seq: int(m.feeds.current.Load())}
}

func (m MonitorModel) Init() tea.Cmd {
	return nil
}

func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SemanticMsg:
		if line := m.lineFor(msg.Seq); line != nil {
			line.semantic = append(line.semantic, msg.Name)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+n":
			m.status = m.nextProfile()
			return m, nil
		}

		key, ok := MappingKey(msg)
		if !ok {
			m.status = "unmappable key " + msg.String()
			return m, nil
		}
		m.status = ""
		m.seq++
		m.lines = append(m.lines, monitorLine{seq: m.seq, key: key, profile: m.engine.ActiveMapping()})
		if len(m.lines) > monitorHistory {
			m.lines = m.lines[len(m.lines)-monitorHistory:]
		}
		return m, m.feed(m.seq, key)
	}
	return m, nil
}

// lineFor returns the line of key seq, or the last line for seq 0. Lines
// scrolled out of the history return nil.
func (m *MonitorModel) lineFor(seq int) *monitorLine {
	if len(m.lines) == 0 {
		return nil
	}
	if seq == 0 {
		return &m.lines[len(m.lines)-1]
	}
	for i := range m.lines {
		if m.lines[i].seq == seq {
			return &m.lines[i]
		}
	}
	return nil
}

// feed runs the key outside Update so emitted SemanticMsgs arrive after
// the key line exists
func (m MonitorModel) feed(seq int, key string) tea.Cmd {
	engine, feeds := m.engine, m.feeds
	return func() tea.Msg {
		feeds.mu.Lock()
		defer feeds.mu.Unlock()
		feeds.current.Store(int64(seq))
		defer feeds.current.Store(0)

		for _, phase := range []string{mapping.PhaseDown, mapping.PhasePress, mapping.PhaseUp} {
			engine.HandleKey(key, phase)
		}
		return nil
	}
}

func (m MonitorModel) nextProfile() string {
	if len(m.profiles) == 0 {
		return "no profiles registered"
	}
	current := m.engine.ActiveMapping()
	next := m.profiles[0]
	for i, name := range m.profiles {
		if name == current {
			next = m.profiles[(i+1)%len(m.profiles)]
			break
		}
	}
	if !m.engine.SetActiveMapping(next) {
		return "cannot activate " + next
	}
	return "switched to " + next
}

func (m MonitorModel) View() string {
	var b strings.Builder

	b.WriteString(Title("Keyboard monitor"))
	b.WriteString("  ")
	b.WriteString(ActiveProfileStyle.Render(m.engine.ActiveMapping()))
	b.WriteString("\n")
	b.WriteString(Muted("type to resolve keys · ctrl+n next profile · esc quit"))
	b.WriteString("\n\n")

	if len(m.lines) == 0 {
		b.WriteString(Muted("  no keys yet"))
		b.WriteString("\n")
	}
	for _, l := range m.lines {
		key := fmt.Sprintf("%q", l.key)
		result := Muted("unmapped")
		if len(l.semantic) > 0 {
			result = SemanticStyle.Render(strings.Join(l.semantic, ", "))
		}
		fmt.Fprintf(&b, "  %-12s %s  %s\n", key, RawEventStyle.Render("["+l.profile+"]"), result)
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

// Lines returns the keys shown and the semantic events each resolved to
func (m MonitorModel) Lines() [][]string {
	out := make([][]string, len(m.lines))
	for i, l := range m.lines {
		out[i] = append([]string{l.key}, l.semantic...)
	}
	return out
}
