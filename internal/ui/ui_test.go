package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/camel-map/internal/mapping"
)

func TestMappingRows(t *testing.T) {
	profile := mapping.Profile{
		"keyboard":  {"a_down": "jump"},
		"camel-pad": {"selectdown": "confirm", "backdown": "cancel"},
	}
	describe := func(semantic string) string {
		if semantic == "confirm" {
			return "keys enter"
		}
		return ""
	}

	rows := MappingRows(profile, describe)
	assert.Equal(t, [][]string{
		{"camel-pad", "backdown", "cancel", ""},
		{"camel-pad", "selectdown", "confirm", "keys enter"},
		{"keyboard", "a_down", "jump", ""},
	}, rows)

	assert.Empty(t, MappingRows(mapping.Profile{}, nil))
}

func TestRenderProfile(t *testing.T) {
	profile := mapping.Profile{"camel-pad": {"selectdown": "confirm"}}

	out := RenderProfile("menu", profile, true, nil)
	assert.Contains(t, out, "menu (active)")
	assert.Contains(t, out, "selectdown")
	assert.Contains(t, out, "confirm")
	assert.Contains(t, out, "fall back to default")

	out = RenderProfile("default", profile, false, nil)
	assert.NotContains(t, out, "(active)")
	assert.NotContains(t, out, "fall back")

	assert.Contains(t, RenderProfile("empty", mapping.Profile{}, false, nil), "no mappings")
}

func TestPrintMappingsUnknownProfile(t *testing.T) {
	m := mapping.Mappings{"default": {"keyboard": {"a_down": "jump"}}}
	err := PrintMappings(m, "default", "missing", nil)
	assert.ErrorContains(t, err, `profile "missing" is not defined`)
}

func TestMappingKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
		ok   bool
	}{
		{"letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, "a", true},
		{"uppercase", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'A'}}, "A", true},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, " ", true},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, "Enter", true},
		{"arrow", tea.KeyMsg{Type: tea.KeyUp}, "ArrowUp", true},
		{"function key", tea.KeyMsg{Type: tea.KeyF5}, "F5", true},
		{"alt letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, "", false},
		{"ctrl combination", tea.KeyMsg{Type: tea.KeyCtrlA}, "", false},
		{"pasted text", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("fx")}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MappingKey(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// fakeEngine resolves keydown of "a" to "jump" in default and "crouch" in
// task1, and reports each resolution through emit.
type fakeEngine struct {
	active string
	emit   func(string)
	phases []string
}

func (e *fakeEngine) HandleKey(key, phase string) bool {
	e.phases = append(e.phases, phase)
	if key != "a" || phase != mapping.PhaseDown {
		return false
	}
	if e.active == "task1" {
		e.emit("crouch")
	} else {
		e.emit("jump")
	}
	return true
}

func (e *fakeEngine) ActiveMapping() string { return e.active }

func (e *fakeEngine) SetActiveMapping(name string) bool {
	if name != "default" && name != "task1" {
		return false
	}
	e.active = name
	return true
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press delivers a key to the model, runs the resulting command and feeds
// back the semantic events it emitted
func press(t *testing.T, m MonitorModel, e *fakeEngine, msg tea.KeyMsg) MonitorModel {
	t.Helper()
	var emitted []SemanticMsg
	e.emit = func(name string) { emitted = append(emitted, m.Tag(name)) }

	model, cmd := m.Update(msg)
	if cmd != nil {
		assert.Nil(t, cmd())
	}
	for _, sm := range emitted {
		model, _ = model.Update(sm)
	}
	return model.(MonitorModel)
}

func TestMonitorModel(t *testing.T) {
	e := &fakeEngine{active: "default"}
	m := NewMonitorModel(e, []string{"default", "task1"})
	assert.Contains(t, m.View(), "no keys yet")

	m = press(t, m, e, runes("a"))
	assert.Equal(t, []string{mapping.PhaseDown, mapping.PhasePress, mapping.PhaseUp}, e.phases)

	m = press(t, m, e, runes("b"))
	m = press(t, m, e, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, "task1", e.active)
	m = press(t, m, e, runes("a"))

	assert.Equal(t, [][]string{{"a", "jump"}, {"b"}, {"a", "crouch"}}, m.Lines())

	view := m.View()
	assert.Contains(t, view, "jump")
	assert.Contains(t, view, "crouch")
	assert.Contains(t, view, "unmapped")

	// Cycling wraps around
	m = press(t, m, e, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, "default", e.active)
	assert.Contains(t, m.View(), "switched to default")
}

func TestMonitorModelMatchesEventsToKeys(t *testing.T) {
	e := &fakeEngine{active: "default"}
	var emitted []SemanticMsg
	m := NewMonitorModel(e, []string{"default"})
	e.emit = func(name string) { emitted = append(emitted, m.Tag(name)) }

	model, feedA := m.Update(runes("a"))
	model, feedB := model.Update(runes("b"))
	require.NotNil(t, feedA)
	require.NotNil(t, feedB)

	// "a" resolves after "b" is already shown
	feedB()
	feedA()
	require.Len(t, emitted, 1)
	assert.NotZero(t, emitted[0].Seq)
	model, _ = model.Update(emitted[0])

	assert.Equal(t, [][]string{{"a", "jump"}, {"b"}}, model.(MonitorModel).Lines())

	// Outside a feed there is no key to attach to
	assert.Zero(t, m.Tag("jump").Seq)
}

func TestMonitorModelHistoryAndQuit(t *testing.T) {
	e := &fakeEngine{active: "default"}
	m := NewMonitorModel(e, nil)

	for i := 0; i < monitorHistory+5; i++ {
		m = press(t, m, e, runes("z"))
	}
	assert.Len(t, m.Lines(), monitorHistory)

	m = press(t, m, e, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Contains(t, m.View(), "no profiles registered")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, quit := cmd().(tea.QuitMsg)
	assert.True(t, quit)
}

func TestMonitorProgram(t *testing.T) {
	e := &fakeEngine{active: "default"}
	m := NewMonitorModel(e, []string{"default", "task1"})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	e.emit = func(name string) { tm.Send(m.Tag(name)) }

	tm.Type("a")
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("jump"))
	}, teatest.WithDuration(time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(time.Second)).(MonitorModel)
	assert.Equal(t, [][]string{{"a", "jump"}}, final.Lines())
}

func TestUsageMentionsCommands(t *testing.T) {
	for _, c := range commands {
		assert.False(t, strings.ContainsAny(c.name, " \t"), c.name)
		assert.NotEmpty(t, c.desc)
	}
}
