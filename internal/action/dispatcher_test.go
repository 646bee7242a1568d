package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/camel-map/internal/config"
	"github.com/pleimann/camel-map/internal/host"
)

type mockKeyWriter struct {
	keys []KeyPress
	text []string
	err  error
}

func (m *mockKeyWriter) WriteKey(key KeyPress) error {
	if m.err != nil {
		return m.err
	}
	m.keys = append(m.keys, key)
	return nil
}

func (m *mockKeyWriter) WriteString(s string) error {
	m.text = append(m.text, s)
	return nil
}

type mockProfiles struct {
	known  map[string]bool
	active string
}

func (p *mockProfiles) SetActiveMapping(name string) bool {
	if !p.known[name] {
		return false
	}
	p.active = name
	return true
}

func TestExecutorExecute(t *testing.T) {
	w := &mockKeyWriter{}
	require.NoError(t, NewExecutor(w, nil).Execute([]string{"ctrl+c", "enter", "a"}))

	require.Len(t, w.keys, 3)
	assert.Equal(t, KeyPress{Ctrl: true, Key: "c"}, w.keys[0])
	assert.Equal(t, "enter", w.keys[1].Key)
	assert.Equal(t, "a", w.keys[2].Key)
}

func TestExecutorExecuteInvalidKey(t *testing.T) {
	w := &mockKeyWriter{}
	err := NewExecutor(w, nil).Execute([]string{"a", "invalid_key_name"})
	assert.Error(t, err)
	assert.Empty(t, w.keys, "nothing is written when a key does not parse")
}

func TestExecutorRun(t *testing.T) {
	w := &mockKeyWriter{}
	p := &mockProfiles{known: map[string]bool{"menu": true}, active: "default"}
	exec := NewExecutor(w, p)

	require.NoError(t, exec.Run(Action{Name: "hello", Kind: KindText, Text: "hi"}))
	assert.Equal(t, []string{"hi"}, w.text)

	require.NoError(t, exec.Run(Action{Name: "menu", Kind: KindActivate, Profile: "menu"}))
	assert.Equal(t, "menu", p.active)

	err := exec.Run(Action{Name: "nowhere", Kind: KindActivate, Profile: "missing"})
	assert.ErrorContains(t, err, `profile "missing" does not exist`)
	assert.Equal(t, "menu", p.active)

	err = NewExecutor(w, nil).Run(Action{Name: "menu", Kind: KindActivate, Profile: "menu"})
	assert.ErrorContains(t, err, "no mapping engine")

	w.err = errors.New("pty closed")
	err = exec.Run(Action{Name: "confirm", Kind: KindKeys, Keys: []KeyPress{{Key: "enter"}}})
	assert.ErrorContains(t, err, "pty closed")
}

func TestNewTable(t *testing.T) {
	table, err := NewTable(map[string]config.Action{
		"confirm": {Keys: []string{"enter"}},
		"greet":   {Text: "hello"},
		"menu":    {Activate: "menu"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"confirm", "greet", "menu"}, table.Names())
	assert.Equal(t, 3, table.Len())

	a, ok := table.Lookup("confirm")
	require.True(t, ok)
	assert.Equal(t, KindKeys, a.Kind)
	assert.Equal(t, []KeyPress{{Key: "enter"}}, a.Keys)

	a, _ = table.Lookup("menu")
	assert.Equal(t, KindActivate, a.Kind)
	assert.Equal(t, "menu", a.Profile)

	_, ok = table.Lookup("missing")
	assert.False(t, ok)
}

func TestNewTableErrors(t *testing.T) {
	_, err := NewTable(map[string]config.Action{
		"bad":   {Keys: []string{"hyper+x"}},
		"empty": {},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, `action "bad"`)
	assert.ErrorContains(t, err, `action "empty" does nothing`)
}

func TestDispatcher(t *testing.T) {
	scene := host.NewScene()
	w := &mockKeyWriter{}
	p := &mockProfiles{known: map[string]bool{"menu": true}}
	d := NewDispatcher(scene, NewExecutor(w, p))

	table, err := NewTable(map[string]config.Action{
		"confirm": {Keys: []string{"enter"}},
		"menu":    {Activate: "menu"},
	})
	require.NoError(t, err)

	var done []string
	d.OnAction(func(a Action, err error) {
		assert.NoError(t, err)
		done = append(done, a.Name)
	})

	scene.Emit("confirm", nil)
	assert.Empty(t, w.keys, "nothing runs before Bind")

	d.Bind(table)
	scene.Emit("confirm", nil)
	scene.Emit("menu", nil)
	scene.Emit("unmapped", nil)

	assert.Equal(t, []KeyPress{{Key: "enter"}}, w.keys)
	assert.Equal(t, "menu", p.active)
	assert.Equal(t, []string{"confirm", "menu"}, done)

	// Rebinding replaces the listeners instead of stacking them
	d.Bind(table)
	assert.Equal(t, 1, scene.ListenerCount("confirm"))

	d.Close()
	assert.Equal(t, 0, scene.ListenerCount("confirm"))
	assert.False(t, d.Dispatch("confirm"))
}

func TestActionDescribe(t *testing.T) {
	table, err := NewTable(map[string]config.Action{
		"save":  {Keys: []string{"ctrl+s", "Enter"}},
		"greet": {Text: "hi"},
		"menu":  {Activate: "menu"},
	})
	require.NoError(t, err)

	want := map[string]string{
		"save":  "keys ctrl+s enter",
		"greet": `text "hi"`,
		"menu":  "activate menu",
	}
	for name, desc := range want {
		a, _ := table.Lookup(name)
		assert.Equal(t, desc, a.Describe(), name)
	}
}
