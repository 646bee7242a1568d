package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMappings() Mappings {
	return Mappings{
		"default": {
			Keyboard:        {"a_down": "jump", "m_press": "toggleMenu"},
			"vive-controls": {"triggerdown": "paint", "menudown": "toggleMenu"},
		},
		"task1": {
			"vive-controls": {"triggerdown": "selectMenu"},
		},
	}
}

func TestStoreFirstMergeReplaces(t *testing.T) {
	s := NewStore()
	s.Merge(sampleMappings(), false)

	assert.Equal(t, sampleMappings(), s.Snapshot())
	assert.Equal(t, []string{"default", "task1"}, s.Names())
	assert.Equal(t, 2, s.Len())
}

func TestStoreMergeIdempotent(t *testing.T) {
	once := NewStore()
	once.Merge(sampleMappings(), false)

	twice := NewStore()
	twice.Merge(sampleMappings(), false)
	twice.Merge(sampleMappings(), false)

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestStoreMergePrecedence(t *testing.T) {
	s := NewStore()
	s.Merge(sampleMappings(), false)
	s.Merge(Mappings{
		"default": {"vive-controls": {"triggerdown": "erase"}},
	}, false)

	semantic, ok := s.Lookup("default", "vive-controls", "triggerdown")
	require.True(t, ok)
	assert.Equal(t, "erase", semantic)

	// Sibling entries survive a leaf overwrite.
	semantic, ok = s.Lookup("default", "vive-controls", "menudown")
	require.True(t, ok)
	assert.Equal(t, "toggleMenu", semantic)

	semantic, ok = s.Lookup("default", Keyboard, "a_down")
	require.True(t, ok)
	assert.Equal(t, "jump", semantic)
}

func TestStoreMergeAddsProfilesAndDevices(t *testing.T) {
	s := NewStore()
	s.Merge(sampleMappings(), false)
	s.Merge(Mappings{
		"task1":   {Keyboard: {"a_down": "crouch"}},
		"task2":   {"oculus-touch-controls": {"abuttondown": "teleport"}},
		"default": {"oculus-touch-controls": {"xbuttondown": "undo"}},
	}, false)

	assert.Equal(t, []string{"default", "task1", "task2"}, s.Names())

	p, ok := s.Profile("task1")
	require.True(t, ok)
	assert.Equal(t, DeviceMappings{"a_down": "crouch"}, p[Keyboard])
	assert.Equal(t, DeviceMappings{"triggerdown": "selectMenu"}, p["vive-controls"])

	semantic, ok := s.Lookup("default", "oculus-touch-controls", "xbuttondown")
	require.True(t, ok)
	assert.Equal(t, "undo", semantic)
}

func TestStoreOverrideReplaces(t *testing.T) {
	s := NewStore()
	s.Merge(sampleMappings(), false)

	b := Mappings{"other": {Keyboard: {"x_up": "fire"}}}
	s.Merge(b, true)

	assert.Equal(t, b, s.Snapshot())
	assert.False(t, s.Has("default"))
	assert.True(t, s.Has("other"))
}

func TestStoreMergeEmptyIsNoop(t *testing.T) {
	s := NewStore()
	s.Merge(sampleMappings(), false)

	s.Merge(Mappings{}, false)
	s.Merge(nil, false)

	assert.Equal(t, sampleMappings(), s.Snapshot())
}

func TestStoreMergeNilIntoEmpty(t *testing.T) {
	s := NewStore()
	s.Merge(nil, false)

	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Snapshot())
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	input := sampleMappings()
	s := NewStore()
	s.Merge(input, false)

	// Mutating the input or a snapshot must not leak into the store.
	input["default"][Keyboard]["a_down"] = "changed"
	snap := s.Snapshot()
	snap["default"][Keyboard]["a_down"] = "changed"

	semantic, _ := s.Lookup("default", Keyboard, "a_down")
	assert.Equal(t, "jump", semantic)
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore()

	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	other := 0
	s.Subscribe(func() { other++ })

	s.Merge(sampleMappings(), false)
	s.Merge(Mappings{}, false)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, other)

	unsubscribe()
	unsubscribe()
	s.Merge(sampleMappings(), true)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 3, other)
}

func TestStoreSubscriberSeesMergedState(t *testing.T) {
	s := NewStore()

	var seen Mappings
	s.Subscribe(func() { seen = s.Snapshot() })

	s.Merge(sampleMappings(), false)
	assert.Equal(t, sampleMappings(), seen)
}
