package host

import (
	"testing"
)

func TestSceneEmit(t *testing.T) {
	s := NewScene()

	var got []Event
	s.AddEventListener("paint", func(ev Event) {
		got = append(got, ev)
	})

	s.Emit("paint", 42)
	s.Emit("other", nil)

	if len(got) != 1 {
		t.Fatalf("received %d events, want 1", len(got))
	}
	if got[0].Detail != 42 {
		t.Errorf("Detail = %v, want 42", got[0].Detail)
	}
	if got[0].Target != nil {
		t.Errorf("Target = %v, want nil for scene events", got[0].Target)
	}
}

func TestEntityEmitBubbles(t *testing.T) {
	s := NewScene()
	hand := s.NewEntity("right-hand")

	var order []string
	hand.AddEventListener("triggerdown", func(ev Event) {
		order = append(order, "entity")
	})
	s.AddEventListener("triggerdown", func(ev Event) {
		order = append(order, "scene")
		if ev.Target != hand {
			t.Errorf("Target = %v, want right-hand", ev.Target)
		}
	})

	hand.Emit("triggerdown", nil)

	if len(order) != 2 || order[0] != "entity" || order[1] != "scene" {
		t.Errorf("delivery order = %v, want [entity scene]", order)
	}
}

func TestRemoveEventListener(t *testing.T) {
	s := NewScene()

	calls := 0
	id := s.AddEventListener("x", func(Event) { calls++ })
	s.AddEventListener("x", func(Event) { calls++ })

	if n := s.ListenerCount("x"); n != 2 {
		t.Fatalf("ListenerCount = %d, want 2", n)
	}

	if !s.RemoveEventListener("x", id) {
		t.Error("RemoveEventListener() = false, want true")
	}
	if s.RemoveEventListener("x", id) {
		t.Error("second RemoveEventListener() = true, want false")
	}
	if s.RemoveEventListener("y", id) {
		t.Error("RemoveEventListener() on unknown name = true, want false")
	}

	s.Emit("x", nil)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestListenerMayRemoveItselfDuringDispatch(t *testing.T) {
	s := NewScene()

	calls := 0
	var id ListenerID
	id = s.AddEventListener("once", func(Event) {
		calls++
		s.RemoveEventListener("once", id)
	})

	s.Emit("once", nil)
	s.Emit("once", nil)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := s.ListenerCount("once"); n != 0 {
		t.Errorf("ListenerCount = %d, want 0", n)
	}
}
