package model

import (
	"testing"

	"github.com/varmodel/varmodel-go/pkg/document"
	"github.com/varmodel/varmodel-go/pkg/log"
)

// captureLogger records every event for assertions.
type captureLogger struct {
	events []log.Event
}

func (c *captureLogger) Log(e log.Event) {
	c.events = append(c.events, e)
}

func (c *captureLogger) byCategory(cat log.Category) []log.Event {
	var out []log.Event
	for _, e := range c.events {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

func (c *captureLogger) reset() {
	c.events = nil
}

func TestDeclare(t *testing.T) {
	t.Run("CreatesNode", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "lights", Type: "group"})
		if v == nil {
			t.Fatal("Declare returned nil")
		}
		if v.ID() != "lights" || v.Type() != "group" {
			t.Errorf("id=%q type=%q", v.ID(), v.Type())
		}
		if len(m.Root()) != 1 {
			t.Errorf("root has %d nodes, want 1", len(m.Root()))
		}
		if v.LifecycleState() != StatePending {
			t.Errorf("state = %v, want pending", v.LifecycleState())
		}
	})

	t.Run("ChildGetsPid", func(t *testing.T) {
		m := New(nil)
		parent := m.Declare(nil, Declaration{ID: "lights", Type: "group"})
		child := m.Declare(parent, Declaration{ID: "effect", Type: "select"})
		if child.PID() != "lights" {
			t.Errorf("pid = %q, want lights", child.PID())
		}
		if child.Key() != "lights.effect" {
			t.Errorf("key = %q", child.Key())
		}
		if len(parent.Children()) != 1 {
			t.Errorf("parent has %d children", len(parent.Children()))
		}
	})

	t.Run("OrdinalsFollowDeclarationOrder", func(t *testing.T) {
		m := New(nil)
		a := m.Declare(nil, Declaration{ID: "a", Type: "group"})
		b := m.Declare(nil, Declaration{ID: "b", Type: "group"})
		if a.Ordinal() != 0 || b.Ordinal() != 1 {
			t.Errorf("ordinals = %d, %d; want 0, 1", a.Ordinal(), b.Ordinal())
		}
	})

	t.Run("RedeclareConfirmsPending", func(t *testing.T) {
		m := New(nil)
		m.Declare(nil, Declaration{ID: "a", Type: "group"})
		v := m.Declare(nil, Declaration{ID: "a", Type: "group"})
		if v.LifecycleState() != StateConfirmed {
			t.Errorf("state = %v, want confirmed", v.LifecycleState())
		}
		if len(m.Root()) != 1 {
			t.Errorf("re-declare duplicated the node: %d", len(m.Root()))
		}
	})

	t.Run("DefaultValueOnlyWhenAbsent", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "level", Type: "number", Value: 10})
		if v.Value(NoRow) != int64(10) {
			t.Errorf("value = %v, want 10", v.Value(NoRow))
		}

		v.SetValue(42, NoRow)
		v = m.Declare(nil, Declaration{ID: "level", Type: "number", Value: 10})
		if v.Value(NoRow) != int64(42) {
			t.Errorf("re-declare overwrote value: %v", v.Value(NoRow))
		}
	})

	t.Run("LoadedValueSyncsBindingAndHandler", func(t *testing.T) {
		node := document.NewNode()
		node.Set("id", "level")
		node.Set("type", "number")
		node.Set("value", 33)

		m := New(nil)
		m.SetRoot([]*document.Node{node})

		var fired bool
		v := m.Declare(nil, Declaration{
			ID:   "level",
			Type: "number",
			Handler: func(v *Variable, rowNr uint8, kind EventKind) bool {
				fired = kind == EventOnChange
				return true
			},
		})
		if !fired {
			t.Error("onChange not dispatched for value loaded from file")
		}
		if v.Value(NoRow) != int64(33) {
			t.Errorf("value = %v, want 33", v.Value(NoRow))
		}
	})

	t.Run("ReadOnlyRecomputed", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "uptime", Type: "text", ReadOnly: true})
		if !v.ReadOnly() {
			t.Error("ReadOnly() = false")
		}
		v = m.Declare(nil, Declaration{ID: "uptime", Type: "text"})
		if v.ReadOnly() {
			t.Error("ro flag survived a writable re-declaration")
		}
	})
}

func TestFind(t *testing.T) {
	m := New(nil)
	lights := m.Declare(nil, Declaration{ID: "lights", Type: "group"})
	m.Declare(lights, Declaration{ID: "effect", Type: "select", Value: 2})
	sound := m.Declare(nil, Declaration{ID: "sound", Type: "group"})
	m.Declare(sound, Declaration{ID: "effect", Type: "select", Value: 5})

	t.Run("ByIDPid", func(t *testing.T) {
		v := m.FindByIDPid("sound", "effect")
		if v == nil {
			t.Fatal("not found")
		}
		if v.Value(NoRow) != int64(5) {
			t.Errorf("found wrong variable: value %v", v.Value(NoRow))
		}
		if m.FindByIDPid("nope", "effect") != nil {
			t.Error("expected nil for unknown pid")
		}
	})

	t.Run("AllMatching", func(t *testing.T) {
		vars := m.FindAllMatching("id", "effect")
		if len(vars) != 2 {
			t.Errorf("matched %d variables, want 2", len(vars))
		}
	})

	t.Run("GetValue", func(t *testing.T) {
		if got := m.GetValue("lights", "effect"); got != int64(2) {
			t.Errorf("GetValue = %v, want 2", got)
		}
		if m.GetValue("lights", "missing") != nil {
			t.Error("GetValue for unknown variable should be nil")
		}
	})

	t.Run("WalkOrder", func(t *testing.T) {
		var keys []string
		m.Walk(func(v *Variable) bool {
			keys = append(keys, v.Key())
			return false
		})
		want := []string{".lights", "lights.effect", ".sound", "sound.effect"}
		if len(keys) != len(want) {
			t.Fatalf("visited %v", keys)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
			}
		}
	})

	t.Run("AllMatchingSequenceValue", func(t *testing.T) {
		levels := m.Declare(lights, Declaration{ID: "levels", Type: "number"})
		levels.SetValue([]any{10, 20}, NoRow)

		vars := m.FindAllMatching("value", []any{10, 20})
		if len(vars) != 1 || vars[0].ID() != "levels" {
			t.Fatalf("matched %d variables, want the row-valued one", len(vars))
		}
		if len(m.FindAllMatching("value", []any{10, 99})) != 0 {
			t.Error("matched a sequence with different elements")
		}
	})
}

func TestChangedQueue(t *testing.T) {
	m := New(nil)
	v := m.Declare(nil, Declaration{ID: "level", Type: "number", Value: 1, Dash: true})

	t.Run("InitDoesNotBroadcast", func(t *testing.T) {
		if got := m.ChangedVariables(); len(got) != 0 {
			t.Errorf("default value enqueued %d changes", len(got))
		}
	})

	t.Run("ChangeBroadcasts", func(t *testing.T) {
		v.SetValue(2, NoRow)
		changed := m.ChangedVariables()
		if len(changed) != 1 || changed[0].ID() != "level" {
			t.Fatalf("changed = %v", changed)
		}
		if got := m.ChangedVariables(); len(got) != 0 {
			t.Errorf("drain did not reset the queue: %d", len(got))
		}
	})

	t.Run("EqualWriteSkipped", func(t *testing.T) {
		v.SetValue(2, NoRow)
		if got := m.ChangedVariables(); len(got) != 0 {
			t.Errorf("unchanged write enqueued %d changes", len(got))
		}
	})

	t.Run("NonDashStaysQuiet", func(t *testing.T) {
		quiet := m.Declare(nil, Declaration{ID: "quiet", Type: "number"})
		quiet.SetValue(9, NoRow)
		if got := m.ChangedVariables(); len(got) != 0 {
			t.Errorf("non-dash change enqueued %d changes", len(got))
		}
	})
}

func TestResponses(t *testing.T) {
	m := New(nil)
	v := m.Declare(nil, Declaration{ID: "effect", Type: "select"})

	v.SetLabel("Effect")
	v.SetComment("Active output effect")

	r := m.StagedResponse(v.Key())
	if r == nil {
		t.Fatal("nothing staged")
	}
	if r.Label != "Effect" || r.Comment != "Active output effect" {
		t.Errorf("staged = %+v", r)
	}

	drained := m.DrainResponses()
	if len(drained) != 1 {
		t.Errorf("drained %d responses, want 1", len(drained))
	}
	if m.StagedResponse(v.Key()) != nil {
		t.Error("drain did not reset the staging map")
	}
}

func TestSetRootResetsState(t *testing.T) {
	m := New(nil)
	m.Declare(nil, Declaration{ID: "a", Type: "group"})

	node := document.NewNode()
	node.Set("id", "b")
	m.SetRoot([]*document.Node{node})

	v := m.Variable(node)
	if v.LifecycleState() != StateNone {
		t.Errorf("loaded node state = %v, want none", v.LifecycleState())
	}

	fresh := m.Declare(nil, Declaration{ID: "c", Type: "group"})
	if fresh.Ordinal() != 0 {
		t.Errorf("ordinal counter not reset: %d", fresh.Ordinal())
	}
}
