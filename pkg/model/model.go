package model

import (
	"errors"
	"sync"

	"github.com/varmodel/varmodel-go/pkg/document"
	"github.com/varmodel/varmodel-go/pkg/log"
	"github.com/varmodel/varmodel-go/pkg/native"
)

// NoRow is the reserved row sentinel: "no specific row / default".
// It is never a real row; real rows are 0-254.
const NoRow uint8 = 255

// Engine errors. All are soft conditions: the affected variable degrades
// and the engine continues.
var (
	// ErrMissingRow indicates a rowed read past the value sequence length.
	ErrMissingRow = errors.New("missing row")

	// ErrHandlerNotFound indicates a variable that claims a handler which
	// is no longer registered.
	ErrHandlerNotFound = errors.New("handler not found")

	// ErrOptionNotFound indicates an option code without a matching leaf.
	ErrOptionNotFound = errors.New("option not found")
)

// State is the lifecycle reconfirmation state of a variable.
type State uint8

const (
	// StateNone means never declared this boot (e.g. loaded from file).
	StateNone State = iota

	// StatePending means marked for reconfirmation and not yet re-declared.
	StatePending

	// StateConfirmed means declared or re-declared this pass.
	StateConfirmed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	default:
		return "none"
	}
}

// varState is the engine-owned state of one variable. It is deliberately
// kept outside the document fields so it is never persisted.
type varState struct {
	ordinal    uint16
	state      State
	slot       native.Slot
	oldValue   any // scalar, or []any per row if tabular
	dash       bool
	hasHandler bool
}

// Model owns one variable tree plus the per-variable engine state, the
// handler registry, the change-notification queue, and the response
// staging map.
type Model struct {
	logger log.Logger

	root   []*document.Node
	states map[*document.Node]*varState

	// handlers maps "pid.id" to the variable's event handler.
	handlers map[string]Handler

	// nextOrdinal is the declaration counter for this boot.
	nextOrdinal uint16

	// currentRow is the ambient row context consulted by Value(NoRow).
	currentRow uint8

	// mu guards the surfaces drained by external tasks.
	mu        sync.Mutex
	changed   []*Variable
	responses map[string]*Response
}

// New creates an empty model. A nil logger disables logging.
func New(logger log.Logger) *Model {
	return &Model{
		logger:     log.OrNoop(logger),
		states:     make(map[*document.Node]*varState),
		handlers:   make(map[string]Handler),
		currentRow: NoRow,
		responses:  make(map[string]*Response),
	}
}

// Root returns the top-level node sequence.
func (m *Model) Root() []*document.Node {
	return m.root
}

// SetRoot replaces the tree, e.g. with the sequence loaded from the model
// store. All engine state (ordinals, bindings, handlers) is reset; loaded
// nodes are StateNone until re-declared.
func (m *Model) SetRoot(nodes []*document.Node) {
	m.root = nodes
	m.states = make(map[*document.Node]*varState)
	m.handlers = make(map[string]Handler)
	m.nextOrdinal = 0
}

// Declaration describes a variable a module declares during its setup pass.
type Declaration struct {
	// ID is the variable id, unique below its parent.
	ID string

	// Type is the variable type tag (select, number, text, ...). It
	// determines the native representation.
	Type string

	// Value is the default value, applied only when the node has no value
	// yet (e.g. on first boot, before a model file exists).
	Value any

	// ReadOnly marks the variable as not user-writable. Recomputed every
	// declaration, never persisted with a value.
	ReadOnly bool

	// Dash enables change broadcast to UI clients.
	Dash bool

	// Handler is the per-variable event handler, or nil.
	Handler Handler

	// Slot is the native binding, or nil.
	Slot native.Slot
}

// Declare creates or reconfirms a variable below parent (nil parent means
// top level). Re-declaring a pending child confirms it; this is the
// "confirm" half of the per-parent reconfirmation protocol.
func (m *Model) Declare(parent *Variable, d Declaration) *Variable {
	pid := ""
	if parent != nil {
		pid = parent.ID()
	}

	created := false
	v := m.FindByIDPid(pid, d.ID)
	if v == nil {
		node := document.NewNode()
		node.Set("id", d.ID)
		if pid != "" {
			node.Set("pid", pid)
		}
		if parent != nil {
			parent.node.AddChild(node)
		} else {
			m.root = append(m.root, node)
		}
		v = &Variable{m: m, node: node}
		created = true
	}

	v.node.Set("type", d.Type)
	if d.ReadOnly {
		v.node.Set("ro", true)
	} else {
		v.node.Remove("ro")
	}

	st := m.state(v.node)
	switch st.state {
	case StatePending:
		st.state = StateConfirmed
	case StateNone:
		st.ordinal = m.nextOrdinal
		m.nextOrdinal++
		st.state = StatePending
		// A variable created below an already-confirmed parent is declared
		// after setup (e.g. during a reconfiguration pass); it skips the
		// pending phase so the pass does not prune it again.
		if created && parent != nil && m.state(parent.node).state == StateConfirmed {
			st.state = StateConfirmed
		}
	}
	st.dash = d.Dash

	if d.Handler != nil {
		m.handlers[v.Key()] = d.Handler
		st.hasHandler = true
	}
	if d.Slot != nil {
		v.Bind(d.Slot)
	}

	if !v.node.Has("value") {
		if d.Value != nil {
			v.setValue(d.Value, NoRow, true)
		}
	} else {
		// Value survived from the model file: sync binding and handler.
		v.triggerEvent(EventOnChange, NoRow, true)
	}

	return v
}

// state returns the engine state for a node, creating it (StateNone) on
// first access.
func (m *Model) state(node *document.Node) *varState {
	st, ok := m.states[node]
	if !ok {
		st = &varState{}
		m.states[node] = st
	}
	return st
}

// Variable wraps a raw node in a handle bound to this model.
func (m *Model) Variable(node *document.Node) *Variable {
	if node == nil {
		return nil
	}
	return &Variable{m: m, node: node}
}

// Walk traverses every variable depth-first in pre-order, stopping early
// if visit returns true. It reports whether the traversal stopped.
func (m *Model) Walk(visit func(v *Variable) bool) bool {
	return document.Walk(m.root, func(n *document.Node) bool {
		return visit(&Variable{m: m, node: n})
	})
}

// FindByIDPid returns the first variable matching (pid, id), depth-first,
// or nil.
func (m *Model) FindByIDPid(pid, id string) *Variable {
	node := document.Find(m.root, func(n *document.Node) bool {
		return n.String("id") == id && n.String("pid") == pid
	})
	return m.Variable(node)
}

// FindAllMatching returns every variable whose field equals value,
// depth-first, without early stop. Sequence and mapping values compare
// element-wise.
func (m *Model) FindAllMatching(field string, value any) []*Variable {
	want := document.Normalize(value)
	nodes := document.FindAll(m.root, func(n *document.Node) bool {
		return valueEqual(n.Get(field), want)
	})
	vars := make([]*Variable, len(nodes))
	for i, n := range nodes {
		vars[i] = m.Variable(n)
	}
	return vars
}

// GetValue is a convenience lookup: the value of variable (pid, id), or
// nil if the variable does not exist.
func (m *Model) GetValue(pid, id string) any {
	v := m.FindByIDPid(pid, id)
	if v == nil {
		return nil
	}
	return v.Value(NoRow)
}

// SetCurrentRow sets the ambient row context consulted by Value(NoRow).
func (m *Model) SetCurrentRow(rowNr uint8) {
	m.currentRow = rowNr
}

// ClearCurrentRow resets the ambient row context.
func (m *Model) ClearCurrentRow() {
	m.currentRow = NoRow
}

// enqueueChanged appends a variable to the change-notification queue.
func (m *Model) enqueueChanged(v *Variable) {
	m.mu.Lock()
	m.changed = append(m.changed, v)
	m.mu.Unlock()
}

// ChangedVariables drains the change-notification queue. The external
// consumer owns de-duplication and broadcast.
func (m *Model) ChangedVariables() []*Variable {
	m.mu.Lock()
	defer m.mu.Unlock()
	changed := m.changed
	m.changed = nil
	return changed
}
