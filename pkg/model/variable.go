package model

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/varmodel/varmodel-go/pkg/document"
	"github.com/varmodel/varmodel-go/pkg/log"
	"github.com/varmodel/varmodel-go/pkg/native"
)

// Variable is a typed handle over one node of the model tree.
type Variable struct {
	m    *Model
	node *document.Node
}

// Node returns the underlying document node.
func (v *Variable) Node() *document.Node {
	return v.node
}

// ID returns the variable id.
func (v *Variable) ID() string {
	return v.node.String("id")
}

// PID returns the logical parent id.
func (v *Variable) PID() string {
	return v.node.String("pid")
}

// Key returns the tree-wide identity "pid.id" used by the handler registry
// and the response staging map.
func (v *Variable) Key() string {
	return v.PID() + "." + v.ID()
}

// Type returns the variable type tag.
func (v *Variable) Type() string {
	return v.node.String("type")
}

// ReadOnly reports whether the variable is user-writable.
func (v *Variable) ReadOnly() bool {
	return v.node.Bool("ro")
}

// Dash reports whether changes broadcast to UI clients.
func (v *Variable) Dash() bool {
	return v.m.state(v.node).dash
}

// Ordinal returns the declaration ordinal assigned this boot.
func (v *Variable) Ordinal() uint16 {
	return v.m.state(v.node).ordinal
}

// LifecycleState returns the reconfirmation state.
func (v *Variable) LifecycleState() State {
	return v.m.state(v.node).state
}

// Children returns the child variables in declaration order.
func (v *Variable) Children() []*Variable {
	children := make([]*Variable, len(v.node.Children))
	for i, n := range v.node.Children {
		children[i] = &Variable{m: v.m, node: n}
	}
	return children
}

// Value returns the value for a row. If the stored value is not a
// sequence, rowNr is ignored. For sequences, NoRow resolves to the ambient
// current row, or element 0 if none. Reading past the sequence length is
// the MissingRow condition: logged, returns nil.
func (v *Variable) Value(rowNr uint8) any {
	raw := v.node.Get("value")
	seq, ok := raw.([]any)
	if !ok {
		return raw
	}

	if rowNr == NoRow {
		rowNr = v.m.currentRow
	}
	if rowNr == NoRow {
		rowNr = 0
	}
	if int(rowNr) < len(seq) {
		return seq[rowNr]
	}

	row := rowNr
	e := log.NewErrorEvent(v.PID(), v.ID(), ErrMissingRow, "value read")
	e.Row = &row
	v.m.logger.Log(e)
	return nil
}

// ValueString renders the value for a row as a string. Nil renders empty;
// composites render as compact JSON.
func (v *Variable) ValueString(rowNr uint8) string {
	return renderValue(v.Value(rowNr))
}

// SetValue sets the value for a row and dispatches onChange when it
// changed. NoRow writes the scalar value. A concrete rowNr always widens
// the sequence (filling gaps with null) before writing. A composite value
// fans out across rows starting at 0, recursively.
func (v *Variable) SetValue(value any, rowNr uint8) {
	v.setValue(value, rowNr, false)
}

// SetValuef sets a formatted string value (no specific row).
func (v *Variable) SetValuef(format string, args ...any) {
	v.setValue(fmt.Sprintf(format, args...), NoRow, false)
}

func (v *Variable) setValue(value any, rowNr uint8, init bool) {
	value = document.Normalize(value)

	if seq, ok := value.([]any); ok {
		for i, el := range seq {
			v.setValue(el, uint8(i), init)
		}
		return
	}

	st := v.m.state(v.node)

	if rowNr == NoRow {
		old := v.node.Get("value")
		if v.node.Has("value") && valueEqual(old, value) && !init {
			return
		}
		st.oldValue = old
		v.node.Set("value", value)
		v.triggerEvent(EventOnChange, NoRow, init)
		return
	}

	seq, _ := v.node.Get("value").([]any)
	for int(rowNr) >= len(seq) {
		seq = append(seq, nil)
	}

	old := seq[rowNr]
	changed := !valueEqual(old, value)
	seq[rowNr] = value
	v.node.Set("value", seq)

	oldRows, _ := st.oldValue.([]any)
	for int(rowNr) >= len(oldRows) {
		oldRows = append(oldRows, nil)
	}
	oldRows[rowNr] = old
	st.oldValue = oldRows

	if changed || init {
		v.triggerEvent(EventOnChange, rowNr, init)
	}
}

// Bind attaches a native binding. The slot's element kind must match the
// variable's type tag; a mismatch (or a type without native
// representation) is the UnsupportedNativeType condition: logged, binding
// refused.
func (v *Variable) Bind(slot native.Slot) {
	kind, ok := native.KindForType(v.Type())
	if !ok || kind != slot.Kind() {
		v.m.logger.Log(log.NewErrorEvent(v.PID(), v.ID(), native.ErrUnsupportedKind,
			fmt.Sprintf("bind %s to type %q", slot.Kind(), v.Type())))
		return
	}
	v.m.state(v.node).slot = slot
	v.syncSlot(NoRow)
}

// Slot returns the native binding, or nil.
func (v *Variable) Slot() native.Slot {
	return v.m.state(v.node).slot
}

// syncSlot mirrors the current value into the native binding. Row-valued
// variables sync the given row, or every row when rowNr is NoRow.
func (v *Variable) syncSlot(rowNr uint8) {
	st := v.m.state(v.node)
	if st.slot == nil {
		return
	}

	raw := v.node.Get("value")
	if !v.node.Has("value") {
		return
	}

	seq, isSeq := raw.([]any)
	if !isSeq {
		if err := st.slot.Write(raw, rowNr); err != nil {
			v.m.logger.Log(log.NewErrorEvent(v.PID(), v.ID(), err, "native sync"))
		}
		return
	}

	if rowNr != NoRow {
		if int(rowNr) < len(seq) {
			if err := st.slot.Write(seq[rowNr], rowNr); err != nil {
				v.m.logger.Log(log.NewErrorEvent(v.PID(), v.ID(), err, "native sync"))
			}
		}
		return
	}
	for i, el := range seq {
		if err := st.slot.Write(el, uint8(i)); err != nil {
			v.m.logger.Log(log.NewErrorEvent(v.PID(), v.ID(), err, "native sync"))
		}
	}
}

// oldValueFor returns the recorded pre-change value for a row and whether
// one is present.
func (v *Variable) oldValueFor(rowNr uint8) (any, bool) {
	st := v.m.state(v.node)
	if rowNr != NoRow {
		if rows, ok := st.oldValue.([]any); ok {
			if int(rowNr) < len(rows) && rows[rowNr] != nil {
				return rows[rowNr], true
			}
			return nil, false
		}
	}
	if st.oldValue != nil {
		return st.oldValue, true
	}
	return nil, false
}

// valueEqual compares two normalized document values.
func valueEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// renderValue renders a document value as a string.
func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}
