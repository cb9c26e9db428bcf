package model

import "github.com/varmodel/varmodel-go/pkg/log"

// TriggerEvent dispatches an event to the variable. Native bindings are
// synchronized from the current value before the handler runs, even when
// no handler is registered. Returns the handler's result, or false if the
// variable has none.
func (v *Variable) TriggerEvent(kind EventKind, rowNr uint8, init bool) bool {
	// A dispatch snapshot may still hold variables a handler has since
	// removed from the tree; their forgotten engine state is not
	// re-created, the event is dropped.
	if _, ok := v.m.states[v.node]; !ok {
		return false
	}
	return v.triggerEvent(kind, rowNr, init)
}

func (v *Variable) triggerEvent(kind EventKind, rowNr uint8, init bool) bool {
	st := v.m.state(v.node)

	// Changes not caused by initialization broadcast to UI clients; the
	// external consumer owns de-duplication.
	if kind == EventOnChange && !init && st.dash {
		v.m.enqueueChanged(v)
	}

	// Native storage reflects the value before the handler observes it.
	if st.slot != nil {
		v.syncSlot(rowNr)
	}

	handled := false
	handler, registered := v.m.handlers[v.Key()]
	switch {
	case registered:
		handled = handler(v, rowNr, kind)
		if handled && !v.ReadOnly() && kind != EventOnSetValue {
			v.auditChange(kind, rowNr)
		}
	case st.hasHandler:
		v.m.logger.Log(log.NewErrorEvent(v.PID(), v.ID(), ErrHandlerNotFound, kind.String()))
	}

	switch kind {
	case EventOnAdd:
		row := rowNr
		v.m.stageResponse(v.Key()).AddedRow = &row

	case EventOnDelete:
		// Erase the row from every bound child column before the row
		// values disappear; handlers above may still have needed them.
		for _, child := range v.Children() {
			if slot := child.Slot(); slot != nil {
				slot.Erase(rowNr)
			}
		}
		row := rowNr
		v.m.stageResponse(v.Key()).DeletedRow = &row

	case EventOnUI:
		// Read-only values are not cached upstream; UI responses must
		// carry the value inline.
		if v.ReadOnly() {
			v.triggerEvent(EventOnSetValue, rowNr, false)
		}
	}

	return handled
}

// auditChange emits the "kind pid.id (old -> new)" audit record when a
// pre-change value is recorded.
func (v *Variable) auditChange(kind EventKind, rowNr uint8) {
	old, ok := v.oldValueFor(rowNr)
	if !ok {
		return
	}

	e := log.NewEvent(log.CategoryChange)
	e.PID = v.PID()
	e.ID = v.ID()
	if rowNr != NoRow {
		row := rowNr
		e.Row = &row
	}
	e.Change = &log.ChangeEvent{
		Kind: kind.String(),
		Old:  renderValue(old),
		New:  v.ValueString(rowNr),
	}
	v.m.logger.Log(e)
}
