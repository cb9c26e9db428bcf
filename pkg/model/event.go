package model

// EventKind identifies a variable event.
type EventKind uint8

const (
	// EventOnSetValue asks the handler to (re)compute and publish the value.
	EventOnSetValue EventKind = iota

	// EventOnUI asks the handler to stage UI metadata (label, comment,
	// options) on the response map.
	EventOnUI

	// EventOnChange signals that the value changed.
	EventOnChange

	// EventOnAdd signals that a table row was added.
	EventOnAdd

	// EventOnDelete signals that a table row is being deleted.
	EventOnDelete

	// EventOnLoop1s is the slow-tick telemetry refresh.
	EventOnLoop1s
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventOnSetValue:
		return "onSetValue"
	case EventOnUI:
		return "onUI"
	case EventOnChange:
		return "onChange"
	case EventOnAdd:
		return "onAdd"
	case EventOnDelete:
		return "onDelete"
	case EventOnLoop1s:
		return "onLoop1s"
	default:
		return "unknown"
	}
}

// Handler is the per-variable event handler. One handler serves all event
// kinds for its variable and returns whether it produced meaningful output.
// Handlers must interact with engine state only via the Variable API.
type Handler func(v *Variable, rowNr uint8, kind EventKind) bool
