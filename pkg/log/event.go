package log

import "time"

// Event represents an engine log event. CBOR encoding uses integer keys
// for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the engine run that produced the event (UUID).
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// PID is the parent id of the variable the event concerns.
	PID string `cbor:"4,keyasint,omitempty"`

	// ID is the id of the variable the event concerns.
	ID string `cbor:"5,keyasint,omitempty"`

	// Row is the affected row number, if the event is row-scoped.
	Row *uint8 `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (at most one of these is set).
	Change    *ChangeEvent    `cbor:"10,keyasint,omitempty"` // Value mutation audit
	Dispatch  *DispatchEvent  `cbor:"11,keyasint,omitempty"` // Handler dispatch
	Lifecycle *LifecycleEvent `cbor:"12,keyasint,omitempty"` // Mark-sweep / cleanup
	Persist   *PersistEvent   `cbor:"13,keyasint,omitempty"` // Model store activity
	Error     *ErrorEventData `cbor:"14,keyasint,omitempty"` // Soft error conditions
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryChange indicates a value mutation audit record.
	CategoryChange Category = 0

	// CategoryDispatch indicates an event handler dispatch.
	CategoryDispatch Category = 1

	// CategoryLifecycle indicates a lifecycle sweep action.
	CategoryLifecycle Category = 2

	// CategoryPersist indicates model store activity.
	CategoryPersist Category = 3

	// CategoryError indicates a soft error condition.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryChange:
		return "CHANGE"
	case CategoryDispatch:
		return "DISPATCH"
	case CategoryLifecycle:
		return "LIFECYCLE"
	case CategoryPersist:
		return "PERSIST"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ChangeEvent is the audit payload for a value mutation: "kind pid.id
// (old -> new)".
type ChangeEvent struct {
	// Kind is the event kind that caused the mutation (onChange, onUI, ...).
	Kind string `cbor:"1,keyasint"`

	// Old is the string rendering of the pre-change value.
	Old string `cbor:"2,keyasint,omitempty"`

	// New is the string rendering of the post-change value.
	New string `cbor:"3,keyasint"`
}

// DispatchEvent records a handler invocation.
type DispatchEvent struct {
	// Kind is the dispatched event kind.
	Kind string `cbor:"1,keyasint"`

	// Handled is the handler's return value.
	Handled bool `cbor:"2,keyasint"`

	// Init indicates dispatch during variable initialization.
	Init bool `cbor:"3,keyasint,omitempty"`
}

// LifecycleEvent records a mark-sweep or cleanup action.
type LifecycleEvent struct {
	// Action names the lifecycle step (obsolete-removed, row-nulled,
	// confirmed, sweep-start, ...).
	Action string `cbor:"1,keyasint"`

	// Detail carries optional context for the action.
	Detail string `cbor:"2,keyasint,omitempty"`
}

// PersistEvent records model store activity.
type PersistEvent struct {
	// Action is "save" or "load".
	Action string `cbor:"1,keyasint"`

	// Path is the model file path.
	Path string `cbor:"2,keyasint"`

	// Bytes is the serialized size, when known.
	Bytes int `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData records a soft error condition. No engine condition is
// fatal; the affected variable degrades and the engine continues.
type ErrorEventData struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`

	// Context describes what the engine was doing.
	Context string `cbor:"2,keyasint,omitempty"`
}

// NewEvent creates an event of the given category with the current time.
func NewEvent(category Category) Event {
	return Event{Timestamp: time.Now(), Category: category}
}

// NewErrorEvent creates an error event for a variable.
func NewErrorEvent(pid, id string, err error, context string) Event {
	e := NewEvent(CategoryError)
	e.PID = pid
	e.ID = id
	e.Error = &ErrorEventData{Message: err.Error(), Context: context}
	return e
}
