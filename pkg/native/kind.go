package native

import (
	"errors"
	"math"
	"strings"
)

// Native binding errors. All are soft: callers log and continue, degrading
// only the affected variable.
var (
	// ErrUnsupportedKind indicates a variable type tag with no native
	// representation, or a value that cannot be converted to the slot's
	// element kind. The write is skipped.
	ErrUnsupportedKind = errors.New("unsupported native kind")

	// ErrNoRow indicates a row-indexed write without a concrete row number.
	ErrNoRow = errors.New("row-indexed binding requires a row number")
)

// Kind identifies the native element representation of a binding.
type Kind uint8

const (
	KindUnknown Kind = iota

	// KindUint8 backs select, range, and pin variables.
	KindUint8

	// KindUint16 backs number variables.
	KindUint16

	// KindTriState backs checkbox variables (false/true/unset).
	KindTriState

	// KindText backs text and fileEdit variables (fixed-capacity buffer).
	KindText

	// KindCoord3D backs coord3D variables.
	KindCoord3D
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindTriState:
		return "tristate"
	case KindText:
		return "text"
	case KindCoord3D:
		return "coord3d"
	default:
		return "unknown"
	}
}

// KindForType resolves a variable type tag to its native kind.
// Type tags without native representation (button, progress, ...) resolve
// to KindUnknown, false.
func KindForType(typeTag string) (Kind, bool) {
	switch typeTag {
	case "select", "range", "pin":
		return KindUint8, true
	case "number":
		return KindUint16, true
	case "checkbox":
		return KindTriState, true
	case "text", "fileEdit":
		return KindText, true
	case "coord3D":
		return KindCoord3D, true
	default:
		return KindUnknown, false
	}
}

// Unset sentinels per kind.
const (
	UnsetUint8  uint8  = math.MaxUint8
	UnsetUint16 uint16 = math.MaxUint16
)

// TriState is a three-valued checkbox state.
type TriState uint8

const (
	TriFalse TriState = 0
	TriTrue  TriState = 1
	TriUnset TriState = math.MaxUint8
)

// String returns the tri-state name.
func (t TriState) String() string {
	switch t {
	case TriFalse:
		return "false"
	case TriTrue:
		return "true"
	default:
		return "unset"
	}
}

// TextCapacity is the fixed capacity of a native text buffer, including
// the terminating room a C-style consumer expects.
const TextCapacity = 32

// Text is a fixed-capacity string buffer. Longer strings are truncated on
// assignment.
type Text [TextCapacity]byte

// SetString copies s into the buffer, truncating to the capacity.
func (t *Text) SetString(s string) {
	var zero Text
	*t = zero
	copy(t[:TextCapacity-1], s)
}

// String returns the buffer contents up to the first zero byte.
func (t Text) String() string {
	s := string(t[:])
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}

// Coord3D is a 3-tuple of signed integers, the native representation of
// coord3D variables.
type Coord3D struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// UnsetCoord3D is the unset sentinel for coord3D rows.
var UnsetCoord3D = Coord3D{X: -1, Y: -1, Z: -1}

// Map returns the document form of the coordinate.
func (c Coord3D) Map() map[string]any {
	return map[string]any{"x": int64(c.X), "y": int64(c.Y), "z": int64(c.Z)}
}
