package native

import "fmt"

// Slot is the closed interface over one native binding. A slot is created
// once per kind over externally owned storage; the owner keeps using the
// storage directly while the model mirrors values into it.
type Slot interface {
	// Kind returns the element kind of the binding.
	Kind() Kind

	// Write assigns value at rowNr. Scalar slots ignore rowNr. Row slots
	// grow the sequence with unset sentinels until rowNr is valid, then
	// assign; writing without a row number returns ErrNoRow. A value that
	// cannot be converted to the element kind returns ErrUnsupportedKind.
	Write(value any, rowNr uint8) error

	// Erase removes the element at rowNr, shifting later rows down by one.
	// Scalar slots and out-of-range rows are silent no-ops.
	Erase(rowNr uint8)

	// Len returns the current row count; scalar slots report 1.
	Len() int
}

// NoRow mirrors the model's "no specific row" sentinel.
const NoRow uint8 = 255

// scalarSlot binds a single externally owned element.
type scalarSlot[T any] struct {
	kind Kind
	ptr  *T
	conv func(any) (T, bool)
}

func (s *scalarSlot[T]) Kind() Kind { return s.kind }

func (s *scalarSlot[T]) Write(value any, _ uint8) error {
	v, ok := s.conv(value)
	if !ok {
		return fmt.Errorf("%w: cannot store %T in %s slot", ErrUnsupportedKind, value, s.kind)
	}
	*s.ptr = v
	return nil
}

func (s *scalarSlot[T]) Erase(uint8) {}

func (s *scalarSlot[T]) Len() int { return 1 }

// rowSlot binds an externally owned, growable row sequence.
type rowSlot[T any] struct {
	kind  Kind
	rows  *[]T
	unset T
	conv  func(any) (T, bool)
}

func (s *rowSlot[T]) Kind() Kind { return s.kind }

func (s *rowSlot[T]) Write(value any, rowNr uint8) error {
	if rowNr == NoRow {
		return ErrNoRow
	}
	v, ok := s.conv(value)
	if !ok {
		return fmt.Errorf("%w: cannot store %T in %s rows", ErrUnsupportedKind, value, s.kind)
	}
	for int(rowNr) >= len(*s.rows) {
		*s.rows = append(*s.rows, s.unset)
	}
	(*s.rows)[rowNr] = v
	return nil
}

func (s *rowSlot[T]) Erase(rowNr uint8) {
	if int(rowNr) >= len(*s.rows) {
		return
	}
	*s.rows = append((*s.rows)[:rowNr], (*s.rows)[rowNr+1:]...)
}

func (s *rowSlot[T]) Len() int { return len(*s.rows) }

// BindUint8 binds a single uint8 element (select, range, pin).
func BindUint8(p *uint8) Slot {
	return &scalarSlot[uint8]{kind: KindUint8, ptr: p, conv: toUint8}
}

// BindUint8Rows binds a row sequence of uint8 elements.
func BindUint8Rows(p *[]uint8) Slot {
	return &rowSlot[uint8]{kind: KindUint8, rows: p, unset: UnsetUint8, conv: toUint8}
}

// BindUint16 binds a single uint16 element (number).
func BindUint16(p *uint16) Slot {
	return &scalarSlot[uint16]{kind: KindUint16, ptr: p, conv: toUint16}
}

// BindUint16Rows binds a row sequence of uint16 elements.
func BindUint16Rows(p *[]uint16) Slot {
	return &rowSlot[uint16]{kind: KindUint16, rows: p, unset: UnsetUint16, conv: toUint16}
}

// BindTriState binds a single tri-state element (checkbox).
func BindTriState(p *TriState) Slot {
	return &scalarSlot[TriState]{kind: KindTriState, ptr: p, conv: toTriState}
}

// BindTriStateRows binds a row sequence of tri-state elements.
func BindTriStateRows(p *[]TriState) Slot {
	return &rowSlot[TriState]{kind: KindTriState, rows: p, unset: TriUnset, conv: toTriState}
}

// BindText binds a single fixed-capacity text buffer (text, fileEdit).
func BindText(p *Text) Slot {
	return &scalarSlot[Text]{kind: KindText, ptr: p, conv: toText}
}

// BindTextRows binds a row sequence of text buffers.
func BindTextRows(p *[]Text) Slot {
	return &rowSlot[Text]{kind: KindText, rows: p, conv: toText}
}

// BindCoord3D binds a single coordinate element (coord3D).
func BindCoord3D(p *Coord3D) Slot {
	return &scalarSlot[Coord3D]{kind: KindCoord3D, ptr: p, conv: toCoord3D}
}

// BindCoord3DRows binds a row sequence of coordinate elements.
func BindCoord3DRows(p *[]Coord3D) Slot {
	return &rowSlot[Coord3D]{kind: KindCoord3D, rows: p, unset: UnsetCoord3D, conv: toCoord3D}
}

// Value conversions from document values to native elements.

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	default:
		return 0, false
	}
}

func toUint8(value any) (uint8, bool) {
	i, ok := toInt64(value)
	if !ok || i < 0 || i > int64(UnsetUint8) {
		return 0, false
	}
	return uint8(i), true
}

func toUint16(value any) (uint16, bool) {
	i, ok := toInt64(value)
	if !ok || i < 0 || i > int64(UnsetUint16) {
		return 0, false
	}
	return uint16(i), true
}

func toTriState(value any) (TriState, bool) {
	switch v := value.(type) {
	case nil:
		return TriUnset, true
	case bool:
		if v {
			return TriTrue, true
		}
		return TriFalse, true
	case TriState:
		return v, true
	default:
		i, ok := toInt64(value)
		if !ok {
			return TriUnset, false
		}
		return TriState(i), true
	}
}

func toText(value any) (Text, bool) {
	var t Text
	s, ok := value.(string)
	if !ok {
		return t, false
	}
	t.SetString(s)
	return t, true
}

func toCoord3D(value any) (Coord3D, bool) {
	switch v := value.(type) {
	case Coord3D:
		return v, true
	case map[string]any:
		x, okX := toInt64(v["x"])
		y, okY := toInt64(v["y"])
		z, okZ := toInt64(v["z"])
		if !okX || !okY || !okZ {
			return Coord3D{}, false
		}
		return Coord3D{X: int(x), Y: int(y), Z: int(z)}, true
	default:
		return Coord3D{}, false
	}
}
