package native

import (
	"errors"
	"reflect"
	"testing"
)

func TestKindForType(t *testing.T) {
	tests := []struct {
		typeTag string
		kind    Kind
		ok      bool
	}{
		{"select", KindUint8, true},
		{"range", KindUint8, true},
		{"pin", KindUint8, true},
		{"number", KindUint16, true},
		{"checkbox", KindTriState, true},
		{"text", KindText, true},
		{"fileEdit", KindText, true},
		{"coord3D", KindCoord3D, true},
		{"button", KindUnknown, false},
		{"progress", KindUnknown, false},
		{"group", KindUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.typeTag, func(t *testing.T) {
			kind, ok := KindForType(tt.typeTag)
			if kind != tt.kind || ok != tt.ok {
				t.Errorf("KindForType(%q) = %v, %v; want %v, %v", tt.typeTag, kind, ok, tt.kind, tt.ok)
			}
		})
	}
}

func TestScalarSlot(t *testing.T) {
	t.Run("Uint8", func(t *testing.T) {
		var effect uint8
		slot := BindUint8(&effect)
		if slot.Kind() != KindUint8 {
			t.Errorf("Kind() = %v", slot.Kind())
		}
		if err := slot.Write(int64(3), NoRow); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if effect != 3 {
			t.Errorf("effect = %d, want 3", effect)
		}
		if slot.Len() != 1 {
			t.Errorf("Len() = %d, want 1", slot.Len())
		}
	})

	t.Run("RejectsOutOfRange", func(t *testing.T) {
		var b uint8
		slot := BindUint8(&b)
		if err := slot.Write(int64(300), NoRow); !errors.Is(err, ErrUnsupportedKind) {
			t.Errorf("Write(300) error = %v, want ErrUnsupportedKind", err)
		}
		if err := slot.Write("nope", NoRow); !errors.Is(err, ErrUnsupportedKind) {
			t.Errorf("Write(string) error = %v, want ErrUnsupportedKind", err)
		}
	})

	t.Run("EraseIsNoop", func(t *testing.T) {
		level := uint16(7)
		slot := BindUint16(&level)
		slot.Erase(0)
		if level != 7 {
			t.Errorf("Erase changed scalar value to %d", level)
		}
	})
}

func TestRowSlot(t *testing.T) {
	t.Run("GrowsWithUnsetSentinels", func(t *testing.T) {
		var levels []uint16
		slot := BindUint16Rows(&levels)
		if err := slot.Write(int64(42), 2); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		want := []uint16{UnsetUint16, UnsetUint16, 42}
		if !reflect.DeepEqual(levels, want) {
			t.Errorf("levels = %v, want %v", levels, want)
		}
		if slot.Len() != 3 {
			t.Errorf("Len() = %d, want 3", slot.Len())
		}
	})

	t.Run("RequiresRow", func(t *testing.T) {
		var levels []uint16
		slot := BindUint16Rows(&levels)
		if err := slot.Write(int64(1), NoRow); !errors.Is(err, ErrNoRow) {
			t.Errorf("Write(NoRow) error = %v, want ErrNoRow", err)
		}
	})

	t.Run("EraseShiftsDown", func(t *testing.T) {
		pins := []uint8{10, 20, 30}
		slot := BindUint8Rows(&pins)
		slot.Erase(1)
		want := []uint8{10, 30}
		if !reflect.DeepEqual(pins, want) {
			t.Errorf("pins = %v, want %v", pins, want)
		}
	})

	t.Run("EraseOutOfRange", func(t *testing.T) {
		pins := []uint8{10}
		slot := BindUint8Rows(&pins)
		slot.Erase(5)
		if len(pins) != 1 {
			t.Errorf("out-of-range erase changed length to %d", len(pins))
		}
	})
}

func TestTriState(t *testing.T) {
	var ts TriState
	slot := BindTriState(&ts)

	tests := []struct {
		name  string
		value any
		want  TriState
	}{
		{"True", true, TriTrue},
		{"False", false, TriFalse},
		{"Nil", nil, TriUnset},
		{"Int", int64(1), TriTrue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := slot.Write(tt.value, NoRow); err != nil {
				t.Fatalf("Write(%v) error = %v", tt.value, err)
			}
			if ts != tt.want {
				t.Errorf("state = %v, want %v", ts, tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		var txt Text
		txt.SetString("kitchen")
		if txt.String() != "kitchen" {
			t.Errorf("String() = %q", txt.String())
		}
	})

	t.Run("Truncates", func(t *testing.T) {
		var txt Text
		long := "a long name that exceeds the native text capacity"
		txt.SetString(long)
		got := txt.String()
		if len(got) != TextCapacity-1 {
			t.Errorf("len = %d, want %d", len(got), TextCapacity-1)
		}
		if got != long[:TextCapacity-1] {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("Reassign", func(t *testing.T) {
		var txt Text
		txt.SetString("longer name")
		txt.SetString("ab")
		if txt.String() != "ab" {
			t.Errorf("String() = %q, want stale bytes cleared", txt.String())
		}
	})

	t.Run("SlotRejectsNonString", func(t *testing.T) {
		var txt Text
		slot := BindText(&txt)
		if err := slot.Write(int64(5), NoRow); !errors.Is(err, ErrUnsupportedKind) {
			t.Errorf("Write(int) error = %v, want ErrUnsupportedKind", err)
		}
	})
}

func TestCoord3D(t *testing.T) {
	t.Run("FromMap", func(t *testing.T) {
		var c Coord3D
		slot := BindCoord3D(&c)
		err := slot.Write(map[string]any{"x": int64(1), "y": int64(2), "z": int64(3)}, NoRow)
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if c != (Coord3D{X: 1, Y: 2, Z: 3}) {
			t.Errorf("coord = %+v", c)
		}
	})

	t.Run("IncompleteMap", func(t *testing.T) {
		var c Coord3D
		slot := BindCoord3D(&c)
		err := slot.Write(map[string]any{"x": int64(1)}, NoRow)
		if !errors.Is(err, ErrUnsupportedKind) {
			t.Errorf("Write() error = %v, want ErrUnsupportedKind", err)
		}
	})

	t.Run("MapForm", func(t *testing.T) {
		c := Coord3D{X: 4, Y: 5, Z: 6}
		want := map[string]any{"x": int64(4), "y": int64(5), "z": int64(6)}
		if !reflect.DeepEqual(c.Map(), want) {
			t.Errorf("Map() = %v, want %v", c.Map(), want)
		}
	})

	t.Run("RowsUseUnsetSentinel", func(t *testing.T) {
		var coords []Coord3D
		slot := BindCoord3DRows(&coords)
		if err := slot.Write(Coord3D{X: 9}, 1); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if coords[0] != UnsetCoord3D {
			t.Errorf("row 0 = %+v, want unset sentinel", coords[0])
		}
	})
}
