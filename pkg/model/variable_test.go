package model

import (
	"reflect"
	"testing"

	"github.com/varmodel/varmodel-go/pkg/log"
	"github.com/varmodel/varmodel-go/pkg/native"
)

func TestValue(t *testing.T) {
	t.Run("ScalarIgnoresRow", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "level", Type: "number", Value: 7})
		if v.Value(3) != int64(7) {
			t.Errorf("Value(3) = %v, want 7", v.Value(3))
		}
	})

	t.Run("RowedRead", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "levels", Type: "number"})
		v.SetValue([]any{10, 20, 30}, NoRow)
		if v.Value(1) != int64(20) {
			t.Errorf("Value(1) = %v, want 20", v.Value(1))
		}
	})

	t.Run("NoRowFallsBackToFirst", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "levels", Type: "number"})
		v.SetValue([]any{10, 20}, NoRow)
		if v.Value(NoRow) != int64(10) {
			t.Errorf("Value(NoRow) = %v, want 10", v.Value(NoRow))
		}
	})

	t.Run("NoRowUsesCurrentRow", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "levels", Type: "number"})
		v.SetValue([]any{10, 20}, NoRow)
		m.SetCurrentRow(1)
		defer m.ClearCurrentRow()
		if v.Value(NoRow) != int64(20) {
			t.Errorf("Value(NoRow) = %v, want 20 via current row", v.Value(NoRow))
		}
	})

	t.Run("MissingRow", func(t *testing.T) {
		logger := &captureLogger{}
		m := New(logger)
		v := m.Declare(nil, Declaration{ID: "levels", Type: "number"})
		v.SetValue([]any{10}, NoRow)

		logger.reset()
		if got := v.Value(5); got != nil {
			t.Errorf("Value(5) = %v, want nil", got)
		}
		errs := logger.byCategory(log.CategoryError)
		if len(errs) != 1 {
			t.Fatalf("logged %d error events, want 1", len(errs))
		}
		if errs[0].Row == nil || *errs[0].Row != 5 {
			t.Errorf("error event row = %v", errs[0].Row)
		}
		if errs[0].Error.Message != ErrMissingRow.Error() {
			t.Errorf("error message = %q", errs[0].Error.Message)
		}
	})
}

func TestSetValue(t *testing.T) {
	t.Run("RowWriteWidensWithNull", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "levels", Type: "number"})
		v.SetValue(42, 2)
		seq, ok := v.Node().Get("value").([]any)
		if !ok {
			t.Fatalf("value is %T, want sequence", v.Node().Get("value"))
		}
		want := []any{nil, nil, int64(42)}
		if !reflect.DeepEqual(seq, want) {
			t.Errorf("value = %v, want %v", seq, want)
		}
	})

	t.Run("CompositeFansOut", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "levels", Type: "number"})
		v.SetValue([]any{1, 2, 3}, NoRow)
		seq, _ := v.Node().Get("value").([]any)
		want := []any{int64(1), int64(2), int64(3)}
		if !reflect.DeepEqual(seq, want) {
			t.Errorf("value = %v, want %v", seq, want)
		}
	})

	t.Run("RowChangeDispatchesPerRow", func(t *testing.T) {
		m := New(nil)
		var rows []uint8
		v := m.Declare(nil, Declaration{
			ID:   "levels",
			Type: "number",
			Handler: func(v *Variable, rowNr uint8, kind EventKind) bool {
				if kind == EventOnChange {
					rows = append(rows, rowNr)
				}
				return true
			},
		})
		v.SetValue([]any{5, 6}, NoRow)
		if !reflect.DeepEqual(rows, []uint8{0, 1}) {
			t.Errorf("dispatched rows = %v, want [0 1]", rows)
		}

		rows = nil
		v.SetValue(6, 1)
		if len(rows) != 0 {
			t.Errorf("unchanged row write dispatched %v", rows)
		}
	})

	t.Run("SetValuef", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "uptime", Type: "text"})
		v.SetValuef("%ds", 90)
		if v.ValueString(NoRow) != "90s" {
			t.Errorf("value = %q", v.ValueString(NoRow))
		}
	})
}

func TestValueString(t *testing.T) {
	m := New(nil)
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"Nil", nil, ""},
		{"String", "warm", "warm"},
		{"Int", 5, "5"},
		{"Bool", true, "true"},
		{"Map", map[string]any{"x": 1}, `{"x":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := m.Declare(nil, Declaration{ID: "v" + tt.name, Type: "text"})
			if tt.value != nil {
				v.SetValue(tt.value, NoRow)
			}
			if got := v.ValueString(NoRow); got != tt.want {
				t.Errorf("ValueString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBind(t *testing.T) {
	t.Run("ScalarMirrorsOnWrite", func(t *testing.T) {
		m := New(nil)
		var effect uint8
		v := m.Declare(nil, Declaration{
			ID:    "effect",
			Type:  "select",
			Value: 2,
			Slot:  native.BindUint8(&effect),
		})
		if effect != 2 {
			t.Errorf("default value not mirrored: %d", effect)
		}
		v.SetValue(4, NoRow)
		if effect != 4 {
			t.Errorf("effect = %d, want 4", effect)
		}
	})

	t.Run("RowsMirrorPerRow", func(t *testing.T) {
		m := New(nil)
		var levels []uint16
		v := m.Declare(nil, Declaration{
			ID:   "levels",
			Type: "number",
			Slot: native.BindUint16Rows(&levels),
		})
		v.SetValue([]any{100, 200}, NoRow)
		if !reflect.DeepEqual(levels, []uint16{100, 200}) {
			t.Errorf("levels = %v", levels)
		}
		v.SetValue(300, 1)
		if levels[1] != 300 {
			t.Errorf("levels[1] = %d, want 300", levels[1])
		}
	})

	t.Run("KindMismatchRefused", func(t *testing.T) {
		logger := &captureLogger{}
		m := New(logger)
		var level uint16
		v := m.Declare(nil, Declaration{ID: "effect", Type: "select"})

		logger.reset()
		v.Bind(native.BindUint16(&level))
		if v.Slot() != nil {
			t.Error("mismatched binding was accepted")
		}
		if len(logger.byCategory(log.CategoryError)) != 1 {
			t.Error("mismatch not logged")
		}
	})

	t.Run("TypeWithoutNativeFormRefused", func(t *testing.T) {
		logger := &captureLogger{}
		m := New(logger)
		var b uint8
		v := m.Declare(nil, Declaration{ID: "go", Type: "button"})

		logger.reset()
		v.Bind(native.BindUint8(&b))
		if v.Slot() != nil {
			t.Error("binding to a button was accepted")
		}
		if len(logger.byCategory(log.CategoryError)) != 1 {
			t.Error("refusal not logged")
		}
	})

	t.Run("BindSyncsExistingValue", func(t *testing.T) {
		m := New(nil)
		v := m.Declare(nil, Declaration{ID: "effect", Type: "select", Value: 3})
		var effect uint8
		v.Bind(native.BindUint8(&effect))
		if effect != 3 {
			t.Errorf("effect = %d, want existing value mirrored", effect)
		}
	})
}
