package examples

import (
	"time"

	"github.com/varmodel/varmodel-go/pkg/model"
	"github.com/varmodel/varmodel-go/pkg/native"
)

// Lighting is a reference lighting module: a fixtures table whose columns
// mirror into the compact per-row state a render loop would consume
// directly, an effect selector with grouped options, and a read-only
// uptime readout refreshed by the slow tick.
type Lighting struct {
	// Native state, written by the engine through the bindings.
	levels []uint16
	names  []native.Text
	effect uint8

	start time.Time
}

// NewLighting creates the module. Call Setup during the setup pass.
func NewLighting() *Lighting {
	return &Lighting{start: time.Now()}
}

// Effect returns the active effect code from native storage.
func (l *Lighting) Effect() uint8 {
	return l.effect
}

// Levels returns the per-fixture output levels from native storage.
func (l *Lighting) Levels() []uint16 {
	return l.levels
}

// Names returns the per-fixture names from native storage.
func (l *Lighting) Names() []native.Text {
	return l.names
}

// Setup declares the module's variables.
func (l *Lighting) Setup(m *model.Model) {
	lights := m.Declare(nil, model.Declaration{ID: "lights", Type: "group"})

	fixtures := m.Declare(lights, model.Declaration{ID: "fixtures", Type: "table", Dash: true})
	m.Declare(fixtures, model.Declaration{
		ID:   "name",
		Type: "text",
		Slot: native.BindTextRows(&l.names),
	})
	m.Declare(fixtures, model.Declaration{
		ID:   "level",
		Type: "number",
		Dash: true,
		Slot: native.BindUint16Rows(&l.levels),
	})

	m.Declare(lights, model.Declaration{
		ID:    "effect",
		Type:  "select",
		Value: 0,
		Slot:  native.BindUint8(&l.effect),
		Handler: func(v *model.Variable, rowNr uint8, kind model.EventKind) bool {
			switch kind {
			case model.EventOnUI:
				v.SetComment("Active output effect")
				v.SetOptions([]any{
					map[string]any{"Static": []any{"Solid", "Gradient"}},
					map[string]any{"Moving": []any{"Wave", "Chase"}},
				})
				return true
			default:
				return false
			}
		},
	})

	m.Declare(lights, model.Declaration{
		ID:       "uptime",
		Type:     "text",
		ReadOnly: true,
		Handler: func(v *model.Variable, rowNr uint8, kind model.EventKind) bool {
			switch kind {
			case model.EventOnLoop1s:
				v.SetValuef("%s", time.Since(l.start).Round(time.Second))
				return true
			default:
				return false
			}
		},
	})
}
