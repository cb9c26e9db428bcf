package examples

import (
	"github.com/varmodel/varmodel-go/pkg/model"
	"github.com/varmodel/varmodel-go/pkg/native"
)

// Zone kind codes, matching the kind selector's option order.
const (
	ZoneKindSweep uint8 = 0
	ZoneKindRadar uint8 = 1
)

// Zones is a reference motion-zone module: a zone table with coordinate
// and tri-state columns, and per-row detail variables that depend on the
// zone kind. It demonstrates the reconfiguration protocol: changing a
// row's kind re-declares only the detail variables that apply.
type Zones struct {
	positions []native.Coord3D
	armed     []native.TriState
	kinds     []uint8

	details *model.Variable
}

// NewZones creates the module. Call Setup during the setup pass.
func NewZones() *Zones {
	return &Zones{}
}

// Positions returns the zone origins from native storage.
func (z *Zones) Positions() []native.Coord3D {
	return z.positions
}

// Armed returns the per-zone armed states from native storage.
func (z *Zones) Armed() []native.TriState {
	return z.armed
}

// Setup declares the module's variables.
func (z *Zones) Setup(m *model.Model) {
	motion := m.Declare(nil, model.Declaration{ID: "motion", Type: "group"})

	zones := m.Declare(motion, model.Declaration{ID: "zones", Type: "table"})
	m.Declare(zones, model.Declaration{
		ID:   "position",
		Type: "coord3D",
		Slot: native.BindCoord3DRows(&z.positions),
	})
	m.Declare(zones, model.Declaration{
		ID:   "armed",
		Type: "checkbox",
		Slot: native.BindTriStateRows(&z.armed),
	})
	m.Declare(zones, model.Declaration{
		ID:   "kind",
		Type: "select",
		Slot: native.BindUint8Rows(&z.kinds),
		Handler: func(v *model.Variable, rowNr uint8, kind model.EventKind) bool {
			switch kind {
			case model.EventOnUI:
				v.SetOptions([]any{"Sweep", "Radar"})
				return true
			case model.EventOnChange:
				if rowNr != model.NoRow {
					z.RefreshDetails(m, rowNr)
				}
				return true
			default:
				return false
			}
		},
	})

	z.details = m.Declare(motion, model.Declaration{ID: "details", Type: "group"})
}

// RefreshDetails re-declares the detail variables for one zone row. Detail
// values are row-valued, so rows of other kinds keep theirs; the pass only
// nulls rowNr's slot in details that no longer apply.
func (z *Zones) RefreshDetails(m *model.Model, rowNr uint8) {
	if int(rowNr) >= len(z.kinds) {
		return
	}

	z.details.BeginReconfigure()
	switch z.kinds[rowNr] {
	case ZoneKindSweep:
		m.Declare(z.details, model.Declaration{ID: "sensitivity", Type: "range"})
	case ZoneKindRadar:
		m.Declare(z.details, model.Declaration{ID: "radius", Type: "number"})
	}
	z.details.EndReconfigure(rowNr)
}
