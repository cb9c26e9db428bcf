// Package inspect provides read-side display views over a variable model
// for interactive tooling.
package inspect

import (
	"encoding/json"
	"errors"

	"github.com/varmodel/varmodel-go/pkg/model"
)

// ErrVariableNotFound indicates a (pid, id) lookup without a match.
var ErrVariableNotFound = errors.New("variable not found")

// Inspector builds display structures from a live model. It only reads;
// call it from the goroutine that owns the model.
type Inspector struct {
	m *model.Model
}

// NewInspector creates an Inspector over the given model.
func NewInspector(m *model.Model) *Inspector {
	return &Inspector{m: m}
}

// VariableInfo is the display form of one variable.
type VariableInfo struct {
	ID       string
	PID      string
	Type     string
	ReadOnly bool
	Dash     bool
	State    model.State

	// HasValue distinguishes "no value field" from a null value.
	HasValue bool

	// Value is the compact JSON rendering of the raw value field, so row
	// sequences display whole.
	Value string

	// Rows is the row count for table-shaped variables, 0 otherwise.
	Rows int

	Children []VariableInfo
}

// Tree returns the display form of the whole tree.
func (i *Inspector) Tree() []VariableInfo {
	var infos []VariableInfo
	for _, node := range i.m.Root() {
		infos = append(infos, i.info(i.m.Variable(node)))
	}
	return infos
}

// Variable returns the display form of one variable.
func (i *Inspector) Variable(pid, id string) (VariableInfo, error) {
	v := i.m.FindByIDPid(pid, id)
	if v == nil {
		return VariableInfo{}, ErrVariableNotFound
	}
	return i.info(v), nil
}

func (i *Inspector) info(v *model.Variable) VariableInfo {
	info := VariableInfo{
		ID:       v.ID(),
		PID:      v.PID(),
		Type:     v.Type(),
		ReadOnly: v.ReadOnly(),
		Dash:     v.Dash(),
		State:    v.LifecycleState(),
	}

	if v.Node().Has("value") {
		info.HasValue = true
		if data, err := json.Marshal(v.Node().Get("value")); err == nil {
			info.Value = string(data)
		}
	}

	if v.Type() == "table" {
		info.Rows = v.RowCount()
	}

	for _, child := range v.Children() {
		info.Children = append(info.Children, i.info(child))
	}
	return info
}
