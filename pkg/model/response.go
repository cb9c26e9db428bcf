package model

// Response stages per-request UI metadata for one variable, separate from
// the persisted value tree. The external transport drains and delivers it.
type Response struct {
	// Label is the display label staged by an onUI handler.
	Label string `json:"label,omitempty"`

	// Comment is the help text staged by an onUI handler.
	Comment string `json:"comment,omitempty"`

	// Options is the nested option structure for selector controls.
	Options []any `json:"options,omitempty"`

	// AddedRow is the row number staged by onAdd.
	AddedRow *uint8 `json:"addedRow,omitempty"`

	// DeletedRow is the row number staged by onDelete.
	DeletedRow *uint8 `json:"deletedRow,omitempty"`

	// DetailsRow is the row number staged by a reconfiguration pass.
	DetailsRow *uint8 `json:"detailsRow,omitempty"`
}

// stageResponse returns the staged response for a "pid.id" key, creating
// it on first use.
func (m *Model) stageResponse(key string) *Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.responses[key]
	if !ok {
		r = &Response{}
		m.responses[key] = r
	}
	return r
}

// StagedResponse returns the staged response for a variable, or nil if
// nothing is staged.
func (m *Model) StagedResponse(key string) *Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.responses[key]
}

// DrainResponses hands the staged responses to the external transport and
// resets the staging map.
func (m *Model) DrainResponses() map[string]*Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	responses := m.responses
	m.responses = make(map[string]*Response)
	return responses
}

// SetLabel stages the variable's display label.
func (v *Variable) SetLabel(text string) {
	v.m.stageResponse(v.Key()).Label = text
}

// SetComment stages the variable's help text.
func (v *Variable) SetComment(text string) {
	v.m.stageResponse(v.Key()).Comment = text
}
