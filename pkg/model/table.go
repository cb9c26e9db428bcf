package model

// RowCount returns the number of rows of a table-shaped variable group:
// the length of the first declared child's value sequence. Sibling columns
// are assumed, not validated, to share it.
func (v *Variable) RowCount() int {
	if len(v.node.Children) == 0 {
		return 0
	}
	seq, _ := v.node.Children[0].Get("value").([]any)
	return len(seq)
}

// ForEachRow invokes fn(table, rowNr) for every row. The ambient current
// row is set for the duration of each callback, so child reads via
// Value(NoRow) resolve to the row being visited.
func (v *Variable) ForEachRow(fn func(table *Variable, rowNr uint8)) {
	count := v.RowCount()
	saved := v.m.currentRow
	defer func() { v.m.currentRow = saved }()

	for rowNr := 0; rowNr < count; rowNr++ {
		v.m.currentRow = uint8(rowNr)
		fn(v, uint8(rowNr))
	}
}

// AddRow appends a row to the table and dispatches onAdd for it. Columns
// receive their row values through subsequent SetValue calls.
func (v *Variable) AddRow() uint8 {
	rowNr := uint8(v.RowCount())
	v.triggerEvent(EventOnAdd, rowNr, false)
	return rowNr
}

// DeleteRow dispatches onDelete for the row (erasing it from every bound
// child column), then cascades removal of the row's value from every
// column.
func (v *Variable) DeleteRow(rowNr uint8) {
	v.triggerEvent(EventOnDelete, rowNr, false)
	v.RemoveRowValues(rowNr)
}

// RemoveRowValues removes rowNr's slot from every row-valued child,
// recursively, shifting later rows down by one. Out-of-range rows are
// silent no-ops.
func (v *Variable) RemoveRowValues(rowNr uint8) {
	for _, child := range v.Children() {
		seq, ok := child.node.Get("value").([]any)
		if ok && int(rowNr) < len(seq) {
			seq = append(seq[:rowNr], seq[rowNr+1:]...)
			child.node.Set("value", seq)

			// Keep recorded pre-change values row-aligned.
			st := v.m.state(child.node)
			if oldRows, ok := st.oldValue.([]any); ok && int(rowNr) < len(oldRows) {
				st.oldValue = append(oldRows[:rowNr], oldRows[rowNr+1:]...)
			}
		}
		child.RemoveRowValues(rowNr)
	}
}
