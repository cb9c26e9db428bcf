package model

import (
	"github.com/varmodel/varmodel-go/pkg/document"
	"github.com/varmodel/varmodel-go/pkg/log"
)

// BeginReconfigure starts a per-parent reconfirmation pass: every
// confirmed child is marked pending. Subsequent Declare calls for the
// expected children flip them back to confirmed; EndReconfigure prunes
// the rest.
func (v *Variable) BeginReconfigure() {
	for _, child := range v.node.Children {
		st := v.m.state(child)
		if st.state == StateConfirmed {
			st.state = StatePending
		}
	}
}

// EndReconfigure finishes a per-parent reconfirmation pass for one row.
// Children still pending were not re-declared: a row-valued child has just
// rowNr's slot nulled (and is removed entirely once every row is null); a
// scalar child is removed outright. This lets one pass add or remove only
// the variables relevant to the current row without discarding siblings
// that describe other rows.
func (v *Variable) EndReconfigure(rowNr uint8) {
	// Children added after the parent itself was confirmed only.
	if v.m.state(v.node).state != StateConfirmed {
		return
	}

	var remove []*document.Node
	for _, child := range v.node.Children {
		st := v.m.state(child)
		childVar := &Variable{m: v.m, node: child}
		seq, rowValued := child.Get("value").([]any)

		if st.state != StatePending {
			continue
		}

		if rowValued {
			if rowNr == NoRow {
				v.m.logger.Log(log.NewErrorEvent(childVar.PID(), childVar.ID(),
					ErrMissingRow, "reconfigure of row-valued child without row"))
				continue
			}
			for int(rowNr) >= len(seq) {
				seq = append(seq, nil)
			}
			seq[rowNr] = nil
			child.Set("value", seq)
			st.state = StateConfirmed

			v.m.logLifecycle(childVar, "row-nulled", "", rowNr)

			if allNull(seq) {
				remove = append(remove, child)
			}
		} else {
			remove = append(remove, child)
		}
	}

	for _, node := range remove {
		v.m.removeChild(v.node, node, "reconfigure-pruned")
	}

	if rowNr != NoRow {
		row := rowNr
		v.m.stageResponse(v.Key()).DetailsRow = &row
	}
}

// CleanupModel is the whole-tree mark-sweep. It runs once after all
// modules finish setup (postBoot true) and again immediately before
// persistence (postBoot false).
//
// With postBoot set, a variable that was never declared this boot
// (StateNone) or that was not freshly declared (StateConfirmed) is
// obsolete and removed - unless the "model.showObsolete" diagnostic
// variable suppresses removal - and pending variables flip to confirmed
// (steady state). With postBoot unset, variables still StateNone or
// StatePending are removed.
func (m *Model) CleanupModel(postBoot bool) {
	showObsolete, _ := m.GetValue("model", "showObsolete").(bool)
	m.root = m.cleanupNodes(nil, m.root, postBoot, showObsolete)
}

func (m *Model) cleanupNodes(parent *document.Node, nodes []*document.Node, postBoot, showObsolete bool) []*document.Node {
	kept := nodes[:0]
	for _, node := range nodes {
		st := m.state(node)
		v := &Variable{m: m, node: node}

		removed := false
		if postBoot {
			switch st.state {
			case StateNone, StateConfirmed:
				m.logLifecycle(v, "obsolete", st.state.String(), NoRow)
				if !showObsolete {
					removed = true
				}
			case StatePending:
				st.state = StateConfirmed
			}
		} else {
			if st.state == StateNone || st.state == StatePending {
				m.logLifecycle(v, "swept", st.state.String(), NoRow)
				removed = true
			}
		}

		if removed {
			m.forgetSubtree(node)
			continue
		}

		node.Children = m.cleanupNodes(node, node.Children, postBoot, showObsolete)
		kept = append(kept, node)
	}
	return kept
}

// StripValues prepares the tree for persistence: read-only variables lose
// their value (they are recomputed at runtime), values under an
// "instances" table are cleared unconditionally, and recorded pre-change
// values are dropped everywhere.
func (m *Model) StripValues() {
	m.stripNodes(nil, m.root)
}

func (m *Model) stripNodes(parent *document.Node, nodes []*document.Node) {
	for _, node := range nodes {
		v := &Variable{m: m, node: node}
		underInstances := parent != nil && parent.String("id") == "instances"
		if underInstances || v.ReadOnly() {
			node.Remove("value")
		}
		m.state(node).oldValue = nil
		m.stripNodes(node, node.Children)
	}
}

// removeChild removes node from parent (or from the top level when parent
// is nil) and forgets all engine state for its subtree.
func (m *Model) removeChild(parent *document.Node, node *document.Node, action string) {
	children := m.root
	if parent != nil {
		children = parent.Children
	}
	for i, c := range children {
		if c == node {
			children = append(children[:i], children[i+1:]...)
			break
		}
	}
	if parent != nil {
		parent.Children = children
	} else {
		m.root = children
	}

	m.logLifecycle(&Variable{m: m, node: node}, action, "", NoRow)
	m.forgetSubtree(node)
}

// forgetSubtree drops engine state and handler registrations for a removed
// subtree so nothing dangles across structural edits.
func (m *Model) forgetSubtree(node *document.Node) {
	v := &Variable{m: m, node: node}
	delete(m.handlers, v.Key())
	delete(m.states, node)
	for _, child := range node.Children {
		m.forgetSubtree(child)
	}
}

// allNull reports whether every element of the sequence is nil.
func allNull(seq []any) bool {
	for _, el := range seq {
		if el != nil {
			return false
		}
	}
	return true
}

func (m *Model) logLifecycle(v *Variable, action, detail string, rowNr uint8) {
	e := log.NewEvent(log.CategoryLifecycle)
	e.PID = v.PID()
	e.ID = v.ID()
	if rowNr != NoRow {
		row := rowNr
		e.Row = &row
	}
	e.Lifecycle = &log.LifecycleEvent{Action: action, Detail: detail}
	m.logger.Log(e)
}
