package model

import (
	"sort"

	"github.com/varmodel/varmodel-go/pkg/log"
)

// Options are nested: ordered sequences ([]any) are choices, named
// mappings (map[string]any) are groups, bottoming out in leaf labels.
// Leaves are assigned sequential integer codes in depth-first document
// order starting at 0. Since Go maps are unordered, group entries
// enumerate in sorted key order.

// OptionLeaf is one enumerated selector option.
type OptionLeaf struct {
	// Code is the sequential option code.
	Code uint8

	// Group is the topmost enclosing group name, or "" for ungrouped leaves.
	Group string

	// Label is the leaf label.
	Label string
}

// EnumerateOptions flattens a nested option structure into its leaves with
// assigned codes.
func EnumerateOptions(options []any) []OptionLeaf {
	var leaves []OptionLeaf
	next := uint8(0)
	collectLeaves(options, "", &next, &leaves)
	return leaves
}

func collectLeaves(option any, group string, next *uint8, leaves *[]OptionLeaf) {
	switch o := option.(type) {
	case nil:
	case []any:
		for _, el := range o {
			collectLeaves(el, group, next, leaves)
		}
	case map[string]any:
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			// The topmost group name wins for nested groups.
			topGroup := group
			if topGroup == "" {
				topGroup = k
			}
			collectLeaves(o[k], topGroup, next, leaves)
		}
	default:
		*leaves = append(*leaves, OptionLeaf{Code: *next, Group: group, Label: renderValue(o)})
		*next++
	}
}

// SetOptions stages the variable's option structure on the response map.
// Typically called from an onUI handler.
func (v *Variable) SetOptions(options []any) {
	v.m.stageResponse(v.Key()).Options = options
}

// ClearOptions removes the staged option structure.
func (v *Variable) ClearOptions() {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if r, ok := v.m.responses[v.Key()]; ok {
		r.Options = nil
	}
}

// Options returns the variable's option structure, dispatching onUI to
// rebuild it.
func (v *Variable) Options() []any {
	v.triggerEvent(EventOnUI, NoRow, false)
	m := v.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.responses[v.Key()]; ok {
		return r.Options
	}
	return nil
}

// FindOption resolves an option code to its topmost enclosing group name
// and leaf label, short-circuiting on the first match. A miss is the
// OptionNotFound condition: logged, empty strings returned so the caller
// renders an empty label. Options staged before the call are left staged;
// options built just for the lookup are cleared again.
func (v *Variable) FindOption(code uint8) (group, label string) {
	m := v.m
	m.mu.Lock()
	existing := false
	if r, ok := m.responses[v.Key()]; ok && r.Options != nil {
		existing = true
	}
	m.mu.Unlock()

	options := v.Options()
	if !existing {
		defer v.ClearOptions()
	}

	next := uint8(0)
	group, label, found := findOption(options, "", &next, code)
	if !found {
		m.logger.Log(log.NewErrorEvent(v.PID(), v.ID(), ErrOptionNotFound, ""))
		return "", ""
	}
	return group, label
}

func findOption(option any, group string, next *uint8, code uint8) (string, string, bool) {
	switch o := option.(type) {
	case nil:
	case []any:
		for _, el := range o {
			if g, l, found := findOption(el, group, next, code); found {
				return g, l, true
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			topGroup := group
			if topGroup == "" {
				topGroup = k
			}
			if g, l, found := findOption(o[k], topGroup, next, code); found {
				return g, l, true
			}
		}
	default:
		if *next == code {
			return group, renderValue(o), true
		}
		*next++
	}
	return "", "", false
}
