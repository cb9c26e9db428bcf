// Package document provides the generic hierarchical container underlying
// the variable model: an ordered sequence of nodes, each mapping field
// names to values. Values are restricted to the document value set (nil,
// bool, int64, float64, string, []any, map[string]any); Normalize converts
// arbitrary Go scalars into that set.
//
// The package knows nothing about variables, events, or native bindings.
// It only stores, traverses, and serializes node trees.
package document
