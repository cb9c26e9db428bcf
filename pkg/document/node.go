package document

// Node is one element of the document: a mapping of field names to values
// plus an ordered list of child nodes. The (id, pid) field pair is assumed
// unique across the whole tree.
type Node struct {
	// Fields holds the document attributes of this node.
	Fields map[string]any

	// Children holds the nested nodes, in declaration order.
	Children []*Node
}

// NewNode creates an empty node.
func NewNode() *Node {
	return &Node{Fields: make(map[string]any)}
}

// Get returns a field value, or nil if the field is absent.
func (n *Node) Get(field string) any {
	return n.Fields[field]
}

// Set stores a field value after normalizing it to the document value set.
func (n *Node) Set(field string, value any) {
	n.Fields[field] = Normalize(value)
}

// Remove deletes a field. Removing an absent field is a no-op.
func (n *Node) Remove(field string) {
	delete(n.Fields, field)
}

// Has reports whether the field is present, even if its value is nil.
func (n *Node) Has(field string) bool {
	_, ok := n.Fields[field]
	return ok
}

// String returns a field as a string, or "" if absent or not a string.
func (n *Node) String(field string) string {
	s, _ := n.Fields[field].(string)
	return s
}

// Bool returns a field as a bool, or false if absent or not a bool.
func (n *Node) Bool(field string) bool {
	b, _ := n.Fields[field].(bool)
	return b
}

// AddChild appends a child node.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// RemoveChild removes the child at index i, preserving the order of the
// remaining children. Out-of-range indices are ignored.
func (n *Node) RemoveChild(i int) {
	if i < 0 || i >= len(n.Children) {
		return
	}
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
}

// Normalize converts a Go value into the document value set: nil, bool,
// int64, float64, string, []any, map[string]any. Slices and maps are
// normalized recursively. Unknown types are passed through unchanged.
func Normalize(value any) any {
	switch v := value.(type) {
	case nil, bool, int64, float64, string:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return float64(v)
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = Normalize(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, el := range v {
			out[k] = Normalize(el)
		}
		return out
	default:
		return v
	}
}
