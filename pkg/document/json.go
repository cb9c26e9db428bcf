package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// childrenField is the field name used for nested nodes in serialized form.
const childrenField = "n"

// leadingFields are written first, in this order, so serialized trees stay
// readable and diffable. Remaining fields follow alphabetically.
var leadingFields = []string{"id", "pid", "type", "value", "ro"}

// MarshalJSON serializes the node as a JSON object. Children are written
// under the "n" field after all other fields.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	writeField := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	written := make(map[string]bool, len(n.Fields))
	for _, key := range leadingFields {
		if v, ok := n.Fields[key]; ok {
			if err := writeField(key, v); err != nil {
				return nil, err
			}
			written[key] = true
		}
	}

	rest := make([]string, 0, len(n.Fields))
	for key := range n.Fields {
		if !written[key] && key != childrenField {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		if err := writeField(key, n.Fields[key]); err != nil {
			return nil, err
		}
	}

	if len(n.Children) > 0 {
		if err := writeField(childrenField, n.Children); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object into the node. The "n" field, if
// present, must hold an array of objects and becomes the children.
func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	node, err := nodeFromMap(raw)
	if err != nil {
		return err
	}
	*n = *node
	return nil
}

// MarshalTree serializes a node sequence as an indented JSON array.
func MarshalTree(nodes []*Node) ([]byte, error) {
	if nodes == nil {
		nodes = []*Node{}
	}
	return json.MarshalIndent(nodes, "", "  ")
}

// UnmarshalTree parses a JSON array of objects into a node sequence.
func UnmarshalTree(data []byte) ([]*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	nodes := make([]*Node, 0, len(raw))
	for _, el := range raw {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("document: top-level element is not an object")
		}
		node, err := nodeFromMap(obj)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// nodeFromMap converts a decoded JSON object into a Node, recursing into
// the "n" children field.
func nodeFromMap(raw map[string]any) (*Node, error) {
	node := NewNode()
	for key, value := range raw {
		if key == childrenField {
			list, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("document: field %q is not an array", childrenField)
			}
			for _, el := range list {
				obj, ok := el.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("document: child element is not an object")
				}
				child, err := nodeFromMap(obj)
				if err != nil {
					return nil, err
				}
				node.AddChild(child)
			}
			continue
		}
		node.Fields[key] = decodeValue(value)
	}
	return node, nil
}

// decodeValue converts decoded JSON values into the document value set.
// json.Number becomes int64 when integral, float64 otherwise.
func decodeValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = decodeValue(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, el := range v {
			out[k] = decodeValue(el)
		}
		return out
	default:
		return v
	}
}

// ToInterface converts a node sequence into plain []any / map[string]any
// form, suitable for re-encoding in other formats (e.g. YAML export).
func ToInterface(nodes []*Node) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		m := make(map[string]any, len(n.Fields)+1)
		for k, v := range n.Fields {
			m[k] = v
		}
		if len(n.Children) > 0 {
			m[childrenField] = ToInterface(n.Children)
		}
		out = append(out, m)
	}
	return out
}
