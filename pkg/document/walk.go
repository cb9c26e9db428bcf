package document

// Visit is called for each node during traversal. Returning true stops the
// traversal early.
type Visit func(n *Node) bool

// Walk traverses the node sequence depth-first in pre-order, calling visit
// for each node. It returns true if visit stopped the traversal.
func Walk(nodes []*Node, visit Visit) bool {
	for _, n := range nodes {
		if visit(n) {
			return true
		}
		if Walk(n.Children, visit) {
			return true
		}
	}
	return false
}

// Find returns the first node for which match returns true, depth-first,
// or nil if no node matches.
func Find(nodes []*Node, match func(n *Node) bool) *Node {
	var found *Node
	Walk(nodes, func(n *Node) bool {
		if match(n) {
			found = n
			return true
		}
		return false
	})
	return found
}

// FindAll returns every node for which match returns true, depth-first,
// without early stop.
func FindAll(nodes []*Node, match func(n *Node) bool) []*Node {
	var found []*Node
	Walk(nodes, func(n *Node) bool {
		if match(n) {
			found = append(found, n)
		}
		return false
	})
	return found
}
