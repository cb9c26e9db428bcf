// Package native mirrors variable values into compact native storage owned
// by performance-critical subsystems. Each variable type tag maps to exactly
// one native kind; a binding is either a single slot or a growable
// row-indexed sequence. Writes grow row sequences with kind-specific unset
// sentinels so an index is never out of bounds; erases shift later rows
// down by one.
package native
