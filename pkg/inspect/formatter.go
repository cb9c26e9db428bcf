package inspect

import (
	"fmt"
	"strings"
)

// FormatTree renders a tree of variables as indented lines, one variable
// per line.
func FormatTree(infos []VariableInfo) string {
	var b strings.Builder
	for _, info := range infos {
		formatNode(&b, info, 0)
	}
	return b.String()
}

func formatNode(b *strings.Builder, info VariableInfo, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(info.ID)
	fmt.Fprintf(b, " (%s)", info.Type)
	if info.ReadOnly {
		b.WriteString(" ro")
	}
	if info.HasValue {
		b.WriteString(" = ")
		b.WriteString(info.Value)
	}
	b.WriteString("\n")
	for _, child := range info.Children {
		formatNode(b, child, depth+1)
	}
}

// FormatVariable renders one variable with its full display detail.
func FormatVariable(info VariableInfo) string {
	var b strings.Builder

	key := info.PID + "." + info.ID
	fmt.Fprintf(&b, "%s\n", key)
	fmt.Fprintf(&b, "  type:  %s\n", info.Type)
	fmt.Fprintf(&b, "  state: %s\n", info.State)
	if info.ReadOnly {
		b.WriteString("  ro:    true\n")
	}
	if info.Dash {
		b.WriteString("  dash:  true\n")
	}
	if info.HasValue {
		fmt.Fprintf(&b, "  value: %s\n", info.Value)
	}
	if info.Rows > 0 {
		fmt.Fprintf(&b, "  rows:  %d\n", info.Rows)
	}
	if len(info.Children) > 0 {
		b.WriteString("  children:")
		for _, child := range info.Children {
			b.WriteString(" " + child.ID)
		}
		b.WriteString("\n")
	}
	return b.String()
}
