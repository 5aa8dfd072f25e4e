package mml

import (
	"fmt"
	"strings"

	tp "github.com/xlab/treeprint"
)

// Dump returns an indented print of a (sub-)tree, one node per line.
// Attributes and class flags are listed with each node.
func Dump(node *Node) string {
	if node == nil {
		return "(nil)\n"
	}
	p := tp.New()
	dump(p, node)
	return p.String()
}

func dump(p tp.Tree, node *Node) {
	if node.ChildCount() == 0 {
		p.AddNode(describe(node))
		return
	}
	branch := p.AddBranch(describe(node))
	for _, ch := range node.Children() {
		dump(branch, ch)
	}
}

func describe(node *Node) string {
	var b strings.Builder
	b.WriteString(node.kind)
	for _, k := range node.AttributeNames() {
		fmt.Fprintf(&b, " %s=%v", k, node.attrs[k])
	}
	if len(node.classes) > 0 {
		fmt.Fprintf(&b, " .%s", strings.Join(node.classes, "."))
	}
	if node.text != "" {
		fmt.Fprintf(&b, " %q", node.text)
	}
	return b.String()
}
