package mml

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MathMLNamespace is the XML namespace of MathML.
const MathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// Serialize writes a (sub-)tree as MathML markup to w. Only explicitly set
// attributes are written; defaults are implied by MathML itself. Class flags
// are written as a class attribute.
func Serialize(w io.Writer, node *Node) error {
	if node == nil {
		return nil
	}
	h := toHTML(node)
	if node.kind == KindMath {
		h.Attr = append([]html.Attribute{{Key: "xmlns", Val: MathMLNamespace}}, h.Attr...)
	}
	return html.Render(w, h)
}

// SerializeString is a convenience wrapper around Serialize.
func SerializeString(node *Node) (string, error) {
	var b strings.Builder
	if err := Serialize(&b, node); err != nil {
		return "", err
	}
	return b.String(), nil
}

func toHTML(node *Node) *html.Node {
	h := &html.Node{
		Type:      html.ElementNode,
		Data:      node.kind,
		DataAtom:  atom.Lookup([]byte(node.kind)),
		Namespace: "math",
	}
	for _, k := range node.AttributeNames() {
		h.Attr = append(h.Attr, html.Attribute{Key: k, Val: attrValue(node.attrs[k])})
	}
	if len(node.classes) > 0 {
		h.Attr = append(h.Attr, html.Attribute{Key: "class", Val: strings.Join(node.classes, " ")})
	}
	if node.text != "" {
		h.AppendChild(&html.Node{Type: html.TextNode, Data: node.text})
	}
	for _, ch := range node.Children() {
		h.AppendChild(toHTML(ch))
	}
	return h
}

func attrValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}
