package mml

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned by the default factory for node kinds it does
// not know of.
var ErrUnknownKind = errors.New("unknown node kind")

// ErrArity is returned if a node is created with too many children.
var ErrArity = errors.New("too many children for node kind")

// Factory creates nodes of a given kind with children and attributes.
type Factory interface {
	CreateNode(kind string, children []*Node, attributes map[string]interface{}) (*Node, error)
}

// DefaultFactory creates nodes for all kinds registered with RegisterKind.
type DefaultFactory struct{}

var _ Factory = DefaultFactory{}

// CreateNode creates a node of a registered kind. Children are appended in
// order, nil children are skipped. Token kinds do not accept children; use
// SetText instead.
func (DefaultFactory) CreateNode(kind string, children []*Node, attributes map[string]interface{}) (*Node, error) {
	info, ok := LookupKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if info.Arity != Inferred && countNonNil(children) > info.Arity {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, kind, info.Arity, countNonNil(children))
	}
	node := NewNode(kind)
	for _, ch := range children {
		node.AppendChild(ch)
	}
	for k, v := range attributes {
		node.SetAttribute(k, v)
	}
	return node, nil
}

func countNonNil(children []*Node) (n int) {
	for _, ch := range children {
		if ch != nil {
			n++
		}
	}
	return
}

// NewError creates an merror node holding a message text. It is used to
// put error messages in place of content which could not be built.
func NewError(msg string) *Node {
	return NewNode(KindError).AppendChild(NewText(msg))
}
