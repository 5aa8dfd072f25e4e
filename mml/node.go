package mml

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

/*
We manage a tree of mutable nodes. Each node is of a kind (e.g., "mtd"), carries
attributes and class flags, and maintains a slice of children. Token nodes
(mtext, mi, mn, mo) additionally carry text.

Nodes are not meant to be shared between concurrently typeset equations, but
children slices are mutex-protected anyway, as tag nodes may be handed out to
other parts of a typesetting pipeline.
*/

// ErrStopWalk may be returned by a WalkFunc to end a walk early without error.
var ErrStopWalk = errors.New("stop walking the tree")

// Node is the base type our math tree is built of.
type Node struct {
	parent   *Node                  // parent node of this node
	children childrenSlice          // mutex-protected slice of children nodes
	kind     string                 // node kind, e.g. "mtable"
	attrs    map[string]interface{} // explicitly set attributes
	classes  []string               // class flags, in order of insertion
	text     string                 // text content of token nodes
}

// NewNode creates a new tree node of a given kind. It does not check
// if kind is known; use a Factory for this.
func NewNode(kind string) *Node {
	return &Node{kind: kind}
}

// NewText creates a token node of kind "mtext" with a given text.
func NewText(text string) *Node {
	return NewNode(KindText).SetText(text)
}

func (node *Node) String() string {
	if node == nil {
		return "(nil)"
	}
	if node.text != "" {
		return fmt.Sprintf("(%s %q)", node.kind, node.text)
	}
	return fmt.Sprintf("(%s #ch=%d)", node.kind, node.ChildCount())
}

// Kind returns the kind of a node, e.g. "mfrac".
func (node *Node) Kind() string {
	return node.kind
}

// Info returns the kind information for a node. If the kind is unknown,
// a generic info is returned.
func (node *Node) Info() KindInfo {
	if info, ok := LookupKind(node.kind); ok {
		return info
	}
	return KindInfo{Arity: Inferred, TeXClass: TeXClassNone}
}

// AppendChild inserts a new child node into the tree.
// The newly inserted node is connected to this node as its parent.
// It returns the parent node to allow for chaining.
func (node *Node) AppendChild(ch *Node) *Node {
	if ch != nil {
		ch.Isolate()
		node.children.addChild(ch, node)
	}
	return node
}

// SetChildAt inserts a new child node into the tree, replacing the child at
// position i if it exists.
// It returns the parent node to allow for chaining.
func (node *Node) SetChildAt(i int, ch *Node) *Node {
	if ch != nil {
		if node.children.child(i) == ch {
			return node
		}
		ch.Isolate()
		if old := node.children.setChild(i, ch, node); old != nil {
			old.parent = nil
		}
	}
	return node
}

// InsertChildAt inserts a new child node into the tree at position i,
// shifting children at later positions.
// It returns the parent node to allow for chaining.
func (node *Node) InsertChildAt(i int, ch *Node) *Node {
	if ch != nil {
		ch.Isolate()
		node.children.insertChildAt(i, ch, node)
	}
	return node
}

// Parent returns the parent node or nil (for the root of the tree).
func (node *Node) Parent() *Node {
	return node.parent
}

// Isolate removes a node from its parent.
// Isolate returns the isolated node.
func (node *Node) Isolate() *Node {
	if node != nil && node.parent != nil {
		node.parent.children.remove(node)
		node.parent = nil
	}
	return node
}

// ChildCount returns the number of children-nodes for a node.
func (node *Node) ChildCount() int {
	return node.children.length()
}

// Child returns the n-th child of a node.
func (node *Node) Child(n int) (*Node, bool) {
	ch := node.children.child(n)
	return ch, ch != nil
}

// Children returns a slice with all children of a node.
func (node *Node) Children() []*Node {
	return node.children.asSlice()
}

// IndexOfChild returns the index of a child within the list of children
// of its parent, or -1.
func (node *Node) IndexOfChild(ch *Node) int {
	for i, child := range node.Children() {
		if ch == child {
			return i
		}
	}
	return -1
}

// --- Attributes ------------------------------------------------------------

// SetAttribute sets an attribute value. A nil value removes the attribute.
// It returns the node to allow for chaining.
func (node *Node) SetAttribute(key string, value interface{}) *Node {
	if value == nil {
		delete(node.attrs, key)
		return node
	}
	if node.attrs == nil {
		node.attrs = make(map[string]interface{})
	}
	node.attrs[key] = value
	return node
}

// Attribute returns the value of an attribute. If the attribute has not been
// set explicitly, the default for the node's kind is returned.
func (node *Node) Attribute(key string) (interface{}, bool) {
	if v, ok := node.attrs[key]; ok {
		return v, true
	}
	v, ok := node.Info().Defaults[key]
	return v, ok
}

// AttributeString returns an attribute value formatted as a string, or ""
// if the attribute is unset and has no default.
func (node *Node) AttributeString(key string) string {
	v, ok := node.Attribute(key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// HasExplicitAttribute is true if key has been set on the node itself.
func (node *Node) HasExplicitAttribute(key string) bool {
	_, ok := node.attrs[key]
	return ok
}

// AttributeNames returns the names of all explicitly set attributes, sorted.
func (node *Node) AttributeNames() []string {
	names := make([]string, 0, len(node.attrs))
	for k := range node.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// --- Class flags -----------------------------------------------------------

// AddClass adds a class flag to the node, if not already present.
func (node *Node) AddClass(class string) *Node {
	if class != "" && !node.HasClass(class) {
		node.classes = append(node.classes, class)
	}
	return node
}

// HasClass checks if a node carries a class flag.
func (node *Node) HasClass(class string) bool {
	for _, c := range node.classes {
		if c == class {
			return true
		}
	}
	return false
}

// RemoveClass removes a class flag.
func (node *Node) RemoveClass(class string) *Node {
	for i, c := range node.classes {
		if c == class {
			node.classes = append(node.classes[:i], node.classes[i+1:]...)
			break
		}
	}
	return node
}

// Classes returns a copy of the class flags of a node.
func (node *Node) Classes() []string {
	return append([]string(nil), node.classes...)
}

// --- Text ------------------------------------------------------------------

// SetText sets the text of a token node.
func (node *Node) SetText(text string) *Node {
	node.text = text
	return node
}

// Text returns the text of a token node.
func (node *Node) Text() string {
	return node.text
}

// TextContent returns the text of a node and all its descendents.
func (node *Node) TextContent() string {
	var b strings.Builder
	_ = node.Walk(func(n *Node, depth int) error {
		b.WriteString(n.text)
		return nil
	})
	return b.String()
}

// WalkFunc is called for every node visited by Walk.
type WalkFunc func(n *Node, depth int) error

// Walk traverses a (sub-)tree depth first, visiting parents before children.
// If fn returns an error, the walk is aborted and the error is returned,
// except for ErrStopWalk, which ends the walk silently.
func (node *Node) Walk(fn WalkFunc) error {
	if node == nil {
		return nil
	}
	err := node.walk(fn, 0)
	if err == ErrStopWalk {
		return nil
	}
	return err
}

func (node *Node) walk(fn WalkFunc, depth int) error {
	if err := fn(node, depth); err != nil {
		return err
	}
	for _, ch := range node.Children() {
		if err := ch.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// --- Slices of concurrency-safe sets of children ----------------------

type childrenSlice struct {
	sync.RWMutex
	slice []*Node
}

func (chs *childrenSlice) length() int {
	chs.RLock()
	defer chs.RUnlock()
	return len(chs.slice)
}

func (chs *childrenSlice) addChild(child *Node, parent *Node) {
	chs.Lock()
	defer chs.Unlock()
	chs.slice = append(chs.slice, child)
	child.parent = parent
}

// setChild returns the replaced child, if any. Positions beyond the current
// length are not filled with holes, the child is appended instead.
func (chs *childrenSlice) setChild(i int, child *Node, parent *Node) *Node {
	assertThat(i >= 0, "cannot set child at negative position %d", i)
	chs.Lock()
	defer chs.Unlock()
	child.parent = parent
	if i >= len(chs.slice) {
		chs.slice = append(chs.slice, child)
		return nil
	}
	old := chs.slice[i]
	chs.slice[i] = child
	return old
}

func (chs *childrenSlice) insertChildAt(i int, child *Node, parent *Node) {
	assertThat(i >= 0, "cannot insert child at negative position %d", i)
	chs.Lock()
	defer chs.Unlock()
	child.parent = parent
	if i >= len(chs.slice) {
		chs.slice = append(chs.slice, child)
		return
	}
	chs.slice = append(chs.slice, nil)   // make room for one child
	copy(chs.slice[i+1:], chs.slice[i:]) // shift i+1..n
	chs.slice[i] = child
}

func (chs *childrenSlice) remove(node *Node) {
	chs.Lock()
	defer chs.Unlock()
	for i, ch := range chs.slice {
		if ch == node {
			chs.slice = append(chs.slice[:i], chs.slice[i+1:]...)
			break
		}
	}
}

func (chs *childrenSlice) child(n int) *Node {
	chs.RLock()
	defer chs.RUnlock()
	if n < 0 || n >= len(chs.slice) {
		return nil
	}
	return chs.slice[n]
}

func (chs *childrenSlice) asSlice() []*Node {
	chs.RLock()
	defer chs.RUnlock()
	children := make([]*Node, len(chs.slice))
	copy(children, chs.slice)
	return children
}
