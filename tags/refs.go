package tags

import (
	"fmt"

	"github.com/npillmayer/mathtags/config"
	"github.com/npillmayer/mathtags/mml"
)

// RefClass flags nodes standing for a reference to a label.
const RefClass = "MathJax_ref"

// Attributes of reference nodes.
const (
	RefLabelAttr = "data-label" // name of the label referred to
	RefEqrefAttr = "data-eqref" // reference shows the formatted tag, as with \eqref
)

// StartEquation prepares the engine for a new top-level equation: labels and
// ids of the previous equation are forgotten (FinishEquation keeps them in
// the document-wide tables), and all tag contexts are dropped.
func (t *Tags) StartEquation() {
	t.labels = make(map[string]Label)
	t.ids = make(map[string]bool)
	t.stack = nil
	t.history = nil
	t.current = newTagInfo("", false, false)
}

// FinishEquation adds labels and ids of the current equation to the
// document-wide tables.
func (t *Tags) FinishEquation() {
	for k, l := range t.labels {
		t.allLabels[k] = l
	}
	for id := range t.ids {
		t.allIds[id] = true
	}
	tracer().Debugf("tags: equation finished, %d labels known", len(t.allLabels))
}

// MakeRef creates a node for a reference to label and queues it for
// ResolveRefs. For eqref, the resolved reference will show the formatted
// tag ("(1)") instead of the plain tag.
func (t *Tags) MakeRef(label string, eqref bool) (*mml.Node, error) {
	text, err := t.conf.Nodes.CreateNode(mml.KindText, nil, nil)
	if err != nil {
		return nil, err
	}
	text.SetText(NewLabel().Tag)
	ref, err := t.conf.Nodes.CreateNode(mml.KindRow, []*mml.Node{text},
		map[string]interface{}{RefLabelAttr: label, RefEqrefAttr: eqref})
	if err != nil {
		return nil, err
	}
	ref.AddClass(RefClass)
	t.AddRef(ref)
	return ref, nil
}

// AddRef queues a node with a reference for ResolveRefs. The node must carry
// attribute RefLabelAttr.
func (t *Tags) AddRef(node *mml.Node) {
	if node != nil {
		t.refs = append(t.refs, node)
	}
}

// Refs returns the nodes with references not yet resolved.
func (t *Tags) Refs() []*mml.Node {
	return append([]*mml.Node(nil), t.refs...)
}

// ResolveRefs patches queued reference nodes for labels known by now: the
// node gets a link to the tagged equation and shows its tag. base is the
// document URL; if empty, option baseURL is used. References to unknown
// labels show "???", are reported as diagnostics and stay queued.
// ResolveRefs returns the number of references left unresolved.
func (t *Tags) ResolveRefs(base string) int {
	if base == "" {
		base, _ = t.conf.Options.Get(config.OptBaseURL).(string)
	}
	var pending []*mml.Node
	for _, ref := range t.refs {
		name := ref.AttributeString(RefLabelAttr)
		l, ok := t.lookupLabel(name)
		if !ok {
			t.diagnose(fmt.Errorf("%w: %q", ErrUnresolvedRef, name))
			setRefText(ref, NewLabel().Tag)
			pending = append(pending, ref)
			continue
		}
		ref.SetAttribute("href", t.FormatURL(l.ID, base))
		if eqref, _ := ref.Attribute(RefEqrefAttr); eqref == true {
			setRefText(ref, t.FormatTag(l.Tag))
		} else {
			setRefText(ref, l.Tag)
		}
	}
	t.refs = pending
	return len(pending)
}

// setRefText sets the text of the first token node within ref.
func setRefText(ref *mml.Node, text string) {
	_ = ref.Walk(func(n *mml.Node, depth int) error {
		if n.Info().Token {
			n.SetText(text)
			return mml.ErrStopWalk
		}
		return nil
	})
}
