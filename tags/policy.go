package tags

import "github.com/npillmayer/mathtags/mml"

// PolicyKind selects how equations are numbered.
type PolicyKind int

// Numbering policies. PolicyAMS is standard AMS numbering: taggable
// environments get numbers unless suppressed. PolicyNone numbers nothing
// automatically, only explicit tags show. PolicyAll numbers every displayed
// equation not tagged otherwise. PolicyCustom defers to a Handler.
const (
	PolicyAMS PolicyKind = iota
	PolicyNone
	PolicyAll
	PolicyCustom
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyAMS:
		return "AMS"
	case PolicyNone:
		return "none"
	case PolicyAll:
		return "all"
	case PolicyCustom:
		return "custom"
	}
	return "<unknown policy>"
}

// Policy is the numbering policy of an engine.
type Policy struct {
	Kind    PolicyKind
	Handler *Handler // used for PolicyCustom only
}

// Handler customizes an engine. Every function left nil falls back to
// AMS behaviour. Handlers calling back into the engine should use
// BaseAutoTag, BaseGetTag and BaseFinalize to get the default behaviour.
type Handler struct {
	AutoTag      func(t *Tags)
	GetTag       func(t *Tags, force bool) (*mml.Node, error)
	Finalize     func(t *Tags, node *mml.Node, env Env) (*mml.Node, error)
	FormatTag    func(tag string) string
	FormatID     func(id string) string
	FormatNumber func(n int) string
	FormatURL    func(id, base string) string
}

// Custom returns a custom policy using handler h.
func Custom(h *Handler) Policy {
	if h == nil {
		h = &Handler{}
	}
	return Policy{Kind: PolicyCustom, Handler: h}
}

func (p Policy) String() string {
	return p.Kind.String()
}

// handler returns the custom handler, or nil for built-in policies.
func (p Policy) handler() *Handler {
	if p.Kind == PolicyCustom {
		return p.Handler
	}
	return nil
}

// Env describes the surroundings of a formula when it is finalized.
type Env struct {
	Display bool                   // formula is in display mode
	Props   map[string]interface{} // further properties of the parser's environment
}

// --- Dispatch --------------------------------------------------------------

// AutoTag sets the tag of the current context to the next equation number,
// if no tag is set yet. Calling it repeatedly numbers the context once only.
// With policy "none", AutoTag does nothing.
func (t *Tags) AutoTag() {
	switch t.policy.Kind {
	case PolicyNone:
		return
	case PolicyCustom:
		if h := t.policy.handler(); h != nil && h.AutoTag != nil {
			h.AutoTag(t)
			return
		}
	}
	t.BaseAutoTag()
}

// GetTag materializes the tag of the current context as a table cell node,
// or returns nil if the context is not to be tagged.
//
// If force is set, the context is numbered if necessary and tagged in any
// case. Otherwise, a taggable context not suppressed by NoTag is tagged if it
// has a tag or is numbered by default. With policy "none", only explicitly
// set, non-empty tags are materialized, regardless of the context.
func (t *Tags) GetTag(force bool) (*mml.Node, error) {
	switch t.policy.Kind {
	case PolicyNone:
		if tag, ok := t.current.Tag(); !ok || tag == "" {
			return nil, nil
		}
		return t.makeTag()
	case PolicyCustom:
		if h := t.policy.handler(); h != nil && h.GetTag != nil {
			return h.GetTag(t, force)
		}
	}
	return t.BaseGetTag(force)
}

// Finalize is called when the parser is done with a top-level formula.
// It returns the node to use in place of node. With policy "all", a
// displayed formula is wrapped into a labeled table row carrying a fresh
// tag, unless an environment within it has been taggable. All other
// built-in policies return node unchanged.
func (t *Tags) Finalize(node *mml.Node, env Env) (*mml.Node, error) {
	switch t.policy.Kind {
	case PolicyAll:
		return t.finalizeAll(node, env)
	case PolicyCustom:
		if h := t.policy.handler(); h != nil && h.Finalize != nil {
			return h.Finalize(t, node, env)
		}
	}
	return t.BaseFinalize(node, env)
}

func (t *Tags) finalizeAll(node *mml.Node, env Env) (*mml.Node, error) {
	if !env.Display {
		return node, nil
	}
	for _, ti := range t.history {
		if ti.taggable {
			return node, nil
		}
	}
	tag, err := t.GetTag(true)
	if err != nil || tag == nil {
		return node, err
	}
	return t.EnTag(node, tag)
}
