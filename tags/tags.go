package tags

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/npillmayer/mathtags/config"
	"github.com/npillmayer/mathtags/mml"
	"github.com/npillmayer/mathtags/tex"
)

// Options gives read-only access to options by name.
// *config.Options implements it.
type Options interface {
	Get(name string) interface{}
}

// Configuration holds the collaborators of a tags engine.
type Configuration struct {
	Options Options            // layout options, e.g. TagSide
	Nodes   mml.Factory        // creates table nodes for tags
	Parser  tex.FragmentParser // typesets tag texts
}

// DefaultConfiguration uses default options, the default node factory and
// the \text fragment parser.
func DefaultConfiguration() Configuration {
	return Configuration{
		Options: config.Default(),
		Nodes:   mml.DefaultFactory{},
		Parser:  tex.TextParser{},
	}
}

// Tags is an engine for numbering and labelling equations.
type Tags struct {
	policy    Policy
	conf      Configuration
	counter   int              // current equation number
	offset    int              // starting equation number, set by Reset
	ids       map[string]bool  // ids used in this equation
	allIds    map[string]bool  // ids used in previous equations
	labels    map[string]Label // labels in this equation
	allLabels map[string]Label // labels in previous equations
	refs      []*mml.Node      // nodes with unresolved references
	current   *TagInfo         // innermost tag context
	stack     []*TagInfo       // saved outer contexts
	history   []*TagInfo       // ended contexts, in order of completion
	diag      []error
}

// New creates a tags engine for a policy, using the default configuration.
func New(policy Policy) *Tags {
	t := &Tags{
		policy:    policy,
		conf:      DefaultConfiguration(),
		ids:       make(map[string]bool),
		allIds:    make(map[string]bool),
		labels:    make(map[string]Label),
		allLabels: make(map[string]Label),
		current:   newTagInfo("", false, false),
	}
	return t
}

// NewAmsTags creates an engine numbering like AMS.
func NewAmsTags() *Tags {
	return New(Policy{Kind: PolicyAMS})
}

// NewNoTags creates an engine which tags explicitly given tags only.
func NewNoTags() *Tags {
	return New(Policy{Kind: PolicyNone})
}

// NewAllTags creates an engine which numbers all displayed equations.
func NewAllTags() *Tags {
	return New(Policy{Kind: PolicyAll})
}

// Configure replaces the configuration of an engine. Nil members of conf are
// replaced by their defaults.
func (t *Tags) Configure(conf Configuration) *Tags {
	d := DefaultConfiguration()
	if conf.Options == nil {
		conf.Options = d.Options
	}
	if conf.Nodes == nil {
		conf.Nodes = d.Nodes
	}
	if conf.Parser == nil {
		conf.Parser = d.Parser
	}
	t.conf = conf
	return t
}

// Configuration returns the engine's configuration.
func (t *Tags) Configuration() Configuration {
	return t.conf
}

// Policy returns the numbering policy of the engine.
func (t *Tags) Policy() Policy {
	return t.policy
}

// --- Tag contexts ----------------------------------------------------------

// Start opens a tag context for an environment, saving the current one.
func (t *Tags) Start(env string, taggable, defaultTags bool) {
	t.stack = append(t.stack, t.current)
	t.current = newTagInfo(env, taggable, defaultTags)
	tracer().Debugf("tags: start %s, depth %d", t.current, len(t.stack))
}

// End closes the current tag context, records it in the history and
// restores the enclosing one. End without a matching Start returns
// ErrUnbalancedTagContext and leaves the engine unchanged.
func (t *Tags) End() error {
	if len(t.stack) == 0 {
		err := fmt.Errorf("%w: end of %q without start", ErrUnbalancedTagContext, t.current.env)
		tracer().Errorf("tags: %v", err)
		return err
	}
	tracer().Debugf("tags: end %s", t.current)
	t.history = append(t.history, t.current)
	t.current = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return nil
}

// Depth is the number of open tag contexts.
func (t *Tags) Depth() int {
	return len(t.stack)
}

// CurrentTag returns the current tag context.
func (t *Tags) CurrentTag() *TagInfo {
	return t.current
}

// Env returns the name of the current environment.
func (t *Tags) Env() string {
	return t.current.env
}

// Label returns the label of the current context.
func (t *Tags) Label() string {
	return t.current.LabelID
}

// SetLabel sets the label of the current context.
func (t *Tags) SetLabel(label string) {
	t.current.LabelID = label
}

// Tag sets the tag of the current context. Unless noFormat is set, the
// displayed form is produced by FormatTag. Tag lifts a previous NoTag.
func (t *Tags) Tag(tag string, noFormat bool) {
	t.current.setTag(tag)
	if noFormat {
		t.current.TagFormat = tag
	} else {
		t.current.TagFormat = t.FormatTag(tag)
	}
	t.current.NoTag = false
}

// NoTag suppresses tagging of the current context.
func (t *Tags) NoTag() {
	t.Tag("", true)
	t.current.NoTag = true
}

// ClearTag removes label, tag and id from the current context.
func (t *Tags) ClearTag() {
	t.SetLabel("")
	t.current.unsetTag()
	t.current.TagFormat = ""
	t.current.NoTag = false
	t.current.TagID = ""
}

// Reset prepares the engine for the next top-level equation. It sets the
// numbering offset and clears the history of tag contexts; the counter is
// kept, so numbering carries over. Unless keepLabels is set, labels and ids
// of the current equation are forgotten. Use Restart to number from
// scratch.
func (t *Tags) Reset(offset int, keepLabels bool) {
	if offset < 0 {
		offset = 0
	}
	t.offset = offset
	t.history = nil
	if !keepLabels {
		t.labels = make(map[string]Label)
		t.ids = make(map[string]bool)
	}
	tracer().Debugf("tags: reset, offset=%d, keep labels=%v", offset, keepLabels)
}

// Restart makes equation numbering continue after n, as with
// \setcounter{equation}{n}.
func (t *Tags) Restart(n int) {
	if n < 0 {
		n = 0
	}
	t.counter = n
	tracer().Debugf("tags: numbering restarts after %d", n)
}

// --- Formatting ------------------------------------------------------------

// FormatTag produces the displayed form of a tag, "(tag)" by default.
func (t *Tags) FormatTag(tag string) string {
	if h := t.policy.handler(); h != nil && h.FormatTag != nil {
		return h.FormatTag(tag)
	}
	return "(" + tag + ")"
}

// FormatID produces an element id from a label or tag. By default, it is
// prefixed by "mjx-eqn-", with white space replaced by underscores.
func (t *Tags) FormatID(id string) string {
	if h := t.policy.handler(); h != nil && h.FormatID != nil {
		return h.FormatID(id)
	}
	return "mjx-eqn-" + strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, id)
}

// FormatNumber produces the tag text for an equation number.
func (t *Tags) FormatNumber(n int) string {
	if h := t.policy.handler(); h != nil && h.FormatNumber != nil {
		return h.FormatNumber(n)
	}
	return strconv.Itoa(n)
}

// FormatURL produces a link to element id in the document at base.
func (t *Tags) FormatURL(id, base string) string {
	if h := t.policy.handler(); h != nil && h.FormatURL != nil {
		return h.FormatURL(id, base)
	}
	return base + "#" + encodeURIComponent(id)
}

// encodeURIComponent escapes everything except letters, digits and
// - _ . ! ~ * ' ( ), the way browsers do for URI components.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
			strings.IndexByte("-_.!~*'()", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

// --- Base behaviour --------------------------------------------------------

// BaseAutoTag is AutoTag for AMS numbering.
func (t *Tags) BaseAutoTag() {
	if _, ok := t.current.Tag(); !ok {
		t.counter++
		t.Tag(t.FormatNumber(t.counter), false)
	}
}

// BaseGetTag is GetTag for AMS numbering.
func (t *Tags) BaseGetTag(force bool) (*mml.Node, error) {
	if force {
		t.AutoTag()
		return t.makeTag()
	}
	ct := t.current
	if !ct.taggable || ct.NoTag {
		return nil, nil
	}
	if ct.defaultTags {
		t.AutoTag()
	}
	if !ct.hasTag {
		return nil, nil
	}
	return t.makeTag()
}

// BaseFinalize is Finalize for AMS numbering: it returns node unchanged.
func (t *Tags) BaseFinalize(node *mml.Node, env Env) (*mml.Node, error) {
	return node, nil
}

// EnTag puts a formula and its tag side by side, as a labeled row of a
// display-style table. Side and label spacing follow options TagSide and
// TagIndent.
func (t *Tags) EnTag(node, tag *mml.Node) (*mml.Node, error) {
	nodes := t.conf.Nodes
	cell, err := nodes.CreateNode(mml.KindTableCell, []*mml.Node{node}, nil)
	if err != nil {
		return nil, err
	}
	row, err := nodes.CreateNode(mml.KindLabeledRow, []*mml.Node{tag, cell}, nil)
	if err != nil {
		return nil, err
	}
	return nodes.CreateNode(mml.KindTable, []*mml.Node{row}, map[string]interface{}{
		"side":            t.conf.Options.Get(config.OptTagSide),
		"minlabelspacing": t.conf.Options.Get(config.OptTagIndent),
		"displaystyle":    true,
	})
}

// makeId sets the tag id of the current context, from the label if option
// useLabelIds is set, else from the tag.
func (t *Tags) makeId() {
	id := t.current.tag
	if useLabelIds, _ := t.conf.Options.Get(config.OptUseLabelIds).(bool); useLabelIds && t.Label() != "" {
		id = t.Label()
	}
	prev := t.current.TagID
	t.current.TagID = t.FormatID(id)
	if t.current.TagID == prev {
		return
	}
	if t.ids[t.current.TagID] || t.allIds[t.current.TagID] {
		t.diagnose(fmt.Errorf("%w: %q", ErrDuplicateID, t.current.TagID))
	}
	t.ids[t.current.TagID] = true
}

// makeTag records the label of the current context, if any, and typesets
// the formatted tag into a table cell carrying the tag id.
func (t *Tags) makeTag() (*mml.Node, error) {
	t.makeId()
	if label := t.Label(); label != "" {
		l := Label{Tag: t.current.tag, ID: t.current.TagID}
		if prev, ok := t.lookupLabel(label); ok && prev != l {
			t.diagnose(fmt.Errorf("%w: %q, was %q, now %q", ErrDuplicateLabel, label, prev.Tag, l.Tag))
		}
		t.labels[label] = l
	}
	content, err := t.conf.Parser.ParseFragment(`\text{`+t.current.TagFormat+`}`, map[string]interface{}{})
	if err != nil {
		tracer().Errorf("cannot typeset tag %q: %v", t.current.TagFormat, err)
		t.diagnose(err)
		content = mml.NewError(t.current.TagFormat)
	}
	return t.conf.Nodes.CreateNode(mml.KindTableCell, []*mml.Node{content},
		map[string]interface{}{"id": t.current.TagID})
}

func (t *Tags) lookupLabel(name string) (Label, bool) {
	if l, ok := t.labels[name]; ok {
		return l, true
	}
	l, ok := t.allLabels[name]
	return l, ok
}

// --- Diagnostics and state -------------------------------------------------

func (t *Tags) diagnose(err error) {
	tracer().Infof("tags: %v", err)
	t.diag = append(t.diag, err)
}

// Diagnostics returns the irregularities found so far.
func (t *Tags) Diagnostics() []error {
	return append([]error(nil), t.diag...)
}

// ClearDiagnostics drops all diagnostics.
func (t *Tags) ClearDiagnostics() {
	t.diag = nil
}

// Counter is the last equation number handed out.
func (t *Tags) Counter() int {
	return t.counter
}

// Offset is the numbering offset set by Reset.
func (t *Tags) Offset() int {
	return t.offset
}

// History returns the tag contexts ended so far, in order of completion.
func (t *Tags) History() []*TagInfo {
	return append([]*TagInfo(nil), t.history...)
}

// Labels returns the labels of the current equation.
func (t *Tags) Labels() map[string]Label {
	return copyMap(t.labels)
}

// AllLabels returns the labels of previous equations.
func (t *Tags) AllLabels() map[string]Label {
	return copyMap(t.allLabels)
}

// Ids returns the ids used in the current equation.
func (t *Tags) Ids() map[string]bool {
	return copyMap(t.ids)
}

// AllIds returns the ids used in previous equations.
func (t *Tags) AllIds() map[string]bool {
	return copyMap(t.allIds)
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
