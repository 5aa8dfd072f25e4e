package tags

import "fmt"

// Label is what a \label refers to: the displayed tag and the element id
// of the tagged equation.
type Label struct {
	Tag string
	ID  string
}

// NewLabel returns a label for a tag not yet known.
func NewLabel() Label {
	return Label{Tag: "???"}
}

// TagInfo is the tag context of one environment.
type TagInfo struct {
	env         string // environment name, e.g. "align"
	taggable    bool   // environment supports tags (align* does, split does not)
	defaultTags bool   // environment is numbered by default (align is, align* is not)
	tag         string
	hasTag      bool
	TagID       string // unique id for the tag, e.g. "mjx-eqn-1"
	TagFormat   string // formatted tag, e.g. "(1)"
	NoTag       bool   // \notag or \nonumber has been given
	LabelID     string // label referring to the tag
}

func newTagInfo(env string, taggable, defaultTags bool) *TagInfo {
	return &TagInfo{env: env, taggable: taggable, defaultTags: defaultTags}
}

// Env is the name of the environment.
func (ti *TagInfo) Env() string {
	return ti.env
}

// Taggable is true if the environment supports tags.
func (ti *TagInfo) Taggable() bool {
	return ti.taggable
}

// DefaultTags is true if the environment is numbered by default.
func (ti *TagInfo) DefaultTags() bool {
	return ti.defaultTags
}

// Tag returns the tag text and whether a tag has been set. An empty tag
// text may be set (e.g., by \notag), which is different from no tag.
func (ti *TagInfo) Tag() (string, bool) {
	return ti.tag, ti.hasTag
}

func (ti *TagInfo) setTag(tag string) {
	ti.tag, ti.hasTag = tag, true
}

func (ti *TagInfo) unsetTag() {
	ti.tag, ti.hasTag = "", false
}

func (ti *TagInfo) String() string {
	tag := "⊥"
	if ti.hasTag {
		tag = fmt.Sprintf("%q", ti.tag)
	}
	return fmt.Sprintf("[%s taggable=%v default=%v tag=%s id=%q label=%q notag=%v]",
		ti.env, ti.taggable, ti.defaultTags, tag, ti.TagID, ti.LabelID, ti.NoTag)
}
