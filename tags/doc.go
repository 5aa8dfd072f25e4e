/*
Package tags implements equation numbering and labelling for a TeX math
typesetter.

A Tags engine keeps track of the equation counter, of labels and element
ids, and of a stack of tag contexts, one for each (possibly nested)
environment the parser is in. The parser drives an engine through a small
set of lifecycle calls:

    t.Start("align", true, true)  // taggable, numbered by default
    t.SetLabel("eq:euler")        // from \label{eq:euler}
    tag, err := t.GetTag(false)   // (1), as an mtd node
    ...
    err = t.End()
    node, err = t.Finalize(node, tags.Env{Display: true})

How equations are numbered is decided by a Policy: AMS style numbering of
taggable environments, no automatic numbering at all, numbering of every
displayed equation, or a custom policy. Named policies are kept in a
process-wide registry, see Create and Add.

Irregular input, such as duplicate labels, does not abort typesetting.
Engines record a diagnostic (see Diagnostics) and carry on with a
best-effort state.

An engine is meant to serve one document (or one numbering scope) and is not
safe for concurrent use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tags

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyse/core"
)

// tracer traces with key 'mathtags.tags'.
func tracer() tracing.Trace {
	return tracing.Select("mathtags.tags")
}

// Errors reported by tag engines. Apart from ErrUnbalancedTagContext and
// ErrUnknownTagsVariant, which are returned to the caller, these are
// recorded as diagnostics.
var (
	ErrUnbalancedTagContext = appError("unbalanced tag context")
	ErrUnknownTagsVariant   = appError("unknown tags variant")
	ErrDuplicateLabel       = appError("duplicate label")
	ErrDuplicateID          = appError("duplicate equation id")
	ErrUnresolvedRef        = appError("reference to undefined label")
)

// appError creates an error with code EINVALID, carrying msg both as error
// text and as user message.
func appError(msg string) error {
	return core.WrapError(errors.New(msg), core.EINVALID, msg)
}
