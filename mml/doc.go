/*
Package mml implements the small MathML-like node tree the equation tagging
machinery operates on.

The tree is not a complete MathML model. It knows a handful of node kinds
(see KindInfo), carries attributes and class flags, and supports the
structural operations needed to splice equation tags into an already parsed
formula: creating nodes of a kind with children and attributes, re-parenting
and walking.

Nodes are created by a Factory. Clients of package tags will usually go with
DefaultFactory, but may provide their own factory, e.g. to hook node
creation into a full MathML implementation.

For debugging, Dump produces an indented print of a (sub-)tree, and
Serialize writes MathML markup.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package mml

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mathtags.mml'.
func tracer() tracing.Trace {
	return tracing.Select("mathtags.mml")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("mml: "+msg, msgargs...)
		panic(msg)
	}
}
