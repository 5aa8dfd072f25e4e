/*
Package tex provides the small slice of TeX parsing needed to typeset
equation tags.

The tagging engine formats a tag like "(3)" and needs it as a node of the
math tree. It does so by handing the source "\text{(3)}" to a
FragmentParser. A full TeX input processor will provide its own
implementation; TextParser covers the \text case on its own.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tex

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'mathtags.tex'.
func tracer() tracing.Trace {
	return tracing.Select("mathtags.tex")
}
