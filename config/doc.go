/*
Package config holds the options controlling equation tagging: the numbering
policy, on which side tags go, label spacing and how element ids are formed.

Options may be read from a file and the environment (see Load) or set up in
code, starting from Default. The tagging engine reads them by name through
Get, mirroring the option names of the TeX input processor.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'mathtags.config'.
func tracer() tracing.Trace {
	return tracing.Select("mathtags.config")
}
