package mml

import "sync"

// Node kinds the tagging machinery creates or inspects.
const (
	KindMath       = "math"
	KindRow        = "mrow"
	KindIdent      = "mi"
	KindNumber     = "mn"
	KindOperator   = "mo"
	KindText       = "mtext"
	KindError      = "merror"
	KindFrac       = "mfrac"
	KindTable      = "mtable"
	KindLabeledRow = "mlabeledtr"
	KindTableRow   = "mtr"
	KindTableCell  = "mtd"
)

// Inferred is the arity of kinds which take any number of children, treating
// them as an inferred mrow.
const Inferred = -1

// TeXClass is the spacing class of a node, as used by TeX.
type TeXClass int8

// TeX spacing classes. TeXClassNone is for nodes which do not take part in
// inter-atom spacing.
const (
	TeXClassNone TeXClass = iota - 1
	TeXClassORD
	TeXClassOP
	TeXClassBIN
	TeXClassREL
	TeXClassOPEN
	TeXClassCLOSE
	TeXClassPUNCT
	TeXClassINNER
	TeXClassVCENTER
)

// KindInfo holds static information about a node kind.
type KindInfo struct {
	Arity              int                    // number of children, or Inferred
	Defaults           map[string]interface{} // default attribute values
	LinebreakContainer bool                   // lines may be broken within nodes of this kind
	TeXClass           TeXClass
	Token              bool // node carries text instead of children
}

var kinds = struct {
	sync.RWMutex
	table map[string]KindInfo
}{
	table: map[string]KindInfo{
		KindMath: {Arity: Inferred, TeXClass: TeXClassORD, LinebreakContainer: true,
			Defaults: map[string]interface{}{"display": "inline"}},
		KindRow:      {Arity: Inferred, TeXClass: TeXClassORD},
		KindIdent:    {Arity: 0, TeXClass: TeXClassORD, Token: true},
		KindNumber:   {Arity: 0, TeXClass: TeXClassORD, Token: true},
		KindOperator: {Arity: 0, TeXClass: TeXClassREL, Token: true},
		KindText:     {Arity: 0, TeXClass: TeXClassORD, Token: true},
		KindError:    {Arity: Inferred, TeXClass: TeXClassORD, LinebreakContainer: true},
		KindFrac: {Arity: 2, TeXClass: TeXClassINNER, LinebreakContainer: true,
			Defaults: map[string]interface{}{
				"linethickness": "medium",
				"numalign":      "center",
				"denomalign":    "center",
				"bevelled":      false,
			}},
		KindTable: {Arity: Inferred, TeXClass: TeXClassORD, LinebreakContainer: true,
			Defaults: map[string]interface{}{
				"side":            "right",
				"minlabelspacing": "0.8em",
				"displaystyle":    false,
			}},
		KindLabeledRow: {Arity: Inferred, TeXClass: TeXClassNone},
		KindTableRow:   {Arity: Inferred, TeXClass: TeXClassNone},
		KindTableCell:  {Arity: Inferred, TeXClass: TeXClassNone, LinebreakContainer: true},
	},
}

// LookupKind returns the kind information for a node kind.
func LookupKind(kind string) (KindInfo, bool) {
	kinds.RLock()
	defer kinds.RUnlock()
	info, ok := kinds.table[kind]
	return info, ok
}

// RegisterKind makes a node kind known to the default factory, or replaces
// the information for an existing kind.
func RegisterKind(kind string, info KindInfo) {
	kinds.Lock()
	defer kinds.Unlock()
	kinds.table[kind] = info
	tracer().Debugf("registered node kind %q, arity %d", kind, info.Arity)
}
