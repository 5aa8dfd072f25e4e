package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/tyse/core/dimen"
	. "github.com/npillmayer/tyse/core/percent"
)

const (
	lengthNone uint32 = 0

	lengthAbsolute uint32 = 0x0001
	lengthPercent  uint32 = 0x0002
	lengthFontRel  uint32 = 0x0003
	kindMask       uint32 = 0x000f

	unitEM   uint32 = 0x0100
	unitEX   uint32 = 0x0200
	unitMU   uint32 = 0x0300
	unitMask uint32 = 0xff00
)

// font-relative values are kept in 1/1000 units
const scaleBase = 1000

// Length is an option type for lengths in layout options, such as the
// minimum spacing between an equation and its tag.
type Length struct {
	d       dimen.DU
	percent Percent
	pint    int   // integer value of percent, for printing
	rel     int32 // thousandths of the font-relative unit
	flags   uint32
}

/*
type Length
	= Unset
	| JustDimen dimen
	| Percentage Percent
	| FontRel unit n
*/

// Unset is the zero length option, meaning "not given".
func Unset() Length {
	return Length{flags: lengthNone}
}

// JustDimen creates a length with a fixed value of x.
func JustDimen(x dimen.DU) Length {
	return Length{d: x, flags: lengthAbsolute}
}

// Percentage creates a length relative to the enclosing width.
func Percentage(n int) Length {
	return Length{percent: FromInt(n), pint: n, flags: lengthPercent}
}

// FontRelative creates a length of x units of em, ex or mu.
func FontRelative(x float64, unit string) (Length, error) {
	var u uint32
	switch unit {
	case "em":
		u = unitEM
	case "ex":
		u = unitEX
	case "mu":
		u = unitMU
	default:
		return Unset(), fmt.Errorf("not a font-relative unit: %q", unit)
	}
	return Length{rel: int32(math.Round(x * scaleBase)), flags: lengthFontRel | u}, nil
}

// IsUnset is true for Unset().
func (l Length) IsUnset() bool {
	return l.flags&kindMask == lengthNone
}

// String renders a normalized textual form, which ParseLength will accept.
func (l Length) String() string {
	switch l.flags & kindMask {
	case lengthAbsolute:
		return formatFloat(float64(l.d)/float64(dimen.PT)) + "pt"
	case lengthPercent:
		return strconv.Itoa(l.pint) + "%"
	case lengthFontRel:
		return formatFloat(float64(l.rel)/scaleBase) + l.unit()
	}
	return ""
}

func (l Length) unit() string {
	switch l.flags & unitMask {
	case unitEM:
		return "em"
	case unitEX:
		return "ex"
	case unitMU:
		return "mu"
	}
	return ""
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(math.Round(x*1000)/1000, 'f', -1, 64)
}

// ---------------------------------------------------------------------------

// absolute units, expressed in points
var absoluteUnits = map[string]float64{
	"pt": 1,
	"bp": 72.27 / 72,
	"px": 72.27 / 96,
	"in": 72.27,
	"cm": 72.27 / 2.54,
	"mm": 72.27 / 25.4,
	"pc": 12,
}

// ParseLength parses lengths like "0.8em", "10pt", "50%" or "0".
// An empty string yields Unset().
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unset(), nil
	}
	if strings.HasSuffix(s, "%") {
		x, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-1]), 64)
		if err != nil {
			return Unset(), fmt.Errorf("illegal percentage %q: %w", s, err)
		}
		return Percentage(int(math.Round(x))), nil
	}
	i := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.' || r == '-' || r == '+')
	})
	num, unit := s, ""
	if i >= 0 {
		num, unit = s[:i], strings.ToLower(strings.TrimSpace(s[i:]))
	}
	x, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Unset(), fmt.Errorf("illegal length %q: %w", s, err)
	}
	if unit == "" {
		if x != 0 {
			return Unset(), fmt.Errorf("length %q is missing a unit", s)
		}
		return JustDimen(0), nil
	}
	if pts, ok := absoluteUnits[unit]; ok {
		return JustDimen(dimen.DU(math.Round(x * pts * float64(dimen.PT)))), nil
	}
	return FontRelative(x, unit)
}

// MustParseLength is like ParseLength, but panics on error. Intended for
// package-level defaults.
func MustParseLength(s string) Length {
	l, err := ParseLength(s)
	if err != nil {
		panic(err)
	}
	return l
}

// ---------------------------------------------------------------------------

// Match starts a type switch over the variants of a length.
func (l Length) Match() *Matcher {
	return &Matcher{length: l}
}

// Matcher matches variants of a length, extracting values.
type Matcher struct {
	length Length
}

// IsKind matches if l is of the same variant as the matcher's length.
func (m *Matcher) IsKind(l Length) *Matcher {
	if m.length.flags&kindMask == l.flags&kindMask {
		return m
	}
	return nil
}

// Just matches absolute lengths.
func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.length.flags&kindMask == lengthAbsolute {
		if du != nil {
			*du = m.length.d
		}
		return m
	}
	return nil
}

// Percentage matches relative lengths.
func (m *Matcher) Percentage(p *Percent) *Matcher {
	if m.length.flags&kindMask == lengthPercent {
		if p != nil {
			*p = m.length.percent
		}
		return m
	}
	return nil
}

// FontRelative matches font-relative lengths.
func (m *Matcher) FontRelative(x *float64, unit *string) *Matcher {
	if m.length.flags&kindMask == lengthFontRel {
		if x != nil {
			*x = float64(m.length.rel) / scaleBase
		}
		if unit != nil {
			*unit = m.length.unit()
		}
		return m
	}
	return nil
}

// --- Expression matching ---------------------------------------------------

// LengthPatterns holds a result value for each variant of a length.
type LengthPatterns[T any] struct {
	Unset        T
	Just         T
	Percentage   T
	FontRelative T
	Default      T
}

// LengthPattern starts a pattern match over a length, yielding a T.
func LengthPattern[T any](l Length) *MatchExpr[T] {
	return &MatchExpr[T]{length: l}
}

// MatchExpr is a pattern match in progress.
type MatchExpr[T any] struct {
	length Length
}

// OneOf selects the pattern value for the variant of the length.
func (m *MatchExpr[T]) OneOf(patterns LengthPatterns[T]) T {
	switch m.length.flags & kindMask {
	case lengthNone:
		return patterns.Unset
	case lengthAbsolute:
		return patterns.Just
	case lengthPercent:
		return patterns.Percentage
	case lengthFontRel:
		return patterns.FontRelative
	}
	return patterns.Default
}

// With extracts the absolute value of a length.
func (m *MatchExpr[T]) With(du *dimen.DU) *MatchExpr[T] {
	*du = m.length.d
	return m
}
