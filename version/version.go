// Package version implements a total order over free-form version strings.
//
// A version is parsed into a left-to-right sequence of parts: a dash, a
// run of digits, or a run of any other characters. The order is designed
// so that a dash-prefixed suffix (a pre-release) sorts below the bare
// version while any other suffix sorts above it: "7.15.1-pre.1" < "7.15.1"
// but "7.15.1" < "7.15.1a". Digit runs compare numerically regardless of
// magnitude because comparison is by significant-digit count, then by
// digit text, so values beyond any fixed-width integer still order
// correctly.
package version

import "strings"

type partKind uint8

const (
	kindDash partKind = iota
	kindNumber
	kindString
)

type part struct {
	kind partKind
	text string
}

// Version is an immutable parsed version string.
type Version struct {
	raw   string
	parts []part
}

// Parse splits a version string into its ordered parts.
func Parse(s string) Version {
	var parts []part
	for i := 0; i < len(s); {
		switch {
		case s[i] == '-':
			parts = append(parts, part{kind: kindDash})
			i++
		case isDigit(s[i]):
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			parts = append(parts, part{kind: kindNumber, text: s[i:j]})
			i = j
		default:
			j := i
			for j < len(s) && s[j] != '-' && !isDigit(s[j]) {
				j++
			}
			parts = append(parts, part{kind: kindString, text: s[i:j]})
			i = j
		}
	}
	return Version{raw: s, parts: parts}
}

// String returns the original version text.
func (v Version) String() string { return v.raw }

// Compare returns -1, 0 or 1 ordering v against o.
func (v Version) Compare(o Version) int {
	n := len(v.parts)
	if len(o.parts) < n {
		n = len(o.parts)
	}
	for i := 0; i < n; i++ {
		if c := comparePart(v.parts[i], o.parts[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(v.parts) == len(o.parts):
		return 0
	case len(v.parts) < len(o.parts):
		// A dash suffix is a pre-release and sorts below the base
		// version; any other suffix sorts above it.
		if o.parts[n].kind == kindDash {
			return 1
		}
		return -1
	default:
		if v.parts[n].kind == kindDash {
			return -1
		}
		return 1
	}
}

// Less reports whether v orders strictly before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// Equal reports whether v and o occupy the same position in the order.
// Versions with distinct text can be equal, e.g. "1.0" and "1.00".
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

func comparePart(a, b part) int {
	if a.kind != b.kind {
		// Dash sorts below everything, numbers below strings.
		switch {
		case a.kind == kindDash:
			return -1
		case b.kind == kindDash:
			return 1
		case a.kind == kindNumber:
			return -1
		default:
			return 1
		}
	}
	switch a.kind {
	case kindNumber:
		return compareNumber(a.text, b.text)
	case kindString:
		return strings.Compare(a.text, b.text)
	default:
		return 0
	}
}

// compareNumber orders two digit runs numerically: fewer significant
// digits is smaller, equal-length runs compare lexicographically.
func compareNumber(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
