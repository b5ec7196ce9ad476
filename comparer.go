package storage

import "golang.org/x/text/cases"

// Comparer decides when two path segments are the same.
//
// Two segments are equal under a Comparer when their normalized forms are
// byte-identical, which keeps Path.EqualWith and Path.HashWith consistent
// with each other.
type Comparer interface {
	// Normalize returns the canonical form of a segment.
	Normalize(segment string) string
}

// ComparerFunc adapts a normalization function to the Comparer interface.
type ComparerFunc func(segment string) string

// Normalize calls f(segment).
func (f ComparerFunc) Normalize(segment string) string {
	return f(segment)
}

var (
	// Ordinal compares segments byte by byte.
	Ordinal Comparer = ComparerFunc(func(s string) string { return s })

	// OrdinalIgnoreCase compares segments after full Unicode case folding.
	// Full folding may change the length of a segment, so "straße" equals
	// "STRASSE" under it. Use a ComparerFunc built on unicode.SimpleFold for
	// rune-by-rune folding.
	OrdinalIgnoreCase Comparer = ComparerFunc(func(s string) string {
		// A Caser keeps state between calls and cannot be shared.
		return cases.Fold().String(s)
	})
)

// SegmentsEqual reports whether a and b are equal under c.
// A nil Comparer means Ordinal.
func SegmentsEqual(a, b string, c Comparer) bool {
	if c == nil {
		return a == b
	}
	return c.Normalize(a) == c.Normalize(b)
}
