// Package collation provides the string ordering and case folding that the catalog
// registers with every SQLite connection.
//
// Compare is a total order: the locale collator decides first, and byte order breaks
// the ties the collator leaves, so only identical strings compare equal.
// Fold is full Unicode case folding, used for case-insensitive prefix matching.
package collation

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// Name is the collation name used in ORDER BY clauses.
	Name = "opds"

	// FoldFunctionName is the name of the scalar SQL function applying Fold.
	FoldFunctionName = "opds_fold"
)

// Default orders strings by Russian collation rules.
var Default = New(language.Russian)

var foldCasers = sync.Pool{
	New: func() any {
		caser := cases.Fold()
		return &caser
	},
}

// Collation compares strings under the rules of one language.
// It is safe for concurrent use.
type Collation struct {
	tag       language.Tag
	collators sync.Pool
}

// New returns a Collation for the given language.
func New(tag language.Tag) *Collation {
	c := &Collation{tag: tag}
	c.collators.New = func() any {
		return collate.New(tag)
	}

	return c
}

// Tag returns the language the Collation orders by.
func (c *Collation) Tag() language.Tag {
	return c.tag
}

// Compare returns a negative number if a sorts before b, a positive number if after, and 0 only if a == b.
func (c *Collation) Compare(a, b string) int {
	collator := c.collators.Get().(*collate.Collator)
	result := collator.CompareString(a, b)
	c.collators.Put(collator)

	if result != 0 {
		return result
	}

	return strings.Compare(a, b)
}

// Compare orders a and b with the Default collation.
func Compare(a, b string) int {
	return Default.Compare(a, b)
}

// Fold returns the full Unicode case folding of s.
func Fold(s string) string {
	caser := foldCasers.Get().(*cases.Caser)
	folded := caser.String(s)
	foldCasers.Put(caser)

	return folded
}

// EqualFold reports whether a and b are equal under Fold.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
