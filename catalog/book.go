package catalog

import (
	"fmt"
	"strings"
)

const (
	kibibyte = 1024
	mebibyte = kibibyte * kibibyte
)

// SerieRef places a Book within a series.
type SerieRef struct {
	ID       int64
	Index    int64
	Numbered bool // false when the position in the series is unknown
}

// Book is a catalog entry credited to a single author.
// A book with several authors is listed once per author.
type Book struct {
	ID     int64
	Title  string
	Serie  *SerieRef // nil when the book is not part of a series
	Author Author
	Size   int64
	Added  string
}

// InSerie reports whether the book belongs to the series with the given id.
func (b Book) InSerie(serieID int64) bool {
	return b.Serie != nil && b.Serie.ID == serieID
}

// String renders the book as "{index} {title} - {author} ({added}) [{size}]".
// The index prefix is present only for numbered books in a series, the author part only for a non-empty author.
func (b Book) String() string {
	var sb strings.Builder

	if b.Serie != nil && b.Serie.Numbered {
		fmt.Fprintf(&sb, "%d ", b.Serie.Index)
	}

	sb.WriteString(b.Title)

	if author := b.Author.String(); author != "" {
		sb.WriteString(" - ")
		sb.WriteString(author)
	}

	fmt.Fprintf(&sb, " (%s) [%s]", b.Added, FormatSize(b.Size))

	return sb.String()
}

// FormatSize renders a byte count in B, KB or MB with two decimals for the scaled units.
func FormatSize(size int64) string {
	switch {
	case size < kibibyte:
		return fmt.Sprintf("%d B", size)
	case size < mebibyte:
		return fmt.Sprintf("%.2f KB", float64(size)/kibibyte)
	default:
		return fmt.Sprintf("%.2f MB", float64(size)/mebibyte)
	}
}
