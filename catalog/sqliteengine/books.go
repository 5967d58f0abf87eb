package sqliteengine

import (
	"context"

	"github.com/opdskit/opds-catalog-go/catalog"
)

const universeBooks = "books"

// BooksNextCharByPrefix returns the distinct titles starting with prefix, case-insensitively,
// each cut to one character more than prefix.
func (c *Catalog) BooksNextCharByPrefix(ctx context.Context, prefix string) ([]string, error) {
	return c.nextChar(ctx, bookNextCharByPrefix, prefix)
}

// SearchBooksByPrefix expands prefix over the stored titles.
func (c *Catalog) SearchBooksByPrefix(ctx context.Context, prefix string) (complete []string, incomplete []string, err error) {
	return c.search(ctx, universeBooks, bookNextCharByPrefix, prefix)
}

// BooksByTitle returns the books with exactly the given title.
func (c *Catalog) BooksByTitle(ctx context.Context, title string) ([]catalog.Book, error) {
	return queryAll(ctx, c, booksByTitle, mapperBook, decodeBook, title)
}

// BookByID returns the book once per credited author. The result is empty for an unknown id.
func (c *Catalog) BookByID(ctx context.Context, bookID int64) ([]catalog.Book, error) {
	return queryAll(ctx, c, bookByID, mapperBook, decodeBook, bookID)
}

// BooksByAuthorIDs returns the author's books, standalone books first, then by series and index.
func (c *Catalog) BooksByAuthorIDs(ctx context.Context, ids catalog.AuthorIDs) ([]catalog.Book, error) {
	return queryAll(ctx, c, booksByAuthorIDs, mapperBook, decodeBook, ids.First, ids.Middle, ids.Last)
}

// BooksByAuthorIDsAndSerieID returns the author's books in one series.
func (c *Catalog) BooksByAuthorIDsAndSerieID(ctx context.Context, ids catalog.AuthorIDs, serieID int64) ([]catalog.Book, error) {
	return c.filterBooksByAuthorIDs(ctx, ids, func(book catalog.Book) bool {
		return book.InSerie(serieID)
	})
}

// BooksByAuthorIDsWithoutSerie returns the author's books that are not part of a series.
func (c *Catalog) BooksByAuthorIDsWithoutSerie(ctx context.Context, ids catalog.AuthorIDs) ([]catalog.Book, error) {
	return c.filterBooksByAuthorIDs(ctx, ids, func(book catalog.Book) bool {
		return book.Serie == nil
	})
}

// BooksBySerieID returns the books of a series ordered by index.
func (c *Catalog) BooksBySerieID(ctx context.Context, serieID int64) ([]catalog.Book, error) {
	return queryAll(ctx, c, booksBySerieID, mapperBook, decodeBook, serieID)
}

// BooksByGenreIDAndDate returns the books of a genre whose added date matches the SQL LIKE pattern,
// e.g. "2024-06-%".
func (c *Catalog) BooksByGenreIDAndDate(ctx context.Context, genreID int64, datePattern string) ([]catalog.Book, error) {
	return queryAll(ctx, c, booksByGenreIDAndDate, mapperBook, decodeBook, genreID, datePattern)
}

func (c *Catalog) filterBooksByAuthorIDs(ctx context.Context, ids catalog.AuthorIDs, keep func(catalog.Book) bool) ([]catalog.Book, error) {
	books, err := c.BooksByAuthorIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	filtered := make([]catalog.Book, 0, len(books))
	for _, book := range books {
		if keep(book) {
			filtered = append(filtered, book)
		}
	}

	return filtered, nil
}
