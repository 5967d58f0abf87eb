package sqliteengine

import (
	"context"

	"github.com/opdskit/opds-catalog-go/catalog"
)

const universeAuthors = "authors"

// AuthorsNextCharByPrefix returns the distinct last names starting with prefix, case-insensitively,
// each cut to one character more than prefix.
func (c *Catalog) AuthorsNextCharByPrefix(ctx context.Context, prefix string) ([]string, error) {
	return c.nextChar(ctx, authorNextCharByPrefix, prefix)
}

// SearchAuthorsByPrefix expands prefix over the stored last names.
// It returns the complete last names reached and the prefixes the expansion forked at.
func (c *Catalog) SearchAuthorsByPrefix(ctx context.Context, prefix string) (complete []string, incomplete []string, err error) {
	return c.search(ctx, universeAuthors, authorNextCharByPrefix, prefix)
}

// AuthorsByLastName returns the authors with exactly the given last name.
func (c *Catalog) AuthorsByLastName(ctx context.Context, lastName string) ([]catalog.Author, error) {
	return queryAll(ctx, c, authorsByLastName, mapperAuthor, decodeAuthor, lastName)
}

// AuthorByIDs returns the author with the given identity triple, or ErrNotFound.
func (c *Catalog) AuthorByIDs(ctx context.Context, ids catalog.AuthorIDs) (catalog.Author, error) {
	authors, err := queryAll(ctx, c, authorByIDs, mapperAuthor, decodeAuthor, ids.First, ids.Middle, ids.Last)
	if err != nil {
		return catalog.Author{}, err
	}

	if len(authors) == 0 {
		return catalog.Author{}, catalog.ErrNotFound
	}

	return authors[0], nil
}

// AuthorsByGenreID returns the authors of books in the genre.
func (c *Catalog) AuthorsByGenreID(ctx context.Context, genreID int64) ([]catalog.Author, error) {
	return queryAll(ctx, c, authorsByGenreID, mapperAuthor, decodeAuthor, genreID)
}

// AuthorsByBookIDs returns the distinct authors credited with any of the books.
func (c *Catalog) AuthorsByBookIDs(ctx context.Context, bookIDs []int64) ([]catalog.Author, error) {
	ids, err := bindIDSet(bookIDs)
	if err != nil {
		return nil, c.bindFailed(ctx, authorsByBookIDs, err)
	}

	return queryAll(ctx, c, authorsByBookIDs, mapperAuthor, decodeAuthor, ids)
}
