package sqliteengine

import (
	"context"

	"github.com/opdskit/opds-catalog-go/catalog"
)

const universeSeries = "series"

// SeriesNextCharByPrefix returns the distinct series names starting with prefix, case-insensitively,
// each cut to one character more than prefix.
func (c *Catalog) SeriesNextCharByPrefix(ctx context.Context, prefix string) ([]string, error) {
	return c.nextChar(ctx, serieNextCharByPrefix, prefix)
}

// SearchSeriesByPrefix expands prefix over the stored series names.
func (c *Catalog) SearchSeriesByPrefix(ctx context.Context, prefix string) (complete []string, incomplete []string, err error) {
	return c.search(ctx, universeSeries, serieNextCharByPrefix, prefix)
}

// SeriesBySerieName returns the series with exactly the given name, one entry per author.
func (c *Catalog) SeriesBySerieName(ctx context.Context, name string) ([]catalog.Serie, error) {
	return queryAll(ctx, c, seriesBySerieName, mapperSerie, decodeSerie, name)
}

// SeriesByAuthorIDs returns the series the author has books in.
func (c *Catalog) SeriesByAuthorIDs(ctx context.Context, ids catalog.AuthorIDs) ([]catalog.Serie, error) {
	return queryAll(ctx, c, seriesByAuthorIDs, mapperSerie, decodeSerie, ids.First, ids.Middle, ids.Last)
}

// SeriesByGenreID returns the series with books in the genre, one entry per author.
func (c *Catalog) SeriesByGenreID(ctx context.Context, genreID int64) ([]catalog.Serie, error) {
	return queryAll(ctx, c, seriesByGenreID, mapperSerie, decodeSerie, genreID)
}

// SeriesByIDs returns the given series, one entry per author.
func (c *Catalog) SeriesByIDs(ctx context.Context, serieIDs []int64) ([]catalog.Serie, error) {
	ids, err := bindIDSet(serieIDs)
	if err != nil {
		return nil, c.bindFailed(ctx, seriesByIDs, err)
	}

	return queryAll(ctx, c, seriesByIDs, mapperSerie, decodeSerie, ids)
}
