package sqliteengine

import (
	"context"

	"github.com/opdskit/opds-catalog-go/catalog"
)

// MetaGenres returns the top-level genre groups in collation order.
func (c *Catalog) MetaGenres(ctx context.Context) ([]string, error) {
	return queryAll(ctx, c, metaGenres, mapperString, decodeString)
}

// GenresByMeta returns the genres of one genre group in collation order.
func (c *Catalog) GenresByMeta(ctx context.Context, meta string) ([]catalog.Value, error) {
	return queryAll(ctx, c, genresByMeta, mapperValue, decodeValue, meta)
}
