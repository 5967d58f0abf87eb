package sqliteengine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/opdskit/opds-catalog-go/catalog"
)

// queryID identifies one entry of the query catalog.
type queryID int

const (
	authorNextCharByPrefix queryID = iota
	serieNextCharByPrefix
	bookNextCharByPrefix
	metaGenres
	genresByMeta
	authorByIDs
	authorsByGenreID
	authorsByLastName
	authorsByBookIDs
	seriesByIDs
	seriesByGenreID
	seriesBySerieName
	seriesByAuthorIDs
	bookByID
	booksBySerieID
	booksByAuthorIDs
	booksByGenreIDAndDate
	booksByTitle
)

// mapperKind names the decoder a query's rows are read with.
type mapperKind int

const (
	mapperNone mapperKind = iota
	mapperString
	mapperValue
	mapperAuthor
	mapperSerie
	mapperBook
)

var allQueries = []queryID{
	authorNextCharByPrefix,
	serieNextCharByPrefix,
	bookNextCharByPrefix,
	metaGenres,
	genresByMeta,
	authorByIDs,
	authorsByGenreID,
	authorsByLastName,
	authorsByBookIDs,
	seriesByIDs,
	seriesByGenreID,
	seriesBySerieName,
	seriesByAuthorIDs,
	bookByID,
	booksBySerieID,
	booksByAuthorIDs,
	booksByGenreIDAndDate,
	booksByTitle,
}

// String returns the operation name used in logs, metrics and spans.
func (q queryID) String() string {
	switch q {
	case authorNextCharByPrefix:
		return "author_next_char_by_prefix"
	case serieNextCharByPrefix:
		return "serie_next_char_by_prefix"
	case bookNextCharByPrefix:
		return "book_next_char_by_prefix"
	case metaGenres:
		return "meta_genres"
	case genresByMeta:
		return "genres_by_meta"
	case authorByIDs:
		return "author_by_ids"
	case authorsByGenreID:
		return "authors_by_genre_id"
	case authorsByLastName:
		return "authors_by_last_name"
	case authorsByBookIDs:
		return "authors_by_book_ids"
	case seriesByIDs:
		return "series_by_ids"
	case seriesByGenreID:
		return "series_by_genre_id"
	case seriesBySerieName:
		return "series_by_serie_name"
	case seriesByAuthorIDs:
		return "series_by_author_ids"
	case bookByID:
		return "book_by_id"
	case booksBySerieID:
		return "books_by_serie_id"
	case booksByAuthorIDs:
		return "books_by_author_ids"
	case booksByGenreIDAndDate:
		return "books_by_genre_id_and_date"
	case booksByTitle:
		return "books_by_title"
	default:
		return fmt.Sprintf("query(%d)", int(q))
	}
}

// mapper returns the decoder kind for the query's rows.
func (q queryID) mapper() mapperKind {
	switch q {
	case authorNextCharByPrefix, serieNextCharByPrefix, bookNextCharByPrefix, metaGenres:
		return mapperString
	case genresByMeta:
		return mapperValue
	case authorByIDs, authorsByGenreID, authorsByLastName, authorsByBookIDs:
		return mapperAuthor
	case seriesByIDs, seriesByGenreID, seriesBySerieName, seriesByAuthorIDs:
		return mapperSerie
	case bookByID, booksBySerieID, booksByAuthorIDs, booksByGenreIDAndDate, booksByTitle:
		return mapperBook
	default:
		return mapperNone
	}
}

// text returns the parameterized SQL registered for the query.
func (q queryID) text() (string, error) {
	text, ok := queryTexts[q]
	if !ok {
		return "", fmt.Errorf("%w: %s", catalog.ErrCatalogLookup, q)
	}

	return text, nil
}

var (
	catalogCheckOnce sync.Once
	catalogCheckErr  error
)

// verifyQueryCatalog checks that every query has text and a decoder, and that no text is orphaned.
// The result is computed once per process.
func verifyQueryCatalog() error {
	catalogCheckOnce.Do(func() {
		catalogCheckErr = checkQueryCatalog(allQueries, queryTexts)
	})

	return catalogCheckErr
}

func checkQueryCatalog(queries []queryID, texts map[queryID]string) error {
	var errs []error

	if len(queries) != len(texts) {
		errs = append(errs, fmt.Errorf("%d queries but %d query texts", len(queries), len(texts)))
	}

	for _, q := range queries {
		if text, ok := texts[q]; !ok || text == "" {
			errs = append(errs, fmt.Errorf("%s has no text", q))
		}

		if q.mapper() == mapperNone {
			errs = append(errs, fmt.Errorf("%s has no mapper", q))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{catalog.ErrCatalogLookup}, errs...)...)
	}

	return nil
}

const authorColumns = `
	first_names.id AS fid, first_names.value AS fname,
	middle_names.id AS mid, middle_names.value AS mname,
	last_names.id AS lid, last_names.value AS lname`

const authorJoins = `
JOIN first_names ON first_names.id = authors_map.first_name_id
JOIN middle_names ON middle_names.id = authors_map.middle_name_id
JOIN last_names ON last_names.id = authors_map.last_name_id`

const authorOrder = `lname COLLATE opds, fname COLLATE opds, mname COLLATE opds`

const serieColumns = `
	series.id AS id,
	series.value AS name,`

const bookColumns = `
	books.book_id AS id,
	titles.value AS name,
	series.id AS sid,
	series_map.serie_num AS idx,` + authorColumns + `,
	books.book_size AS size,
	dates.value AS added`

const bookJoins = `
JOIN books ON books.book_id = authors_map.book_id
JOIN titles ON titles.id = books.title_id
JOIN dates ON dates.id = books.date_id
LEFT JOIN series_map ON series_map.book_id = books.book_id
LEFT JOIN series ON series.id = series_map.serie_id` + authorJoins

const bookOrder = `sid, idx, name COLLATE opds, added`

// nextCharText selects the distinct non-NULL values of table's value column that
// case-insensitively start with ?2, truncated to ?1 runes.
func nextCharText(table string) string {
	return `
SELECT value FROM (
	SELECT DISTINCT substr(value, 1, ?1) AS value
	FROM ` + table + `
	WHERE value IS NOT NULL AND instr(opds_fold(value), opds_fold(?2)) = 1
)
ORDER BY value COLLATE opds`
}

var queryTexts = map[queryID]string{
	authorNextCharByPrefix: nextCharText("last_names"),

	serieNextCharByPrefix: nextCharText("series"),

	bookNextCharByPrefix: nextCharText("titles"),

	metaGenres: `
SELECT DISTINCT meta AS value
FROM genres_def
ORDER BY meta COLLATE opds`,

	genresByMeta: `
SELECT genres.id AS id, genres_def.genre AS value
FROM genres_def
JOIN genres ON genres.value = genres_def.code
WHERE genres_def.meta = ?1
ORDER BY genres_def.genre COLLATE opds`,

	authorByIDs: `
SELECT` + authorColumns + `
FROM first_names, middle_names, last_names
WHERE first_names.id = ?1 AND middle_names.id = ?2 AND last_names.id = ?3`,

	authorsByGenreID: `
SELECT DISTINCT` + authorColumns + `
FROM genres_map
JOIN authors_map ON authors_map.book_id = genres_map.book_id` + authorJoins + `
WHERE genres_map.genre_id = ?1
ORDER BY ` + authorOrder,

	authorsByLastName: `
SELECT DISTINCT` + authorColumns + `
FROM authors_map` + authorJoins + `
WHERE last_names.value = ?1
ORDER BY ` + authorOrder,

	authorsByBookIDs: `
SELECT DISTINCT` + authorColumns + `
FROM authors_map` + authorJoins + `
WHERE authors_map.book_id IN (SELECT value FROM json_each(?1))
ORDER BY ` + authorOrder,

	seriesByIDs: `
SELECT` + serieColumns + `
	count(books.book_id) AS count,` + authorColumns + `
FROM series
JOIN series_map ON series_map.serie_id = series.id
JOIN books ON books.book_id = series_map.book_id
JOIN authors_map ON authors_map.book_id = series_map.book_id` + authorJoins + `
WHERE series.id IN (SELECT value FROM json_each(?1))
GROUP BY series.id, first_names.id, middle_names.id, last_names.id
ORDER BY name COLLATE opds, ` + authorOrder,

	seriesByGenreID: `
SELECT` + serieColumns + `
	count(series.value) AS count,` + authorColumns + `
FROM genres_map
JOIN series_map ON series_map.book_id = genres_map.book_id
JOIN series ON series.id = series_map.serie_id
JOIN authors_map ON authors_map.book_id = genres_map.book_id` + authorJoins + `
WHERE genres_map.genre_id = ?1 AND series.value IS NOT NULL
GROUP BY series.id, first_names.id, middle_names.id, last_names.id
ORDER BY name COLLATE opds, ` + authorOrder,

	seriesBySerieName: `
SELECT` + serieColumns + `
	count(books.book_id) AS count,` + authorColumns + `
FROM series
JOIN series_map ON series_map.serie_id = series.id
JOIN books ON books.book_id = series_map.book_id
JOIN authors_map ON authors_map.book_id = series_map.book_id` + authorJoins + `
WHERE series.value = ?1
GROUP BY series.id, first_names.id, middle_names.id, last_names.id
ORDER BY name COLLATE opds, ` + authorOrder,

	seriesByAuthorIDs: `
SELECT` + serieColumns + `
	count(books.book_id) AS count,` + authorColumns + `
FROM authors_map
JOIN books ON books.book_id = authors_map.book_id
JOIN series_map ON series_map.book_id = books.book_id
JOIN series ON series.id = series_map.serie_id` + authorJoins + `
WHERE authors_map.first_name_id = ?1 AND authors_map.middle_name_id = ?2 AND authors_map.last_name_id = ?3
GROUP BY series.id
ORDER BY name COLLATE opds, ` + authorOrder,

	bookByID: `
SELECT` + bookColumns + `
FROM authors_map` + bookJoins + `
WHERE books.book_id = ?1
ORDER BY ` + authorOrder,

	booksBySerieID: `
SELECT` + bookColumns + `
FROM authors_map` + bookJoins + `
WHERE series.id = ?1
ORDER BY idx, name COLLATE opds, added`,

	booksByAuthorIDs: `
SELECT` + bookColumns + `
FROM authors_map` + bookJoins + `
WHERE authors_map.first_name_id = ?1 AND authors_map.middle_name_id = ?2 AND authors_map.last_name_id = ?3
ORDER BY ` + bookOrder,

	booksByGenreIDAndDate: `
SELECT` + bookColumns + `
FROM genres_map
JOIN authors_map ON authors_map.book_id = genres_map.book_id` + bookJoins + `
WHERE genres_map.genre_id = ?1 AND dates.value LIKE ?2
ORDER BY ` + bookOrder,

	booksByTitle: `
SELECT` + bookColumns + `
FROM authors_map` + bookJoins + `
WHERE titles.value = ?1
ORDER BY ` + bookOrder,
}
