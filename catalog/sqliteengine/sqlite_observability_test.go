package sqliteengine_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opdskit/opds-catalog-go/catalog"
	"github.com/opdskit/opds-catalog-go/catalog/sqliteengine"
	. "github.com/opdskit/opds-catalog-go/testutil/sqliteengine/helper" //nolint:revive
)

func Test_Observability_Catalog_WithLogger_LogsQueries(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)
	c := OpenFixtureCatalog(t, sqliteengine.WithLogger(slog.New(testHandler)))

	// act
	_, err := c.GenresByMeta(ctxWithTimeout, "Деловая литература")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, testHandler.GetRecordCount(), "a query should log one SQL statement and one operational statement")
	assert.True(t,
		testHandler.HasDebugLogWithMessage("executed sql for: genres_by_meta").
			WithDurationMS().
			Assert(), "should log the executed sql with duration_ms",
	)
	assert.True(t,
		testHandler.HasInfoLogWithMessage("catalog operation: query completed").
			WithAttribute("query", "genres_by_meta").
			WithRowCount(4).
			WithDurationMS().
			Assert(), "should log query completion with row count and duration",
	)
}

func Test_Observability_Catalog_WithLogger_LogsSearches(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)
	c := OpenFixtureCatalog(t, sqliteengine.WithLogger(slog.New(testHandler)))

	// act
	_, _, err := c.SearchAuthorsByPrefix(ctxWithTimeout, "Ке")

	// assert
	require.NoError(t, err)
	assert.True(t,
		testHandler.HasInfoLogWithMessage("catalog operation: search completed").
			WithAttribute("universe", "authors").
			WithAttribute("mask", "Ке").
			WithAttribute("complete_count", "2").
			WithAttribute("incomplete_count", "0").
			WithDurationMS().
			Assert(), "should log search completion with result counts",
	)
	assert.True(t,
		testHandler.HasDebugLogWithMessage("executed sql for: author_next_char_by_prefix").Assert(),
		"should log every next-character query of the search",
	)
}

func Test_Observability_Catalog_WithLogger_LogsErrors(t *testing.T) {
	// setup
	testHandler := NewLogHandlerSpy(false)
	c := OpenFixtureCatalog(t, sqliteengine.WithLogger(slog.New(testHandler)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	_, err := c.BooksByTitle(ctx, "Авиатрисы")

	// assert
	assert.ErrorIs(t, err, catalog.ErrQueryingCatalogFailed)
	assert.True(t,
		testHandler.HasErrorLogWithMessage("database query execution failed").
			WithAttribute("query", "books_by_title").
			WithError().
			Assert(), "should log the failed query with its error",
	)
}

func Test_Observability_Catalog_WithContextualLogger_LogsQueries(t *testing.T) {
	// setup
	testHandler := NewLogHandlerSpy(false)
	c := OpenFixtureCatalog(t, sqliteengine.WithContextualLogger(slog.New(testHandler)))

	// act
	_, err := c.MetaGenres(context.Background())

	// assert
	require.NoError(t, err)
	assert.True(t, testHandler.HasDebugLogWithMessage("executed sql for: meta_genres").Assert())
	assert.True(t,
		testHandler.HasInfoLogWithMessage("catalog operation: query completed").
			WithRowCount(4).
			Assert(),
	)
}

func Test_Observability_Catalog_WithMetrics_RecordsQueryMetrics(t *testing.T) {
	// setup
	metricsSpy := NewMetricsCollectorSpy(true)
	c := OpenFixtureCatalog(t, sqliteengine.WithMetrics(metricsSpy))

	// act
	_, err := c.AuthorsByGenreID(context.Background(), GenreSciHistory)

	// assert
	require.NoError(t, err)
	assert.True(t,
		metricsSpy.HasDurationRecordForMetric("catalog_query_duration_seconds").
			WithOperation("authors_by_genre_id").
			WithStatus("success").
			Assert(), "should record the query duration",
	)
	assert.True(t,
		metricsSpy.HasValueRecordForMetric("catalog_rows_returned").
			WithOperation("authors_by_genre_id").
			Assert(), "should record the returned rows",
	)

	values := metricsSpy.GetValueRecords()
	require.Len(t, values, 1)
	assert.Equal(t, float64(3), values[0].Value)
	assert.Equal(t, 2, metricsSpy.GetContextCallCount(), "should use the context-aware methods")
}

func Test_Observability_Catalog_WithMetrics_RecordsSearchMetrics(t *testing.T) {
	// setup
	metricsSpy := NewMetricsCollectorSpy(true)
	c := OpenFixtureCatalog(t, sqliteengine.WithMetrics(metricsSpy))

	// act
	_, _, err := c.SearchAuthorsByPrefix(context.Background(), "Ке")

	// assert
	require.NoError(t, err)
	assert.True(t,
		metricsSpy.HasDurationRecordForMetric("catalog_search_duration_seconds").
			WithOperation("search_authors").
			WithStatus("success").
			Assert(),
	)
	assert.Equal(t, 3, metricsSpy.CountDurationRecordsForMetric("catalog_query_duration_seconds"),
		"the search should run one next-character query per expansion step")
}

func Test_Observability_Catalog_WithMetrics_RecordsErrors(t *testing.T) {
	// setup
	metricsSpy := NewMetricsCollectorSpy(true)
	c := OpenFixtureCatalog(t, sqliteengine.WithMetrics(metricsSpy))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	_, err := c.SeriesByGenreID(ctx, GenreSciHistory)

	// assert
	assert.Error(t, err)
	assert.True(t,
		metricsSpy.HasCounterRecordForMetric("catalog_database_errors_total").
			WithOperation("series_by_genre_id").
			WithErrorType("database_query").
			Assert(),
	)
	assert.True(t,
		metricsSpy.HasDurationRecordForMetric("catalog_query_duration_seconds").
			WithStatus("error").
			Assert(),
	)
}

func Test_Observability_Catalog_WithTracing_CreatesQuerySpans(t *testing.T) {
	// setup
	tracingSpy := NewTracingCollectorSpy(true)
	c := OpenFixtureCatalog(t, sqliteengine.WithTracing(tracingSpy))

	// act
	_, err := c.BooksBySerieID(context.Background(), SerieBlood)

	// assert
	require.NoError(t, err)
	assert.True(t,
		tracingSpy.HasSpanRecordForName("catalog.query").
			WithStartAttribute("operation", "books_by_serie_id").
			WithStatus("success").
			WithEndAttribute("row_count", "2").
			WithSpanAttribute("row_count", "2").
			Assert(), "should record a successful query span",
	)
}

func Test_Observability_Catalog_WithTracing_CreatesSearchSpans(t *testing.T) {
	// setup
	tracingSpy := NewTracingCollectorSpy(true)
	c := OpenFixtureCatalog(t, sqliteengine.WithTracing(tracingSpy))

	// act
	_, _, err := c.SearchAuthorsByPrefix(context.Background(), "Ст")

	// assert
	require.NoError(t, err)
	assert.True(t,
		tracingSpy.HasSpanRecordForName("catalog.search").
			WithStartAttribute("universe", "authors").
			WithStartAttribute("mask", "Ст").
			WithStatus("success").
			WithEndAttribute("complete_count", "0").
			WithEndAttribute("incomplete_count", "2").
			Assert(), "should record the search span with its result counts",
	)
	assert.Equal(t, 2, tracingSpy.CountSpanRecordsForName("catalog.query"))
}

func Test_Observability_Catalog_WithTracing_MarksFailedSearches(t *testing.T) {
	// setup
	tracingSpy := NewTracingCollectorSpy(true)
	c := OpenFixtureCatalog(t, sqliteengine.WithTracing(tracingSpy))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	_, _, err := c.SearchSeriesByPrefix(ctx, "W")

	// assert
	assert.ErrorIs(t, err, catalog.ErrFetcherFailed)
	assert.True(t,
		tracingSpy.HasSpanRecordForName("catalog.search").
			WithStatus("error").
			WithEndAttribute("error_type", "fetcher").
			Assert(),
	)
	assert.True(t,
		tracingSpy.HasSpanRecordForName("catalog.query").
			WithStatus("error").
			WithEndAttribute("error_type", "database_query").
			Assert(),
	)
}

func Test_Observability_Catalog_WithAllCollectors_ShouldAnswerLikeWithout(t *testing.T) {
	// setup
	c := OpenFixtureCatalog(t,
		sqliteengine.WithLogger(slog.New(NewLogHandlerSpy(false))),
		sqliteengine.WithMetrics(NewMetricsCollectorSpy(true)),
		sqliteengine.WithTracing(NewTracingCollectorSpy(true)),
	)
	plain := OpenFixtureCatalog(t)

	// act
	observed, observedErr := c.BooksByAuthorIDs(context.Background(), AnnaVeles)
	expected, expectedErr := plain.BooksByAuthorIDs(context.Background(), AnnaVeles)

	// assert
	require.NoError(t, observedErr)
	require.NoError(t, expectedErr)
	assert.Equal(t, expected, observed)
}
