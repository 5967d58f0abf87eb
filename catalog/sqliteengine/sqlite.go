package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/opdskit/opds-catalog-go/catalog"
	"github.com/opdskit/opds-catalog-go/catalog/collation"
	"github.com/opdskit/opds-catalog-go/catalog/sqliteengine/internal/adapters"
)

const (
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgDecodeRowFailed        = "failed to decode database row"
	logMsgBindParamsFailed       = "failed to bind query parameters"
	logMsgCatalogLookupFailed    = "query catalog lookup failed"
	logMsgBuildSchemaQueryFailed = "failed to build schema query"
	logMsgSchemaIncomplete       = "catalog schema is incomplete"
	logMsgSearchFailed           = "autocomplete search failed"
	logMsgQueryCompleted         = "query completed"
	logMsgSearchCompleted        = "search completed"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "catalog operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrRowCount              = "row_count"
	logAttrDurationMS            = "duration_ms"
	logAttrUniverse              = "universe"
	logAttrMask                  = "mask"
	logAttrCompleteCount         = "complete_count"
	logAttrIncompleteCount       = "incomplete_count"
	opVerifySchema               = "verify_schema"
	opSearchPrefix               = "search_"
	pragmaQueryOnly              = "PRAGMA query_only"
)

var ErrNilCollation = errors.New("collation is nil")

// Catalog answers catalog questions against a SQLite store.
// It holds no mutable state besides the connection pool and is safe for concurrent use.
type Catalog struct {
	db               adapters.DBAdapter
	collation        *collation.Collation
	logger           catalog.Logger
	contextualLogger catalog.ContextualLogger
	metricsCollector catalog.MetricsCollector
	tracingCollector catalog.TracingCollector
}

func newCatalog(db adapters.DBAdapter, options ...Option) (*Catalog, error) {
	if err := verifyQueryCatalog(); err != nil {
		return nil, err
	}

	c := &Catalog{
		db:        db,
		collation: collation.Default,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewCatalogFromSQLDB creates a Catalog on an existing sql.DB.
// The connection must have been opened with a driver from RegisterDriver,
// otherwise the queries fail for the missing collation and fold function.
func NewCatalogFromSQLDB(db *sql.DB, options ...Option) (*Catalog, error) {
	if db == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	return newCatalog(adapters.NewSQLAdapter(db), options...)
}

// NewCatalogFromSQLX creates a Catalog on an existing sqlx.DB.
// The same driver requirement as for NewCatalogFromSQLDB applies.
func NewCatalogFromSQLX(db *sqlx.DB, options ...Option) (*Catalog, error) {
	if db == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	return newCatalog(adapters.NewSQLXAdapter(db), options...)
}

// Open opens the SQLite catalog file at path read-only and verifies its schema.
// Any failure to open or verify the store is reported as ErrConnectionFailed.
func Open(ctx context.Context, path string, options ...Option) (*Catalog, error) {
	c, err := newCatalog(nil, options...)
	if err != nil {
		return nil, err
	}

	driverName := RegisterDriver(c.collation)

	db, err := sqlx.Open(driverName, ReadOnlyDSN(path))
	if err != nil {
		return nil, errors.Join(catalog.ErrConnectionFailed, err)
	}

	c.db = adapters.NewSQLXAdapter(db)

	if err = c.db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(catalog.ErrConnectionFailed, err)
	}

	if err = c.VerifySchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

// Close closes the underlying connection pool.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// IsReadOnly reports whether the store rejects writes.
func (c *Catalog) IsReadOnly(ctx context.Context) (bool, error) {
	rows, err := c.db.Query(ctx, pragmaQueryOnly)
	if err != nil {
		c.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, pragmaQueryOnly)
		return false, errors.Join(catalog.ErrQueryingCatalogFailed, err)
	}
	defer c.closeRows(ctx, rows)

	var queryOnly int64
	if rows.Next() {
		if err = rows.Scan(&queryOnly); err != nil {
			return false, errors.Join(catalog.ErrQueryingCatalogFailed, err)
		}
	}

	if err = rows.Err(); err != nil {
		return false, errors.Join(catalog.ErrQueryingCatalogFailed, err)
	}

	return queryOnly == 1, nil
}

// closeRows closes database rows and logs any errors.
func (c *Catalog) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		c.logWarnContext(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// rowDecoder turns one result row into an entity.
type rowDecoder[T any] func(row resultRow) (T, error)

// queryAll runs a catalog query and decodes all of its rows with decode,
// which must be the decoder registered for q.
func queryAll[T any](
	ctx context.Context,
	c *Catalog,
	q queryID,
	kind mapperKind,
	decode rowDecoder[T],
	args ...any,
) ([]T, error) {

	observer, ctx := c.observeQuery(ctx, q)

	if q.mapper() != kind {
		err := errors.Join(catalog.ErrCatalogLookup, errors.New("decoder does not match "+q.String()))
		c.logErrorContext(ctx, logMsgCatalogLookupFailed, err, logAttrQuery, q.String())
		observer.finishError(errorTypeCatalogLookup)

		return nil, err
	}

	sqlQuery, err := q.text()
	if err != nil {
		c.logErrorContext(ctx, logMsgCatalogLookupFailed, err, logAttrQuery, q.String())
		observer.finishError(errorTypeCatalogLookup)

		return nil, err
	}

	start := time.Now()
	rows, err := c.db.Query(ctx, sqlQuery, args...)
	c.logQueryWithDuration(ctx, q, time.Since(start))

	if err != nil {
		c.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, q.String())
		observer.finishError(errorTypeDatabaseQuery)

		return nil, errors.Join(catalog.ErrQueryingCatalogFailed, err)
	}
	defer c.closeRows(ctx, rows)

	result, errorType, err := decodeRows(rows, decode)
	if err != nil {
		message := logMsgScanRowFailed
		if errorType == errorTypeRowDecode {
			message = logMsgDecodeRowFailed
		}

		c.logErrorContext(ctx, message, err, logAttrQuery, q.String())
		observer.finishError(errorType)

		return nil, err
	}

	observer.finishSuccess(len(result))

	return result, nil
}

func decodeRows[T any](rows adapters.DBRows, decode rowDecoder[T]) ([]T, string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, errorTypeRowScan, errors.Join(catalog.ErrQueryingCatalogFailed, err)
	}

	index := newColumnIndex(columns)
	result := make([]T, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if err = rows.Scan(dest...); err != nil {
			return nil, errorTypeRowScan, errors.Join(catalog.ErrQueryingCatalogFailed, err)
		}

		entity, decodeErr := decode(resultRow{columns: index, values: values})
		if decodeErr != nil {
			return nil, errorTypeRowDecode, decodeErr
		}

		result = append(result, entity)
	}

	if err = rows.Err(); err != nil {
		return nil, errorTypeRowScan, errors.Join(catalog.ErrQueryingCatalogFailed, err)
	}

	return result, "", nil
}

// bindFailed reports an id-set parameter that could not be encoded.
func (c *Catalog) bindFailed(ctx context.Context, q queryID, err error) error {
	c.logErrorContext(ctx, logMsgBindParamsFailed, err, logAttrQuery, q.String())
	c.recordErrorMetricsContext(ctx, q.String(), errorTypeBindParams)

	return errors.Join(catalog.ErrQueryingCatalogFailed, err)
}

// search runs the autocomplete engine over one universe of names with q as next-character query.
func (c *Catalog) search(ctx context.Context, universe string, q queryID, prefix string) ([]string, []string, error) {
	observer, ctx := c.observeSearch(ctx, universe, prefix)

	complete, incomplete, err := catalog.SearchByMask(ctx, prefix, func(ctx context.Context, mask string) ([]string, error) {
		return c.nextChar(ctx, q, mask)
	})
	if err != nil {
		observer.finishError(err)
		return nil, nil, err
	}

	observer.finishSuccess(complete, incomplete)

	return complete, incomplete, nil
}

// nextChar returns the distinct values starting with mask, truncated to one rune more than mask.
func (c *Catalog) nextChar(ctx context.Context, q queryID, mask string) ([]string, error) {
	length := len([]rune(mask)) + 1

	return queryAll(ctx, c, q, mapperString, decodeString, length, mask)
}
