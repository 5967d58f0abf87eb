package catalog

import "errors"

var ErrNilDatabaseConnection = errors.New("database connection is nil")
var ErrConnectionFailed = errors.New("catalog store could not be opened or verified")
var ErrSchemaIncomplete = errors.New("catalog store is missing required tables")
var ErrCatalogLookup = errors.New("query catalog has no text for the requested query")
var ErrQueryingCatalogFailed = errors.New("querying the catalog failed")
var ErrDecodeFailed = errors.New("decoding a catalog row failed")
var ErrFetcherFailed = errors.New("fetching next-character candidates failed")
var ErrNotFound = errors.New("catalog entry not found")
