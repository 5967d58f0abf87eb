// Package sqliteengine provides the SQLite implementation of the read-only catalog.
//
// The store is opened query-only through a mattn/go-sqlite3 driver registered per collation
// language. Every connection of that driver carries the "opds" collation used by all
// ORDER BY clauses and the "opds_fold" function used for case-insensitive prefix matching.
//
// All questions are answered from a closed catalog of parameterized queries. Each query
// is bound to one row decoder, rows are decoded by column name. Name lookups by prefix
// (last names, series names, titles) run through catalog.SearchByMask.
//
// Basic usage:
//
//	c, err := sqliteengine.Open(ctx, "/var/lib/opds/books.db",
//		sqliteengine.WithLogger(slog.Default()),
//	)
//	if err != nil {
//		// handle error
//	}
//	defer c.Close()
//
//	complete, incomplete, err := c.SearchAuthorsByPrefix(ctx, "Алекс")
//
// Observability is optional and configured like this:
//
//	c, err := sqliteengine.Open(ctx, path,
//		sqliteengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("catalog")),
//		sqliteengine.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		sqliteengine.WithTracing(oteladapters.NewTracingCollector(tracer)),
//	)
package sqliteengine
