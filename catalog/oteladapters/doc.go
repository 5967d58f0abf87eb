// Package oteladapters provides OpenTelemetry implementations of the catalog observability interfaces.
//
// Use them with the sqliteengine options:
//
//	c, err := sqliteengine.Open(ctx, path,
//		sqliteengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("opds-catalog")),
//		sqliteengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("opds-catalog"))),
//		sqliteengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("opds-catalog"))),
//	)
package oteladapters
