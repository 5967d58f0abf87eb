package sqliteengine

import (
	"github.com/opdskit/opds-catalog-go/catalog"
	"github.com/opdskit/opds-catalog-go/catalog/collation"
)

// Option defines a functional option for configuring a Catalog.
type Option func(*Catalog) error

// WithLogger sets the logger for the Catalog.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Row counts and durations of completed queries and searches (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger catalog.Logger) Option {
	return func(c *Catalog) error {
		c.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Catalog.
// It receives the same messages as the Logger, together with the operation's context.
func WithContextualLogger(logger catalog.ContextualLogger) Option {
	return func(c *Catalog) error {
		c.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Catalog.
// The collector will receive query and search durations, returned row counts and database errors.
func WithMetrics(collector catalog.MetricsCollector) Option {
	return func(c *Catalog) error {
		c.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Catalog.
// The collector will receive one span per query and one per autocomplete search.
func WithTracing(collector catalog.TracingCollector) Option {
	return func(c *Catalog) error {
		c.tracingCollector = collector
		return nil
	}
}

// WithCollation sets the collation the store is opened with.
// Only Open honors it: for existing connections the driver they were opened with decides the ordering.
func WithCollation(coll *collation.Collation) Option {
	return func(c *Catalog) error {
		if coll == nil {
			return ErrNilCollation
		}

		c.collation = coll

		return nil
	}
}
