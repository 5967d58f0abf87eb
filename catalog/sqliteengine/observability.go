package sqliteengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/opdskit/opds-catalog-go/catalog"
)

const (
	metricQueryDuration  = "catalog_query_duration_seconds"
	metricRowsReturned   = "catalog_rows_returned"
	metricSearchDuration = "catalog_search_duration_seconds"
	metricDatabaseErrors = "catalog_database_errors_total"

	spanNameQuery  = "catalog.query"
	spanNameSearch = "catalog.search"

	spanAttrOperation       = "operation"
	spanAttrErrorType       = "error_type"
	spanAttrRowCount        = "row_count"
	spanAttrDurationMS      = "duration_ms"
	spanAttrUniverse        = "universe"
	spanAttrMask            = "mask"
	spanAttrCompleteCount   = "complete_count"
	spanAttrIncompleteCount = "incomplete_count"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeCatalogLookup = "catalog_lookup"
	errorTypeBindParams    = "bind_parameters"
	errorTypeDatabaseQuery = "database_query"
	errorTypeRowScan       = "row_scan"
	errorTypeRowDecode     = "row_decode"
	errorTypeFetcher       = "fetcher"
)

// logQueryWithDuration logs executed SQL with its execution time at debug level if the logger is configured.
func (c *Catalog) logQueryWithDuration(ctx context.Context, q queryID, duration time.Duration) {
	if c.logger != nil {
		c.logger.Debug(logMsgSQLExecuted+q.String(), logAttrDurationMS, c.toMilliseconds(duration), logAttrQuery, q.String())
	}

	if c.contextualLogger != nil {
		c.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+q.String(), logAttrDurationMS, c.toMilliseconds(duration), logAttrQuery, q.String())
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (c *Catalog) logOperation(ctx context.Context, action string, args ...any) {
	if c.logger != nil {
		c.logger.Info(logMsgOperation+action, args...)
	}

	if c.contextualLogger != nil {
		c.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (c *Catalog) logError(message string, err error, args ...any) {
	if c.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		c.logger.Error(message, allArgs...)
	}
}

// logErrorContext logs error information with context correlation.
func (c *Catalog) logErrorContext(ctx context.Context, message string, err error, args ...any) {
	c.logError(message, err, args...)

	if c.contextualLogger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		c.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// logWarnContext logs non-critical issues at warn level.
func (c *Catalog) logWarnContext(ctx context.Context, message string, err error) {
	if c.logger != nil {
		c.logger.Warn(message, logAttrError, err.Error())
	}

	if c.contextualLogger != nil {
		c.contextualLogger.WarnContext(ctx, message, logAttrError, err.Error())
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (c *Catalog) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (c *Catalog) formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2f", c.toMilliseconds(d))
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (c *Catalog) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if c.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	if contextualCollector, ok := c.metricsCollector.(catalog.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
	} else {
		c.metricsCollector.RecordDuration(metricName, duration, labels)
	}
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (c *Catalog) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	operation, status string,
) {
	if c.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	if contextualCollector, ok := c.metricsCollector.(catalog.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
	} else {
		c.metricsCollector.RecordValue(metricName, value, labels)
	}
}

// recordErrorMetricsContext records error metrics with context if the collector supports it.
func (c *Catalog) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if c.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          statusError,
		spanAttrErrorType: errorType,
	}

	if contextualCollector, ok := c.metricsCollector.(catalog.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
	} else {
		c.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (c *Catalog) startTraceSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, catalog.SpanContext) {
	if c.tracingCollector != nil {
		return c.tracingCollector.StartSpan(ctx, name, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (c *Catalog) finishTraceSpan(span catalog.SpanContext, status string, attrs map[string]string) {
	if c.tracingCollector != nil && span != nil {
		c.tracingCollector.FinishSpan(span, status, attrs)
	}
}

// === Query Observer ===
// queryObserver bundles span and metrics bookkeeping for one catalog query.

type queryObserver struct {
	c     *Catalog
	ctx   context.Context
	q     queryID
	span  catalog.SpanContext
	start time.Time
}

// observeQuery starts the span for a query and returns the observer with the span's context.
func (c *Catalog) observeQuery(ctx context.Context, q queryID) (*queryObserver, context.Context) {
	spanCtx, span := c.startTraceSpan(ctx, spanNameQuery, map[string]string{
		spanAttrOperation: q.String(),
	})

	return &queryObserver{c: c, ctx: spanCtx, q: q, span: span, start: time.Now()}, spanCtx
}

func (o *queryObserver) finishSuccess(rowCount int) {
	duration := time.Since(o.start)

	o.c.recordDurationMetricsContext(o.ctx, metricQueryDuration, duration, o.q.String(), statusSuccess)
	o.c.recordValueMetricsContext(o.ctx, metricRowsReturned, float64(rowCount), o.q.String(), statusSuccess)

	if o.span != nil {
		o.span.SetStatus(statusSuccess)
		o.span.AddAttribute(spanAttrRowCount, fmt.Sprintf("%d", rowCount))
		o.span.AddAttribute(spanAttrDurationMS, o.c.formatDuration(duration))
	}

	o.c.finishTraceSpan(o.span, statusSuccess, map[string]string{
		spanAttrRowCount: fmt.Sprintf("%d", rowCount),
	})

	o.c.logOperation(o.ctx, logMsgQueryCompleted,
		logAttrQuery, o.q.String(),
		logAttrRowCount, rowCount,
		logAttrDurationMS, o.c.toMilliseconds(duration),
	)
}

func (o *queryObserver) finishError(errorType string) {
	duration := time.Since(o.start)

	o.c.recordDurationMetricsContext(o.ctx, metricQueryDuration, duration, o.q.String(), statusError)
	o.c.recordErrorMetricsContext(o.ctx, o.q.String(), errorType)

	if o.span != nil {
		o.span.SetStatus(statusError)
		o.span.AddAttribute(spanAttrErrorType, errorType)
		o.span.AddAttribute(spanAttrDurationMS, o.c.formatDuration(duration))
	}

	o.c.finishTraceSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// === Search Observer ===
// searchObserver bundles span and metrics bookkeeping for one autocomplete search.

type searchObserver struct {
	c        *Catalog
	ctx      context.Context
	universe string
	mask     string
	span     catalog.SpanContext
	start    time.Time
}

// observeSearch starts the span for an autocomplete search over one universe of names.
func (c *Catalog) observeSearch(ctx context.Context, universe, mask string) (*searchObserver, context.Context) {
	spanCtx, span := c.startTraceSpan(ctx, spanNameSearch, map[string]string{
		spanAttrOperation: opSearchPrefix + universe,
		spanAttrUniverse:  universe,
		spanAttrMask:      mask,
	})

	return &searchObserver{c: c, ctx: spanCtx, universe: universe, mask: mask, span: span, start: time.Now()}, spanCtx
}

func (o *searchObserver) finishSuccess(complete, incomplete []string) {
	duration := time.Since(o.start)
	operation := opSearchPrefix + o.universe

	o.c.recordDurationMetricsContext(o.ctx, metricSearchDuration, duration, operation, statusSuccess)

	attrs := map[string]string{
		spanAttrCompleteCount:   fmt.Sprintf("%d", len(complete)),
		spanAttrIncompleteCount: fmt.Sprintf("%d", len(incomplete)),
	}

	if o.span != nil {
		o.span.SetStatus(statusSuccess)
		o.span.AddAttribute(spanAttrDurationMS, o.c.formatDuration(duration))
	}

	o.c.finishTraceSpan(o.span, statusSuccess, attrs)

	o.c.logOperation(o.ctx, logMsgSearchCompleted,
		logAttrUniverse, o.universe,
		logAttrMask, o.mask,
		logAttrCompleteCount, len(complete),
		logAttrIncompleteCount, len(incomplete),
		logAttrDurationMS, o.c.toMilliseconds(duration),
	)
}

func (o *searchObserver) finishError(err error) {
	duration := time.Since(o.start)
	operation := opSearchPrefix + o.universe

	o.c.recordDurationMetricsContext(o.ctx, metricSearchDuration, duration, operation, statusError)

	if o.span != nil {
		o.span.SetStatus(statusError)
		o.span.AddAttribute(spanAttrErrorType, errorTypeFetcher)
	}

	o.c.finishTraceSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorTypeFetcher})
	o.c.logErrorContext(o.ctx, logMsgSearchFailed, err, logAttrUniverse, o.universe, logAttrMask, o.mask)
}
