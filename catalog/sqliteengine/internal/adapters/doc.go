// Package adapters provide database adapter implementations for the SQLite catalog engine.
//
// Two connection types are supported, sql.DB and sqlx.DB. Both adapters provide
// equivalent functionality through the common DBAdapter interface, so the catalog
// works with either connection type.
//
// The adapters only read: the catalog store is opened query-only and nothing here executes writes.
package adapters
