package adapters

import "context"

// DBAdapter defines the interface for database operations needed by the catalog.
type DBAdapter interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Ping(ctx context.Context) error
	Close() error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
