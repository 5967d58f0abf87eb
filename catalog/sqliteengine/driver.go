package sqliteengine

import (
	"database/sql"
	"net/url"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/opdskit/opds-catalog-go/catalog/collation"
)

const driverNamePrefix = "sqlite3_opds_"

var (
	driversMu sync.Mutex
	drivers   = make(map[string]struct{})
)

// DriverName returns the database/sql driver name registered for the given collation.
func DriverName(c *collation.Collation) string {
	return driverNamePrefix + c.Tag().String()
}

// RegisterDriver registers a SQLite driver whose connections carry the "opds" collation
// ordering by c and the "opds_fold" case folding function. It returns the driver name
// and is a no-op for a collation language already registered.
func RegisterDriver(c *collation.Collation) string {
	name := DriverName(c)

	driversMu.Lock()
	defer driversMu.Unlock()

	if _, ok := drivers[name]; ok {
		return name
	}

	sql.Register(name, &sqlite3.SQLiteDriver{ConnectHook: connectHook(c)})
	drivers[name] = struct{}{}

	return name
}

func connectHook(c *collation.Collation) func(*sqlite3.SQLiteConn) error {
	return func(conn *sqlite3.SQLiteConn) error {
		if err := conn.RegisterCollation(collation.Name, c.Compare); err != nil {
			return err
		}

		return conn.RegisterFunc(collation.FoldFunctionName, collation.Fold, true)
	}
}

// ReadOnlyDSN returns a data source name opening the SQLite file at path read-only.
// The path is percent-escaped so that '?', '#' and '%' stay part of the file name.
func ReadOnlyDSN(path string) string {
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro&_query_only=true"
}
