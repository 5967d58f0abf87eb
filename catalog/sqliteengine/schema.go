package sqliteengine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect import

	"github.com/opdskit/opds-catalog-go/catalog"
)

const (
	dialectSQLite3    = "sqlite3"
	tableSQLiteMaster = "sqlite_master"
	colMasterName     = "name"
	colMasterType     = "type"
)

// requiredTables lists the tables the query catalog reads from.
var requiredTables = []string{
	"authors_map",
	"books",
	"dates",
	"first_names",
	"genres",
	"genres_def",
	"genres_map",
	"last_names",
	"middle_names",
	"series",
	"series_map",
	"titles",
}

func buildSchemaQuery() (string, error) {
	query, _, err := goqu.Dialect(dialectSQLite3).
		From(tableSQLiteMaster).
		Select(colMasterName).
		Where(goqu.Ex{
			colMasterType: []string{"table", "view"},
			colMasterName: requiredTables,
		}).
		Order(goqu.I(colMasterName).Asc()).
		ToSQL()

	return query, err
}

// VerifySchema checks that the store holds every table the catalog queries read from.
// A missing table fails with ErrConnectionFailed and ErrSchemaIncomplete.
func (c *Catalog) VerifySchema(ctx context.Context) error {
	sqlQuery, buildErr := buildSchemaQuery()
	if buildErr != nil {
		c.logError(logMsgBuildSchemaQueryFailed, buildErr)
		return errors.Join(catalog.ErrConnectionFailed, buildErr)
	}

	rows, queryErr := c.db.Query(ctx, sqlQuery)
	if queryErr != nil {
		c.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, opVerifySchema)
		return errors.Join(catalog.ErrConnectionFailed, queryErr)
	}
	defer c.closeRows(ctx, rows)

	present := make([]string, 0, len(requiredTables))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return errors.Join(catalog.ErrConnectionFailed, err)
		}

		present = append(present, name)
	}

	if err := rows.Err(); err != nil {
		return errors.Join(catalog.ErrConnectionFailed, err)
	}

	missing := make([]string, 0)
	for _, table := range requiredTables {
		if !slices.Contains(present, table) {
			missing = append(missing, table)
		}
	}

	if len(missing) > 0 {
		err := fmt.Errorf("%w: %s", catalog.ErrSchemaIncomplete, strings.Join(missing, ", "))
		c.logError(logMsgSchemaIncomplete, err)

		return errors.Join(catalog.ErrConnectionFailed, err)
	}

	return nil
}
