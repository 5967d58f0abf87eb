package sqliteengine

import (
	"fmt"
	"time"

	"github.com/opdskit/opds-catalog-go/catalog"
)

const (
	colID    = "id"
	colValue = "value"
	colName  = "name"
	colCount = "count"
	colFID   = "fid"
	colFName = "fname"
	colMID   = "mid"
	colMName = "mname"
	colLID   = "lid"
	colLName = "lname"
	colSID   = "sid"
	colIdx   = "idx"
	colSize  = "size"
	colAdded = "added"
)

const dateLayout = "2006-01-02"

// columnIndex maps result column names to their ordinals, resolved once per row-set.
type columnIndex map[string]int

func newColumnIndex(columns []string) columnIndex {
	index := make(columnIndex, len(columns))
	for i, column := range columns {
		if _, ok := index[column]; !ok {
			index[column] = i
		}
	}

	return index
}

// resultRow is one scanned row, read by column name.
type resultRow struct {
	columns columnIndex
	values  []any
}

func (r resultRow) lookup(column string) (any, error) {
	i, ok := r.columns[column]
	if !ok {
		return nil, fmt.Errorf("%w: column %q missing from result", catalog.ErrDecodeFailed, column)
	}

	return r.values[i], nil
}

func (r resultRow) integer(column string) (int64, error) {
	raw, err := r.lookup(column)
	if err != nil {
		return 0, err
	}

	value, ok := raw.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: column %q holds %T, want integer", catalog.ErrDecodeFailed, column, raw)
	}

	return value, nil
}

// optionalInteger reads an integer column that may be NULL.
func (r resultRow) optionalInteger(column string) (int64, bool, error) {
	raw, err := r.lookup(column)
	if err != nil {
		return 0, false, err
	}

	if raw == nil {
		return 0, false, nil
	}

	value, ok := raw.(int64)
	if !ok {
		return 0, false, fmt.Errorf("%w: column %q holds %T, want integer", catalog.ErrDecodeFailed, column, raw)
	}

	return value, true, nil
}

func (r resultRow) text(column string) (string, error) {
	raw, err := r.lookup(column)
	if err != nil {
		return "", err
	}

	switch value := raw.(type) {
	case string:
		return value, nil
	case []byte:
		return string(value), nil
	case time.Time:
		return value.Format(dateLayout), nil
	default:
		return "", fmt.Errorf("%w: column %q holds %T, want text", catalog.ErrDecodeFailed, column, raw)
	}
}

func decodeString(row resultRow) (string, error) {
	return row.text(colValue)
}

func decodeValue(row resultRow) (catalog.Value, error) {
	return decodeLabeled(row, colID, colValue)
}

func decodeLabeled(row resultRow, idColumn, valueColumn string) (catalog.Value, error) {
	id, err := row.integer(idColumn)
	if err != nil {
		return catalog.Value{}, err
	}

	value, err := row.text(valueColumn)
	if err != nil {
		return catalog.Value{}, err
	}

	return catalog.NewValue(id, value), nil
}

func decodeAuthor(row resultRow) (catalog.Author, error) {
	first, err := decodeLabeled(row, colFID, colFName)
	if err != nil {
		return catalog.Author{}, err
	}

	middle, err := decodeLabeled(row, colMID, colMName)
	if err != nil {
		return catalog.Author{}, err
	}

	last, err := decodeLabeled(row, colLID, colLName)
	if err != nil {
		return catalog.Author{}, err
	}

	return catalog.Author{FirstName: first, MiddleName: middle, LastName: last}, nil
}

func decodeSerie(row resultRow) (catalog.Serie, error) {
	id, err := row.integer(colID)
	if err != nil {
		return catalog.Serie{}, err
	}

	name, err := row.text(colName)
	if err != nil {
		return catalog.Serie{}, err
	}

	count, err := row.integer(colCount)
	if err != nil {
		return catalog.Serie{}, err
	}

	author, err := decodeAuthor(row)
	if err != nil {
		return catalog.Serie{}, err
	}

	return catalog.Serie{ID: id, Name: name, Count: count, Author: author}, nil
}

func decodeBook(row resultRow) (catalog.Book, error) {
	id, err := row.integer(colID)
	if err != nil {
		return catalog.Book{}, err
	}

	title, err := row.text(colName)
	if err != nil {
		return catalog.Book{}, err
	}

	serieID, inSerie, err := row.optionalInteger(colSID)
	if err != nil {
		return catalog.Book{}, err
	}

	index, numbered, err := row.optionalInteger(colIdx)
	if err != nil {
		return catalog.Book{}, err
	}

	author, err := decodeAuthor(row)
	if err != nil {
		return catalog.Book{}, err
	}

	size, err := row.integer(colSize)
	if err != nil {
		return catalog.Book{}, err
	}

	added, err := row.text(colAdded)
	if err != nil {
		return catalog.Book{}, err
	}

	book := catalog.Book{ID: id, Title: title, Author: author, Size: size, Added: added}
	if inSerie {
		book.Serie = &catalog.SerieRef{ID: serieID, Index: index, Numbered: numbered}
	}

	return book, nil
}
