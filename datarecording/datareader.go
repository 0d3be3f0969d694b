package datarecording

import (
	"database/sql"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
)

// Reader reads tables written by a DataRecorder.
type Reader struct {
	*sql.DB
}

// NewReader opens the database file at path, including its extension.
func NewReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	return &Reader{DB: db}, nil
}

// ListTables returns the names of all tables in the database.
func (r *Reader) ListTables() ([]string, error) {
	rows, err := r.Query(
		"SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "list tables")
		}

		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// ReadTable loads every row of a table into out, which must point to a
// slice of the struct type the table was created with. Rows are returned in
// insertion order.
func (r *Reader) ReadTable(tableName string, out any) error {
	ptr := reflect.ValueOf(out)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Slice {
		return errors.Newf("out must be a pointer to a slice, got %T", out)
	}

	slice := ptr.Elem()
	elemType := slice.Type().Elem()

	names, err := fieldNames(reflect.Zero(elemType).Interface())
	if err != nil {
		return err
	}

	query := "SELECT " + strings.Join(names, ", ") +
		" FROM " + tableName + " ORDER BY rowid"

	rows, err := r.Query(query)
	if err != nil {
		return errors.Wrapf(err, "read table %s", tableName)
	}
	defer rows.Close()

	for rows.Next() {
		elem := reflect.New(elemType).Elem()

		dest := make([]any, elem.NumField())
		for i := range dest {
			dest[i] = elem.Field(i).Addr().Interface()
		}

		if err := rows.Scan(dest...); err != nil {
			return errors.Wrapf(err, "read table %s", tableName)
		}

		slice.Set(reflect.Append(slice, elem))
	}

	return rows.Err()
}
