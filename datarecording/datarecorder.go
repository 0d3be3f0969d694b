// Package datarecording stores flat records in an SQLite database.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/structs"
	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of
	// sampleEntry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of the tables created so far.
	ListTables() []string

	// Flush writes all buffered entries into the database.
	Flush()

	// Close flushes and closes the database.
	Close()
}

// ErrInvalidEntry is returned for entries that are not flat structs of
// scalar fields.
var ErrInvalidEntry = errors.New("entry must be a struct of scalar fields")

// New creates a DataRecorder writing to path + ".sqlite3". An empty path
// generates a unique file name. The recorder is flushed on atexit.Exit.
func New(path string) DataRecorder {
	w := NewSQLiteWriter(path)
	w.Init()

	atexit.Register(func() { w.Flush() })

	return w
}

// NewWithDB creates a DataRecorder on an open database.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &SQLiteWriter{
		DB:        db,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

const defaultBatchSize = 100000

type table struct {
	structType reflect.Type
	entries    []any
}

// SQLiteWriter is the DataRecorder that writes into an SQLite database.
type SQLiteWriter struct {
	*sql.DB

	dbName     string
	tables     map[string]*table
	batchSize  int
	entryCount int
}

// NewSQLiteWriter creates an SQLiteWriter. Call Init before use.
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{
		dbName:    path,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}
}

// WithBatchSize sets how many entries are buffered before an automatic
// flush.
func (w *SQLiteWriter) WithBatchSize(n int) *SQLiteWriter {
	if n < 1 {
		n = 1
	}

	w.batchSize = n

	return w
}

// Init creates the database file. It panics if the file already exists.
func (w *SQLiteWriter) Init() {
	if w.dbName == "" {
		w.dbName = "revstep_recording_" + xid.New().String()
	}

	filename := w.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w.DB = db
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// fieldNames returns the column names of a valid entry.
func fieldNames(entry any) ([]string, error) {
	typ := reflect.TypeOf(entry)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrInvalidEntry, "got %T", entry)
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() || !isAllowedKind(field.Type.Kind()) {
			return nil, errors.Wrapf(ErrInvalidEntry,
				"field %s of %s", field.Name, typ)
		}
	}

	return structs.Names(entry), nil
}

// CreateTable creates a new table.
func (w *SQLiteWriter) CreateTable(tableName string, sampleEntry any) {
	names, err := fieldNames(sampleEntry)
	if err != nil {
		panic(err)
	}

	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + strings.Join(names, ", \n\t") + "\n" + `);`
	w.mustExecute(createTableSQL)

	w.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
		entries:    []any{},
	}
}

// InsertData buffers an entry.
func (w *SQLiteWriter) InsertData(tableName string, entry any) {
	table, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != table.structType {
		panic(fmt.Sprintf("table %s stores %s, got %T",
			tableName, table.structType, entry))
	}

	table.entries = append(table.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		w.Flush()
	}
}

// ListTables returns the created table names, sorted.
func (w *SQLiteWriter) ListTables() []string {
	tables := make([]string, 0, len(w.tables))
	for name := range w.tables {
		tables = append(tables, name)
	}

	sort.Strings(tables)

	return tables
}

// Flush writes all buffered entries in one transaction.
func (w *SQLiteWriter) Flush() {
	if w.entryCount == 0 {
		return
	}

	tx, err := w.Begin()
	if err != nil {
		panic(err)
	}

	for tableName, table := range w.tables {
		if len(table.entries) == 0 {
			continue
		}

		stmt, err := tx.Prepare(insertSQL(tableName, table.structType))
		if err != nil {
			panic(err)
		}

		for _, entry := range table.entries {
			v := reflect.ValueOf(entry)
			args := make([]any, v.NumField())
			for i := range args {
				args[i] = v.Field(i).Interface()
			}

			if _, err := stmt.Exec(args...); err != nil {
				panic(err)
			}
		}

		stmt.Close()
		table.entries = nil
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	w.entryCount = 0
}

// Close flushes the pending entries and closes the database.
func (w *SQLiteWriter) Close() {
	w.Flush()

	if err := w.DB.Close(); err != nil {
		panic(err)
	}
}

func (w *SQLiteWriter) mustExecute(query string) sql.Result {
	res, err := w.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func insertSQL(tableName string, typ reflect.Type) string {
	marks := make([]string, typ.NumField())
	for i := range marks {
		marks[i] = "?"
	}

	return "INSERT INTO " + tableName +
		" VALUES (" + strings.Join(marks, ", ") + ")"
}
