package exporter

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/FAU-CDI/ntparse/pkg/ntriples"
	"github.com/huandu/go-sqlbuilder"
)

// SQL writes triples into a single table of an sql database.
//
// Every triple becomes one row.
// Empty language and datatype columns are stored as NULL.
type SQL struct {
	DB          *sql.DB
	Table       string // name of the table to write into, defaults to [DefaultTable]
	BatchSize   int    // number of rows to insert at once
	MaxQueryVar int    // Maximum number of query variables (overrides BatchSize)

	dbLock    sync.Mutex
	batchLock sync.Mutex
	batch     [][]any
}

// DefaultTable is the table used when SQL.Table is empty.
const DefaultTable = "triples"

const (
	subjectColumn   = "subject"
	predicateColumn = "predicate"
	objectColumn    = "object"
	kindColumn      = "kind"
	languageColumn  = "language"
	datatypeColumn  = "datatype"
)

var sqlColumns = []string{subjectColumn, predicateColumn, objectColumn, kindColumn, languageColumn, datatypeColumn}

// values for the kind column
const (
	KindReference = "reference"
	KindBlankNode = "blank"
	KindLiteral   = "literal"
)

var (
	nullString               sql.NullString
	errInsufficientQueryVars = errors.New("insufficient query variables")
	errUnknownTerm           = errors.New("unknown term")
)

// NewSQL prepares db for receiving triples and returns a new exporter.
// Any existing table of the same name is dropped.
func NewSQL(db *sql.DB, table string, batchSize, maxQueryVar int) (*SQL, error) {
	exporter := &SQL{
		DB:          db,
		Table:       table,
		BatchSize:   batchSize,
		MaxQueryVar: maxQueryVar,
	}
	if err := exporter.createTable(); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return exporter, nil
}

func (sql *SQL) table() string {
	if sql.Table == "" {
		return DefaultTable
	}
	return sql.Table
}

// exec executes an sql query
func (sql *SQL) exec(query string, args []any) (err error) {
	sql.dbLock.Lock()
	defer sql.dbLock.Unlock()

	_, err = sql.DB.Exec(query, args...)
	return
}

func (sql *SQL) createTable() error {
	if err := sql.exec("DROP TABLE IF EXISTS "+sql.table()+";", nil); err != nil {
		return err
	}

	table := sqlbuilder.CreateTable(sql.table()).IfNotExists()
	table.Define(subjectColumn, "TEXT", "NOT NULL")
	table.Define(predicateColumn, "TEXT", "NOT NULL")
	table.Define(objectColumn, "TEXT", "NOT NULL")
	table.Define(kindColumn, "TEXT", "NOT NULL")
	table.Define(languageColumn, "TEXT")
	table.Define(datatypeColumn, "TEXT")
	return sql.exec(table.Build())
}

// execInsert inserts values into the given columns of the table.
// When this would exceed limits on maximum number of query variables, multiple inserts are executed.
func (sql *SQL) execInsert(columns []string, values [][]any) error {
	if len(values) == 0 {
		return nil
	}

	chunkSize := len(values)
	if sql.MaxQueryVar > 0 {
		chunkSize = sql.MaxQueryVar / len(columns)
		if chunkSize == 0 {
			return errInsufficientQueryVars
		}
	}
	if sql.BatchSize > 0 && sql.BatchSize < chunkSize {
		chunkSize = sql.BatchSize
	}

	for start := 0; start < len(values); start += chunkSize {
		end := start + chunkSize
		if end > len(values) {
			end = len(values)
		}

		insert := sqlbuilder.InsertInto(sql.table())
		insert.Cols(columns...)
		for _, v := range values[start:end] {
			insert.Values(v...)
		}

		if err := sql.exec(insert.Build()); err != nil {
			return err
		}
	}
	return nil
}

// row turns a triple into the values of a single row
func row(subject ntriples.Term, predicate ntriples.Reference, object ntriples.Term) ([]any, error) {
	var sub string
	switch subject := subject.(type) {
	case ntriples.Reference:
		sub = string(subject)
	case ntriples.BlankNode:
		sub = "_:" + string(subject)
	default:
		return nil, fmt.Errorf("%w %T", errUnknownTerm, subject)
	}

	values := []any{sub, string(predicate), nil, nil, nullString, nullString}
	switch object := object.(type) {
	case ntriples.Reference:
		values[2], values[3] = string(object), KindReference
	case ntriples.BlankNode:
		values[2], values[3] = "_:"+string(object), KindBlankNode
	case ntriples.Literal:
		values[2], values[3] = object.Value, KindLiteral
		if object.Language != "" {
			values[4] = object.Language
		}
		if object.Datatype != "" {
			values[5] = string(object.Datatype)
		}
	default:
		return nil, fmt.Errorf("%w %T", errUnknownTerm, object)
	}
	return values, nil
}

func (sql *SQL) Triple(subject ntriples.Term, predicate ntriples.Reference, object ntriples.Term) error {
	values, err := row(subject, predicate, object)
	if err != nil {
		return err
	}

	batch := func() [][]any {
		sql.batchLock.Lock()
		defer sql.batchLock.Unlock()

		sql.batch = append(sql.batch, values)
		if len(sql.batch) < sql.BatchSize {
			return nil
		}

		batch := sql.batch
		sql.batch = nil
		return batch
	}()

	return sql.execInsert(sqlColumns, batch)
}

// Close inserts any remaining rows and then closes the database.
func (sql *SQL) Close() error {
	rest := func() [][]any {
		sql.batchLock.Lock()
		defer sql.batchLock.Unlock()

		rest := sql.batch
		sql.batch = nil
		return rest
	}()

	return errors.Join(
		sql.execInsert(sqlColumns, rest),
		sql.DB.Close(),
	)
}
