// Package sql implements database.DB for database/sql drivers. Dialect
// differences are handled by a QueryBuilder.
package sql

import (
	"database/sql"
	"fmt"

	"github.com/omniscale/osmcsv/database"
	"github.com/omniscale/osmcsv/logging"
	"github.com/omniscale/osmcsv/shape"
)

var log = logging.NewLogger("SQL")

type SQLError struct {
	query         string
	originalError error
}

func (e *SQLError) Error() string {
	return fmt.Sprintf("SQL Error: %s in query %s", e.originalError.Error(), e.query)
}

type SQLInsertError struct {
	SQLError
	data interface{}
}

func (e *SQLInsertError) Error() string {
	return fmt.Sprintf("SQL Error: %s in query %s (%+v)", e.originalError.Error(), e.query, e.data)
}

type QueryBuilder interface {
	DropTableSQL(table *shape.Table) string
	CreateTableSQL(table *shape.Table) string
	// InsertSQL returns the statement for inserts of all columns in
	// column order. For bulk inserts, the statement is executed once
	// without arguments after the last row.
	InsertSQL(table *shape.Table) string
	SelectSQL(table *shape.Table, limit int) string
}

type SQLDB struct {
	Db     *sql.DB
	Params string
	Config database.Config
	QB     QueryBuilder
	// BulkSupported is true if InsertSQL returns a COPY statement.
	BulkSupported bool
}

func createTable(tx *sql.Tx, qb QueryBuilder, table *shape.Table) error {
	sql := qb.DropTableSQL(table)
	if _, err := tx.Exec(sql); err != nil {
		return &SQLError{sql, err}
	}
	sql = qb.CreateTableSQL(table)
	if _, err := tx.Exec(sql); err != nil {
		return &SQLError{sql, err}
	}
	return nil
}

// Init drops and creates all tables.
func (sdb *SQLDB) Init() error {
	defer log.StopStep(log.StartStep("Creating tables"))

	tx, err := sdb.Db.Begin()
	if err != nil {
		return err
	}
	defer rollbackIfTx(&tx)
	for _, table := range shape.Tables {
		if err := createTable(tx, sdb.QB, table); err != nil {
			return err
		}
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	tx = nil
	return nil
}

func (sdb *SQLDB) Begin(table *shape.Table) (database.TableTx, error) {
	tt := &tableTx{
		Table:      table,
		bulkImport: sdb.BulkSupported,
	}
	if err := tt.Begin(sdb.Db, sdb.QB); err != nil {
		return nil, err
	}
	return tt, nil
}

func (sdb *SQLDB) Sample(table *shape.Table, n int) ([][]string, error) {
	query := sdb.QB.SelectSQL(table, n)
	rows, err := sdb.Db.Query(query)
	if err != nil {
		return nil, &SQLError{query, err}
	}
	defer rows.Close()

	var result [][]string
	vals := make([]sql.NullString, len(table.Columns))
	dest := make([]interface{}, len(vals))
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, &SQLError{query, err}
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = v.String
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &SQLError{query, err}
	}
	return result, nil
}

func (sdb *SQLDB) Close() error {
	return sdb.Db.Close()
}
