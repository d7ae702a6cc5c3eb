package sql

import (
	"database/sql"

	"github.com/omniscale/osmcsv/shape"
)

type tableTx struct {
	Tx         *sql.Tx
	Table      *shape.Table
	InsertStmt *sql.Stmt
	InsertSQL  string
	bulkImport bool
}

func (tt *tableTx) Begin(db *sql.DB, qb QueryBuilder) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	tt.Tx = tx

	tt.InsertSQL = qb.InsertSQL(tt.Table)
	stmt, err := tt.Tx.Prepare(tt.InsertSQL)
	if err != nil {
		tt.Rollback()
		return &SQLError{tt.InsertSQL, err}
	}
	tt.InsertStmt = stmt
	return nil
}

func (tt *tableTx) Insert(row []interface{}) error {
	_, err := tt.InsertStmt.Exec(row...)
	if err != nil {
		return &SQLInsertError{SQLError{tt.InsertSQL, err}, row}
	}
	return nil
}

func (tt *tableTx) Commit() error {
	if tt.bulkImport {
		// flush COPY
		if _, err := tt.InsertStmt.Exec(); err != nil {
			return &SQLError{tt.InsertSQL, err}
		}
	}
	if err := tt.InsertStmt.Close(); err != nil {
		return &SQLError{tt.InsertSQL, err}
	}
	err := tt.Tx.Commit()
	if err != nil {
		return err
	}
	tt.Tx = nil
	return nil
}

func (tt *tableTx) Rollback() {
	rollbackIfTx(&tt.Tx)
}
