package postgres

import (
	"fmt"

	pq "github.com/lib/pq"

	"github.com/omniscale/osmcsv/database/sql"
	"github.com/omniscale/osmcsv/shape"
)

type QueryBuilder struct {
	Schema string
}

func (q *QueryBuilder) table(table *shape.Table) string {
	if q.Schema == "" {
		return pq.QuoteIdentifier(table.Name)
	}
	return pq.QuoteIdentifier(q.Schema) + "." + pq.QuoteIdentifier(table.Name)
}

func columnType(t shape.ColumnType) string {
	switch t {
	case shape.Integer:
		return "BIGINT"
	case shape.Float:
		return "DOUBLE PRECISION"
	case shape.Position:
		return "INTEGER"
	}
	return "TEXT"
}

func (q *QueryBuilder) DropTableSQL(table *shape.Table) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", q.table(table))
}

func (q *QueryBuilder) CreateTableSQL(table *shape.Table) string {
	return sql.CreateTableSQL(q.table(table), table, pq.QuoteIdentifier, columnType)
}

// InsertSQL returns a COPY FROM STDIN statement.
func (q *QueryBuilder) InsertSQL(table *shape.Table) string {
	if q.Schema == "" {
		return pq.CopyIn(table.Name, table.Header()...)
	}
	return pq.CopyInSchema(q.Schema, table.Name, table.Header()...)
}

func (q *QueryBuilder) SelectSQL(table *shape.Table, limit int) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT %d",
		sql.ColumnList(table, pq.QuoteIdentifier), q.table(table),
		pq.QuoteIdentifier(table.Columns[0].Name), limit)
}
