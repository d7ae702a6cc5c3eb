package sqlite

import (
	"fmt"
	"strings"

	"github.com/omniscale/osmcsv/database/sql"
	"github.com/omniscale/osmcsv/shape"
)

type QueryBuilder struct{}

func quote(ident string) string {
	return `"` + strings.Replace(ident, `"`, `""`, -1) + `"`
}

func columnType(t shape.ColumnType) string {
	switch t {
	case shape.Integer, shape.Position:
		return "INTEGER"
	case shape.Float:
		return "REAL"
	}
	return "TEXT"
}

func (q *QueryBuilder) DropTableSQL(table *shape.Table) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", quote(table.Name))
}

func (q *QueryBuilder) CreateTableSQL(table *shape.Table) string {
	return sql.CreateTableSQL(quote(table.Name), table, quote, columnType)
}

func (q *QueryBuilder) InsertSQL(table *shape.Table) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table.Name), sql.ColumnList(table, quote), placeholders)
}

func (q *QueryBuilder) SelectSQL(table *shape.Table, limit int) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid LIMIT %d",
		sql.ColumnList(table, quote), quote(table.Name), limit)
}
