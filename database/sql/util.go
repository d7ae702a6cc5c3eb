package sql

import (
	"database/sql"
	"strings"

	"github.com/omniscale/osmcsv/shape"
)

// rollbackIfTx rollsback transaction if tx is not nil.
func rollbackIfTx(tx **sql.Tx) {
	if *tx != nil {
		if err := (*tx).Rollback(); err != nil {
			log.Errorf("rollback failed: %s", err)
		}
		*tx = nil
	}
}

// PrimaryKey returns the primary key columns of table. Tag tables have no
// primary key.
func PrimaryKey(table *shape.Table) []string {
	if table.Parent == nil {
		return []string{"id"}
	}
	for _, col := range table.Columns {
		if col.Type == shape.Position {
			return []string{"id", col.Name}
		}
	}
	return nil
}

// CreateTableSQL returns a CREATE TABLE statement for table with the
// (quoted) name. quote quotes identifiers and colType returns the SQL type
// of a column.
func CreateTableSQL(name string, table *shape.Table, quote func(string) string, colType func(shape.ColumnType) string) string {
	cols := make([]string, 0, len(table.Columns)+1)
	for _, col := range table.Columns {
		def := quote(col.Name) + " " + colType(col.Type)
		if col.Required {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}
	if pk := PrimaryKey(table); len(pk) > 0 {
		cols = append(cols, "PRIMARY KEY ("+quoteAll(pk, quote)+")")
	}
	return "CREATE TABLE " + name + " (\n    " +
		strings.Join(cols, ",\n    ") + "\n)"
}

// ColumnList returns all quoted column names separated by comma.
func ColumnList(table *shape.Table, quote func(string) string) string {
	return quoteAll(table.Header(), quote)
}

func quoteAll(names []string, quote func(string) string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	return strings.Join(quoted, ", ")
}
