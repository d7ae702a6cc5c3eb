package database

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/omniscale/osmcsv/logging"
	"github.com/omniscale/osmcsv/shape"
	"github.com/omniscale/osmcsv/writer"
)

var log = logging.NewLogger("database")

// HeaderMismatchError is returned if the header of a CSV file does not
// match the columns of the table.
type HeaderMismatchError struct {
	Table  string
	Header []string
}

func (e *HeaderMismatchError) Error() string {
	return "header of " + e.Table + " does not match table columns"
}

// Load inserts the rows of all CSV tables in dir into db. Each table is
// loaded in its own transaction. Returns the number of inserted rows per
// table.
func Load(db DB, dir string) (map[string]int64, error) {
	rows := make(map[string]int64, len(shape.Tables))
	for _, table := range shape.Tables {
		n, err := LoadTable(db, table, writer.Filename(dir, table))
		if err != nil {
			return nil, err
		}
		rows[table.Name] = n
	}
	return rows, nil
}

func LoadTable(db DB, table *shape.Table, filename string) (int64, error) {
	step := log.StartStep("Loading " + table.Name)
	defer log.StopStep(step)

	f, err := os.Open(filename)
	if err != nil {
		return 0, errors.Wrapf(err, "opening %s", table.Name)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return 0, &HeaderMismatchError{Table: table.Name}
	}
	if err != nil {
		return 0, errors.Wrapf(err, "reading header of %s", filename)
	}
	if !equalHeader(table.Header(), RepairRow(header)) {
		return 0, &HeaderMismatchError{Table: table.Name, Header: header}
	}
	r.FieldsPerRecord = len(table.Columns)

	tx, err := db.Begin(table)
	if err != nil {
		return 0, err
	}
	var n int64
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			tx.Rollback()
			return 0, errors.Wrapf(err, "reading %s", filename)
		}
		if err := tx.Insert(values(table, RepairRow(record))); err != nil {
			tx.Rollback()
			return 0, errors.Wrapf(err, "inserting into %s", table.Name)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return 0, errors.Wrapf(err, "committing %s", table.Name)
	}
	log.Printf("inserted %d rows into %s", n, table.Name)
	return n, nil
}

// values converts a CSV record into insert values. Empty values of
// non-string columns are inserted as NULL.
func values(table *shape.Table, record []string) []interface{} {
	vals := make([]interface{}, len(record))
	for i, v := range record {
		if v == "" && table.Columns[i].Type != shape.String {
			vals[i] = nil
			continue
		}
		vals[i] = v
	}
	return vals
}

func equalHeader(expected, header []string) bool {
	if len(expected) != len(header) {
		return false
	}
	for i := range expected {
		if expected[i] != header[i] {
			return false
		}
	}
	return true
}
