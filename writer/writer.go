// Package writer writes shaped bundles into one CSV file per table.
package writer

import (
	"bufio"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/omniscale/osmcsv/element"
	"github.com/omniscale/osmcsv/logging"
	"github.com/omniscale/osmcsv/shape"
)

var log = logging.NewLogger("writer")

const bufferSize = 1024 * 64

// Filename returns the path of the CSV file for table in dir.
func Filename(dir string, table *shape.Table) string {
	return filepath.Join(dir, table.Name+".csv")
}

type tableWriter struct {
	table *shape.Table
	f     *os.File
	buf   *bufio.Writer
	csv   *csv.Writer
	rows  int64
}

func (tw *tableWriter) write(row []string) error {
	if err := tw.csv.Write(row); err != nil {
		return errors.Wrapf(err, "writing %s", tw.table.Name)
	}
	tw.rows++
	return nil
}

func (tw *tableWriter) close() error {
	tw.csv.Flush()
	err := tw.csv.Error()
	if err == nil {
		err = tw.buf.Flush()
	}
	if cerr := tw.f.Close(); err == nil {
		err = cerr
	}
	err = errors.Wrapf(err, "closing %s", tw.f.Name())
	tw.f = nil
	return err
}

// Writer appends records to the five tables. Writer is not safe for
// concurrent use.
type Writer struct {
	dir    string
	tables map[*shape.Table]*tableWriter
}

// Open creates (or truncates) all table files in dir and writes the header
// rows.
func Open(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating output dir %q", dir)
	}
	w := &Writer{dir: dir, tables: make(map[*shape.Table]*tableWriter)}
	for _, table := range shape.Tables {
		f, err := os.Create(Filename(dir, table))
		if err != nil {
			w.Close()
			return nil, errors.Wrapf(err, "creating table %s", table.Name)
		}
		buf := bufio.NewWriterSize(f, bufferSize)
		tw := &tableWriter{table: table, f: f, buf: buf, csv: csv.NewWriter(buf)}
		w.tables[table] = tw
		if err := tw.csv.Write(table.Header()); err != nil {
			w.Close()
			return nil, errors.Wrapf(err, "writing header of %s", table.Name)
		}
	}
	log.Debugf("writing tables to %s", dir)
	return w, nil
}

// Write appends the primary record of b and all its tags and node
// references. A nil bundle is ignored.
func (w *Writer) Write(b *shape.Bundle) error {
	if b == nil {
		return nil
	}
	switch b.Kind {
	case element.NodeKind:
		if b.Node == nil {
			return nil
		}
		if err := w.tables[&shape.NodesTable].write(b.Node.Row()); err != nil {
			return err
		}
	case element.WayKind:
		if b.Way == nil {
			return nil
		}
		if err := w.tables[&shape.WaysTable].write(b.Way.Row()); err != nil {
			return err
		}
		refs := w.tables[&shape.WayNodesTable]
		for i := range b.WayNodes {
			if err := refs.write(b.WayNodes[i].Row()); err != nil {
				return err
			}
		}
	default:
		return nil
	}

	tags := w.tables[b.TagsTable()]
	for i := range b.Tags {
		if err := tags.write(b.Tags[i].Row()); err != nil {
			return err
		}
	}
	return nil
}

// Rows returns the number of rows written to each table, without header.
func (w *Writer) Rows() map[string]int64 {
	rows := make(map[string]int64, len(w.tables))
	for table, tw := range w.tables {
		rows[table.Name] = tw.rows
	}
	return rows
}

// Close flushes and closes all tables. Returns the first error. Close can
// be called multiple times.
func (w *Writer) Close() error {
	var first error
	for _, table := range shape.Tables {
		tw, ok := w.tables[table]
		if !ok || tw.f == nil {
			continue
		}
		if err := tw.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
