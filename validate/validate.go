// Package validate checks shaped bundles against the fixed table schema.
package validate

import (
	"fmt"
	"math"
	"strconv"

	"github.com/omniscale/osmcsv/shape"
)

// SchemaViolation describes the first field of a record that does not
// match the schema.
type SchemaViolation struct {
	Table      string
	Field      string
	Constraint string
	Value      string
	// Index of the record within the bundle for tag and reference tables.
	Index int
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("%s record %d: field %q violates %s constraint (value %q)",
		e.Table, e.Index, e.Field, e.Constraint, e.Value)
}

const (
	ConstraintRequired = "required"
	ConstraintParent   = "parent"
	ConstraintSequence = "sequence"
	ConstraintUnique   = "unique"
)

// Bundle checks all records of b. Returns a *SchemaViolation for the first
// violation.
func Bundle(b *shape.Bundle) error {
	if b == nil {
		return nil
	}
	var primary []string
	switch {
	case b.Node != nil:
		primary = b.Node.Row()
	case b.Way != nil:
		primary = b.Way.Row()
	default:
		return &SchemaViolation{Table: b.Table().Name, Field: "id", Constraint: ConstraintRequired}
	}
	if err := Row(b.Table(), 0, primary); err != nil {
		return err
	}

	id := b.ID()
	tags := b.TagsTable()
	for i := range b.Tags {
		if err := Row(tags, i, b.Tags[i].Row()); err != nil {
			return err
		}
		if b.Tags[i].ID != id {
			return &SchemaViolation{Table: tags.Name, Field: "id", Constraint: ConstraintParent, Value: b.Tags[i].ID, Index: i}
		}
	}

	for i := range b.WayNodes {
		wn := &b.WayNodes[i]
		if err := Row(&shape.WayNodesTable, i, wn.Row()); err != nil {
			return err
		}
		if wn.ID != id {
			return &SchemaViolation{Table: shape.WayNodesTable.Name, Field: "id", Constraint: ConstraintParent, Value: wn.ID, Index: i}
		}
		if wn.Position != i {
			return &SchemaViolation{Table: shape.WayNodesTable.Name, Field: "position", Constraint: ConstraintSequence, Value: strconv.Itoa(wn.Position), Index: i}
		}
	}
	return nil
}

// Row checks the column values of a single row of table.
func Row(table *shape.Table, index int, row []string) error {
	if len(row) != len(table.Columns) {
		return &SchemaViolation{Table: table.Name, Field: "*", Constraint: "columns", Value: strconv.Itoa(len(row)), Index: index}
	}
	for i, col := range table.Columns {
		v := row[i]
		if v == "" {
			if col.Required {
				return &SchemaViolation{Table: table.Name, Field: col.Name, Constraint: ConstraintRequired, Index: index}
			}
			continue
		}
		if !valid(col.Type, v) {
			return &SchemaViolation{Table: table.Name, Field: col.Name, Constraint: col.Type.String(), Value: v, Index: index}
		}
	}
	return nil
}

func valid(t shape.ColumnType, v string) bool {
	switch t {
	case shape.Integer:
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	case shape.Float:
		f, err := strconv.ParseFloat(v, 64)
		return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	case shape.Position:
		n, err := strconv.ParseInt(v, 10, 64)
		return err == nil && n >= 0
	}
	return true
}
