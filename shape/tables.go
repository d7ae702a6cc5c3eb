package shape

type ColumnType int

const (
	String ColumnType = iota
	Integer
	Float
	// Position is a zero-based ordinal.
	Position
)

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Position:
		return "position"
	}
	return "string"
}

type Column struct {
	Name string
	Type ColumnType
	// Required columns must not be empty.
	Required bool
}

type Table struct {
	Name    string
	Columns []Column
	// Parent is the table of the primary entity for tag and reference tables.
	Parent *Table
}

func (t *Table) Header() []string {
	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Name
	}
	return header
}

// The column order of all tables is fixed. Loaders map the columns by
// position.
var (
	NodesTable = Table{
		Name: "nodes",
		Columns: []Column{
			{"id", Integer, true},
			{"lat", Float, true},
			{"lon", Float, true},
			{"user", String, true},
			{"uid", Integer, true},
			{"version", Integer, true},
			{"changeset", Integer, true},
			{"timestamp", String, true},
		},
	}
	NodeTagsTable = Table{
		Name:    "nodes_tags",
		Columns: tagColumns,
		Parent:  &NodesTable,
	}
	WaysTable = Table{
		Name: "ways",
		Columns: []Column{
			{"id", Integer, true},
			{"user", String, true},
			{"uid", Integer, true},
			{"version", Integer, true},
			{"changeset", Integer, true},
			{"timestamp", String, true},
		},
	}
	WayNodesTable = Table{
		Name: "ways_nodes",
		Columns: []Column{
			{"id", Integer, true},
			{"node_id", Integer, true},
			{"position", Position, true},
		},
		Parent: &WaysTable,
	}
	WayTagsTable = Table{
		Name:    "ways_tags",
		Columns: tagColumns,
		Parent:  &WaysTable,
	}
)

var tagColumns = []Column{
	{"id", Integer, true},
	{"key", String, false},
	{"value", String, false},
	{"type", String, false},
}

// Tables lists all tables in load order.
var Tables = []*Table{&NodesTable, &NodeTagsTable, &WaysTable, &WayNodesTable, &WayTagsTable}
