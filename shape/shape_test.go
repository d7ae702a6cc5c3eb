package shape

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/omniscale/osmcsv/element"
)

func nodeAttrs(id string) []element.Attr {
	return []element.Attr{
		{Key: "id", Value: id},
		{Key: "lat", Value: "-3.7"},
		{Key: "lon", Value: "-38.5"},
		{Key: "version", Value: "2"},
		{Key: "timestamp", Value: "2016-01-01T00:00:00Z"},
		{Key: "changeset", Value: "10"},
		{Key: "uid", Value: "100"},
		{Key: "user", Value: "alice"},
		{Key: "visible", Value: "true"},
	}
}

func TestShapeNode(t *testing.T) {
	s := New(nil)
	b := s.Shape(&element.Element{
		Kind:  element.NodeKind,
		Attrs: nodeAttrs("1"),
		Tags: []element.Tag{
			{Key: "addr:postcode", Value: "60.115-000"},
			{Key: "name", Value: "Padaria"},
		},
	})

	want := &Bundle{
		Kind: element.NodeKind,
		Node: &Node{
			ID: "1", Lat: "-3.7", Lon: "-38.5", User: "alice", UID: "100",
			Version: "2", Changeset: "10", Timestamp: "2016-01-01T00:00:00Z",
		},
		Tags: []Tag{
			{ID: "1", Key: "postcode", Value: "60115-000", Type: "addr"},
			{ID: "1", Key: "name", Value: "Padaria", Type: "regular"},
		},
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("unexpected bundle (-want +got):\n%s", diff)
	}

	if row := b.Node.Row(); cmp.Diff(row, []string{"1", "-3.7", "-38.5", "alice", "100", "2", "10", "2016-01-01T00:00:00Z"}) != "" {
		t.Errorf("unexpected row order %v", row)
	}
	if b.Table() != &NodesTable || b.TagsTable() != &NodeTagsTable {
		t.Error("unexpected tables for node bundle")
	}
}

func TestShapeWay(t *testing.T) {
	s := New(nil)
	b := s.Shape(&element.Element{
		Kind: element.WayKind,
		Attrs: []element.Attr{
			{Key: "id", Value: "10"},
			{Key: "user", Value: "bob"},
			{Key: "uid", Value: "101"},
			{Key: "version", Value: "1"},
			{Key: "changeset", Value: "12"},
			{Key: "timestamp", Value: "2016-01-02T00:00:00Z"},
		},
		Tags: []element.Tag{
			{Key: "highway", Value: "residential"},
			{Key: "addr:street", Value: "Av Beira Mar"},
			{Key: "addr:street", Value: "Av Beira Mar"},
		},
		Refs: []string{"5", "3", "5", "7"},
	})

	want := &Bundle{
		Kind: element.WayKind,
		Way: &Way{
			ID: "10", User: "bob", UID: "101", Version: "1",
			Changeset: "12", Timestamp: "2016-01-02T00:00:00Z",
		},
		Tags: []Tag{
			{ID: "10", Key: "highway", Value: "residential", Type: "regular"},
			{ID: "10", Key: "street", Value: "Avenida Beira Mar", Type: "addr"},
			{ID: "10", Key: "street", Value: "Avenida Beira Mar", Type: "addr"},
		},
		WayNodes: []WayNode{
			{ID: "10", NodeID: "5", Position: 0},
			{ID: "10", NodeID: "3", Position: 1},
			{ID: "10", NodeID: "5", Position: 2},
			{ID: "10", NodeID: "7", Position: 3},
		},
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("unexpected bundle (-want +got):\n%s", diff)
	}
	if row := b.WayNodes[3].Row(); cmp.Diff(row, []string{"10", "7", "3"}) != "" {
		t.Errorf("unexpected row %v", row)
	}
}

func TestShapePositionsContiguous(t *testing.T) {
	s := New(nil)
	refs := make([]string, 100)
	for i := range refs {
		refs[i] = "1"
	}
	b := s.Shape(&element.Element{Kind: element.WayKind, Attrs: []element.Attr{{Key: "id", Value: "1"}}, Refs: refs})
	for i, wn := range b.WayNodes {
		if wn.Position != i {
			t.Fatalf("position %d at index %d", wn.Position, i)
		}
	}
}

func TestShapeDiscardsTags(t *testing.T) {
	s := New(nil)
	b := s.Shape(&element.Element{
		Kind:  element.NodeKind,
		Attrs: nodeAttrs("7"),
		Tags: []element.Tag{
			{Key: "name:pt", Value: "Padaria"},
			{Key: "fixme?", Value: "check"},
			{Key: "addr:postcode", Value: "6000000"},
			{Key: "", Value: "empty"},
			{Key: "addr:state", Value: "CE"},
		},
	})
	if b == nil || b.Node == nil || b.Node.ID != "7" {
		t.Fatal("node not shaped", b)
	}
	want := []Tag{
		{ID: "7", Key: "pt", Value: "Padaria", Type: "name"},
		{ID: "7", Key: "state", Value: "Ceará", Type: "addr"},
	}
	if diff := cmp.Diff(want, b.Tags); diff != "" {
		t.Errorf("unexpected tags (-want +got):\n%s", diff)
	}
	if b.Discarded != 3 {
		t.Errorf("expected 3 discarded tags, got %d", b.Discarded)
	}
}

func TestShapeUnsupported(t *testing.T) {
	s := New(nil)
	if b := s.Shape(&element.Element{Kind: element.RelationKind, Attrs: []element.Attr{{Key: "id", Value: "1"}}}); b != nil {
		t.Error("relation shaped", b)
	}
	if b := s.Shape(&element.Element{Kind: "changeset"}); b != nil {
		t.Error("changeset shaped", b)
	}
}

func TestShapeMissingAttrs(t *testing.T) {
	s := New(nil)
	b := s.Shape(&element.Element{Kind: element.NodeKind, Attrs: []element.Attr{{Key: "id", Value: "3"}}})
	if b.Node.ID != "3" || b.Node.Lat != "" || b.Node.User != "" {
		t.Error("unexpected node", b.Node)
	}
}

func TestTableHeaders(t *testing.T) {
	for _, tc := range []struct {
		table  *Table
		header []string
	}{
		{&NodesTable, []string{"id", "lat", "lon", "user", "uid", "version", "changeset", "timestamp"}},
		{&NodeTagsTable, []string{"id", "key", "value", "type"}},
		{&WaysTable, []string{"id", "user", "uid", "version", "changeset", "timestamp"}},
		{&WayNodesTable, []string{"id", "node_id", "position"}},
		{&WayTagsTable, []string{"id", "key", "value", "type"}},
	} {
		if diff := cmp.Diff(tc.header, tc.table.Header()); diff != "" {
			t.Errorf("unexpected header for %s (-want +got):\n%s", tc.table.Name, diff)
		}
	}
}
