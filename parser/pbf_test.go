package parser

import (
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/omniscale/osmcsv/element"
)

const testPBF = "testdata/test.osm.pbf"

func openPBF(t *testing.T, kinds element.Kinds) *PBFParser {
	t.Helper()
	f, err := os.Open(testPBF)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return NewPBF(f, kinds)
}

func TestPBFNodesAndWays(t *testing.T) {
	p := openPBF(t, element.NewKinds(element.NodeKind, element.WayKind))
	defer p.Close()
	elems := readAll(t, p)

	want := []*element.Element{
		{
			Kind: element.NodeKind,
			Attrs: []element.Attr{
				{Key: "id", Value: "1"}, {Key: "lat", Value: "-3.7"}, {Key: "lon", Value: "-38.5"}, {Key: "version", Value: "2"},
				{Key: "timestamp", Value: "2016-01-01T00:00:00Z"}, {Key: "changeset", Value: "10"}, {Key: "uid", Value: "100"}, {Key: "user", Value: "alice"},
			},
			Tags: []element.Tag{{Key: "addr:postcode", Value: "60.115-000"}, {Key: "name", Value: "Padaria"}},
		},
		{
			Kind: element.NodeKind,
			Attrs: []element.Attr{
				{Key: "id", Value: "2"}, {Key: "lat", Value: "-3.8"}, {Key: "lon", Value: "-38.6"}, {Key: "version", Value: "1"},
				{Key: "timestamp", Value: "2016-01-01T00:00:00Z"}, {Key: "changeset", Value: "11"}, {Key: "uid", Value: "101"}, {Key: "user", Value: "bob"},
			},
		},
		{
			Kind: element.WayKind,
			Attrs: []element.Attr{
				{Key: "id", Value: "10"}, {Key: "version", Value: "1"}, {Key: "timestamp", Value: "2016-01-02T00:00:00Z"},
				{Key: "changeset", Value: "12"}, {Key: "uid", Value: "100"}, {Key: "user", Value: "alice"},
			},
			Tags: []element.Tag{{Key: "addr:street", Value: "R Barão de Aracati"}, {Key: "highway", Value: "residential"}},
			Refs: []string{"2", "1", "2"},
		},
	}
	if diff := cmp.Diff(want, elems); diff != "" {
		t.Errorf("unexpected elements (-want +got):\n%s", diff)
	}
	if _, err := p.Next(); err != io.EOF {
		t.Error("expected io.EOF, got", err)
	}
}

func TestPBFRelations(t *testing.T) {
	p := openPBF(t, element.NewKinds(element.RelationKind))
	defer p.Close()
	elems := readAll(t, p)
	if len(elems) != 1 || elems[0].Kind != element.RelationKind || elems[0].ID() != "100" {
		t.Fatalf("unexpected elements %v", elems)
	}
	if diff := cmp.Diff([]element.Tag{{Key: "type", Value: "multipolygon"}}, elems[0].Tags); diff != "" {
		t.Errorf("unexpected tags (-want +got):\n%s", diff)
	}
	if elems[0].Refs != nil {
		t.Error("relation members attached", elems[0].Refs)
	}
}

func TestPBFCloseAfterPartialRead(t *testing.T) {
	p := openPBF(t, element.NewKinds(element.NodeKind, element.WayKind, element.RelationKind))
	e, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if e.ID() != "1" {
		t.Errorf("unexpected first element %v", e)
	}

	// parser is still blocked on the remaining batches
	if err := p.Close(); err != nil {
		t.Error(err)
	}
	// second close is a no-op
	if err := p.Close(); err != nil {
		t.Error(err)
	}
}

func TestFormatCoord(t *testing.T) {
	for _, tc := range []struct {
		v    float64
		want string
	}{
		{-3.8000000000000003, "-3.8"},
		{-38.5, "-38.5"},
		{10, "10"},
		{0, "0"},
		{-0.00000001, "0"},
		{1.23456789, "1.2345679"},
	} {
		if got := formatCoord(tc.v); got != tc.want {
			t.Errorf("formatCoord(%v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestOpenPBF(t *testing.T) {
	src, err := Open(testPBF, element.NewKinds(element.NodeKind, element.WayKind))
	if err != nil {
		t.Fatal(err)
	}
	if elems := readAll(t, src); len(elems) != 3 {
		t.Errorf("expected 3 elements, got %d", len(elems))
	}
	if err := src.Close(); err != nil {
		t.Error(err)
	}
}
