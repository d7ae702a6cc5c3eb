package element

import (
	"testing"
)

func TestAttr(t *testing.T) {
	e := Element{
		Kind:  NodeKind,
		Attrs: []Attr{{"id", "42"}, {"user", ""}},
	}

	if e.ID() != "42" {
		t.Errorf("unexpected id %q", e.ID())
	}

	v, ok := e.Attr("user")
	if !ok || v != "" {
		t.Errorf("empty user attr not found: %q %v", v, ok)
	}

	if _, ok := e.Attr("lat"); ok {
		t.Error("missing attr reported as present")
	}
}

func TestKinds(t *testing.T) {
	ks := NewKinds(WayKind, NodeKind)
	if !ks.Has(NodeKind) || !ks.Has(WayKind) {
		t.Fatal(ks)
	}
	if ks.Has(RelationKind) {
		t.Error("relation in", ks)
	}
	if ks.String() != "node,way" {
		t.Errorf("unexpected kinds string %q", ks.String())
	}
}
