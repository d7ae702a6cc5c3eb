// Package element contains the raw elements as they are read from an OSM
// document, before any cleaning or shaping.
package element

import "strings"

type Kind string

const (
	NodeKind     Kind = "node"
	WayKind      Kind = "way"
	RelationKind Kind = "relation"
)

// Kinds is a set of element kinds a parser should materialize.
type Kinds map[Kind]struct{}

func NewKinds(kinds ...Kind) Kinds {
	ks := make(Kinds, len(kinds))
	for _, k := range kinds {
		ks[k] = struct{}{}
	}
	return ks
}

func (ks Kinds) Has(k Kind) bool {
	_, ok := ks[k]
	return ok
}

func (ks Kinds) String() string {
	names := make([]string, 0, len(ks))
	for _, k := range []Kind{NodeKind, WayKind, RelationKind} {
		if ks.Has(k) {
			names = append(names, string(k))
		}
	}
	return strings.Join(names, ",")
}

type Attr struct {
	Key   string
	Value string
}

// A Tag is a raw k/v child of an element. Order and duplicates are kept
// as found in the document.
type Tag struct {
	Key   string
	Value string
}

// Element is a fully materialized top-level element with its tag and nd
// children. Refs keeps the raw ref attribute of each nd in document order.
type Element struct {
	Kind  Kind
	Attrs []Attr
	Tags  []Tag
	Refs  []string
}

// Attr returns the value of the attribute key and whether it was present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// ID returns the raw id attribute, or an empty string.
func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}
