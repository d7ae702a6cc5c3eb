package audit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/omniscale/osmcsv/element"
	"github.com/omniscale/osmcsv/parser"
)

func TestClassifyKey(t *testing.T) {
	for _, tc := range []struct {
		key   string
		class string
	}{
		{"name", Lowercase},
		{"building_levels", Lowercase},
		{"addr:street", NamespacedLowercase},
		{"name:pt", NamespacedLowercase},
		{"addr:street:name", Other},
		{"Name", Other},
		{"name_1", Other},
		{"fixme?", ProblemCharacters},
		{"addr.street", ProblemCharacters},
		{"a b", ProblemCharacters},
		// problem characters take precedence over the lowercase rules
		{"name:pt.br", ProblemCharacters},
	} {
		if class := ClassifyKey(tc.key); class != tc.class {
			t.Errorf("%q: expected %s, got %s", tc.key, tc.class, class)
		}
	}
}

func TestClassifyPostalCode(t *testing.T) {
	for _, tc := range []struct {
		value string
		class string
	}{
		{"60115-000", DashFormatted},
		{"60115000", DigitsOnly},
		{"60.115-000", PeriodsThenValid},
		{"60.115.000", PeriodsThenValid},
		{"6011-5000", Other},
		{"601150", Other},
		{"", Other},
		{"...", Other},
	} {
		if class := ClassifyPostalCode(tc.value); class != tc.class {
			t.Errorf("%q: expected %s, got %s", tc.value, tc.class, class)
		}
	}
}

func TestAuditorElement(t *testing.T) {
	a := New(nil)
	a.Element(&element.Element{
		Kind: element.NodeKind,
		Tags: []element.Tag{
			{Key: "addr:street", Value: "Av Santos Dumont"},
			{Key: "addr:street", Value: "Rua Pereira Filgueiras"},
			{Key: "addr:street", Value: "Av. Beira Mar"},
			{Key: "addr:postcode", Value: "60115-000"},
			{Key: "addr:postcode", Value: "60.115-000"},
			{Key: "addr:postcode", Value: "6011"},
			{Key: "addr:state", Value: "CE"},
			{Key: "addr:state", Value: "Ceará"},
			{Key: "addr:state", Value: "ce"},
			{Key: "", Value: "empty"},
		},
	})
	a.Element(&element.Element{
		Kind: element.WayKind,
		Tags: []element.Tag{
			{Key: "addr:street", Value: "Av Treze de Maio"},
			{Key: "Highway", Value: "residential"},
		},
	})
	// relation tags are only used for key statistics
	a.Element(&element.Element{
		Kind: element.RelationKind,
		Tags: []element.Tag{
			{Key: "addr:street", Value: "Al Rio"},
			{Key: "type", Value: "multipolygon"},
		},
	})
	r := a.Report()

	wantStreets := map[string][]string{
		"Av":  {"Av Santos Dumont", "Av Treze de Maio"},
		"Av.": {"Av. Beira Mar"},
	}
	gotStreets := map[string][]string{}
	for k, v := range r.StreetTypes {
		gotStreets[k] = v.Sorted()
	}
	if diff := cmp.Diff(wantStreets, gotStreets); diff != "" {
		t.Errorf("unexpected street types (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[string]int{DashFormatted: 1, DigitsOnly: 0, PeriodsThenValid: 1, Other: 1}, r.PostalCodes.Counts); diff != "" {
		t.Errorf("unexpected postal codes (-want +got):\n%s", diff)
	}
	if !r.PostalCodes.Other.Has("6011") || len(r.PostalCodes.Other) != 1 {
		t.Error("unexpected other postal codes", r.PostalCodes.Other.Sorted())
	}

	if diff := cmp.Diff(map[string]int{CanonicalAbbreviation: 1, CanonicalFullName: 1, Other: 1}, r.States.Counts); diff != "" {
		t.Errorf("unexpected states (-want +got):\n%s", diff)
	}
	if !r.States.Other.Has("ce") {
		t.Error("unexpected other states", r.States.Other.Sorted())
	}

	if diff := cmp.Diff(map[string]int{ProblemCharacters: 0, NamespacedLowercase: 11, Lowercase: 1, Other: 1}, r.Keys.Counts); diff != "" {
		t.Errorf("unexpected key counts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Highway", "addr:postcode", "addr:state", "addr:street", "type"}, r.Keys.All.Sorted()); diff != "" {
		t.Errorf("unexpected keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Highway"}, r.Keys.Other.Sorted()); diff != "" {
		t.Errorf("unexpected other keys (-want +got):\n%s", diff)
	}
}

const auditDoc = `<osm>
 <node id="1" lat="1" lon="1">
  <tag k="addr:street" v="R Barão de Aracati"/>
  <tag k="addr:postcode" v="60115000"/>
  <tag k="fixme?" v="x"/>
 </node>
 <way id="2">
  <nd ref="1"/>
  <tag k="addr:state" v="Ceara"/>
 </way>
</osm>`

func TestAudit(t *testing.T) {
	src := parser.NewXML(strings.NewReader(auditDoc), element.NewKinds(element.NodeKind, element.WayKind, element.RelationKind))
	r, err := Audit(src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !r.StreetTypes["R"].Has("R Barão de Aracati") {
		t.Error("missing street type R", r.StreetTypes)
	}
	if r.PostalCodes.Counts[DigitsOnly] != 1 {
		t.Error("unexpected postal codes", r.PostalCodes.Counts)
	}
	if !r.States.Other.Has("Ceara") {
		t.Error("unexpected states", r.States.Other)
	}
	if !r.Keys.ProblemCharacters.Has("fixme?") {
		t.Error("unexpected problem keys", r.Keys.ProblemCharacters)
	}

	buf := &bytes.Buffer{}
	if err := r.Print(buf); err != nil {
		t.Fatal(err)
	}
	for _, part := range []string{
		"street_types:\n  R:\n  - R Barão de Aracati\n",
		"  problem_characters:\n  - ",
		"    digits-only: 1\n",
	} {
		if !strings.Contains(buf.String(), part) {
			t.Errorf("missing %q in report:\n%s", part, buf.String())
		}
	}
}

func TestAuditMalformed(t *testing.T) {
	src := parser.NewXML(strings.NewReader(`<osm><node id="1"><tag k="a" v="b"></osm>`), element.NewKinds(element.NodeKind))
	if _, err := Audit(src, nil); !parser.IsMalformed(err) {
		t.Error("expected malformed document error, got", err)
	}
}
