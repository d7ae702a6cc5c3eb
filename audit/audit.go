// Package audit collects data quality statistics of an OSM extract.
package audit

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/omniscale/osmcsv/element"
	"github.com/omniscale/osmcsv/logging"
	"github.com/omniscale/osmcsv/mapping"
	"github.com/omniscale/osmcsv/normalize"
	"github.com/omniscale/osmcsv/parser"
)

var log = logging.NewLogger("audit")

// StringSet is a set of strings. It is marshaled as a sorted list.
type StringSet map[string]struct{}

func (s StringSet) Add(v string) { s[v] = struct{}{} }

func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s StringSet) Sorted() []string {
	result := make([]string, 0, len(s))
	for v := range s {
		result = append(result, v)
	}
	sort.Strings(result)
	return result
}

func (s StringSet) MarshalYAML() (interface{}, error) {
	return s.Sorted(), nil
}

// Tally counts values per class and keeps all values of class Other.
type Tally struct {
	Counts map[string]int `yaml:"counts"`
	Other  StringSet      `yaml:"other"`
}

func newTally(classes []string) Tally {
	t := Tally{Counts: make(map[string]int, len(classes)), Other: StringSet{}}
	for _, c := range classes {
		t.Counts[c] = 0
	}
	return t
}

func (t *Tally) add(class, v string) {
	t.Counts[class]++
	if class == Other {
		t.Other.Add(v)
	}
}

type KeyTally struct {
	Counts            map[string]int `yaml:"counts"`
	ProblemCharacters StringSet      `yaml:"problem_characters"`
	Other             StringSet      `yaml:"other"`
	All               StringSet      `yaml:"all"`
}

// Report is the result of a single audit run.
type Report struct {
	// StreetTypes maps unexpected first words of street names to the
	// street names that start with them.
	StreetTypes map[string]StringSet `yaml:"street_types"`
	PostalCodes Tally                `yaml:"postal_codes"`
	States      Tally                `yaml:"states"`
	Keys        KeyTally             `yaml:"keys"`
}

func NewReport() *Report {
	keys := newTally(keyRules.classes())
	return &Report{
		StreetTypes: make(map[string]StringSet),
		PostalCodes: newTally(postalCodeRules.classes()),
		States:      newTally([]string{CanonicalAbbreviation, CanonicalFullName, Other}),
		Keys: KeyTally{
			Counts:            keys.Counts,
			ProblemCharacters: StringSet{},
			Other:             StringSet{},
			All:               StringSet{},
		},
	}
}

// Print writes the full report as YAML.
func (r *Report) Print(w io.Writer) error {
	b, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshaling audit report")
	}
	_, err = w.Write(b)
	return err
}

// Summary returns a single line with the number of findings.
func (r *Report) Summary() string {
	return fmt.Sprintf("unexpected street types: %d, other postal codes: %d, other states: %d, problematic keys: %d, keys: %d",
		len(r.StreetTypes), r.PostalCodes.Counts[Other], r.States.Counts[Other],
		r.Keys.Counts[ProblemCharacters], len(r.Keys.All))
}

type Auditor struct {
	m      *mapping.Mapping
	states rules
	report *Report
}

func New(m *mapping.Mapping) *Auditor {
	if m == nil {
		m = mapping.Default()
	}
	return &Auditor{m: m, states: stateRules(m), report: NewReport()}
}

func (a *Auditor) Report() *Report { return a.report }

// Element adds all tags of e to the report.
func (a *Auditor) Element(e *element.Element) {
	addrTags := e.Kind == element.NodeKind || e.Kind == element.WayKind
	for _, t := range e.Tags {
		a.key(t.Key)
		if !addrTags {
			continue
		}
		switch normalize.Classify(t.Key) {
		case normalize.StreetTag:
			a.street(t.Value)
		case normalize.PostalCodeTag:
			a.report.PostalCodes.add(ClassifyPostalCode(t.Value), t.Value)
		case normalize.StateTag:
			a.report.States.add(a.states.classify(t.Value), t.Value)
		}
	}
}

func (a *Auditor) key(k string) {
	if k == "" {
		return
	}
	keys := &a.report.Keys
	keys.All.Add(k)
	class := ClassifyKey(k)
	keys.Counts[class]++
	switch class {
	case ProblemCharacters:
		keys.ProblemCharacters.Add(k)
	case Other:
		keys.Other.Add(k)
	}
}

func (a *Auditor) street(v string) {
	first, ok := normalize.FirstWord(v)
	if !ok || a.m.IsExpectedStreetType(first) {
		return
	}
	names, ok := a.report.StreetTypes[first]
	if !ok {
		names = StringSet{}
		a.report.StreetTypes[first] = names
	}
	names.Add(v)
}

// Audit reads all elements from src and returns the report. The source
// is not closed.
func Audit(src parser.Source, m *mapping.Mapping) (*Report, error) {
	a := New(m)
	n := 0
	for {
		e, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		a.Element(e)
		n++
	}
	log.Debugf("audited %d elements", n)
	return a.Report(), nil
}
