package mapping

import (
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type State struct {
	Abbreviation string `yaml:"abbreviation"`
	Name         string `yaml:"name"`
}

type Mapping struct {
	// StreetTypes maps an abbreviated street type (first word of a street
	// name) to its expanded form.
	StreetTypes         map[string]string `yaml:"street_types"`
	ExpectedStreetTypes []string          `yaml:"expected_street_types"`
	State               State             `yaml:"state"`

	expected map[string]struct{}
}

func Default() *Mapping {
	m := &Mapping{
		StreetTypes: map[string]string{
			"Av":  "Avenida",
			"Ave": "Avenida",
			"R":   "Rua",
			"Tr":  "Travessa",
			"Pr":  "Praça",
			"Al":  "Alameda",
			"Tv":  "Travessa",
		},
		ExpectedStreetTypes: []string{"Rua", "Avenida", "Travessa", "Alameda", "Praça"},
		State: State{
			Abbreviation: "CE",
			Name:         "Ceará",
		},
	}
	if err := m.prepare(); err != nil {
		panic(err)
	}
	return m
}

func FromFile(filename string) (*Mapping, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rules %q", filename)
	}
	m, err := New(b)
	if err != nil {
		return nil, errors.Wrapf(err, "rules %q", filename)
	}
	return m, nil
}

// New parses a YAML rules document. Tables that are not present in b are
// taken from Default.
func New(b []byte) (*Mapping, error) {
	m := Mapping{}
	if err := yaml.UnmarshalStrict(b, &m); err != nil {
		return nil, errors.Wrap(err, "parsing rules")
	}

	def := Default()
	if len(m.StreetTypes) == 0 {
		m.StreetTypes = def.StreetTypes
	}
	if len(m.ExpectedStreetTypes) == 0 {
		m.ExpectedStreetTypes = def.ExpectedStreetTypes
	}
	if m.State.Abbreviation == "" {
		m.State.Abbreviation = def.State.Abbreviation
	}
	if m.State.Name == "" {
		m.State.Name = def.State.Name
	}

	if err := m.prepare(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Mapping) prepare() error {
	for abbr, full := range m.StreetTypes {
		if abbr == "" || strings.ContainsAny(abbr, " \t\r\n") {
			return errors.Errorf("street type abbreviation %q is not a single word", abbr)
		}
		if strings.TrimSpace(full) == "" {
			return errors.Errorf("missing expansion for street type %q", abbr)
		}
	}
	m.expected = make(map[string]struct{}, len(m.ExpectedStreetTypes))
	for _, st := range m.ExpectedStreetTypes {
		m.expected[st] = struct{}{}
	}
	return nil
}

// Expand returns the expansion for an abbreviated street type.
func (m *Mapping) Expand(streetType string) (string, bool) {
	full, ok := m.StreetTypes[streetType]
	return full, ok
}

func (m *Mapping) IsExpectedStreetType(streetType string) bool {
	_, ok := m.expected[streetType]
	return ok
}
