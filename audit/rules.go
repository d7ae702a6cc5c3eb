package audit

import (
	"regexp"
	"strings"

	"github.com/omniscale/osmcsv/mapping"
	"github.com/omniscale/osmcsv/normalize"
)

// Key classes
const (
	ProblemCharacters   = "problem-characters"
	NamespacedLowercase = "namespaced-lowercase"
	Lowercase           = "lowercase"
	Other               = "other"
)

// Postal code classes
const (
	DashFormatted    = "dash-formatted"
	DigitsOnly       = "digits-only"
	PeriodsThenValid = "periods-then-valid"
)

// State classes
const (
	CanonicalAbbreviation = "canonical-abbreviation"
	CanonicalFullName     = "canonical-full-name"
)

// rule assigns class to all values that match. Rules are evaluated in
// order, the first match wins.
type rule struct {
	class string
	match func(string) bool
}

type rules []rule

// classify returns the class of the first matching rule or Other.
func (rs rules) classify(v string) string {
	for _, r := range rs {
		if r.match(v) {
			return r.class
		}
	}
	return Other
}

// classes returns all classes, including Other.
func (rs rules) classes() []string {
	result := make([]string, 0, len(rs)+1)
	for _, r := range rs {
		result = append(result, r.class)
	}
	return append(result, Other)
}

var (
	namespacedLowercase = regexp.MustCompile(`^[a-z_]+:[a-z_]+$`)
	lowercase           = regexp.MustCompile(`^[a-z_]*$`)
)

var keyRules = rules{
	{ProblemCharacters, normalize.HasProblemChars},
	{NamespacedLowercase, namespacedLowercase.MatchString},
	{Lowercase, lowercase.MatchString},
}

var postalCodeRules = rules{
	{DashFormatted, normalize.IsDashedPostalCode},
	{DigitsOnly, normalize.IsDigitPostalCode},
	{PeriodsThenValid, func(v string) bool {
		if !strings.Contains(v, ".") {
			return false
		}
		v = strings.Replace(v, ".", "", -1)
		return normalize.IsDashedPostalCode(v) || normalize.IsDigitPostalCode(v)
	}},
}

func stateRules(m *mapping.Mapping) rules {
	return rules{
		{CanonicalAbbreviation, func(v string) bool { return v == m.State.Abbreviation }},
		{CanonicalFullName, func(v string) bool { return v == m.State.Name }},
	}
}

// ClassifyKey returns the key class of a raw tag key.
func ClassifyKey(key string) string { return keyRules.classify(key) }

// ClassifyPostalCode returns the class of a raw addr:postcode value.
func ClassifyPostalCode(v string) string { return postalCodeRules.classify(v) }
