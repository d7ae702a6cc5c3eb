// Package normalize maps raw tag key/value pairs to cleaned
// (namespace, key, value) triples.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/omniscale/osmcsv/mapping"
)

// DefaultNamespace is used for keys without a namespace separator.
const DefaultNamespace = "regular"

const Separator = ":"

const (
	StreetKey     = "addr:street"
	PostalCodeKey = "addr:postcode"
	StateKey      = "addr:state"
)

var (
	problemChars   = regexp.MustCompile(`[=+/&<>;'"?%#$@,. \t\r\n]`)
	dashedPostcode = regexp.MustCompile(`^\d{5}-\d{3}$`)
	digitPostcode  = regexp.MustCompile(`^\d{8}$`)
	word           = regexp.MustCompile(`\S+`)
)

// Kind is the closed set of tag variants with their own value rules.
type Kind int

const (
	GenericTag Kind = iota
	StreetTag
	PostalCodeTag
	StateTag
)

func (k Kind) String() string {
	switch k {
	case StreetTag:
		return "street"
	case PostalCodeTag:
		return "postcode"
	case StateTag:
		return "state"
	}
	return "generic"
}

func Classify(rawKey string) Kind {
	switch rawKey {
	case StreetKey:
		return StreetTag
	case PostalCodeKey:
		return PostalCodeTag
	case StateKey:
		return StateTag
	}
	return GenericTag
}

// HasProblemChars returns true if key contains a character that is not
// permitted in a column value of the key column.
func HasProblemChars(key string) bool {
	return problemChars.MatchString(key)
}

// ValidKey returns false for keys that must never be written.
func ValidKey(rawKey string) bool {
	return rawKey != "" && !HasProblemChars(rawKey)
}

// SplitKey splits rawKey at the first separator. Keys without separator
// are returned with DefaultNamespace.
func SplitKey(rawKey string) (namespace, key string) {
	parts := strings.SplitN(rawKey, Separator, 2)
	if len(parts) == 1 {
		return DefaultNamespace, rawKey
	}
	return parts[0], parts[1]
}

func IsDashedPostalCode(v string) bool { return dashedPostcode.MatchString(v) }
func IsDigitPostalCode(v string) bool  { return digitPostcode.MatchString(v) }

// FirstWord returns the first whitespace-delimited word of v in NFC form.
func FirstWord(v string) (string, bool) {
	w := word.FindString(v)
	if w == "" {
		return "", false
	}
	return norm.NFC.String(w), true
}

type Tag struct {
	Namespace string
	Key       string
	Value     string
}

type Normalizer struct {
	m *mapping.Mapping
}

func New(m *mapping.Mapping) *Normalizer {
	if m == nil {
		m = mapping.Default()
	}
	return &Normalizer{m: m}
}

// Tag cleans a raw tag. Returns false if the tag should be discarded, either
// because of an invalid key or because the value could not be repaired.
func (n *Normalizer) Tag(rawKey, rawValue string) (Tag, bool) {
	if !ValidKey(rawKey) {
		return Tag{}, false
	}
	v, ok := n.Value(Classify(rawKey), rawValue)
	if !ok {
		return Tag{}, false
	}
	ns, key := SplitKey(rawKey)
	return Tag{Namespace: ns, Key: key, Value: v}, true
}

// Value cleans v according to the rules of kind.
func (n *Normalizer) Value(kind Kind, v string) (string, bool) {
	switch kind {
	case StreetTag:
		return n.StreetName(v), true
	case PostalCodeTag:
		return PostalCode(v)
	case StateTag:
		return n.StateName(v), true
	}
	return v, true
}

// StreetName expands an abbreviated street type. Each word of v that is
// identical to the abbreviated first word is replaced. Unlike a plain
// substring replacement, words that only contain the abbreviation are
// kept: "R Rio Branco" becomes "Rua Rio Branco", not "Rua Ruaio Branco".
func (n *Normalizer) StreetName(v string) string {
	first, ok := FirstWord(v)
	if !ok {
		return v
	}
	full, ok := n.m.Expand(first)
	if !ok {
		return v
	}
	return word.ReplaceAllStringFunc(v, func(w string) string {
		if norm.NFC.String(w) == first {
			return full
		}
		return w
	})
}

// StateName always returns the canonical state name. The input is
// ignored: the extract covers a single state.
func (n *Normalizer) StateName(string) string {
	return n.m.State.Name
}

// PostalCode returns the postal code in NNNNN-NNN form. Periods are removed
// and a missing dash is added. Returns false for anything else.
func PostalCode(v string) (string, bool) {
	v = strings.Replace(v, ".", "", -1)
	if dashedPostcode.MatchString(v) {
		return v, true
	}
	if digitPostcode.MatchString(v) {
		return v[:5] + "-" + v[5:], true
	}
	return "", false
}
