package parser

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/omniscale/osmcsv/element"
)

// XMLParser reads elements from an OSM XML document (.osm).
type XMLParser struct {
	decoder *xml.Decoder
	kinds   element.Kinds
	root    bool
	level   int
	skipped int64
	err     error
}

// NewXML returns a parser that materializes all elements with a kind in
// kinds. Other elements and their children are skipped.
func NewXML(r io.Reader, kinds element.Kinds) *XMLParser {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, errors.Wrapf(err, "unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}
	return &XMLParser{decoder: decoder, kinds: kinds}
}

func (p *XMLParser) malformed(err error) error {
	p.err = &MalformedDocumentError{Offset: p.decoder.InputOffset(), Err: err}
	return p.err
}

func (p *XMLParser) Next() (*element.Element, error) {
	if p.err != nil {
		return nil, p.err
	}

	var elem *element.Element
	depth := 0

	for {
		token, err := p.decoder.Token()
		if err == io.EOF {
			if !p.root {
				return nil, p.malformed(errors.New("no root element"))
			}
			p.err = io.EOF
			return nil, io.EOF
		}
		if err != nil {
			return nil, p.malformed(err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			p.root = true
			if elem == nil {
				kind := element.Kind(tok.Name.Local)
				if p.kinds.Has(kind) {
					elem = &element.Element{Kind: kind, Attrs: attrs(tok.Attr)}
					depth = 1
					continue
				}
				if p.level == 1 {
					p.skipped++
				}
				p.level++
				continue
			}
			depth++
			switch tok.Name.Local {
			case "tag":
				var t element.Tag
				for _, attr := range tok.Attr {
					switch attr.Name.Local {
					case "k":
						t.Key = attr.Value
					case "v":
						t.Value = attr.Value
					}
				}
				elem.Tags = append(elem.Tags, t)
			case "nd":
				for _, attr := range tok.Attr {
					if attr.Name.Local == "ref" {
						elem.Refs = append(elem.Refs, attr.Value)
					}
				}
			}
		case xml.EndElement:
			if elem == nil {
				p.level--
				continue
			}
			depth--
			if depth == 0 {
				return elem, nil
			}
		}
	}
}

func (p *XMLParser) Close() error { return nil }

// Skipped returns the number of top-level elements that were not
// materialized so far.
func (p *XMLParser) Skipped() int64 { return p.skipped }

func attrs(xmlAttrs []xml.Attr) []element.Attr {
	result := make([]element.Attr, len(xmlAttrs))
	for i, a := range xmlAttrs {
		result[i] = element.Attr{Key: a.Name.Local, Value: a.Value}
	}
	return result
}
