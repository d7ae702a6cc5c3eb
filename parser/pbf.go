package parser

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	osm "github.com/omniscale/go-osm"
	osmpbf "github.com/omniscale/go-osm/parser/pbf"

	"github.com/omniscale/osmcsv/element"
)

// PBFParser reads elements from an .osm.pbf file.
//
// Parsing is handled in a background goroutine with a single decoder so
// that blocks arrive in file order. PBF tags have no order, Tags of
// returned elements are sorted by key.
type PBFParser struct {
	reader  io.Reader
	kinds   element.Kinds
	nodes   chan []osm.Node
	ways    chan []osm.Way
	rels    chan []osm.Relation
	errc    chan error
	cancel  context.CancelFunc
	pending []*element.Element
	running bool
	err     error
}

func NewPBF(r io.Reader, kinds element.Kinds) *PBFParser {
	return &PBFParser{reader: r, kinds: kinds}
}

func (p *PBFParser) start() {
	conf := osmpbf.Config{
		IncludeMetadata: true,
		Concurrency:     1,
	}
	if p.kinds.Has(element.NodeKind) {
		p.nodes = make(chan []osm.Node)
		conf.Nodes = p.nodes
	}
	if p.kinds.Has(element.WayKind) {
		p.ways = make(chan []osm.Way)
		conf.Ways = p.ways
	}
	if p.kinds.Has(element.RelationKind) {
		p.rels = make(chan []osm.Relation)
		conf.Relations = p.rels
	}
	p.errc = make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	parser := osmpbf.New(p.reader, conf)
	go func() {
		err := parser.Parse(ctx)
		if err == context.Canceled {
			err = nil
		}
		p.errc <- err
	}()
	p.running = true
}

func (p *PBFParser) Next() (*element.Element, error) {
	if p.err != nil {
		return nil, p.err
	}
	if !p.running {
		p.start()
	}

	for len(p.pending) == 0 {
		if p.nodes == nil && p.ways == nil && p.rels == nil {
			if p.errc != nil {
				if err := <-p.errc; err != nil {
					return nil, p.fail(err)
				}
				p.errc = nil
			}
			p.err = io.EOF
			return nil, p.err
		}
		select {
		case err := <-p.errc:
			// the output channels are only closed if Parse succeeds
			if err != nil {
				return nil, p.fail(err)
			}
			p.errc = nil
		case nodes, ok := <-p.nodes:
			if !ok {
				p.nodes = nil
				continue
			}
			for i := range nodes {
				p.pending = append(p.pending, fromNode(&nodes[i]))
			}
		case ways, ok := <-p.ways:
			if !ok {
				p.ways = nil
				continue
			}
			for i := range ways {
				p.pending = append(p.pending, fromWay(&ways[i]))
			}
		case rels, ok := <-p.rels:
			if !ok {
				p.rels = nil
				continue
			}
			for i := range rels {
				p.pending = append(p.pending, fromRelation(&rels[i]))
			}
		}
	}

	elem := p.pending[0]
	p.pending[0] = nil
	p.pending = p.pending[1:]
	return elem, nil
}

func (p *PBFParser) fail(err error) error {
	p.errc = nil
	p.pending = nil
	p.err = &MalformedDocumentError{Offset: -1, Err: err}
	return p.err
}

// Close stops the background parser. Remaining elements are discarded.
func (p *PBFParser) Close() error {
	if !p.running {
		return nil
	}
	p.running = false
	p.cancel()
	// drain until Parse returned
	for p.errc != nil {
		select {
		case <-p.errc:
			p.errc = nil
		case _, ok := <-p.nodes:
			if !ok {
				p.nodes = nil
			}
		case _, ok := <-p.ways:
			if !ok {
				p.ways = nil
			}
		case _, ok := <-p.rels:
			if !ok {
				p.rels = nil
			}
		}
	}
	return nil
}

func fromNode(n *osm.Node) *element.Element {
	e := &element.Element{Kind: element.NodeKind}
	e.Attrs = append(e.Attrs,
		element.Attr{Key: "id", Value: strconv.FormatInt(n.ID, 10)},
		element.Attr{Key: "lat", Value: formatCoord(n.Lat)},
		element.Attr{Key: "lon", Value: formatCoord(n.Long)},
	)
	e.Attrs = appendMetadata(e.Attrs, n.Metadata)
	e.Tags = sortedTags(n.Tags)
	return e
}

func fromWay(w *osm.Way) *element.Element {
	e := &element.Element{Kind: element.WayKind}
	e.Attrs = append(e.Attrs, element.Attr{Key: "id", Value: strconv.FormatInt(w.ID, 10)})
	e.Attrs = appendMetadata(e.Attrs, w.Metadata)
	e.Tags = sortedTags(w.Tags)
	e.Refs = make([]string, len(w.Refs))
	for i, ref := range w.Refs {
		e.Refs[i] = strconv.FormatInt(ref, 10)
	}
	return e
}

func fromRelation(r *osm.Relation) *element.Element {
	e := &element.Element{Kind: element.RelationKind}
	e.Attrs = append(e.Attrs, element.Attr{Key: "id", Value: strconv.FormatInt(r.ID, 10)})
	e.Attrs = appendMetadata(e.Attrs, r.Metadata)
	e.Tags = sortedTags(r.Tags)
	return e
}

// formatCoord formats v with the 1e-7 degree precision of PBF coordinates.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 7, 64)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func appendMetadata(attrs []element.Attr, md *osm.Metadata) []element.Attr {
	if md == nil {
		return attrs
	}
	return append(attrs,
		element.Attr{Key: "version", Value: strconv.FormatInt(int64(md.Version), 10)},
		element.Attr{Key: "timestamp", Value: md.Timestamp.UTC().Format(time.RFC3339)},
		element.Attr{Key: "changeset", Value: strconv.FormatInt(md.Changeset, 10)},
		element.Attr{Key: "uid", Value: strconv.FormatInt(int64(md.UserID), 10)},
		element.Attr{Key: "user", Value: md.UserName},
	)
}

func sortedTags(tags osm.Tags) []element.Tag {
	if len(tags) == 0 {
		return nil
	}
	result := make([]element.Tag, 0, len(tags))
	for k, v := range tags {
		result = append(result, element.Tag{Key: k, Value: v})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}
