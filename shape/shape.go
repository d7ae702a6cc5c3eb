// Package shape converts raw node and way elements into relational records.
package shape

import (
	"strconv"

	"github.com/omniscale/osmcsv/element"
	"github.com/omniscale/osmcsv/normalize"
)

type Node struct {
	ID        string
	Lat       string
	Lon       string
	User      string
	UID       string
	Version   string
	Changeset string
	Timestamp string
}

func (n *Node) Row() []string {
	return []string{n.ID, n.Lat, n.Lon, n.User, n.UID, n.Version, n.Changeset, n.Timestamp}
}

type Way struct {
	ID        string
	User      string
	UID       string
	Version   string
	Changeset string
	Timestamp string
}

func (w *Way) Row() []string {
	return []string{w.ID, w.User, w.UID, w.Version, w.Changeset, w.Timestamp}
}

// Tag is a secondary tag record. Type is the namespace of the key.
type Tag struct {
	ID    string
	Key   string
	Value string
	Type  string
}

func (t *Tag) Row() []string {
	return []string{t.ID, t.Key, t.Value, t.Type}
}

// WayNode references the node at Position of the way ID.
type WayNode struct {
	ID       string
	NodeID   string
	Position int
}

func (wn *WayNode) Row() []string {
	return []string{wn.ID, wn.NodeID, strconv.Itoa(wn.Position)}
}

// Bundle contains all records of a single node or way. Only one of Node and
// Way is set; WayNodes is empty for nodes.
type Bundle struct {
	Kind     element.Kind
	Node     *Node
	Way      *Way
	Tags     []Tag
	WayNodes []WayNode
	// Discarded is the number of tags that were dropped during normalization.
	Discarded int
}

// ID returns the id of the primary record.
func (b *Bundle) ID() string {
	switch {
	case b.Node != nil:
		return b.Node.ID
	case b.Way != nil:
		return b.Way.ID
	}
	return ""
}

// Table returns the table of the primary record.
func (b *Bundle) Table() *Table {
	if b.Kind == element.WayKind {
		return &WaysTable
	}
	return &NodesTable
}

// TagsTable returns the table for the secondary tags of the bundle.
func (b *Bundle) TagsTable() *Table {
	if b.Kind == element.WayKind {
		return &WayTagsTable
	}
	return &NodeTagsTable
}

type Shaper struct {
	normalizer *normalize.Normalizer
}

func New(n *normalize.Normalizer) *Shaper {
	if n == nil {
		n = normalize.New(nil)
	}
	return &Shaper{normalizer: n}
}

// Shape returns the records for a node or way. Returns nil for all other
// element kinds.
func (s *Shaper) Shape(e *element.Element) *Bundle {
	b := &Bundle{Kind: e.Kind}
	switch e.Kind {
	case element.NodeKind:
		b.Node = &Node{}
		for _, a := range e.Attrs {
			switch a.Key {
			case "id":
				b.Node.ID = a.Value
			case "lat":
				b.Node.Lat = a.Value
			case "lon":
				b.Node.Lon = a.Value
			case "user":
				b.Node.User = a.Value
			case "uid":
				b.Node.UID = a.Value
			case "version":
				b.Node.Version = a.Value
			case "changeset":
				b.Node.Changeset = a.Value
			case "timestamp":
				b.Node.Timestamp = a.Value
			}
		}
	case element.WayKind:
		b.Way = &Way{}
		for _, a := range e.Attrs {
			switch a.Key {
			case "id":
				b.Way.ID = a.Value
			case "user":
				b.Way.User = a.Value
			case "uid":
				b.Way.UID = a.Value
			case "version":
				b.Way.Version = a.Value
			case "changeset":
				b.Way.Changeset = a.Value
			case "timestamp":
				b.Way.Timestamp = a.Value
			}
		}
		if len(e.Refs) > 0 {
			b.WayNodes = make([]WayNode, 0, len(e.Refs))
		}
		for _, ref := range e.Refs {
			b.WayNodes = append(b.WayNodes, WayNode{
				ID:       b.Way.ID,
				NodeID:   ref,
				Position: len(b.WayNodes),
			})
		}
	default:
		return nil
	}

	id := b.ID()
	for _, t := range e.Tags {
		tag, ok := s.normalizer.Tag(t.Key, t.Value)
		if !ok {
			b.Discarded++
			continue
		}
		b.Tags = append(b.Tags, Tag{
			ID:    id,
			Key:   tag.Key,
			Value: tag.Value,
			Type:  tag.Namespace,
		})
	}
	return b
}
