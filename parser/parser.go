// Package parser provides stream based readers for OSM documents.
//
// A Source returns one top-level element at a time in document order.
// Elements are fully materialized with their tag and nd children and are
// not referenced by the Source after they are returned.
package parser

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/omniscale/osmcsv/element"
	"github.com/omniscale/osmcsv/logging"
)

var log = logging.NewLogger("parser")

type Source interface {
	// Next returns the next element. Returns io.EOF after the last element.
	Next() (*element.Element, error)
	Close() error
}

// MalformedDocumentError is returned if the input is not a well-formed
// document. It is not possible to continue reading after this error.
type MalformedDocumentError struct {
	Offset int64
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document at byte %d: %s", e.Offset, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// IsMalformed returns true if err was caused by a MalformedDocumentError.
func IsMalformed(err error) bool {
	_, ok := errors.Cause(err).(*MalformedDocumentError)
	return ok
}

// Skipped returns the number of top-level elements src did not return
// because of their kind. Sources that drop these elements without
// counting them report 0.
func Skipped(src Source) int64 {
	if sc, ok := src.(interface{ Skipped() int64 }); ok {
		return sc.Skipped()
	}
	return 0
}

type fileSource struct {
	Source
	closers []io.Closer
}

func (s *fileSource) Skipped() int64 { return Skipped(s.Source) }

func (s *fileSource) Close() error {
	first := s.Source.Close()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open returns a Source for filename. The reader is selected by the file
// suffix: .pbf for PBF files, .gz for gzip compressed XML and XML for all
// others. Close releases the file.
func Open(filename string, kinds element.Kinds) (Source, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", filename)
	}
	log.Debugf("reading %s from %s", kinds, filename)

	switch {
	case strings.HasSuffix(filename, ".pbf"):
		return &fileSource{Source: NewPBF(f, kinds), closers: []io.Closer{f}}, nil
	case strings.HasSuffix(filename, ".gz"):
		r, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "opening gzip %q", filename)
		}
		return &fileSource{Source: NewXML(r, kinds), closers: []io.Closer{f, r}}, nil
	default:
		return &fileSource{Source: NewXML(f, kinds), closers: []io.Closer{f}}, nil
	}
}
