/*
Package transform converts an OSM extract into the CSV tables.

Elements are processed one at a time: each element is read, shaped,
optionally validated and written before the next element is read.
*/
package transform

import (
	"context"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/omniscale/osmcsv/audit"
	"github.com/omniscale/osmcsv/cache"
	"github.com/omniscale/osmcsv/element"
	"github.com/omniscale/osmcsv/logging"
	"github.com/omniscale/osmcsv/mapping"
	"github.com/omniscale/osmcsv/normalize"
	"github.com/omniscale/osmcsv/parser"
	"github.com/omniscale/osmcsv/shape"
	"github.com/omniscale/osmcsv/stats"
	"github.com/omniscale/osmcsv/validate"
	"github.com/omniscale/osmcsv/writer"
)

var log = logging.NewLogger("transform")

type Options struct {
	Input  string
	Output string
	// Validate checks each bundle before it is written.
	Validate bool
	// UniqueIDs rejects ids used more than once, also across nodes and
	// ways. Seen ids are stored in CacheDir.
	UniqueIDs bool
	CacheDir  string
	// Audit runs an additional audit pass parallel to the transformation.
	Audit   bool
	Mapping *mapping.Mapping
}

type Result struct {
	Counts stats.Counts
	// Rows contains the number of rows written per table.
	Rows   map[string]int64
	Report *audit.Report
}

// Run transforms opts.Input into the CSV tables in opts.Output.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Mapping == nil {
		opts.Mapping = mapping.Default()
	}
	result := &Result{}
	if !opts.Audit {
		if err := transform(ctx, opts, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report, err := auditFile(gctx, opts.Input, opts.Mapping)
		if err != nil {
			return err
		}
		result.Report = report
		return nil
	})
	g.Go(func() error {
		return transform(gctx, opts, result)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Audit runs only the audit pass on filename.
func Audit(ctx context.Context, filename string, m *mapping.Mapping) (*audit.Report, error) {
	if m == nil {
		m = mapping.Default()
	}
	return auditFile(ctx, filename, m)
}

func auditFile(ctx context.Context, filename string, m *mapping.Mapping) (*audit.Report, error) {
	step := log.StartStep("Auditing " + filename)
	defer log.StopStep(step)

	src, err := parser.Open(filename, element.NewKinds(element.NodeKind, element.WayKind, element.RelationKind))
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return audit.Audit(&contextSource{ctx: ctx, Source: src}, m)
}

func transform(ctx context.Context, opts Options, result *Result) (err error) {
	step := log.StartStep("Transforming " + opts.Input)
	defer log.StopStep(step)

	src, err := parser.Open(opts.Input, element.NewKinds(element.NodeKind, element.WayKind))
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := writer.Open(opts.Output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		result.Rows = w.Rows()
	}()

	var ids *cache.IDCache
	if opts.UniqueIDs {
		var dir string
		ids, dir, err = openIDCache(opts.CacheDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := ids.Remove(); err != nil {
				log.Warnf("removing id cache: %s", err)
			}
			if opts.CacheDir == "" {
				os.RemoveAll(dir)
			}
		}()
	}

	progress := stats.StatsReporter(0)
	defer func() {
		result.Counts = progress.Stop()
	}()

	shaper := shape.New(normalize.New(opts.Mapping))
	p := &pipeline{
		src:      &contextSource{ctx: ctx, Source: src},
		shaper:   shaper,
		validate: opts.Validate,
		ids:      ids,
		sink:     w,
		progress: progress,
	}
	err = p.run()
	progress.AddSkipped(int(parser.Skipped(src)))
	return err
}

// openIDCache opens an empty id cache in dir or in a new temporary
// directory if dir is empty.
func openIDCache(dir string) (*cache.IDCache, string, error) {
	if dir == "" {
		var err error
		dir, err = ioutil.TempDir("", "osmcsv")
		if err != nil {
			return nil, "", errors.Wrap(err, "creating cache dir")
		}
	}
	ids := cache.NewIDCache(dir)
	if ids.Exists() {
		log.Printf("removing existing id cache in %s", dir)
		if err := ids.Remove(); err != nil {
			return nil, "", err
		}
	}
	if err := ids.Open(); err != nil {
		return nil, "", err
	}
	return ids, dir, nil
}

type sink interface {
	Write(*shape.Bundle) error
}

type pipeline struct {
	src      parser.Source
	shaper   *shape.Shaper
	validate bool
	ids      *cache.IDCache
	sink     sink
	progress *stats.Statistics
}

func (p *pipeline) run() error {
	for {
		e, err := p.src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := p.element(e); err != nil {
			return err
		}
	}
}

func (p *pipeline) element(e *element.Element) error {
	b := p.shaper.Shape(e)
	if b == nil {
		p.progress.AddSkipped(1)
		return nil
	}
	if p.validate {
		if err := validate.Bundle(b); err != nil {
			return err
		}
	}
	if p.ids != nil {
		dup, err := p.ids.Add(b.ID())
		if err != nil {
			return err
		}
		if dup {
			return &validate.SchemaViolation{
				Table:      b.Table().Name,
				Field:      "id",
				Constraint: validate.ConstraintUnique,
				Value:      b.ID(),
			}
		}
	}
	if err := p.sink.Write(b); err != nil {
		return err
	}

	if b.Kind == element.NodeKind {
		p.progress.AddNodes(1)
	} else {
		p.progress.AddWays(1)
		p.progress.AddRefs(len(b.WayNodes))
	}
	p.progress.AddTags(len(b.Tags))
	if b.Discarded > 0 {
		p.progress.AddDiscarded(b.Discarded)
	}
	return nil
}

// contextSource stops reading when ctx is done.
type contextSource struct {
	ctx context.Context
	parser.Source
}

func (s *contextSource) Next() (*element.Element, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	return s.Source.Next()
}
