package main

import (
	"context"
	"fmt"
	golog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/omniscale/osmcsv"
	"github.com/omniscale/osmcsv/audit"
	"github.com/omniscale/osmcsv/config"
	"github.com/omniscale/osmcsv/database"
	_ "github.com/omniscale/osmcsv/database/sql/postgres"
	_ "github.com/omniscale/osmcsv/database/sql/sqlite"
	"github.com/omniscale/osmcsv/logging"
	"github.com/omniscale/osmcsv/mapping"
	"github.com/omniscale/osmcsv/shape"
	"github.com/omniscale/osmcsv/stats"
	"github.com/omniscale/osmcsv/transform"
)

var log = logging.NewLogger("")

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Available commands:")
	fmt.Fprintln(os.Stderr, "\taudit")
	fmt.Fprintln(os.Stderr, "\ttransform")
	fmt.Fprintln(os.Stderr, "\tload")
	fmt.Fprintln(os.Stderr, "\tversion")
}

func setup(opts config.Base) {
	if opts.Quiet {
		logging.SetQuiet(true)
	}
	if opts.Verbose {
		logging.SetLevel(logging.DEBUG)
	}
	if opts.Httpprofile != "" {
		stats.StartHttpPProf(opts.Httpprofile)
	}
}

func loadRules(filename string) *mapping.Mapping {
	if filename == "" {
		return mapping.Default()
	}
	m, err := mapping.FromFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	return m
}

// interruptContext returns a context that is canceled on SIGINT or SIGTERM.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigc:
			log.Warnf("received %s, stopping", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigc)
	}()
	return ctx, cancel
}

func printReport(r *audit.Report, verbose bool) {
	if !verbose {
		log.Printf("audit: %s", r.Summary())
		return
	}
	if err := r.Print(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func runAudit(args []string) {
	opts := config.ParseAudit(args)
	setup(opts.Base)
	ctx, cancel := interruptContext()
	defer cancel()

	report, err := transform.Audit(ctx, opts.Input, loadRules(opts.RulesFile))
	if err != nil {
		log.Fatal(err)
	}
	printReport(report, true)
}

func runTransform(args []string) {
	opts := config.ParseTransform(args)
	setup(opts.Base)
	ctx, cancel := interruptContext()
	defer cancel()

	result, err := transform.Run(ctx, transform.Options{
		Input:     opts.Input,
		Output:    opts.Output,
		Validate:  opts.Validate,
		UniqueIDs: opts.UniqueIDs,
		CacheDir:  opts.CacheDir,
		Audit:     opts.Audit,
		Mapping:   loadRules(opts.RulesFile),
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s", result.Counts)
	for _, table := range shape.Tables {
		log.Printf("%s: %d rows", table.Name, result.Rows[table.Name])
	}
	if result.Report != nil {
		printReport(result.Report, opts.Verbose)
	}
}

func runLoad(args []string) {
	opts := config.ParseLoad(args)
	setup(opts.Base)

	db, err := database.Open(database.Config{ConnectionParams: opts.Connection})
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if opts.Init {
		if err := db.Init(); err != nil {
			log.Fatal(err)
		}
	}
	if _, err := database.Load(db, opts.Dir); err != nil {
		log.Fatal(err)
	}
	if opts.Preview > 0 {
		for _, table := range shape.Tables {
			rows, err := db.Sample(table, opts.Preview)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Sample of records from %s\n", table.Name)
			for _, row := range rows {
				fmt.Printf("\t%q\n", row)
			}
		}
	}
}

func Main(usage func()) {
	golog.SetFlags(golog.LstdFlags | golog.Lshortfile)

	if len(os.Args) <= 1 {
		usage()
		logging.Shutdown()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "audit":
		runAudit(os.Args[2:])
	case "transform":
		runTransform(os.Args[2:])
	case "load":
		runLoad(os.Args[2:])
	case "version":
		fmt.Println(osmcsv.Version)
		os.Exit(0)
	default:
		usage()
		log.Fatalf("invalid command: '%s'", os.Args[1])
	}
	logging.Shutdown()
	os.Exit(0)
}

func main() {
	Main(PrintCmds)
}
