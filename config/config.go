// Package config parses the command line flags and the optional YAML
// config file of all sub commands.
package config

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is the content of the -config file. Options set on the
// command line take precedence.
type Config struct {
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	CacheDir   string `yaml:"cachedir"`
	Connection string `yaml:"connection"`
	RulesFile  string `yaml:"rules"`
	Validate   *bool  `yaml:"validate"`
	UniqueIDs  *bool  `yaml:"uniqueids"`
	Audit      *bool  `yaml:"audit"`
}

var defaultCacheDir = filepath.Join(os.TempDir(), "osmcsv")

const defaultOutput = "."
const defaultPreview = 5

type Base struct {
	ConfigFile  string
	RulesFile   string
	Httpprofile string
	Quiet       bool
	Verbose     bool
}

type Transform struct {
	Base
	Input     string
	Output    string
	CacheDir  string
	Validate  bool
	UniqueIDs bool
	Audit     bool
}

type Audit struct {
	Base
	Input string
}

type Load struct {
	Base
	Connection string
	Dir        string
	Init       bool
	Preview    int
}

func loadConfig(filename string) (*Config, error) {
	conf := &Config{}
	if filename == "" {
		return conf, nil
	}
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	if err := yaml.UnmarshalStrict(b, conf); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", filename)
	}
	return conf, nil
}

// explicitFlags returns the names of all flags that were set on the
// command line.
func explicitFlags(flags *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func updateString(set map[string]bool, name string, opt *string, conf string) {
	if !set[name] && conf != "" {
		*opt = conf
	}
}

func updateBool(set map[string]bool, name string, opt *bool, conf *bool) {
	if !set[name] && conf != nil {
		*opt = *conf
	}
}

func (o *Base) updateFromConfig(conf *Config, set map[string]bool) {
	updateString(set, "rules", &o.RulesFile, conf.RulesFile)
}

func (o *Transform) updateFromConfig(conf *Config, set map[string]bool) {
	o.Base.updateFromConfig(conf, set)
	updateString(set, "input", &o.Input, conf.Input)
	updateString(set, "output", &o.Output, conf.Output)
	updateString(set, "cachedir", &o.CacheDir, conf.CacheDir)
	updateBool(set, "validate", &o.Validate, conf.Validate)
	updateBool(set, "uniqueids", &o.UniqueIDs, conf.UniqueIDs)
	updateBool(set, "audit", &o.Audit, conf.Audit)
}

func (o *Audit) updateFromConfig(conf *Config, set map[string]bool) {
	o.Base.updateFromConfig(conf, set)
	updateString(set, "input", &o.Input, conf.Input)
}

func (o *Load) updateFromConfig(conf *Config, set map[string]bool) {
	o.Base.updateFromConfig(conf, set)
	updateString(set, "connection", &o.Connection, conf.Connection)
	// tables are loaded from the transform output by default
	updateString(set, "dir", &o.Dir, conf.Output)
}

func (o *Transform) check() []error {
	errs := []error{}
	if o.Input == "" {
		errs = append(errs, errors.New("missing -input"))
	}
	if o.Output == "" {
		errs = append(errs, errors.New("missing -output"))
	}
	if o.UniqueIDs && o.CacheDir == "" {
		errs = append(errs, errors.New("-uniqueids requires -cachedir"))
	}
	return errs
}

func (o *Audit) check() []error {
	errs := []error{}
	if o.Input == "" {
		errs = append(errs, errors.New("missing -input"))
	}
	return errs
}

func (o *Load) check() []error {
	errs := []error{}
	if o.Connection == "" {
		errs = append(errs, errors.New("missing -connection"))
	}
	if o.Dir == "" {
		errs = append(errs, errors.New("missing -dir"))
	}
	if o.Preview < 0 {
		errs = append(errs, errors.New("-preview must not be negative"))
	}
	return errs
}

func addBaseFlags(opts *Base, flags *flag.FlagSet) {
	flags.StringVar(&opts.ConfigFile, "config", "", "config (yaml)")
	flags.StringVar(&opts.RulesFile, "rules", "", "cleaning rules (yaml), built-in rules if empty")
	flags.StringVar(&opts.Httpprofile, "httpprofile", "", "bind address for profile server")
	flags.BoolVar(&opts.Quiet, "quiet", false, "quiet log output")
	flags.BoolVar(&opts.Verbose, "verbose", false, "verbose output")
}

func NewTransformFlagSet(opts *Transform) *flag.FlagSet {
	flags := flag.NewFlagSet("transform", flag.ContinueOnError)
	addBaseFlags(&opts.Base, flags)
	flags.StringVar(&opts.Input, "input", "", "OSM input file (.osm, .osm.gz, .osm.pbf)")
	flags.StringVar(&opts.Output, "output", defaultOutput, "output directory for CSV tables")
	flags.StringVar(&opts.CacheDir, "cachedir", defaultCacheDir, "cache directory for -uniqueids")
	flags.BoolVar(&opts.Validate, "validate", false, "validate all records before writing")
	flags.BoolVar(&opts.UniqueIDs, "uniqueids", false, "reject duplicate node and way ids")
	flags.BoolVar(&opts.Audit, "audit", false, "audit input while transforming")
	return flags
}

func NewAuditFlagSet(opts *Audit) *flag.FlagSet {
	flags := flag.NewFlagSet("audit", flag.ContinueOnError)
	addBaseFlags(&opts.Base, flags)
	flags.StringVar(&opts.Input, "input", "", "OSM input file (.osm, .osm.gz, .osm.pbf)")
	return flags
}

func NewLoadFlagSet(opts *Load) *flag.FlagSet {
	flags := flag.NewFlagSet("load", flag.ContinueOnError)
	addBaseFlags(&opts.Base, flags)
	flags.StringVar(&opts.Connection, "connection", "", "connection parameters (sqlite:PATH or postgres://...)")
	flags.StringVar(&opts.Dir, "dir", defaultOutput, "directory with CSV tables")
	flags.BoolVar(&opts.Init, "init", false, "drop and create tables before loading")
	flags.IntVar(&opts.Preview, "preview", 0, fmt.Sprintf("print the first rows of each table after loading (e.g. %d)", defaultPreview))
	return flags
}

type options interface {
	updateFromConfig(*Config, map[string]bool)
	check() []error
}

// parse parses args into opts and merges the config file. Returns
// flag.ErrHelp if -h was passed.
func parse(flags *flag.FlagSet, base *Base, opts options, args []string) []error {
	if err := flags.Parse(args); err != nil {
		return []error{err}
	}
	if flags.NArg() > 0 {
		return []error{errors.Errorf("unexpected arguments: %v", flags.Args())}
	}
	conf, err := loadConfig(base.ConfigFile)
	if err != nil {
		return []error{err}
	}
	opts.updateFromConfig(conf, explicitFlags(flags))
	return opts.check()
}

func ParseTransform(args []string) Transform {
	opts := Transform{}
	flags := NewTransformFlagSet(&opts)
	exitOnErrors(flags, parse(flags, &opts.Base, &opts, args))
	return opts
}

func ParseAudit(args []string) Audit {
	opts := Audit{}
	flags := NewAuditFlagSet(&opts)
	exitOnErrors(flags, parse(flags, &opts.Base, &opts, args))
	return opts
}

func ParseLoad(args []string) Load {
	opts := Load{}
	flags := NewLoadFlagSet(&opts)
	exitOnErrors(flags, parse(flags, &opts.Base, &opts, args))
	return opts
}

func exitOnErrors(flags *flag.FlagSet, errs []error) {
	if len(errs) == 0 {
		return
	}
	if len(errs) == 1 && errs[0] == flag.ErrHelp {
		os.Exit(2)
	}
	reportErrors(errs)
	usage(flags)
	os.Exit(2)
}

func usage(flags *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: %s %s [args]\n\n", filepath.Base(os.Args[0]), flags.Name())
	flags.SetOutput(os.Stderr)
	flags.PrintDefaults()
}

func reportErrors(errs []error) {
	fmt.Fprintln(os.Stderr, "errors in config/options:")
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "\t%s\n", err)
	}
}
