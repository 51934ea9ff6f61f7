package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/curbz/dflight2kml/internal/config"
	"github.com/curbz/dflight2kml/internal/emitter"
	"github.com/curbz/dflight2kml/internal/geozone"
	"github.com/curbz/dflight2kml/internal/kmlout"
	"github.com/curbz/dflight2kml/internal/logging"
	"github.com/curbz/dflight2kml/internal/style"
	"github.com/curbz/dflight2kml/internal/viewer"
	"github.com/curbz/dflight2kml/pkg/util"
)

var version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type launcher interface {
	Launch(filePath, label string) viewer.LaunchResult
}

// newLauncher is replaced in tests.
var newLauncher = func(cfg *config.Config, log logrus.FieldLogger) launcher {
	return viewer.New(
		viewer.WithCandidates(cfg.Viewer.Candidates),
		viewer.WithFallback(cfg.Viewer.FallbackDefaultApp),
		viewer.WithLogger(log),
	)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	input, output string
	project       string
	launch        bool
	policy        string
	configPath    string
	logLevel      string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("dflight2kml", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Convert D-Flight geozones to KML")
		fmt.Fprintln(stderr, "usage: dflight2kml [flags] input_file output_file")
		fs.PrintDefaults()
	}

	o := &options{}
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.StringVar(&o.project, "project", "", "open the KML in a map viewer, labelled with this project name")
	fs.StringVar(&o.policy, "policy", "", "altitude policy: fixed or tiered (overrides config)")
	fs.StringVar(&o.configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	// Accept flags before, between and after the positional arguments.
	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	if *showVersion {
		fmt.Fprintf(stderr, "dflight2kml %s\n", version)
		return nil, flag.ErrHelp
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "project" {
			o.launch = true
		}
	})
	if len(positional) != 2 {
		fs.Usage()
		return nil, fmt.Errorf("expected input_file and output_file, got %d argument(s)", len(positional))
	}
	o.input, o.output = positional[0], positional[1]
	return o, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if opts.policy != "" {
		cfg.Converter.Policy = opts.policy
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	policy, err := cfg.Policy()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	log := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Output:     stderr,
	})

	doc, err := convert(opts, cfg, policy, stdin, log)
	if err != nil {
		log.Errorf("Conversion failed: %v", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if err := kmlout.WriteFile(opts.output, doc); err != nil {
		log.Errorf("Writing KML failed: %v", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "Conversion complete. KML file saved as %s\n", opts.output)

	if opts.launch {
		res := newLauncher(cfg, log).Launch(opts.output, opts.project)
		if !res.Started {
			fmt.Fprintln(stdout, res.Message)
		}
	}
	return exitOK
}

func convert(opts *options, cfg *config.Config, policy style.Policy, stdin io.Reader, log *logrus.Logger) (*emitter.Document, error) {
	var (
		root any
		err  error
	)
	if opts.input == "-" {
		root, err = geozone.LoadReader(stdin)
	} else {
		root, err = geozone.Load(opts.input)
	}
	if err != nil {
		return nil, err
	}

	features, err := geozone.Decode(root, cfg.Converter.Defaults)
	if err != nil {
		return nil, err
	}
	log.Debugf("Decoded %d features with %d geometry segments", len(features), geozone.SegmentCount(features))

	name := cfg.Converter.DocumentName
	if name == "" {
		name = util.BaseName(opts.input)
	}
	doc := emitter.New(policy,
		emitter.WithDocumentName(name),
		emitter.WithLogger(log.WithField("policy", policy.String())),
	).Convert(features)

	fields := logrus.Fields{"polygons": len(doc.Polygons), "policy": policy.String()}
	for c, n := range doc.ColorCounts() {
		fields[c] = n
	}
	if b, ok := doc.Bound(); ok {
		fields["bound"] = fmt.Sprintf("[%.5f,%.5f]-[%.5f,%.5f]", b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat())
	}
	log.WithFields(fields).Info("Geozones converted")
	return doc, nil
}
