package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/YuminosukeSato/leslie/dataio"
	"github.com/YuminosukeSato/leslie/linear"
	"github.com/YuminosukeSato/leslie/pkg/errors"
	"github.com/YuminosukeSato/leslie/pkg/log"
)

const formatJSON = "json"

// Config holds the validated command line.
type Config struct {
	Order  int
	Input  string
	Output string
	Format string

	Policy      linear.Policy
	Equilibrate bool
	LogTerm     float64
	ExpTerm     float64

	Plot     string
	LogLevel log.Level
	Workers  int
}

// usageError marks a command line that could not be parsed.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newFlagSet(stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("lsqfit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: lsqfit [flags] <order> <file>\n\n")
		fmt.Fprintf(fs.Output(), "Fits y ≈ Σ β_k x^k (k = 0..order) plus optional log and exp terms.\n")
		fmt.Fprintf(fs.Output(), "<file> holds N x values followed by N y values; \"-\" reads stdin.\n\nflags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseConfig parses args (without the program name). Every returned error
// other than flag.ErrHelp is a *usageError.
func parseConfig(args []string, stderr io.Writer) (*Config, error) {
	fs := newFlagSet(stderr)
	format := fs.String("format", "labeled", "output format: plain, labeled, csv or json")
	output := fs.String("o", "", "write coefficients to this file instead of stdout (.gz/.zst/.lz4/.s2 compress)")
	policy := fs.String("policy", "reject", "singular system policy: reject or minnorm")
	equilibrate := fs.Bool("equilibrate", true, "scale design matrix columns to unit norm before solving (-equilibrate=false disables)")
	logTerm := fs.Float64("log-term", 0, "append ln(m*x) to the basis (0 disables)")
	expTerm := fs.Float64("exp-term", 0, "append exp(r*x) to the basis (0 disables)")
	plotPath := fs.String("plot", "", "render the fit to this image file (.png, .svg, .pdf)")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn or error")
	workers := fs.Int("workers", 0, "goroutines for design matrix assembly (0 uses all CPUs)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, &usageError{err: err}
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return nil, &usageError{err: errors.Newf("expected <order> <file>, got %d arguments", fs.NArg())}
	}

	order, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return nil, &usageError{err: errors.NewValidationErrorWithCause("order", "must be an integer", fs.Arg(0), err)}
	}

	cfg := &Config{
		Order:       order,
		Input:       fs.Arg(1),
		Output:      *output,
		Format:      *format,
		Equilibrate: *equilibrate,
		LogTerm:     *logTerm,
		ExpTerm:     *expTerm,
		Plot:        *plotPath,
		Workers:     *workers,
	}
	if cfg.Policy, err = linear.ParsePolicy(*policy); err != nil {
		return nil, &usageError{err: err}
	}
	if cfg.LogLevel, err = log.ParseLevel(*logLevel); err != nil {
		return nil, &usageError{err: err}
	}
	if err := cfg.validate(); err != nil {
		return nil, &usageError{err: err}
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Order < 0 {
		return errors.NewValidationError("order", "must be non-negative", c.Order)
	}
	if c.Format != formatJSON {
		if _, err := dataio.ParseFormat(c.Format); err != nil {
			return errors.NewValidationError("format", "must be one of plain, labeled, csv, json", c.Format)
		}
	}
	if c.Workers < 0 {
		return errors.NewValidationError("workers", "must be non-negative", c.Workers)
	}
	if !errors.IsFinite(c.LogTerm) || !errors.IsFinite(c.ExpTerm) {
		return errors.NewValidationError("term", "log-term and exp-term must be finite", nil)
	}
	return nil
}
