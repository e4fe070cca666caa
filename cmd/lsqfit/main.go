// Command lsqfit fits a linear combination of basis functions to samples read
// from a file and prints the coefficients.
//
//	lsqfit [flags] <order> <file>
//
// The basis is x^0, ..., x^order, optionally extended with ln(m*x) and
// exp(r*x). The input file holds N x values followed by N y values.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/YuminosukeSato/leslie/basis"
	"github.com/YuminosukeSato/leslie/dataio"
	"github.com/YuminosukeSato/leslie/linear"
	"github.com/YuminosukeSato/leslie/pkg/errors"
	"github.com/YuminosukeSato/leslie/pkg/log"
	"github.com/YuminosukeSato/leslie/report"
	"github.com/YuminosukeSato/leslie/space"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "lsqfit: %v\n", err)
		return exitUsage
	}

	logger := log.NewConsoleLogger(stderr, cfg.LogLevel).With(log.ComponentKey, "lsqfit")
	log.SetLogger(logger)

	if err := fit(cfg, stdin, stdout, logger); err != nil {
		logger.Debug("lsqfit failed", err)
		fmt.Fprintf(stderr, "lsqfit: %s: %v\n", describe(err), err)
		var singular *errors.SingularSystemError
		if errors.As(err, &singular) {
			fmt.Fprintln(stderr, singularHint(cfg))
		}
		return exitFailure
	}
	return exitOK
}

func fit(cfg *Config, stdin io.Reader, stdout io.Writer, logger log.Logger) error {
	samples, err := readSamples(cfg.Input, stdin)
	if err != nil {
		return err
	}
	logger.Info("samples read",
		log.OperationKey, log.OperationReadSamples,
		log.SourceKey, cfg.Input,
		log.SamplesKey, samples.Len(),
		log.FingerprintKey, fmt.Sprintf("%016x", samples.Fingerprint()),
	)
	if logger.Enabled(context.Background(), log.LevelDebug) {
		if summary, err := samples.Summary(); err == nil {
			logger.Debug("sample summary", "summary", summary)
		}
	}

	fs, err := buildSpace(cfg, logger)
	if err != nil {
		return err
	}
	ls, err := linear.NewLeastSquares(fs,
		linear.WithPolicy(cfg.Policy),
		linear.WithEquilibration(cfg.Equilibrate),
		linear.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	if err := ls.Fit(samples.X, samples.Y); err != nil {
		return err
	}

	if err := writeResult(cfg, ls, stdout); err != nil {
		return err
	}
	if cfg.Plot != "" {
		if err := report.RenderFit(cfg.Plot, samples, ls, report.WithLogger(logger)); err != nil {
			return err
		}
	}
	return nil
}

func readSamples(path string, stdin io.Reader) (*dataio.Samples, error) {
	if path == "-" {
		return dataio.ReadSamples(stdin)
	}
	return dataio.ReadFile(path)
}

func buildSpace(cfg *Config, logger log.Logger) (*space.FunctionSpace, error) {
	fs, err := space.NewPolynomial(cfg.Order, space.WithWorkers(cfg.Workers), space.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if cfg.LogTerm != 0 {
		if err := fs.Append(basis.NewLogarithm(cfg.LogTerm)); err != nil {
			return nil, err
		}
	}
	if cfg.ExpTerm != 0 {
		if err := fs.Append(basis.NewExponential(cfg.ExpTerm)); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

func writeResult(cfg *Config, ls *linear.LeastSquares, stdout io.Writer) error {
	if cfg.Format == formatJSON {
		var buf bytes.Buffer
		if err := ls.ExportJSON(&buf); err != nil {
			return err
		}
		if cfg.Output == "" {
			_, err := stdout.Write(buf.Bytes())
			return err
		}
		data, err := dataio.CodecForPath(cfg.Output).Compress(buf.Bytes())
		if err != nil {
			return err
		}
		return os.WriteFile(cfg.Output, data, 0o644)
	}

	format, err := dataio.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		return dataio.WriteCoefficients(stdout, ls.Coefficients(), format)
	}
	return dataio.WriteFile(cfg.Output, ls.Coefficients(), format)
}

func singularHint(cfg *Config) string {
	if !cfg.Equilibrate {
		return "lsqfit: hint: rerun without -equilibrate=false, or with -policy minnorm"
	}
	return "lsqfit: hint: rerun with -policy minnorm for the minimum-norm solution"
}

// describe names the failure kind shown to the user.
func describe(err error) string {
	var (
		invalid  *errors.InvalidInputError
		domain   *errors.DomainError
		index    *errors.IndexError
		singular *errors.SingularSystemError
	)
	switch {
	case errors.As(err, &domain):
		return "domain error"
	case errors.As(err, &singular):
		return "singular system"
	case errors.As(err, &index):
		return "index error"
	case errors.As(err, &invalid):
		return "invalid input"
	default:
		return "error"
	}
}
