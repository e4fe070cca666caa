package dataio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

// Format selects the coefficient output layout.
type Format int

const (
	// FormatLabeled writes "beta_<i> = <v>" lines.
	FormatLabeled Format = iota
	// FormatPlain writes one value per line.
	FormatPlain
	// FormatCSV writes "beta_<i>,<v>" records.
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatLabeled:
		return "labeled"
	case FormatPlain:
		return "plain"
	case FormatCSV:
		return "csv"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "labeled", "":
		return FormatLabeled, nil
	case "plain":
		return FormatPlain, nil
	case "csv":
		return FormatCSV, nil
	default:
		return 0, errors.NewValidationError("format", "must be one of plain, labeled, csv", s)
	}
}

// CoefficientName returns the label of coefficient i.
func CoefficientName(i int) string {
	return "beta_" + strconv.Itoa(i)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCoefficients writes beta to w in the given format.
func WriteCoefficients(w io.Writer, beta []float64, format Format) error {
	switch format {
	case FormatPlain:
		for _, v := range beta {
			if _, err := fmt.Fprintln(w, formatValue(v)); err != nil {
				return errors.Wrap(err, "failed to write coefficients")
			}
		}
	case FormatLabeled:
		for i, v := range beta {
			if _, err := fmt.Fprintf(w, "%s = %s\n", CoefficientName(i), formatValue(v)); err != nil {
				return errors.Wrap(err, "failed to write coefficients")
			}
		}
	case FormatCSV:
		cw := csv.NewWriter(w)
		for i, v := range beta {
			if err := cw.Write([]string{CoefficientName(i), formatValue(v)}); err != nil {
				return errors.Wrap(err, "failed to write coefficients")
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return errors.Wrap(err, "failed to write coefficients")
		}
	default:
		return errors.NewValidationError("format", "unknown format", format)
	}
	return nil
}

// WriteFile writes beta to path, compressing by file extension.
func WriteFile(path string, beta []float64, format Format) error {
	var buf bytes.Buffer
	if err := WriteCoefficients(&buf, beta, format); err != nil {
		return err
	}
	data, err := CodecForPath(path).Compress(buf.Bytes())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
