// Package dataio reads sample sets from whitespace-delimited token streams and
// writes fitted coefficients.
//
// A sample stream holds an even number N of numeric tokens: the first N/2 are
// the x coordinates and the last N/2 are the matching y values. Streams may be
// compressed; ReadFile picks a codec from the file extension.
package dataio

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/montanaflynn/stats"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

// Samples is a set of (x, y) observations.
type Samples struct {
	X []float64
	Y []float64
}

// NewSamples pairs xs and ys. Both must be non-empty and of equal length.
func NewSamples(xs, ys []float64) (*Samples, error) {
	if len(xs) != len(ys) {
		return nil, errors.NewDimensionError("NewSamples", len(xs), len(ys), 0)
	}
	if len(xs) == 0 {
		return nil, errors.NewInvalidInputError("NewSamples", "no samples", -1, errors.ErrEmptyData)
	}
	return &Samples{X: xs, Y: ys}, nil
}

// Len returns the number of observations.
func (s *Samples) Len() int {
	return len(s.X)
}

// Fingerprint hashes the IEEE-754 bits of every x followed by every y.
// Identical sample sets always produce the same fingerprint.
func (s *Samples) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, vs := range [][]float64{s.X, s.Y} {
		for _, v := range vs {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = d.Write(buf[:])
		}
	}
	return d.Sum64()
}

// Stats describes one coordinate of a sample set.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary describes a sample set.
type Summary struct {
	Count int   `json:"count"`
	X     Stats `json:"x"`
	Y     Stats `json:"y"`
}

// Summary computes descriptive statistics of both coordinates.
func (s *Samples) Summary() (Summary, error) {
	x, err := describe(s.X)
	if err != nil {
		return Summary{}, err
	}
	y, err := describe(s.Y)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Count: s.Len(), X: x, Y: y}, nil
}

func describe(vs []float64) (Stats, error) {
	data := stats.Float64Data(vs)
	mean, err := data.Mean()
	if err != nil {
		return Stats{}, errors.NewInvalidInputError("Samples.Summary", err.Error(), -1, errors.ErrEmptyData)
	}
	// population form is defined for a single sample
	stddev, _ := data.StandardDeviationPopulation()
	lo, _ := data.Min()
	hi, _ := data.Max()
	return Stats{Mean: mean, StdDev: stddev, Min: lo, Max: hi}, nil
}
