package dataio

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

// ReadSamples parses a whitespace-delimited token stream into samples.
//
// A token that is not a finite number is reported with its zero-based token
// index. An odd or zero token count is rejected.
func ReadSamples(r io.Reader) (*Samples, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	var tokens []float64
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, errors.NewInvalidInputError("ReadSamples", "token "+strconv.Quote(sc.Text())+" is not a number", len(tokens), err)
		}
		if !errors.IsFinite(v) {
			return nil, errors.NewInvalidInputError("ReadSamples", "token "+strconv.Quote(sc.Text())+" is not finite", len(tokens), nil)
		}
		tokens = append(tokens, v)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read samples")
	}

	return SplitTokens(tokens)
}

// SplitTokens splits a flat token sequence into its x half and its y half.
func SplitTokens(tokens []float64) (*Samples, error) {
	switch {
	case len(tokens) == 0:
		return nil, errors.NewInvalidInputError("ReadSamples", "no tokens", -1, errors.ErrEmptyData)
	case len(tokens)%2 != 0:
		return nil, errors.NewInvalidInputError("ReadSamples",
			"token count "+strconv.Itoa(len(tokens))+" is odd", -1, errors.ErrOddTokenCount)
	}
	n := len(tokens) / 2
	return NewSamples(tokens[:n:n], tokens[n:])
}

// ReadFile reads samples from path, decompressing by file extension.
func ReadFile(path string) (*Samples, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	data, err := CodecForPath(path).Decompress(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return ReadSamples(bytes.NewReader(data))
}
