package dataio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

func TestReadSamples(t *testing.T) {
	s, err := ReadSamples(strings.NewReader("0 1 2 3  0 1 4 9"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, s.X)
	assert.Equal(t, []float64{0, 1, 4, 9}, s.Y)
	assert.Equal(t, 4, s.Len())

	s, err = ReadSamples(strings.NewReader("1.5\n-2e3\t\n 7 \n8\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2000}, s.X)
	assert.Equal(t, []float64{7, 8}, s.Y)
}

func TestReadSamplesErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		index    int
		sentinel error
	}{
		{"odd count", "1 2 3", -1, errors.ErrOddTokenCount},
		{"empty", "", -1, errors.ErrEmptyData},
		{"whitespace only", " \n\t ", -1, errors.ErrEmptyData},
		{"bad token", "1 2 abc 4", 2, nil},
		{"nan token", "NaN 1", 0, nil},
		{"inf token", "1 2 3 +Inf", 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSamples(strings.NewReader(tt.input))
			var ie *errors.InvalidInputError
			require.True(t, errors.As(err, &ie), "expected InvalidInputError, got %v", err)
			assert.Equal(t, tt.index, ie.Index)
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			}
		})
	}
}

func TestSplitTokensDoesNotAlias(t *testing.T) {
	s, err := SplitTokens([]float64{1, 2, 3, 4})
	require.NoError(t, err)

	s.X = append(s.X, 99)
	assert.Equal(t, []float64{3, 4}, s.Y, "appending to X must not overwrite Y")
}

func TestNewSamples(t *testing.T) {
	_, err := NewSamples([]float64{1, 2}, []float64{1})
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))

	_, err = NewSamples(nil, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestFingerprint(t *testing.T) {
	a, err := NewSamples([]float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	b, err := NewSamples([]float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	swapped, err := NewSamples([]float64{3, 4}, []float64{1, 2})
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), swapped.Fingerprint())
}

func TestSummary(t *testing.T) {
	s, err := NewSamples([]float64{1, 2, 3, 4}, []float64{2, 4, 4, 4})
	require.NoError(t, err)

	sum, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Count)
	assert.InDelta(t, 2.5, sum.X.Mean, 1e-12)
	assert.Equal(t, 1.0, sum.X.Min)
	assert.Equal(t, 4.0, sum.X.Max)
	assert.InDelta(t, 3.5, sum.Y.Mean, 1e-12)
	assert.InDelta(t, 0.8660254037844386, sum.Y.StdDev, 1e-12)

	empty := &Samples{}
	_, err = empty.Summary()
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestWriteCoefficients(t *testing.T) {
	beta := []float64{0, -1.5, 2e-10}

	tests := []struct {
		format Format
		want   string
	}{
		{FormatPlain, "0\n-1.5\n2e-10\n"},
		{FormatLabeled, "beta_0 = 0\nbeta_1 = -1.5\nbeta_2 = 2e-10\n"},
		{FormatCSV, "beta_0,0\nbeta_1,-1.5\nbeta_2,2e-10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteCoefficients(&buf, beta, tt.format))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	var ve *errors.ValidationError
	assert.True(t, errors.As(WriteCoefficients(&bytes.Buffer{}, beta, Format(9)), &ve))
}

func TestWriteCoefficientsRoundTripsPlain(t *testing.T) {
	beta := []float64{1.0 / 3.0, 2.718281828459045, -1e300}

	var buf bytes.Buffer
	require.NoError(t, WriteCoefficients(&buf, append(beta, beta...), FormatPlain))

	s, err := ReadSamples(&buf)
	require.NoError(t, err)
	assert.Equal(t, beta, s.X, "plain output keeps full precision")
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"plain", "labeled", "csv"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatLabeled, f)

	_, err = ParseFormat("xml")
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestCodecForPath(t *testing.T) {
	tests := map[string]string{
		"data.txt":     "none",
		"data":         "none",
		"data.txt.gz":  "gzip",
		"DATA.GZ":      "gzip",
		"data.zst":     "zstd",
		"data.lz4":     "lz4",
		"data.txt.s2":  "s2",
		"data.txt.sz":  "s2",
		"dir.gz/plain": "none",
	}
	for path, want := range tests {
		assert.Equal(t, want, CodecForPath(path).Name(), path)
	}
}

func TestCodecsRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("0.125 1 2 3 ", 200) + strings.Repeat("4 5 6 7 ", 200))

	for _, c := range []Codec{NoopCodec{}, GzipCodec{}, ZstdCodec{}, LZ4Codec{}, S2Codec{}} {
		t.Run(c.Name(), func(t *testing.T) {
			compressed, err := c.Compress(payload)
			require.NoError(t, err)
			got, err := c.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestCorruptInput(t *testing.T) {
	garbage := []byte("definitely not compressed")
	for _, c := range []Codec{GzipCodec{}, ZstdCodec{}, LZ4Codec{}, S2Codec{}} {
		_, err := c.Decompress(garbage)
		assert.Error(t, err, c.Name())
	}
}

func TestReadAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	input := "0 1 2 3  0 1 4 9\n"

	for _, ext := range []string{".txt", ".txt.gz", ".zst", ".lz4", ".s2"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "samples"+ext)
			data, err := CodecForPath(path).Compress([]byte(input))
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, data, 0o644))

			s, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, []float64{0, 1, 2, 3}, s.X)
			assert.Equal(t, []float64{0, 1, 4, 9}, s.Y)

			out := filepath.Join(dir, "beta"+ext)
			require.NoError(t, WriteFile(out, []float64{0, 0, 1}, FormatCSV))
			raw, err := os.ReadFile(out)
			require.NoError(t, err)
			plain, err := CodecForPath(out).Decompress(raw)
			require.NoError(t, err)
			assert.Equal(t, "beta_0,0\nbeta_1,0\nbeta_2,1\n", string(plain))
		})
	}

	_, err := ReadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
