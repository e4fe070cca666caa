package dataio

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

// Codec compresses and decompresses whole sample files.
type Codec interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var (
	_ Codec = NoopCodec{}
	_ Codec = GzipCodec{}
	_ Codec = ZstdCodec{}
	_ Codec = LZ4Codec{}
	_ Codec = S2Codec{}
)

// CodecForPath selects a codec from the file extension. Unknown extensions
// are read as plain text.
func CodecForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return GzipCodec{}
	case ".zst", ".zstd":
		return ZstdCodec{}
	case ".lz4":
		return LZ4Codec{}
	case ".s2", ".sz":
		return S2Codec{}
	default:
		return NoopCodec{}
	}
}

// NoopCodec passes data through unchanged.
type NoopCodec struct{}

func (NoopCodec) Name() string { return "none" }
func (NoopCodec) Compress(data []byte) ([]byte, error) { return data, nil }
func (NoopCodec) Decompress(data []byte) ([]byte, error) { return data, nil }

// GzipCodec reads and writes gzip members.
type GzipCodec struct{}

func (GzipCodec) Name() string { return "gzip" }

func (GzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "gzip compression failed")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "gzip compression failed")
	}
	return buf.Bytes(), nil
}

func (GzipCodec) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "gzip decompression failed")
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "gzip decompression failed")
	}
	return out, nil
}

// zstdDecoderPool pools zstd decoders; DecodeAll is stateless so a pooled
// decoder is safe to reuse after a failed call.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}
		return encoder
	},
}

// ZstdCodec reads and writes Zstandard frames.
type ZstdCodec struct{}

func (ZstdCodec) Name() string { return "zstd" }

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)
	return encoder.EncodeAll(data, nil), nil
}

func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, errors.Wrap(err, "zstd decompression failed")
	}
	return out, nil
}

// LZ4Codec reads and writes the LZ4 frame format produced by the lz4 CLI.
type LZ4Codec struct{}

func (LZ4Codec) Name() string { return "lz4" }

func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "lz4 compression failed")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "lz4 compression failed")
	}
	return buf.Bytes(), nil
}

func (LZ4Codec) Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, errors.Wrap(err, "lz4 decompression failed")
	}
	return out, nil
}

// S2Codec reads and writes the S2 stream format (also accepts Snappy streams).
type S2Codec struct{}

func (S2Codec) Name() string { return "s2" }

func (S2Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "s2 compression failed")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "s2 compression failed")
	}
	return buf.Bytes(), nil
}

func (S2Codec) Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(s2.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, errors.Wrap(err, "s2 decompression failed")
	}
	return out, nil
}
