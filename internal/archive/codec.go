// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the framing wrapped around a tar stream.
type Compression int

const (
	// CompressionNone is a bare tar stream.
	CompressionNone Compression = iota
	// CompressionGzip is gzip framing (.tar.gz, .tgz).
	CompressionGzip
	// CompressionBzip2 is bzip2 framing (.tar.bz2).
	CompressionBzip2
	// CompressionZstd is zstandard framing (.tar.zst).
	CompressionZstd
	// CompressionLz4 is lz4 framing (.tar.lz4).
	CompressionLz4
)

// Magic byte prefixes for the supported framings.
var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicBzip2 = []byte{'B', 'Z', 'h'}
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLz4   = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the conventional file extension for the compression.
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionZstd:
		return "zstd"
	case CompressionLz4:
		return "lz4"
	default:
		return "none"
	}
}

// DetectCompression determines the framing from the archive filename. When
// the extension is not recognized, the first bytes of the stream decide.
func DetectCompression(filename string, r *bufio.Reader) (Compression, error) {
	switch {
	case strings.HasSuffix(filename, ".tar.gz"), strings.HasSuffix(filename, ".tgz"):
		return CompressionGzip, nil
	case strings.HasSuffix(filename, ".tar.bz2"), strings.HasSuffix(filename, ".tbz2"):
		return CompressionBzip2, nil
	case strings.HasSuffix(filename, ".tar.zst"):
		return CompressionZstd, nil
	case strings.HasSuffix(filename, ".tar.lz4"):
		return CompressionLz4, nil
	case strings.HasSuffix(filename, ".tar"):
		return CompressionNone, nil
	}

	// Unknown extension: sniff magic bytes without consuming the stream.
	head, err := r.Peek(4)
	if err != nil && len(head) < 2 {
		return CompressionNone, fmt.Errorf("reading archive header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, magicGzip):
		return CompressionGzip, nil
	case bytes.HasPrefix(head, magicBzip2):
		return CompressionBzip2, nil
	case bytes.HasPrefix(head, magicZstd):
		return CompressionZstd, nil
	case bytes.HasPrefix(head, magicLz4):
		return CompressionLz4, nil
	}

	return CompressionNone, nil
}

// newDecompressor wraps r with the decoder for the given compression.
// The returned closer releases decoder resources; it never closes r.
func newDecompressor(c Compression, r io.Reader) (io.Reader, func(), error) {
	switch c {
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gz, func() { _ = gz.Close() }, nil
	case CompressionBzip2:
		return bzip2.NewReader(r), func() {}, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return zr, zr.Close, nil
	case CompressionLz4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}
