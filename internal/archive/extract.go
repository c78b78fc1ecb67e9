// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// maxEntryBytes is the upper bound on a single extracted file (500 MB).
	maxEntryBytes = 500 << 20

	// maxTotalBytes is the upper bound on the whole extracted tree (4 GB).
	// Both limits guard against decompression bombs.
	maxTotalBytes = 4 << 30
)

var (
	// ErrCorruptArchive indicates the archive is truncated or malformed.
	ErrCorruptArchive = errors.New("corrupt or truncated archive")

	// ErrUnsafePath indicates a tar entry tried to escape the destination
	// via an absolute path or a ".." component.
	ErrUnsafePath = errors.New("archive entry escapes destination")

	// ErrNoRootDir indicates the archive does not unpack into a single
	// top-level directory, which autotools source tarballs always do.
	ErrNoRootDir = errors.New("archive has no single top-level directory")
)

// ExtractionError wraps any failure to unpack an archive. The Entry field
// names the tar member being processed when the failure occurred, if known.
type ExtractionError struct {
	Archive string
	Entry   string
	Cause   error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("extracting %s: entry %s: %v", e.Archive, e.Entry, e.Cause)
	}
	return fmt.Sprintf("extracting %s: %v", e.Archive, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *ExtractionError) Unwrap() error { return e.Cause }

// ExtractTar unpacks the tar archive at archivePath into destDir and returns
// the absolute path of the archive's single top-level directory. Compression
// is auto-detected. Entry ownership is not preserved; file modes and symlinks
// are.
func ExtractTar(archivePath, destDir string) (_ string, err error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", &ExtractionError{Archive: archivePath, Cause: err}
	}
	defer func() {
		// Read-only file handle; close errors are exotic.
		_ = f.Close()
	}()

	br := bufio.NewReader(f)
	comp, err := DetectCompression(filepath.Base(archivePath), br)
	if err != nil {
		return "", &ExtractionError{Archive: archivePath, Cause: err}
	}

	dec, closeDec, err := newDecompressor(comp, br)
	if err != nil {
		return "", &ExtractionError{Archive: archivePath, Cause: fmt.Errorf("%w: %v", ErrCorruptArchive, err)}
	}
	defer closeDec()

	tr := tar.NewReader(dec)

	var (
		rootDir    string
		totalBytes int64
	)

	for {
		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return "", &ExtractionError{Archive: archivePath, Cause: fmt.Errorf("%w: %v", ErrCorruptArchive, nextErr)}
		}

		cleaned, pathErr := safeEntryPath(hdr.Name)
		if pathErr != nil {
			return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name, Cause: pathErr}
		}
		if cleaned == "." {
			continue
		}

		top := topComponent(cleaned)
		switch {
		case rootDir == "":
			rootDir = top
		case rootDir != top:
			return "", &ExtractionError{Archive: archivePath, Cause: ErrNoRootDir}
		}

		target := filepath.Join(destDir, cleaned)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if mkErr := os.MkdirAll(target, os.FileMode(hdr.Mode)&os.ModePerm|0o700); mkErr != nil {
				return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name, Cause: mkErr}
			}

		case tar.TypeReg:
			if hdr.Size > maxEntryBytes {
				return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name,
					Cause: fmt.Errorf("entry size %d exceeds limit", hdr.Size)}
			}
			totalBytes += hdr.Size
			if totalBytes > maxTotalBytes {
				return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name,
					Cause: fmt.Errorf("extracted size exceeds limit")}
			}
			if wErr := writeEntry(target, tr, os.FileMode(hdr.Mode)&os.ModePerm); wErr != nil {
				return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name,
					Cause: fmt.Errorf("%w: %v", ErrCorruptArchive, wErr)}
			}

		case tar.TypeSymlink:
			// Reject links that point outside the extracted tree.
			if filepath.IsAbs(hdr.Linkname) || escapesViaDotDot(filepath.Join(filepath.Dir(cleaned), hdr.Linkname)) {
				return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name, Cause: ErrUnsafePath}
			}
			if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
				return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name, Cause: mkErr}
			}
			if lnErr := os.Symlink(hdr.Linkname, target); lnErr != nil && !os.IsExist(lnErr) {
				return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name, Cause: lnErr}
			}

		case tar.TypeLink:
			linked, linkErr := safeEntryPath(hdr.Linkname)
			if linkErr != nil {
				return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name, Cause: linkErr}
			}
			if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
				return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name, Cause: mkErr}
			}
			if lnErr := os.Link(filepath.Join(destDir, linked), target); lnErr != nil && !os.IsExist(lnErr) {
				return "", &ExtractionError{Archive: archivePath, Entry: hdr.Name, Cause: lnErr}
			}

		default:
			// Devices, FIFOs and other exotic entries never appear in source
			// tarballs; skip them rather than failing the whole extraction.
			continue
		}
	}

	if rootDir == "" {
		return "", &ExtractionError{Archive: archivePath, Cause: fmt.Errorf("%w: empty archive", ErrCorruptArchive)}
	}

	return filepath.Join(destDir, rootDir), nil
}

// writeEntry streams one regular file from the tar reader to target.
func writeEntry(target string, tr io.Reader, mode os.FileMode) (err error) {
	if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
		return mkErr
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode|0o200)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = io.Copy(out, io.LimitReader(tr, maxEntryBytes)); err != nil {
		return err
	}
	return nil
}

// safeEntryPath cleans a tar entry name and rejects absolute paths and
// anything that resolves outside the destination.
func safeEntryPath(name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", ErrUnsafePath
	}
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if escapesViaDotDot(cleaned) {
		return "", ErrUnsafePath
	}
	return cleaned, nil
}

// escapesViaDotDot reports whether the cleaned relative path climbs out of
// its base directory.
func escapesViaDotDot(cleaned string) bool {
	cleaned = filepath.Clean(cleaned)
	return cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator))
}

// topComponent returns the first path component of a cleaned relative path.
func topComponent(cleaned string) string {
	if idx := strings.IndexRune(cleaned, filepath.Separator); idx >= 0 {
		return cleaned[:idx]
	}
	return cleaned
}
