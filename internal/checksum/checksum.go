// SPDX-License-Identifier: MPL-2.0

// Package checksum verifies downloaded archives against SHA-256 digests,
// either given directly in a recipe or looked up in a SHA256SUMS-format file
// published alongside the release.
package checksum

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrMismatch indicates the computed digest does not match the expected one.
	ErrMismatch = errors.New("checksum mismatch")

	// ErrEntryNotFound indicates the archive filename was not listed in the
	// checksums file.
	ErrEntryNotFound = errors.New("file not found in checksums")

	// errNoValidEntries indicates the checksums file contained no parseable lines.
	errNoValidEntries = errors.New("no valid checksum entries found")
)

type (
	// Entry is one line of a SHA256SUMS file.
	Entry struct {
		Hash     string // hex-encoded SHA-256, lowercased
		Filename string
	}

	// MismatchError describes a failed verification. It wraps ErrMismatch so
	// callers can classify it with errors.Is.
	MismatchError struct {
		Filename string
		Expected string
		Got      string
	}
)

// Error shows both digests so a corrupted download is easy to diagnose.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s", e.Filename, e.Expected, e.Got)
}

// Unwrap returns ErrMismatch for errors.Is classification.
func (e *MismatchError) Unwrap() error { return ErrMismatch }

// ParseSums parses a SHA256SUMS file in sha256sum output format: each line is
// "{hex_digest}  {filename}" with two spaces between the fields. Lines that
// do not match the format are skipped. Returns an error when no valid entry
// is found at all.
func ParseSums(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "  ", 2)
		if len(parts) != 2 {
			continue
		}

		hash := parts[0]
		filename := strings.TrimSpace(parts[1])
		if filename == "" || !isHexDigest(hash) {
			continue
		}

		entries = append(entries, Entry{
			Hash:     strings.ToLower(hash),
			Filename: filename,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading checksums: %w", err)
	}

	if len(entries) == 0 {
		return nil, errNoValidEntries
	}

	return entries, nil
}

// Find returns the digest recorded for filename, or ErrEntryNotFound.
func Find(entries []Entry, filename string) (string, error) {
	for _, e := range entries {
		if e.Filename == filename {
			return e.Hash, nil
		}
	}
	return "", fmt.Errorf("%q: %w", filename, ErrEntryNotFound)
}

// VerifyFile hashes the file at path and compares it with expected
// (case-insensitive). Returns a *MismatchError when they differ.
func VerifyFile(path, expected string) error {
	got, err := FileDigest(path)
	if err != nil {
		return err
	}

	if !strings.EqualFold(got, expected) {
		return &MismatchError{
			Filename: path,
			Expected: strings.ToLower(expected),
			Got:      got,
		}
	}

	return nil
}

// FileDigest streams the file at path through SHA-256 and returns the
// lowercase hex digest.
func FileDigest(path string) (_ string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		// Read-only file handle; close errors are exotic.
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// isHexDigest checks if s is a 64-character hex-encoded SHA-256 digest.
func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
