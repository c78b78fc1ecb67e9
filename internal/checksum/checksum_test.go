// SPDX-License-Identifier: MPL-2.0

package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSums_ValidFile(t *testing.T) {
	t.Parallel()

	input := strings.NewReader(
		"a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2  libsodium-1.0.11.tar.gz\n" +
			"F7A8B9C0D1E2f7a8b9c0d1e2f7a8b9c0d1e2f7a8b9c0d1e2f7a8b9c0d1e2f7a8  libsodium-1.0.11.tar.bz2\n",
	)

	entries, err := ParseSums(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Filename != "libsodium-1.0.11.tar.gz" {
		t.Errorf("entries[0].Filename = %q", entries[0].Filename)
	}
	// Uppercase digests are normalized to lowercase.
	if entries[1].Hash != strings.ToLower("F7A8B9C0D1E2f7a8b9c0d1e2f7a8b9c0d1e2f7a8b9c0d1e2f7a8b9c0d1e2f7a8") {
		t.Errorf("entries[1].Hash = %q, want lowercase digest", entries[1].Hash)
	}
}

func TestParseSums_SkipsMalformedLines(t *testing.T) {
	t.Parallel()

	input := strings.NewReader(
		"a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2  good.tar.gz\n" +
			"\n" +
			"abcdef  short-hash.tar.gz\n" +
			"a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2 single-space.tar.gz\n" +
			"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz  not-hex.tar.gz\n",
	)

	entries, err := ParseSums(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Filename != "good.tar.gz" {
		t.Errorf("entries[0].Filename = %q, want good.tar.gz", entries[0].Filename)
	}
}

func TestParseSums_NoValidEntries(t *testing.T) {
	t.Parallel()

	if _, err := ParseSums(strings.NewReader("nothing useful here\n")); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Hash: "aa", Filename: "a.tar.gz"},
		{Hash: "bb", Filename: "b.tar.gz"},
	}

	hash, err := Find(entries, "b.tar.gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash != "bb" {
		t.Errorf("hash = %q, want bb", hash)
	}

	if _, err := Find(entries, "c.tar.gz"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("error = %v, want ErrEntryNotFound", err)
	}
}

func TestVerifyFile(t *testing.T) {
	t.Parallel()

	content := []byte("some archive bytes")
	path := filepath.Join(t.TempDir(), "pkg.tar.gz")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	sum := sha256.Sum256(content)
	good := hex.EncodeToString(sum[:])

	if err := VerifyFile(path, good); err != nil {
		t.Errorf("VerifyFile with matching digest: %v", err)
	}
	if err := VerifyFile(path, strings.ToUpper(good)); err != nil {
		t.Errorf("VerifyFile must compare case-insensitively: %v", err)
	}

	bad := strings.Repeat("0", 64)
	err := VerifyFile(path, bad)
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("error = %v, want ErrMismatch", err)
	}

	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error %v is not a *MismatchError", err)
	}
	if mismatch.Got != good {
		t.Errorf("Got = %q, want %q", mismatch.Got, good)
	}
}

func TestFileDigest_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := FileDigest(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error, got nil")
	}
}
