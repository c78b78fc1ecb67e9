// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDownload_Success(t *testing.T) {
	t.Parallel()

	payload := []byte("not really a tarball but close enough")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))

	body, size, err := c.Download(context.Background(), srv.URL+"/libsodium-1.0.11.tar.gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("body = %q, want %q", got, payload)
	}
	if size != int64(len(payload)) {
		t.Errorf("size = %d, want %d", size, len(payload))
	}
}

func TestDownload_Non200Status(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))

	_, _, err := c.Download(context.Background(), srv.URL+"/missing.tar.gz")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error %v is not a *NetworkError", err)
	}
	if netErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", netErr.Status, http.StatusNotFound)
	}
}

func TestDownload_UnreachableHost(t *testing.T) {
	t.Parallel()

	// A closed server guarantees a connection failure.
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient()

	_, _, err := c.Download(context.Background(), addr+"/pkg.tar.gz")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error %v is not a *NetworkError", err)
	}
	if netErr.Status != 0 {
		t.Errorf("Status = %d, want 0 for transport failures", netErr.Status)
	}
}

func TestDownload_RejectsHTMLErrorPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>mirror is down</body></html>"))
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))

	_, _, err := c.Download(context.Background(), srv.URL+"/pkg.tar.gz")
	if !errors.Is(err, ErrNotAnArchive) {
		t.Fatalf("error = %v, want ErrNotAnArchive", err)
	}
}

func TestDownloadText_AcceptsPlainText(t *testing.T) {
	t.Parallel()

	sums := "abc123  libsodium-1.0.11.tar.gz\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No explicit Content-Type: the server sniffs text/plain, which
		// Download rejects but DownloadText must accept.
		_, _ = w.Write([]byte(sums))
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))

	body, err := c.DownloadText(context.Background(), srv.URL+"/SHA256SUMS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(got) != sums {
		t.Errorf("body = %q, want %q", got, sums)
	}
}

func TestDownloadText_Non200Status(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))

	_, err := c.DownloadText(context.Background(), srv.URL+"/SHA256SUMS")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if netErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", netErr.Status)
	}
}

func TestDownload_SendsUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/octet-stream")
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()), WithUserAgent("sourceup/1.2.3"))

	body, _, err := c.Download(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body.Close()

	if gotUA != "sourceup/1.2.3" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "sourceup/1.2.3")
	}
}

func TestDownloadToFile_WritesArchive(t *testing.T) {
	t.Parallel()

	payload := []byte("archive bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))
	dir := t.TempDir()

	path, n, err := c.DownloadToFile(context.Background(), srv.URL, dir, "libsodium-1.0.11.tar.gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Base(path) != "libsodium-1.0.11.tar.gz" {
		t.Errorf("path = %q, want basename libsodium-1.0.11.tar.gz", path)
	}
	if n != int64(len(payload)) {
		t.Errorf("bytes written = %d, want %d", n, len(payload))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("file contents = %q, want %q", got, payload)
	}
}

func TestDownloadToFile_FailureLeavesNoFile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))
	dir := t.TempDir()

	if _, _, err := c.DownloadToFile(context.Background(), srv.URL, dir, "pkg.tar.gz"); err == nil {
		t.Fatal("expected error, got nil")
	}

	if _, err := os.Stat(filepath.Join(dir, "pkg.tar.gz")); !os.IsNotExist(err) {
		t.Errorf("expected no file to remain, stat err = %v", err)
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://example.org/pkg.tar.gz?token=secret", "https://example.org/pkg.tar.gz"},
		{"https://example.org/pkg.tar.gz#frag", "https://example.org/pkg.tar.gz"},
		{"://bad", "<invalid-url>"},
	}

	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewClient_TimeoutOption(t *testing.T) {
	t.Parallel()

	t.Run("applies to the default client", func(t *testing.T) {
		t.Parallel()

		c := NewClient(WithTimeout(5 * time.Second))
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("timeout = %v, want 5s", c.httpClient.Timeout)
		}
	})

	t.Run("zero falls back to the default timeout", func(t *testing.T) {
		t.Parallel()

		c := NewClient()
		if c.httpClient.Timeout != defaultTimeout {
			t.Errorf("timeout = %v, want %v", c.httpClient.Timeout, defaultTimeout)
		}
	})

	t.Run("ignored with a custom client in either option order", func(t *testing.T) {
		t.Parallel()

		orders := map[string][]ClientOption{
			"timeout first": {WithTimeout(5 * time.Second), WithHTTPClient(&http.Client{Timeout: time.Minute})},
			"client first":  {WithHTTPClient(&http.Client{Timeout: time.Minute}), WithTimeout(5 * time.Second)},
		}
		for name, opts := range orders {
			c := NewClient(opts...)
			if c.httpClient.Timeout != time.Minute {
				t.Errorf("%s: timeout = %v, want the custom client's 1m", name, c.httpClient.Timeout)
			}
		}
	})
}
