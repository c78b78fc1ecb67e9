// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// defaultTimeout bounds a single archive download end to end.
	defaultTimeout = 15 * time.Minute

	// defaultUserAgent identifies sourceup to release servers.
	defaultUserAgent = "sourceup/dev"

	// maxArchiveBytes is the upper bound on downloaded archive size (2 GB).
	// Source tarballs are typically a few megabytes; anything near this
	// limit is not the archive we asked for.
	maxArchiveBytes = 2 << 30

	// maxTextBytes is the upper bound on text resources such as checksum
	// files (1 MB).
	maxTextBytes = 1 << 20
)

// ErrNotAnArchive indicates the response body does not look like the expected
// archive content (e.g. an HTML error page served with status 200).
var ErrNotAnArchive = errors.New("response is not the expected archive content")

type (
	// NetworkError wraps any retrieval failure: connection errors, non-200
	// statuses, and bodies that are not archive content. The URL is redacted
	// of query parameters before being stored.
	NetworkError struct {
		URL    string
		Status int // zero when the request never got a response
		Cause  error
	}

	// Client downloads archives. The zero value is not usable; construct via
	// NewClient.
	Client struct {
		httpClient *http.Client
		userAgent  string
		timeout    time.Duration
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// Error formats the failure with the redacted URL and status when known.
func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("downloading %s: unexpected status %d", e.URL, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("downloading %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("downloading %s failed", e.URL)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *NetworkError) Unwrap() error { return e.Cause }

// WithHTTPClient sets a custom HTTP client, useful for tests or proxies.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(f *Client) {
		f.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(f *Client) {
		f.userAgent = ua
	}
}

// WithTimeout sets the per-download timeout. Ignored when a custom HTTP
// client is supplied via WithHTTPClient, regardless of option order.
func WithTimeout(d time.Duration) ClientOption {
	return func(f *Client) {
		f.timeout = d
	}
}

// NewClient creates a Client with sensible defaults: a dedicated HTTP client
// with a 15 minute timeout and a "sourceup/dev" User-Agent. The timeout is
// resolved once here, after all options have run.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		timeout := c.timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	return c
}

// Download retrieves the archive at rawURL and returns the response body as a
// streaming reader plus the Content-Length when the server reported one (-1
// otherwise). The caller must close the returned ReadCloser.
func (c *Client) Download(ctx context.Context, rawURL string) (io.ReadCloser, int64, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, 0, err
	}

	// Release servers put archives behind redirect chains that can end at an
	// HTML error page with status 200. Reject text responses outright.
	if ct := resp.Header.Get("Content-Type"); isTextContentType(ct) {
		resp.Body.Close()
		return nil, 0, &NetworkError{URL: redactURL(rawURL), Cause: fmt.Errorf("%w: content type %q", ErrNotAnArchive, ct)}
	}

	return resp.Body, resp.ContentLength, nil
}

// DownloadText retrieves a small text resource such as a SHA256SUMS file.
// Unlike Download it accepts text content types. The body is capped at
// maxTextBytes. The caller must close the returned ReadCloser.
func (c *Client) DownloadText(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return &limitedBody{r: io.LimitReader(resp.Body, maxTextBytes), c: resp.Body}, nil
}

// get performs the request and checks the status. The caller owns the body.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, &NetworkError{URL: redactURL(rawURL), Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/octet-stream, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: redactURL(rawURL), Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &NetworkError{URL: redactURL(rawURL), Status: resp.StatusCode}
	}

	return resp, nil
}

// limitedBody couples a size-limited reader with the underlying body's closer.
type limitedBody struct {
	r io.Reader
	c io.Closer
}

func (b *limitedBody) Read(p []byte) (int, error) { return b.r.Read(p) }

func (b *limitedBody) Close() error { return b.c.Close() }

// DownloadToFile downloads rawURL into a file named filename inside dir and
// returns the file path and the number of bytes written. A partially written
// file is removed on failure.
func (c *Client) DownloadToFile(ctx context.Context, rawURL, dir, filename string) (_ string, _ int64, err error) {
	body, _, err := c.Download(ctx, rawURL)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("creating archive file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	n, err := io.Copy(f, io.LimitReader(body, maxArchiveBytes))
	if err != nil {
		return "", 0, &NetworkError{URL: redactURL(rawURL), Cause: fmt.Errorf("writing archive: %w", err)}
	}

	return path, n, nil
}

// isTextContentType reports whether ct denotes an HTML or plain-text body.
func isTextContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "text/plain")
}

// redactURL strips query parameters and fragments so signed URLs or tokens
// never end up in error messages or logs.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
