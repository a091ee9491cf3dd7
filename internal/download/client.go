// Package download fetches feeds and package binaries over HTTP or from
// the local file system.
package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ralt/wpm/internal/job"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when the resource does not exist
var ErrNotFound = errors.New("not found")

// ErrNetwork wraps transport failures and unexpected status codes
var ErrNetwork = errors.New("network error")

// Client downloads resources with retries. Package binaries are kept in an
// optional Cache, feeds are always downloaded again.
type Client struct {
	http      *http.Client
	cache     *Cache
	attempts  int
	delay     time.Duration
	userAgent string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetry sets the number of attempts and the initial backoff delay
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a client. cache may be nil.
func NewClient(cache *Cache, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 10 * time.Minute},
		cache:     cache,
		attempts:  3,
		delay:     time.Second,
		userAgent: "wpm",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the content of a URL. file:// URLs and plain paths are read
// from disk.
func (c *Client) Fetch(j *job.Job, rawURL string) ([]byte, error) {
	var buf bytes.Buffer
	err := Retry(j, c.attempts, c.delay, func() error {
		buf.Reset()
		return c.copy(j, rawURL, &buf)
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Download stores the content of a URL in the cache and returns the file.
// A fresh cached copy is returned without network access.
func (c *Client) Download(j *job.Job, rawURL string) (string, error) {
	if c.cache == nil {
		return "", fmt.Errorf("no download cache configured")
	}
	if path, ok := c.cache.Get(rawURL); ok {
		logrus.Debugf("Using cached copy of %s", rawURL)
		j.SetProgress(1)
		return path, nil
	}

	var path string
	err := Retry(j, c.attempts, c.delay, func() error {
		pr, pw := io.Pipe()
		go func() {
			pw.CloseWithError(c.copy(j, rawURL, pw))
		}()
		p, err := c.cache.Put(rawURL, pr)
		pr.CloseWithError(err)
		path = p
		return err
	})
	if err != nil {
		return "", err
	}
	logrus.Debugf("Downloaded %s to %s", rawURL, path)
	return path, nil
}

// Forget drops the cached copy of a URL, e.g. after it failed verification
func (c *Client) Forget(rawURL string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Remove(rawURL)
}

// copy writes the resource to w, reporting progress when the size is known
func (c *Client) copy(j *job.Job, rawURL string, w io.Writer) error {
	body, size, err := c.open(j, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()

	_, err = io.Copy(w, &progressReader{r: body, total: size, job: j})
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	return nil
}

func (c *Client) open(j *job.Job, rawURL string) (io.ReadCloser, int64, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, 0, err
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return c.doRequest(j, rawURL)
	case "file":
		return openFile(u.Path)
	case "":
		return openFile(rawURL)
	default:
		// Windows drive letters parse as a scheme, e.g. C:\feeds\main.xml
		if len(u.Scheme) == 1 {
			return openFile(rawURL)
		}
		return nil, 0, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
}

func openFile(path string) (io.ReadCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func (c *Client) doRequest(j *job.Job, rawURL string) (io.ReadCloser, int64, error) {
	// a started transfer runs to its end, cancellation is seen by Retry
	req, err := http.NewRequestWithContext(context.WithoutCancel(j.Context()), http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// progressReader reports read progress into a job
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	job   *job.Job
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		p.job.SetProgress(float64(p.read) / float64(p.total))
	}
	return n, err
}
