// Package fetch downloads job postings and reduces their HTML to plain text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the user agent string for HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (compatible; JobAssistant/1.0)"
	// MaxBodyBytes caps how much of a page is read.
	MaxBodyBytes = 5 << 20
)

// ErrInvalidURL is the cause of errors for URLs that cannot be fetched at all.
var ErrInvalidURL = errors.New("invalid URL")

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	MaxTries   uint
	MaxElapsed time.Duration
	// InitialInterval is the first retry delay.
	InitialInterval time.Duration
}

// DefaultOptions returns the options used by the API.
func DefaultOptions() Options {
	return Options{
		Timeout:         DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		MaxTries:        3,
		MaxElapsed:      30 * time.Second,
		InitialInterval: time.Second,
	}
}

// Fetcher retrieves pages over HTTP, retrying transient failures.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New creates a Fetcher.
func New(opts Options) *Fetcher {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.MaxTries == 0 {
		opts.MaxTries = def.MaxTries
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = def.MaxElapsed
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = def.InitialInterval
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("stopped after 10 redirects")
				}
				return nil
			},
		},
		opts: opts,
	}
}

// retryableStatus reports whether a response status is worth retrying.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// HTML retrieves the body of an HTML page.
func (f *Fetcher) HTML(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", &Error{URL: rawURL, Message: "not an absolute http(s) URL", Cause: ErrInvalidURL}
	}

	operation := func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return "", backoff.Permanent(&Error{URL: rawURL, Message: "failed to create request", Cause: err})
		}
		req.Header.Set("User-Agent", f.opts.UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := f.client.Do(req)
		if err != nil {
			return "", &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			fetchErr := &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
			if retryableStatus(resp.StatusCode) {
				return "", fetchErr
			}
			return "", backoff.Permanent(fetchErr)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
		if err != nil {
			return "", &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
		}
		return string(body), nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.opts.InitialInterval
	bo.MaxInterval = 10 * time.Second

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(f.opts.MaxTries),
		backoff.WithMaxElapsedTime(f.opts.MaxElapsed),
	)
}

// Posting fetches a job posting and extracts its text, title and company.
func (f *Fetcher) Posting(ctx context.Context, rawURL string) (*Posting, error) {
	html, err := f.HTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	posting, err := ExtractPosting(html, DetectPlatform(rawURL))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to parse posting", Cause: err}
	}
	posting.URL = rawURL
	if posting.Text == "" {
		return nil, &Error{URL: rawURL, Message: "posting has no readable text"}
	}
	return posting, nil
}
