// Package storage stores compiled documents in Supabase Storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DefaultSignedURLExpiry is how long signed download links stay valid.
const DefaultSignedURLExpiry = time.Hour

// Error is returned for failed storage requests.
type Error struct {
	Op         string
	Path       string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage %s %s: %s: %v", e.Op, e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage %s %s: %s", e.Op, e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client talks to the Supabase Storage REST API for one bucket.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
	maxTries   uint
	initial    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithRetry sets the upload attempt count and first retry delay.
func WithRetry(maxTries uint, initial time.Duration) Option {
	return func(cl *Client) {
		cl.maxTries = maxTries
		cl.initial = initial
	}
}

// New creates a storage client. projectURL is the Supabase project URL.
func New(projectURL, serviceKey, bucket string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(projectURL, "/") + "/storage/v1",
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxTries:   5,
		initial:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cleanPath strips a leading slash and escapes each segment.
func cleanPath(p string) string {
	segments := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body []byte, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func readError(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("HTTP status %d", resp.StatusCode)
}

// Upload stores data at path, overwriting any existing object.
// Network errors, 429 and 5xx responses are retried with exponential backoff.
func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	objectPath := cleanPath(path)
	endpoint := "/object/" + url.PathEscape(c.bucket) + "/" + objectPath

	operation := func() (struct{}, error) {
		req, err := c.newRequest(ctx, http.MethodPost, endpoint, data, contentType)
		if err != nil {
			return struct{}{}, backoff.Permanent(&Error{Op: "upload", Path: objectPath, Message: "failed to create request", Cause: err})
		}
		req.Header.Set("x-upsert", "true")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return struct{}{}, &Error{Op: "upload", Path: objectPath, Message: "request failed", Cause: err}
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return struct{}{}, nil
		}
		uploadErr := &Error{Op: "upload", Path: objectPath, StatusCode: resp.StatusCode, Message: readError(resp)}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return struct{}{}, uploadErr
		}
		return struct{}{}, backoff.Permanent(uploadErr)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initial
	bo.MaxInterval = 10 * time.Second

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithMaxElapsedTime(2*time.Minute),
	)
	return err
}

// SignedURL returns a time-limited download URL for path.
func (c *Client) SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultSignedURLExpiry
	}
	objectPath := cleanPath(path)
	body, err := json.Marshal(map[string]int{"expiresIn": int(expiry.Seconds())})
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/object/sign/"+url.PathEscape(c.bucket)+"/"+objectPath, body, "application/json")
	if err != nil {
		return "", &Error{Op: "sign", Path: objectPath, Message: "failed to create request", Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Op: "sign", Path: objectPath, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Op: "sign", Path: objectPath, StatusCode: resp.StatusCode, Message: readError(resp)}
	}

	var payload struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &Error{Op: "sign", Path: objectPath, Message: "invalid response", Cause: err}
	}
	if payload.SignedURL == "" {
		return "", &Error{Op: "sign", Path: objectPath, Message: "response has no signedURL"}
	}
	if strings.HasPrefix(payload.SignedURL, "http://") || strings.HasPrefix(payload.SignedURL, "https://") {
		return payload.SignedURL, nil
	}
	return c.baseURL + "/" + strings.TrimLeft(payload.SignedURL, "/"), nil
}

// ResumePDFPath is the object path of a compiled resume variant.
func ResumePDFPath(variantID fmt.Stringer) string {
	return "resumes/" + variantID.String() + "/resume.pdf"
}
