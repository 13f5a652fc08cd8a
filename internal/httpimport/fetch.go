package httpimport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent with every download. esm.sh picks a build variant
// from the User-Agent, and a Deno or Node agent gets runtime-specific code
// instead of the browser ES module build.
const DefaultUserAgent = "Mozilla/5.0 (compatible; go-url-bundler/1.0)"

type (
	// Response is what one GET produced: status metadata plus the unpatched body.
	Response struct {
		URL        string      // final URL after redirects
		Status     int         // HTTP status code
		StatusText string      // e.g. "404 Not Found"
		OK         bool        // status in the 2xx range
		Redirected bool        // final URL differs from the requested one
		Header     http.Header // response headers
		Body       string      // full body, empty unless Status is 200
	}

	// Fetcher downloads module sources over HTTP.
	Fetcher struct {
		httpClient *http.Client
		userAgent  string
	}

	// FetcherOption configures a Fetcher during construction.
	FetcherOption func(*Fetcher)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d <= 0 {
			return
		}
		c := *f.httpClient
		c.Timeout = d
		f.httpClient = &c
	}
}

// NewFetcher creates a Fetcher using http.DefaultClient and DefaultUserAgent.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Open issues the GET for rawURL and returns the response with its body still
// open, so metadata can be inspected before the content is read. The caller
// must close the body.
func (f *Fetcher) Open(ctx context.Context, rawURL string) (*Response, io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, nil, &FetchError{URL: rawURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, nil, &FetchError{URL: rawURL, Err: err}
	}

	return &Response{
		URL:        resp.Request.URL.String(),
		Status:     resp.StatusCode,
		StatusText: resp.Status,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		Redirected: resp.Request.URL.String() != rawURL,
		Header:     resp.Header,
	}, resp.Body, nil
}

// Get downloads rawURL and fails with a *FetchError unless the status is 200.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Response, error) {
	res, body, err := f.Open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }() // read-only response body

	if err := checkStatus(rawURL, res); err != nil {
		return res, err
	}
	if err := readBody(rawURL, res, body); err != nil {
		return res, err
	}
	return res, nil
}

func checkStatus(rawURL string, res *Response) error {
	if !res.OK || res.Status != http.StatusOK {
		return &FetchError{URL: rawURL, Status: res.Status}
	}
	return nil
}

func readBody(rawURL string, res *Response, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return &FetchError{URL: rawURL, Status: res.Status, Err: fmt.Errorf("reading body: %w", err)}
	}
	res.Body = string(data)
	return nil
}
