// Package uniprot is a rate-limited client for the UniProtKB REST API,
// covering the two lookups the novelty pass needs: entry-name (mnemonic)
// to accession resolution and fetching an entry's annotation document.
//
// The service is public and shared; the client throttles itself between
// requests and the caller is expected to treat every failure as
// recoverable.
package uniprot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the UniProtKB REST API base URL.
	BaseURL = "https://rest.uniprot.org/uniprotkb"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultRequestDelay spaces out requests to the public service.
	DefaultRequestDelay = 250 * time.Millisecond
)

// Client is a rate-limited HTTP client for the UniProtKB REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing and mirrors).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRequestDelay sets the minimum spacing between requests. A
// non-positive delay disables throttling.
func WithRequestDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewClient creates a UniProtKB client. The KUNITZ_UNIPROT_URL environment
// variable overrides the base URL before options are applied.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(DefaultRequestDelay), 1),
		baseURL:    BaseURL,
	}

	if u := os.Getenv("KUNITZ_UNIPROT_URL"); u != "" {
		c.baseURL = u
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ResolveMnemonic resolves an entry name like "BPT1_BOVIN" to its primary
// accession via the mnemonic search endpoint.
func (c *Client) ResolveMnemonic(ctx context.Context, mnemonic string) (string, error) {
	path := fmt.Sprintf("/search?query=mnemonic:%s&fields=accession&format=json", url.QueryEscape(mnemonic))

	var out searchResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return "", err
	}
	if len(out.Results) == 0 || out.Results[0].PrimaryAccession == "" {
		return "", fmt.Errorf("%w: mnemonic %s", ErrNotFound, mnemonic)
	}
	return out.Results[0].PrimaryAccession, nil
}

// GetEntry fetches the annotation document for one accession.
func (c *Client) GetEntry(ctx context.Context, accession string) (*Entry, error) {
	var e Entry
	if err := c.getJSON(ctx, "/"+url.PathEscape(accession)+".json", &e); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			apiErr.Accession = accession
		}
		return nil, err
	}
	if e.PrimaryAccession == "" {
		return nil, fmt.Errorf("%w: accession %s", ErrNotFound, accession)
	}
	return &e, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// checkStatus returns an error if the HTTP response indicates a problem.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}
	return nil
}
