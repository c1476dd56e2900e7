package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Fetcher retrieves the raw sheet payload. Implemented over HTTP in
// production and faked in tests.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPFetcher fetches the published CSV over plain HTTP GET. A response
// below minBytes is treated as a failure: Google serves small HTML error
// pages with a 200 status when a sheet is unpublished or moved.
type HTTPFetcher struct {
	url      string
	minBytes int
	client   *http.Client
}

// NewHTTPFetcher builds a fetcher for the configured sheet URL.
// The client's timeout should come from configuration.
func NewHTTPFetcher(url string, minBytes int, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{url: url, minBytes: minBytes, client: client}
}

// Fetch performs the GET and validates the payload size.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("build sheet request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read sheet payload: %w", err)
	}
	if len(body) <= f.minBytes {
		return "", fmt.Errorf("sheet payload too small: %d bytes (min %d)", len(body), f.minBytes)
	}
	return string(body), nil
}
