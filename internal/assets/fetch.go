package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrHTTPStatus is returned for non-2xx responses.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// DefaultHTTPTimeout bounds a single remote fetch.
const DefaultHTTPTimeout = 30 * time.Second

// Fetcher reads bytes from local paths or URLs.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher. A nil client gets DefaultHTTPTimeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Fetcher{client: client}
}

// IsRemote reports whether path names a URL rather than a file.
func IsRemote(path string) bool {
	return strings.Contains(path, "://")
}

// Fetch returns the full contents of path. Paths containing "://" are URLs;
// file:// URLs are read from disk, anything else goes through HTTP.
func (f *Fetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if !IsRemote(path) {
		return os.ReadFile(path)
	}

	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}
	if u.Scheme == "file" {
		return os.ReadFile(u.Path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}
