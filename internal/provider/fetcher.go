package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/retry"
)

// Fetcher is the shared HTTP fetch capability for all sources. Every GET is
// wrapped in the injected retry policy; 4xx responses are not retried since
// repeating a bad request cannot help.
type Fetcher struct {
	httpClient *http.Client
	policy     retry.Policy
}

// NewFetcher returns a Fetcher with the given per-request timeout and retry
// policy.
func NewFetcher(timeout time.Duration, policy retry.Policy) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		policy:     policy,
	}
}

// Get fetches url with the given headers, retrying per the policy, and
// returns the response body.
func (f *Fetcher) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	var body []byte

	err := f.policy.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := f.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body = b
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(b, 200))
		default:
			return retry.Permanent(fmt.Errorf("status %d: %s", resp.StatusCode, truncate(b, 200)))
		}
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
