package goalserve

import (
	"context"
	"fmt"
	"net/url"

	"github.com/alanyoungcy/fixturecast/internal/provider"
)

// Client fetches and parses the goalserve soccer feed. The API key is part
// of the URL path, not a header.
type Client struct {
	baseURL string
	apiKey  string
	fetcher *provider.Fetcher
}

// NewClient creates a goalserve source.
func NewClient(baseURL, apiKey string, fetcher *provider.Fetcher) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, fetcher: fetcher}
}

func (c *Client) Name() string { return SourceName }

// FetchUpcoming returns the scheduled-fixtures feed.
func (c *Client) FetchUpcoming(ctx context.Context) (*provider.Feed, error) {
	return c.fetch(ctx, "soccerfixtures/data/mapping", "upcoming")
}

// FetchHistory is unsupported; goalserve serves only the forward schedule
// on this plan.
func (c *Client) FetchHistory(ctx context.Context) (*provider.Feed, error) {
	return nil, provider.ErrNoHistoryFeed
}

func (c *Client) fetch(ctx context.Context, feed, kind string) (*provider.Feed, error) {
	u := fmt.Sprintf("%s/%s/%s?json=1", c.baseURL, url.PathEscape(c.apiKey), feed)

	body, err := c.fetcher.Get(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("goalserve: fetch %s: %w", kind, err)
	}

	fixtures, skipped, err := Parse(body)
	if err != nil {
		return nil, err
	}
	return &provider.Feed{Payload: body, Fixtures: fixtures, Skipped: skipped}, nil
}
