package apifootball

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/provider"
)

// Client fetches and parses the api-football fixtures feed.
type Client struct {
	baseURL string
	apiKey  string
	fetcher *provider.Fetcher
	window  time.Duration
	now     func() time.Time
}

// NewClient creates an api-football source. window bounds both the
// forward-looking upcoming query and the backward-looking history query.
func NewClient(baseURL, apiKey string, fetcher *provider.Fetcher, window time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		fetcher: fetcher,
		window:  window,
		now:     time.Now,
	}
}

func (c *Client) Name() string { return SourceName }

// FetchUpcoming returns fixtures scheduled between now and now+window.
func (c *Client) FetchUpcoming(ctx context.Context) (*provider.Feed, error) {
	now := c.now().UTC()
	params := url.Values{}
	params.Set("from", now.Format("2006-01-02"))
	params.Set("to", now.Add(c.window).Format("2006-01-02"))
	params.Set("timezone", "UTC")

	return c.fetch(ctx, params, "upcoming")
}

// FetchHistory returns finished fixtures from the trailing window.
func (c *Client) FetchHistory(ctx context.Context) (*provider.Feed, error) {
	now := c.now().UTC()
	params := url.Values{}
	params.Set("from", now.Add(-c.window).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))
	params.Set("status", "FT-AET-PEN")
	params.Set("timezone", "UTC")

	return c.fetch(ctx, params, "history")
}

func (c *Client) fetch(ctx context.Context, params url.Values, kind string) (*provider.Feed, error) {
	header := http.Header{}
	header.Set("x-apisports-key", c.apiKey)

	body, err := c.fetcher.Get(ctx, c.baseURL+"/fixtures?"+params.Encode(), header)
	if err != nil {
		return nil, fmt.Errorf("apifootball: fetch %s: %w", kind, err)
	}

	fixtures, skipped, err := Parse(body)
	if err != nil {
		return nil, err
	}
	return &provider.Feed{Payload: body, Fixtures: fixtures, Skipped: skipped}, nil
}
