package sportsdb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/alanyoungcy/fixturecast/internal/provider"
)

// Client fetches and parses thesportsdb events feeds. The API key is a URL
// path segment.
type Client struct {
	baseURL  string
	apiKey   string
	leagueID string
	fetcher  *provider.Fetcher
}

// NewClient creates a thesportsdb source scoped to one league id, the unit
// this API serves schedules in.
func NewClient(baseURL, apiKey, leagueID string, fetcher *provider.Fetcher) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, leagueID: leagueID, fetcher: fetcher}
}

func (c *Client) Name() string { return SourceName }

// FetchUpcoming returns the next scheduled events for the league.
func (c *Client) FetchUpcoming(ctx context.Context) (*provider.Feed, error) {
	return c.fetch(ctx, "eventsnextleague.php", "upcoming")
}

// FetchHistory returns the most recent settled events for the league.
func (c *Client) FetchHistory(ctx context.Context) (*provider.Feed, error) {
	return c.fetch(ctx, "eventspastleague.php", "history")
}

func (c *Client) fetch(ctx context.Context, endpoint, kind string) (*provider.Feed, error) {
	u := fmt.Sprintf("%s/%s/%s?id=%s", c.baseURL, url.PathEscape(c.apiKey), endpoint, url.QueryEscape(c.leagueID))

	body, err := c.fetcher.Get(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("sportsdb: fetch %s: %w", kind, err)
	}

	fixtures, skipped, err := Parse(body)
	if err != nil {
		return nil, err
	}
	return &provider.Feed{Payload: body, Fixtures: fixtures, Skipped: skipped}, nil
}
