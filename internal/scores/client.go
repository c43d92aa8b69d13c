package scores

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"pickledger/internal/config"
)

// Client fetches final scores from The Odds API and normalizes them into
// Records.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	daysFrom      int
	maxConcurrent int
}

func NewClient(cfg config.ScoresConfig) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout.Duration},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		daysFrom:      cfg.DaysFrom,
		maxConcurrent: cfg.MaxConcurrentFetches,
	}
}

// FetchScores requests final scores for a set of events within one sport.
func (c *Client) FetchScores(ctx context.Context, sport string, eventIDs []string) ([]Record, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v4/sports/%s/scores", c.baseURL, url.PathEscape(sport)))
	if err != nil {
		return nil, fmt.Errorf("building scores URL: %w", err)
	}

	q := u.Query()
	q.Set("apiKey", c.apiKey)
	q.Set("dateFormat", "iso")
	q.Set("daysFrom", strconv.Itoa(c.daysFrom))
	q.Set("eventIds", strings.Join(eventIDs, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building scores request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching scores for %s: %w", sport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("scores request for %s returned %d: %s", sport, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payloads []eventPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("decoding scores response for %s: %w", sport, err)
	}

	records := make([]Record, 0, len(payloads))
	for _, ev := range payloads {
		records = append(records, normalize(ev))
	}

	slog.Info("scores fetched", "sport", sport, "events_requested", len(eventIDs), "events_returned", len(records))
	return records, nil
}

// FetchAll fans out one scores request per sport, bounded by the configured
// concurrency, and merges the results into an event-id lookup. A failed
// sport is logged and simply contributes nothing; its picks stay open until
// a later run.
func (c *Client) FetchAll(ctx context.Context, eventsBySport map[string][]string) map[string]Record {
	results := make(chan []Record, len(eventsBySport))
	limit := c.maxConcurrent
	if limit < 1 {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for sport, ids := range eventsBySport {
		if len(ids) == 0 {
			continue
		}
		wg.Add(1)
		go func(sport string, ids []string) {
			defer wg.Done()
			sem <- struct{}{}        // Acquire.
			defer func() { <-sem }() // Release.

			recs, err := c.FetchScores(ctx, sport, ids)
			if err != nil {
				slog.Warn("scores fetch failed, leaving sport's picks open", "sport", sport, "error", err)
				return
			}
			results <- recs
		}(sport, ids)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	lookup := make(map[string]Record)
	for recs := range results {
		for _, r := range recs {
			lookup[r.EventID] = r
		}
	}
	return lookup
}
