package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrNoResult is returned when Wikipedia has no page for the query.
var ErrNoResult = errors.New("no wikipedia result")

const userAgent = "shsh-demos/1.0 (info finder)"

// Summary is the lead section of the best matching article.
type Summary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// Wikipedia queries the MediaWiki search API and the REST summary API.
type Wikipedia struct {
	baseURL string
	client  *http.Client
}

// NewWikipedia creates a client for the wiki at baseURL. A nil client uses
// http.DefaultClient.
func NewWikipedia(baseURL string, client *http.Client) *Wikipedia {
	if client == nil {
		client = http.DefaultClient
	}
	return &Wikipedia{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type summaryResponse struct {
	Extract string `json:"extract"`
}

// Lookup finds the top search hit for query and fetches its summary.
func (w *Wikipedia) Lookup(ctx context.Context, query string) (Summary, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"format":   {"json"},
		"srlimit":  {"1"},
	}
	var sr searchResponse
	if err := w.getJSON(ctx, w.baseURL+"/w/api.php?"+params.Encode(), &sr); err != nil {
		return Summary{}, fmt.Errorf("wikipedia search: %w", err)
	}
	if len(sr.Query.Search) == 0 {
		return Summary{}, ErrNoResult
	}
	title := sr.Query.Search[0].Title

	var sum summaryResponse
	if err := w.getJSON(ctx, w.baseURL+"/api/rest_v1/page/summary/"+url.PathEscape(title), &sum); err != nil {
		return Summary{}, fmt.Errorf("wikipedia summary: %w", err)
	}

	return Summary{
		Title:   title,
		Summary: sum.Extract,
		URL:     w.baseURL + "/wiki/" + strings.ReplaceAll(title, " ", "_"),
	}, nil
}

func (w *Wikipedia) getJSON(ctx context.Context, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
