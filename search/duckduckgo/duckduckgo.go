// Package duckduckgo provides recipe search backed by the DuckDuckGo
// Instant Answer API.
package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"cookingagent"
)

const defaultMaxResults = 3

type Client struct {
	endpoint   string
	maxResults int
	httpClient cookingagent.HTTPClient
}

func NewClient(endpoint string, maxResults int, httpClient cookingagent.HTTPClient) *Client {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		maxResults: maxResults,
		httpClient: httpClient,
	}
}

type instantAnswer struct {
	AbstractText  string `json:"AbstractText"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

// Search queries DuckDuckGo for recipe information and returns up to
// maxResults text snippets.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", "recipe "+query)
	params.Set("format", "json")
	params.Set("no_html", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: %s: %s", resp.Status, string(body))
	}

	var answer instantAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	snippets := make([]string, 0, c.maxResults)
	if text := strings.TrimSpace(answer.AbstractText); text != "" {
		snippets = append(snippets, text)
	}
	for _, topic := range answer.RelatedTopics {
		if len(snippets) >= c.maxResults {
			break
		}
		if text := strings.TrimSpace(topic.Text); text != "" {
			snippets = append(snippets, text)
		}
	}

	return snippets, nil
}

// SearchRecipes is the pipeline's search oracle. Search failures are
// suppressed to an empty result so a flaky search service degrades a run
// instead of failing it.
func (c *Client) SearchRecipes(ctx context.Context, query string) ([]string, error) {
	snippets, err := c.Search(ctx, query)
	if err != nil {
		slog.Warn("SEARCH: Suppressing search failure", "query", query, "error", err)
		return nil, nil
	}

	slog.Info("SEARCH: Search complete", "query", query, "results_count", len(snippets))
	return snippets, nil
}
