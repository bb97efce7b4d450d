package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultBaseURL = "https://serpapi.com"

// ErrNotConfigured is returned when no API credential was supplied.
var ErrNotConfigured = errors.New("online search is not configured")

// NoResultsMessage is returned when the provider finds nothing.
const NoResultsMessage = "No online information found."

// Client queries the SerpAPI Google engine and renders the results as
// human-readable text. Every outcome, including errors, produces displayable
// text; the error return additionally tags the failure so callers that need
// to distinguish success from failure can, without parsing the text.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. An empty apiKey is allowed; searches will then
// return a descriptive not-configured message.
func New(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Search runs the query and returns up to maxResults entries, most relevant
// first as ranked by the provider, rendered as newline-delimited text. The
// returned string is always suitable for display.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (string, error) {
	if c.apiKey == "" {
		return "Online search is not configured: set SERPAPI_KEY to enable it.", ErrNotConfigured
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Sprintf("Error during online search: %v", err), err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Error during online search: %v", err), err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("search provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return fmt.Sprintf("Error during online search: %v", err), err
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		err = fmt.Errorf("decode search response: %w", err)
		return fmt.Sprintf("Error during online search: %v", err), err
	}

	return formatResults(result.OrganicResults, maxResults), nil
}

func formatResults(results []organicResult, maxResults int) string {
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	var entries []string
	for _, r := range results {
		if r.Snippet == "" && r.Title == "" {
			continue
		}
		var sb strings.Builder
		if r.Title != "" {
			sb.WriteString(r.Title)
			sb.WriteString("\n")
		}
		if r.Link != "" {
			sb.WriteString(r.Link)
			sb.WriteString("\n")
		}
		sb.WriteString(r.Snippet)
		entries = append(entries, strings.TrimSpace(sb.String()))
	}

	if len(entries) == 0 {
		return NoResultsMessage
	}
	return strings.Join(entries, "\n\n")
}
