package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// serpapiClient searches the web for a repository link through SerpAPI.
// Every query costs money, so this source sits last in the chain and is only
// constructed when a key is configured.
type serpapiClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

func newSerpAPIClient(apiKey, userAgent string) *serpapiClient {
	return &serpapiClient{
		baseURL: "https://serpapi.com",
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: userAgent,
	}
}

func (c *serpapiClient) Name() string { return "serpapi" }

func (c *serpapiClient) Fetch(ctx context.Context, id Identifier) (*Metadata, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s %s github repository", id.Name, id.Ecosystem))
	params.Set("api_key", c.apiKey)
	params.Set("num", "3")

	u := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: %s", resp.Status)
	}

	var raw serpapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	for _, r := range raw.OrganicResults {
		if !strings.Contains(r.Link, "github.com") {
			continue
		}
		parsed, err := url.Parse(r.Link)
		if err != nil {
			continue
		}
		parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		if len(parts) < 2 {
			continue
		}

		return &Metadata{
			Ecosystem:   id.Ecosystem,
			Name:        id.Name,
			Version:     id.Version,
			RepoURL:     fmt.Sprintf("https://github.com/%s/%s", parts[0], parts[1]),
			Description: r.Snippet,
		}, nil
	}

	return nil, nil
}

type serpapiResponse struct {
	OrganicResults []struct {
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}
