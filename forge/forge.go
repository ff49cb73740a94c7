// Package forge provides a minimal client for code-forge REST APIs.
// It resolves repo-level release information rather than package metadata.
package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client queries the GitHub REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new forge client. Calls are bounded by a short timeout
// because release lookups are best-effort for callers.
func New() *Client {
	return &Client{
		baseURL: "https://api.github.com",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// LatestRelease fetches the latest release tag for a repository given as
// "owner/repo". A conventional leading "v" is trimmed from the tag, so
// v1.14.3 comes back as 1.14.3. Repositories without releases return an
// error (GitHub answers 404).
func (c *Client) LatestRelease(ctx context.Context, ownerRepo string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, ownerRepo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("forge: %s", resp.Status)
	}

	var raw releaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}

	return strings.TrimPrefix(raw.TagName, "v"), nil
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
}
