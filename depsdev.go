package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/git-pkgs/purl"
	"github.com/git-pkgs/vers"
)

// depsdevClient queries the deps.dev v3 REST API. Best coverage for npm,
// PyPI, Go, Maven, Cargo and NuGet.
type depsdevClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

func newDepsDevClient(userAgent string) *depsdevClient {
	return &depsdevClient{
		baseURL: "https://api.deps.dev",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: userAgent,
	}
}

func (c *depsdevClient) Name() string { return "deps.dev" }

// depsdevSystem maps an identifier ecosystem to a deps.dev system name.
// Canonical purl types go through the shared mapping; the loose "go" token
// some callers use instead of "golang" is aliased locally.
func depsdevSystem(ecosystem string) string {
	if s := purl.PURLTypeToDepsdev(ecosystem); s != "" {
		return s
	}
	if ecosystem == "go" {
		return "go"
	}
	return ""
}

func (c *depsdevClient) Fetch(ctx context.Context, id Identifier) (*Metadata, error) {
	system := depsdevSystem(id.Ecosystem)
	if system == "" {
		return nil, nil
	}

	// deps.dev keys Maven packages as groupId:artifactId.
	name := id.Name
	if id.Ecosystem == "maven" {
		name = strings.ReplaceAll(name, "/", ":")
	}

	pkg, err := c.getPackage(ctx, system, name)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{
		Ecosystem:     id.Ecosystem,
		Name:          id.Name,
		Version:       id.Version,
		LatestVersion: latestVersion(pkg.Versions),
	}

	// Version-specific links and license for the most specific version we
	// know about. A failure here still yields the listing-level data.
	version := id.Version
	if version == "" {
		version = meta.LatestVersion
	}
	if version != "" {
		detail, err := c.getVersion(ctx, system, name, version)
		if err != nil {
			return meta, nil
		}
		if len(detail.Licenses) > 0 {
			meta.License = detail.Licenses[0]
		}
		for _, link := range detail.Links {
			if isRepoHost(link.URL) {
				if meta.RepoURL == "" {
					meta.RepoURL = cleanRepoURL(link.URL)
				}
			} else if strings.Contains(strings.ToLower(link.Label), "homepage") && meta.Homepage == "" {
				meta.Homepage = link.URL
			}
		}
	}

	return meta, nil
}

// latestVersion returns the version the API flags as default, falling back
// to the highest version by semver comparison when nothing is flagged.
func latestVersion(versions []depsdevVersion) string {
	best := ""
	for _, v := range versions {
		if v.IsDefault {
			return v.VersionKey.Version
		}
		if best == "" || vers.Compare(v.VersionKey.Version, best) > 0 {
			best = v.VersionKey.Version
		}
	}
	return best
}

var repoHosts = []string{"github.com", "gitlab.com", "bitbucket.org"}

// isRepoHost reports whether a link points at a known code forge.
func isRepoHost(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, host := range repoHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

var trackerPaths = []string{"/issues", "/pulls", "/wiki", "/tree", "/blob"}

// cleanRepoURL normalizes a repository link: the git+ prefix and trailing
// .git suffix are stripped, and tracker paths (/issues, /tree/main, ...) are
// cut at their first occurrence.
func cleanRepoURL(rawURL string) string {
	cleaned := strings.TrimPrefix(rawURL, "git+")
	for _, marker := range trackerPaths {
		if i := strings.Index(cleaned, marker); i >= 0 {
			cleaned = cleaned[:i]
		}
	}
	return strings.TrimSuffix(cleaned, ".git")
}

type depsdevVersionKey struct {
	System  string `json:"system"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type depsdevPackageResponse struct {
	PackageKey struct {
		System string `json:"system"`
		Name   string `json:"name"`
	} `json:"packageKey"`
	Versions []depsdevVersion `json:"versions"`
}

type depsdevVersion struct {
	VersionKey  depsdevVersionKey `json:"versionKey"`
	PublishedAt string            `json:"publishedAt"`
	IsDefault   bool              `json:"isDefault"`
}

type depsdevVersionResponse struct {
	VersionKey  depsdevVersionKey `json:"versionKey"`
	PublishedAt string            `json:"publishedAt"`
	IsDefault   bool              `json:"isDefault"`
	Licenses    []string          `json:"licenses"`
	Links       []struct {
		Label string `json:"label"`
		URL   string `json:"url"`
	} `json:"links"`
}

func (c *depsdevClient) getPackage(ctx context.Context, system, name string) (*depsdevPackageResponse, error) {
	u := fmt.Sprintf("%s/v3/systems/%s/packages/%s", c.baseURL, system, url.PathEscape(name))

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
		return nil, fmt.Errorf("deps.dev: %s", resp.Status)
	}

	var result depsdevPackageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *depsdevClient) getVersion(ctx context.Context, system, name, version string) (*depsdevVersionResponse, error) {
	u := fmt.Sprintf("%s/v3/systems/%s/packages/%s/versions/%s",
		c.baseURL, system, url.PathEscape(name), url.PathEscape(version))

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
		return nil, fmt.Errorf("deps.dev: %s", resp.Status)
	}

	var result depsdevVersionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
