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

// clearlyDefinedClient queries the ClearlyDefined definitions API. Its
// strength is curated license data.
type clearlyDefinedClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

func newClearlyDefinedClient(userAgent string) *clearlyDefinedClient {
	return &clearlyDefinedClient{
		baseURL: "https://api.clearlydefined.io",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: userAgent,
	}
}

func (c *clearlyDefinedClient) Name() string { return "clearlydefined" }

// clearlyDefinedTypes maps identifier ecosystems to ClearlyDefined
// coordinate types. The vocabulary differs from deps.dev: cargo is "crate"
// here, and gem is covered.
var clearlyDefinedTypes = map[string]string{
	"npm":    "npm",
	"pypi":   "pypi",
	"maven":  "maven",
	"golang": "go",
	"go":     "go",
	"cargo":  "crate",
	"nuget":  "nuget",
	"gem":    "gem",
}

// clearlyDefinedCoordinates builds the type/provider/namespace/name/version
// coordinate path for an identifier. Namespaced names split on the first
// slash; missing namespace and version use the "-" placeholder.
func clearlyDefinedCoordinates(id Identifier) (string, bool) {
	cdType, ok := clearlyDefinedTypes[id.Ecosystem]
	if !ok {
		return "", false
	}

	provider := cdType
	if cdType == "npm" {
		provider = "npmjs"
	}

	namespace := "-"
	name := id.Name
	if ns, rest, found := strings.Cut(id.Name, "/"); found {
		namespace = url.PathEscape(ns)
		name = url.PathEscape(rest)
	} else {
		name = url.PathEscape(name)
	}

	version := id.Version
	if version == "" {
		version = "-"
	}

	return strings.Join([]string{cdType, provider, namespace, name, version}, "/"), true
}

func (c *clearlyDefinedClient) Fetch(ctx context.Context, id Identifier) (*Metadata, error) {
	coordinates, ok := clearlyDefinedCoordinates(id)
	if !ok {
		return nil, nil
	}

	u := fmt.Sprintf("%s/definitions/%s", c.baseURL, coordinates)

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
		return nil, fmt.Errorf("clearlydefined: %s", resp.Status)
	}

	var raw clearlyDefinedResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	meta := &Metadata{
		Ecosystem: id.Ecosystem,
		Name:      id.Name,
		Version:   id.Version,
		License:   raw.Described.License,
		Homepage:  raw.Described.ProjectWebsite,
	}

	// Only source-control locations map back to a repository URL.
	if loc := raw.Described.SourceLocation; loc.Type == "git" &&
		loc.Provider != "" && loc.Namespace != "" && loc.Name != "" {
		meta.RepoURL = fmt.Sprintf("https://%s/%s/%s", loc.Provider, loc.Namespace, loc.Name)
	}

	return meta, nil
}

type clearlyDefinedResponse struct {
	Described struct {
		License        string `json:"license"`
		ProjectWebsite string `json:"projectWebsite"`
		SourceLocation struct {
			Type      string `json:"type"`
			Provider  string `json:"provider"`
			Namespace string `json:"namespace"`
			Name      string `json:"name"`
		} `json:"sourceLocation"`
	} `json:"described"`
}
