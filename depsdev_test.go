package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDepsdevFetchUnsupportedEcosystem(t *testing.T) {
	client := newDepsDevClient(defaultUserAgent)
	client.baseURL = "http://127.0.0.1:0" // must never be contacted

	for _, ecosystem := range []string{"rubygems", "github", "unknown"} {
		meta, err := client.Fetch(context.Background(), Identifier{Ecosystem: ecosystem, Name: "x"})
		if err != nil {
			t.Errorf("Fetch(%s) error: %v", ecosystem, err)
		}
		if meta != nil {
			t.Errorf("Fetch(%s) = %+v, want nil", ecosystem, meta)
		}
	}
}

func TestDepsdevFetch(t *testing.T) {
	callCount := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		if callCount == 1 {
			resp := depsdevPackageResponse{
				Versions: []depsdevVersion{
					{VersionKey: depsdevVersionKey{System: "NPM", Name: "express", Version: "4.18.0"}},
					{VersionKey: depsdevVersionKey{System: "NPM", Name: "express", Version: "4.18.2"}, IsDefault: true},
				},
			}
			json.NewEncoder(w).Encode(resp)
			return
		}
		resp := depsdevVersionResponse{
			VersionKey: depsdevVersionKey{System: "NPM", Name: "express", Version: "4.18.0"},
			Licenses:   []string{"MIT"},
			Links: []struct {
				Label string `json:"label"`
				URL   string `json:"url"`
			}{
				{Label: "HOMEPAGE", URL: "https://expressjs.com"},
				{Label: "SOURCE_REPO", URL: "git+https://github.com/expressjs/express.git"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := newDepsDevClient(defaultUserAgent)
	client.baseURL = srv.URL
	client.httpClient = srv.Client()

	meta, err := client.Fetch(context.Background(), Identifier{Ecosystem: "npm", Name: "express", Version: "4.18.0"})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if meta == nil {
		t.Fatal("Fetch() returned nil")
	}

	if meta.LatestVersion != "4.18.2" {
		t.Errorf("LatestVersion = %q, want %q", meta.LatestVersion, "4.18.2")
	}
	if meta.RepoURL != "https://github.com/expressjs/express" {
		t.Errorf("RepoURL = %q, want cleaned repository URL", meta.RepoURL)
	}
	if meta.License != "MIT" {
		t.Errorf("License = %q, want MIT", meta.License)
	}
	if meta.Homepage != "https://expressjs.com" {
		t.Errorf("Homepage = %q", meta.Homepage)
	}
	if callCount != 2 {
		t.Errorf("callCount = %d, want 2 (package listing + version detail)", callCount)
	}
}

func TestDepsdevFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := newDepsDevClient(defaultUserAgent)
	client.baseURL = srv.URL
	client.httpClient = srv.Client()

	_, err := client.Fetch(context.Background(), Identifier{Ecosystem: "npm", Name: "nonexistent-package"})
	if err == nil {
		t.Error("Fetch() expected error on 404")
	}
}

func TestDepsdevFetchVersionDetailFailure(t *testing.T) {
	callCount := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		if callCount == 1 {
			resp := depsdevPackageResponse{
				Versions: []depsdevVersion{
					{VersionKey: depsdevVersionKey{Version: "1.2.3"}, IsDefault: true},
				},
			}
			json.NewEncoder(w).Encode(resp)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newDepsDevClient(defaultUserAgent)
	client.baseURL = srv.URL
	client.httpClient = srv.Client()

	meta, err := client.Fetch(context.Background(), Identifier{Ecosystem: "npm", Name: "lodash"})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if meta.LatestVersion != "1.2.3" {
		t.Errorf("LatestVersion = %q, want listing-level data to survive", meta.LatestVersion)
	}
	if meta.RepoURL != "" || meta.License != "" {
		t.Errorf("version-level fields should be empty, got %+v", meta)
	}
}

func TestLatestVersion(t *testing.T) {
	tests := []struct {
		name     string
		versions []depsdevVersion
		want     string
	}{
		{"empty", nil, ""},
		{"default flagged", []depsdevVersion{
			{VersionKey: depsdevVersionKey{Version: "2.0.0"}},
			{VersionKey: depsdevVersionKey{Version: "1.9.0"}, IsDefault: true},
		}, "1.9.0"},
		{"no default picks highest", []depsdevVersion{
			{VersionKey: depsdevVersionKey{Version: "1.0.0"}},
			{VersionKey: depsdevVersionKey{Version: "2.0.0"}},
			{VersionKey: depsdevVersionKey{Version: "1.5.0"}},
		}, "2.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := latestVersion(tt.versions); got != tt.want {
				t.Errorf("latestVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanRepoURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"git+https://github.com/expressjs/express.git", "https://github.com/expressjs/express"},
		{"https://github.com/expressjs/express", "https://github.com/expressjs/express"},
		{"https://github.com/gorilla/mux/issues/12", "https://github.com/gorilla/mux"},
		{"https://github.com/gorilla/mux/tree/main/middleware", "https://github.com/gorilla/mux"},
		{"https://gitlab.com/group/proj.git/wiki", "https://gitlab.com/group/proj"},
		{"https://github.com/a/b/blob/main/README.md", "https://github.com/a/b"},
		{"https://github.com/a/b/pulls", "https://github.com/a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := cleanRepoURL(tt.raw); got != tt.want {
				t.Errorf("cleanRepoURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsRepoHost(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/expressjs/express", true},
		{"https://GitHub.com/expressjs/express", true},
		{"https://gitlab.com/group/proj", true},
		{"https://bitbucket.org/team/repo", true},
		{"https://expressjs.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isRepoHost(tt.url); got != tt.want {
			t.Errorf("isRepoHost(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
