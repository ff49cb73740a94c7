// Package discovery resolves package URLs (PURLs) to repository and license
// metadata by querying public data sources in a fixed fallback order:
// deps.dev, ClearlyDefined, two reserved sources, and an optional paid web
// search appended last. Free sources are exhausted before any paid source is
// attempted; the chain stops as soon as a source produces a complete record.
package discovery

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/git-pkgs/registries"

	"github.com/git-pkgs/discovery/forge"
)

// Metadata is the enriched record produced by discovery. A record is
// considered complete once ecosystem, name and repository URL are known;
// everything else is best-effort.
type Metadata struct {
	PURL          string   `json:"purl"`
	Ecosystem     string   `json:"ecosystem"`
	Name          string   `json:"name"`
	Version       string   `json:"version,omitempty"`
	RepoURL       string   `json:"repo_url,omitempty"`
	License       string   `json:"license,omitempty"`
	Description   string   `json:"description,omitempty"`
	Homepage      string   `json:"homepage,omitempty"`
	LatestVersion string   `json:"latest_version,omitempty"`
	Maintainers   []string `json:"maintainers"`
	RegistryURL   string   `json:"registry_url,omitempty"`
	Source        string   `json:"source,omitempty"`
}

// IsComplete reports whether the record carries the minimum field set
// required to consider discovery successful.
func (m *Metadata) IsComplete() bool {
	return m.Ecosystem != "" && m.Name != "" && m.RepoURL != ""
}

func (m *Metadata) missingFields() []string {
	var missing []string
	if m.Ecosystem == "" {
		missing = append(missing, "ecosystem")
	}
	if m.Name == "" {
		missing = append(missing, "name")
	}
	if m.RepoURL == "" {
		missing = append(missing, "repo_url")
	}
	return missing
}

// source is a single external metadata provider. Fetch returns (nil, nil)
// when the source does not cover the ecosystem or has no data for the
// package; errors are recovered by the caller and never abort the chain.
type source interface {
	Name() string
	Fetch(ctx context.Context, id Identifier) (*Metadata, error)
}

// releaseSource resolves the latest release tag for a forge-hosted
// repository. Satisfied by *forge.Client.
type releaseSource interface {
	LatestRelease(ctx context.Context, ownerRepo string) (string, error)
}

// Service discovers package metadata across the source chain. A Service is
// safe for concurrent use: all per-request state lives in the accumulator
// owned by each Discover call.
type Service struct {
	sources      []source
	releases     releaseSource
	allowPartial bool
	logger       *log.Logger
}

// New creates a discovery Service. The paid search source is only part of
// the chain when a SerpAPI key is supplied via WithSerpAPIKey.
func New(opts ...Option) *Service {
	o := buildOptions(opts)

	sources := []source{
		newDepsDevClient(o.userAgent),
		newClearlyDefinedClient(o.userAgent),
		purl2srcClient{},
		upmexClient{},
	}
	if o.serpAPIKey != "" {
		sources = append(sources, newSerpAPIClient(o.serpAPIKey, o.userAgent))
	}

	return &Service{
		sources:      sources,
		releases:     forge.New(),
		allowPartial: o.allowPartial,
		logger:       o.logger,
	}
}

// Discover resolves metadata for a package URL.
//
// The identifier is parsed, ecosystem-specific shortcuts run first (GitHub
// and Go-module identifiers encode their repository location directly), and
// then each source is tried in priority order. A source whose contribution
// is complete ends the chain immediately and is recorded as the record's
// Source; partial contributions are merged into the accumulator with a
// fill-missing policy and the chain continues.
//
// When every source is exhausted without reaching completeness, Discover
// returns an *IncompleteError naming the missing fields, unless the Service
// was built with WithAllowPartial, in which case the accumulated record is
// returned as-is with an empty Source.
func (s *Service) Discover(ctx context.Context, purlStr string) (*Metadata, error) {
	id, err := ParseIdentifier(purlStr)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{
		PURL:        purlStr,
		Ecosystem:   id.Ecosystem,
		Name:        id.Name,
		Version:     id.Version,
		RegistryURL: registries.DefaultURL(id.Ecosystem),
	}

	s.logger.Info("discovering package metadata", "ecosystem", id.Ecosystem, "name", id.Name)

	s.resolveSpecialCases(ctx, id, meta)

	for _, src := range s.sources {
		s.logger.Debug("trying source", "source", src.Name())

		result, err := src.Fetch(ctx, id)
		if err != nil {
			s.logger.Debug("source failed", "source", src.Name(), "err", err)
			continue
		}
		if result == nil {
			continue
		}

		if result.IsComplete() {
			result.PURL = purlStr
			result.Source = src.Name()
			if result.RegistryURL == "" {
				result.RegistryURL = meta.RegistryURL
			}
			s.logger.Info("discovery successful", "source", src.Name(), "repo", result.RepoURL)
			return result, nil
		}

		meta = merge(meta, result)
	}

	if s.allowPartial || meta.IsComplete() {
		return meta, nil
	}

	return nil, &IncompleteError{PURL: purlStr, Missing: meta.missingFields()}
}

// Discover resolves metadata for a single package URL using a throwaway
// Service. Callers issuing many lookups should construct a Service once and
// reuse it.
func Discover(ctx context.Context, purlStr string, opts ...Option) (*Metadata, error) {
	return New(opts...).Discover(ctx, purlStr)
}
