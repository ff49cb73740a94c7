package discovery

import (
	"context"
	"strings"
)

// forgeHosts are Go-module name prefixes that encode the repository location
// in the module path itself.
var forgeHosts = []string{"github.com/", "gitlab.com/"}

// resolveSpecialCases enriches the accumulator for ecosystems that encode
// the repository location directly in the identifier, before any metadata
// source is consulted.
//
// For pkg:github/owner/repo identifiers the repository URL is synthesized
// from the name, followed by one best-effort release lookup to populate the
// latest version. The lookup never blocks the chain: any failure is logged
// and discarded.
//
// For Go-module identifiers whose name starts with a known forge host, the
// repository URL is the first three path segments; no network call is made.
func (s *Service) resolveSpecialCases(ctx context.Context, id Identifier, meta *Metadata) {
	switch id.Ecosystem {
	case "github":
		if !strings.Contains(id.Name, "/") {
			return
		}
		meta.RepoURL = "https://github.com/" + id.Name
		s.logger.Info("derived repository from identifier", "repo", meta.RepoURL)

		tag, err := s.releases.LatestRelease(ctx, id.Name)
		if err != nil {
			s.logger.Debug("latest release lookup failed", "repo", id.Name, "err", err)
			return
		}
		if tag != "" {
			meta.LatestVersion = tag
			s.logger.Debug("resolved latest release", "version", tag)
		}

	case "golang", "go":
		for _, host := range forgeHosts {
			if !strings.HasPrefix(id.Name, host) {
				continue
			}
			parts := strings.Split(id.Name, "/")
			if len(parts) >= 3 {
				meta.RepoURL = "https://" + strings.Join(parts[:3], "/")
				s.logger.Info("derived repository from module path", "repo", meta.RepoURL)
			}
			return
		}
	}
}
