package discovery

// merge combines a partial contribution into the accumulator. Every scalar
// field keeps the base value when already set and adopts the candidate's
// value otherwise, so the source order decides conflicts. Maintainers is the
// one exception: both lists are unioned with duplicates removed.
func merge(base, next *Metadata) *Metadata {
	return &Metadata{
		PURL:          base.PURL,
		Ecosystem:     firstNonEmpty(base.Ecosystem, next.Ecosystem),
		Name:          firstNonEmpty(base.Name, next.Name),
		Version:       firstNonEmpty(base.Version, next.Version),
		RepoURL:       firstNonEmpty(base.RepoURL, next.RepoURL),
		License:       firstNonEmpty(base.License, next.License),
		Description:   firstNonEmpty(base.Description, next.Description),
		Homepage:      firstNonEmpty(base.Homepage, next.Homepage),
		LatestVersion: firstNonEmpty(base.LatestVersion, next.LatestVersion),
		RegistryURL:   firstNonEmpty(base.RegistryURL, next.RegistryURL),
		Maintainers:   unionMaintainers(base.Maintainers, next.Maintainers),
		Source:        firstNonEmpty(base.Source, next.Source),
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// unionMaintainers deduplicates while preserving first-seen order.
func unionMaintainers(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, m := range list {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}
