package discovery

import (
	"fmt"
	"strings"
)

// Identifier is a parsed package URL. Name keeps its internal slashes for
// namespaced ecosystems (Maven group/artifact, Go module paths), so
// pkg:golang/github.com/gorilla/mux parses to name "github.com/gorilla/mux".
type Identifier struct {
	Ecosystem string
	Name      string
	Version   string
}

const purlScheme = "pkg:"

// ParseIdentifier parses a loosely-formed package URL of the shape
// pkg:ecosystem/name[@version][?...][#...]. The version, if present, is
// truncated at the first '?' or '#'. Inputs without the pkg: scheme or
// without a name segment after the ecosystem return ErrInvalidPURL.
func ParseIdentifier(purlStr string) (Identifier, error) {
	var id Identifier

	if !strings.HasPrefix(purlStr, purlScheme) {
		return id, fmt.Errorf("%w: %s", ErrInvalidPURL, purlStr)
	}
	body := purlStr[len(purlScheme):]

	if before, after, found := strings.Cut(body, "@"); found {
		body = before
		after, _, _ = strings.Cut(after, "?")
		after, _, _ = strings.Cut(after, "#")
		id.Version = after
	}

	parts := strings.Split(body, "/")
	if len(parts) < 2 {
		return Identifier{}, fmt.Errorf("%w: %s", ErrInvalidPURL, purlStr)
	}

	id.Ecosystem = parts[0]
	id.Name = strings.Join(parts[1:], "/")
	return id, nil
}
