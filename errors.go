package discovery

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPURL is returned when an input string does not follow the
// pkg:ecosystem/name[@version] grammar.
var ErrInvalidPURL = errors.New("invalid purl format")

// IncompleteError is returned when every source has been exhausted without
// reaching a complete record and partial results were not requested.
type IncompleteError struct {
	PURL    string
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("could not discover complete metadata for %s: missing %s",
		e.PURL, strings.Join(e.Missing, ", "))
}
