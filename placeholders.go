package discovery

import "context"

// purl2srcClient is reserved for the purl2src package-to-source mapping
// service, which has no public API yet. It never contributes data.
type purl2srcClient struct{}

func (purl2srcClient) Name() string { return "purl2src" }

func (purl2srcClient) Fetch(context.Context, Identifier) (*Metadata, error) {
	return nil, nil
}

// upmexClient is reserved for the Universal Package Metadata Exchange, a
// proposed standard without an implementation to query. It never contributes
// data.
type upmexClient struct{}

func (upmexClient) Name() string { return "upmex" }

func (upmexClient) Fetch(context.Context, Identifier) (*Metadata, error) {
	return nil, nil
}
