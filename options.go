package discovery

import (
	"io"

	"github.com/charmbracelet/log"
)

const defaultUserAgent = "git-pkgs-discovery"

// Option configures a discovery Service.
type Option func(*options)

type options struct {
	userAgent    string
	serpAPIKey   string
	allowPartial bool
	logger       *log.Logger
}

// WithUserAgent sets the User-Agent header for API requests.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithSerpAPIKey enables the paid web-search source. It is appended after
// all free sources so it is only consulted when they could not complete the
// record.
func WithSerpAPIKey(key string) Option {
	return func(o *options) {
		o.serpAPIKey = key
	}
}

// WithAllowPartial makes Discover return the accumulated record even when it
// never reached completeness, instead of failing.
func WithAllowPartial() Option {
	return func(o *options) {
		o.allowPartial = true
	}
}

// WithLogger attaches a logger for diagnostic output. By default the Service
// is silent.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	o := options{
		userAgent: defaultUserAgent,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
