package jobpost

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// DefaultTimeout bounds a single page fetch or render.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the importer to job boards.
	DefaultUserAgent = "Mozilla/5.0 (compatible; ProposalWriter/1.0)"
)

// Options controls how postings are fetched.
type Options struct {
	Timeout    time.Duration `env:"JOBPOST_TIMEOUT" envDefault:"30s"`
	UseBrowser bool          `env:"JOBPOST_USE_BROWSER" envDefault:"false"`
	UserAgent  string        `env:"JOBPOST_USER_AGENT"`
	// AllowPrivateHosts permits loopback, private and link-local targets.
	// Leave it off for anything reachable by untrusted users.
	AllowPrivateHosts bool `env:"JOBPOST_ALLOW_PRIVATE_HOSTS" envDefault:"false"`
}

// DefaultOptions returns plain HTTP fetching with the default timeout.
func DefaultOptions() *Options {
	return &Options{Timeout: DefaultTimeout, UserAgent: DefaultUserAgent}
}

// LoadOptions reads Options from the JOBPOST_* environment variables.
func LoadOptions() (*Options, error) {
	opts := DefaultOptions()
	if err := env.Parse(opts); err != nil {
		return nil, fmt.Errorf("invalid job import configuration: %w", err)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return opts, nil
}
