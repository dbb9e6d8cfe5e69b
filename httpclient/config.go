package httpclient

import (
	"fmt"

	"github.com/kbukum/restkit/validation"
	"github.com/kbukum/restkit/version"
)

const defaultName = "restkit"

// Config configures a Client.
type Config struct {
	// Name identifies the client in logs, metrics and spans.
	Name string `yaml:"name" mapstructure:"name"`

	// DefaultHost seeds every request builder, e.g. "www.reddit.com". A client
	// without one needs Host on every builder; Component requires it.
	DefaultHost string `yaml:"default_host" mapstructure:"default_host" validate:"omitempty,hostname_port|hostname"`

	// UserAgent is stored as the transport's User-Agent default header.
	// Defaults to "<name>/<version> (<os>; <go>)".
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// RequestsPerMinute is the admission budget. Zero or less disables rate
	// limiting.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`

	// HTTPSDefault selects https for new request builders.
	HTTPSDefault bool `yaml:"https_default" mapstructure:"https_default"`

	// SaveHistory records every successful response.
	SaveHistory bool `yaml:"save_history" mapstructure:"save_history"`

	// HistoryMaxEntries caps the in-memory history. 0 keeps everything.
	HistoryMaxEntries int `yaml:"history_max_entries" mapstructure:"history_max_entries" validate:"gte=0"`

	// RequestLogging logs rate-limit waits, requests and responses.
	RequestLogging bool `yaml:"request_logging" mapstructure:"request_logging"`

	// HeaderMerge is "skip_existing" (default) or "append".
	HeaderMerge string `yaml:"header_merge" mapstructure:"header_merge" validate:"omitempty,oneof=skip_existing append"`

	// Transport configures the HTTP transport built by Component.
	Transport TransportConfig `yaml:"transport" mapstructure:"transport"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent(c.Name)
	}
	if c.HeaderMerge == "" {
		c.HeaderMerge = string(MergeSkipExisting)
	}
	c.Transport.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	return c.Transport.Validate()
}

// mergePolicy returns the parsed HeaderMerge value.
func (c *Config) mergePolicy() MergePolicy {
	p, err := ParseMergePolicy(c.HeaderMerge)
	if err != nil {
		return MergeSkipExisting
	}
	return p
}
