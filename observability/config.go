package observability

import (
	"fmt"
	"time"

	"github.com/kbukum/restkit/version"
)

// Config configures the OTLP/HTTP exporters for traces and metrics.
type Config struct {
	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`

	// Endpoint is the collector host:port, e.g. "localhost:4318".
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`

	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
	// SampleRate is the fraction of traces kept, 0.0 to 1.0.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`

	Metrics        bool          `yaml:"metrics" mapstructure:"metrics"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// DefaultConfig returns a development setup exporting both signals to a
// local collector.
func DefaultConfig(serviceName string) Config {
	cfg := Config{
		ServiceName: serviceName,
		Insecure:    true,
		Tracing:     true,
		SampleRate:  1.0,
		Metrics:     true,
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = version.DefaultProduct
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = version.Get().Short()
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability: sample_rate must be within [0, 1], got %v", c.SampleRate)
	}
	if (c.Tracing || c.Metrics) && c.Endpoint == "" {
		return fmt.Errorf("observability: endpoint is required")
	}
	return nil
}
