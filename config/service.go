package config

import (
	"fmt"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/validation"
)

// Environments a service may declare.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig is the section every service embedding restkit carries.
// Embed it with `mapstructure:",squash"` next to the service's own sections.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults falls back to the development environment, which also turns
// Debug on, and tags log output with the service name.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = Environments[0]
	}
	c.Debug = c.Debug || c.Environment == "development"
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate reports field problems as a validation *errors.AppError.
func (c *ServiceConfig) Validate() error {
	err := validation.New().
		Required("config.name", c.Name).
		Required("config.environment", c.Environment).
		OneOf("config.environment", c.Environment, Environments).
		Error()
	if err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
