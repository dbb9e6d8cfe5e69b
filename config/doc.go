// Package config loads service configuration for restkit consumers.
//
// It uses Viper to read an optional YAML file, godotenv to load an optional
// .env file, and maps environment variables onto nested keys so that
// CLIENT_DEFAULT_HOST fills client.default_host.
//
// # Usage
//
//	type AppConfig struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Client httpclient.Config `mapstructure:"client"`
//	}
//
//	var cfg AppConfig
//	err := config.LoadConfig("my-service", &cfg)
package config
