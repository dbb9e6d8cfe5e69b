package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/restkit/logger"
)

// FileSystem is the slice of the OS the loader touches. Tests swap it out.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem stats the disk and loads .env files with godotenv.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv never overrides variables already set in the process.
func (RealFileSystem) LoadEnv(path string) error { return godotenv.Load(path) }

// Resolver picks the YAML and .env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles keeps explicit paths from opts and otherwise takes the first
// existing candidate, most specific first.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	pick := func(explicit string, patterns ...string) string {
		if explicit != "" {
			return explicit
		}
		for _, p := range patterns {
			if strings.Contains(p, "%s") {
				p = fmt.Sprintf(p, serviceName)
			}
			if r.FileSystem.Exists(p) {
				return p
			}
		}
		return ""
	}
	return ResolvedFiles{
		ConfigFile: pick(opts.ConfigFile,
			"./config/%s.yml", "./%s.yml", "./config/config.yml", "../config/config.yml", "./config.yml"),
		EnvFile: pick(opts.EnvFile,
			"./.env.%s", "./config/.env.%s", "./.env", "./config/.env", "../.env"),
	}
}

// LoaderConfig collects the options passed to LoadConfig.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix limits environment binding to PREFIX_* variables.
	EnvPrefix string
}

type LoaderOption func(*LoaderConfig)

func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile skips the YAML search. A path that does not exist is ignored.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile skips the .env search.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix binds only PREFIX_* variables and strips the prefix before
// mapping them onto keys. The prefix is upper-cased and a trailing "_" is
// dropped.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.TrimSuffix(strings.ToUpper(prefix), "_") }
}

// LoadConfig fills cfg, a pointer to a mapstructure-tagged struct, from the
// service's YAML file, then its .env file, then the process environment. Later
// sources win.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(serviceName, lc)
	log := logger.WithComponent("config")

	v := viper.New()
	if lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", files.ConfigFile, err)
		}
		log.Debug("config file loaded", logger.Fields("file", files.ConfigFile))
	}
	if lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("env file skipped", logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	for key, value := range environ(lc.EnvPrefix) {
		for _, k := range envKeyVariants(key) {
			v.Set(k, value)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config for %s: %w", serviceName, err)
	}
	return nil
}

// environ returns the process environment keyed by variable name, with
// prefix and its underscore removed. An empty prefix keeps everything.
func environ(prefix string) map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if prefix != "" {
			if key, ok = strings.CutPrefix(key, prefix+"_"); !ok {
				continue
			}
		}
		out[key] = value
	}
	return out
}

// envKeyVariants lists every viper key an environment variable may address,
// since "_" can separate nesting levels or sit inside a key:
//
//	CLIENT_DEFAULT_HOST -> client_default_host, client.default.host, client.default_host, client_default.host
func envKeyVariants(envKey string) []string {
	parts := strings.Split(strings.ToLower(envKey), "_")
	variants := []string{strings.Join(parts, "_")}
	if len(parts) == 1 {
		return variants
	}
	variants = append(variants, strings.Join(parts, "."))
	for i := 1; i < len(parts); i++ {
		rest := strings.Join(parts[i:], "_")
		for _, head := range []string{strings.Join(parts[:i], "."), strings.Join(parts[:i], "_")} {
			if k := head + "." + rest; !slices.Contains(variants, k) {
				variants = append(variants, k)
			}
		}
	}
	return variants
}
