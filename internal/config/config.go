// Package config handles pipeline configuration: defaults, an optional YAML
// file, KEY=VALUE files such as .env and dl.cfg, and environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"songlake/internal/ddl"
	"songlake/internal/domain"
)

// Default values.
const (
	DefaultInput       = "data"
	DefaultOutput      = "output"
	DefaultTimeZone    = "UTC"
	DefaultConcurrency = 2
)

// Config holds the configuration of a pipeline run.
type Config struct {
	Input    string `yaml:"input"`     // base path or URI of song_data and log_data
	Output   string `yaml:"output"`    // base path or URI the tables are written under
	SongGlob string `yaml:"song_glob"` // relative to Input; empty uses the source default
	LogGlob  string `yaml:"log_glob"`

	TimeZone      string `yaml:"timezone"`    // zone start_time is expressed in (default "UTC")
	MatchStrategy string `yaml:"match"`       // "title" (default) or "title_artist"
	Compression   string `yaml:"compression"` // parquet codec (default "snappy")

	Threads     int    `yaml:"threads"`      // DuckDB worker threads; 0 keeps the engine default
	MemoryLimit string `yaml:"memory_limit"` // e.g. "4GB"; empty keeps the engine default
	Concurrency int    `yaml:"concurrency"`  // stages run at once within a level

	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error (default "info")
	LogFormat string `yaml:"log_format"` // text (default) or json

	Schedule string `yaml:"schedule"` // cron expression for the schedule command

	Credentials domain.StorageCredentials `yaml:"credentials"`

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string `yaml:"-"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		Input:         DefaultInput,
		Output:        DefaultOutput,
		TimeZone:      DefaultTimeZone,
		MatchStrategy: string(domain.MatchByTitle),
		Compression:   ddl.CompressionSnappy,
		Concurrency:   DefaultConcurrency,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Match returns the parsed match strategy.
func (c *Config) Match() (domain.MatchStrategy, error) {
	return domain.ParseMatchStrategy(c.MatchStrategy)
}

// Locations returns every URI a run touches.
func (c *Config) Locations() []string {
	return []string{c.Input, c.Output}
}

// Validate checks the configuration and records warnings for remote
// locations that have no credentials.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return domain.ErrValidation("input location is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return domain.ErrValidation("output location is required")
	}
	if _, err := c.Match(); err != nil {
		return err
	}
	if err := ddl.ValidateCompression(c.Compression); err != nil {
		return domain.ErrValidation("%v", err)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return domain.ErrValidation("invalid time zone %q: %v", c.TimeZone, err)
	}
	if c.Threads < 0 {
		return domain.ErrValidation("threads must be >= 0, got %d", c.Threads)
	}
	if c.Concurrency < 0 {
		return domain.ErrValidation("concurrency must be >= 0, got %d", c.Concurrency)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return domain.ErrValidation("unknown log format %q: use text or json", c.LogFormat)
	}

	for _, loc := range c.Locations() {
		switch domain.StorageTypeOf(loc) {
		case domain.StorageTypeS3:
			if !c.Credentials.HasS3() {
				c.warn("%s is on S3 but AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY are not set", loc)
			}
		case domain.StorageTypeGCS:
			if !c.Credentials.HasGCS() {
				c.warn("%s is on GCS but GCS_HMAC_KEY_ID/GCS_HMAC_SECRET are not set", loc)
			}
		case domain.StorageTypeAzure:
			if !c.Credentials.HasAzure() {
				c.warn("%s is on Azure but no Azure credentials are set", loc)
			}
		}
	}
	return nil
}

func (c *Config) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !slices.Contains(c.Warnings, msg) {
		c.Warnings = append(c.Warnings, msg)
	}
}

// LoadYAML overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) LoadYAML(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LookupFunc resolves one configuration key, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays every non-empty variable resolved by lookup onto c.
// Unparseable numbers are skipped with a warning.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			c.warn("ignoring %s=%q: not an integer", key, v)
			return
		}
		*dst = n
	}

	str("SONGLAKE_INPUT", &c.Input)
	str("SONGLAKE_OUTPUT", &c.Output)
	str("SONGLAKE_SONG_GLOB", &c.SongGlob)
	str("SONGLAKE_LOG_GLOB", &c.LogGlob)
	str("SONGLAKE_TIMEZONE", &c.TimeZone)
	str("SONGLAKE_MATCH", &c.MatchStrategy)
	str("SONGLAKE_COMPRESSION", &c.Compression)
	num("SONGLAKE_THREADS", &c.Threads)
	str("SONGLAKE_MEMORY_LIMIT", &c.MemoryLimit)
	num("SONGLAKE_CONCURRENCY", &c.Concurrency)
	str("SONGLAKE_SCHEDULE", &c.Schedule)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	cr := &c.Credentials
	str("AWS_ACCESS_KEY_ID", &cr.S3KeyID)
	str("AWS_SECRET_ACCESS_KEY", &cr.S3Secret)
	str("AWS_SESSION_TOKEN", &cr.S3SessionToken)
	str("AWS_DEFAULT_REGION", &cr.S3Region)
	str("AWS_REGION", &cr.S3Region)
	str("S3_ENDPOINT", &cr.S3Endpoint)
	str("S3_URL_STYLE", &cr.S3URLStyle)
	str("GCS_KEY_FILE", &cr.GCSKeyFile)
	str("GCS_HMAC_KEY_ID", &cr.GCSHMACKeyID)
	str("GCS_HMAC_SECRET", &cr.GCSHMACSecret)
	str("AZURE_ACCOUNT_NAME", &cr.AzureAccountName)
	str("AZURE_ACCOUNT_KEY", &cr.AzureAccountKey)
	str("AZURE_STORAGE_CONNECTION_STRING", &cr.AzureConnectionString)
	str("AZURE_CONNECTION_STRING", &cr.AzureConnectionString)
}

// Files names the optional configuration files Load reads.
type Files struct {
	Config   string // YAML file; empty skips it
	DotEnv   string // KEY=VALUE file; a missing file is ignored
	DLConfig string // INI-style credentials file such as dl.cfg; must exist when set
}

// Load builds a Config from defaults, then the YAML file, then KEY=VALUE
// files, then the environment. Later layers win. The process environment is
// read but never modified.
func Load(files Files) (*Config, error) {
	cfg := Default()
	if files.Config != "" {
		if err := cfg.LoadYAML(files.Config); err != nil {
			return nil, err
		}
	}

	layers := []map[string]string{}
	if files.DLConfig != "" {
		vals, err := ParseKeyValueFile(files.DLConfig)
		if err != nil {
			return nil, err
		}
		layers = append(layers, vals)
	}
	if files.DotEnv != "" {
		vals, err := LoadDotEnv(files.DotEnv)
		if err != nil {
			return nil, err
		}
		layers = append(layers, vals)
	}

	cfg.ApplyEnv(chain(os.LookupEnv, layers...))
	return cfg, nil
}

// chain resolves a key from primary first, then from the fallback maps,
// last one first.
func chain(primary LookupFunc, fallbacks ...map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok && v != "" {
			return v, true
		}
		for i := len(fallbacks) - 1; i >= 0; i-- {
			if v, ok := fallbacks[i][key]; ok {
				return v, true
			}
		}
		return "", false
	}
}
