package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/3-lines-studio/postpage/internal/core"
)

// Config holds the postpage configuration.
type Config struct {
	// Dev shows error details and serves public files without caching.
	Dev bool `yaml:"dev"`

	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Pages   PagesConfig   `yaml:"pages"`
	Server  ServerConfig  `yaml:"server"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

type SiteConfig struct {
	Name     string `yaml:"name"`
	TimeZone string `yaml:"time_zone"`
}

// ContentConfig points at the GraphQL content API. Fixtures, when set,
// replaces the API with a local JSON file of posts.
type ContentConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
	Timeout  string `yaml:"timeout"`
	Fixtures string `yaml:"fixtures"`
}

type PagesConfig struct {
	BasePath         string   `yaml:"base_path"`
	Revalidate       string   `yaml:"revalidate"`
	Prerender        []string `yaml:"prerender"`
	Fallback         string   `yaml:"fallback"`
	RevalidateSecret string   `yaml:"revalidate_secret"`
	RenderTimeout    string   `yaml:"render_timeout"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type ExportConfig struct {
	Dir         string `yaml:"dir"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3Prefix    string `yaml:"s3_prefix"`
	Concurrency int    `yaml:"concurrency"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Name:     core.SiteName,
			TimeZone: core.DefaultTimeZone,
		},
		Content: ContentConfig{
			Timeout: "10s",
		},
		Pages: PagesConfig{
			BasePath:      core.DefaultBasePath,
			Revalidate:    "30m",
			Prerender:     []string{core.DefaultSlug},
			Fallback:      core.FallbackBlocking.String(),
			RenderTimeout: "30s",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
		},
		Export: ExportConfig{
			Dir:         "dist",
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decodeKnownFields(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides(os.Getenv)

	return cfg, nil
}

func decodeKnownFields(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (c *Config) applyEnvOverrides(getenv func(string) string) {
	if DetectDev(getenv) {
		c.Dev = true
	}
	if v := getenv("POSTPAGE_CONTENT_ENDPOINT"); v != "" {
		c.Content.Endpoint = v
	}
	if v := getenv("POSTPAGE_CONTENT_TOKEN"); v != "" {
		c.Content.Token = v
	}
	if v := getenv("POSTPAGE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("POSTPAGE_REVALIDATE_SECRET"); v != "" {
		c.Pages.RevalidateSecret = v
	}
	if v := getenv("POSTPAGE_S3_BUCKET"); v != "" {
		c.Export.S3Bucket = v
	}
	if v := getenv("POSTPAGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) ContentTimeout() time.Duration {
	return parseDuration(c.Content.Timeout, 10*time.Second)
}

func (c *Config) StaleAfter() time.Duration {
	return parseDuration(c.Pages.Revalidate, core.DefaultStaleAfter)
}

func (c *Config) RenderTimeout() time.Duration {
	return parseDuration(c.Pages.RenderTimeout, 30*time.Second)
}

func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

func (c *Config) Fallback() core.Fallback {
	fallback, _ := core.ParseFallback(c.Pages.Fallback)
	return fallback
}

func (c *Config) Location() (*time.Location, error) {
	return core.LoadTimeZone(c.Site.TimeZone)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate reports every problem at once so doctor can list them.
func (c *Config) Validate() error {
	var errs []error

	if c.Content.Endpoint == "" && c.Content.Fixtures == "" {
		errs = append(errs, fmt.Errorf("content endpoint not configured (set content.endpoint or POSTPAGE_CONTENT_ENDPOINT)"))
	}

	for name, value := range map[string]string{
		"content.timeout":         c.Content.Timeout,
		"pages.revalidate":        c.Pages.Revalidate,
		"pages.render_timeout":    c.Pages.RenderTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		if value == "" {
			continue
		}
		if d, err := time.ParseDuration(value); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s %q: must be a positive duration", name, value))
		}
	}

	if _, ok := core.ParseFallback(c.Pages.Fallback); !ok {
		errs = append(errs, fmt.Errorf("invalid pages.fallback %q (valid: blocking, none)", c.Pages.Fallback))
	}

	for _, slug := range c.Pages.Prerender {
		if err := core.ValidateSlug(slug); err != nil {
			errs = append(errs, fmt.Errorf("invalid prerender slug %q: %w", slug, err))
		}
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	validLevel := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		errs = append(errs, fmt.Errorf("invalid logging.level %q (valid: %v)", c.Logging.Level, validLevels))
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		errs = append(errs, fmt.Errorf("invalid logging.format %q (valid: json, text)", c.Logging.Format))
	}

	if c.Export.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("export.concurrency cannot be negative"))
	}

	return errors.Join(errs...)
}
