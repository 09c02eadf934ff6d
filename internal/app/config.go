package app

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/vk/jsbm/internal/host"
	"github.com/vk/jsbm/internal/report"
)

// PublishConfig enables streaming results to a socket.io server.
type PublishConfig struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// WebhookConfig enables POSTing every result to an HTTP endpoint.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths      []string // documents or directories of documents
	Samples    int
	Iterations int
	Runtimes   []string
	Format     string
	Keep       bool
	PrintCode  bool
	Filter     string
	Color      bool

	LogLevel  string
	LogFormat string

	Publish *PublishConfig
	Webhook *WebhookConfig
}

// NewConfig applies defaults to empty fields and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one document path is required")
	}
	if cfg.Samples < 1 {
		return nil, fmt.Errorf("samples must be at least 1, got %d", cfg.Samples)
	}
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("iterations must be at least 1, got %d", cfg.Iterations)
	}

	if len(cfg.Runtimes) == 0 {
		cfg.Runtimes = []string{"node"}
	}
	for _, rt := range cfg.Runtimes {
		if !slices.Contains(host.Runtimes(), rt) {
			return nil, fmt.Errorf("invalid runtime %q: must be one of %v", rt, host.Runtimes())
		}
	}

	if cfg.Format == "" {
		cfg.Format = report.FormatText
	}
	if !slices.Contains(report.Formats(), cfg.Format) {
		return nil, fmt.Errorf("invalid format %q: must be one of %v", cfg.Format, report.Formats())
	}
	if cfg.PrintCode && cfg.Format == report.FormatJSON {
		return nil, errors.New("printing code is not supported with the json format")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.Publish != nil {
		u, err := url.Parse(cfg.Publish.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid publish URL: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid publish URL %q: scheme and host are required", cfg.Publish.URL)
		}
		if cfg.Publish.Timeout < 0 {
			return nil, fmt.Errorf("invalid publish timeout %s", cfg.Publish.Timeout)
		}
	}

	if cfg.Webhook != nil {
		u, err := url.Parse(cfg.Webhook.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook URL: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("invalid webhook URL %q: an http or https URL is required", cfg.Webhook.URL)
		}
	}

	return &cfg, nil
}

// structured reports whether scripts hand raw samples back to the app instead
// of printing results themselves.
func (c *Config) structured() bool {
	return c.Format == report.FormatJSON || c.Publish != nil || c.Webhook != nil
}
