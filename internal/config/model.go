package config

import (
	"fmt"
	"time"
)

// File is the decoded form of a configuration file.
type File struct {
	// Documents are paths or glob patterns, relative to the file.
	Documents  []string `hcl:"documents,optional"`
	Samples    *int     `hcl:"samples,optional"`
	Iterations *int     `hcl:"iterations,optional"`
	Runtimes   []string `hcl:"runtimes,optional"`
	Format     *string  `hcl:"format,optional"`
	Keep       *bool    `hcl:"keep,optional"`
	Code       *bool    `hcl:"code,optional"`
	Filter     *string  `hcl:"filter,optional"`
	Publish    *Publish `hcl:"publish,block"`
	Webhook    *Webhook `hcl:"webhook,block"`
}

// Publish configures the socket.io result publisher.
type Publish struct {
	URL                string  `hcl:"url"`
	Namespace          *string `hcl:"namespace,optional"`
	Event              *string `hcl:"event,optional"`
	Timeout            *string `hcl:"timeout,optional"`
	InsecureSkipVerify *bool   `hcl:"insecure_skip_verify,optional"`
}

// TimeoutDuration parses Timeout. A missing timeout is zero.
func (p *Publish) TimeoutDuration() (time.Duration, error) {
	return parseTimeout("publish", p.Timeout)
}

func parseTimeout(block string, raw *string) (time.Duration, error) {
	if raw == nil {
		return 0, nil
	}
	d, err := time.ParseDuration(*raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s timeout %q: %w", block, *raw, err)
	}
	return d, nil
}

// Webhook configures the HTTP result publisher.
type Webhook struct {
	URL     string  `hcl:"url"`
	Timeout *string `hcl:"timeout,optional"`
}

// TimeoutDuration parses Timeout. A missing timeout is zero.
func (w *Webhook) TimeoutDuration() (time.Duration, error) {
	return parseTimeout("webhook", w.Timeout)
}
