package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/logging"
)

// ValidationContext specifies what configuration is required
type ValidationContext string

const (
	// ValidationContextSearch - search needs a reachable GitHub API and trending settings
	ValidationContextSearch ValidationContext = "search"
	// ValidationContextServe - serve additionally needs a listen address
	ValidationContextServe ValidationContext = "serve"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  ❌ %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠️  %s\n", warn))
		}
	}

	return sb.String()
}

// Validate validates configuration for the given context
func (c *Config) Validate(ctx ValidationContext) *ValidationResult {
	result := &ValidationResult{Valid: true}

	c.validateGitHub(result)
	c.validateTrending(result)
	c.validateLog(result)
	if ctx == ValidationContextServe {
		c.validateServer(result)
	}

	return result
}

// Require validates and converts failures into a config error
func (c *Config) Require(ctx ValidationContext) error {
	result := c.Validate(ctx)
	if result.HasErrors() {
		return errors.ConfigErrorf("%s", result.Error())
	}
	return nil
}

func (c *Config) validateGitHub(result *ValidationResult) {
	if c.GitHub.BaseURL == "" {
		result.AddError("github.base_url is required but not set")
	} else if u, err := url.Parse(c.GitHub.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		result.AddError("github.base_url is invalid: %q", c.GitHub.BaseURL)
	}

	if c.GitHub.Token == "" {
		result.AddWarning("GITHUB_TOKEN is not set. Unauthenticated requests are limited to 60 per hour and searches will degrade quickly.")
	}

	if c.GitHub.RequestsPerSecond <= 0 {
		result.AddError("github.requests_per_second must be positive, got %v", c.GitHub.RequestsPerSecond)
	}

	if c.GitHub.SearchPerPage < 1 || c.GitHub.SearchPerPage > 100 {
		result.AddError("github.search_per_page must be between 1 and 100, got %d", c.GitHub.SearchPerPage)
	}

	if c.GitHub.Timeout < 0 {
		result.AddError("github.timeout must not be negative")
	}
}

func (c *Config) validateTrending(result *ValidationResult) {
	if c.Trending.EventsPerPage < 1 || c.Trending.EventsPerPage > 100 {
		result.AddError("trending.events_per_page must be between 1 and 100, got %d", c.Trending.EventsPerPage)
	}

	if c.Trending.MaxEventPages < 1 {
		result.AddError("trending.max_event_pages must be at least 1, got %d", c.Trending.MaxEventPages)
	} else if c.Trending.EventsPerPage*c.Trending.MaxEventPages > 300 {
		result.AddWarning("the Events API serves at most 300 events per repository; pages beyond that return nothing")
	}

	if c.Trending.Concurrency < 1 {
		result.AddError("trending.concurrency must be at least 1, got %d", c.Trending.Concurrency)
	}

	if _, err := c.Location(); err != nil {
		result.AddError("trending.timezone is invalid: %v", err)
	}
}

func (c *Config) validateLog(result *ValidationResult) {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		result.AddError("log.level is invalid: %v", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		result.AddError("log.format must be text or json, got %q", c.Log.Format)
	}
}

func (c *Config) validateServer(result *ValidationResult) {
	if c.Server.Addr == "" {
		result.AddError("server.addr is required but not set")
	}
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout < c.GitHub.Timeout {
		result.AddWarning("server.write_timeout (%s) is shorter than github.timeout (%s)", c.Server.WriteTimeout, c.GitHub.Timeout)
	}
}
