package llm

import (
	"fmt"
	"time"
)

// Config contains configuration for the analysis LLM client.
type Config struct {
	// APIKey is the OpenRouter API key
	APIKey string

	// BaseURL is the OpenRouter-compatible API base URL
	// Default: https://openrouter.ai/api/v1
	BaseURL string

	// DefaultModel is the model to use when not specified
	// Example: anthropic/claude-3.5-sonnet
	DefaultModel string

	// Timeout bounds each HTTP request; exceeding it surfaces a timeout
	// error rather than blocking the session indefinitely.
	// Default: 30 seconds
	Timeout time.Duration

	// MaxRetries is the maximum number of validation retries
	// Default: 3
	MaxRetries int
}

// Validate checks that required config fields are set.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("APIKey is required")
	}

	if c.BaseURL == "" {
		return fmt.Errorf("BaseURL is required")
	}

	if c.DefaultModel == "" {
		return fmt.Errorf("DefaultModel is required")
	}

	return nil
}

// SetDefaults fills in default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}

	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}
