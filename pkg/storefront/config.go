package storefront

import "time"

// Config represents the configuration for the storefront API client
type Config struct {
	// BaseURL is the storefront API origin, e.g. https://cp.vellalasercare.com
	BaseURL string

	// Timeout bounds every request; zero means 30s.
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	return nil
}
