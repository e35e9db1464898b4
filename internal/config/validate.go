package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("upload.max_bytes must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q (set %s or edit the config file)", c.API.BaseURL, EnvAPIURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("api.base_url is missing a host: %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return errors.New("api.timeout_seconds must be positive")
	}
	if c.API.RequestsPerSecond < 0 {
		return errors.New("api.requests_per_second must be >= 0 (0 disables limiting)")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.FreshSeconds < 0 {
		return errors.New("cache.fresh_seconds must be >= 0")
	}
	if c.Cache.MaxEntries <= 0 {
		return errors.New("cache.max_entries must be positive")
	}
	if c.Cache.QueryRetries < 0 {
		return errors.New("cache.query_retries must be >= 0")
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.DebounceMillis < 0 {
		return errors.New("search.debounce_millis must be >= 0")
	}
	if c.Search.PageSize <= 0 || c.Search.PageSize > maxSearchPageSize {
		return fmt.Errorf("search.page_size must be between 1 and %d", maxSearchPageSize)
	}
	return nil
}

func (c *Config) validateGeneration() error {
	if c.Generation.DefaultPages <= 0 {
		return errors.New("generation.default_pages must be positive")
	}
	if c.Generation.DefaultCards <= 0 || c.Generation.DefaultCards > maxGenerationCards {
		return fmt.Errorf("generation.default_cards must be between 1 and %d", maxGenerationCards)
	}
	return nil
}
