package config

import "fmt"

// PaginationConfig holds history-listing pagination bounds (§4.D list_history).
type PaginationConfig struct {
	DefaultPageSize int `env:"APP_DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `env:"APP_MAX_PAGE_SIZE"`
}

// Validate applies defaults and enforces DefaultPageSize <= MaxPageSize.
func (c *PaginationConfig) Validate() error {
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = 50
	}
	if c.MaxPageSize == 0 {
		c.MaxPageSize = 100
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("APP_MAX_PAGE_SIZE (%d) must be >= APP_DEFAULT_PAGE_SIZE (%d)", c.MaxPageSize, c.DefaultPageSize)
	}
	return nil
}
