package config

import (
	"fmt"
	"time"
)

// ConsoleConfig contains the editing-session timing configuration:
// transient status banner lifetimes and the add-mode auto return delay.
type ConsoleConfig struct {
	SuccessTTL        string `toml:"success_ttl"`
	ErrorTTL          string `toml:"error_ttl"`
	ReturnToListDelay string `toml:"return_to_list_delay"`
}

// SuccessTTLDuration parses and returns the success banner lifetime.
func (c *ConsoleConfig) SuccessTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SuccessTTL)
	return d
}

// ErrorTTLDuration parses and returns the error banner lifetime.
func (c *ConsoleConfig) ErrorTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.ErrorTTL)
	return d
}

// ReturnToListDelayDuration parses and returns the add-mode return delay.
func (c *ConsoleConfig) ReturnToListDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReturnToListDelay)
	return d
}

// Finalize applies defaults and validates the console configuration.
func (c *ConsoleConfig) Finalize() error {
	if c.SuccessTTL == "" {
		c.SuccessTTL = "5s"
	}
	if c.ErrorTTL == "" {
		c.ErrorTTL = "4s"
	}
	if c.ReturnToListDelay == "" {
		c.ReturnToListDelay = "1500ms"
	}

	for name, value := range map[string]string{
		"success_ttl":          c.SuccessTTL,
		"error_ttl":            c.ErrorTTL,
		"return_to_list_delay": c.ReturnToListDelay,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ConsoleConfig) Merge(overlay *ConsoleConfig) {
	if overlay.SuccessTTL != "" {
		c.SuccessTTL = overlay.SuccessTTL
	}
	if overlay.ErrorTTL != "" {
		c.ErrorTTL = overlay.ErrorTTL
	}
	if overlay.ReturnToListDelay != "" {
		c.ReturnToListDelay = overlay.ReturnToListDelay
	}
}
