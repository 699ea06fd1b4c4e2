package config

import (
	"fmt"
	"net/url"
	"os"
)

const (
	// EnvStorageBasePath overrides the storage base path.
	EnvStorageBasePath = "STORAGE_BASE_PATH"

	// EnvStoragePublicBaseURL overrides the public URL prefix for stored objects.
	EnvStoragePublicBaseURL = "STORAGE_PUBLIC_BASE_URL"
)

// StorageConfig contains object storage configuration.
type StorageConfig struct {
	// BasePath is the root directory for filesystem storage.
	// Default: ".data/objects"
	BasePath string `toml:"base_path"`

	// PublicBaseURL is the URL prefix under which stored objects are
	// publicly reachable. Default: "http://localhost:8080/files"
	PublicBaseURL string `toml:"public_base_url"`
}

// Finalize applies defaults, loads environment overrides, and validates
// the storage configuration.
func (c *StorageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.PublicBaseURL != "" {
		c.PublicBaseURL = overlay.PublicBaseURL
	}
}

func (c *StorageConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/objects"
	}
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = "http://localhost:8080/files"
	}
}

func (c *StorageConfig) loadEnv() {
	if v := os.Getenv(EnvStorageBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvStoragePublicBaseURL); v != "" {
		c.PublicBaseURL = v
	}
}

func (c *StorageConfig) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}
	if _, err := url.Parse(c.PublicBaseURL); err != nil {
		return fmt.Errorf("invalid public_base_url: %w", err)
	}
	return nil
}
