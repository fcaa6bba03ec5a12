package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	if err := c.normalizeYouTube(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	c.Catalog.Country = strings.ToUpper(strings.TrimSpace(c.Catalog.Country))
	if c.Catalog.Country == "" {
		c.Catalog.Country = defaultCatalogCountry
	}
	c.Catalog.Media = strings.ToLower(strings.TrimSpace(c.Catalog.Media))
	if c.Catalog.Media == "" {
		c.Catalog.Media = defaultCatalogMedia
	}
	c.Catalog.Entity = strings.ToLower(strings.TrimSpace(c.Catalog.Entity))
	if c.Catalog.Entity == "" {
		c.Catalog.Entity = defaultCatalogEntity
	}
	c.Catalog.Genres = trimmedNonEmpty(c.Catalog.Genres)
	if len(c.Catalog.Genres) == 0 {
		c.Catalog.Genres = defaultGenres()
	}
	c.Catalog.FallbackTerms = trimmedNonEmpty(c.Catalog.FallbackTerms)
	if len(c.Catalog.FallbackTerms) == 0 {
		c.Catalog.FallbackTerms = defaultFallbackTerms()
	}
}

func (c *Config) normalizeYouTube() error {
	c.YouTube.ClientSecretsFile = strings.TrimSpace(c.YouTube.ClientSecretsFile)
	if c.YouTube.ClientSecretsFile == "" {
		if value, ok := os.LookupEnv("BLINDTEST_CLIENT_SECRETS"); ok {
			c.YouTube.ClientSecretsFile = strings.TrimSpace(value)
		} else {
			c.YouTube.ClientSecretsFile = defaultClientSecretsFile
		}
	}
	var err error
	if c.YouTube.ClientSecretsFile, err = expandPath(c.YouTube.ClientSecretsFile); err != nil {
		return fmt.Errorf("youtube.client_secrets_file: %w", err)
	}
	c.YouTube.TokenFile = strings.TrimSpace(c.YouTube.TokenFile)
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = defaultTokenFile
	}
	if c.YouTube.TokenFile, err = expandPath(c.YouTube.TokenFile); err != nil {
		return fmt.Errorf("youtube.token_file: %w", err)
	}
	c.YouTube.CategoryID = strings.TrimSpace(c.YouTube.CategoryID)
	if c.YouTube.CategoryID == "" {
		c.YouTube.CategoryID = defaultCategoryID
	}
	c.YouTube.PrivacyStatus = strings.ToLower(strings.TrimSpace(c.YouTube.PrivacyStatus))
	if c.YouTube.PrivacyStatus == "" {
		c.YouTube.PrivacyStatus = defaultPrivacyStatus
	}
	c.YouTube.Tags = trimmedNonEmpty(c.YouTube.Tags)
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimmedNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
