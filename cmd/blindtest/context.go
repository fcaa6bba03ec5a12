package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"blindtest/internal/audio"
	"blindtest/internal/catalog"
	"blindtest/internal/config"
	"blindtest/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// catalogClient wires the iTunes search client from configuration.
func (c *commandContext) catalogClient() (*catalog.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return catalog.New(
		cfg.Catalog.BaseURL,
		cfg.Catalog.Country,
		cfg.Catalog.Media,
		cfg.Catalog.Entity,
		catalog.WithLogger(logger),
		catalog.WithGenres(cfg.Catalog.Genres),
		catalog.WithFallbackTerms(cfg.Catalog.FallbackTerms),
	)
}

func (c *commandContext) downloader() (*audio.HTTPDownloader, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	opts := []audio.DownloaderOption{
		audio.WithDownloaderLogger(logger),
		audio.WithProgressBar(true),
	}
	if cfg.Catalog.RequestTimeout > 0 {
		opts = append(opts, audio.WithDownloadTimeout(time.Duration(cfg.Catalog.RequestTimeout)*time.Second))
	}
	return audio.NewHTTPDownloader(opts...), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
