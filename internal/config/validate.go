package config

import (
	"errors"
	"fmt"
)

var validPrivacyStatuses = map[string]struct{}{
	"public":   {},
	"private":  {},
	"unlisted": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateTest(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.RequestTimeout <= 0 {
		return errors.New("catalog.request_timeout must be positive (seconds)")
	}
	if len(c.Catalog.Genres) == 0 {
		return errors.New("catalog.genres must include at least one genre")
	}
	if len(c.Catalog.FallbackTerms) == 0 {
		return errors.New("catalog.fallback_terms must include at least one term")
	}
	return nil
}

func (c *Config) validateTest() error {
	if c.Test.TrackCount <= 0 {
		return errors.New("test.track_count must be positive")
	}
	if err := ensurePositiveMap(map[string]float64{
		"test.snippet_seconds":      c.Test.SnippetSeconds,
		"test.pause_seconds":        c.Test.PauseSeconds,
		"test.intro_seconds":        c.Test.IntroSeconds,
		"test.outro_seconds":        c.Test.OutroSeconds,
		"test.answer_seconds":       c.Test.AnswerSeconds,
		"test.short_form_threshold": c.Test.ShortFormThreshold,
	}); err != nil {
		return err
	}
	if c.Test.FadeSeconds < 0 {
		return errors.New("test.fade_seconds must be >= 0")
	}
	if c.Test.AnswerSeconds >= c.Test.SnippetSeconds {
		return errors.New("test.answer_seconds must be less than test.snippet_seconds")
	}
	if c.Test.FadeSeconds*2 > c.Test.SnippetSeconds {
		return errors.New("test.fade_seconds must fit twice within test.snippet_seconds")
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return errors.New("video.width and video.height must be positive")
	}
	if c.Video.Width%2 != 0 || c.Video.Height%2 != 0 {
		return errors.New("video.width and video.height must be even (H.264 requirement)")
	}
	if c.Video.FPS <= 0 {
		return errors.New("video.fps must be positive")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if _, ok := validPrivacyStatuses[c.YouTube.PrivacyStatus]; !ok {
		return fmt.Errorf("youtube.privacy_status must be one of public, private, unlisted (got %q)", c.YouTube.PrivacyStatus)
	}
	if c.YouTube.ChunkSizeMiB <= 0 {
		return errors.New("youtube.chunk_size_mib must be positive")
	}
	if c.YouTube.MaxRetries < 0 {
		return errors.New("youtube.max_retries must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]float64) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
