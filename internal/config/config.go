package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Catalog contains configuration for the iTunes Search API.
type Catalog struct {
	BaseURL        string   `toml:"base_url"`
	Country        string   `toml:"country"`
	Media          string   `toml:"media"`
	Entity         string   `toml:"entity"`
	RequestTimeout int      `toml:"request_timeout"`
	Genres         []string `toml:"genres"`
	FallbackTerms  []string `toml:"fallback_terms"`
}

// Test contains the blind-test timing and sizing knobs. All durations are
// seconds.
type Test struct {
	TrackCount         int     `toml:"track_count"`
	SnippetSeconds     float64 `toml:"snippet_seconds"`
	PauseSeconds       float64 `toml:"pause_seconds"`
	IntroSeconds       float64 `toml:"intro_seconds"`
	OutroSeconds       float64 `toml:"outro_seconds"`
	AnswerSeconds      float64 `toml:"answer_seconds"`
	FadeSeconds        float64 `toml:"fade_seconds"`
	ShortFormThreshold float64 `toml:"short_form_threshold"`
}

// Video contains output encoding configuration.
type Video struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	FPS      int    `toml:"fps"`
	FontFile string `toml:"font_file"`
}

// YouTube contains configuration for the upload client.
type YouTube struct {
	ClientSecretsFile string   `toml:"client_secrets_file"`
	TokenFile         string   `toml:"token_file"`
	CategoryID        string   `toml:"category_id"`
	PrivacyStatus     string   `toml:"privacy_status"`
	Tags              []string `toml:"tags"`
	ChunkSizeMiB      int      `toml:"chunk_size_mib"`
	MaxRetries        int      `toml:"max_retries"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for blindtest.
//
// Configuration sections by subsystem:
//   - Paths: output, state, and log directories
//   - Catalog: iTunes Search API endpoint and search pools
//   - Test: snippet/pause/intro/outro/answer timing
//   - Video: output dimensions, frame rate, caption font
//   - YouTube: OAuth client secrets, token file, upload defaults
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Catalog Catalog `toml:"catalog"`
	Test    Test    `toml:"test"`
	Video   Video   `toml:"video"`
	YouTube YouTube `toml:"youtube"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/blindtest/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("blindtest.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a generation run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for audio and video work.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// HistoryDBPath returns the location of the run-history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockFilePath returns the location of the single-run lock file.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.StateDir, "blindtest.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
