package config

const (
	defaultOutputDir          = "~/blindtest"
	defaultStateDir           = "~/.local/share/blindtest"
	defaultLogDir             = "~/.local/share/blindtest/logs"
	defaultCatalogBaseURL     = "https://itunes.apple.com/search"
	defaultCatalogCountry     = "US"
	defaultCatalogMedia       = "music"
	defaultCatalogEntity      = "song"
	defaultCatalogTimeout     = 30
	defaultTrackCount         = 5
	defaultSnippetSeconds     = 15
	defaultPauseSeconds       = 2
	defaultIntroSeconds       = 1
	defaultOutroSeconds       = 3
	defaultAnswerSeconds      = 4
	defaultFadeSeconds        = 2
	defaultShortFormThreshold = 60
	defaultVideoWidth         = 1080
	defaultVideoHeight        = 1920
	defaultVideoFPS           = 24
	defaultClientSecretsFile  = "~/.config/blindtest/client_secret.json"
	defaultTokenFile          = "~/.config/blindtest/youtube-oauth2.json"
	defaultCategoryID         = "22"
	defaultPrivacyStatus      = "public"
	defaultChunkSizeMiB       = 8
	defaultUploadMaxRetries   = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

func defaultGenres() []string {
	return []string{
		"pop", "rock", "hip-hop", "electronic", "jazz",
		"classical", "country", "reggae", "funk", "blues",
		"indie", "alternative", "dance", "r&b", "folk",
	}
}

func defaultFallbackTerms() []string {
	return []string{"love", "heart", "night", "time", "world", "life", "home"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Catalog: Catalog{
			BaseURL:        defaultCatalogBaseURL,
			Country:        defaultCatalogCountry,
			Media:          defaultCatalogMedia,
			Entity:         defaultCatalogEntity,
			RequestTimeout: defaultCatalogTimeout,
			Genres:         defaultGenres(),
			FallbackTerms:  defaultFallbackTerms(),
		},
		Test: Test{
			TrackCount:         defaultTrackCount,
			SnippetSeconds:     defaultSnippetSeconds,
			PauseSeconds:       defaultPauseSeconds,
			IntroSeconds:       defaultIntroSeconds,
			OutroSeconds:       defaultOutroSeconds,
			AnswerSeconds:      defaultAnswerSeconds,
			FadeSeconds:        defaultFadeSeconds,
			ShortFormThreshold: defaultShortFormThreshold,
		},
		Video: Video{
			Width:  defaultVideoWidth,
			Height: defaultVideoHeight,
			FPS:    defaultVideoFPS,
		},
		YouTube: YouTube{
			ClientSecretsFile: defaultClientSecretsFile,
			TokenFile:         defaultTokenFile,
			CategoryID:        defaultCategoryID,
			PrivacyStatus:     defaultPrivacyStatus,
			ChunkSizeMiB:      defaultChunkSizeMiB,
			MaxRetries:        defaultUploadMaxRetries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
