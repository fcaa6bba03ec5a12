package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blindtest/internal/logging"
)

// Track describes one playable song candidate. Instances are immutable once
// returned by the client; Name, Artist, and PreviewURL are always non-empty.
type Track struct {
	ID              int64
	Name            string
	Artist          string
	Album           string
	PreviewURL      string
	ArtworkURL      string
	Genre           string
	DurationSeconds int
}

// searchResponse models the iTunes Search API payload.
type searchResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []searchResult `json:"results"`
}

type searchResult struct {
	TrackID          int64  `json:"trackId"`
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	CollectionName   string `json:"collectionName"`
	PreviewURL       string `json:"previewUrl"`
	ArtworkURL100    string `json:"artworkUrl100"`
	PrimaryGenreName string `json:"primaryGenreName"`
	TrackTimeMillis  int64  `json:"trackTimeMillis"`
}

// SearchOptions contains optional parameters for a catalog search.
type SearchOptions struct {
	Limit  int
	Media  string
	Entity string
}

// Searcher defines the catalog operations the pipeline needs.
type Searcher interface {
	Search(ctx context.Context, term string, opts SearchOptions) ([]Track, error)
	RandomTracks(ctx context.Context, count int) ([]Track, error)
}

// Client queries the iTunes Search API for playable music previews.
type Client struct {
	baseURL       string
	country       string
	media         string
	entity        string
	genres        []string
	fallbackTerms []string
	httpClient    *http.Client
	logger        *slog.Logger
	rng           *rand.Rand
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for per-search diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "catalog")
		}
	}
}

// WithRand overrides the random source used for genre sampling and final
// track selection. Intended for tests.
func WithRand(rng *rand.Rand) Option {
	return func(c *Client) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithGenres replaces the default genre pool.
func WithGenres(genres []string) Option {
	return func(c *Client) {
		if len(genres) > 0 {
			c.genres = append([]string(nil), genres...)
		}
	}
}

// WithFallbackTerms replaces the default fallback search terms.
func WithFallbackTerms(terms []string) Option {
	return func(c *Client) {
		if len(terms) > 0 {
			c.fallbackTerms = append([]string(nil), terms...)
		}
	}
}

// New creates a catalog client.
func New(baseURL, country, media, entity string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		country:       strings.TrimSpace(country),
		media:         strings.TrimSpace(media),
		entity:        strings.TrimSpace(entity),
		genres:        defaultGenrePool(),
		fallbackTerms: defaultFallbackPool(),
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		logger:        logging.NewNop(),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search issues one keyword query and returns every result with a playable
// preview URL, non-empty title, and non-empty artist.
func (c *Client) Search(ctx context.Context, term string, opts SearchOptions) ([]Track, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.New("search term must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}

	media := opts.Media
	if media == "" {
		media = c.media
	}
	entity := opts.Entity
	if entity == "" {
		entity = c.entity
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("limit", strconv.Itoa(limit))
	if c.country != "" {
		params.Set("country", c.country)
	}
	if media != "" {
		params.Set("media", media)
	}
	if entity != "" {
		params.Set("entity", entity)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	tracks := make([]Track, 0, len(payload.Results))
	for _, result := range payload.Results {
		track, ok := trackFromResult(result)
		if !ok {
			continue
		}
		tracks = append(tracks, track)
	}

	c.logger.Debug("search complete",
		logging.String("term", term),
		logging.Int("results", payload.ResultCount),
		logging.Int("playable", len(tracks)),
		logging.Duration("latency", latency),
	)
	return tracks, nil
}

// RandomTracks returns up to count unique tracks drawn from randomly sampled
// genre searches, topped up from the fallback term pool when the genre pool
// comes up short. A failed individual search contributes zero tracks; fewer
// tracks than requested is a valid outcome.
func (c *Client) RandomTracks(ctx context.Context, count int) ([]Track, error) {
	if count <= 0 {
		return nil, errors.New("track count must be positive")
	}

	var pool []Track
	for _, genre := range sampleTerms(c.rng, c.genres, genreSampleSize) {
		tracks, err := c.Search(ctx, genre, SearchOptions{Limit: genreSearchLimit})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("genre search failed",
				logging.String("term", genre),
				logging.Error(err),
			)
			continue
		}
		pool = append(pool, tracks...)
	}

	// The top-up keys on the raw pool size, before dedupe. A duplicate-heavy
	// genre pool can therefore skip the fallback and still yield fewer
	// unique tracks than requested, which the caller must tolerate anyway.
	if len(pool) < count {
		for _, term := range sampleTerms(c.rng, c.fallbackTerms, fallbackSampleSize) {
			tracks, err := c.Search(ctx, term, SearchOptions{Limit: fallbackSearchLimit})
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				c.logger.Warn("fallback search failed",
					logging.String("term", term),
					logging.Error(err),
				)
				continue
			}
			pool = append(pool, tracks...)
		}
	}

	unique := dedupeByID(pool)
	selected := samplePool(c.rng, unique, count)
	c.logger.Info("random tracks selected",
		logging.Int("pool", len(unique)),
		logging.Int("requested", count),
		logging.Int("selected", len(selected)),
	)
	return selected, nil
}

func trackFromResult(result searchResult) (Track, bool) {
	name := strings.TrimSpace(result.TrackName)
	artist := strings.TrimSpace(result.ArtistName)
	preview := strings.TrimSpace(result.PreviewURL)
	if name == "" || artist == "" || preview == "" {
		return Track{}, false
	}
	duration := int(result.TrackTimeMillis / 1000)
	if result.TrackTimeMillis == 0 {
		duration = 30 // iTunes previews default to 30s clips
	}
	return Track{
		ID:              result.TrackID,
		Name:            name,
		Artist:          artist,
		Album:           strings.TrimSpace(result.CollectionName),
		PreviewURL:      preview,
		ArtworkURL:      upgradeArtwork(result.ArtworkURL100),
		Genre:           strings.TrimSpace(result.PrimaryGenreName),
		DurationSeconds: duration,
	}, true
}

// upgradeArtwork swaps the 100x100 thumbnail variant for the 600x600 one.
func upgradeArtwork(artworkURL string) string {
	return strings.Replace(strings.TrimSpace(artworkURL), "100x100", "600x600", 1)
}
