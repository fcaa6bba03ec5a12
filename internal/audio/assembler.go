package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"blindtest/internal/catalog"
	"blindtest/internal/logging"
	"blindtest/internal/media/ffmpeg"
	"blindtest/internal/services"
)

// Prober reports the duration of a local media file.
type Prober interface {
	DurationSeconds(ctx context.Context, path string) (float64, error)
}

// Options carries the timing inputs for one assembly run. All values are
// seconds.
type Options struct {
	SnippetSeconds float64
	PauseSeconds   float64
	IntroSeconds   float64
	FadeSeconds    float64
}

// TrackResult records the outcome for one input track: either the path of
// its processed snippet or the reason it was skipped.
type TrackResult struct {
	Track       catalog.Track
	SnippetPath string
	Err         error
}

// Succeeded reports whether the track made it into the final audio.
func (r TrackResult) Succeeded() bool { return r.Err == nil }

// Result is the output of Assemble: the ordered segment files ready for
// concatenation and the per-track outcomes.
type Result struct {
	Segments []string
	Results  []TrackResult
}

// ProcessedTracks returns the tracks that produced a snippet, in input order.
func (r Result) ProcessedTracks() []catalog.Track {
	tracks := make([]catalog.Track, 0, len(r.Results))
	for _, result := range r.Results {
		if result.Succeeded() {
			tracks = append(tracks, result.Track)
		}
	}
	return tracks
}

// Assembler downloads previews, cuts faded snippets, and stitches them into
// one continuous audio stream.
type Assembler struct {
	downloader Downloader
	runner     ffmpeg.Runner
	prober     Prober
	logger     *slog.Logger
	rng        *rand.Rand
	workDir    string
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithAssemblerLogger attaches a logger.
func WithAssemblerLogger(logger *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logging.NewComponentLogger(logger, "audio")
		}
	}
}

// WithAssemblerRand overrides the random source used for snippet offsets.
func WithAssemblerRand(rng *rand.Rand) AssemblerOption {
	return func(a *Assembler) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// NewAssembler builds an Assembler that works inside workDir.
func NewAssembler(workDir string, downloader Downloader, runner ffmpeg.Runner, prober Prober, opts ...AssemblerOption) (*Assembler, error) {
	if strings.TrimSpace(workDir) == "" {
		return nil, errors.New("audio work directory required")
	}
	if downloader == nil || runner == nil || prober == nil {
		return nil, errors.New("assembler requires downloader, runner, and prober")
	}
	a := &Assembler{
		downloader: downloader,
		runner:     runner,
		prober:     prober,
		logger:     logging.NewNop(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		workDir:    workDir,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Assemble processes tracks in order. A track that fails to download or
// process is skipped entirely (no silence, no snippet) and recorded with its
// failure reason; the remaining tracks shift up with relative order intact.
// Zero successes yields an empty segment list, which is a valid outcome.
func (a *Assembler) Assemble(ctx context.Context, tracks []catalog.Track, opts Options) (Result, error) {
	if err := os.MkdirAll(a.workDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create audio work directory: %w", err)
	}

	result := Result{Results: make([]TrackResult, 0, len(tracks))}
	for i, track := range tracks {
		a.logger.Info("processing track",
			logging.Int(logging.FieldTrackIndex, i+1),
			logging.Int64(logging.FieldTrackID, track.ID),
			logging.String("artist", track.Artist),
			logging.String("title", track.Name),
		)

		snippet, err := a.prepareSnippet(ctx, i, track, opts)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			a.logger.Warn("track skipped",
				logging.Int(logging.FieldTrackIndex, i+1),
				logging.Int64(logging.FieldTrackID, track.ID),
				logging.Error(err),
			)
			result.Results = append(result.Results, TrackResult{Track: track, Err: err})
			continue
		}

		if len(result.Segments) == 0 && opts.IntroSeconds > 0 {
			intro, err := a.silence(ctx, opts.IntroSeconds)
			if err != nil {
				return Result{}, err
			}
			result.Segments = append(result.Segments, intro)
		}
		if opts.PauseSeconds > 0 {
			pause, err := a.silence(ctx, opts.PauseSeconds)
			if err != nil {
				return Result{}, err
			}
			result.Segments = append(result.Segments, pause)
		}
		result.Segments = append(result.Segments, snippet)
		result.Results = append(result.Results, TrackResult{Track: track, SnippetPath: snippet})
	}

	if len(result.Segments) == 0 {
		a.logger.Warn("no audio segments created")
	}
	return result, nil
}

// Export concatenates the assembled segments into a WAV file at outPath.
func (a *Assembler) Export(ctx context.Context, result Result, outPath string) error {
	if len(result.Segments) == 0 {
		return services.Wrap(services.ErrValidation, "audio", "export", "no segments to export", nil)
	}

	listPath := filepath.Join(a.workDir, "concat.txt")
	var list strings.Builder
	for _, segment := range result.Segments {
		fmt.Fprintf(&list, "file '%s'\n", segment)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	err := a.runner.Run(ctx,
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-c", "copy",
		outPath,
	)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "audio", "export", "concatenate segments", err)
	}
	a.logger.Info("audio exported", logging.String("path", outPath), logging.Int("segments", len(result.Segments)))
	return nil
}

func (a *Assembler) prepareSnippet(ctx context.Context, index int, track catalog.Track, opts Options) (string, error) {
	source := filepath.Join(a.workDir, fmt.Sprintf("track_%d_%d.m4a", index+1, track.ID))
	if err := a.downloader.Fetch(ctx, track.PreviewURL, source); err != nil {
		return "", services.Wrap(services.ErrTransient, "audio", "download", track.PreviewURL, err)
	}

	length, err := a.prober.DurationSeconds(ctx, source)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "audio", "probe", source, err)
	}

	start := SnippetStart(length, opts.SnippetSeconds, a.rng)
	dest := filepath.Join(a.workDir, fmt.Sprintf("snippet_%d.wav", index+1))
	if err := a.processSnippet(ctx, source, dest, start, opts); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "audio", "process", source, err)
	}
	return dest, nil
}

// processSnippet extracts the window, normalizes loudness, and applies the
// fade envelope in one ffmpeg pass.
func (a *Assembler) processSnippet(ctx context.Context, source, dest string, start float64, opts Options) error {
	filters := []string{"loudnorm"}
	if opts.FadeSeconds > 0 {
		fadeOutStart := opts.SnippetSeconds - opts.FadeSeconds
		filters = append(filters,
			fmt.Sprintf("afade=t=in:st=0:d=%s", seconds(opts.FadeSeconds)),
			fmt.Sprintf("afade=t=out:st=%s:d=%s", seconds(fadeOutStart), seconds(opts.FadeSeconds)),
		)
	}

	return a.runner.Run(ctx,
		"-ss", seconds(start),
		"-t", seconds(opts.SnippetSeconds),
		"-i", source,
		"-af", strings.Join(filters, ","),
		"-ar", "44100", "-ac", "2",
		dest,
	)
}

// silence renders (and caches) a silent WAV of the given duration.
func (a *Assembler) silence(ctx context.Context, duration float64) (string, error) {
	path := filepath.Join(a.workDir, fmt.Sprintf("silence_%s.wav", seconds(duration)))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	err := a.runner.Run(ctx,
		"-f", "lavfi",
		"-i", "anullsrc=r=44100:cl=stereo",
		"-t", seconds(duration),
		path,
	)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "audio", "silence", "", err)
	}
	return path, nil
}

func seconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
