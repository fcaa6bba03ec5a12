package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"blindtest/internal/audio"
	"blindtest/internal/catalog"
	"blindtest/internal/config"
	"blindtest/internal/fileutil"
	"blindtest/internal/history"
	"blindtest/internal/logging"
	"blindtest/internal/services"
	"blindtest/internal/services/youtube"
	"blindtest/internal/timeline"
)

// ErrAborted reports that the operator declined to run an over-length test.
var ErrAborted = errors.New("generation aborted")

// ErrAlreadyRunning reports that another generation holds the run lock.
var ErrAlreadyRunning = errors.New("another generation is already running")

// GenerateOptions are the per-run knobs layered over the configuration.
type GenerateOptions struct {
	TrackCount  int // 0 uses the configured default
	Upload      bool
	Title       string
	Description string
}

// RunResult summarizes a finished generation.
type RunResult struct {
	RunID     string
	AudioPath string
	VideoPath string
	VideoID   string
	Tracks    []audio.TrackResult
	Duration  float64
}

// Generator drives a full run: pick tracks, assemble audio, render video,
// record history, optionally upload.
type Generator struct {
	cfg          *config.Config
	source       TrackSource
	newAssembler AssemblerFactory
	newRenderer  RendererFactory
	publisher    Publisher
	recorder     Recorder
	confirmer    Confirmer
	logger       *slog.Logger
	now          func() time.Time
	tempRoot     string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGeneratorLogger attaches a logger.
func WithGeneratorLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logging.NewComponentLogger(logger, "pipeline")
		}
	}
}

// WithPublisher enables uploads through the given Publisher.
func WithPublisher(publisher Publisher) GeneratorOption {
	return func(g *Generator) {
		g.publisher = publisher
	}
}

// WithClock injects the timestamp source used for artifact names.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithTempRoot overrides where per-run work directories are created.
func WithTempRoot(dir string) GeneratorOption {
	return func(g *Generator) {
		if dir != "" {
			g.tempRoot = dir
		}
	}
}

// NewGenerator wires the pipeline's collaborators together.
func NewGenerator(
	cfg *config.Config,
	source TrackSource,
	newAssembler AssemblerFactory,
	newRenderer RendererFactory,
	recorder Recorder,
	confirmer Confirmer,
	opts ...GeneratorOption,
) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("generator requires a configuration")
	}
	if source == nil || newAssembler == nil || newRenderer == nil {
		return nil, errors.New("generator requires source, assembler, and renderer")
	}
	if recorder == nil || confirmer == nil {
		return nil, errors.New("generator requires recorder and confirmer")
	}
	g := &Generator{
		cfg:          cfg,
		source:       source,
		newAssembler: newAssembler,
		newRenderer:  newRenderer,
		recorder:     recorder,
		confirmer:    confirmer,
		logger:       logging.NewNop(),
		now:          time.Now,
		tempRoot:     os.TempDir(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate runs the full pipeline and returns the produced artifacts. The
// work directory is removed on every exit path.
func (g *Generator) Generate(ctx context.Context, opts GenerateOptions) (*RunResult, error) {
	trackCount := opts.TrackCount
	if trackCount <= 0 {
		trackCount = g.cfg.Test.TrackCount
	}
	tlOpts := g.timelineOptions()

	if err := g.confirmDuration(trackCount, tlOpts); err != nil {
		return nil, err
	}

	lock := flock.New(g.cfg.LockFilePath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	workDir := filepath.Join(g.tempRoot, "blindtest-"+runID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	logger := g.logger.With(logging.String(logging.FieldRunID, runID))
	logger.Info("generation started", logging.Int("tracks", trackCount))

	tracks, err := g.source.RandomTracks(ctx, trackCount)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "pipeline", "fetch",
			"no playable tracks found", nil)
	}

	historyID, err := g.recorder.Begin(ctx, runID, trackRecords(tracks, nil))
	if err != nil {
		return nil, err
	}
	fail := func(stage string, err error) (*RunResult, error) {
		logger.Error("generation failed", logging.String(logging.FieldStage, stage), logging.Error(err))
		if recordErr := g.recorder.Fail(ctx, historyID, err.Error()); recordErr != nil {
			logger.Error("record failure", logging.Error(recordErr))
		}
		return nil, err
	}

	assembler, err := g.newAssembler(filepath.Join(workDir, "audio"))
	if err != nil {
		return fail("assemble", err)
	}
	assembled, err := assembler.Assemble(ctx, tracks, audio.Options{
		SnippetSeconds: g.cfg.Test.SnippetSeconds,
		PauseSeconds:   g.cfg.Test.PauseSeconds,
		IntroSeconds:   g.cfg.Test.IntroSeconds,
		FadeSeconds:    g.cfg.Test.FadeSeconds,
	})
	if err != nil {
		return fail("assemble", err)
	}
	processed := assembled.ProcessedTracks()
	if len(processed) == 0 {
		return fail("assemble", services.Wrap(services.ErrValidation, "pipeline", "assemble",
			"no tracks could be processed", nil))
	}
	if len(processed) < len(tracks) {
		logger.Warn("some tracks skipped",
			logging.Int("requested", len(tracks)),
			logging.Int("processed", len(processed)),
		)
		skipped := make(map[int64]bool, len(assembled.Results))
		for _, tr := range assembled.Results {
			if !tr.Succeeded() {
				skipped[tr.Track.ID] = true
			}
		}
		if err := g.recorder.UpdateTracks(ctx, historyID, trackRecords(tracks, skipped)); err != nil {
			logger.Error("record skipped tracks", logging.Error(err))
		}
	}

	stagedAudio := filepath.Join(workDir, "blind_test_audio.wav")
	if err := assembler.Export(ctx, assembled, stagedAudio); err != nil {
		return fail("export", err)
	}

	tl, err := timeline.Build(len(processed), tlOpts)
	if err != nil {
		return fail("render", err)
	}
	renderer, err := g.newRenderer(filepath.Join(workDir, "video"))
	if err != nil {
		return fail("render", err)
	}
	stagedVideo := filepath.Join(workDir, "blind_test_video.mp4")
	if err := renderer.Render(ctx, processed, tl, stagedAudio, stagedVideo); err != nil {
		return fail("render", err)
	}

	audioPath, videoPath, err := g.publish(stagedAudio, stagedVideo)
	if err != nil {
		return fail("publish", err)
	}
	if err := g.recorder.Complete(ctx, historyID, audioPath, videoPath); err != nil {
		return fail("record", err)
	}

	result := &RunResult{
		RunID:     runID,
		AudioPath: audioPath,
		VideoPath: videoPath,
		Tracks:    assembled.Results,
		Duration:  tl.Total(),
	}
	logger.Info("generation complete",
		logging.String("audio", audioPath),
		logging.String("video", videoPath),
		logging.Float64("duration", result.Duration),
	)

	if opts.Upload {
		videoID, err := g.upload(ctx, videoPath, processed, opts)
		if err != nil {
			return result, err
		}
		result.VideoID = videoID
		if err := g.recorder.RecordUpload(ctx, historyID, videoID); err != nil {
			logger.Error("record upload", logging.Error(err))
		}
	}
	return result, nil
}

// confirmDuration warns when the estimated video exceeds the short-form
// threshold and asks the operator before continuing.
func (g *Generator) confirmDuration(trackCount int, tlOpts timeline.Options) error {
	estimate := timeline.Estimate(trackCount, tlOpts)
	threshold := g.cfg.Test.ShortFormThreshold
	if estimate <= threshold {
		return nil
	}

	g.logger.Warn("estimated duration exceeds short-form limit",
		logging.Float64("estimate", estimate),
		logging.Float64("threshold", threshold),
	)
	ok, err := g.confirmer.Confirm(fmt.Sprintf(
		"Estimated duration %.0fs exceeds the %.0fs short-form limit. Continue?",
		estimate, threshold))
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// publish moves the staged artifacts into the output directory under
// timestamped names, only after both exist.
func (g *Generator) publish(stagedAudio, stagedVideo string) (string, string, error) {
	if err := os.MkdirAll(g.cfg.Paths.OutputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output directory: %w", err)
	}
	ts := g.now()
	audioPath := filepath.Join(g.cfg.Paths.OutputDir, fileutil.TimestampedName("blind_test_audio", "wav", ts))
	videoPath := filepath.Join(g.cfg.Paths.OutputDir, fileutil.TimestampedName("blind_test_video", "mp4", ts))

	if err := fileutil.CopyFileVerified(stagedAudio, audioPath); err != nil {
		return "", "", fmt.Errorf("publish audio: %w", err)
	}
	if err := fileutil.CopyFileVerified(stagedVideo, videoPath); err != nil {
		return "", "", fmt.Errorf("publish video: %w", err)
	}
	return audioPath, videoPath, nil
}

func (g *Generator) upload(ctx context.Context, videoPath string, tracks []catalog.Track, opts GenerateOptions) (string, error) {
	if g.publisher == nil {
		return "", services.Wrap(services.ErrConfiguration, "pipeline", "upload",
			"upload requested but no publisher configured", nil)
	}
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("Music Blind Test - %s", g.now().Format("2006-01-02"))
	}
	description := opts.Description
	if description == "" {
		description = defaultDescription(tracks)
	}
	return g.publisher.Upload(ctx, videoPath, youtube.Metadata{
		Title:         title,
		Description:   description,
		Tags:          g.cfg.YouTube.Tags,
		CategoryID:    g.cfg.YouTube.CategoryID,
		PrivacyStatus: g.cfg.YouTube.PrivacyStatus,
	})
}

// defaultDescription lists the answers in play order.
func defaultDescription(tracks []catalog.Track) string {
	description := "Guess the songs!\n\nAnswers:\n"
	for i, track := range tracks {
		description += fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Name)
	}
	return description
}

func (g *Generator) timelineOptions() timeline.Options {
	return timeline.Options{
		SnippetSeconds: g.cfg.Test.SnippetSeconds,
		PauseSeconds:   g.cfg.Test.PauseSeconds,
		IntroSeconds:   g.cfg.Test.IntroSeconds,
		OutroSeconds:   g.cfg.Test.OutroSeconds,
		AnswerSeconds:  g.cfg.Test.AnswerSeconds,
	}
}

func trackRecords(tracks []catalog.Track, skipped map[int64]bool) []history.TrackRecord {
	records := make([]history.TrackRecord, 0, len(tracks))
	for _, track := range tracks {
		records = append(records, history.TrackRecord{
			ID:      track.ID,
			Name:    track.Name,
			Artist:  track.Artist,
			Genre:   track.Genre,
			Skipped: skipped[track.ID],
		})
	}
	return records
}
