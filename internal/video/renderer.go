package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"blindtest/internal/audio"
	"blindtest/internal/catalog"
	"blindtest/internal/logging"
	"blindtest/internal/media/ffmpeg"
	"blindtest/internal/services"
	"blindtest/internal/timeline"
)

// Renderer composites the blind-test video: one clip per timeline segment,
// concatenated, with the assembled audio attached.
type Renderer struct {
	runner     ffmpeg.Runner
	downloader audio.Downloader
	logger     *slog.Logger
	workDir    string
	width      int
	height     int
	fps        int
	fontFile   string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithRendererLogger attaches a logger.
func WithRendererLogger(logger *slog.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logging.NewComponentLogger(logger, "video")
		}
	}
}

// WithDimensions overrides the default 1080x1920 vertical frame.
func WithDimensions(width, height int) RendererOption {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width = width
			r.height = height
		}
	}
}

// WithFPS overrides the default frame rate.
func WithFPS(fps int) RendererOption {
	return func(r *Renderer) {
		if fps > 0 {
			r.fps = fps
		}
	}
}

// WithFontFile sets the caption font. Empty keeps ffmpeg's default.
func WithFontFile(path string) RendererOption {
	return func(r *Renderer) {
		r.fontFile = strings.TrimSpace(path)
	}
}

// NewRenderer builds a Renderer that stages segment clips inside workDir.
func NewRenderer(workDir string, runner ffmpeg.Runner, downloader audio.Downloader, opts ...RendererOption) (*Renderer, error) {
	if strings.TrimSpace(workDir) == "" {
		return nil, errors.New("video work directory required")
	}
	if runner == nil || downloader == nil {
		return nil, errors.New("renderer requires runner and downloader")
	}
	r := &Renderer{
		runner:     runner,
		downloader: downloader,
		logger:     logging.NewNop(),
		workDir:    workDir,
		width:      1080,
		height:     1920,
		fps:        24,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render builds every segment of tl, concatenates them, attaches audioPath
// trimmed to the video's length, and writes the encoded result to outPath.
// Any composition or encoding failure is returned as an error for the
// orchestrator to report; nothing panics or propagates beyond this call.
func (r *Renderer) Render(ctx context.Context, tracks []catalog.Track, tl timeline.Timeline, audioPath, outPath string) error {
	if len(tl) == 0 {
		return services.Wrap(services.ErrValidation, "video", "render", "empty timeline", nil)
	}
	if err := os.MkdirAll(r.workDir, 0o755); err != nil {
		return fmt.Errorf("create video work directory: %w", err)
	}

	segmentFiles := make([]string, 0, len(tl))
	for i, segment := range tl {
		dest := filepath.Join(r.workDir, fmt.Sprintf("seg_%03d.mp4", i))
		if err := r.renderSegment(ctx, segment, tracks, dest); err != nil {
			return services.Wrap(services.ErrExternalTool, "video", string(segment.Kind),
				fmt.Sprintf("segment %d", i), err)
		}
		segmentFiles = append(segmentFiles, dest)
	}

	silent := filepath.Join(r.workDir, "silent.mp4")
	if err := r.concat(ctx, segmentFiles, silent); err != nil {
		return services.Wrap(services.ErrExternalTool, "video", "concat", "", err)
	}

	if err := r.mux(ctx, silent, audioPath, tl.Total(), outPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "video", "mux", "", err)
	}

	r.logger.Info("video rendered",
		logging.String("path", outPath),
		logging.Int("segments", len(segmentFiles)),
		logging.Float64("duration", tl.Total()),
	)
	return nil
}

func (r *Renderer) renderSegment(ctx context.Context, segment timeline.Segment, tracks []catalog.Track, dest string) error {
	switch segment.Kind {
	case timeline.KindIntro:
		return r.runner.Run(ctx, r.introArgs(segment.Duration, dest)...)
	case timeline.KindPreRoll:
		return r.runner.Run(ctx, r.prerollArgs(segment.TrackIndex, segment.Duration, dest)...)
	case timeline.KindPlaying:
		return r.runner.Run(ctx, r.playingArgs(segment.TrackIndex, segment.Duration, dest)...)
	case timeline.KindAnswer:
		track, err := trackAt(tracks, segment.TrackIndex)
		if err != nil {
			return err
		}
		cover := r.fetchArtwork(ctx, track, segment.TrackIndex)
		return r.runner.Run(ctx, r.answerArgs(track, segment.Duration, cover, dest)...)
	case timeline.KindOutro:
		return r.runner.Run(ctx, r.outroArgs(segment.Duration, dest)...)
	default:
		return fmt.Errorf("unknown segment kind %q", segment.Kind)
	}
}

// fetchArtwork downloads cover art for the answer reveal. A failed or
// missing download degrades to a text-only reveal rather than failing the
// render.
func (r *Renderer) fetchArtwork(ctx context.Context, track catalog.Track, trackNumber int) string {
	if track.ArtworkURL == "" {
		return ""
	}
	dest := filepath.Join(r.workDir, fmt.Sprintf("cover_%d.jpg", trackNumber))
	if err := r.downloader.Fetch(ctx, track.ArtworkURL, dest); err != nil {
		r.logger.Warn("artwork download failed",
			logging.Int(logging.FieldTrackIndex, trackNumber),
			logging.Error(err),
		)
		return ""
	}
	return dest
}

func (r *Renderer) concat(ctx context.Context, segments []string, dest string) error {
	listPath := filepath.Join(r.workDir, "concat.txt")
	var list strings.Builder
	for _, segment := range segments {
		fmt.Fprintf(&list, "file '%s'\n", segment)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return r.runner.Run(ctx,
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-c", "copy",
		dest,
	)
}

// mux attaches the audio stream, padded with silence if it runs short and
// cut at the video's total duration. Video length is authoritative.
func (r *Renderer) mux(ctx context.Context, videoPath, audioPath string, videoSeconds float64, dest string) error {
	return r.runner.Run(ctx,
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v", "-map", "1:a",
		"-c:v", "copy",
		"-af", "apad",
		"-c:a", "aac",
		"-t", seconds(videoSeconds),
		dest,
	)
}

func trackAt(tracks []catalog.Track, number int) (catalog.Track, error) {
	if number < 1 || number > len(tracks) {
		return catalog.Track{}, fmt.Errorf("track number %d out of range (have %d)", number, len(tracks))
	}
	return tracks[number-1], nil
}
