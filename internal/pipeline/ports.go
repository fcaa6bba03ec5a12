package pipeline

import (
	"context"

	"blindtest/internal/audio"
	"blindtest/internal/catalog"
	"blindtest/internal/history"
	"blindtest/internal/services/youtube"
	"blindtest/internal/timeline"
)

// TrackSource picks the random tracks for a run. *catalog.Client is the
// production implementation.
type TrackSource interface {
	RandomTracks(ctx context.Context, count int) ([]catalog.Track, error)
}

// AudioAssembler builds and exports the faded snippet sequence.
type AudioAssembler interface {
	Assemble(ctx context.Context, tracks []catalog.Track, opts audio.Options) (audio.Result, error)
	Export(ctx context.Context, result audio.Result, outPath string) error
}

// VideoRenderer composes the segment video and muxes the audio in.
type VideoRenderer interface {
	Render(ctx context.Context, tracks []catalog.Track, tl timeline.Timeline, audioPath, outPath string) error
}

// AssemblerFactory builds an AudioAssembler rooted at a per-run work
// directory.
type AssemblerFactory func(workDir string) (AudioAssembler, error)

// RendererFactory builds a VideoRenderer rooted at a per-run work
// directory.
type RendererFactory func(workDir string) (VideoRenderer, error)

// Publisher uploads a finished video and returns its published ID.
type Publisher interface {
	Upload(ctx context.Context, videoPath string, meta youtube.Metadata) (string, error)
}

// Recorder persists run outcomes. *history.Store is the production
// implementation.
type Recorder interface {
	Begin(ctx context.Context, runID string, tracks []history.TrackRecord) (int64, error)
	UpdateTracks(ctx context.Context, id int64, tracks []history.TrackRecord) error
	Complete(ctx context.Context, id int64, audioPath, videoPath string) error
	RecordUpload(ctx context.Context, id int64, videoID string) error
	Fail(ctx context.Context, id int64, reason string) error
}

// Confirmer asks the operator to approve a run that exceeds the short-form
// duration limit. Non-interactive implementations refuse rather than hang.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}
