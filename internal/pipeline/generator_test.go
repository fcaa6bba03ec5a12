package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"blindtest/internal/audio"
	"blindtest/internal/catalog"
	"blindtest/internal/config"
	"blindtest/internal/history"
	"blindtest/internal/pipeline"
	"blindtest/internal/services/youtube"
	"blindtest/internal/timeline"
)

type fakeSource struct {
	tracks []catalog.Track
	err    error
}

func (s *fakeSource) RandomTracks(context.Context, int) ([]catalog.Track, error) {
	return s.tracks, s.err
}

type fakeAssembler struct {
	failIDs map[int64]error
}

func (a *fakeAssembler) Assemble(_ context.Context, tracks []catalog.Track, _ audio.Options) (audio.Result, error) {
	var result audio.Result
	for _, track := range tracks {
		if err, ok := a.failIDs[track.ID]; ok {
			result.Results = append(result.Results, audio.TrackResult{Track: track, Err: err})
			continue
		}
		result.Segments = append(result.Segments, "snippet.wav")
		result.Results = append(result.Results, audio.TrackResult{Track: track, SnippetPath: "snippet.wav"})
	}
	return result, nil
}

func (a *fakeAssembler) Export(_ context.Context, _ audio.Result, outPath string) error {
	return os.WriteFile(outPath, []byte("wav"), 0o644)
}

type fakeRenderer struct {
	rendered []timeline.Timeline
}

func (r *fakeRenderer) Render(_ context.Context, _ []catalog.Track, tl timeline.Timeline, _, outPath string) error {
	r.rendered = append(r.rendered, tl)
	return os.WriteFile(outPath, []byte("mp4"), 0o644)
}

type fakeRecorder struct {
	began     []string
	updated   [][]history.TrackRecord
	completed bool
	failed    []string
	uploaded  []string
}

func (r *fakeRecorder) Begin(_ context.Context, runID string, _ []history.TrackRecord) (int64, error) {
	r.began = append(r.began, runID)
	return 1, nil
}

func (r *fakeRecorder) UpdateTracks(_ context.Context, _ int64, tracks []history.TrackRecord) error {
	r.updated = append(r.updated, tracks)
	return nil
}

func (r *fakeRecorder) Complete(context.Context, int64, string, string) error {
	r.completed = true
	return nil
}

func (r *fakeRecorder) RecordUpload(_ context.Context, _ int64, videoID string) error {
	r.uploaded = append(r.uploaded, videoID)
	return nil
}

func (r *fakeRecorder) Fail(_ context.Context, _ int64, reason string) error {
	r.failed = append(r.failed, reason)
	return nil
}

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fakeConfirmer) Confirm(prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, nil
}

type fakePublisher struct {
	meta youtube.Metadata
	err  error
}

func (p *fakePublisher) Upload(_ context.Context, _ string, meta youtube.Metadata) (string, error) {
	p.meta = meta
	return "yt-123", p.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

func twoTracks() []catalog.Track {
	return []catalog.Track{
		{ID: 11, Name: "One", Artist: "A", PreviewURL: "https://p/1.m4a"},
		{ID: 22, Name: "Two", Artist: "B", PreviewURL: "https://p/2.m4a"},
	}
}

type deps struct {
	source    *fakeSource
	assembler *fakeAssembler
	renderer  *fakeRenderer
	recorder  *fakeRecorder
	confirmer *fakeConfirmer
	publisher *fakePublisher
}

func newGenerator(t *testing.T, cfg *config.Config, d deps) *pipeline.Generator {
	t.Helper()
	if d.source == nil {
		d.source = &fakeSource{tracks: twoTracks()}
	}
	if d.assembler == nil {
		d.assembler = &fakeAssembler{}
	}
	if d.renderer == nil {
		d.renderer = &fakeRenderer{}
	}
	if d.recorder == nil {
		d.recorder = &fakeRecorder{}
	}
	if d.confirmer == nil {
		d.confirmer = &fakeConfirmer{answer: true}
	}

	opts := []pipeline.GeneratorOption{pipeline.WithTempRoot(t.TempDir())}
	if d.publisher != nil {
		opts = append(opts, pipeline.WithPublisher(d.publisher))
	}
	g, err := pipeline.NewGenerator(cfg, d.source,
		func(workDir string) (pipeline.AudioAssembler, error) {
			if err := os.MkdirAll(workDir, 0o755); err != nil {
				return nil, err
			}
			return d.assembler, nil
		},
		func(workDir string) (pipeline.VideoRenderer, error) {
			if err := os.MkdirAll(workDir, 0o755); err != nil {
				return nil, err
			}
			return d.renderer, nil
		},
		d.recorder, d.confirmer, opts...)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func TestGenerateProducesTimestampedArtifacts(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	recorder := &fakeRecorder{}
	confirmer := &fakeConfirmer{answer: false} // must not be consulted
	g := newGenerator(t, cfg, deps{recorder: recorder, confirmer: confirmer})

	result, err := g.Generate(context.Background(), pipeline.GenerateOptions{TrackCount: 2})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// 1 + 2x(2+15) + 3 = 38s, under the 60s limit: no confirmation prompt.
	if len(confirmer.prompts) != 0 {
		t.Fatalf("unexpected confirmation prompts: %v", confirmer.prompts)
	}
	for _, path := range []string{result.AudioPath, result.VideoPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("artifact missing: %v", err)
		}
		if filepath.Dir(path) != cfg.Paths.OutputDir {
			t.Fatalf("artifact %s not in output dir", path)
		}
	}
	if result.Duration != 38 {
		t.Fatalf("duration %v, want 38", result.Duration)
	}
	if len(recorder.began) != 1 || !recorder.completed {
		t.Fatalf("history not recorded: %#v", recorder)
	}
	if result.RunID == "" {
		t.Fatal("missing run id")
	}
}

func TestGenerateAsksBeforeLongRuns(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	source := &fakeSource{tracks: twoTracks()}
	confirmer := &fakeConfirmer{answer: false}
	recorder := &fakeRecorder{}
	g := newGenerator(t, cfg, deps{source: source, recorder: recorder, confirmer: confirmer})

	// 1 + 5x(2+15) + 3 = 89s, over the 60s short-form limit.
	_, err := g.Generate(context.Background(), pipeline.GenerateOptions{TrackCount: 5})
	if !errors.Is(err, pipeline.ErrAborted) {
		t.Fatalf("got %v, want ErrAborted", err)
	}
	if len(confirmer.prompts) != 1 {
		t.Fatalf("got %d prompts, want 1", len(confirmer.prompts))
	}
	if len(recorder.began) != 0 {
		t.Fatal("declined run should not touch history")
	}
}

func TestGenerateRecordsSkippedTracks(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	recorder := &fakeRecorder{}
	assembler := &fakeAssembler{failIDs: map[int64]error{22: errors.New("download failed")}}
	g := newGenerator(t, cfg, deps{assembler: assembler, recorder: recorder})

	result, err := g.Generate(context.Background(), pipeline.GenerateOptions{TrackCount: 2})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Tracks) != 2 {
		t.Fatalf("got %d track results, want 2", len(result.Tracks))
	}
	if len(recorder.updated) != 1 {
		t.Fatalf("expected one track update, got %d", len(recorder.updated))
	}
	records := recorder.updated[0]
	if records[0].Skipped || !records[1].Skipped {
		t.Fatalf("skip flags wrong: %#v", records)
	}
}

func TestGenerateFailsWhenNothingProcessed(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	recorder := &fakeRecorder{}
	assembler := &fakeAssembler{failIDs: map[int64]error{
		11: errors.New("boom"),
		22: errors.New("boom"),
	}}
	g := newGenerator(t, cfg, deps{assembler: assembler, recorder: recorder})

	_, err := g.Generate(context.Background(), pipeline.GenerateOptions{TrackCount: 2})
	if err == nil {
		t.Fatal("expected error when no track processes")
	}
	if len(recorder.failed) != 1 {
		t.Fatalf("failure not recorded: %#v", recorder)
	}
}

func TestGenerateUploadsWhenRequested(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	recorder := &fakeRecorder{}
	publisher := &fakePublisher{}
	g := newGenerator(t, cfg, deps{recorder: recorder, publisher: publisher})

	result, err := g.Generate(context.Background(), pipeline.GenerateOptions{
		TrackCount: 2,
		Upload:     true,
		Title:      "My Blind Test",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.VideoID != "yt-123" {
		t.Fatalf("video id %q, want yt-123", result.VideoID)
	}
	if publisher.meta.Title != "My Blind Test" {
		t.Fatalf("title %q not passed through", publisher.meta.Title)
	}
	// The default description lists the answers in play order.
	if publisher.meta.Description == "" {
		t.Fatal("expected generated description")
	}
	if len(recorder.uploaded) != 1 || recorder.uploaded[0] != "yt-123" {
		t.Fatalf("upload not recorded: %#v", recorder.uploaded)
	}
}

func TestGenerateUploadWithoutPublisherReportsConfiguration(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	g := newGenerator(t, cfg, deps{})

	result, err := g.Generate(context.Background(), pipeline.GenerateOptions{
		TrackCount: 2,
		Upload:     true,
	})
	if err == nil {
		t.Fatal("expected configuration error")
	}
	// Artifacts were still produced; only the upload failed.
	if result == nil || result.VideoPath == "" {
		t.Fatal("expected artifacts despite upload failure")
	}
}

func TestGenerateCleansWorkDirectory(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	tempRoot := t.TempDir()
	recorder := &fakeRecorder{}
	g, err := pipeline.NewGenerator(cfg, &fakeSource{tracks: twoTracks()},
		func(workDir string) (pipeline.AudioAssembler, error) {
			if err := os.MkdirAll(workDir, 0o755); err != nil {
				return nil, err
			}
			return &fakeAssembler{}, nil
		},
		func(workDir string) (pipeline.VideoRenderer, error) {
			if err := os.MkdirAll(workDir, 0o755); err != nil {
				return nil, err
			}
			return &fakeRenderer{}, nil
		},
		recorder, &fakeConfirmer{answer: true},
		pipeline.WithTempRoot(tempRoot))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	if _, err := g.Generate(context.Background(), pipeline.GenerateOptions{TrackCount: 2}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	entries, err := os.ReadDir(tempRoot)
	if err != nil {
		t.Fatalf("read temp root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("work directory not cleaned up: %v", entries)
	}
}

func TestGenerateNoTracksFound(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	recorder := &fakeRecorder{}
	g := newGenerator(t, cfg, deps{source: &fakeSource{}, recorder: recorder})

	_, err := g.Generate(context.Background(), pipeline.GenerateOptions{TrackCount: 2})
	if err == nil {
		t.Fatal("expected error when no tracks are found")
	}
	if len(recorder.began) != 0 {
		t.Fatal("empty fetch should not create a history row")
	}
}
