package video_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blindtest/internal/catalog"
	"blindtest/internal/media/ffmpeg"
	"blindtest/internal/timeline"
	"blindtest/internal/video"
)

// fakeRunner records every ffmpeg invocation and creates the output file
// (always the final argument).
type fakeRunner struct {
	calls [][]string
}

func (r *fakeRunner) Run(_ context.Context, args ...string) error {
	r.calls = append(r.calls, args)
	return os.WriteFile(args[len(args)-1], []byte("mp4"), 0o644)
}

type fakeDownloader struct {
	failURLs map[string]error
	fetched  []string
}

func (d *fakeDownloader) Fetch(_ context.Context, url, dest string) error {
	if err, ok := d.failURLs[url]; ok {
		return err
	}
	d.fetched = append(d.fetched, url)
	return os.WriteFile(dest, []byte("jpg"), 0o644)
}

func testTracks() []catalog.Track {
	return []catalog.Track{
		{ID: 11, Name: "One", Artist: "A", ArtworkURL: "https://img.example/1.jpg"},
		{ID: 22, Name: "Two", Artist: "B", ArtworkURL: "https://img.example/2.jpg"},
	}
}

func testTimeline(t *testing.T) timeline.Timeline {
	t.Helper()
	tl, err := timeline.Build(2, timeline.Options{
		SnippetSeconds: 15, PauseSeconds: 2, IntroSeconds: 1,
		OutroSeconds: 3, AnswerSeconds: 4,
	})
	if err != nil {
		t.Fatalf("timeline.Build: %v", err)
	}
	return tl
}

func newRenderer(t *testing.T, runner ffmpeg.Runner, downloader *fakeDownloader) *video.Renderer {
	t.Helper()
	r, err := video.NewRenderer(t.TempDir(), runner, downloader)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRenderBuildsEverySegmentThenConcatsAndMuxes(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	downloader := &fakeDownloader{}
	r := newRenderer(t, runner, downloader)
	tl := testTimeline(t)

	out := filepath.Join(t.TempDir(), "blind_test.mp4")
	if err := r.Render(context.Background(), testTracks(), tl, "audio.wav", out); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// One ffmpeg call per segment, plus the concat and the mux.
	want := len(tl) + 2
	if len(runner.calls) != want {
		t.Fatalf("got %d ffmpeg calls, want %d", len(runner.calls), want)
	}
	if len(downloader.fetched) != 2 {
		t.Fatalf("got %d artwork downloads, want 2", len(downloader.fetched))
	}

	concat := runner.calls[len(tl)]
	if concat[0] != "-f" || concat[1] != "concat" {
		t.Fatalf("expected concat call, got %v", concat)
	}

	mux := strings.Join(runner.calls[len(tl)+1], " ")
	for _, fragment := range []string{
		"-i audio.wav", "-c:v copy", "-af apad", "-c:a aac", "-t 38.000",
	} {
		if !strings.Contains(mux, fragment) {
			t.Fatalf("mux call missing %q: %s", fragment, mux)
		}
	}
	if !strings.HasSuffix(mux, out) {
		t.Fatalf("mux does not write %s: %s", out, mux)
	}
}

func TestRenderPlayingSegmentCarriesEqualizerAndCountdown(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	r := newRenderer(t, runner, &fakeDownloader{})
	tl := testTimeline(t)

	out := filepath.Join(t.TempDir(), "blind_test.mp4")
	if err := r.Render(context.Background(), testTracks(), tl, "audio.wav", out); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Segment 2 is the first track's playing clip: intro, preroll, playing.
	playing := strings.Join(runner.calls[2], " ")
	if !strings.Contains(playing, "drawbox=") {
		t.Fatalf("playing segment lacks equalizer bars: %s", playing)
	}
	if !strings.Contains(playing, "enable='between(t,0,1)'") {
		t.Fatalf("playing segment lacks countdown overlay: %s", playing)
	}
	// Playing runs snippet-answer = 11s, so the countdown starts at 11.
	if !strings.Contains(playing, "text='11'") {
		t.Fatalf("countdown does not start at 11: %s", playing)
	}
}

func TestRenderDegradesToTextOnlyAnswerWhenArtworkFails(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	downloader := &fakeDownloader{failURLs: map[string]error{
		"https://img.example/1.jpg": errors.New("404"),
	}}
	r := newRenderer(t, runner, downloader)
	tl := testTimeline(t)

	out := filepath.Join(t.TempDir(), "blind_test.mp4")
	if err := r.Render(context.Background(), testTracks(), tl, "audio.wav", out); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Segment 3 is track one's answer, segment 6 is track two's.
	first := strings.Join(runner.calls[3], " ")
	if strings.Contains(first, "-filter_complex") {
		t.Fatalf("failed artwork should fall back to text-only: %s", first)
	}
	if !strings.Contains(first, "A - One") {
		t.Fatalf("answer caption missing: %s", first)
	}

	second := strings.Join(runner.calls[6], " ")
	if !strings.Contains(second, "-filter_complex") || !strings.Contains(second, "overlay=") {
		t.Fatalf("successful artwork should be overlaid: %s", second)
	}
}

func TestRenderRejectsEmptyTimeline(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, &fakeRunner{}, &fakeDownloader{})
	err := r.Render(context.Background(), nil, timeline.Timeline{}, "audio.wav", "out.mp4")
	if err == nil {
		t.Fatal("expected error for empty timeline")
	}
}

func TestRenderSegmentFailureSurfacesError(t *testing.T) {
	t.Parallel()

	runner := &failAfterRunner{failOn: 2}
	r := newRenderer(t, runner, &fakeDownloader{})
	tl := testTimeline(t)

	err := r.Render(context.Background(), testTracks(), tl, "audio.wav",
		filepath.Join(t.TempDir(), "out.mp4"))
	if err == nil {
		t.Fatal("expected error when a segment build fails")
	}
	if !strings.Contains(err.Error(), "segment 2") {
		t.Fatalf("error does not name the failing segment: %v", err)
	}
}

type failAfterRunner struct {
	calls  int
	failOn int
}

func (r *failAfterRunner) Run(_ context.Context, args ...string) error {
	defer func() { r.calls++ }()
	if r.calls == r.failOn {
		return errors.New("encoder crashed")
	}
	return os.WriteFile(args[len(args)-1], []byte("mp4"), 0o644)
}
