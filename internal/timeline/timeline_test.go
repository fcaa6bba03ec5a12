package timeline_test

import (
	"math"
	"testing"

	"blindtest/internal/timeline"
)

func testOptions() timeline.Options {
	return timeline.Options{
		SnippetSeconds: 10,
		PauseSeconds:   2,
		IntroSeconds:   1,
		OutroSeconds:   1,
		AnswerSeconds:  4,
	}
}

func TestBuildTimingIdentity(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	tl, err := timeline.Build(3, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// intro + Σ(pause + snippet) + outro
	want := 1 + 3*(2+10) + 1.0
	if got := tl.Total(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected total %v, got %v", want, got)
	}
	if got := timeline.Estimate(3, opts); math.Abs(got-want) > 1e-9 {
		t.Fatalf("Estimate disagrees with Total: %v vs %v", got, want)
	}
}

func TestBuildSegmentSequence(t *testing.T) {
	t.Parallel()

	tl, err := timeline.Build(2, testOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	wantKinds := []timeline.Kind{
		timeline.KindIntro,
		timeline.KindPreRoll, timeline.KindPlaying, timeline.KindAnswer,
		timeline.KindPreRoll, timeline.KindPlaying, timeline.KindAnswer,
		timeline.KindOutro,
	}
	if len(tl) != len(wantKinds) {
		t.Fatalf("expected %d segments, got %d", len(wantKinds), len(tl))
	}
	for i, want := range wantKinds {
		if tl[i].Kind != want {
			t.Fatalf("segment %d: expected %s, got %s", i, want, tl[i].Kind)
		}
	}

	// Answer time is carved out of the snippet, not added on top.
	if tl[2].Duration != 6 {
		t.Fatalf("playing segment should be snippet-answer=6s, got %v", tl[2].Duration)
	}
	perTrack := tl[1].Duration + tl[2].Duration + tl[3].Duration
	if perTrack != 12 {
		t.Fatalf("per-track screen time should equal pause+snippet=12s, got %v", perTrack)
	}
	if tl[1].TrackIndex != 1 || tl[4].TrackIndex != 2 {
		t.Fatalf("track indexes wrong: %+v", tl)
	}
}

func TestEstimateScenarios(t *testing.T) {
	t.Parallel()

	opts := timeline.Options{SnippetSeconds: 10, PauseSeconds: 2, IntroSeconds: 1, OutroSeconds: 1}
	if got := timeline.Estimate(3, opts); got != 38 {
		t.Fatalf("expected 38s for 3 tracks, got %v", got)
	}
	if got := timeline.Estimate(6, opts); got != 74 {
		t.Fatalf("expected 74s for 6 tracks, got %v", got)
	}
}

func TestBuildRejectsBadInputs(t *testing.T) {
	t.Parallel()

	if _, err := timeline.Build(0, testOptions()); err == nil {
		t.Fatal("expected error for zero tracks")
	}
	opts := testOptions()
	opts.AnswerSeconds = opts.SnippetSeconds
	if _, err := timeline.Build(1, opts); err == nil {
		t.Fatal("expected error when answer swallows the snippet")
	}
}
