package fileutil

import (
	"testing"
	"time"
)

func TestTimestampedName(t *testing.T) {
	ts := time.Date(2024, 1, 31, 15, 42, 11, 0, time.UTC)
	got := TimestampedName("blind_test_audio", "wav", ts)
	want := "blind_test_audio_20240131_154211.wav"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
