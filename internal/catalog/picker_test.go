package catalog

import (
	"math/rand"
	"testing"
)

func TestSampleTermsWithoutReplacement(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	terms := []string{"pop", "rock", "jazz"}
	sampled := sampleTerms(rng, terms, 5)
	if len(sampled) != 3 {
		t.Fatalf("expected sample capped at pool size, got %d", len(sampled))
	}
	seen := map[string]struct{}{}
	for _, term := range sampled {
		if _, ok := seen[term]; ok {
			t.Fatalf("term %q sampled twice", term)
		}
		seen[term] = struct{}{}
	}
	// Source slice must be untouched.
	if terms[0] != "pop" || terms[1] != "rock" || terms[2] != "jazz" {
		t.Fatalf("source slice mutated: %v", terms)
	}
}

func TestDedupeByIDKeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	tracks := []Track{
		{ID: 1, Name: "First", Artist: "A", PreviewURL: "u"},
		{ID: 2, Name: "Second", Artist: "B", PreviewURL: "u"},
		{ID: 1, Name: "Duplicate", Artist: "C", PreviewURL: "u"},
		{ID: 0, Name: "NoID", Artist: "D", PreviewURL: "u"},
	}
	unique := dedupeByID(tracks)
	if len(unique) != 2 {
		t.Fatalf("expected 2 unique tracks, got %d", len(unique))
	}
	if unique[0].Name != "First" || unique[1].Name != "Second" {
		t.Fatalf("unexpected dedupe result: %+v", unique)
	}
}

func TestSamplePoolSmallerThanCount(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	pool := []Track{{ID: 1}, {ID: 2}, {ID: 3}}
	sampled := samplePool(rng, pool, 10)
	if len(sampled) != len(pool) {
		t.Fatalf("expected pool size %d, got %d", len(pool), len(sampled))
	}
}

func TestSamplePoolUniqueSelection(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	pool := make([]Track, 20)
	for i := range pool {
		pool[i] = Track{ID: int64(i + 1)}
	}
	sampled := samplePool(rng, pool, 5)
	if len(sampled) != 5 {
		t.Fatalf("expected 5 tracks, got %d", len(sampled))
	}
	seen := map[int64]struct{}{}
	for _, track := range sampled {
		if _, ok := seen[track.ID]; ok {
			t.Fatalf("track %d sampled twice", track.ID)
		}
		seen[track.ID] = struct{}{}
	}
}

func TestUpgradeArtwork(t *testing.T) {
	t.Parallel()

	got := upgradeArtwork("https://example.com/cover/100x100bb.jpg")
	want := "https://example.com/cover/600x600bb.jpg"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if upgradeArtwork("") != "" {
		t.Fatal("empty artwork should stay empty")
	}
}
