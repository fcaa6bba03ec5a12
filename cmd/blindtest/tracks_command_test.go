package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTracksCommandRendersSelection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultCount":2,"results":[
			{"trackId":1,"trackName":"Song One","artistName":"Artist A","previewUrl":"https://p/1.m4a","primaryGenreName":"rock","trackTimeMillis":30000},
			{"trackId":2,"trackName":"Song Two","artistName":"Artist B","previewUrl":"https://p/2.m4a","primaryGenreName":"pop","trackTimeMillis":30000}
		]}`)
	}))
	defer server.Close()

	configPath, _ := writeTestConfig(t, fmt.Sprintf("\n[catalog]\nbase_url = %q\n", server.URL))

	out, err := runCLI(t, configPath, "tracks", "--count", "2")
	if err != nil {
		t.Fatalf("tracks: %v", err)
	}
	requireContains(t, out, "Artist A")
	requireContains(t, out, "Song Two")
	// Genres are title-cased for display.
	requireContains(t, out, "Rock")
}
