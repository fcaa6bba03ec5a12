// Package catalog queries the iTunes Search API for music previews.
//
// The client filters every search down to playable tracks (preview URL,
// title, and artist all present) and offers RandomTracks, which pools
// several randomly sampled genre searches, tops the pool up from generic
// fallback terms when needed, deduplicates by track identifier, and draws
// a uniform sample. Individual search failures are logged and skipped so a
// flaky network never aborts discovery outright.
package catalog
