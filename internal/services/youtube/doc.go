// Package youtube publishes finished videos through the YouTube Data API.
//
// Authentication runs the OAuth installed-application flow: client secrets
// are read from disk, the resulting token is cached in a JSON file with
// restricted permissions, and refreshed tokens are written back so consent
// is only requested once. Uploads are resumable and chunked, with transient
// failures retried under randomized exponential backoff until a fixed retry
// budget is exhausted; a failed upload reports terminally instead of
// aborting the caller.
package youtube
