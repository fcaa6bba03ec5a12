// Package services holds shared error markers for the external
// collaborators the pipeline talks to (catalog search, preview downloads,
// ffmpeg invocations, YouTube uploads).
package services
