// Package audio turns track previews into the continuous blind-test audio
// stream: it downloads each preview, cuts a loudness-normalized faded
// snippet from a random mid-track window, and stitches snippets together
// with silence gaps, exporting the result as WAV. Tracks that fail to
// download or process are skipped with their failure recorded; the rest
// keep their relative order.
package audio
