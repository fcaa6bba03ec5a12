// Package video renders the blind-test visuals: a fixed segment sequence
// (intro, per-track preroll, animated equalizer with countdown, answer
// reveal, outro) encoded as individual clips, concatenated, and muxed with
// the assembled audio. All frames are synthesized with ffmpeg filter
// graphs; no still assets are required beyond optional cover art.
package video
