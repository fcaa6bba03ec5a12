// Package ffmpeg wraps subprocess execution of the ffmpeg binary behind a
// small Runner interface so the audio and video stages can be tested
// without media tooling installed.
package ffmpeg
