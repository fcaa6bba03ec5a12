// Package ffprobe shells out to ffprobe to inspect downloaded previews and
// rendered artifacts (duration, stream layout).
package ffprobe
