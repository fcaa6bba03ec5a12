package fileutil

import (
	"fmt"
	"time"
)

// TimestampedName builds an artifact file name like
// blind_test_audio_20240131_154211.wav, keeping output directories sortable
// by creation time.
func TimestampedName(prefix, ext string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, ts.Format("20060102_150405"), ext)
}
