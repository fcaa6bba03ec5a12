package history

import "time"

// Status represents the lifecycle of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusUploaded  Status = "uploaded"
	StatusFailed    Status = "failed"
)

// TrackRecord is the per-track detail persisted with a run.
type TrackRecord struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Artist  string `json:"artist"`
	Genre   string `json:"genre,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Run is one generation attempt, from track selection through optional
// upload.
type Run struct {
	ID             int64
	RunID          string
	Status         Status
	StartedAt      time.Time
	FinishedAt     time.Time
	Tracks         []TrackRecord
	AudioPath      string
	VideoPath      string
	YouTubeVideoID string
	ErrorMessage   string
}
