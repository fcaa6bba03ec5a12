package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"blindtest/internal/logging"
	"blindtest/internal/services"
)

// State tracks where an Uploader is in its lifecycle.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateUploading       State = "uploading"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

// Metadata describes the video being published.
type Metadata struct {
	Title         string
	Description   string
	Tags          []string
	CategoryID    string
	PrivacyStatus string
}

// Inserter performs a single resumable insert attempt against the API.
// The production implementation wraps the generated YouTube client; tests
// substitute canned outcomes.
type Inserter interface {
	Insert(ctx context.Context, meta Metadata, media *os.File) (videoID string, err error)
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithUploaderLogger attaches a logger.
func WithUploaderLogger(logger *slog.Logger) UploaderOption {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logging.NewComponentLogger(logger, "youtube")
		}
	}
}

// WithMaxRetries overrides the retry cap.
func WithMaxRetries(n int) UploaderOption {
	return func(u *Uploader) {
		if n >= 0 {
			u.maxRetries = n
		}
	}
}

// WithUploaderRand injects a deterministic backoff source.
func WithUploaderRand(rng *rand.Rand) UploaderOption {
	return func(u *Uploader) {
		if rng != nil {
			u.rng = rng
		}
	}
}

// WithSleep replaces the backoff sleep, letting tests run instantly.
func WithSleep(sleep func(context.Context, time.Duration) error) UploaderOption {
	return func(u *Uploader) {
		if sleep != nil {
			u.sleep = sleep
		}
	}
}

const defaultMaxRetries = 10

// Uploader publishes a finished video, retrying transient failures with
// randomized exponential backoff until maxRetries is exhausted.
type Uploader struct {
	inserter   Inserter
	logger     *slog.Logger
	rng        *rand.Rand
	sleep      func(context.Context, time.Duration) error
	maxRetries int
	state      State
}

// NewUploader builds an Uploader around an authenticated Inserter.
func NewUploader(inserter Inserter, opts ...UploaderOption) (*Uploader, error) {
	if inserter == nil {
		return nil, fmt.Errorf("uploader requires an inserter")
	}
	u := &Uploader{
		inserter:   inserter,
		logger:     logging.NewNop(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:      sleepContext,
		maxRetries: defaultMaxRetries,
		state:      StateAuthenticated,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// State reports the uploader's current lifecycle state.
func (u *Uploader) State() State {
	return u.state
}

// Upload publishes the file at videoPath and returns the new video ID.
// Transient failures are retried; exhausting the retry budget or hitting a
// permanent error moves the uploader to StateFailed and returns the error;
// a failed upload never aborts the process.
func (u *Uploader) Upload(ctx context.Context, videoPath string, meta Metadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		u.state = StateFailed
		return "", services.Wrap(services.ErrValidation, "youtube", "upload", "open video file", err)
	}
	defer file.Close()

	u.state = StateUploading
	u.logger.Info("upload started",
		logging.String("path", videoPath),
		logging.String("title", meta.Title),
	)

	attempt := 0
	for {
		videoID, err := u.inserter.Insert(ctx, meta, file)
		if err == nil {
			u.state = StateDone
			u.logger.Info("upload complete", logging.String("video_id", videoID))
			return videoID, nil
		}
		if !Retriable(err) {
			u.state = StateFailed
			return "", services.Wrap(services.ErrExternalTool, "youtube", "upload", "insert video", err)
		}

		attempt++
		if attempt > u.maxRetries {
			u.state = StateFailed
			u.logger.Error("no longer attempting to retry",
				logging.Int("attempts", attempt-1),
				logging.Error(err),
			)
			return "", services.Wrap(services.ErrTransient, "youtube", "upload",
				fmt.Sprintf("gave up after %d retries", u.maxRetries), err)
		}

		delay := BackoffDelay(attempt, u.rng)
		u.logger.Warn("retriable upload error",
			logging.Int("attempt", attempt),
			logging.Duration("backoff", delay),
			logging.Error(err),
		)
		if _, err := file.Seek(0, 0); err != nil {
			u.state = StateFailed
			return "", services.Wrap(services.ErrValidation, "youtube", "upload", "rewind video file", err)
		}
		if err := u.sleep(ctx, delay); err != nil {
			u.state = StateFailed
			return "", err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
