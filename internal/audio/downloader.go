package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"blindtest/internal/logging"
)

const defaultDownloadTimeout = 30 * time.Second

// Downloader fetches preview audio (or artwork) to a local path.
type Downloader interface {
	Fetch(ctx context.Context, url, dest string) error
}

// HTTPDownloader downloads over plain HTTP with a fixed per-request timeout.
type HTTPDownloader struct {
	client   *http.Client
	logger   *slog.Logger
	progress bool
}

// DownloaderOption configures an HTTPDownloader.
type DownloaderOption func(*HTTPDownloader)

// WithDownloadTimeout overrides the per-request timeout.
func WithDownloadTimeout(timeout time.Duration) DownloaderOption {
	return func(d *HTTPDownloader) {
		if timeout > 0 {
			d.client.Timeout = timeout
		}
	}
}

// WithDownloaderLogger attaches a logger.
func WithDownloaderLogger(logger *slog.Logger) DownloaderOption {
	return func(d *HTTPDownloader) {
		if logger != nil {
			d.logger = logging.NewComponentLogger(logger, "download")
		}
	}
}

// WithProgressBar toggles the terminal progress bar. It is only shown when
// stderr is a TTY regardless of this setting.
func WithProgressBar(enabled bool) DownloaderOption {
	return func(d *HTTPDownloader) {
		d.progress = enabled
	}
}

// NewHTTPDownloader builds a downloader with the default 30s timeout.
func NewHTTPDownloader(opts ...DownloaderOption) *HTTPDownloader {
	d := &HTTPDownloader{
		client: &http.Client{Timeout: defaultDownloadTimeout},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads url into dest. Every failure comes back as an error value;
// callers decide whether to skip the item or abort.
func (d *HTTPDownloader) Fetch(ctx context.Context, url, dest string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("download url must not be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned %d", resp.StatusCode)
	}

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer file.Close()

	var writer io.Writer = file
	if d.progress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar := progressbar.DefaultBytes(resp.ContentLength, "downloading")
		writer = io.MultiWriter(file, bar)
	}

	written, err := io.Copy(writer, resp.Body)
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("close %s: %w", dest, err)
	}

	d.logger.Debug("download complete",
		logging.String("url", url),
		logging.String("dest", dest),
		logging.Int64("bytes", written),
	)
	return nil
}
